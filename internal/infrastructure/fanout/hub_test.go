package fanout

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/shared"
)

type testEvent struct {
	kind shared.EventType
	data any
}

func (e testEvent) Type() shared.EventType { return e.kind }
func (e testEvent) Data() any              { return e.data }

func recv(t *testing.T, l *Listener) shared.Envelope {
	t.Helper()
	select {
	case env := <-l.Events():
		return env
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return shared.Envelope{}
	}
}

func TestPublishReachesAllListeners(t *testing.T) {
	hub := NewHub(Config{})
	defer hub.Close()

	a := hub.Subscribe()
	b := hub.Subscribe()
	require.Equal(t, 2, hub.Len())

	hub.Publish(testEvent{kind: "lesson_accepted", data: map[string]int{"id": 100}})

	for _, l := range []*Listener{a, b} {
		env := recv(t, l)
		assert.EqualValues(t, "lesson_accepted", env.Type)
	}
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	hub := NewHub(Config{})
	defer hub.Close()

	l := hub.Subscribe()
	hub.Unsubscribe(l)
	hub.Unsubscribe(l) // second removal is a no-op
	hub.Unsubscribe(nil)
	assert.Equal(t, 0, hub.Len())

	select {
	case <-l.Done():
	default:
		t.Fatal("done channel must be closed after unsubscribe")
	}
}

func TestUnsubscribedListenerReceivesNothing(t *testing.T) {
	hub := NewHub(Config{})
	defer hub.Close()

	gone := hub.Subscribe()
	stays := hub.Subscribe()
	hub.Unsubscribe(gone)

	hub.Publish(testEvent{kind: "news_created"})

	recv(t, stays)
	select {
	case <-gone.Events():
		t.Fatal("unsubscribed listener must not receive events")
	default:
	}
}

func TestSlowListenerIsEvicted(t *testing.T) {
	hub := NewHub(Config{BufferSize: 2})
	defer hub.Close()

	slow := hub.Subscribe()
	fast := hub.Subscribe()

	// Fill the slow listener's queue without draining it, then publish one
	// more. The overflow must evict slow and still reach fast.
	for i := 0; i < 3; i++ {
		hub.Publish(testEvent{kind: shared.EventType(fmt.Sprintf("ev_%d", i))})
		recv(t, fast)
	}

	assert.Equal(t, 1, hub.Len())
	select {
	case <-slow.Done():
	case <-time.After(time.Second):
		t.Fatal("slow listener should have been evicted")
	}
	assert.EqualValues(t, 1, hub.Metrics().Evicted)
}

func TestPerListenerOrdering(t *testing.T) {
	hub := NewHub(Config{BufferSize: 64})
	defer hub.Close()

	l := hub.Subscribe()
	for i := 0; i < 50; i++ {
		hub.Publish(testEvent{kind: "tick", data: i})
	}

	for i := 0; i < 50; i++ {
		env := recv(t, l)
		assert.Equal(t, i, env.Data, "events must arrive in publish order")
	}
}

func TestConcurrentPublishAndChurn(t *testing.T) {
	hub := NewHub(Config{BufferSize: 8})
	defer hub.Close()

	var wg sync.WaitGroup

	// Publishers.
	for p := 0; p < 4; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				hub.Publish(testEvent{kind: "churn"})
			}
		}()
	}

	// Subscribers connecting and disconnecting mid-publish. None of this
	// may panic or deadlock, and no send error may reach a publisher.
	for s := 0; s < 8; s++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				l := hub.Subscribe()
				select {
				case <-l.Events():
				case <-time.After(time.Millisecond):
				}
				hub.Unsubscribe(l)
			}
		}()
	}

	wg.Wait()
}

func TestClose(t *testing.T) {
	hub := NewHub(Config{})
	l := hub.Subscribe()

	hub.Close()
	select {
	case <-l.Done():
	default:
		t.Fatal("close must evict all listeners")
	}

	// After close the hub is inert.
	hub.Publish(testEvent{kind: "ignored"})
	post := hub.Subscribe()
	select {
	case <-post.Done():
	default:
		t.Fatal("subscribe after close must return a closed listener")
	}
}
