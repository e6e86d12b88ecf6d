// Package fanout implements the real-time event hub: it owns the set of
// currently connected listeners and broadcasts every published event to all
// of them. Delivery is best-effort and at-most-once; a listener that cannot
// keep up is evicted rather than allowed to block the publisher or other
// listeners. The hub knows nothing about domain entities or which user a
// listener belongs to - every listener receives every event.
package fanout

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/shared"
)

// DefaultBufferSize is the per-listener outbound queue length used when the
// config does not specify one.
const DefaultBufferSize = 32

// ══════════════════════════════════════════════════════════════════════════════
// LISTENER
// ══════════════════════════════════════════════════════════════════════════════

// Listener is a live subscription to the event stream. It is created by
// Subscribe and owned by the hub until Unsubscribe; the transport drains
// Events until Done is closed.
type Listener struct {
	id   uuid.UUID
	ch   chan shared.Envelope
	done chan struct{}
	once sync.Once
}

// ID returns the opaque handle identifying this listener.
func (l *Listener) ID() string { return l.id.String() }

// Events is the ordered stream of envelopes for this listener. Events are
// delivered in publish order; the channel is never closed, consumers must
// also select on Done.
func (l *Listener) Events() <-chan shared.Envelope { return l.ch }

// Done is closed when the listener is unsubscribed or evicted.
func (l *Listener) Done() <-chan struct{} { return l.done }

func (l *Listener) close() {
	l.once.Do(func() { close(l.done) })
}

// ══════════════════════════════════════════════════════════════════════════════
// HUB
// ══════════════════════════════════════════════════════════════════════════════

// Config contains hub configuration.
type Config struct {
	// BufferSize is the per-listener outbound queue length. A listener
	// whose queue is full when an event arrives is evicted.
	BufferSize int

	// Logger for structured logging.
	Logger *slog.Logger
}

// Hub maintains the live listener set. One instance is created at process
// startup and passed to everything that publishes; there is no package
// global.
type Hub struct {
	mu        sync.RWMutex
	listeners map[uuid.UUID]*Listener
	bufSize   int
	logger    *slog.Logger
	closed    bool

	metrics Metrics
}

// NewHub creates an empty hub.
func NewHub(cfg Config) *Hub {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultBufferSize
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Hub{
		listeners: make(map[uuid.UUID]*Listener),
		bufSize:   cfg.BufferSize,
		logger:    cfg.Logger,
	}
}

// Subscribe registers a new listener and returns its handle. The listener
// becomes a broadcast target immediately. The caller is responsible for
// unsubscribing it when the connection closes.
func (h *Hub) Subscribe() *Listener {
	l := &Listener{
		id:   uuid.New(),
		ch:   make(chan shared.Envelope, h.bufSize),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		l.close()
		return l
	}
	h.listeners[l.id] = l
	n := len(h.listeners)
	h.mu.Unlock()

	h.metrics.subscribed.Add(1)
	h.logger.Debug("listener subscribed", "listener_id", l.ID(), "listeners", n)
	return l
}

// Unsubscribe removes a listener. It is idempotent: removing an unknown or
// already-removed listener is a no-op, never an error.
func (h *Hub) Unsubscribe(l *Listener) {
	if l == nil {
		return
	}

	h.mu.Lock()
	_, present := h.listeners[l.id]
	delete(h.listeners, l.id)
	n := len(h.listeners)
	h.mu.Unlock()

	l.close()
	if present {
		h.logger.Debug("listener unsubscribed", "listener_id", l.ID(), "listeners", n)
	}
}

// Publish delivers the event to every listener subscribed at call time.
// It never fails: a listener whose queue is full or whose connection is
// gone is evicted and delivery continues to the rest. The listener set is
// snapshotted under a brief read lock; sends happen outside it so a slow
// consumer cannot block new subscriptions.
func (h *Hub) Publish(event shared.Event) {
	env := shared.NewEnvelope(event)

	h.mu.RLock()
	if h.closed {
		h.mu.RUnlock()
		return
	}
	snapshot := make([]*Listener, 0, len(h.listeners))
	for _, l := range h.listeners {
		snapshot = append(snapshot, l)
	}
	h.mu.RUnlock()

	h.metrics.published.Add(1)

	var evicted []*Listener
	for _, l := range snapshot {
		select {
		case <-l.done:
			// Already gone; sweep it out below.
			evicted = append(evicted, l)
		case l.ch <- env:
			h.metrics.delivered.Add(1)
		default:
			// Full queue: the consumer is too slow. Backpressure is
			// resolved by eviction, not buffering.
			evicted = append(evicted, l)
			h.metrics.evicted.Add(1)
			h.logger.Warn("evicting slow listener",
				"listener_id", l.ID(),
				"event_type", event.Type(),
			)
		}
	}

	for _, l := range evicted {
		h.Unsubscribe(l)
	}
}

// Len returns the number of currently connected listeners.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners)
}

// Close evicts every listener and rejects further subscriptions. Publish
// on a closed hub is a no-op.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	remaining := make([]*Listener, 0, len(h.listeners))
	for _, l := range h.listeners {
		remaining = append(remaining, l)
	}
	h.listeners = make(map[uuid.UUID]*Listener)
	h.mu.Unlock()

	for _, l := range remaining {
		l.close()
	}
	h.logger.Info("fanout hub closed", "evicted", len(remaining))
}

// ══════════════════════════════════════════════════════════════════════════════
// METRICS
// ══════════════════════════════════════════════════════════════════════════════

// Metrics tracks hub delivery counters.
type Metrics struct {
	subscribed atomic.Int64
	published  atomic.Int64
	delivered  atomic.Int64
	evicted    atomic.Int64
}

// MetricsSnapshot is a point-in-time copy of the hub counters.
type MetricsSnapshot struct {
	Subscribed int64 `json:"subscribed_total"`
	Published  int64 `json:"published_total"`
	Delivered  int64 `json:"delivered_total"`
	Evicted    int64 `json:"evicted_total"`
	Listeners  int   `json:"listeners"`
}

// Metrics returns a snapshot of the hub counters.
func (h *Hub) Metrics() MetricsSnapshot {
	return MetricsSnapshot{
		Subscribed: h.metrics.subscribed.Load(),
		Published:  h.metrics.published.Load(),
		Delivered:  h.metrics.delivered.Load(),
		Evicted:    h.metrics.evicted.Load(),
		Listeners:  h.Len(),
	}
}
