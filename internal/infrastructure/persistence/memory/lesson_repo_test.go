package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/lesson"
	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/shared"
)

func createLesson(t *testing.T, repo *LessonRepository) *lesson.Lesson {
	t.Helper()
	l, err := lesson.New(1, 3, "Geometry", lesson.KindOnline, time.Now().Add(24*time.Hour), 60)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), l))
	return l
}

func TestCreateAssignsIDs(t *testing.T) {
	repo := NewLessonRepository()

	a := createLesson(t, repo)
	b := createLesson(t, repo)
	assert.EqualValues(t, 1, a.ID)
	assert.EqualValues(t, 2, b.ID)
}

func TestGetByIDReturnsCopy(t *testing.T) {
	repo := NewLessonRepository()
	created := createLesson(t, repo)

	got, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)

	// Mutating the returned snapshot must not leak into the store.
	got.Title = "tampered"
	again, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Geometry", again.Title)
}

func TestGetByIDNotFound(t *testing.T) {
	repo := NewLessonRepository()

	_, err := repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestUpdateAtomicAbortsOnMutatorError(t *testing.T) {
	repo := NewLessonRepository()
	created := createLesson(t, repo)

	boom := errors.New("boom")
	_, err := repo.UpdateAtomic(context.Background(), created.ID, func(l *lesson.Lesson) error {
		l.Status = lesson.StatusCancelled
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, lesson.StatusRequested, got.Status, "aborted mutation must not persist")
}

func TestConcurrentAcceptExactlyOneWins(t *testing.T) {
	repo := NewLessonRepository()
	created := createLesson(t, repo)

	const contenders = 16
	var wg sync.WaitGroup
	errs := make([]error, contenders)

	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.UpdateAtomic(context.Background(), created.ID, func(l *lesson.Lesson) error {
				return l.Accept(int64(i + 1))
			})
		}(i)
	}
	wg.Wait()

	var wins, losses int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, shared.ErrStateTransition):
			losses++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, wins, "exactly one accept must win")
	assert.Equal(t, contenders-1, losses)

	final, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, lesson.StatusAccepted, final.Status)
	require.NotNil(t, final.VolunteerID)
}

func TestListFilters(t *testing.T) {
	repo := NewLessonRepository()
	ctx := context.Background()

	first := createLesson(t, repo)
	second := createLesson(t, repo)
	_, err := repo.UpdateAtomic(ctx, second.ID, func(l *lesson.Lesson) error {
		return l.Accept(7)
	})
	require.NoError(t, err)

	requested, err := repo.List(ctx, lesson.Filter{Status: lesson.StatusRequested})
	require.NoError(t, err)
	require.Len(t, requested, 1)
	assert.Equal(t, first.ID, requested[0].ID)

	byVolunteer, err := repo.List(ctx, lesson.Filter{VolunteerID: 7})
	require.NoError(t, err)
	require.Len(t, byVolunteer, 1)
	assert.Equal(t, second.ID, byVolunteer[0].ID)
}

func TestListNegativeOffsetTreatedAsZero(t *testing.T) {
	repo := NewLessonRepository()
	ctx := context.Background()

	created := createLesson(t, repo)

	// Clients can send offset=-1; it must page from the start, not panic.
	got, err := repo.List(ctx, lesson.Filter{Offset: -1})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, created.ID, got[0].ID)

	available, err := repo.ListAvailable(ctx, lesson.AvailableFilter{Offset: -1})
	require.NoError(t, err)
	assert.Len(t, available, 1)
}

func TestListAvailableExcludesClaimed(t *testing.T) {
	repo := NewLessonRepository()
	ctx := context.Background()

	open := createLesson(t, repo)
	claimed := createLesson(t, repo)
	_, err := repo.UpdateAtomic(ctx, claimed.ID, func(l *lesson.Lesson) error {
		return l.Accept(7)
	})
	require.NoError(t, err)

	available, err := repo.ListAvailable(ctx, lesson.AvailableFilter{})
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, open.ID, available[0].ID)
}
