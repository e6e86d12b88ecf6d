package command

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/lesson"
	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/profile"
	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/shared"
	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/subject"
	"github.com/voluntaria-hub/voluntaria-backend/internal/infrastructure/persistence/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capturePublisher records broadcast events for assertions.
type capturePublisher struct {
	mu     sync.Mutex
	events []shared.Event
}

func (p *capturePublisher) Publish(e shared.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *capturePublisher) types() []shared.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]shared.EventType, len(p.events))
	for i, e := range p.events {
		types[i] = e.Type()
	}
	return types
}

type fixture struct {
	store     *memory.Store
	publisher *capturePublisher

	learnerID   int64
	volunteerID int64
	subjectID   int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	learnerUser, err := profile.NewUser("learner@voluntaria.org", "hash", "Lia Learner", profile.RoleLearner)
	require.NoError(t, err)
	require.NoError(t, store.Users.Create(ctx, learnerUser))
	learner, err := profile.NewLearner(learnerUser.ID)
	require.NoError(t, err)
	require.NoError(t, store.Learners.Create(ctx, learner))

	volunteerUser, err := profile.NewUser("volunteer@voluntaria.org", "hash", "Vera Volunteer", profile.RoleVolunteer)
	require.NoError(t, err)
	require.NoError(t, store.Users.Create(ctx, volunteerUser))
	volunteer, err := profile.NewVolunteer(volunteerUser.ID, profile.VolunteerTeacher)
	require.NoError(t, err)
	require.NoError(t, store.Volunteers.Create(ctx, volunteer))

	subj, err := subject.New("Matemática", "", "", "exatas")
	require.NoError(t, err)
	require.NoError(t, store.Subjects.Create(ctx, subj))

	return &fixture{
		store:       store,
		publisher:   &capturePublisher{},
		learnerID:   learner.ID,
		volunteerID: volunteer.ID,
		subjectID:   subj.ID,
	}
}

func (f *fixture) requestLesson(t *testing.T) *lesson.Lesson {
	t.Helper()
	h := NewRequestLessonHandler(f.store.Lessons, f.store.Learners, f.store.Subjects, f.publisher)
	l, err := h.Handle(context.Background(), RequestLessonCommand{
		LearnerID:   f.learnerID,
		SubjectID:   f.subjectID,
		Title:       "Frações",
		Kind:        lesson.KindOnline,
		ScheduledAt: time.Now().Add(48 * time.Hour),
	})
	require.NoError(t, err)
	return l
}

func (f *fixture) acceptLesson(t *testing.T, lessonID int64) *lesson.Lesson {
	t.Helper()
	h := NewAcceptLessonHandler(f.store.Lessons, f.store.Volunteers, f.publisher)
	l, err := h.Handle(context.Background(), AcceptLessonCommand{LessonID: lessonID, VolunteerID: f.volunteerID})
	require.NoError(t, err)
	return l
}

// ─────────────────────────────────────────────────────────────────────────────
// Request
// ─────────────────────────────────────────────────────────────────────────────

func TestRequestLesson(t *testing.T) {
	f := newFixture(t)

	l := f.requestLesson(t)

	assert.Equal(t, lesson.StatusRequested, l.Status)
	assert.Nil(t, l.VolunteerID)
	assert.Equal(t, lesson.DefaultDurationMinutes, l.DurationMinutes)
	assert.Equal(t, []shared.EventType{shared.EventLessonRequested}, f.publisher.types())
}

func TestRequestLessonUnknownLearner(t *testing.T) {
	f := newFixture(t)
	h := NewRequestLessonHandler(f.store.Lessons, f.store.Learners, f.store.Subjects, f.publisher)

	_, err := h.Handle(context.Background(), RequestLessonCommand{
		LearnerID:   999,
		SubjectID:   f.subjectID,
		Title:       "Frações",
		Kind:        lesson.KindOnline,
		ScheduledAt: time.Now(),
	})

	assert.ErrorIs(t, err, shared.ErrLearnerNotFound)
	assert.Empty(t, f.publisher.types())
}

func TestRequestLessonUnknownSubject(t *testing.T) {
	f := newFixture(t)
	h := NewRequestLessonHandler(f.store.Lessons, f.store.Learners, f.store.Subjects, f.publisher)

	_, err := h.Handle(context.Background(), RequestLessonCommand{
		LearnerID:   f.learnerID,
		SubjectID:   999,
		Title:       "Frações",
		Kind:        lesson.KindOnline,
		ScheduledAt: time.Now(),
	})

	assert.ErrorIs(t, err, shared.ErrSubjectNotFound)
	assert.Empty(t, f.publisher.types())
}

// ─────────────────────────────────────────────────────────────────────────────
// Accept
// ─────────────────────────────────────────────────────────────────────────────

func TestAcceptLesson(t *testing.T) {
	f := newFixture(t)
	l := f.requestLesson(t)

	accepted := f.acceptLesson(t, l.ID)

	assert.Equal(t, lesson.StatusAccepted, accepted.Status)
	require.NotNil(t, accepted.VolunteerID)
	assert.Equal(t, f.volunteerID, *accepted.VolunteerID)
	assert.Equal(t,
		[]shared.EventType{shared.EventLessonRequested, shared.EventLessonAccepted},
		f.publisher.types(),
	)
}

func TestAcceptLessonUnknownVolunteer(t *testing.T) {
	f := newFixture(t)
	l := f.requestLesson(t)

	h := NewAcceptLessonHandler(f.store.Lessons, f.store.Volunteers, f.publisher)
	_, err := h.Handle(context.Background(), AcceptLessonCommand{LessonID: l.ID, VolunteerID: 999})

	assert.ErrorIs(t, err, shared.ErrVolunteerNotFound)
}

func TestAcceptLessonAlreadyClaimed(t *testing.T) {
	f := newFixture(t)
	l := f.requestLesson(t)
	f.acceptLesson(t, l.ID)

	before := len(f.publisher.types())
	h := NewAcceptLessonHandler(f.store.Lessons, f.store.Volunteers, f.publisher)
	_, err := h.Handle(context.Background(), AcceptLessonCommand{LessonID: l.ID, VolunteerID: f.volunteerID})

	assert.ErrorIs(t, err, shared.ErrStateTransition)
	assert.Len(t, f.publisher.types(), before, "failed accept must not broadcast")
}

func TestConcurrentAcceptsExactlyOneWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Register extra volunteers to race with.
	const racers = 8
	volunteerIDs := make([]int64, racers)
	volunteerIDs[0] = f.volunteerID
	for i := 1; i < racers; i++ {
		u, err := profile.NewUser(
			"racer"+string(rune('a'+i))+"@voluntaria.org", "hash", "Racer", profile.RoleVolunteer)
		require.NoError(t, err)
		require.NoError(t, f.store.Users.Create(ctx, u))
		v, err := profile.NewVolunteer(u.ID, profile.VolunteerStudent)
		require.NoError(t, err)
		require.NoError(t, f.store.Volunteers.Create(ctx, v))
		volunteerIDs[i] = v.ID
	}

	l := f.requestLesson(t)
	h := NewAcceptLessonHandler(f.store.Lessons, f.store.Volunteers, f.publisher)

	var wg sync.WaitGroup
	errs := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = h.Handle(ctx, AcceptLessonCommand{LessonID: l.ID, VolunteerID: volunteerIDs[i]})
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, shared.ErrStateTransition)
		}
	}
	assert.Equal(t, 1, wins, "exactly one accept must win")

	stored, err := f.store.Lessons.GetByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, lesson.StatusAccepted, stored.Status)

	accepts := 0
	for _, typ := range f.publisher.types() {
		if typ == shared.EventLessonAccepted {
			accepts++
		}
	}
	assert.Equal(t, 1, accepts, "only the winner broadcasts")
}

// ─────────────────────────────────────────────────────────────────────────────
// Confirm
// ─────────────────────────────────────────────────────────────────────────────

func TestConfirmLesson(t *testing.T) {
	f := newFixture(t)
	l := f.requestLesson(t)
	f.acceptLesson(t, l.ID)

	h := NewConfirmLessonHandler(f.store.Lessons, f.publisher)
	confirmed, err := h.Handle(context.Background(), ConfirmLessonCommand{LessonID: l.ID, LearnerID: f.learnerID})

	require.NoError(t, err)
	assert.Equal(t, lesson.StatusConfirmed, confirmed.Status)
	assert.Contains(t, f.publisher.types(), shared.EventLessonConfirmed)
}

func TestConfirmLessonRequiresOwnLearner(t *testing.T) {
	f := newFixture(t)
	l := f.requestLesson(t)
	f.acceptLesson(t, l.ID)

	before := len(f.publisher.types())
	h := NewConfirmLessonHandler(f.store.Lessons, f.publisher)
	_, err := h.Handle(context.Background(), ConfirmLessonCommand{LessonID: l.ID, LearnerID: 999})

	assert.ErrorIs(t, err, shared.ErrForbidden)
	assert.Len(t, f.publisher.types(), before)
}

func TestConfirmLessonBeforeAccept(t *testing.T) {
	f := newFixture(t)
	l := f.requestLesson(t)

	h := NewConfirmLessonHandler(f.store.Lessons, f.publisher)
	_, err := h.Handle(context.Background(), ConfirmLessonCommand{LessonID: l.ID, LearnerID: f.learnerID})

	assert.ErrorIs(t, err, shared.ErrStateTransition)
}

// ─────────────────────────────────────────────────────────────────────────────
// Complete
// ─────────────────────────────────────────────────────────────────────────────

type captureMirror struct {
	mu     sync.Mutex
	scores map[int64]int64
}

func (m *captureMirror) SetScore(_ context.Context, volunteerID, points int64, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.scores == nil {
		m.scores = make(map[int64]int64)
	}
	m.scores[volunteerID] = points
	return nil
}

func TestCompleteLessonCreditsVolunteer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	l := f.requestLesson(t)
	f.acceptLesson(t, l.ID)

	mirror := &captureMirror{}
	h := NewCompleteLessonHandler(f.store.Lessons, f.store.Volunteers, f.store.Users, mirror, f.publisher, nil)

	rating := lesson.Rating(5)
	completed, err := h.Handle(ctx, CompleteLessonCommand{
		LessonID:  l.ID,
		LearnerID: f.learnerID,
		Rating:    &rating,
		Feedback:  "Excelente aula",
	})
	require.NoError(t, err)

	assert.Equal(t, lesson.StatusCompleted, completed.Status)
	require.NotNil(t, completed.Rating)
	assert.Equal(t, lesson.Rating(5), *completed.Rating)

	v, err := f.store.Volunteers.GetByID(ctx, f.volunteerID)
	require.NoError(t, err)
	assert.Equal(t, int64(lesson.CompletionPoints), v.TotalPoints)
	assert.Equal(t, int64(1), v.TotalLessons)

	assert.Equal(t, int64(lesson.CompletionPoints), mirror.scores[f.volunteerID])
	assert.Contains(t, f.publisher.types(), shared.EventLessonCompleted)
}

func TestCompleteLessonFromAccepted(t *testing.T) {
	f := newFixture(t)
	l := f.requestLesson(t)
	f.acceptLesson(t, l.ID)

	h := NewCompleteLessonHandler(f.store.Lessons, f.store.Volunteers, f.store.Users, nil, f.publisher, nil)
	completed, err := h.Handle(context.Background(), CompleteLessonCommand{LessonID: l.ID, LearnerID: f.learnerID})

	require.NoError(t, err)
	assert.Equal(t, lesson.StatusCompleted, completed.Status)
	assert.Nil(t, completed.Rating)
}

func TestCompleteLessonInvalidRatingLeavesStateUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	l := f.requestLesson(t)
	f.acceptLesson(t, l.ID)

	h := NewCompleteLessonHandler(f.store.Lessons, f.store.Volunteers, f.store.Users, nil, f.publisher, nil)
	bad := lesson.Rating(6)
	_, err := h.Handle(ctx, CompleteLessonCommand{LessonID: l.ID, LearnerID: f.learnerID, Rating: &bad})

	assert.ErrorIs(t, err, shared.ErrInvalidRating)

	stored, err := f.store.Lessons.GetByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, lesson.StatusAccepted, stored.Status)

	v, err := f.store.Volunteers.GetByID(ctx, f.volunteerID)
	require.NoError(t, err)
	assert.Zero(t, v.TotalPoints, "failed completion must not credit points")
}

func TestCompleteLessonTwice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	l := f.requestLesson(t)
	f.acceptLesson(t, l.ID)

	h := NewCompleteLessonHandler(f.store.Lessons, f.store.Volunteers, f.store.Users, nil, f.publisher, nil)
	_, err := h.Handle(ctx, CompleteLessonCommand{LessonID: l.ID, LearnerID: f.learnerID})
	require.NoError(t, err)

	_, err = h.Handle(ctx, CompleteLessonCommand{LessonID: l.ID, LearnerID: f.learnerID})
	assert.ErrorIs(t, err, shared.ErrStateTransition)

	v, err := f.store.Volunteers.GetByID(ctx, f.volunteerID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.TotalLessons, "double completion must not double-credit")
}

// ─────────────────────────────────────────────────────────────────────────────
// Cancel
// ─────────────────────────────────────────────────────────────────────────────

func TestCancelLessonByLearner(t *testing.T) {
	f := newFixture(t)
	l := f.requestLesson(t)

	h := NewCancelLessonHandler(f.store.Lessons, f.publisher)
	cancelled, err := h.Handle(context.Background(), CancelLessonCommand{
		LessonID: l.ID, ActorID: f.learnerID, ActorRole: profile.RoleLearner,
	})

	require.NoError(t, err)
	assert.Equal(t, lesson.StatusCancelled, cancelled.Status)
	assert.Contains(t, f.publisher.types(), shared.EventLessonCancelled)
}

func TestCancelLessonByAssignedVolunteer(t *testing.T) {
	f := newFixture(t)
	l := f.requestLesson(t)
	f.acceptLesson(t, l.ID)

	h := NewCancelLessonHandler(f.store.Lessons, f.publisher)
	cancelled, err := h.Handle(context.Background(), CancelLessonCommand{
		LessonID: l.ID, ActorID: f.volunteerID, ActorRole: profile.RoleVolunteer,
	})

	require.NoError(t, err)
	assert.Equal(t, lesson.StatusCancelled, cancelled.Status)
}

func TestCancelLessonByStranger(t *testing.T) {
	f := newFixture(t)
	l := f.requestLesson(t)

	h := NewCancelLessonHandler(f.store.Lessons, f.publisher)
	_, err := h.Handle(context.Background(), CancelLessonCommand{
		LessonID: l.ID, ActorID: f.volunteerID, ActorRole: profile.RoleVolunteer,
	})

	assert.ErrorIs(t, err, shared.ErrForbidden, "unassigned volunteer is not a party")
}

func TestCancelLessonIdempotent(t *testing.T) {
	f := newFixture(t)
	l := f.requestLesson(t)

	h := NewCancelLessonHandler(f.store.Lessons, f.publisher)
	cmd := CancelLessonCommand{LessonID: l.ID, ActorID: f.learnerID, ActorRole: profile.RoleLearner}

	_, err := h.Handle(context.Background(), cmd)
	require.NoError(t, err)
	before := len(f.publisher.types())

	_, err = h.Handle(context.Background(), cmd)
	require.NoError(t, err)
	assert.Len(t, f.publisher.types(), before, "repeat cancel must not re-broadcast")
}

func TestCancelCompletedLessonFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	l := f.requestLesson(t)
	f.acceptLesson(t, l.ID)

	complete := NewCompleteLessonHandler(f.store.Lessons, f.store.Volunteers, f.store.Users, nil, f.publisher, nil)
	_, err := complete.Handle(ctx, CompleteLessonCommand{LessonID: l.ID, LearnerID: f.learnerID})
	require.NoError(t, err)

	h := NewCancelLessonHandler(f.store.Lessons, f.publisher)
	_, err = h.Handle(ctx, CancelLessonCommand{
		LessonID: l.ID, ActorID: f.learnerID, ActorRole: profile.RoleLearner,
	})
	assert.ErrorIs(t, err, shared.ErrStateTransition)
}

// ─────────────────────────────────────────────────────────────────────────────
// Update
// ─────────────────────────────────────────────────────────────────────────────

func TestUpdateLesson(t *testing.T) {
	f := newFixture(t)
	l := f.requestLesson(t)

	title := "Frações e decimais"
	link := "https://meet.example.org/abc"
	h := NewUpdateLessonHandler(f.store.Lessons, f.publisher)
	updated, err := h.Handle(context.Background(), UpdateLessonCommand{
		LessonID:    l.ID,
		LearnerID:   f.learnerID,
		Title:       &title,
		MeetingLink: &link,
	})

	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.Equal(t, link, updated.MeetingLink)
	assert.Equal(t, lesson.StatusRequested, updated.Status, "update must not touch the status")
	require.NotNil(t, updated.UpdatedAt, "detail edits must refresh updated_at")
	assert.Contains(t, f.publisher.types(), shared.EventLessonUpdated)
}

func TestUpdateLessonRequiresOwnLearner(t *testing.T) {
	f := newFixture(t)
	l := f.requestLesson(t)

	title := "hijack"
	h := NewUpdateLessonHandler(f.store.Lessons, f.publisher)
	_, err := h.Handle(context.Background(), UpdateLessonCommand{
		LessonID: l.ID, LearnerID: 999, Title: &title,
	})

	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestUpdateCancelledLessonFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	l := f.requestLesson(t)

	cancel := NewCancelLessonHandler(f.store.Lessons, f.publisher)
	_, err := cancel.Handle(ctx, CancelLessonCommand{
		LessonID: l.ID, ActorID: f.learnerID, ActorRole: profile.RoleLearner,
	})
	require.NoError(t, err)

	title := "too late"
	h := NewUpdateLessonHandler(f.store.Lessons, f.publisher)
	_, err = h.Handle(ctx, UpdateLessonCommand{LessonID: l.ID, LearnerID: f.learnerID, Title: &title})

	assert.ErrorIs(t, err, shared.ErrInvalidState)
}
