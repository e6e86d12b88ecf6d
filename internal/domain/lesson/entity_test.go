package lesson

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/shared"
)

func newTestLesson(t *testing.T) *Lesson {
	t.Helper()
	l, err := New(1, 3, "Algebra basics", KindOnline, time.Now().Add(48*time.Hour), 0)
	require.NoError(t, err)
	return l
}

func TestNew(t *testing.T) {
	l := newTestLesson(t)

	assert.Equal(t, StatusRequested, l.Status)
	assert.Nil(t, l.VolunteerID, "volunteer must be unset while requested")
	assert.Equal(t, DefaultDurationMinutes, l.DurationMinutes)
	assert.False(t, l.CreatedAt.IsZero())
}

func TestNew_Validation(t *testing.T) {
	when := time.Now().Add(time.Hour)

	_, err := New(0, 3, "t", KindOnline, when, 60)
	assert.ErrorIs(t, err, shared.ErrInvalidID)

	_, err = New(1, 0, "t", KindOnline, when, 60)
	assert.ErrorIs(t, err, shared.ErrInvalidID)

	_, err = New(1, 3, "", KindOnline, when, 60)
	assert.ErrorIs(t, err, shared.ErrEmptyValue)

	_, err = New(1, 3, "t", Kind("hybrid"), when, 60)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestStatusCanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to Status
		ok       bool
	}{
		{StatusRequested, StatusAccepted, true},
		{StatusAccepted, StatusConfirmed, true},
		{StatusConfirmed, StatusCompleted, true},
		{StatusAccepted, StatusCompleted, true}, // completion without confirmation
		{StatusRequested, StatusConfirmed, false},
		{StatusRequested, StatusCompleted, false},
		{StatusConfirmed, StatusAccepted, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusAccepted, false},
		{StatusRequested, StatusCancelled, true},
		{StatusAccepted, StatusCancelled, true},
		{StatusConfirmed, StatusCancelled, true},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.ok, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestAccept(t *testing.T) {
	l := newTestLesson(t)

	err := l.Accept(7)
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, l.Status)
	require.NotNil(t, l.VolunteerID)
	assert.EqualValues(t, 7, *l.VolunteerID)
	assert.NotNil(t, l.UpdatedAt)

	// A second accept sees the advanced status and fails cleanly.
	err = l.Accept(9)
	assert.ErrorIs(t, err, shared.ErrStateTransition)
	assert.EqualValues(t, 7, *l.VolunteerID, "loser must not overwrite the winner's assignment")
}

func TestConfirm(t *testing.T) {
	l := newTestLesson(t)

	err := l.Confirm()
	assert.ErrorIs(t, err, shared.ErrStateTransition, "cannot confirm an unaccepted lesson")

	require.NoError(t, l.Accept(7))
	require.NoError(t, l.Confirm())
	assert.Equal(t, StatusConfirmed, l.Status)
}

func TestComplete(t *testing.T) {
	l := newTestLesson(t)
	require.NoError(t, l.Accept(7))
	require.NoError(t, l.Confirm())

	rating := Rating(4)
	require.NoError(t, l.Complete(&rating, "great session"))
	assert.Equal(t, StatusCompleted, l.Status)
	require.NotNil(t, l.Rating)
	assert.EqualValues(t, 4, *l.Rating)
	assert.Equal(t, "great session", l.Feedback)

	// Completing twice is an illegal transition.
	err := l.Complete(&rating, "")
	assert.ErrorIs(t, err, shared.ErrStateTransition)
}

func TestComplete_FromAccepted(t *testing.T) {
	l := newTestLesson(t)
	require.NoError(t, l.Accept(7))

	require.NoError(t, l.Complete(nil, ""))
	assert.Equal(t, StatusCompleted, l.Status)
	assert.Nil(t, l.Rating)
}

func TestComplete_InvalidRating(t *testing.T) {
	l := newTestLesson(t)
	require.NoError(t, l.Accept(7))

	for _, r := range []Rating{0, 6, -1} {
		bad := r
		err := l.Complete(&bad, "")
		assert.ErrorIs(t, err, shared.ErrValueOutOfRange, "rating %d", r)
		assert.Equal(t, StatusAccepted, l.Status, "failed completion must not mutate")
	}
}

func TestComplete_FromRequested(t *testing.T) {
	l := newTestLesson(t)

	err := l.Complete(nil, "")
	assert.ErrorIs(t, err, shared.ErrStateTransition)
	assert.Equal(t, StatusRequested, l.Status)
}

func TestCancel(t *testing.T) {
	l := newTestLesson(t)

	require.NoError(t, l.Cancel())
	assert.Equal(t, StatusCancelled, l.Status)

	// Idempotent on an already-cancelled lesson.
	require.NoError(t, l.Cancel())
}

func TestCancel_AfterCompletion(t *testing.T) {
	l := newTestLesson(t)
	require.NoError(t, l.Accept(7))
	require.NoError(t, l.Complete(nil, ""))

	err := l.Cancel()
	assert.ErrorIs(t, err, shared.ErrStateTransition)
	assert.Equal(t, StatusCompleted, l.Status)
}

func TestIsParty(t *testing.T) {
	l := newTestLesson(t)
	vol := int64(7)

	assert.True(t, l.IsParty(1, nil))
	assert.False(t, l.IsParty(2, nil))
	assert.False(t, l.IsParty(2, &vol), "volunteer not yet assigned")

	require.NoError(t, l.Accept(7))
	assert.True(t, l.IsParty(2, &vol))
}
