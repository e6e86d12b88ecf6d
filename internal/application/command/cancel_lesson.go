package command

import (
	"context"

	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/lesson"
	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/profile"
	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CANCEL LESSON COMMAND
// Either party calls the lesson off. Cancellation keeps the record; the
// broadcast carries only the lesson id.
// ══════════════════════════════════════════════════════════════════════════════

// CancelLessonCommand contains the data to cancel a lesson.
type CancelLessonCommand struct {
	// LessonID is the lesson being cancelled.
	LessonID int64

	// ActorID is the cancelling party's profile id, interpreted per
	// ActorRole: the lesson's learner, or its assigned volunteer.
	ActorID int64

	// ActorRole says which side the actor is on.
	ActorRole profile.Role
}

// CancelLessonHandler handles the CancelLessonCommand.
type CancelLessonHandler struct {
	lessonRepo lesson.Repository
	publisher  shared.EventPublisher
}

// NewCancelLessonHandler creates a new CancelLessonHandler.
func NewCancelLessonHandler(lessonRepo lesson.Repository, publisher shared.EventPublisher) *CancelLessonHandler {
	return &CancelLessonHandler{lessonRepo: lessonRepo, publisher: publisher}
}

// Handle cancels the lesson and broadcasts lesson_cancelled. Cancelling
// an already-cancelled lesson succeeds without a second broadcast.
func (h *CancelLessonHandler) Handle(ctx context.Context, cmd CancelLessonCommand) (*lesson.Lesson, error) {
	alreadyCancelled := false

	l, err := h.lessonRepo.UpdateAtomic(ctx, cmd.LessonID, func(l *lesson.Lesson) error {
		if !h.isActor(l, cmd) {
			return shared.ErrNotLessonActor
		}
		alreadyCancelled = l.Status == lesson.StatusCancelled
		return l.Cancel()
	})
	if err != nil {
		return nil, err
	}

	if !alreadyCancelled {
		h.publisher.Publish(lesson.CancelledEvent{ID: l.ID})
	}
	return l, nil
}

func (h *CancelLessonHandler) isActor(l *lesson.Lesson, cmd CancelLessonCommand) bool {
	switch cmd.ActorRole {
	case profile.RoleLearner:
		return l.LearnerID == cmd.ActorID
	case profile.RoleVolunteer:
		return l.VolunteerID != nil && *l.VolunteerID == cmd.ActorID
	default:
		return false
	}
}
