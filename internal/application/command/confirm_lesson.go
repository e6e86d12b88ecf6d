package command

import (
	"context"

	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/lesson"
	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIRM LESSON COMMAND
// The learner confirms the volunteer who accepted their request.
// ══════════════════════════════════════════════════════════════════════════════

// ConfirmLessonCommand contains the data to confirm an accepted lesson.
type ConfirmLessonCommand struct {
	// LessonID is the lesson being confirmed.
	LessonID int64

	// LearnerID is the confirming learner's profile id. Only the lesson's
	// own learner may confirm.
	LearnerID int64
}

// ConfirmLessonHandler handles the ConfirmLessonCommand.
type ConfirmLessonHandler struct {
	lessonRepo lesson.Repository
	publisher  shared.EventPublisher
}

// NewConfirmLessonHandler creates a new ConfirmLessonHandler.
func NewConfirmLessonHandler(lessonRepo lesson.Repository, publisher shared.EventPublisher) *ConfirmLessonHandler {
	return &ConfirmLessonHandler{lessonRepo: lessonRepo, publisher: publisher}
}

// Handle confirms the lesson and broadcasts lesson_confirmed.
func (h *ConfirmLessonHandler) Handle(ctx context.Context, cmd ConfirmLessonCommand) (*lesson.Lesson, error) {
	l, err := h.lessonRepo.UpdateAtomic(ctx, cmd.LessonID, func(l *lesson.Lesson) error {
		if l.LearnerID != cmd.LearnerID {
			return shared.ErrNotLessonActor
		}
		return l.Confirm()
	})
	if err != nil {
		return nil, err
	}

	h.publisher.Publish(lesson.ConfirmedEvent{Lesson: l})
	return l, nil
}
