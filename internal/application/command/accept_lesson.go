package command

import (
	"context"

	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/lesson"
	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/profile"
	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ACCEPT LESSON COMMAND
// A volunteer claims an open request. Concurrent accepts on the same
// lesson serialize at the repository; exactly one volunteer wins, the
// rest get a state transition error and no event is broadcast for them.
// ══════════════════════════════════════════════════════════════════════════════

// AcceptLessonCommand contains the data to claim a lesson request.
type AcceptLessonCommand struct {
	// LessonID is the lesson being claimed.
	LessonID int64

	// VolunteerID is the claiming volunteer's profile id.
	VolunteerID int64
}

// AcceptLessonHandler handles the AcceptLessonCommand.
type AcceptLessonHandler struct {
	lessonRepo    lesson.Repository
	volunteerRepo profile.VolunteerRepository
	publisher     shared.EventPublisher
}

// NewAcceptLessonHandler creates a new AcceptLessonHandler.
func NewAcceptLessonHandler(
	lessonRepo lesson.Repository,
	volunteerRepo profile.VolunteerRepository,
	publisher shared.EventPublisher,
) *AcceptLessonHandler {
	return &AcceptLessonHandler{
		lessonRepo:    lessonRepo,
		volunteerRepo: volunteerRepo,
		publisher:     publisher,
	}
}

// Handle claims the lesson for the volunteer and broadcasts
// lesson_accepted.
func (h *AcceptLessonHandler) Handle(ctx context.Context, cmd AcceptLessonCommand) (*lesson.Lesson, error) {
	if _, err := h.volunteerRepo.GetByID(ctx, cmd.VolunteerID); err != nil {
		return nil, err
	}

	l, err := h.lessonRepo.UpdateAtomic(ctx, cmd.LessonID, func(l *lesson.Lesson) error {
		return l.Accept(cmd.VolunteerID)
	})
	if err != nil {
		return nil, err
	}

	h.publisher.Publish(lesson.AcceptedEvent{Lesson: l})
	return l, nil
}
