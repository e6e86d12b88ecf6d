package command

import (
	"context"
	"time"

	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/lesson"
	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// UPDATE LESSON COMMAND
// The learner edits their request's details. Lifecycle fields (status,
// volunteer, rating) are untouchable here; they move only through the
// dedicated transitions.
// ══════════════════════════════════════════════════════════════════════════════

// UpdateLessonCommand contains the editable lesson fields. Nil pointers
// leave the stored value unchanged.
type UpdateLessonCommand struct {
	// LessonID is the lesson being edited.
	LessonID int64

	// LearnerID is the editing learner's profile id. Only the lesson's
	// own learner may edit.
	LearnerID int64

	Title           *string
	Description     *string
	ScheduledAt     *time.Time
	DurationMinutes *int

	LocationAddress   *string
	LocationCity      *string
	LocationLatitude  *string
	LocationLongitude *string

	MeetingLink     *string
	MeetingPlatform *string
}

// UpdateLessonHandler handles the UpdateLessonCommand.
type UpdateLessonHandler struct {
	lessonRepo lesson.Repository
	publisher  shared.EventPublisher
}

// NewUpdateLessonHandler creates a new UpdateLessonHandler.
func NewUpdateLessonHandler(lessonRepo lesson.Repository, publisher shared.EventPublisher) *UpdateLessonHandler {
	return &UpdateLessonHandler{lessonRepo: lessonRepo, publisher: publisher}
}

// Handle applies the edits and broadcasts lesson_updated.
func (h *UpdateLessonHandler) Handle(ctx context.Context, cmd UpdateLessonCommand) (*lesson.Lesson, error) {
	l, err := h.lessonRepo.UpdateAtomic(ctx, cmd.LessonID, func(l *lesson.Lesson) error {
		if l.LearnerID != cmd.LearnerID {
			return shared.ErrNotLessonActor
		}
		if l.Status.IsTerminal() {
			return shared.ErrLessonTerminal
		}
		applyLessonEdits(l, cmd)
		return nil
	})
	if err != nil {
		return nil, err
	}

	h.publisher.Publish(lesson.UpdatedEvent{Lesson: l})
	return l, nil
}

func applyLessonEdits(l *lesson.Lesson, cmd UpdateLessonCommand) {
	if cmd.Title != nil && *cmd.Title != "" {
		l.Title = *cmd.Title
	}
	if cmd.Description != nil {
		l.Description = *cmd.Description
	}
	if cmd.ScheduledAt != nil {
		l.ScheduledAt = *cmd.ScheduledAt
	}
	if cmd.DurationMinutes != nil && *cmd.DurationMinutes > 0 {
		l.DurationMinutes = *cmd.DurationMinutes
	}
	if cmd.LocationAddress != nil {
		l.LocationAddress = *cmd.LocationAddress
	}
	if cmd.LocationCity != nil {
		l.LocationCity = *cmd.LocationCity
	}
	if cmd.LocationLatitude != nil {
		l.LocationLatitude = *cmd.LocationLatitude
	}
	if cmd.LocationLongitude != nil {
		l.LocationLongitude = *cmd.LocationLongitude
	}
	if cmd.MeetingLink != nil {
		l.MeetingLink = *cmd.MeetingLink
	}
	if cmd.MeetingPlatform != nil {
		l.MeetingPlatform = *cmd.MeetingPlatform
	}
	l.Touch()
}
