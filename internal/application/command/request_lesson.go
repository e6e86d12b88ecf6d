// Package command contains write operations (CQRS - Commands). Every
// lesson lifecycle transition lives here: a handler validates the command,
// runs the transition through the repository's atomic update, and
// broadcasts the resulting event only after the write succeeded.
package command

import (
	"context"
	"fmt"
	"time"

	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/lesson"
	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/profile"
	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/shared"
	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/subject"
)

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST LESSON COMMAND
// A learner opens a lesson request. The request enters the pool volunteers
// browse; no volunteer is assigned yet.
// ══════════════════════════════════════════════════════════════════════════════

// RequestLessonCommand contains the data to open a lesson request.
type RequestLessonCommand struct {
	// LearnerID is the requesting learner's profile id.
	LearnerID int64

	// SubjectID is the knowledge area the lesson is about.
	SubjectID int64

	// Title is a short summary of what the learner needs.
	Title string

	// Description optionally elaborates on the request.
	Description string

	// Kind is online or in-person.
	Kind lesson.Kind

	// ScheduledAt is the desired lesson time.
	ScheduledAt time.Time

	// DurationMinutes defaults to the standard lesson length when zero.
	DurationMinutes int

	// Location fields, for in-person lessons.
	LocationAddress   string
	LocationCity      string
	LocationLatitude  string
	LocationLongitude string

	// Meeting fields, for online lessons.
	MeetingLink     string
	MeetingPlatform string
}

// RequestLessonHandler handles the RequestLessonCommand.
type RequestLessonHandler struct {
	lessonRepo  lesson.Repository
	learnerRepo profile.LearnerRepository
	subjectRepo subject.Repository
	publisher   shared.EventPublisher
}

// NewRequestLessonHandler creates a new RequestLessonHandler.
func NewRequestLessonHandler(
	lessonRepo lesson.Repository,
	learnerRepo profile.LearnerRepository,
	subjectRepo subject.Repository,
	publisher shared.EventPublisher,
) *RequestLessonHandler {
	return &RequestLessonHandler{
		lessonRepo:  lessonRepo,
		learnerRepo: learnerRepo,
		subjectRepo: subjectRepo,
		publisher:   publisher,
	}
}

// Handle opens the lesson request and broadcasts lesson_requested.
func (h *RequestLessonHandler) Handle(ctx context.Context, cmd RequestLessonCommand) (*lesson.Lesson, error) {
	if _, err := h.learnerRepo.GetByID(ctx, cmd.LearnerID); err != nil {
		return nil, err
	}
	if _, err := h.subjectRepo.GetByID(ctx, cmd.SubjectID); err != nil {
		return nil, err
	}

	l, err := lesson.New(cmd.LearnerID, cmd.SubjectID, cmd.Title, cmd.Kind, cmd.ScheduledAt, cmd.DurationMinutes)
	if err != nil {
		return nil, err
	}
	l.Description = cmd.Description
	l.LocationAddress = cmd.LocationAddress
	l.LocationCity = cmd.LocationCity
	l.LocationLatitude = cmd.LocationLatitude
	l.LocationLongitude = cmd.LocationLongitude
	l.MeetingLink = cmd.MeetingLink
	l.MeetingPlatform = cmd.MeetingPlatform

	if err := h.lessonRepo.Create(ctx, l); err != nil {
		return nil, fmt.Errorf("request_lesson: failed to create: %w", err)
	}

	h.publisher.Publish(lesson.RequestedEvent{Lesson: l})
	return l, nil
}
