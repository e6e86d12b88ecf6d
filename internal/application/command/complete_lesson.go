package command

import (
	"context"
	"log/slog"

	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/lesson"
	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/profile"
	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// COMPLETE LESSON COMMAND
// The learner marks the lesson as done, optionally rating it. Completion
// credits the volunteer's point counters and mirrors the new total into
// the cached leaderboard.
// ══════════════════════════════════════════════════════════════════════════════

// CompleteLessonCommand contains the data to complete a lesson.
type CompleteLessonCommand struct {
	// LessonID is the lesson being completed.
	LessonID int64

	// LearnerID is the completing learner's profile id. Only the lesson's
	// own learner may complete.
	LearnerID int64

	// Rating is the optional 1-5 evaluation.
	Rating *lesson.Rating

	// Feedback is the optional free-text evaluation.
	Feedback string
}

// ScoreMirror pushes a volunteer's updated point total into the cached
// leaderboard. Implementations must tolerate the cache being down; a
// mirror failure never fails the completion.
type ScoreMirror interface {
	SetScore(ctx context.Context, volunteerID int64, points int64, fullName string) error
}

// CompleteLessonHandler handles the CompleteLessonCommand.
type CompleteLessonHandler struct {
	lessonRepo    lesson.Repository
	volunteerRepo profile.VolunteerRepository
	userRepo      profile.UserRepository
	mirror        ScoreMirror
	publisher     shared.EventPublisher
	logger        *slog.Logger
}

// NewCompleteLessonHandler creates a new CompleteLessonHandler. The
// mirror may be nil when no cache is configured.
func NewCompleteLessonHandler(
	lessonRepo lesson.Repository,
	volunteerRepo profile.VolunteerRepository,
	userRepo profile.UserRepository,
	mirror ScoreMirror,
	publisher shared.EventPublisher,
	logger *slog.Logger,
) *CompleteLessonHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CompleteLessonHandler{
		lessonRepo:    lessonRepo,
		volunteerRepo: volunteerRepo,
		userRepo:      userRepo,
		mirror:        mirror,
		publisher:     publisher,
		logger:        logger,
	}
}

// Handle completes the lesson, credits the volunteer, and broadcasts
// lesson_completed.
func (h *CompleteLessonHandler) Handle(ctx context.Context, cmd CompleteLessonCommand) (*lesson.Lesson, error) {
	l, err := h.lessonRepo.UpdateAtomic(ctx, cmd.LessonID, func(l *lesson.Lesson) error {
		if l.LearnerID != cmd.LearnerID {
			return shared.ErrNotLessonActor
		}
		return l.Complete(cmd.Rating, cmd.Feedback)
	})
	if err != nil {
		return nil, err
	}

	h.creditVolunteer(ctx, l)
	h.publisher.Publish(lesson.CompletedEvent{Lesson: l})
	return l, nil
}

// creditVolunteer applies the completion reward. The lesson is already
// completed at this point; a crediting failure is logged, not propagated,
// so a volunteer never loses a completed lesson over a counter write.
func (h *CompleteLessonHandler) creditVolunteer(ctx context.Context, l *lesson.Lesson) {
	if l.VolunteerID == nil {
		return
	}

	v, err := h.volunteerRepo.CreditLesson(ctx, *l.VolunteerID, lesson.CompletionPoints)
	if err != nil {
		h.logger.Error("failed to credit volunteer",
			"volunteer_id", *l.VolunteerID,
			"lesson_id", l.ID,
			"error", err,
		)
		return
	}

	if h.mirror == nil {
		return
	}
	name := ""
	if u, err := h.userRepo.GetByID(ctx, v.UserID); err == nil {
		name = u.FullName
	}
	if err := h.mirror.SetScore(ctx, v.ID, v.TotalPoints, name); err != nil {
		h.logger.Warn("failed to mirror volunteer score",
			"volunteer_id", v.ID,
			"error", err,
		)
	}
}
