package query

import (
	"context"

	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/lesson"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST LESSONS QUERIES
// ══════════════════════════════════════════════════════════════════════════════

// DefaultPageSize bounds unpaginated listings.
const DefaultPageSize = 50

// ListLessonsHandler returns lessons matching a filter, e.g. a learner's
// own bookings or a volunteer's claimed lessons.
type ListLessonsHandler struct {
	lessonRepo lesson.Repository
}

// NewListLessonsHandler creates a new ListLessonsHandler.
func NewListLessonsHandler(lessonRepo lesson.Repository) *ListLessonsHandler {
	return &ListLessonsHandler{lessonRepo: lessonRepo}
}

// Handle returns lessons matching the filter, newest scheduled first.
func (h *ListLessonsHandler) Handle(ctx context.Context, f lesson.Filter) ([]*lesson.Lesson, error) {
	if f.Limit <= 0 {
		f.Limit = DefaultPageSize
	}
	return h.lessonRepo.List(ctx, f)
}

// ListAvailableLessonsHandler returns open requests volunteers can claim.
type ListAvailableLessonsHandler struct {
	lessonRepo lesson.Repository
}

// NewListAvailableLessonsHandler creates a new ListAvailableLessonsHandler.
func NewListAvailableLessonsHandler(lessonRepo lesson.Repository) *ListAvailableLessonsHandler {
	return &ListAvailableLessonsHandler{lessonRepo: lessonRepo}
}

// Handle returns claimable requests, newest first.
func (h *ListAvailableLessonsHandler) Handle(ctx context.Context, f lesson.AvailableFilter) ([]*lesson.Lesson, error) {
	if f.Limit <= 0 {
		f.Limit = DefaultPageSize
	}
	return h.lessonRepo.ListAvailable(ctx, f)
}
