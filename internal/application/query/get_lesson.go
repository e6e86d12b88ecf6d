// Package query contains read operations (CQRS - Queries). Queries never
// mutate state and never publish events.
package query

import (
	"context"

	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/lesson"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET LESSON QUERY
// ══════════════════════════════════════════════════════════════════════════════

// GetLessonHandler returns a single lesson by id.
type GetLessonHandler struct {
	lessonRepo lesson.Repository
}

// NewGetLessonHandler creates a new GetLessonHandler.
func NewGetLessonHandler(lessonRepo lesson.Repository) *GetLessonHandler {
	return &GetLessonHandler{lessonRepo: lessonRepo}
}

// Handle returns the lesson or shared.ErrLessonNotFound.
func (h *GetLessonHandler) Handle(ctx context.Context, id int64) (*lesson.Lesson, error) {
	return h.lessonRepo.GetByID(ctx, id)
}
