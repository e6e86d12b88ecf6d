package http

import (
	"net/http"
	"time"

	"github.com/voluntaria-hub/voluntaria-backend/internal/application/command"
	"github.com/voluntaria-hub/voluntaria-backend/internal/application/query"
	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/lesson"
	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/profile"
)

// ══════════════════════════════════════════════════════════════════════════════
// LESSON LIFECYCLE HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type requestLessonRequest struct {
	LearnerID       int64     `json:"learner_id"`
	SubjectID       int64     `json:"subject_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	LessonType      string    `json:"lesson_type"`
	ScheduledDate   time.Time `json:"scheduled_date"`
	DurationMinutes int       `json:"duration_minutes"`

	LocationAddress   string `json:"location_address"`
	LocationCity      string `json:"location_city"`
	LocationLatitude  string `json:"location_latitude"`
	LocationLongitude string `json:"location_longitude"`

	MeetingLink     string `json:"meeting_link"`
	MeetingPlatform string `json:"meeting_platform"`
}

func (s *Server) handleRequestLesson(w http.ResponseWriter, r *http.Request) {
	var req requestLessonRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Invalid JSON body")
		return
	}

	l, err := s.deps.RequestLesson.Handle(r.Context(), command.RequestLessonCommand{
		LearnerID:         req.LearnerID,
		SubjectID:         req.SubjectID,
		Title:             req.Title,
		Description:       req.Description,
		Kind:              lesson.Kind(req.LessonType),
		ScheduledAt:       req.ScheduledDate,
		DurationMinutes:   req.DurationMinutes,
		LocationAddress:   req.LocationAddress,
		LocationCity:      req.LocationCity,
		LocationLatitude:  req.LocationLatitude,
		LocationLongitude: req.LocationLongitude,
		MeetingLink:       req.MeetingLink,
		MeetingPlatform:   req.MeetingPlatform,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

func (s *Server) handleListLessons(w http.ResponseWriter, r *http.Request) {
	f := lesson.Filter{
		LearnerID:   queryInt64(r, "learner_id"),
		VolunteerID: queryInt64(r, "volunteer_id"),
		SubjectID:   queryInt64(r, "subject_id"),
		Status:      lesson.Status(r.URL.Query().Get("status")),
		Kind:        lesson.Kind(r.URL.Query().Get("lesson_type")),
		Offset:      queryInt(r, "offset"),
		Limit:       queryInt(r, "limit"),
	}
	if f.Status != "" && !f.Status.IsValid() {
		writeJSONError(w, http.StatusBadRequest, "validation_error", "Unknown lesson status")
		return
	}

	lessons, err := s.deps.ListLessons.Handle(r.Context(), f)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"lessons": lessons, "count": len(lessons)})
}

func (s *Server) handleListAvailableLessons(w http.ResponseWriter, r *http.Request) {
	f := lesson.AvailableFilter{
		SubjectID: queryInt64(r, "subject_id"),
		City:      r.URL.Query().Get("city"),
		Offset:    queryInt(r, "offset"),
		Limit:     queryInt(r, "limit"),
	}

	lessons, err := s.deps.ListAvailableLessons.Handle(r.Context(), f)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"lessons": lessons, "count": len(lessons)})
}

func (s *Server) handleGetLesson(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "Lesson id must be a positive integer")
		return
	}

	l, err := s.deps.GetLesson.Handle(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

type updateLessonRequest struct {
	LearnerID       int64      `json:"learner_id"`
	Title           *string    `json:"title"`
	Description     *string    `json:"description"`
	ScheduledDate   *time.Time `json:"scheduled_date"`
	DurationMinutes *int       `json:"duration_minutes"`

	LocationAddress   *string `json:"location_address"`
	LocationCity      *string `json:"location_city"`
	LocationLatitude  *string `json:"location_latitude"`
	LocationLongitude *string `json:"location_longitude"`

	MeetingLink     *string `json:"meeting_link"`
	MeetingPlatform *string `json:"meeting_platform"`
}

func (s *Server) handleUpdateLesson(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "Lesson id must be a positive integer")
		return
	}

	var req updateLessonRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Invalid JSON body")
		return
	}

	l, err := s.deps.UpdateLesson.Handle(r.Context(), command.UpdateLessonCommand{
		LessonID:          id,
		LearnerID:         req.LearnerID,
		Title:             req.Title,
		Description:       req.Description,
		ScheduledAt:       req.ScheduledDate,
		DurationMinutes:   req.DurationMinutes,
		LocationAddress:   req.LocationAddress,
		LocationCity:      req.LocationCity,
		LocationLatitude:  req.LocationLatitude,
		LocationLongitude: req.LocationLongitude,
		MeetingLink:       req.MeetingLink,
		MeetingPlatform:   req.MeetingPlatform,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

// handleCancelLesson maps DELETE to cancellation: the record stays, only
// the status changes. The acting party comes from query parameters.
func (s *Server) handleCancelLesson(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "Lesson id must be a positive integer")
		return
	}

	actorID := queryInt64(r, "actor_id")
	actorRole := profile.Role(r.URL.Query().Get("actor_role"))
	if actorID <= 0 || !actorRole.IsValid() {
		writeJSONError(w, http.StatusBadRequest, "validation_error", "actor_id and actor_role are required")
		return
	}

	l, err := s.deps.CancelLesson.Handle(r.Context(), command.CancelLessonCommand{
		LessonID:  id,
		ActorID:   actorID,
		ActorRole: actorRole,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

type acceptLessonRequest struct {
	VolunteerID int64 `json:"volunteer_id"`
}

func (s *Server) handleAcceptLesson(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "Lesson id must be a positive integer")
		return
	}

	var req acceptLessonRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Invalid JSON body")
		return
	}

	l, err := s.deps.AcceptLesson.Handle(r.Context(), command.AcceptLessonCommand{
		LessonID:    id,
		VolunteerID: req.VolunteerID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

type confirmLessonRequest struct {
	LearnerID int64 `json:"learner_id"`
}

func (s *Server) handleConfirmLesson(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "Lesson id must be a positive integer")
		return
	}

	var req confirmLessonRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Invalid JSON body")
		return
	}

	l, err := s.deps.ConfirmLesson.Handle(r.Context(), command.ConfirmLessonCommand{
		LessonID:  id,
		LearnerID: req.LearnerID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

type completeLessonRequest struct {
	LearnerID int64  `json:"learner_id"`
	Rating    *int   `json:"rating"`
	Feedback  string `json:"feedback"`
}

func (s *Server) handleCompleteLesson(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "Lesson id must be a positive integer")
		return
	}

	var req completeLessonRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Invalid JSON body")
		return
	}

	var rating *lesson.Rating
	if req.Rating != nil {
		v := lesson.Rating(*req.Rating)
		rating = &v
	}

	l, err := s.deps.CompleteLesson.Handle(r.Context(), command.CompleteLessonCommand{
		LessonID:  id,
		LearnerID: req.LearnerID,
		Rating:    rating,
		Feedback:  req.Feedback,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD HANDLER
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := s.deps.GetLeaderboard.Handle(r.Context(), query.GetLeaderboardQuery{
		Limit: queryInt(r, "limit"),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"leaderboard": entries, "count": len(entries)})
}
