package http

import (
	"net/http"

	"github.com/voluntaria-hub/voluntaria-backend/internal/application/adapter"
	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/profile"
)

// ══════════════════════════════════════════════════════════════════════════════
// AUTH HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	City     string `json:"city"`
	State    string `json:"state"`
	Bio      string `json:"bio"`
	Role     string `json:"role"`

	VolunteerType string  `json:"volunteer_type"`
	Institution   string  `json:"institution"`
	SubjectIDs    []int64 `json:"subject_ids"`

	InterestSubjectIDs []int64 `json:"interest_subject_ids"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Invalid JSON body")
		return
	}

	res, err := s.deps.Profiles.Register(r.Context(), adapter.RegisterUserInput{
		Email:              req.Email,
		Password:           req.Password,
		FullName:           req.FullName,
		Phone:              req.Phone,
		City:               req.City,
		State:              req.State,
		Bio:                req.Bio,
		Role:               profile.Role(req.Role),
		VolunteerType:      profile.VolunteerType(req.VolunteerType),
		Institution:        req.Institution,
		SubjectIDs:         req.SubjectIDs,
		InterestSubjectIDs: req.InterestSubjectIDs,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Invalid JSON body")
		return
	}

	u, err := s.deps.Profiles.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": u})
}

// ══════════════════════════════════════════════════════════════════════════════
// USER HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	role := profile.Role(r.URL.Query().Get("role"))
	status := profile.UserStatus(r.URL.Query().Get("status"))

	users, err := s.deps.Profiles.ListUsers(r.Context(), role, status, queryInt(r, "offset"), queryInt(r, "limit"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users, "count": len(users)})
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "User id must be a positive integer")
		return
	}

	u, err := s.deps.Profiles.GetUser(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

type updateUserRequest struct {
	FullName *string `json:"full_name"`
	Phone    *string `json:"phone"`
	City     *string `json:"city"`
	State    *string `json:"state"`
	Bio      *string `json:"bio"`
	Status   *string `json:"status"`
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "User id must be a positive integer")
		return
	}

	var req updateUserRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Invalid JSON body")
		return
	}

	in := adapter.UpdateUserInput{
		FullName: req.FullName,
		Phone:    req.Phone,
		City:     req.City,
		State:    req.State,
		Bio:      req.Bio,
	}
	if req.Status != nil {
		status := profile.UserStatus(*req.Status)
		in.Status = &status
	}

	u, err := s.deps.Profiles.UpdateUser(r.Context(), id, in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// ══════════════════════════════════════════════════════════════════════════════
// VOLUNTEER HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleListVolunteers(w http.ResponseWriter, r *http.Request) {
	volunteers, err := s.deps.Profiles.ListVolunteers(r.Context(), queryInt(r, "offset"), queryInt(r, "limit"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"volunteers": volunteers, "count": len(volunteers)})
}

func (s *Server) handleGetVolunteer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "Volunteer id must be a positive integer")
		return
	}

	v, err := s.deps.Profiles.GetVolunteer(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

type updateVolunteerRequest struct {
	VolunteerType *string `json:"volunteer_type"`
	Institution   *string `json:"institution"`
	DocumentURL   *string `json:"document_url"`
	SubjectIDs    []int64 `json:"subject_ids"`
}

func (s *Server) handleUpdateVolunteer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "Volunteer id must be a positive integer")
		return
	}

	var req updateVolunteerRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Invalid JSON body")
		return
	}

	in := adapter.UpdateVolunteerInput{
		Institution: req.Institution,
		DocumentURL: req.DocumentURL,
		SubjectIDs:  req.SubjectIDs,
	}
	if req.VolunteerType != nil {
		typ := profile.VolunteerType(*req.VolunteerType)
		in.Type = &typ
	}

	v, err := s.deps.Profiles.UpdateVolunteer(r.Context(), id, in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// ══════════════════════════════════════════════════════════════════════════════
// LEARNER HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleGetLearner(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "Learner id must be a positive integer")
		return
	}

	l, err := s.deps.Profiles.GetLearner(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

type updateInterestsRequest struct {
	SubjectIDs []int64 `json:"subject_ids"`
}

func (s *Server) handleUpdateLearnerInterests(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "Learner id must be a positive integer")
		return
	}

	var req updateInterestsRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Invalid JSON body")
		return
	}

	l, err := s.deps.Profiles.UpdateLearnerInterests(r.Context(), id, req.SubjectIDs)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}
