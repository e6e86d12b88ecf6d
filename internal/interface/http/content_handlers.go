package http

import (
	"net/http"
	"time"

	"github.com/voluntaria-hub/voluntaria-backend/internal/application/adapter"
	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/news"
	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/partner"
)

// ══════════════════════════════════════════════════════════════════════════════
// SUBJECT HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type createSubjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Category    string `json:"category"`
}

func (s *Server) handleCreateSubject(w http.ResponseWriter, r *http.Request) {
	var req createSubjectRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Invalid JSON body")
		return
	}

	subj, err := s.deps.Subjects.Create(r.Context(), req.Name, req.Description, req.Icon, req.Category)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, subj)
}

func (s *Server) handleListSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := s.deps.Subjects.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"subjects": subjects, "count": len(subjects)})
}

func (s *Server) handleGetSubject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "Subject id must be a positive integer")
		return
	}

	subj, err := s.deps.Subjects.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, subj)
}

type updateSubjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
	Category    *string `json:"category"`
}

func (s *Server) handleUpdateSubject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "Subject id must be a positive integer")
		return
	}

	var req updateSubjectRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Invalid JSON body")
		return
	}

	subj, err := s.deps.Subjects.Update(r.Context(), id, adapter.UpdateSubjectInput{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Category:    req.Category,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, subj)
}

func (s *Server) handleDeleteSubject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "Subject id must be a positive integer")
		return
	}

	if err := s.deps.Subjects.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ══════════════════════════════════════════════════════════════════════════════
// NEWS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type createNewsRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Kind     string `json:"news_type"`
	Author   string `json:"author"`
	ImageURL string `json:"image_url"`

	EventDate     *time.Time `json:"event_date"`
	EventLocation string     `json:"event_location"`
	EventLink     string     `json:"event_link"`

	CampaignGoal    string     `json:"campaign_goal"`
	CampaignEndDate *time.Time `json:"campaign_end_date"`
	CampaignContact string     `json:"campaign_contact"`

	IsFeatured bool `json:"is_featured"`
}

func (s *Server) handleCreateNews(w http.ResponseWriter, r *http.Request) {
	var req createNewsRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Invalid JSON body")
		return
	}

	n, err := s.deps.News.Create(r.Context(), adapter.CreateNewsInput{
		Title:           req.Title,
		Content:         req.Content,
		Kind:            news.Kind(req.Kind),
		Author:          req.Author,
		ImageURL:        req.ImageURL,
		EventDate:       req.EventDate,
		EventLocation:   req.EventLocation,
		EventLink:       req.EventLink,
		CampaignGoal:    req.CampaignGoal,
		CampaignEndDate: req.CampaignEndDate,
		CampaignContact: req.CampaignContact,
		IsFeatured:      req.IsFeatured,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

func (s *Server) handleListNews(w http.ResponseWriter, r *http.Request) {
	f := news.Filter{
		Kind:         news.Kind(r.URL.Query().Get("news_type")),
		FeaturedOnly: r.URL.Query().Get("featured") == "true",
		Offset:       queryInt(r, "offset"),
		Limit:        queryInt(r, "limit"),
	}

	items, err := s.deps.News.List(r.Context(), f)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"news": items, "count": len(items)})
}

func (s *Server) handleGetNews(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "News id must be a positive integer")
		return
	}

	n, err := s.deps.News.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

type updateNewsRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Author   *string `json:"author"`
	ImageURL *string `json:"image_url"`

	EventDate     *time.Time `json:"event_date"`
	EventLocation *string    `json:"event_location"`
	EventLink     *string    `json:"event_link"`

	CampaignGoal    *string    `json:"campaign_goal"`
	CampaignEndDate *time.Time `json:"campaign_end_date"`
	CampaignContact *string    `json:"campaign_contact"`

	IsFeatured *bool `json:"is_featured"`
	IsActive   *bool `json:"is_active"`
}

func (s *Server) handleUpdateNews(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "News id must be a positive integer")
		return
	}

	var req updateNewsRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Invalid JSON body")
		return
	}

	n, err := s.deps.News.Update(r.Context(), id, adapter.UpdateNewsInput{
		Title:           req.Title,
		Content:         req.Content,
		Author:          req.Author,
		ImageURL:        req.ImageURL,
		EventDate:       req.EventDate,
		EventLocation:   req.EventLocation,
		EventLink:       req.EventLink,
		CampaignGoal:    req.CampaignGoal,
		CampaignEndDate: req.CampaignEndDate,
		CampaignContact: req.CampaignContact,
		IsFeatured:      req.IsFeatured,
		IsActive:        req.IsActive,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (s *Server) handleDeleteNews(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "News id must be a positive integer")
		return
	}

	if err := s.deps.News.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ══════════════════════════════════════════════════════════════════════════════
// PARTNER HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type createPartnerRequest struct {
	Name        string `json:"name"`
	Type        string `json:"partner_type"`
	Description string `json:"description"`
	Address     string `json:"address"`
	City        string `json:"city"`
	State       string `json:"state"`
	Latitude    string `json:"latitude"`
	Longitude   string `json:"longitude"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Website     string `json:"website"`
	ImageURL    string `json:"image_url"`
}

func (s *Server) handleCreatePartner(w http.ResponseWriter, r *http.Request) {
	var req createPartnerRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Invalid JSON body")
		return
	}

	p, err := s.deps.Partners.Create(r.Context(), adapter.CreatePartnerInput{
		Name:        req.Name,
		Type:        partner.Type(req.Type),
		Description: req.Description,
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Phone:       req.Phone,
		Email:       req.Email,
		Website:     req.Website,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleListPartners(w http.ResponseWriter, r *http.Request) {
	partners, err := s.deps.Partners.List(r.Context(),
		r.URL.Query().Get("city"),
		partner.Type(r.URL.Query().Get("partner_type")),
		queryInt(r, "offset"),
		queryInt(r, "limit"),
	)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"partners": partners, "count": len(partners)})
}

func (s *Server) handleGetPartner(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "Partner id must be a positive integer")
		return
	}

	p, err := s.deps.Partners.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type updatePartnerRequest struct {
	Name        *string `json:"name"`
	Type        *string `json:"partner_type"`
	Description *string `json:"description"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	State       *string `json:"state"`
	Latitude    *string `json:"latitude"`
	Longitude   *string `json:"longitude"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email"`
	Website     *string `json:"website"`
	ImageURL    *string `json:"image_url"`
	IsActive    *bool   `json:"is_active"`
}

func (s *Server) handleUpdatePartner(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "Partner id must be a positive integer")
		return
	}

	var req updatePartnerRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Invalid JSON body")
		return
	}

	in := adapter.UpdatePartnerInput{
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Phone:       req.Phone,
		Email:       req.Email,
		Website:     req.Website,
		ImageURL:    req.ImageURL,
		IsActive:    req.IsActive,
	}
	if req.Type != nil {
		typ := partner.Type(*req.Type)
		in.Type = &typ
	}

	p, err := s.deps.Partners.Update(r.Context(), id, in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeletePartner(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "Partner id must be a positive integer")
		return
	}

	if err := s.deps.Partners.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
