package adapter

import (
	"context"
	"time"

	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/partner"
	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// PARTNER SERVICE
// Partner locations change rarely and clients only read them on the map
// screen, so there is no broadcast for them.
// ══════════════════════════════════════════════════════════════════════════════

// CreatePartnerInput contains the data to register a partner location.
type CreatePartnerInput struct {
	Name        string
	Type        partner.Type
	Description string
	Address     string
	City        string
	State       string
	Latitude    string
	Longitude   string
	Phone       string
	Email       string
	Website     string
	ImageURL    string
}

// PartnerService handles partner location CRUD.
type PartnerService struct {
	repo partner.Repository
}

// NewPartnerService creates a new PartnerService.
func NewPartnerService(repo partner.Repository) *PartnerService {
	return &PartnerService{repo: repo}
}

// Create registers a partner location.
func (s *PartnerService) Create(ctx context.Context, in CreatePartnerInput) (*partner.Location, error) {
	p, err := partner.New(in.Name, in.Type)
	if err != nil {
		return nil, err
	}
	p.Description = in.Description
	p.Address = in.Address
	p.City = in.City
	p.State = in.State
	p.Latitude = in.Latitude
	p.Longitude = in.Longitude
	p.Phone = in.Phone
	p.Email = in.Email
	p.Website = in.Website
	p.ImageURL = in.ImageURL

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Get returns a partner location by id.
func (s *PartnerService) Get(ctx context.Context, id int64) (*partner.Location, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns active locations, optionally filtered by city and type.
func (s *PartnerService) List(ctx context.Context, city string, typ partner.Type, offset, limit int) ([]*partner.Location, error) {
	return s.repo.List(ctx, city, typ, offset, limit)
}

// UpdatePartnerInput contains the editable partner fields.
type UpdatePartnerInput struct {
	Name        *string
	Type        *partner.Type
	Description *string
	Address     *string
	City        *string
	State       *string
	Latitude    *string
	Longitude   *string
	Phone       *string
	Email       *string
	Website     *string
	ImageURL    *string
	IsActive    *bool
}

// Update applies the edits.
func (s *PartnerService) Update(ctx context.Context, id int64, in UpdatePartnerInput) (*partner.Location, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil && *in.Name != "" {
		p.Name = *in.Name
	}
	if in.Type != nil {
		if !in.Type.IsValid() {
			return nil, shared.ErrInvalidPartnerType
		}
		p.Type = *in.Type
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Address != nil {
		p.Address = *in.Address
	}
	if in.City != nil {
		p.City = *in.City
	}
	if in.State != nil {
		p.State = *in.State
	}
	if in.Latitude != nil {
		p.Latitude = *in.Latitude
	}
	if in.Longitude != nil {
		p.Longitude = *in.Longitude
	}
	if in.Phone != nil {
		p.Phone = *in.Phone
	}
	if in.Email != nil {
		p.Email = *in.Email
	}
	if in.Website != nil {
		p.Website = *in.Website
	}
	if in.ImageURL != nil {
		p.ImageURL = *in.ImageURL
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	now := time.Now().UTC()
	p.UpdatedAt = &now

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes the location.
func (s *PartnerService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
