// Package partner contains the partner-location domain model: the NGOs,
// schools, and libraries where in-person lessons can be held.
package partner

import (
	"context"
	"time"

	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/shared"
)

// Type classifies a partner location.
type Type string

const (
	// TypeONG - a non-governmental organization.
	TypeONG Type = "ong"
	// TypeSchool - a partner school.
	TypeSchool Type = "school"
	// TypeLibrary - a public library.
	TypeLibrary Type = "library"
	// TypeCommunityCenter - a community center.
	TypeCommunityCenter Type = "community_center"
	// TypeOther - anything else.
	TypeOther Type = "other"
)

// IsValid checks that the type is one of the known values.
func (t Type) IsValid() bool {
	switch t {
	case TypeONG, TypeSchool, TypeLibrary, TypeCommunityCenter, TypeOther:
		return true
	default:
		return false
	}
}

// Location is a physical place offered by a partner organization.
type Location struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Type        Type       `json:"partner_type"`
	Description string     `json:"description,omitempty"`
	Address     string     `json:"address,omitempty"`
	City        string     `json:"city,omitempty"`
	State       string     `json:"state,omitempty"`
	Latitude    string     `json:"latitude,omitempty"`
	Longitude   string     `json:"longitude,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	Email       string     `json:"email,omitempty"`
	Website     string     `json:"website,omitempty"`
	ImageURL    string     `json:"image_url,omitempty"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// New creates an active partner location.
func New(name string, typ Type) (*Location, error) {
	if name == "" {
		return nil, shared.NewDomainError("partner", "New", shared.ErrEmptyValue, "name is required")
	}
	if !typ.IsValid() {
		return nil, shared.ErrInvalidPartnerType
	}
	return &Location{
		Name:      name,
		Type:      typ,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Repository is the persistence port for partner locations.
type Repository interface {
	// Create inserts a new location and assigns its id.
	Create(ctx context.Context, p *Location) error

	// GetByID returns the location or shared.ErrPartnerNotFound.
	GetByID(ctx context.Context, id int64) (*Location, error)

	// List returns active locations, optionally filtered by city and type.
	List(ctx context.Context, city string, typ Type, offset, limit int) ([]*Location, error)

	// Update persists changed fields.
	Update(ctx context.Context, p *Location) error

	// Delete removes the location.
	Delete(ctx context.Context, id int64) error
}
