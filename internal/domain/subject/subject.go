// Package subject contains the knowledge-area domain model.
package subject

import (
	"context"

	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/shared"
)

// Subject is a teachable knowledge area, e.g. "Matemática" or "Programação".
type Subject struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Category    string `json:"category,omitempty"`
}

// New creates a subject.
func New(name, description, icon, category string) (*Subject, error) {
	if name == "" {
		return nil, shared.NewDomainError("subject", "New", shared.ErrEmptyValue, "name is required")
	}
	return &Subject{
		Name:        name,
		Description: description,
		Icon:        icon,
		Category:    category,
	}, nil
}

// Repository is the persistence port for subjects.
type Repository interface {
	// Create inserts a new subject and assigns its id. Returns
	// shared.ErrSubjectExists on a duplicate name.
	Create(ctx context.Context, s *Subject) error

	// GetByID returns the subject or shared.ErrSubjectNotFound.
	GetByID(ctx context.Context, id int64) (*Subject, error)

	// List returns all subjects ordered by name.
	List(ctx context.Context) ([]*Subject, error)

	// Update persists changed subject fields.
	Update(ctx context.Context, s *Subject) error

	// Delete removes the subject.
	Delete(ctx context.Context, id int64) error
}
