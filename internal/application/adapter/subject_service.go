package adapter

import (
	"context"

	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/shared"
	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/subject"
)

// ══════════════════════════════════════════════════════════════════════════════
// SUBJECT SERVICE
// ══════════════════════════════════════════════════════════════════════════════

// SubjectService handles subject CRUD with event broadcasts.
type SubjectService struct {
	repo      subject.Repository
	publisher shared.EventPublisher
}

// NewSubjectService creates a new SubjectService.
func NewSubjectService(repo subject.Repository, publisher shared.EventPublisher) *SubjectService {
	return &SubjectService{repo: repo, publisher: publisher}
}

// Create adds a subject and broadcasts subject_created.
func (s *SubjectService) Create(ctx context.Context, name, description, icon, category string) (*subject.Subject, error) {
	subj, err := subject.New(name, description, icon, category)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, subj); err != nil {
		return nil, err
	}

	s.publisher.Publish(shared.NewEntityEvent(shared.EventSubjectCreated, subj))
	return subj, nil
}

// Get returns a subject by id.
func (s *SubjectService) Get(ctx context.Context, id int64) (*subject.Subject, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns all subjects ordered by name.
func (s *SubjectService) List(ctx context.Context) ([]*subject.Subject, error) {
	return s.repo.List(ctx)
}

// UpdateSubjectInput contains the editable subject fields.
type UpdateSubjectInput struct {
	Name        *string
	Description *string
	Icon        *string
	Category    *string
}

// Update applies the edits and broadcasts subject_updated.
func (s *SubjectService) Update(ctx context.Context, id int64, in UpdateSubjectInput) (*subject.Subject, error) {
	subj, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil && *in.Name != "" {
		subj.Name = *in.Name
	}
	if in.Description != nil {
		subj.Description = *in.Description
	}
	if in.Icon != nil {
		subj.Icon = *in.Icon
	}
	if in.Category != nil {
		subj.Category = *in.Category
	}

	if err := s.repo.Update(ctx, subj); err != nil {
		return nil, err
	}

	s.publisher.Publish(shared.NewEntityEvent(shared.EventSubjectUpdated, subj))
	return subj, nil
}

// Delete removes the subject and broadcasts subject_deleted with only
// the id.
func (s *SubjectService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.publisher.Publish(shared.NewDeletedEvent(shared.EventSubjectDeleted, id))
	return nil
}
