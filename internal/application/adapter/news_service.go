package adapter

import (
	"context"
	"time"

	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/news"
	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// NEWS SERVICE
// ══════════════════════════════════════════════════════════════════════════════

// CreateNewsInput contains the data to publish a news item.
type CreateNewsInput struct {
	Title    string
	Content  string
	Kind     news.Kind
	Author   string
	ImageURL string

	EventDate     *time.Time
	EventLocation string
	EventLink     string

	CampaignGoal    string
	CampaignEndDate *time.Time
	CampaignContact string

	IsFeatured bool
}

// NewsService handles news CRUD with event broadcasts.
type NewsService struct {
	repo      news.Repository
	publisher shared.EventPublisher
}

// NewNewsService creates a new NewsService.
func NewNewsService(repo news.Repository, publisher shared.EventPublisher) *NewsService {
	return &NewsService{repo: repo, publisher: publisher}
}

// Create publishes a news item and broadcasts news_created.
func (s *NewsService) Create(ctx context.Context, in CreateNewsInput) (*news.News, error) {
	n, err := news.New(in.Title, in.Content, in.Kind)
	if err != nil {
		return nil, err
	}
	n.Author = in.Author
	n.ImageURL = in.ImageURL
	n.EventDate = in.EventDate
	n.EventLocation = in.EventLocation
	n.EventLink = in.EventLink
	n.CampaignGoal = in.CampaignGoal
	n.CampaignEndDate = in.CampaignEndDate
	n.CampaignContact = in.CampaignContact
	n.IsFeatured = in.IsFeatured

	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}

	s.publisher.Publish(shared.NewEntityEvent(shared.EventNewsCreated, n))
	return n, nil
}

// Get returns a news item and counts the view.
func (s *NewsService) Get(ctx context.Context, id int64) (*news.News, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// View counting is best effort.
	if err := s.repo.IncrementViews(ctx, id); err == nil {
		n.ViewsCount++
	}
	return n, nil
}

// List returns active items matching the filter, newest first.
func (s *NewsService) List(ctx context.Context, f news.Filter) ([]*news.News, error) {
	return s.repo.List(ctx, f)
}

// UpdateNewsInput contains the editable news fields.
type UpdateNewsInput struct {
	Title    *string
	Content  *string
	Author   *string
	ImageURL *string

	EventDate     *time.Time
	EventLocation *string
	EventLink     *string

	CampaignGoal    *string
	CampaignEndDate *time.Time
	CampaignContact *string

	IsFeatured *bool
	IsActive   *bool
}

// Update applies the edits and broadcasts news_updated.
func (s *NewsService) Update(ctx context.Context, id int64, in UpdateNewsInput) (*news.News, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil && *in.Title != "" {
		n.Title = *in.Title
	}
	if in.Content != nil && *in.Content != "" {
		n.Content = *in.Content
	}
	if in.Author != nil {
		n.Author = *in.Author
	}
	if in.ImageURL != nil {
		n.ImageURL = *in.ImageURL
	}
	if in.EventDate != nil {
		n.EventDate = in.EventDate
	}
	if in.EventLocation != nil {
		n.EventLocation = *in.EventLocation
	}
	if in.EventLink != nil {
		n.EventLink = *in.EventLink
	}
	if in.CampaignGoal != nil {
		n.CampaignGoal = *in.CampaignGoal
	}
	if in.CampaignEndDate != nil {
		n.CampaignEndDate = in.CampaignEndDate
	}
	if in.CampaignContact != nil {
		n.CampaignContact = *in.CampaignContact
	}
	if in.IsFeatured != nil {
		n.IsFeatured = *in.IsFeatured
	}
	if in.IsActive != nil {
		n.IsActive = *in.IsActive
	}
	now := time.Now().UTC()
	n.UpdatedAt = &now

	if err := s.repo.Update(ctx, n); err != nil {
		return nil, err
	}

	s.publisher.Publish(shared.NewEntityEvent(shared.EventNewsUpdated, n))
	return n, nil
}

// Delete removes the item and broadcasts news_deleted with only the id.
func (s *NewsService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.publisher.Publish(shared.NewDeletedEvent(shared.EventNewsDeleted, id))
	return nil
}
