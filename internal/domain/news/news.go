// Package news contains the news, event, and campaign domain model.
package news

import (
	"context"
	"time"

	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/shared"
)

// Kind classifies a published item.
type Kind string

const (
	// KindNews - a plain news article.
	KindNews Kind = "news"
	// KindEvent - an event with a date and location.
	KindEvent Kind = "event"
	// KindCampaign - a donation or volunteering campaign.
	KindCampaign Kind = "campaign"
	// KindAnnouncement - a platform announcement.
	KindAnnouncement Kind = "announcement"
)

// IsValid checks that the kind is one of the known values.
func (k Kind) IsValid() bool {
	switch k {
	case KindNews, KindEvent, KindCampaign, KindAnnouncement:
		return true
	default:
		return false
	}
}

// News is a published news item, event, or campaign.
type News struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Kind     Kind   `json:"news_type"`
	Author   string `json:"author,omitempty"`
	ImageURL string `json:"image_url,omitempty"`

	// Events
	EventDate     *time.Time `json:"event_date,omitempty"`
	EventLocation string     `json:"event_location,omitempty"`
	EventLink     string     `json:"event_link,omitempty"`

	// Campaigns
	CampaignGoal    string     `json:"campaign_goal,omitempty"`
	CampaignEndDate *time.Time `json:"campaign_end_date,omitempty"`
	CampaignContact string     `json:"campaign_contact,omitempty"`

	IsFeatured bool  `json:"is_featured"`
	IsActive   bool  `json:"is_active"`
	ViewsCount int64 `json:"views_count"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// New creates an active news item.
func New(title, content string, kind Kind) (*News, error) {
	if title == "" {
		return nil, shared.NewDomainError("news", "New", shared.ErrEmptyValue, "title is required")
	}
	if content == "" {
		return nil, shared.NewDomainError("news", "New", shared.ErrEmptyValue, "content is required")
	}
	if !kind.IsValid() {
		return nil, shared.ErrInvalidNewsKind
	}
	return &News{
		Title:     title,
		Content:   content,
		Kind:      kind,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Filter narrows news listings. Zero values mean "no constraint".
type Filter struct {
	Kind         Kind
	FeaturedOnly bool
	Offset       int
	Limit        int
}

// Repository is the persistence port for news items.
type Repository interface {
	// Create inserts a new item and assigns its id.
	Create(ctx context.Context, n *News) error

	// GetByID returns the item or shared.ErrNewsNotFound.
	GetByID(ctx context.Context, id int64) (*News, error)

	// List returns active items matching the filter, newest first.
	List(ctx context.Context, f Filter) ([]*News, error)

	// Update persists changed fields.
	Update(ctx context.Context, n *News) error

	// Delete removes the item.
	Delete(ctx context.Context, id int64) error

	// IncrementViews bumps the view counter.
	IncrementViews(ctx context.Context, id int64) error
}
