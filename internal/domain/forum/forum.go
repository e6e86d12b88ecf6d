// Package forum contains the discussion-board domain model: topics opened
// by users under a subject, and threaded replies.
package forum

import (
	"context"
	"time"

	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/shared"
)

// Topic is a forum discussion opened under a subject.
type Topic struct {
	ID           int64      `json:"id"`
	SubjectID    int64      `json:"subject_id"`
	UserID       int64      `json:"user_id"`
	Title        string     `json:"title"`
	Content      string     `json:"content"`
	IsResolved   bool       `json:"is_resolved"`
	ViewsCount   int64      `json:"views_count"`
	RepliesCount int64      `json:"replies_count"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

// NewTopic creates a forum topic.
func NewTopic(subjectID, userID int64, title, content string) (*Topic, error) {
	if subjectID <= 0 || userID <= 0 {
		return nil, shared.NewDomainError("forum", "NewTopic", shared.ErrInvalidID, "subject and user ids must be positive")
	}
	if title == "" || content == "" {
		return nil, shared.NewDomainError("forum", "NewTopic", shared.ErrEmptyValue, "title and content are required")
	}
	return &Topic{
		SubjectID: subjectID,
		UserID:    userID,
		Title:     title,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Reply is an answer posted under a topic. IsAccepted marks the reply the
// topic author chose as the solution.
type Reply struct {
	ID         int64      `json:"id"`
	TopicID    int64      `json:"topic_id"`
	UserID     int64      `json:"user_id"`
	Content    string     `json:"content"`
	IsAccepted bool       `json:"is_accepted"`
	LikesCount int64      `json:"likes_count"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}

// NewReply creates a reply under a topic.
func NewReply(topicID, userID int64, content string) (*Reply, error) {
	if topicID <= 0 || userID <= 0 {
		return nil, shared.NewDomainError("forum", "NewReply", shared.ErrInvalidID, "topic and user ids must be positive")
	}
	if content == "" {
		return nil, shared.NewDomainError("forum", "NewReply", shared.ErrEmptyValue, "content is required")
	}
	return &Reply{
		TopicID:   topicID,
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Repository is the persistence port for forum topics and replies.
type Repository interface {
	// CreateTopic inserts a new topic and assigns its id.
	CreateTopic(ctx context.Context, t *Topic) error

	// GetTopic returns the topic or shared.ErrTopicNotFound.
	GetTopic(ctx context.Context, id int64) (*Topic, error)

	// ListTopics returns topics, optionally filtered by subject, newest first.
	ListTopics(ctx context.Context, subjectID int64, offset, limit int) ([]*Topic, error)

	// UpdateTopic persists changed topic fields.
	UpdateTopic(ctx context.Context, t *Topic) error

	// DeleteTopic removes a topic and its replies.
	DeleteTopic(ctx context.Context, id int64) error

	// CreateReply inserts a reply and bumps the topic's reply counter.
	CreateReply(ctx context.Context, r *Reply) error

	// GetReply returns the reply or shared.ErrReplyNotFound.
	GetReply(ctx context.Context, id int64) (*Reply, error)

	// ListReplies returns a topic's replies, oldest first.
	ListReplies(ctx context.Context, topicID int64) ([]*Reply, error)

	// UpdateReply persists changed reply fields.
	UpdateReply(ctx context.Context, r *Reply) error

	// DeleteReply removes a reply and decrements the topic's counter.
	DeleteReply(ctx context.Context, id int64) error
}
