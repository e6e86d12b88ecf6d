package adapter

import (
	"context"
	"time"

	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/forum"
	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// FORUM SERVICE
// ══════════════════════════════════════════════════════════════════════════════

// ForumService handles forum topics and replies. Edits and deletions are
// restricted to the author of the post.
type ForumService struct {
	repo      forum.Repository
	publisher shared.EventPublisher
}

// NewForumService creates a new ForumService.
func NewForumService(repo forum.Repository, publisher shared.EventPublisher) *ForumService {
	return &ForumService{repo: repo, publisher: publisher}
}

// ─────────────────────────────────────────────────────────────────────────────
// Topics
// ─────────────────────────────────────────────────────────────────────────────

// CreateTopic opens a discussion and broadcasts forum_topic_created.
func (s *ForumService) CreateTopic(ctx context.Context, subjectID, userID int64, title, content string) (*forum.Topic, error) {
	t, err := forum.NewTopic(subjectID, userID, title, content)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateTopic(ctx, t); err != nil {
		return nil, err
	}

	s.publisher.Publish(shared.NewEntityEvent(shared.EventTopicCreated, t))
	return t, nil
}

// GetTopic returns a topic and counts the view.
func (s *ForumService) GetTopic(ctx context.Context, id int64) (*forum.Topic, error) {
	t, err := s.repo.GetTopic(ctx, id)
	if err != nil {
		return nil, err
	}

	t.ViewsCount++
	if err := s.repo.UpdateTopic(ctx, t); err != nil {
		t.ViewsCount-- // view counting is best effort
	}
	return t, nil
}

// ListTopics returns topics, optionally filtered by subject, newest first.
func (s *ForumService) ListTopics(ctx context.Context, subjectID int64, offset, limit int) ([]*forum.Topic, error) {
	return s.repo.ListTopics(ctx, subjectID, offset, limit)
}

// UpdateTopic lets the author edit title and content.
func (s *ForumService) UpdateTopic(ctx context.Context, id, actorID int64, title, content *string) (*forum.Topic, error) {
	t, err := s.repo.GetTopic(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.UserID != actorID {
		return nil, shared.ErrNotTopicAuthor
	}

	if title != nil && *title != "" {
		t.Title = *title
	}
	if content != nil && *content != "" {
		t.Content = *content
	}
	now := time.Now().UTC()
	t.UpdatedAt = &now

	if err := s.repo.UpdateTopic(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// ResolveTopic lets the author mark the topic resolved.
func (s *ForumService) ResolveTopic(ctx context.Context, id, actorID int64) (*forum.Topic, error) {
	t, err := s.repo.GetTopic(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.UserID != actorID {
		return nil, shared.ErrNotTopicAuthor
	}

	t.IsResolved = true
	now := time.Now().UTC()
	t.UpdatedAt = &now

	if err := s.repo.UpdateTopic(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// DeleteTopic lets the author remove the topic and its replies.
func (s *ForumService) DeleteTopic(ctx context.Context, id, actorID int64) error {
	t, err := s.repo.GetTopic(ctx, id)
	if err != nil {
		return err
	}
	if t.UserID != actorID {
		return shared.ErrNotTopicAuthor
	}
	return s.repo.DeleteTopic(ctx, id)
}

// ─────────────────────────────────────────────────────────────────────────────
// Replies
// ─────────────────────────────────────────────────────────────────────────────

// CreateReply posts a reply and broadcasts forum_reply_created.
func (s *ForumService) CreateReply(ctx context.Context, topicID, userID int64, content string) (*forum.Reply, error) {
	r, err := forum.NewReply(topicID, userID, content)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateReply(ctx, r); err != nil {
		return nil, err
	}

	s.publisher.Publish(shared.NewEntityEvent(shared.EventReplyCreated, r))
	return r, nil
}

// ListReplies returns a topic's replies, oldest first.
func (s *ForumService) ListReplies(ctx context.Context, topicID int64) ([]*forum.Reply, error) {
	return s.repo.ListReplies(ctx, topicID)
}

// UpdateReply lets the author edit the reply.
func (s *ForumService) UpdateReply(ctx context.Context, id, actorID int64, content string) (*forum.Reply, error) {
	r, err := s.repo.GetReply(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.UserID != actorID {
		return nil, shared.ErrNotReplyAuthor
	}
	if content == "" {
		return nil, shared.NewDomainError("forum", "UpdateReply", shared.ErrEmptyValue, "content is required")
	}

	r.Content = content
	now := time.Now().UTC()
	r.UpdatedAt = &now

	if err := s.repo.UpdateReply(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// AcceptReply lets the topic author mark a reply as the solution and
// resolves the topic.
func (s *ForumService) AcceptReply(ctx context.Context, replyID, actorID int64) (*forum.Reply, error) {
	r, err := s.repo.GetReply(ctx, replyID)
	if err != nil {
		return nil, err
	}
	t, err := s.repo.GetTopic(ctx, r.TopicID)
	if err != nil {
		return nil, err
	}
	if t.UserID != actorID {
		return nil, shared.ErrNotTopicAuthor
	}

	now := time.Now().UTC()
	r.IsAccepted = true
	r.UpdatedAt = &now
	if err := s.repo.UpdateReply(ctx, r); err != nil {
		return nil, err
	}

	t.IsResolved = true
	t.UpdatedAt = &now
	if err := s.repo.UpdateTopic(ctx, t); err != nil {
		return nil, err
	}
	return r, nil
}

// LikeReply bumps the reply's like counter.
func (s *ForumService) LikeReply(ctx context.Context, id int64) (*forum.Reply, error) {
	r, err := s.repo.GetReply(ctx, id)
	if err != nil {
		return nil, err
	}

	r.LikesCount++
	if err := s.repo.UpdateReply(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// DeleteReply lets the author remove the reply.
func (s *ForumService) DeleteReply(ctx context.Context, id, actorID int64) error {
	r, err := s.repo.GetReply(ctx, id)
	if err != nil {
		return err
	}
	if r.UserID != actorID {
		return shared.ErrNotReplyAuthor
	}
	return s.repo.DeleteReply(ctx, id)
}
