package postgres

import (
	"context"
	"fmt"

	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/forum"
	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/shared"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// FORUM REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

const topicColumns = `id, subject_id, user_id, title, content, is_resolved,
	   views_count, replies_count, created_at, updated_at`

const replyColumns = `id, topic_id, user_id, content, is_accepted, likes_count,
	   created_at, updated_at`

// ForumRepository implements forum.Repository for PostgreSQL. Reply
// counters on topics are maintained inside the same transaction as the
// reply write.
type ForumRepository struct {
	conn *Connection
}

// NewForumRepository creates a new ForumRepository.
func NewForumRepository(conn *Connection) *ForumRepository {
	return &ForumRepository{conn: conn}
}

// ─────────────────────────────────────────────────────────────────────────────
// Topics
// ─────────────────────────────────────────────────────────────────────────────

// CreateTopic inserts a new topic and assigns its id.
func (r *ForumRepository) CreateTopic(ctx context.Context, t *forum.Topic) error {
	query := `
		INSERT INTO forum_topics (subject_id, user_id, title, content, is_resolved,
			views_count, replies_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	err := r.conn.QueryRow(ctx, query,
		t.SubjectID, t.UserID, t.Title, t.Content, t.IsResolved,
		t.ViewsCount, t.RepliesCount, t.CreatedAt, t.UpdatedAt,
	).Scan(&t.ID)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return shared.ErrSubjectNotFound
		}
		return fmt.Errorf("failed to create topic: %w", err)
	}
	return nil
}

// GetTopic returns the topic or shared.ErrTopicNotFound.
func (r *ForumRepository) GetTopic(ctx context.Context, id int64) (*forum.Topic, error) {
	query := fmt.Sprintf(`SELECT %s FROM forum_topics WHERE id = $1`, topicColumns)
	return scanTopic(r.conn.QueryRow(ctx, query, id))
}

// ListTopics returns topics, optionally filtered by subject, newest first.
func (r *ForumRepository) ListTopics(ctx context.Context, subjectID int64, offset, limit int) ([]*forum.Topic, error) {
	var args []any
	query := fmt.Sprintf(`SELECT %s FROM forum_topics`, topicColumns)
	if subjectID > 0 {
		args = append(args, subjectID)
		query += fmt.Sprintf(" WHERE subject_id = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"
	query += limitOffset(&args, limit, offset)

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}
	defer rows.Close()

	var topics []*forum.Topic
	for rows.Next() {
		t, err := scanTopic(rows)
		if err != nil {
			return nil, err
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

// UpdateTopic persists changed topic fields.
func (r *ForumRepository) UpdateTopic(ctx context.Context, t *forum.Topic) error {
	query := `
		UPDATE forum_topics SET
			title = $2, content = $3, is_resolved = $4, views_count = $5, updated_at = $6
		WHERE id = $1
	`
	tag, err := r.conn.Exec(ctx, query, t.ID, t.Title, t.Content, t.IsResolved, t.ViewsCount, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update topic: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrTopicNotFound
	}
	return nil
}

// DeleteTopic removes a topic; replies cascade at the schema level.
func (r *ForumRepository) DeleteTopic(ctx context.Context, id int64) error {
	tag, err := r.conn.Exec(ctx, `DELETE FROM forum_topics WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete topic: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrTopicNotFound
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Replies
// ─────────────────────────────────────────────────────────────────────────────

// CreateReply inserts a reply and bumps the topic's reply counter.
func (r *ForumRepository) CreateReply(ctx context.Context, reply *forum.Reply) error {
	return r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO forum_replies (topic_id, user_id, content, is_accepted,
				likes_count, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`
		err := tx.QueryRow(ctx, query,
			reply.TopicID, reply.UserID, reply.Content, reply.IsAccepted,
			reply.LikesCount, reply.CreatedAt, reply.UpdatedAt,
		).Scan(&reply.ID)
		if err != nil {
			if IsForeignKeyViolation(err) {
				return shared.ErrTopicNotFound
			}
			return fmt.Errorf("failed to create reply: %w", err)
		}

		_, err = tx.Exec(ctx,
			`UPDATE forum_topics SET replies_count = replies_count + 1 WHERE id = $1`,
			reply.TopicID,
		)
		return err
	})
}

// GetReply returns the reply or shared.ErrReplyNotFound.
func (r *ForumRepository) GetReply(ctx context.Context, id int64) (*forum.Reply, error) {
	query := fmt.Sprintf(`SELECT %s FROM forum_replies WHERE id = $1`, replyColumns)
	return scanReply(r.conn.QueryRow(ctx, query, id))
}

// ListReplies returns a topic's replies, oldest first.
func (r *ForumRepository) ListReplies(ctx context.Context, topicID int64) ([]*forum.Reply, error) {
	query := fmt.Sprintf(`SELECT %s FROM forum_replies WHERE topic_id = $1 ORDER BY created_at`, replyColumns)

	rows, err := r.conn.Query(ctx, query, topicID)
	if err != nil {
		return nil, fmt.Errorf("failed to list replies: %w", err)
	}
	defer rows.Close()

	var replies []*forum.Reply
	for rows.Next() {
		reply, err := scanReply(rows)
		if err != nil {
			return nil, err
		}
		replies = append(replies, reply)
	}
	return replies, rows.Err()
}

// UpdateReply persists changed reply fields.
func (r *ForumRepository) UpdateReply(ctx context.Context, reply *forum.Reply) error {
	query := `
		UPDATE forum_replies SET
			content = $2, is_accepted = $3, likes_count = $4, updated_at = $5
		WHERE id = $1
	`
	tag, err := r.conn.Exec(ctx, query, reply.ID, reply.Content, reply.IsAccepted, reply.LikesCount, reply.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update reply: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrReplyNotFound
	}
	return nil
}

// DeleteReply removes a reply and decrements the topic's counter.
func (r *ForumRepository) DeleteReply(ctx context.Context, id int64) error {
	return r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		var topicID int64
		err := tx.QueryRow(ctx, `DELETE FROM forum_replies WHERE id = $1 RETURNING topic_id`, id).Scan(&topicID)
		if err != nil {
			if IsNoRows(err) {
				return shared.ErrReplyNotFound
			}
			return fmt.Errorf("failed to delete reply: %w", err)
		}

		_, err = tx.Exec(ctx,
			`UPDATE forum_topics SET replies_count = GREATEST(replies_count - 1, 0) WHERE id = $1`,
			topicID,
		)
		return err
	})
}

func scanTopic(row pgx.Row) (*forum.Topic, error) {
	var t forum.Topic
	err := row.Scan(
		&t.ID, &t.SubjectID, &t.UserID, &t.Title, &t.Content, &t.IsResolved,
		&t.ViewsCount, &t.RepliesCount, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrTopicNotFound
		}
		return nil, fmt.Errorf("failed to scan topic: %w", err)
	}
	return &t, nil
}

func scanReply(row pgx.Row) (*forum.Reply, error) {
	var reply forum.Reply
	err := row.Scan(
		&reply.ID, &reply.TopicID, &reply.UserID, &reply.Content, &reply.IsAccepted,
		&reply.LikesCount, &reply.CreatedAt, &reply.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrReplyNotFound
		}
		return nil, fmt.Errorf("failed to scan reply: %w", err)
	}
	return &reply, nil
}
