package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// SCHEMA
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: users and profiles
CREATE TABLE IF NOT EXISTS users (
    id BIGSERIAL PRIMARY KEY,
    email VARCHAR(255) NOT NULL UNIQUE,
    password_hash VARCHAR(100) NOT NULL,
    full_name VARCHAR(150) NOT NULL,
    phone VARCHAR(30),
    city VARCHAR(100),
    state VARCHAR(50),
    bio TEXT,
    role VARCHAR(20) NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'pending',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE,

    CONSTRAINT valid_role CHECK (role IN ('learner', 'volunteer')),
    CONSTRAINT valid_user_status CHECK (status IN ('pending', 'active', 'inactive', 'rejected'))
);

CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
CREATE INDEX IF NOT EXISTS idx_users_role ON users(role);

CREATE TABLE IF NOT EXISTS volunteers (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
    volunteer_type VARCHAR(20) NOT NULL,
    institution VARCHAR(150),
    document_url VARCHAR(500),
    document_verified INTEGER NOT NULL DEFAULT 0,
    total_points BIGINT NOT NULL DEFAULT 0,
    total_lessons BIGINT NOT NULL DEFAULT 0,

    CONSTRAINT valid_volunteer_type CHECK (volunteer_type IN ('student', 'teacher')),
    CONSTRAINT valid_points CHECK (total_points >= 0)
);

CREATE INDEX IF NOT EXISTS idx_volunteers_points ON volunteers(total_points DESC);

CREATE TABLE IF NOT EXISTS learners (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
    total_badges INTEGER NOT NULL DEFAULT 0,
    total_courses_completed INTEGER NOT NULL DEFAULT 0
);
`

const migration001Down = `
DROP TABLE IF EXISTS learners;
DROP TABLE IF EXISTS volunteers;
DROP TABLE IF EXISTS users;
`

const migration002Up = `
-- Migration: subjects and profile interests
CREATE TABLE IF NOT EXISTS subjects (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(100) NOT NULL UNIQUE,
    description TEXT,
    icon VARCHAR(100),
    category VARCHAR(50)
);

CREATE TABLE IF NOT EXISTS volunteer_subjects (
    volunteer_id BIGINT NOT NULL REFERENCES volunteers(id) ON DELETE CASCADE,
    subject_id BIGINT NOT NULL REFERENCES subjects(id) ON DELETE CASCADE,
    PRIMARY KEY (volunteer_id, subject_id)
);

CREATE TABLE IF NOT EXISTS learner_interests (
    learner_id BIGINT NOT NULL REFERENCES learners(id) ON DELETE CASCADE,
    subject_id BIGINT NOT NULL REFERENCES subjects(id) ON DELETE CASCADE,
    PRIMARY KEY (learner_id, subject_id)
);
`

const migration002Down = `
DROP TABLE IF EXISTS learner_interests;
DROP TABLE IF EXISTS volunteer_subjects;
DROP TABLE IF EXISTS subjects;
`

const migration003Up = `
-- Migration: lessons
CREATE TABLE IF NOT EXISTS lessons (
    id BIGSERIAL PRIMARY KEY,
    learner_id BIGINT NOT NULL REFERENCES learners(id),
    volunteer_id BIGINT REFERENCES volunteers(id),
    subject_id BIGINT NOT NULL REFERENCES subjects(id),
    title VARCHAR(200) NOT NULL,
    description TEXT,
    lesson_type VARCHAR(20) NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'requested',
    scheduled_date TIMESTAMP WITH TIME ZONE NOT NULL,
    duration_minutes INTEGER NOT NULL DEFAULT 60,
    location_address VARCHAR(300),
    location_city VARCHAR(100),
    location_latitude VARCHAR(30),
    location_longitude VARCHAR(30),
    meeting_link VARCHAR(500),
    meeting_platform VARCHAR(50),
    rating INTEGER,
    feedback TEXT,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE,

    CONSTRAINT valid_lesson_type CHECK (lesson_type IN ('online', 'presencial')),
    CONSTRAINT valid_lesson_status CHECK (status IN ('requested', 'accepted', 'confirmed', 'completed', 'cancelled')),
    CONSTRAINT valid_rating CHECK (rating IS NULL OR (rating >= 1 AND rating <= 5)),
    -- A volunteer is assigned exactly when the lesson left the requested status.
    CONSTRAINT volunteer_iff_advanced CHECK (
        (status = 'requested' AND volunteer_id IS NULL) OR
        (status <> 'requested' AND volunteer_id IS NOT NULL) OR
        status = 'cancelled'
    )
);

CREATE INDEX IF NOT EXISTS idx_lessons_learner ON lessons(learner_id);
CREATE INDEX IF NOT EXISTS idx_lessons_volunteer ON lessons(volunteer_id);
CREATE INDEX IF NOT EXISTS idx_lessons_status ON lessons(status);
CREATE INDEX IF NOT EXISTS idx_lessons_available ON lessons(created_at DESC) WHERE status = 'requested';
`

const migration003Down = `
DROP TABLE IF EXISTS lessons;
`

const migration004Up = `
-- Migration: news, partner locations, forum
CREATE TABLE IF NOT EXISTS news (
    id BIGSERIAL PRIMARY KEY,
    title VARCHAR(200) NOT NULL,
    content TEXT NOT NULL,
    news_type VARCHAR(20) NOT NULL,
    author VARCHAR(150),
    image_url VARCHAR(500),
    event_date TIMESTAMP WITH TIME ZONE,
    event_location VARCHAR(300),
    event_link VARCHAR(500),
    campaign_goal VARCHAR(300),
    campaign_end_date TIMESTAMP WITH TIME ZONE,
    campaign_contact VARCHAR(200),
    is_featured BOOLEAN NOT NULL DEFAULT FALSE,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    views_count BIGINT NOT NULL DEFAULT 0,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE,

    CONSTRAINT valid_news_type CHECK (news_type IN ('news', 'event', 'campaign', 'announcement'))
);

CREATE TABLE IF NOT EXISTS partner_locations (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(200) NOT NULL,
    partner_type VARCHAR(30) NOT NULL,
    description TEXT,
    address VARCHAR(300),
    city VARCHAR(100),
    state VARCHAR(50),
    latitude VARCHAR(30),
    longitude VARCHAR(30),
    phone VARCHAR(30),
    email VARCHAR(255),
    website VARCHAR(300),
    image_url VARCHAR(500),
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE,

    CONSTRAINT valid_partner_type CHECK (partner_type IN ('ong', 'school', 'library', 'community_center', 'other'))
);

CREATE TABLE IF NOT EXISTS forum_topics (
    id BIGSERIAL PRIMARY KEY,
    subject_id BIGINT NOT NULL REFERENCES subjects(id),
    user_id BIGINT NOT NULL REFERENCES users(id),
    title VARCHAR(200) NOT NULL,
    content TEXT NOT NULL,
    is_resolved BOOLEAN NOT NULL DEFAULT FALSE,
    views_count BIGINT NOT NULL DEFAULT 0,
    replies_count BIGINT NOT NULL DEFAULT 0,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE
);

CREATE TABLE IF NOT EXISTS forum_replies (
    id BIGSERIAL PRIMARY KEY,
    topic_id BIGINT NOT NULL REFERENCES forum_topics(id) ON DELETE CASCADE,
    user_id BIGINT NOT NULL REFERENCES users(id),
    content TEXT NOT NULL,
    is_accepted BOOLEAN NOT NULL DEFAULT FALSE,
    likes_count BIGINT NOT NULL DEFAULT 0,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE
);

CREATE INDEX IF NOT EXISTS idx_forum_topics_subject ON forum_topics(subject_id);
CREATE INDEX IF NOT EXISTS idx_forum_replies_topic ON forum_replies(topic_id);
`

const migration004Down = `
DROP TABLE IF EXISTS forum_replies;
DROP TABLE IF EXISTS forum_topics;
DROP TABLE IF EXISTS partner_locations;
DROP TABLE IF EXISTS news;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATOR
// ══════════════════════════════════════════════════════════════════════════════

// Migration is a single schema version.
type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

// GetMigrations returns all migrations in order.
func GetMigrations() []Migration {
	return []Migration{
		{Version: 1, Name: "users_and_profiles", Up: migration001Up, Down: migration001Down},
		{Version: 2, Name: "subjects", Up: migration002Up, Down: migration002Down},
		{Version: 3, Name: "lessons", Up: migration003Up, Down: migration003Down},
		{Version: 4, Name: "news_partners_forum", Up: migration004Up, Down: migration004Down},
	}
}

// Migrator applies schema migrations in order, recording applied versions
// in a schema_migrations table.
type Migrator struct {
	conn       *Connection
	migrations []Migration
}

// NewMigrator creates a migrator with the built-in migrations.
func NewMigrator(conn *Connection) *Migrator {
	return &Migrator{conn: conn, migrations: GetMigrations()}
}

// Migrate applies all pending migrations.
func (m *Migrator) Migrate(ctx context.Context) error {
	if err := m.ensureMigrationTable(ctx); err != nil {
		return err
	}

	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return err
	}

	for _, mig := range m.migrations {
		if _, done := applied[mig.Version]; done {
			continue
		}
		err := m.conn.WithTx(ctx, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, mig.Up); err != nil {
				return err
			}
			_, err := tx.Exec(ctx,
				`INSERT INTO schema_migrations (version, name, applied_at) VALUES ($1, $2, $3)`,
				mig.Version, mig.Name, time.Now().UTC(),
			)
			return err
		})
		if err != nil {
			return fmt.Errorf("%w: version %d (%s): %v", ErrMigrationFailed, mig.Version, mig.Name, err)
		}
	}
	return nil
}

func (m *Migrator) ensureMigrationTable(ctx context.Context) error {
	_, err := m.conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL
		)
	`)
	return err
}

func (m *Migrator) appliedVersions(ctx context.Context) (map[int]time.Time, error) {
	rows, err := m.conn.Query(ctx, `SELECT version, applied_at FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]time.Time)
	for rows.Next() {
		var version int
		var at time.Time
		if err := rows.Scan(&version, &at); err != nil {
			return nil, err
		}
		applied[version] = at
	}
	return applied, rows.Err()
}
