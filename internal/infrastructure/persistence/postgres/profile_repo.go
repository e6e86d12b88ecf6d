package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/profile"
	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/shared"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// USER REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

const userColumns = `id, email, password_hash, full_name, phone, city, state, bio,
	   role, status, created_at, updated_at`

// UserRepository implements profile.UserRepository for PostgreSQL.
type UserRepository struct {
	conn *Connection
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(conn *Connection) *UserRepository {
	return &UserRepository{conn: conn}
}

// Create inserts the user and assigns its id.
func (r *UserRepository) Create(ctx context.Context, u *profile.User) error {
	query := `
		INSERT INTO users (email, password_hash, full_name, phone, city, state, bio,
			role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	err := r.conn.QueryRow(ctx, query,
		u.Email,
		u.PasswordHash,
		u.FullName,
		nullString(u.Phone),
		nullString(u.City),
		nullString(u.State),
		nullString(u.Bio),
		string(u.Role),
		string(u.Status),
		u.CreatedAt,
		u.UpdatedAt,
	).Scan(&u.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID returns the user or shared.ErrUserNotFound.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*profile.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	return scanUser(r.conn.QueryRow(ctx, query, id))
}

// GetByEmail returns the user or shared.ErrUserNotFound.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*profile.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)
	return scanUser(r.conn.QueryRow(ctx, query, strings.ToLower(email)))
}

// List returns users, optionally filtered by role and status.
func (r *UserRepository) List(ctx context.Context, role profile.Role, status profile.UserStatus, offset, limit int) ([]*profile.User, error) {
	var conditions []string
	var args []any

	if role != "" {
		args = append(args, string(role))
		conditions = append(conditions, fmt.Sprintf("role = $%d", len(args)))
	}
	if status != "" {
		args = append(args, string(status))
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM users`, userColumns)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"
	query += limitOffset(&args, limit, offset)

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*profile.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Update persists changed user fields.
func (r *UserRepository) Update(ctx context.Context, u *profile.User) error {
	query := `
		UPDATE users SET
			full_name = $2, phone = $3, city = $4, state = $5, bio = $6,
			role = $7, status = $8, updated_at = $9
		WHERE id = $1
	`

	tag, err := r.conn.Exec(ctx, query,
		u.ID,
		u.FullName,
		nullString(u.Phone),
		nullString(u.City),
		nullString(u.State),
		nullString(u.Bio),
		string(u.Role),
		string(u.Status),
		u.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrUserNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*profile.User, error) {
	var u profile.User
	var role, status string
	var phone, city, state, bio *string

	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.FullName,
		&phone,
		&city,
		&state,
		&bio,
		&role,
		&status,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	u.Role = profile.Role(role)
	u.Status = profile.UserStatus(status)
	u.Phone = derefString(phone)
	u.City = derefString(city)
	u.State = derefString(state)
	u.Bio = derefString(bio)

	return &u, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// VOLUNTEER REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

const volunteerColumns = `id, user_id, volunteer_type, institution, document_url,
	   document_verified, total_points, total_lessons`

// VolunteerRepository implements profile.VolunteerRepository for PostgreSQL.
// Subject links live in the volunteer_subjects join table and are loaded
// with each profile.
type VolunteerRepository struct {
	conn *Connection
}

// NewVolunteerRepository creates a new VolunteerRepository.
func NewVolunteerRepository(conn *Connection) *VolunteerRepository {
	return &VolunteerRepository{conn: conn}
}

// Create inserts the volunteer profile and its subject links.
func (r *VolunteerRepository) Create(ctx context.Context, v *profile.Volunteer) error {
	return r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO volunteers (user_id, volunteer_type, institution, document_url,
				document_verified, total_points, total_lessons)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`
		err := tx.QueryRow(ctx, query,
			v.UserID,
			string(v.Type),
			nullString(v.Institution),
			nullString(v.DocumentURL),
			v.DocumentVerified,
			v.TotalPoints,
			v.TotalLessons,
		).Scan(&v.ID)
		if err != nil {
			if IsUniqueViolation(err) {
				return shared.ErrProfileExists
			}
			if IsForeignKeyViolation(err) {
				return shared.ErrUserNotFound
			}
			return fmt.Errorf("failed to create volunteer: %w", err)
		}

		return replaceSubjectLinks(ctx, tx, "volunteer_subjects", "volunteer_id", v.ID, v.SubjectIDs)
	})
}

// GetByID returns the volunteer or shared.ErrVolunteerNotFound.
func (r *VolunteerRepository) GetByID(ctx context.Context, id int64) (*profile.Volunteer, error) {
	query := fmt.Sprintf(`SELECT %s FROM volunteers WHERE id = $1`, volunteerColumns)
	v, err := scanVolunteer(r.conn.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	return r.withSubjects(ctx, v)
}

// GetByUserID returns the volunteer owned by the given user.
func (r *VolunteerRepository) GetByUserID(ctx context.Context, userID int64) (*profile.Volunteer, error) {
	query := fmt.Sprintf(`SELECT %s FROM volunteers WHERE user_id = $1`, volunteerColumns)
	v, err := scanVolunteer(r.conn.QueryRow(ctx, query, userID))
	if err != nil {
		return nil, err
	}
	return r.withSubjects(ctx, v)
}

// List returns volunteer profiles.
func (r *VolunteerRepository) List(ctx context.Context, offset, limit int) ([]*profile.Volunteer, error) {
	var args []any
	query := fmt.Sprintf(`SELECT %s FROM volunteers ORDER BY id`, volunteerColumns)
	query += limitOffset(&args, limit, offset)

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list volunteers: %w", err)
	}
	defer rows.Close()

	return scanVolunteers(rows)
}

// Update persists changed volunteer fields and subject links. The point
// counters are excluded: they change only through CreditLesson.
func (r *VolunteerRepository) Update(ctx context.Context, v *profile.Volunteer) error {
	return r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		query := `
			UPDATE volunteers SET
				volunteer_type = $2, institution = $3, document_url = $4,
				document_verified = $5
			WHERE id = $1
		`
		tag, err := tx.Exec(ctx, query,
			v.ID,
			string(v.Type),
			nullString(v.Institution),
			nullString(v.DocumentURL),
			v.DocumentVerified,
		)
		if err != nil {
			return fmt.Errorf("failed to update volunteer: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return shared.ErrVolunteerNotFound
		}

		return replaceSubjectLinks(ctx, tx, "volunteer_subjects", "volunteer_id", v.ID, v.SubjectIDs)
	})
}

// CreditLesson atomically adds the completion reward to the counters.
func (r *VolunteerRepository) CreditLesson(ctx context.Context, id int64, points int64) (*profile.Volunteer, error) {
	query := fmt.Sprintf(`
		UPDATE volunteers
		SET total_points = total_points + $2, total_lessons = total_lessons + 1
		WHERE id = $1
		RETURNING %s
	`, volunteerColumns)

	v, err := scanVolunteer(r.conn.QueryRow(ctx, query, id, points))
	if err != nil {
		return nil, err
	}
	return r.withSubjects(ctx, v)
}

// TopByPoints returns volunteers ordered by total points, highest first.
func (r *VolunteerRepository) TopByPoints(ctx context.Context, limit int) ([]*profile.Volunteer, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM volunteers
		ORDER BY total_points DESC, total_lessons DESC, id
		LIMIT $1
	`, volunteerColumns)

	rows, err := r.conn.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	return scanVolunteers(rows)
}

func (r *VolunteerRepository) withSubjects(ctx context.Context, v *profile.Volunteer) (*profile.Volunteer, error) {
	ids, err := loadSubjectLinks(ctx, r.conn, "volunteer_subjects", "volunteer_id", v.ID)
	if err != nil {
		return nil, err
	}
	v.SubjectIDs = ids
	return v, nil
}

func scanVolunteer(row pgx.Row) (*profile.Volunteer, error) {
	var v profile.Volunteer
	var typ string
	var institution, documentURL *string

	err := row.Scan(
		&v.ID,
		&v.UserID,
		&typ,
		&institution,
		&documentURL,
		&v.DocumentVerified,
		&v.TotalPoints,
		&v.TotalLessons,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrVolunteerNotFound
		}
		return nil, fmt.Errorf("failed to scan volunteer: %w", err)
	}

	v.Type = profile.VolunteerType(typ)
	v.Institution = derefString(institution)
	v.DocumentURL = derefString(documentURL)

	return &v, nil
}

func scanVolunteers(rows pgx.Rows) ([]*profile.Volunteer, error) {
	var volunteers []*profile.Volunteer
	for rows.Next() {
		v, err := scanVolunteer(rows)
		if err != nil {
			return nil, err
		}
		volunteers = append(volunteers, v)
	}
	return volunteers, rows.Err()
}

// ══════════════════════════════════════════════════════════════════════════════
// LEARNER REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// LearnerRepository implements profile.LearnerRepository for PostgreSQL.
type LearnerRepository struct {
	conn *Connection
}

// NewLearnerRepository creates a new LearnerRepository.
func NewLearnerRepository(conn *Connection) *LearnerRepository {
	return &LearnerRepository{conn: conn}
}

// Create inserts the learner profile and its interest links.
func (r *LearnerRepository) Create(ctx context.Context, l *profile.Learner) error {
	return r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO learners (user_id, total_badges, total_courses_completed)
			VALUES ($1, $2, $3)
			RETURNING id
		`
		err := tx.QueryRow(ctx, query, l.UserID, l.TotalBadges, l.TotalCoursesCompleted).Scan(&l.ID)
		if err != nil {
			if IsUniqueViolation(err) {
				return shared.ErrProfileExists
			}
			if IsForeignKeyViolation(err) {
				return shared.ErrUserNotFound
			}
			return fmt.Errorf("failed to create learner: %w", err)
		}

		return replaceSubjectLinks(ctx, tx, "learner_interests", "learner_id", l.ID, l.InterestSubjectIDs)
	})
}

// GetByID returns the learner or shared.ErrLearnerNotFound.
func (r *LearnerRepository) GetByID(ctx context.Context, id int64) (*profile.Learner, error) {
	query := `SELECT id, user_id, total_badges, total_courses_completed FROM learners WHERE id = $1`
	return r.scanWithInterests(ctx, r.conn.QueryRow(ctx, query, id))
}

// GetByUserID returns the learner owned by the given user.
func (r *LearnerRepository) GetByUserID(ctx context.Context, userID int64) (*profile.Learner, error) {
	query := `SELECT id, user_id, total_badges, total_courses_completed FROM learners WHERE user_id = $1`
	return r.scanWithInterests(ctx, r.conn.QueryRow(ctx, query, userID))
}

// Update persists changed learner fields and interest links.
func (r *LearnerRepository) Update(ctx context.Context, l *profile.Learner) error {
	return r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		query := `
			UPDATE learners SET total_badges = $2, total_courses_completed = $3
			WHERE id = $1
		`
		tag, err := tx.Exec(ctx, query, l.ID, l.TotalBadges, l.TotalCoursesCompleted)
		if err != nil {
			return fmt.Errorf("failed to update learner: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return shared.ErrLearnerNotFound
		}

		return replaceSubjectLinks(ctx, tx, "learner_interests", "learner_id", l.ID, l.InterestSubjectIDs)
	})
}

func (r *LearnerRepository) scanWithInterests(ctx context.Context, row pgx.Row) (*profile.Learner, error) {
	var l profile.Learner
	err := row.Scan(&l.ID, &l.UserID, &l.TotalBadges, &l.TotalCoursesCompleted)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrLearnerNotFound
		}
		return nil, fmt.Errorf("failed to scan learner: %w", err)
	}

	ids, err := loadSubjectLinks(ctx, r.conn, "learner_interests", "learner_id", l.ID)
	if err != nil {
		return nil, err
	}
	l.InterestSubjectIDs = ids

	return &l, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Subject Link Helpers
// ─────────────────────────────────────────────────────────────────────────────

func replaceSubjectLinks(ctx context.Context, tx pgx.Tx, table, ownerCol string, ownerID int64, subjectIDs []int64) error {
	if _, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table, ownerCol), ownerID); err != nil {
		return fmt.Errorf("failed to clear subject links: %w", err)
	}
	for _, sid := range subjectIDs {
		_, err := tx.Exec(ctx,
			fmt.Sprintf(`INSERT INTO %s (%s, subject_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, table, ownerCol),
			ownerID, sid,
		)
		if err != nil {
			if IsForeignKeyViolation(err) {
				return shared.ErrSubjectNotFound
			}
			return fmt.Errorf("failed to link subject: %w", err)
		}
	}
	return nil
}

func loadSubjectLinks(ctx context.Context, conn *Connection, table, ownerCol string, ownerID int64) ([]int64, error) {
	rows, err := conn.Query(ctx,
		fmt.Sprintf(`SELECT subject_id FROM %s WHERE %s = $1 ORDER BY subject_id`, table, ownerCol),
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load subject links: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
