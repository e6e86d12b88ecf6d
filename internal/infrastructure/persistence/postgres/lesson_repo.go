package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/lesson"
	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/shared"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// LESSON REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

const lessonColumns = `id, learner_id, volunteer_id, subject_id, title, description,
	   lesson_type, status, scheduled_date, duration_minutes,
	   location_address, location_city, location_latitude, location_longitude,
	   meeting_link, meeting_platform, rating, feedback, created_at, updated_at`

// LessonRepository implements lesson.Repository for PostgreSQL. The
// UpdateAtomic critical section is a SELECT ... FOR UPDATE row lock inside
// a transaction, so racing lifecycle transitions on the same lesson
// serialize at the database.
type LessonRepository struct {
	conn *Connection
}

// NewLessonRepository creates a new LessonRepository.
func NewLessonRepository(conn *Connection) *LessonRepository {
	return &LessonRepository{conn: conn}
}

// ─────────────────────────────────────────────────────────────────────────────
// CRUD Operations
// ─────────────────────────────────────────────────────────────────────────────

// Create inserts the lesson and assigns its id.
func (r *LessonRepository) Create(ctx context.Context, l *lesson.Lesson) error {
	query := `
		INSERT INTO lessons (
			learner_id, volunteer_id, subject_id, title, description,
			lesson_type, status, scheduled_date, duration_minutes,
			location_address, location_city, location_latitude, location_longitude,
			meeting_link, meeting_platform, rating, feedback, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING id
	`

	err := r.conn.QueryRow(ctx, query,
		l.LearnerID,
		l.VolunteerID,
		l.SubjectID,
		l.Title,
		nullString(l.Description),
		string(l.Kind),
		string(l.Status),
		l.ScheduledAt,
		l.DurationMinutes,
		nullString(l.LocationAddress),
		nullString(l.LocationCity),
		nullString(l.LocationLatitude),
		nullString(l.LocationLongitude),
		nullString(l.MeetingLink),
		nullString(l.MeetingPlatform),
		ratingToDB(l.Rating),
		nullString(l.Feedback),
		l.CreatedAt,
		l.UpdatedAt,
	).Scan(&l.ID)
	if err != nil {
		if IsForeignKeyViolation(err) {
			// Learner or subject vanished between the handler's existence
			// check and the insert.
			return shared.WrapError("lesson", "Create", shared.ErrNotFound,
				"referenced learner or subject does not exist", err)
		}
		return fmt.Errorf("failed to create lesson: %w", err)
	}

	return nil
}

// GetByID returns the lesson or shared.ErrLessonNotFound.
func (r *LessonRepository) GetByID(ctx context.Context, id int64) (*lesson.Lesson, error) {
	query := fmt.Sprintf(`SELECT %s FROM lessons WHERE id = $1`, lessonColumns)

	row := r.conn.QueryRow(ctx, query, id)
	return scanLesson(row)
}

// List returns lessons matching the filter, newest scheduled first.
func (r *LessonRepository) List(ctx context.Context, f lesson.Filter) ([]*lesson.Lesson, error) {
	var conditions []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.LearnerID > 0 {
		conditions = append(conditions, "learner_id = "+arg(f.LearnerID))
	}
	if f.VolunteerID > 0 {
		conditions = append(conditions, "volunteer_id = "+arg(f.VolunteerID))
	}
	if f.SubjectID > 0 {
		conditions = append(conditions, "subject_id = "+arg(f.SubjectID))
	}
	if f.Status != "" {
		conditions = append(conditions, "status = "+arg(string(f.Status)))
	}
	if f.Kind != "" {
		conditions = append(conditions, "lesson_type = "+arg(string(f.Kind)))
	}

	query := fmt.Sprintf(`SELECT %s FROM lessons`, lessonColumns)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY scheduled_date DESC"
	query += limitOffset(&args, f.Limit, f.Offset)

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list lessons: %w", err)
	}
	defer rows.Close()

	return scanLessons(rows)
}

// ListAvailable returns open requests volunteers can claim, newest first.
func (r *LessonRepository) ListAvailable(ctx context.Context, f lesson.AvailableFilter) ([]*lesson.Lesson, error) {
	conditions := []string{"status = 'requested'"}
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.SubjectID > 0 {
		conditions = append(conditions, "subject_id = "+arg(f.SubjectID))
	}
	if f.City != "" {
		conditions = append(conditions, "location_city = "+arg(f.City))
	}

	query := fmt.Sprintf(`SELECT %s FROM lessons WHERE %s ORDER BY created_at DESC`,
		lessonColumns, strings.Join(conditions, " AND "))
	query += limitOffset(&args, f.Limit, f.Offset)

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list available lessons: %w", err)
	}
	defer rows.Close()

	return scanLessons(rows)
}

// ─────────────────────────────────────────────────────────────────────────────
// Atomic Update
// ─────────────────────────────────────────────────────────────────────────────

// UpdateAtomic locks the lesson row, applies mutate, and persists the
// result. The mutator's error aborts the transaction unchanged; the row
// lock guarantees the second of two racing transitions observes the
// first's result.
func (r *LessonRepository) UpdateAtomic(ctx context.Context, id int64, mutate lesson.Mutator) (*lesson.Lesson, error) {
	var result *lesson.Lesson

	err := r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		query := fmt.Sprintf(`SELECT %s FROM lessons WHERE id = $1 FOR UPDATE`, lessonColumns)

		l, err := scanLesson(tx.QueryRow(ctx, query, id))
		if err != nil {
			return err
		}

		if err := mutate(l); err != nil {
			return err
		}

		update := `
			UPDATE lessons SET
				volunteer_id = $2, title = $3, description = $4, lesson_type = $5,
				status = $6, scheduled_date = $7, duration_minutes = $8,
				location_address = $9, location_city = $10,
				location_latitude = $11, location_longitude = $12,
				meeting_link = $13, meeting_platform = $14,
				rating = $15, feedback = $16, updated_at = $17
			WHERE id = $1
		`
		_, err = tx.Exec(ctx, update,
			l.ID,
			l.VolunteerID,
			l.Title,
			nullString(l.Description),
			string(l.Kind),
			string(l.Status),
			l.ScheduledAt,
			l.DurationMinutes,
			nullString(l.LocationAddress),
			nullString(l.LocationCity),
			nullString(l.LocationLatitude),
			nullString(l.LocationLongitude),
			nullString(l.MeetingLink),
			nullString(l.MeetingPlatform),
			ratingToDB(l.Rating),
			nullString(l.Feedback),
			l.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to update lesson: %w", err)
		}

		result = l
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Scanning Helpers
// ─────────────────────────────────────────────────────────────────────────────

func scanLesson(row pgx.Row) (*lesson.Lesson, error) {
	var l lesson.Lesson
	var kind, status string
	var description, locAddress, locCity, locLat, locLng *string
	var meetLink, meetPlatform, feedback *string
	var rating *int

	err := row.Scan(
		&l.ID,
		&l.LearnerID,
		&l.VolunteerID,
		&l.SubjectID,
		&l.Title,
		&description,
		&kind,
		&status,
		&l.ScheduledAt,
		&l.DurationMinutes,
		&locAddress,
		&locCity,
		&locLat,
		&locLng,
		&meetLink,
		&meetPlatform,
		&rating,
		&feedback,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrLessonNotFound
		}
		return nil, fmt.Errorf("failed to scan lesson: %w", err)
	}

	l.Kind = lesson.Kind(kind)
	l.Status = lesson.Status(status)
	l.Description = derefString(description)
	l.LocationAddress = derefString(locAddress)
	l.LocationCity = derefString(locCity)
	l.LocationLatitude = derefString(locLat)
	l.LocationLongitude = derefString(locLng)
	l.MeetingLink = derefString(meetLink)
	l.MeetingPlatform = derefString(meetPlatform)
	l.Feedback = derefString(feedback)
	if rating != nil {
		v := lesson.Rating(*rating)
		l.Rating = &v
	}

	return &l, nil
}

func scanLessons(rows pgx.Rows) ([]*lesson.Lesson, error) {
	var lessons []*lesson.Lesson
	for rows.Next() {
		l, err := scanLesson(rows)
		if err != nil {
			return nil, err
		}
		lessons = append(lessons, l)
	}
	return lessons, rows.Err()
}

func ratingToDB(r *lesson.Rating) *int {
	if r == nil {
		return nil
	}
	v := int(*r)
	return &v
}

// nullString maps "" to NULL so optional text columns stay NULL-clean.
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// limitOffset appends LIMIT/OFFSET clauses for positive values.
func limitOffset(args *[]any, limit, offset int) string {
	var clause string
	if limit > 0 {
		*args = append(*args, limit)
		clause += fmt.Sprintf(" LIMIT $%d", len(*args))
	}
	if offset > 0 {
		*args = append(*args, offset)
		clause += fmt.Sprintf(" OFFSET $%d", len(*args))
	}
	return clause
}
