package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/news"
	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/partner"
	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/shared"
	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/subject"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// SUBJECT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// SubjectRepository implements subject.Repository for PostgreSQL.
type SubjectRepository struct {
	conn *Connection
}

// NewSubjectRepository creates a new SubjectRepository.
func NewSubjectRepository(conn *Connection) *SubjectRepository {
	return &SubjectRepository{conn: conn}
}

// Create inserts the subject and assigns its id.
func (r *SubjectRepository) Create(ctx context.Context, s *subject.Subject) error {
	query := `
		INSERT INTO subjects (name, description, icon, category)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.conn.QueryRow(ctx, query,
		s.Name, nullString(s.Description), nullString(s.Icon), nullString(s.Category),
	).Scan(&s.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrSubjectExists
		}
		return fmt.Errorf("failed to create subject: %w", err)
	}
	return nil
}

// GetByID returns the subject or shared.ErrSubjectNotFound.
func (r *SubjectRepository) GetByID(ctx context.Context, id int64) (*subject.Subject, error) {
	query := `SELECT id, name, description, icon, category FROM subjects WHERE id = $1`

	var s subject.Subject
	var description, icon, category *string
	err := r.conn.QueryRow(ctx, query, id).Scan(&s.ID, &s.Name, &description, &icon, &category)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrSubjectNotFound
		}
		return nil, fmt.Errorf("failed to scan subject: %w", err)
	}
	s.Description = derefString(description)
	s.Icon = derefString(icon)
	s.Category = derefString(category)
	return &s, nil
}

// List returns all subjects ordered by name.
func (r *SubjectRepository) List(ctx context.Context) ([]*subject.Subject, error) {
	rows, err := r.conn.Query(ctx, `SELECT id, name, description, icon, category FROM subjects ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}
	defer rows.Close()

	var subjects []*subject.Subject
	for rows.Next() {
		var s subject.Subject
		var description, icon, category *string
		if err := rows.Scan(&s.ID, &s.Name, &description, &icon, &category); err != nil {
			return nil, err
		}
		s.Description = derefString(description)
		s.Icon = derefString(icon)
		s.Category = derefString(category)
		subjects = append(subjects, &s)
	}
	return subjects, rows.Err()
}

// Update persists changed subject fields.
func (r *SubjectRepository) Update(ctx context.Context, s *subject.Subject) error {
	query := `UPDATE subjects SET name = $2, description = $3, icon = $4, category = $5 WHERE id = $1`
	tag, err := r.conn.Exec(ctx, query,
		s.ID, s.Name, nullString(s.Description), nullString(s.Icon), nullString(s.Category),
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrSubjectExists
		}
		return fmt.Errorf("failed to update subject: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrSubjectNotFound
	}
	return nil
}

// Delete removes the subject.
func (r *SubjectRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.conn.Exec(ctx, `DELETE FROM subjects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete subject: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrSubjectNotFound
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// NEWS REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

const newsColumns = `id, title, content, news_type, author, image_url,
	   event_date, event_location, event_link,
	   campaign_goal, campaign_end_date, campaign_contact,
	   is_featured, is_active, views_count, created_at, updated_at`

// NewsRepository implements news.Repository for PostgreSQL.
type NewsRepository struct {
	conn *Connection
}

// NewNewsRepository creates a new NewsRepository.
func NewNewsRepository(conn *Connection) *NewsRepository {
	return &NewsRepository{conn: conn}
}

// Create inserts the item and assigns its id.
func (r *NewsRepository) Create(ctx context.Context, n *news.News) error {
	query := `
		INSERT INTO news (title, content, news_type, author, image_url,
			event_date, event_location, event_link,
			campaign_goal, campaign_end_date, campaign_contact,
			is_featured, is_active, views_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id
	`
	err := r.conn.QueryRow(ctx, query,
		n.Title, n.Content, string(n.Kind),
		nullString(n.Author), nullString(n.ImageURL),
		n.EventDate, nullString(n.EventLocation), nullString(n.EventLink),
		nullString(n.CampaignGoal), n.CampaignEndDate, nullString(n.CampaignContact),
		n.IsFeatured, n.IsActive, n.ViewsCount, n.CreatedAt, n.UpdatedAt,
	).Scan(&n.ID)
	if err != nil {
		return fmt.Errorf("failed to create news: %w", err)
	}
	return nil
}

// GetByID returns the item or shared.ErrNewsNotFound.
func (r *NewsRepository) GetByID(ctx context.Context, id int64) (*news.News, error) {
	query := fmt.Sprintf(`SELECT %s FROM news WHERE id = $1`, newsColumns)

	var n news.News
	var kind string
	var author, imageURL, eventLocation, eventLink *string
	var campaignGoal, campaignContact *string
	err := r.conn.QueryRow(ctx, query, id).Scan(
		&n.ID, &n.Title, &n.Content, &kind, &author, &imageURL,
		&n.EventDate, &eventLocation, &eventLink,
		&campaignGoal, &n.CampaignEndDate, &campaignContact,
		&n.IsFeatured, &n.IsActive, &n.ViewsCount, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrNewsNotFound
		}
		return nil, fmt.Errorf("failed to scan news: %w", err)
	}

	n.Kind = news.Kind(kind)
	n.Author = derefString(author)
	n.ImageURL = derefString(imageURL)
	n.EventLocation = derefString(eventLocation)
	n.EventLink = derefString(eventLink)
	n.CampaignGoal = derefString(campaignGoal)
	n.CampaignContact = derefString(campaignContact)
	return &n, nil
}

// List returns active items matching the filter, newest first.
func (r *NewsRepository) List(ctx context.Context, f news.Filter) ([]*news.News, error) {
	conditions := []string{"is_active = TRUE"}
	var args []any

	if f.Kind != "" {
		args = append(args, string(f.Kind))
		conditions = append(conditions, fmt.Sprintf("news_type = $%d", len(args)))
	}
	if f.FeaturedOnly {
		conditions = append(conditions, "is_featured = TRUE")
	}

	query := fmt.Sprintf(`SELECT %s FROM news WHERE %s ORDER BY created_at DESC`,
		newsColumns, strings.Join(conditions, " AND "))
	query += limitOffset(&args, f.Limit, f.Offset)

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list news: %w", err)
	}
	defer rows.Close()

	var items []*news.News
	for rows.Next() {
		var n news.News
		var kind string
		var author, imageURL, eventLocation, eventLink *string
		var campaignGoal, campaignContact *string
		err := rows.Scan(
			&n.ID, &n.Title, &n.Content, &kind, &author, &imageURL,
			&n.EventDate, &eventLocation, &eventLink,
			&campaignGoal, &n.CampaignEndDate, &campaignContact,
			&n.IsFeatured, &n.IsActive, &n.ViewsCount, &n.CreatedAt, &n.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		n.Kind = news.Kind(kind)
		n.Author = derefString(author)
		n.ImageURL = derefString(imageURL)
		n.EventLocation = derefString(eventLocation)
		n.EventLink = derefString(eventLink)
		n.CampaignGoal = derefString(campaignGoal)
		n.CampaignContact = derefString(campaignContact)
		items = append(items, &n)
	}
	return items, rows.Err()
}

// Update persists changed fields.
func (r *NewsRepository) Update(ctx context.Context, n *news.News) error {
	query := `
		UPDATE news SET
			title = $2, content = $3, news_type = $4, author = $5, image_url = $6,
			event_date = $7, event_location = $8, event_link = $9,
			campaign_goal = $10, campaign_end_date = $11, campaign_contact = $12,
			is_featured = $13, is_active = $14, updated_at = $15
		WHERE id = $1
	`
	tag, err := r.conn.Exec(ctx, query,
		n.ID, n.Title, n.Content, string(n.Kind),
		nullString(n.Author), nullString(n.ImageURL),
		n.EventDate, nullString(n.EventLocation), nullString(n.EventLink),
		nullString(n.CampaignGoal), n.CampaignEndDate, nullString(n.CampaignContact),
		n.IsFeatured, n.IsActive, n.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update news: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNewsNotFound
	}
	return nil
}

// Delete removes the item.
func (r *NewsRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.conn.Exec(ctx, `DELETE FROM news WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete news: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNewsNotFound
	}
	return nil
}

// IncrementViews bumps the view counter.
func (r *NewsRepository) IncrementViews(ctx context.Context, id int64) error {
	tag, err := r.conn.Exec(ctx, `UPDATE news SET views_count = views_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to increment views: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNewsNotFound
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// PARTNER REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

const partnerColumns = `id, name, partner_type, description, address, city, state,
	   latitude, longitude, phone, email, website, image_url,
	   is_active, created_at, updated_at`

// PartnerRepository implements partner.Repository for PostgreSQL.
type PartnerRepository struct {
	conn *Connection
}

// NewPartnerRepository creates a new PartnerRepository.
func NewPartnerRepository(conn *Connection) *PartnerRepository {
	return &PartnerRepository{conn: conn}
}

// Create inserts the location and assigns its id.
func (r *PartnerRepository) Create(ctx context.Context, p *partner.Location) error {
	query := `
		INSERT INTO partner_locations (name, partner_type, description, address, city, state,
			latitude, longitude, phone, email, website, image_url,
			is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id
	`
	err := r.conn.QueryRow(ctx, query,
		p.Name, string(p.Type), nullString(p.Description),
		nullString(p.Address), nullString(p.City), nullString(p.State),
		nullString(p.Latitude), nullString(p.Longitude),
		nullString(p.Phone), nullString(p.Email), nullString(p.Website), nullString(p.ImageURL),
		p.IsActive, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("failed to create partner location: %w", err)
	}
	return nil
}

// GetByID returns the location or shared.ErrPartnerNotFound.
func (r *PartnerRepository) GetByID(ctx context.Context, id int64) (*partner.Location, error) {
	query := fmt.Sprintf(`SELECT %s FROM partner_locations WHERE id = $1`, partnerColumns)

	p, err := scanPartner(r.conn.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	return p, nil
}

// List returns active locations, optionally filtered by city and type.
func (r *PartnerRepository) List(ctx context.Context, city string, typ partner.Type, offset, limit int) ([]*partner.Location, error) {
	conditions := []string{"is_active = TRUE"}
	var args []any

	if city != "" {
		args = append(args, city)
		conditions = append(conditions, fmt.Sprintf("city = $%d", len(args)))
	}
	if typ != "" {
		args = append(args, string(typ))
		conditions = append(conditions, fmt.Sprintf("partner_type = $%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM partner_locations WHERE %s ORDER BY name`,
		partnerColumns, strings.Join(conditions, " AND "))
	query += limitOffset(&args, limit, offset)

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list partner locations: %w", err)
	}
	defer rows.Close()

	var locations []*partner.Location
	for rows.Next() {
		p, err := scanPartner(rows)
		if err != nil {
			return nil, err
		}
		locations = append(locations, p)
	}
	return locations, rows.Err()
}

// Update persists changed fields.
func (r *PartnerRepository) Update(ctx context.Context, p *partner.Location) error {
	query := `
		UPDATE partner_locations SET
			name = $2, partner_type = $3, description = $4, address = $5,
			city = $6, state = $7, latitude = $8, longitude = $9,
			phone = $10, email = $11, website = $12, image_url = $13,
			is_active = $14, updated_at = $15
		WHERE id = $1
	`
	tag, err := r.conn.Exec(ctx, query,
		p.ID, p.Name, string(p.Type), nullString(p.Description),
		nullString(p.Address), nullString(p.City), nullString(p.State),
		nullString(p.Latitude), nullString(p.Longitude),
		nullString(p.Phone), nullString(p.Email), nullString(p.Website), nullString(p.ImageURL),
		p.IsActive, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update partner location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrPartnerNotFound
	}
	return nil
}

// Delete removes the location.
func (r *PartnerRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.conn.Exec(ctx, `DELETE FROM partner_locations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete partner location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrPartnerNotFound
	}
	return nil
}

func scanPartner(row pgx.Row) (*partner.Location, error) {
	var p partner.Location
	var typ string
	var description, address, city, state *string
	var lat, lng, phone, email, website, imageURL *string

	err := row.Scan(
		&p.ID, &p.Name, &typ, &description, &address, &city, &state,
		&lat, &lng, &phone, &email, &website, &imageURL,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrPartnerNotFound
		}
		return nil, fmt.Errorf("failed to scan partner location: %w", err)
	}

	p.Type = partner.Type(typ)
	p.Description = derefString(description)
	p.Address = derefString(address)
	p.City = derefString(city)
	p.State = derefString(state)
	p.Latitude = derefString(lat)
	p.Longitude = derefString(lng)
	p.Phone = derefString(phone)
	p.Email = derefString(email)
	p.Website = derefString(website)
	p.ImageURL = derefString(imageURL)
	return &p, nil
}
