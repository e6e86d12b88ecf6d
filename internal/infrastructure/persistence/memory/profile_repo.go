package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/profile"
	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/shared"
)

// ─────────────────────────────────────────────────────────────────────────────
// UserRepository
// ─────────────────────────────────────────────────────────────────────────────

// UserRepository implements profile.UserRepository in memory.
type UserRepository struct {
	mu     sync.RWMutex
	users  map[int64]profile.User
	byMail map[string]int64
	nextID int64
}

// NewUserRepository creates an empty user repository.
func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:  make(map[int64]profile.User),
		byMail: make(map[string]int64),
		nextID: 1,
	}
}

// Create implements profile.UserRepository.
func (r *UserRepository) Create(ctx context.Context, u *profile.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(u.Email)
	if _, taken := r.byMail[key]; taken {
		return shared.ErrEmailTaken
	}
	u.ID = r.nextID
	r.nextID++
	r.users[u.ID] = *u
	r.byMail[key] = u.ID
	return nil
}

// GetByID implements profile.UserRepository.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*profile.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, shared.ErrUserNotFound
	}
	return &u, nil
}

// GetByEmail implements profile.UserRepository.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*profile.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byMail[strings.ToLower(email)]
	if !ok {
		return nil, shared.ErrUserNotFound
	}
	u := r.users[id]
	return &u, nil
}

// List implements profile.UserRepository.
func (r *UserRepository) List(ctx context.Context, role profile.Role, status profile.UserStatus, offset, limit int) ([]*profile.User, error) {
	r.mu.RLock()
	matched := make([]*profile.User, 0)
	for _, stored := range r.users {
		u := stored
		if role != "" && u.Role != role {
			continue
		}
		if status != "" && u.Status != status {
			continue
		}
		matched = append(matched, &u)
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	if offset < 0 {
		offset = 0
	}
	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

// Update implements profile.UserRepository.
func (r *UserRepository) Update(ctx context.Context, u *profile.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[u.ID]; !ok {
		return shared.ErrUserNotFound
	}
	r.users[u.ID] = *u
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// VolunteerRepository
// ─────────────────────────────────────────────────────────────────────────────

// VolunteerRepository implements profile.VolunteerRepository in memory.
type VolunteerRepository struct {
	mu     sync.RWMutex
	vols   map[int64]profile.Volunteer
	byUser map[int64]int64
	nextID int64
}

// NewVolunteerRepository creates an empty volunteer repository.
func NewVolunteerRepository() *VolunteerRepository {
	return &VolunteerRepository{
		vols:   make(map[int64]profile.Volunteer),
		byUser: make(map[int64]int64),
		nextID: 1,
	}
}

// Create implements profile.VolunteerRepository.
func (r *VolunteerRepository) Create(ctx context.Context, v *profile.Volunteer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byUser[v.UserID]; exists {
		return shared.ErrProfileExists
	}
	v.ID = r.nextID
	r.nextID++
	r.vols[v.ID] = *v
	r.byUser[v.UserID] = v.ID
	return nil
}

// GetByID implements profile.VolunteerRepository.
func (r *VolunteerRepository) GetByID(ctx context.Context, id int64) (*profile.Volunteer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.vols[id]
	if !ok {
		return nil, shared.ErrVolunteerNotFound
	}
	return &v, nil
}

// GetByUserID implements profile.VolunteerRepository.
func (r *VolunteerRepository) GetByUserID(ctx context.Context, userID int64) (*profile.Volunteer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUser[userID]
	if !ok {
		return nil, shared.ErrVolunteerNotFound
	}
	v := r.vols[id]
	return &v, nil
}

// List implements profile.VolunteerRepository.
func (r *VolunteerRepository) List(ctx context.Context, offset, limit int) ([]*profile.Volunteer, error) {
	r.mu.RLock()
	matched := make([]*profile.Volunteer, 0, len(r.vols))
	for _, stored := range r.vols {
		v := stored
		matched = append(matched, &v)
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	if offset < 0 {
		offset = 0
	}
	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

// Update implements profile.VolunteerRepository.
func (r *VolunteerRepository) Update(ctx context.Context, v *profile.Volunteer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.vols[v.ID]; !ok {
		return shared.ErrVolunteerNotFound
	}
	r.vols[v.ID] = *v
	return nil
}

// CreditLesson implements profile.VolunteerRepository.
func (r *VolunteerRepository) CreditLesson(ctx context.Context, id int64, points int64) (*profile.Volunteer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.vols[id]
	if !ok {
		return nil, shared.ErrVolunteerNotFound
	}
	v.CreditLesson(points)
	r.vols[id] = v
	return &v, nil
}

// TopByPoints implements profile.VolunteerRepository.
func (r *VolunteerRepository) TopByPoints(ctx context.Context, limit int) ([]*profile.Volunteer, error) {
	all, err := r.List(ctx, 0, 0)
	if err != nil {
		return nil, err
	}
	sort.Slice(all, func(i, j int) bool { return all[i].TotalPoints > all[j].TotalPoints })
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// LearnerRepository
// ─────────────────────────────────────────────────────────────────────────────

// LearnerRepository implements profile.LearnerRepository in memory.
type LearnerRepository struct {
	mu     sync.RWMutex
	lrn    map[int64]profile.Learner
	byUser map[int64]int64
	nextID int64
}

// NewLearnerRepository creates an empty learner repository.
func NewLearnerRepository() *LearnerRepository {
	return &LearnerRepository{
		lrn:    make(map[int64]profile.Learner),
		byUser: make(map[int64]int64),
		nextID: 1,
	}
}

// Create implements profile.LearnerRepository.
func (r *LearnerRepository) Create(ctx context.Context, l *profile.Learner) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byUser[l.UserID]; exists {
		return shared.ErrProfileExists
	}
	l.ID = r.nextID
	r.nextID++
	r.lrn[l.ID] = *l
	r.byUser[l.UserID] = l.ID
	return nil
}

// GetByID implements profile.LearnerRepository.
func (r *LearnerRepository) GetByID(ctx context.Context, id int64) (*profile.Learner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.lrn[id]
	if !ok {
		return nil, shared.ErrLearnerNotFound
	}
	return &l, nil
}

// GetByUserID implements profile.LearnerRepository.
func (r *LearnerRepository) GetByUserID(ctx context.Context, userID int64) (*profile.Learner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUser[userID]
	if !ok {
		return nil, shared.ErrLearnerNotFound
	}
	l := r.lrn[id]
	return &l, nil
}

// Update implements profile.LearnerRepository.
func (r *LearnerRepository) Update(ctx context.Context, l *profile.Learner) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.lrn[l.ID]; !ok {
		return shared.ErrLearnerNotFound
	}
	r.lrn[l.ID] = *l
	return nil
}
