package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/lesson"
	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/shared"
)

// LessonRepository implements lesson.Repository in memory.
//
// Every lifecycle transition runs under a mutex keyed by lesson id, so two
// concurrent transitions on the same lesson serialize while lessons with
// different ids never contend. This mirrors the row lock the postgres
// implementation takes.
type LessonRepository struct {
	mu      sync.RWMutex
	lessons map[int64]lesson.Lesson
	locks   map[int64]*sync.Mutex
	nextID  int64
}

// NewLessonRepository creates an empty lesson repository.
func NewLessonRepository() *LessonRepository {
	return &LessonRepository{
		lessons: make(map[int64]lesson.Lesson),
		locks:   make(map[int64]*sync.Mutex),
		nextID:  1,
	}
}

// Create implements lesson.Repository.
func (r *LessonRepository) Create(ctx context.Context, l *lesson.Lesson) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	l.ID = r.nextID
	r.nextID++
	r.lessons[l.ID] = *l
	r.locks[l.ID] = &sync.Mutex{}
	return nil
}

// GetByID implements lesson.Repository.
func (r *LessonRepository) GetByID(ctx context.Context, id int64) (*lesson.Lesson, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.lessons[id]
	if !ok {
		return nil, shared.ErrLessonNotFound
	}
	return &stored, nil
}

// List implements lesson.Repository.
func (r *LessonRepository) List(ctx context.Context, f lesson.Filter) ([]*lesson.Lesson, error) {
	r.mu.RLock()
	matched := make([]*lesson.Lesson, 0)
	for _, stored := range r.lessons {
		l := stored
		if f.LearnerID != 0 && l.LearnerID != f.LearnerID {
			continue
		}
		if f.VolunteerID != 0 && (l.VolunteerID == nil || *l.VolunteerID != f.VolunteerID) {
			continue
		}
		if f.SubjectID != 0 && l.SubjectID != f.SubjectID {
			continue
		}
		if f.Status != "" && l.Status != f.Status {
			continue
		}
		if f.Kind != "" && l.Kind != f.Kind {
			continue
		}
		matched = append(matched, &l)
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ScheduledAt.After(matched[j].ScheduledAt)
	})
	return paginate(matched, f.Offset, f.Limit), nil
}

// ListAvailable implements lesson.Repository.
func (r *LessonRepository) ListAvailable(ctx context.Context, f lesson.AvailableFilter) ([]*lesson.Lesson, error) {
	r.mu.RLock()
	matched := make([]*lesson.Lesson, 0)
	for _, stored := range r.lessons {
		l := stored
		if l.Status != lesson.StatusRequested {
			continue
		}
		if f.SubjectID != 0 && l.SubjectID != f.SubjectID {
			continue
		}
		if f.City != "" && l.LocationCity != f.City {
			continue
		}
		matched = append(matched, &l)
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return paginate(matched, f.Offset, f.Limit), nil
}

// UpdateAtomic implements lesson.Repository.
func (r *LessonRepository) UpdateAtomic(ctx context.Context, id int64, mutate lesson.Mutator) (*lesson.Lesson, error) {
	r.mu.RLock()
	lock, ok := r.locks[id]
	r.mu.RUnlock()
	if !ok {
		return nil, shared.ErrLessonNotFound
	}

	lock.Lock()
	defer lock.Unlock()

	r.mu.RLock()
	stored := r.lessons[id]
	r.mu.RUnlock()

	working := stored
	if err := mutate(&working); err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.lessons[id] = working
	r.mu.Unlock()

	snapshot := working
	return &snapshot, nil
}

func paginate(in []*lesson.Lesson, offset, limit int) []*lesson.Lesson {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(in) {
		return nil
	}
	out := in[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}
