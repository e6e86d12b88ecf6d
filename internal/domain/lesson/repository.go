package lesson

import "context"

// Filter narrows lesson listings. Zero values mean "no constraint".
type Filter struct {
	LearnerID   int64
	VolunteerID int64
	SubjectID   int64
	Status      Status
	Kind        Kind
	Offset      int
	Limit       int
}

// AvailableFilter narrows the open-request listing volunteers browse.
type AvailableFilter struct {
	SubjectID int64
	City      string
	Offset    int
	Limit     int
}

// Mutator applies an in-place change to a lesson inside the repository's
// per-lesson critical section. Returning an error aborts the update and
// leaves the stored record untouched.
type Mutator func(l *Lesson) error

// Repository is the persistence port for lessons.
//
// UpdateAtomic is the single write path for lifecycle transitions: the
// implementation must run the load-mutate-store sequence as one critical
// section keyed by lesson id (a row lock in SQL, a keyed mutex in memory),
// so two concurrent transitions on the same lesson serialize and the
// second observes the first's result. Lessons with different ids never
// contend.
type Repository interface {
	// Create inserts a new lesson and assigns its id.
	Create(ctx context.Context, l *Lesson) error

	// GetByID returns the lesson or shared.ErrLessonNotFound.
	GetByID(ctx context.Context, id int64) (*Lesson, error)

	// List returns lessons matching the filter, newest scheduled first.
	List(ctx context.Context, f Filter) ([]*Lesson, error)

	// ListAvailable returns requested lessons volunteers can claim,
	// newest first.
	ListAvailable(ctx context.Context, f AvailableFilter) ([]*Lesson, error)

	// UpdateAtomic loads the lesson under the per-id critical section,
	// applies mutate, and persists the result if mutate returns nil.
	// It returns the post-mutation snapshot, shared.ErrLessonNotFound if
	// the id is unknown, or the mutator's error unchanged.
	UpdateAtomic(ctx context.Context, id int64, mutate Mutator) (*Lesson, error)
}
