// Package memory implements the persistence ports with in-process maps.
// It backs local development without a database and the application-layer
// tests. Semantics match the postgres package: per-lesson critical
// sections, copy-on-read snapshots, the same domain errors.
package memory

// Store bundles the in-memory repositories over one shared id space per
// entity type.
type Store struct {
	Lessons    *LessonRepository
	Users      *UserRepository
	Volunteers *VolunteerRepository
	Learners   *LearnerRepository
	Subjects   *SubjectRepository
	News       *NewsRepository
	Partners   *PartnerRepository
	Forum      *ForumRepository
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		Lessons:    NewLessonRepository(),
		Users:      NewUserRepository(),
		Volunteers: NewVolunteerRepository(),
		Learners:   NewLearnerRepository(),
		Subjects:   NewSubjectRepository(),
		News:       NewNewsRepository(),
		Partners:   NewPartnerRepository(),
		Forum:      NewForumRepository(),
	}
}
