package profile

import "context"

// UserRepository is the persistence port for users.
type UserRepository interface {
	// Create inserts a new user and assigns its id. Returns
	// shared.ErrEmailTaken if the email is already registered.
	Create(ctx context.Context, u *User) error

	// GetByID returns the user or shared.ErrUserNotFound.
	GetByID(ctx context.Context, id int64) (*User, error)

	// GetByEmail returns the user or shared.ErrUserNotFound.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// List returns users, optionally filtered by role and status.
	List(ctx context.Context, role Role, status UserStatus, offset, limit int) ([]*User, error)

	// Update persists changed user fields.
	Update(ctx context.Context, u *User) error
}

// VolunteerRepository is the persistence port for volunteer profiles.
type VolunteerRepository interface {
	// Create inserts a new volunteer profile and assigns its id.
	Create(ctx context.Context, v *Volunteer) error

	// GetByID returns the volunteer or shared.ErrVolunteerNotFound.
	GetByID(ctx context.Context, id int64) (*Volunteer, error)

	// GetByUserID returns the volunteer owned by the given user.
	GetByUserID(ctx context.Context, userID int64) (*Volunteer, error)

	// List returns volunteer profiles.
	List(ctx context.Context, offset, limit int) ([]*Volunteer, error)

	// Update persists changed volunteer fields.
	Update(ctx context.Context, v *Volunteer) error

	// CreditLesson atomically adds the completion reward to the
	// volunteer's counters and returns the updated profile.
	CreditLesson(ctx context.Context, id int64, points int64) (*Volunteer, error)

	// TopByPoints returns volunteers ordered by total points, highest
	// first. Used as the leaderboard fallback when the cache is cold.
	TopByPoints(ctx context.Context, limit int) ([]*Volunteer, error)
}

// LearnerRepository is the persistence port for learner profiles.
type LearnerRepository interface {
	// Create inserts a new learner profile and assigns its id.
	Create(ctx context.Context, l *Learner) error

	// GetByID returns the learner or shared.ErrLearnerNotFound.
	GetByID(ctx context.Context, id int64) (*Learner, error)

	// GetByUserID returns the learner owned by the given user.
	GetByUserID(ctx context.Context, userID int64) (*Learner, error)

	// Update persists changed learner fields.
	Update(ctx context.Context, l *Learner) error
}
