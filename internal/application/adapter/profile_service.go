// Package adapter contains the entity services bridging CRUD mutations to
// the event fanout: every successful write on news, subjects, profiles,
// or forum posts is followed by a broadcast carrying a snapshot of the
// entity, so connected clients refresh without polling.
package adapter

import (
	"context"
	"time"

	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/profile"
	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/shared"

	"golang.org/x/crypto/bcrypt"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROFILE SERVICE
// ══════════════════════════════════════════════════════════════════════════════

// RegisterUserInput contains the signup data.
type RegisterUserInput struct {
	Email    string
	Password string
	FullName string
	Phone    string
	City     string
	State    string
	Bio      string
	Role     profile.Role

	// Volunteer signups
	VolunteerType profile.VolunteerType
	Institution   string
	SubjectIDs    []int64

	// Learner signups
	InterestSubjectIDs []int64
}

// RegisterUserResult carries the created user and its role profile.
type RegisterUserResult struct {
	User      *profile.User      `json:"user"`
	Volunteer *profile.Volunteer `json:"volunteer,omitempty"`
	Learner   *profile.Learner   `json:"learner,omitempty"`
}

// ProfileService handles user registration, authentication, and profile
// updates.
type ProfileService struct {
	userRepo      profile.UserRepository
	volunteerRepo profile.VolunteerRepository
	learnerRepo   profile.LearnerRepository
	publisher     shared.EventPublisher
}

// NewProfileService creates a new ProfileService.
func NewProfileService(
	userRepo profile.UserRepository,
	volunteerRepo profile.VolunteerRepository,
	learnerRepo profile.LearnerRepository,
	publisher shared.EventPublisher,
) *ProfileService {
	return &ProfileService{
		userRepo:      userRepo,
		volunteerRepo: volunteerRepo,
		learnerRepo:   learnerRepo,
		publisher:     publisher,
	}
}

// Register creates a user plus the profile matching their role, and
// broadcasts volunteer_created or learner_created.
func (s *ProfileService) Register(ctx context.Context, in RegisterUserInput) (*RegisterUserResult, error) {
	if len(in.Password) < 6 {
		return nil, shared.NewDomainError("profile", "Register", shared.ErrInvalidInput, "password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, shared.WrapError("profile", "Register", shared.ErrInvalidInput, "failed to hash password", err)
	}

	u, err := profile.NewUser(in.Email, string(hash), in.FullName, in.Role)
	if err != nil {
		return nil, err
	}
	u.Phone = in.Phone
	u.City = in.City
	u.State = in.State
	u.Bio = in.Bio

	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}

	result := &RegisterUserResult{User: u}

	switch in.Role {
	case profile.RoleVolunteer:
		v, err := profile.NewVolunteer(u.ID, in.VolunteerType)
		if err != nil {
			return nil, err
		}
		v.Institution = in.Institution
		v.SubjectIDs = in.SubjectIDs
		if err := s.volunteerRepo.Create(ctx, v); err != nil {
			return nil, err
		}
		result.Volunteer = v
		s.publisher.Publish(shared.NewEntityEvent(shared.EventVolunteerCreated, v))

	case profile.RoleLearner:
		l, err := profile.NewLearner(u.ID)
		if err != nil {
			return nil, err
		}
		l.InterestSubjectIDs = in.InterestSubjectIDs
		if err := s.learnerRepo.Create(ctx, l); err != nil {
			return nil, err
		}
		result.Learner = l
		s.publisher.Publish(shared.NewEntityEvent(shared.EventLearnerCreated, l))
	}

	return result, nil
}

// Authenticate checks the email and password and returns the user.
// A wrong password and an unknown email are indistinguishable to the
// caller.
func (s *ProfileService) Authenticate(ctx context.Context, email, password string) (*profile.User, error) {
	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewDomainError("profile", "Authenticate", shared.ErrUnauthorized, "invalid credentials")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, shared.NewDomainError("profile", "Authenticate", shared.ErrUnauthorized, "invalid credentials")
	}
	return u, nil
}

// GetUser returns a user by id.
func (s *ProfileService) GetUser(ctx context.Context, id int64) (*profile.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// ListUsers returns users, optionally filtered by role and status.
func (s *ProfileService) ListUsers(ctx context.Context, role profile.Role, status profile.UserStatus, offset, limit int) ([]*profile.User, error) {
	return s.userRepo.List(ctx, role, status, offset, limit)
}

// UpdateUserInput contains the editable user fields. Nil pointers leave
// the stored value unchanged.
type UpdateUserInput struct {
	FullName *string
	Phone    *string
	City     *string
	State    *string
	Bio      *string
	Status   *profile.UserStatus
}

// UpdateUser applies the edits and broadcasts the matching profile
// updated event.
func (s *ProfileService) UpdateUser(ctx context.Context, id int64, in UpdateUserInput) (*profile.User, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.FullName != nil && *in.FullName != "" {
		u.FullName = *in.FullName
	}
	if in.Phone != nil {
		u.Phone = *in.Phone
	}
	if in.City != nil {
		u.City = *in.City
	}
	if in.State != nil {
		u.State = *in.State
	}
	if in.Bio != nil {
		u.Bio = *in.Bio
	}
	if in.Status != nil {
		if !in.Status.IsValid() {
			return nil, shared.NewDomainError("profile", "UpdateUser", shared.ErrInvalidInput, "invalid user status")
		}
		u.Status = *in.Status
	}
	now := time.Now().UTC()
	u.UpdatedAt = &now

	if err := s.userRepo.Update(ctx, u); err != nil {
		return nil, err
	}

	switch u.Role {
	case profile.RoleVolunteer:
		if v, err := s.volunteerRepo.GetByUserID(ctx, u.ID); err == nil {
			s.publisher.Publish(shared.NewEntityEvent(shared.EventVolunteerUpdated, v))
		}
	case profile.RoleLearner:
		if l, err := s.learnerRepo.GetByUserID(ctx, u.ID); err == nil {
			s.publisher.Publish(shared.NewEntityEvent(shared.EventLearnerUpdated, l))
		}
	}

	return u, nil
}

// GetVolunteer returns a volunteer profile by id.
func (s *ProfileService) GetVolunteer(ctx context.Context, id int64) (*profile.Volunteer, error) {
	return s.volunteerRepo.GetByID(ctx, id)
}

// GetVolunteerByUser returns the volunteer profile owned by a user.
func (s *ProfileService) GetVolunteerByUser(ctx context.Context, userID int64) (*profile.Volunteer, error) {
	return s.volunteerRepo.GetByUserID(ctx, userID)
}

// ListVolunteers returns volunteer profiles.
func (s *ProfileService) ListVolunteers(ctx context.Context, offset, limit int) ([]*profile.Volunteer, error) {
	return s.volunteerRepo.List(ctx, offset, limit)
}

// UpdateVolunteerInput contains the editable volunteer fields.
type UpdateVolunteerInput struct {
	Type        *profile.VolunteerType
	Institution *string
	DocumentURL *string
	SubjectIDs  []int64
}

// UpdateVolunteer applies the edits and broadcasts volunteer_updated.
func (s *ProfileService) UpdateVolunteer(ctx context.Context, id int64, in UpdateVolunteerInput) (*profile.Volunteer, error) {
	v, err := s.volunteerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Type != nil {
		if !in.Type.IsValid() {
			return nil, shared.ErrInvalidVolunteerType
		}
		v.Type = *in.Type
	}
	if in.Institution != nil {
		v.Institution = *in.Institution
	}
	if in.DocumentURL != nil {
		v.DocumentURL = *in.DocumentURL
	}
	if in.SubjectIDs != nil {
		v.SubjectIDs = in.SubjectIDs
	}

	if err := s.volunteerRepo.Update(ctx, v); err != nil {
		return nil, err
	}

	s.publisher.Publish(shared.NewEntityEvent(shared.EventVolunteerUpdated, v))
	return v, nil
}

// GetLearner returns a learner profile by id.
func (s *ProfileService) GetLearner(ctx context.Context, id int64) (*profile.Learner, error) {
	return s.learnerRepo.GetByID(ctx, id)
}

// GetLearnerByUser returns the learner profile owned by a user.
func (s *ProfileService) GetLearnerByUser(ctx context.Context, userID int64) (*profile.Learner, error) {
	return s.learnerRepo.GetByUserID(ctx, userID)
}

// UpdateLearnerInterests replaces a learner's interest subjects and
// broadcasts learner_updated.
func (s *ProfileService) UpdateLearnerInterests(ctx context.Context, id int64, subjectIDs []int64) (*profile.Learner, error) {
	l, err := s.learnerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	l.InterestSubjectIDs = subjectIDs
	if err := s.learnerRepo.Update(ctx, l); err != nil {
		return nil, err
	}

	s.publisher.Publish(shared.NewEntityEvent(shared.EventLearnerUpdated, l))
	return l, nil
}
