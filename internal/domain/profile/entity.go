// Package profile contains the user, volunteer, and learner domain models.
// A user is the base identity record; a volunteer or learner profile is
// attached to it depending on the role they signed up for.
package profile

import (
	"strings"
	"time"

	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// Role identifies which side of the matching a user is on.
type Role string

const (
	// RoleLearner - a person asking for lessons.
	RoleLearner Role = "learner"
	// RoleVolunteer - a person giving lessons.
	RoleVolunteer Role = "volunteer"
)

// IsValid checks that the role is one of the known values.
func (r Role) IsValid() bool {
	return r == RoleLearner || r == RoleVolunteer
}

// UserStatus is the account approval state.
type UserStatus string

const (
	// UserPending - awaiting approval.
	UserPending UserStatus = "pending"
	// UserActive - approved and active.
	UserActive UserStatus = "active"
	// UserInactive - deactivated.
	UserInactive UserStatus = "inactive"
	// UserRejected - signup rejected.
	UserRejected UserStatus = "rejected"
)

// IsValid checks that the status is one of the known values.
func (s UserStatus) IsValid() bool {
	switch s {
	case UserPending, UserActive, UserInactive, UserRejected:
		return true
	default:
		return false
	}
}

// VolunteerType distinguishes student volunteers from professional teachers.
type VolunteerType string

const (
	// VolunteerStudent - a student tutoring in their spare time.
	VolunteerStudent VolunteerType = "student"
	// VolunteerTeacher - a trained teacher volunteering.
	VolunteerTeacher VolunteerType = "teacher"
)

// IsValid checks that the volunteer type is one of the known values.
func (t VolunteerType) IsValid() bool {
	return t == VolunteerStudent || t == VolunteerTeacher
}

// ══════════════════════════════════════════════════════════════════════════════
// ENTITIES
// ══════════════════════════════════════════════════════════════════════════════

// User is the base identity record. The password is stored only as a
// bcrypt hash; PasswordHash is never serialized.
type User struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FullName     string     `json:"full_name"`
	Phone        string     `json:"phone,omitempty"`
	City         string     `json:"city,omitempty"`
	State        string     `json:"state,omitempty"`
	Bio          string     `json:"bio,omitempty"`
	Role         Role       `json:"role"`
	Status       UserStatus `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

// NewUser creates a pending user. The caller supplies the already-hashed
// password.
func NewUser(email, passwordHash, fullName string, role Role) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, shared.NewDomainError("profile", "NewUser", shared.ErrInvalidInput, "invalid email")
	}
	if passwordHash == "" {
		return nil, shared.NewDomainError("profile", "NewUser", shared.ErrEmptyValue, "password hash is required")
	}
	if fullName == "" {
		return nil, shared.NewDomainError("profile", "NewUser", shared.ErrEmptyValue, "full name is required")
	}
	if !role.IsValid() {
		return nil, shared.ErrInvalidUserRole
	}
	return &User{
		Email:        email,
		PasswordHash: passwordHash,
		FullName:     fullName,
		Role:         role,
		Status:       UserPending,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// Volunteer is the tutoring profile attached to a volunteer user.
// TotalPoints and TotalLessons are the cumulative reward counters
// incremented when lessons complete.
type Volunteer struct {
	ID               int64         `json:"id"`
	UserID           int64         `json:"user_id"`
	Type             VolunteerType `json:"volunteer_type"`
	Institution      string        `json:"institution,omitempty"`
	DocumentURL      string        `json:"document_url,omitempty"`
	DocumentVerified int           `json:"document_verified"`
	TotalPoints      int64         `json:"total_points"`
	TotalLessons     int64         `json:"total_lessons"`
	SubjectIDs       []int64       `json:"subject_ids,omitempty"`
}

// NewVolunteer creates a volunteer profile for an existing user.
func NewVolunteer(userID int64, typ VolunteerType) (*Volunteer, error) {
	if userID <= 0 {
		return nil, shared.NewDomainError("profile", "NewVolunteer", shared.ErrInvalidID, "user id must be positive")
	}
	if !typ.IsValid() {
		return nil, shared.ErrInvalidVolunteerType
	}
	return &Volunteer{UserID: userID, Type: typ}, nil
}

// CreditLesson applies the fixed completion reward.
func (v *Volunteer) CreditLesson(points int64) {
	v.TotalPoints += points
	v.TotalLessons++
}

// Learner is the profile attached to a learner user.
type Learner struct {
	ID                    int64   `json:"id"`
	UserID                int64   `json:"user_id"`
	TotalBadges           int     `json:"total_badges"`
	TotalCoursesCompleted int     `json:"total_courses_completed"`
	InterestSubjectIDs    []int64 `json:"interest_subject_ids,omitempty"`
}

// NewLearner creates a learner profile for an existing user.
func NewLearner(userID int64) (*Learner, error) {
	if userID <= 0 {
		return nil, shared.NewDomainError("profile", "NewLearner", shared.ErrInvalidID, "user id must be positive")
	}
	return &Learner{UserID: userID}, nil
}
