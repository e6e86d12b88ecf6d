// Package shared contains common domain types, errors, and events that are
// used across all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrInvalidEntity = errors.New("invalid entity")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrValueOutOfRange = errors.New("value out of range")

	// State errors
	ErrInvalidState    = errors.New("invalid state")
	ErrStateTransition = errors.New("invalid state transition")

	// Authorization errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Concurrency errors
	ErrConcurrentModification = errors.New("concurrent modification detected")

	// External service errors
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrTimeout            = errors.New("operation timeout")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "lesson", "profile", "subject"
	Op      string // Operation that failed, e.g., "Accept", "Create"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Lesson domain errors
var (
	ErrLessonNotFound      = NewDomainError("lesson", "Find", ErrNotFound, "lesson not found")
	ErrLessonNotAvailable  = NewDomainError("lesson", "Accept", ErrStateTransition, "lesson is not available")
	ErrLessonNotAccepted   = NewDomainError("lesson", "Confirm", ErrStateTransition, "lesson must be accepted first")
	ErrLessonNotConfirmed  = NewDomainError("lesson", "Complete", ErrStateTransition, "lesson is not ready for completion")
	ErrLessonCompleted     = NewDomainError("lesson", "Cancel", ErrStateTransition, "lesson is already completed")
	ErrLessonTerminal      = NewDomainError("lesson", "Update", ErrInvalidState, "lesson is in a terminal status")
	ErrInvalidLessonKind   = NewDomainError("lesson", "Validate", ErrInvalidInput, "invalid lesson kind")
	ErrInvalidLessonStatus = NewDomainError("lesson", "Validate", ErrInvalidInput, "invalid lesson status")
	ErrInvalidRating       = NewDomainError("lesson", "Validate", ErrValueOutOfRange, "rating must be between 1 and 5")
	ErrNotLessonActor      = NewDomainError("lesson", "Authorize", ErrForbidden, "actor is not a party to this lesson")
)

// Profile domain errors
var (
	ErrUserNotFound         = NewDomainError("profile", "FindUser", ErrNotFound, "user not found")
	ErrEmailTaken           = NewDomainError("profile", "CreateUser", ErrAlreadyExists, "email is already registered")
	ErrVolunteerNotFound    = NewDomainError("profile", "FindVolunteer", ErrNotFound, "volunteer not found")
	ErrLearnerNotFound      = NewDomainError("profile", "FindLearner", ErrNotFound, "learner not found")
	ErrProfileExists        = NewDomainError("profile", "Create", ErrAlreadyExists, "user already has this profile")
	ErrInvalidUserRole      = NewDomainError("profile", "Validate", ErrInvalidInput, "invalid user role")
	ErrInvalidVolunteerType = NewDomainError("profile", "Validate", ErrInvalidInput, "invalid volunteer type")
)

// Subject domain errors
var (
	ErrSubjectNotFound = NewDomainError("subject", "Find", ErrNotFound, "subject not found")
	ErrSubjectExists   = NewDomainError("subject", "Create", ErrAlreadyExists, "subject name already exists")
)

// News domain errors
var (
	ErrNewsNotFound    = NewDomainError("news", "Find", ErrNotFound, "news item not found")
	ErrInvalidNewsKind = NewDomainError("news", "Validate", ErrInvalidInput, "invalid news kind")
)

// Partner domain errors
var (
	ErrPartnerNotFound    = NewDomainError("partner", "Find", ErrNotFound, "partner location not found")
	ErrInvalidPartnerType = NewDomainError("partner", "Validate", ErrInvalidInput, "invalid partner type")
)

// Forum domain errors
var (
	ErrTopicNotFound  = NewDomainError("forum", "FindTopic", ErrNotFound, "forum topic not found")
	ErrReplyNotFound  = NewDomainError("forum", "FindReply", ErrNotFound, "forum reply not found")
	ErrNotTopicAuthor = NewDomainError("forum", "Authorize", ErrForbidden, "only the topic author may do this")
	ErrNotReplyAuthor = NewDomainError("forum", "Authorize", ErrForbidden, "only the reply author may do this")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if the error is an "already exists" error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsStateTransition checks if the error is an illegal status transition.
func IsStateTransition(err error) bool {
	return errors.Is(err, ErrStateTransition) || errors.Is(err, ErrInvalidState)
}

// IsForbidden checks if the error is an authorization failure.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden) || errors.Is(err, ErrUnauthorized)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrValueOutOfRange)
}
