// Package lesson contains the domain model for scheduled tutoring sessions
// between a learner and a volunteer. This is the core of the business logic:
// the status machine here decides which lifecycle transitions are legal,
// with no external dependencies.
package lesson

import (
	"time"

	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Kind distinguishes online lessons from in-person ones. The stored value
// for in-person lessons is "presencial", kept for wire compatibility with
// the mobile clients.
type Kind string

const (
	// KindOnline is a remote lesson held over a meeting link.
	KindOnline Kind = "online"
	// KindInPerson is a face-to-face lesson at a physical location.
	KindInPerson Kind = "presencial"
)

// IsValid checks that the kind is one of the known values.
func (k Kind) IsValid() bool {
	return k == KindOnline || k == KindInPerson
}

// Rating is the learner's 1-5 evaluation of a completed lesson.
type Rating int

// IsValid checks that the rating is within [1,5].
func (r Rating) IsValid() bool {
	return r >= 1 && r <= 5
}

// DefaultDurationMinutes is used when a booking request omits the duration.
const DefaultDurationMinutes = 60

// CompletionPoints is the fixed reward credited to a volunteer's score
// when one of their lessons is completed.
const CompletionPoints = 10

// ══════════════════════════════════════════════════════════════════════════════
// STATUS MACHINE
// ══════════════════════════════════════════════════════════════════════════════

// Status is the lifecycle state of a lesson. Transitions advance
// monotonically along requested → accepted → confirmed → completed;
// cancelled is a terminal status reachable from any non-completed state.
type Status string

const (
	// StatusRequested - a learner asked for a lesson; no volunteer yet.
	StatusRequested Status = "requested"
	// StatusAccepted - a volunteer claimed the request.
	StatusAccepted Status = "accepted"
	// StatusConfirmed - the learner confirmed the volunteer's acceptance.
	StatusConfirmed Status = "confirmed"
	// StatusCompleted - the lesson took place; terminal.
	StatusCompleted Status = "completed"
	// StatusCancelled - the lesson was called off; terminal.
	StatusCancelled Status = "cancelled"
)

// IsValid checks that the status is one of the known values.
func (s Status) IsValid() bool {
	switch s {
	case StatusRequested, StatusAccepted, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal returns true for statuses that permit no further transitions.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether moving from s to next is legal.
// Completion is allowed from both accepted and confirmed: the clients
// submit completion feedback without always confirming first.
func (s Status) CanTransitionTo(next Status) bool {
	switch next {
	case StatusAccepted:
		return s == StatusRequested
	case StatusConfirmed:
		return s == StatusAccepted
	case StatusCompleted:
		return s == StatusAccepted || s == StatusConfirmed
	case StatusCancelled:
		return !s.IsTerminal()
	default:
		return false
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// Lesson is a scheduled tutoring session. The learner reference is set at
// creation and immutable; the volunteer reference is nil exactly while the
// status is requested. All mutations go through the intent methods below so
// the status machine cannot be bypassed.
type Lesson struct {
	ID          int64  `json:"id"`
	LearnerID   int64  `json:"learner_id"`
	VolunteerID *int64 `json:"volunteer_id"`
	SubjectID   int64  `json:"subject_id"`

	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Kind        Kind   `json:"lesson_type"`
	Status      Status `json:"status"`

	ScheduledAt     time.Time `json:"scheduled_date"`
	DurationMinutes int       `json:"duration_minutes"`

	// In-person lessons
	LocationAddress   string `json:"location_address,omitempty"`
	LocationCity      string `json:"location_city,omitempty"`
	LocationLatitude  string `json:"location_latitude,omitempty"`
	LocationLongitude string `json:"location_longitude,omitempty"`

	// Online lessons
	MeetingLink     string `json:"meeting_link,omitempty"`
	MeetingPlatform string `json:"meeting_platform,omitempty"`

	// Set on completion
	Rating   *Rating `json:"rating,omitempty"`
	Feedback string  `json:"feedback,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// New creates a lesson in the requested status. The ID is assigned by the
// repository on Create.
func New(learnerID, subjectID int64, title string, kind Kind, scheduledAt time.Time, durationMinutes int) (*Lesson, error) {
	if learnerID <= 0 {
		return nil, shared.NewDomainError("lesson", "New", shared.ErrInvalidID, "learner id must be positive")
	}
	if subjectID <= 0 {
		return nil, shared.NewDomainError("lesson", "New", shared.ErrInvalidID, "subject id must be positive")
	}
	if title == "" {
		return nil, shared.NewDomainError("lesson", "New", shared.ErrEmptyValue, "title is required")
	}
	if !kind.IsValid() {
		return nil, shared.ErrInvalidLessonKind
	}
	if durationMinutes <= 0 {
		durationMinutes = DefaultDurationMinutes
	}

	return &Lesson{
		LearnerID:       learnerID,
		SubjectID:       subjectID,
		Title:           title,
		Kind:            kind,
		Status:          StatusRequested,
		ScheduledAt:     scheduledAt,
		DurationMinutes: durationMinutes,
		CreatedAt:       time.Now().UTC(),
	}, nil
}

// Accept assigns a volunteer to a requested lesson. The caller must run
// this inside the repository's per-lesson critical section: of two racing
// accepts, the second observes the already-advanced status and fails here.
func (l *Lesson) Accept(volunteerID int64) error {
	if l.Status != StatusRequested {
		return shared.ErrLessonNotAvailable
	}
	if volunteerID <= 0 {
		return shared.NewDomainError("lesson", "Accept", shared.ErrInvalidID, "volunteer id must be positive")
	}
	l.VolunteerID = &volunteerID
	l.Status = StatusAccepted
	l.touch()
	return nil
}

// Confirm moves an accepted lesson to confirmed.
func (l *Lesson) Confirm() error {
	if !l.Status.CanTransitionTo(StatusConfirmed) {
		return shared.ErrLessonNotAccepted
	}
	l.Status = StatusConfirmed
	l.touch()
	return nil
}

// Complete finishes the lesson and optionally attaches the learner's
// feedback. A nil rating leaves the lesson unrated.
func (l *Lesson) Complete(rating *Rating, feedback string) error {
	if !l.Status.CanTransitionTo(StatusCompleted) {
		return shared.ErrLessonNotConfirmed
	}
	if rating != nil && !rating.IsValid() {
		return shared.ErrInvalidRating
	}
	l.Status = StatusCompleted
	l.Rating = rating
	l.Feedback = feedback
	l.touch()
	return nil
}

// Cancel terminates the lesson from any non-completed status. Cancellation
// is a status, not a removal: the record stays in the store.
func (l *Lesson) Cancel() error {
	if l.Status == StatusCompleted {
		return shared.ErrLessonCompleted
	}
	if l.Status == StatusCancelled {
		return nil // already cancelled, idempotent
	}
	l.Status = StatusCancelled
	l.touch()
	return nil
}

// IsParty reports whether the given learner or volunteer profile belongs
// to this lesson.
func (l *Lesson) IsParty(learnerID int64, volunteerID *int64) bool {
	if l.LearnerID == learnerID {
		return true
	}
	return l.VolunteerID != nil && volunteerID != nil && *l.VolunteerID == *volunteerID
}

// Touch refreshes the modification timestamp. Detail edits applied
// outside the intent methods call this so updated_at tracks every write,
// not just status transitions.
func (l *Lesson) Touch() {
	l.touch()
}

func (l *Lesson) touch() {
	now := time.Now().UTC()
	l.UpdatedAt = &now
}
