package lesson

import "github.com/voluntaria-hub/voluntaria-backend/internal/domain/shared"

// Lifecycle events carry a snapshot of the lesson taken after the
// transition committed. The cancelled event is the deliberate exception:
// its payload is only the lesson id, matching what the clients expect.

// RequestedEvent is emitted when a learner books a lesson.
type RequestedEvent struct{ Lesson *Lesson }

// Type implements shared.Event.
func (e RequestedEvent) Type() shared.EventType { return shared.EventLessonRequested }

// Data implements shared.Event.
func (e RequestedEvent) Data() any { return e.Lesson }

// UpdatedEvent is emitted when a lesson's details change outside the
// status machine (time, location, meeting link).
type UpdatedEvent struct{ Lesson *Lesson }

// Type implements shared.Event.
func (e UpdatedEvent) Type() shared.EventType { return shared.EventLessonUpdated }

// Data implements shared.Event.
func (e UpdatedEvent) Data() any { return e.Lesson }

// AcceptedEvent is emitted when a volunteer claims a requested lesson.
type AcceptedEvent struct{ Lesson *Lesson }

// Type implements shared.Event.
func (e AcceptedEvent) Type() shared.EventType { return shared.EventLessonAccepted }

// Data implements shared.Event.
func (e AcceptedEvent) Data() any { return e.Lesson }

// ConfirmedEvent is emitted when the learner confirms the acceptance.
type ConfirmedEvent struct{ Lesson *Lesson }

// Type implements shared.Event.
func (e ConfirmedEvent) Type() shared.EventType { return shared.EventLessonConfirmed }

// Data implements shared.Event.
func (e ConfirmedEvent) Data() any { return e.Lesson }

// CompletedEvent is emitted when a lesson finishes.
type CompletedEvent struct{ Lesson *Lesson }

// Type implements shared.Event.
func (e CompletedEvent) Type() shared.EventType { return shared.EventLessonCompleted }

// Data implements shared.Event.
func (e CompletedEvent) Data() any { return e.Lesson }

// CancelledEvent is emitted when a lesson is called off.
type CancelledEvent struct{ ID int64 }

// Type implements shared.Event.
func (e CancelledEvent) Type() shared.EventType { return shared.EventLessonCancelled }

// Data implements shared.Event.
func (e CancelledEvent) Data() any { return shared.DeletedPayload{ID: e.ID} }
