// Package shared contains common domain types, errors, and events.
package shared

import (
	"encoding/json"
	"time"
)

// EventType identifies the kind of a fanout event. The values are part of
// the websocket wire contract consumed by the mobile clients.
type EventType string

// Event types broadcast to connected clients.
const (
	// Lesson lifecycle events
	EventLessonRequested EventType = "lesson_requested"
	EventLessonUpdated   EventType = "lesson_updated"
	EventLessonAccepted  EventType = "lesson_accepted"
	EventLessonConfirmed EventType = "lesson_confirmed"
	EventLessonCompleted EventType = "lesson_completed"
	EventLessonCancelled EventType = "lesson_cancelled"

	// News events
	EventNewsCreated EventType = "news_created"
	EventNewsUpdated EventType = "news_updated"
	EventNewsDeleted EventType = "news_deleted"

	// Subject events
	EventSubjectCreated EventType = "subject_created"
	EventSubjectUpdated EventType = "subject_updated"
	EventSubjectDeleted EventType = "subject_deleted"

	// Profile events
	EventVolunteerCreated EventType = "volunteer_created"
	EventVolunteerUpdated EventType = "volunteer_updated"
	EventLearnerCreated   EventType = "learner_created"
	EventLearnerUpdated   EventType = "learner_updated"

	// Forum events
	EventTopicCreated EventType = "forum_topic_created"
	EventReplyCreated EventType = "forum_reply_created"
)

// Event is a state-change notification delivered to every connected
// listener. Events are ephemeral: they carry a snapshot of the affected
// entity at emission time, are never persisted, and carry no sequence
// number. The authoritative state is always re-derivable from the store.
type Event interface {
	// Type returns the wire-level event kind.
	Type() EventType

	// Data returns the payload placed in the envelope's "data" field.
	Data() any
}

// EventPublisher is the port write operations use to broadcast events.
// Publishing is fire-and-forget: delivery is best effort and never blocks
// or fails the operation that produced the event.
type EventPublisher interface {
	Publish(event Event)
}

// Envelope is the wire format delivered to listeners:
// {"type": "...", "data": {...}}.
type Envelope struct {
	Type EventType `json:"type"`
	Data any       `json:"data"`
}

// NewEnvelope wraps an event in its wire envelope.
func NewEnvelope(e Event) Envelope {
	return Envelope{Type: e.Type(), Data: e.Data()}
}

// MarshalEvent serializes an event to its wire envelope JSON.
func MarshalEvent(e Event) ([]byte, error) {
	return json.Marshal(NewEnvelope(e))
}

// EntityEvent is the generic event emitted by the entity event adapters
// for CRUD mutations on news, subjects, profiles, and forum posts. The
// lesson lifecycle uses its own typed events in the lesson domain.
type EntityEvent struct {
	Kind       EventType
	Entity     any
	OccurredAt time.Time
}

// NewEntityEvent creates an event carrying a snapshot of the mutated entity.
func NewEntityEvent(kind EventType, entity any) EntityEvent {
	return EntityEvent{
		Kind:       kind,
		Entity:     entity,
		OccurredAt: time.Now().UTC(),
	}
}

// Type implements Event.
func (e EntityEvent) Type() EventType { return e.Kind }

// Data implements Event.
func (e EntityEvent) Data() any { return e.Entity }

// DeletedPayload is the payload for deletion events, which carry only the
// id of the removed entity rather than a full snapshot.
type DeletedPayload struct {
	ID int64 `json:"id"`
}

// NewDeletedEvent creates a deletion event carrying only the entity id.
func NewDeletedEvent(kind EventType, id int64) EntityEvent {
	return NewEntityEvent(kind, DeletedPayload{ID: id})
}
