package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/ticket-console/internal/domain"
)

// EventType enumerates the mutations the console journals.
type EventType string

const (
	EventSessionStarted EventType = "session_started"
	EventSessionEnded   EventType = "session_ended"

	EventTicketCreated    EventType = "ticket_created"
	EventTicketUpdated    EventType = "ticket_updated"
	EventTicketDeleted    EventType = "ticket_deleted"
	EventCommentGenerated EventType = "ticket_comment_generated"

	EventSeverityCreated EventType = "severity_created"
	EventSeverityUpdated EventType = "severity_updated"
	EventSeverityDeleted EventType = "severity_deleted"

	EventCategoryCreated EventType = "category_created"
	EventCategoryUpdated EventType = "category_updated"
	EventCategoryDeleted EventType = "category_deleted"

	EventSubcategoryCreated EventType = "subcategory_created"
	EventSubcategoryUpdated EventType = "subcategory_updated"
	EventSubcategoryDeleted EventType = "subcategory_deleted"

	EventUserCreated EventType = "user_created"
	EventUserUpdated EventType = "user_updated"
	EventUserDeleted EventType = "user_deleted"
)

// AllEventTypes lists every journaled event type.
var AllEventTypes = []EventType{
	EventSessionStarted, EventSessionEnded,
	EventTicketCreated, EventTicketUpdated, EventTicketDeleted, EventCommentGenerated,
	EventSeverityCreated, EventSeverityUpdated, EventSeverityDeleted,
	EventCategoryCreated, EventCategoryUpdated, EventCategoryDeleted,
	EventSubcategoryCreated, EventSubcategoryUpdated, EventSubcategoryDeleted,
	EventUserCreated, EventUserUpdated, EventUserDeleted,
}

// Actor identifies the console session behind an event.
type Actor struct {
	SessionID string `json:"session_id,omitempty"`
	Role      string `json:"role,omitempty"`
}

// ActorFromSession builds the actor for a session; nil yields an anonymous actor.
func ActorFromSession(session *domain.Session) Actor {
	if session == nil {
		return Actor{}
	}
	return Actor{SessionID: session.ID, Role: session.Role}
}

// Event is a mutation the console performed against the ticket API.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	EntityID  string    `json:"entity_id"`
	Actor     Actor     `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// NewEvent stamps a fresh event.
func NewEvent(eventType EventType, entityID string, actor Actor, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		EntityID:  entityID,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// TicketPayload summarises a ticket mutation.
type TicketPayload struct {
	Title         string              `json:"title,omitempty"`
	SeverityLevel int                 `json:"severity_level,omitempty"`
	Status        domain.TicketStatus `json:"status,omitempty"`
}

// NamedPayload summarises a catalog mutation.
type NamedPayload struct {
	Name string `json:"name,omitempty"`
}
