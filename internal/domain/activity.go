package domain

import (
	"encoding/json"
	"time"
)

// Activity is one journaled mutation performed through the console.
type Activity struct {
	ID         string          `json:"id"`
	EventType  string          `json:"event_type"`
	EntityID   string          `json:"entity_id"`
	SessionID  string          `json:"session_id"`
	Role       string          `json:"role"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}
