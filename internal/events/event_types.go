package events

import (
	"time"

	"github.com/spec-kit/agent-admin/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAgentStatusChanged EventType = "agent_status_changed"
	EventAgentPINChanged    EventType = "agent_pin_changed"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Type domain.SubjectType `json:"type"`
	ID   string             `json:"id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	AgentID   int64     `json:"agent_id"`
	Actor     Actor     `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// AgentStatusChangedPayload payload.
type AgentStatusChangedPayload struct {
	OldStatus domain.AgentStatus `json:"old_status"`
	NewStatus domain.AgentStatus `json:"new_status"`
	Reason    string             `json:"reason,omitempty"`
}
