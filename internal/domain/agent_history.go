package domain

import "time"

// AgentStatusHistory is an immutable audit trail entry for one lifecycle
// transition.
type AgentStatusHistory struct {
	ID            string
	AgentID       int64
	ChangedByType SubjectType
	ChangedByID   string
	OldStatus     AgentStatus
	NewStatus     AgentStatus
	Reason        *string
	CreatedAt     time.Time
}
