package domain

import "time"

// AgentStatus enumerates lifecycle states for an agent account.
type AgentStatus string

const (
	AgentStatusPendingReview AgentStatus = "pending_review"
	AgentStatusApproved      AgentStatus = "approved"
	AgentStatusSuspended     AgentStatus = "suspended"
	AgentStatusRejected      AgentStatus = "rejected"
)

// AgentStatuses lists every known status in display order.
var AgentStatuses = []AgentStatus{
	AgentStatusPendingReview,
	AgentStatusApproved,
	AgentStatusSuspended,
	AgentStatusRejected,
}

// ParseAgentStatus accepts only the four known status values.
func ParseAgentStatus(raw string) (AgentStatus, bool) {
	for _, status := range AgentStatuses {
		if string(status) == raw {
			return status, true
		}
	}
	return "", false
}

// Agent is an onboarding applicant or service provider.
type Agent struct {
	ID               int64
	Name             string
	Phone            string
	Email            string
	IDDocumentType   string
	IDDocumentNumber string
	Status           AgentStatus
	ApprovedAt       *time.Time
	RejectionReason  *string
	SuspendedAt      *time.Time
	SuspensionReason *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
