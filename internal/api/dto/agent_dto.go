package dto

import (
	"time"

	"github.com/samber/lo"

	"github.com/spec-kit/agent-admin/internal/domain"
)

// AgentResponse is the wire form of an agent record.
type AgentResponse struct {
	ID               int64              `json:"id"`
	Name             string             `json:"name"`
	Phone            string             `json:"phone"`
	Email            string             `json:"email"`
	IDDocumentType   string             `json:"idDocumentType"`
	IDDocumentNumber string             `json:"idDocumentNumber"`
	Status           domain.AgentStatus `json:"status"`
	ApprovedAt       *time.Time         `json:"approvedAt"`
	RejectionReason  *string            `json:"rejectionReason"`
	SuspendedAt      *time.Time         `json:"suspendedAt"`
	SuspensionReason *string            `json:"suspensionReason"`
	CreatedAt        time.Time          `json:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt"`
}

// NewAgentResponse converts a domain agent.
func NewAgentResponse(agent *domain.Agent) AgentResponse {
	return AgentResponse{
		ID:               agent.ID,
		Name:             agent.Name,
		Phone:            agent.Phone,
		Email:            agent.Email,
		IDDocumentType:   agent.IDDocumentType,
		IDDocumentNumber: agent.IDDocumentNumber,
		Status:           agent.Status,
		ApprovedAt:       agent.ApprovedAt,
		RejectionReason:  agent.RejectionReason,
		SuspendedAt:      agent.SuspendedAt,
		SuspensionReason: agent.SuspensionReason,
		CreatedAt:        agent.CreatedAt,
		UpdatedAt:        agent.UpdatedAt,
	}
}

// NewAgentListResponse converts a slice of agents, never returning nil.
func NewAgentListResponse(agents []domain.Agent) []AgentResponse {
	return lo.Map(agents, func(agent domain.Agent, _ int) AgentResponse {
		return NewAgentResponse(&agent)
	})
}

// AgentHistoryResponse is one audit trail entry.
type AgentHistoryResponse struct {
	ID            string             `json:"id"`
	AgentID       int64              `json:"agentId"`
	ChangedByType domain.SubjectType `json:"changedByType"`
	ChangedByID   string             `json:"changedById"`
	OldStatus     domain.AgentStatus `json:"oldStatus"`
	NewStatus     domain.AgentStatus `json:"newStatus"`
	Reason        *string            `json:"reason"`
	CreatedAt     time.Time          `json:"createdAt"`
}

// NewAgentHistoryResponse converts audit entries, never returning nil.
func NewAgentHistoryResponse(entries []domain.AgentStatusHistory) []AgentHistoryResponse {
	return lo.Map(entries, func(entry domain.AgentStatusHistory, _ int) AgentHistoryResponse {
		return AgentHistoryResponse{
			ID:            entry.ID,
			AgentID:       entry.AgentID,
			ChangedByType: entry.ChangedByType,
			ChangedByID:   entry.ChangedByID,
			OldStatus:     entry.OldStatus,
			NewStatus:     entry.NewStatus,
			Reason:        entry.Reason,
			CreatedAt:     entry.CreatedAt,
		}
	})
}

// RejectAgentRequest payload. A blank reason is refused by the service.
type RejectAgentRequest struct {
	RejectionReason string `json:"rejectionReason"`
}

// SuspendAgentRequest payload.
type SuspendAgentRequest struct {
	SuspensionReason string `json:"suspensionReason"`
}

// SetPINRequest payload.
type SetPINRequest struct {
	PIN string `json:"pin" validate:"required"`
}

func (r *SetPINRequest) Validate() error {
	return validate.Struct(r)
}

// MessageResponse acknowledges a state-changing command.
type MessageResponse struct {
	Message string `json:"message"`
}
