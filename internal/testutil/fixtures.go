package testutil

import (
	"time"

	"github.com/samber/lo"

	"github.com/spec-kit/agent-admin/internal/domain"
)

// NewAgent builds an agent in the given status with identity fields filled in.
// Suspended agents get both suspension fields so the record is consistent.
func NewAgent(id int64, status domain.AgentStatus, createdAt time.Time) *domain.Agent {
	agent := &domain.Agent{
		ID:               id,
		Name:             "Agent " + lo.RandomString(6, lo.LettersCharset),
		Phone:            "+15550100",
		Email:            "agent@example.com",
		IDDocumentType:   "passport",
		IDDocumentNumber: "X1234567",
		Status:           status,
		CreatedAt:        createdAt,
		UpdatedAt:        createdAt,
	}
	switch status {
	case domain.AgentStatusApproved:
		agent.ApprovedAt = lo.ToPtr(createdAt)
	case domain.AgentStatusSuspended:
		agent.ApprovedAt = lo.ToPtr(createdAt)
		agent.SuspendedAt = lo.ToPtr(createdAt)
		agent.SuspensionReason = lo.ToPtr("fraud report")
	case domain.AgentStatusRejected:
		agent.RejectionReason = lo.ToPtr("Incomplete documents")
	}
	return agent
}
