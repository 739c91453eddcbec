package domain

import (
	"strings"
	"time"

	apperrors "github.com/spec-kit/agent-admin/pkg/util/errorutil"
)

// Messages returned when a transition is refused.
const (
	MsgNotPendingReview        = "Agent is not pending review"
	MsgRejectionReasonMissing  = "Rejection reason is required"
	MsgNotSuspended            = "Only suspended agents can be reactivated"
	MsgNotApproved             = "Only approved agents can be suspended"
	MsgSuspensionReasonMissing = "Suspension reason is required"
)

// Reject moves a pending application to rejected. The reason is validated
// before the current status so a blank reason always yields invalid input.
func Reject(agent Agent, reason string, now time.Time) (Agent, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return agent, apperrors.NewInvalidInput(MsgRejectionReasonMissing)
	}
	if agent.Status != AgentStatusPendingReview {
		return agent, apperrors.NewInvalidState(MsgNotPendingReview)
	}
	agent.Status = AgentStatusRejected
	agent.RejectionReason = &reason
	agent.UpdatedAt = now
	return agent, nil
}

// Reactivate returns a suspended agent to approved and clears the suspension.
func Reactivate(agent Agent, now time.Time) (Agent, error) {
	if agent.Status != AgentStatusSuspended {
		return agent, apperrors.NewInvalidState(MsgNotSuspended)
	}
	agent.Status = AgentStatusApproved
	agent.SuspendedAt = nil
	agent.SuspensionReason = nil
	agent.UpdatedAt = now
	return agent, nil
}

// Suspend takes an approved agent out of service.
func Suspend(agent Agent, reason string, now time.Time) (Agent, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return agent, apperrors.NewInvalidInput(MsgSuspensionReasonMissing)
	}
	if agent.Status != AgentStatusApproved {
		return agent, apperrors.NewInvalidState(MsgNotApproved)
	}
	suspendedAt := now
	agent.Status = AgentStatusSuspended
	agent.SuspendedAt = &suspendedAt
	agent.SuspensionReason = &reason
	agent.UpdatedAt = now
	return agent, nil
}
