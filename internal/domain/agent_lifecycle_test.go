package domain

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/agent-admin/pkg/util/errorutil"
)

var (
	created = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	now     = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
)

func agentIn(status AgentStatus) Agent {
	agent := Agent{ID: 42, Name: "Ada", Status: status, CreatedAt: created, UpdatedAt: created}
	if status == AgentStatusSuspended {
		agent.SuspendedAt = lo.ToPtr(created)
		agent.SuspensionReason = lo.ToPtr("fraud report")
	}
	return agent
}

func TestParseAgentStatus(t *testing.T) {
	for _, status := range AgentStatuses {
		parsed, ok := ParseAgentStatus(string(status))
		require.True(t, ok)
		require.Equal(t, status, parsed)
	}

	for _, raw := range []string{"", "APPROVED", "active", "pending"} {
		_, ok := ParseAgentStatus(raw)
		require.False(t, ok, raw)
	}
}

func TestReject(t *testing.T) {
	t.Run("pending review becomes rejected", func(t *testing.T) {
		next, err := Reject(agentIn(AgentStatusPendingReview), "  Incomplete documents ", now)
		require.NoError(t, err)
		require.Equal(t, AgentStatusRejected, next.Status)
		require.Equal(t, "Incomplete documents", *next.RejectionReason)
		require.Equal(t, now, next.UpdatedAt)
		require.Equal(t, created, next.CreatedAt)
	})

	for _, status := range []AgentStatus{AgentStatusApproved, AgentStatusSuspended, AgentStatusRejected} {
		t.Run("refuses "+string(status), func(t *testing.T) {
			current := agentIn(status)
			next, err := Reject(current, "Incomplete documents", now)
			require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidState))
			require.EqualError(t, err, MsgNotPendingReview)
			require.Equal(t, current, next)
		})
	}

	t.Run("blank reason is invalid input in every state", func(t *testing.T) {
		for _, status := range AgentStatuses {
			current := agentIn(status)
			for _, reason := range []string{"", "   ", "\t\n"} {
				next, err := Reject(current, reason, now)
				require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
				require.EqualError(t, err, MsgRejectionReasonMissing)
				require.Equal(t, current, next)
			}
		}
	})
}

func TestReactivate(t *testing.T) {
	t.Run("suspended becomes approved and clears suspension", func(t *testing.T) {
		current := agentIn(AgentStatusSuspended)
		current.RejectionReason = lo.ToPtr("old rejection")

		next, err := Reactivate(current, now)
		require.NoError(t, err)
		require.Equal(t, AgentStatusApproved, next.Status)
		require.Nil(t, next.SuspendedAt)
		require.Nil(t, next.SuspensionReason)
		require.Equal(t, now, next.UpdatedAt)
		require.Equal(t, "old rejection", *next.RejectionReason)
	})

	for _, status := range []AgentStatus{AgentStatusPendingReview, AgentStatusApproved, AgentStatusRejected} {
		t.Run("refuses "+string(status), func(t *testing.T) {
			current := agentIn(status)
			next, err := Reactivate(current, now)
			require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidState))
			require.EqualError(t, err, MsgNotSuspended)
			require.Equal(t, current, next)
		})
	}
}

func TestSuspend(t *testing.T) {
	t.Run("approved becomes suspended", func(t *testing.T) {
		current := agentIn(AgentStatusApproved)
		current.ApprovedAt = lo.ToPtr(created)

		next, err := Suspend(current, "fraud report", now)
		require.NoError(t, err)
		require.Equal(t, AgentStatusSuspended, next.Status)
		require.Equal(t, now, *next.SuspendedAt)
		require.Equal(t, "fraud report", *next.SuspensionReason)
		require.Equal(t, created, *next.ApprovedAt)
	})

	t.Run("refuses non approved", func(t *testing.T) {
		current := agentIn(AgentStatusPendingReview)
		next, err := Suspend(current, "fraud report", now)
		require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidState))
		require.Equal(t, current, next)
	})

	t.Run("requires a reason", func(t *testing.T) {
		_, err := Suspend(agentIn(AgentStatusApproved), " ", now)
		require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	})

	t.Run("suspend then reactivate round trips the status", func(t *testing.T) {
		suspended, err := Suspend(agentIn(AgentStatusApproved), "audit", now)
		require.NoError(t, err)
		back, err := Reactivate(suspended, now.Add(time.Hour))
		require.NoError(t, err)
		require.Equal(t, AgentStatusApproved, back.Status)
		require.Nil(t, back.SuspendedAt)
		require.Nil(t, back.SuspensionReason)
	})
}
