package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/spec-kit/agent-admin/internal/config"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/agents/:id/reject", "POST", 200, 3*time.Millisecond)
	m.RecordRequest("/agents/:id/reject", "POST", 200, 2*time.Millisecond)
	m.RecordError("/agents/:id/reject", "POST", "INVALID_STATE")
	m.RecordTransition("pending_review", "rejected")

	snap := m.Snapshot()
	require.Equal(t, int64(2), snap.Requests["/agents/:id/reject|POST|200"])
	require.Equal(t, int64(1), snap.Errors["/agents/:id/reject|POST|INVALID_STATE"])
	require.Equal(t, int64(1), snap.Transitions["pending_review->rejected"])
	require.Equal(t, 5*time.Millisecond, snap.TotalLatency)

	snap.Requests["mutate"] = 1
	require.NotContains(t, m.Snapshot().Requests, "mutate")
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordError("/", "GET", "X")
	m.RecordTransition("a", "b")
	require.Empty(t, m.Snapshot().Requests)
}

func TestNewLoggerFallsBackToInfo(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "not-a-level"})
	require.NoError(t, err)
	require.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	require.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNewLoggerDevelopment(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "DEBUG", Development: true})
	require.NoError(t, err)
	require.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}
