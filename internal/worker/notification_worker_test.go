package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/agent-admin/internal/config"
	"github.com/spec-kit/agent-admin/internal/domain"
	"github.com/spec-kit/agent-admin/internal/events"
	"github.com/spec-kit/agent-admin/internal/service"
	"github.com/spec-kit/agent-admin/internal/testutil"
)

func TestStartNotificationWorkerWiresSubscribers(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := testutil.NewInMemoryAgentRepository()
	require.NoError(t, repo.Create(ctx, testutil.NewAgent(1, domain.AgentStatusApproved, now)))

	dispatcher := events.NewInMemoryDispatcher()
	cache := testutil.NewInMemoryCache()
	agents := service.NewAgentService(service.AgentDependencies{AgentRepo: repo, Dispatcher: dispatcher, Clock: testutil.FixedClock(now)})
	analytics := service.NewAnalyticsService(service.AnalyticsDependencies{AgentRepo: repo, Cache: cache, CacheTTL: time.Minute})
	history := service.NewHistoryService(testutil.NewInMemoryHistoryRepository(), agents, nil)
	notifications := service.NewNotificationService(dispatcher, zap.NewNop(), config.NotificationConfig{WebhookURL: "http://hooks.local"})

	StartNotificationWorker(dispatcher, notifications, analytics, history)

	_, err := analytics.StatusBreakdown(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, cache.Keys())

	_, err = agents.SuspendAgent(ctx, service.Actor{Type: domain.SubjectTypeAdmin, ID: "admin@example.com"}, "1", "fraud report")
	require.NoError(t, err)

	require.Zero(t, cache.Keys())
	entries, err := history.ListAgentHistory(ctx, "1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestStartNotificationWorkerToleratesNil(t *testing.T) {
	require.NotPanics(t, func() {
		StartNotificationWorker(events.NewInMemoryDispatcher(), nil, nil, nil)
	})
}
