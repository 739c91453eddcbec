package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/agent-admin/internal/domain"
	"github.com/spec-kit/agent-admin/internal/events"
	"github.com/spec-kit/agent-admin/internal/testutil"
	apperrors "github.com/spec-kit/agent-admin/pkg/util/errorutil"
)

func newAnalyticsFixture(t *testing.T) (*testutil.InMemoryAgentRepository, *testutil.InMemoryCache, *AnalyticsService) {
	t.Helper()
	repo := testutil.NewInMemoryAgentRepository()
	cache := testutil.NewInMemoryCache()
	svc := NewAnalyticsService(AnalyticsDependencies{
		AgentRepo: repo,
		Cache:     cache,
		CacheTTL:  time.Minute,
		Clock:     testutil.FixedClock(nowTime),
	})
	return repo, cache, svc
}

func TestStatusBreakdown(t *testing.T) {
	ctx := context.Background()
	repo, cache, svc := newAnalyticsFixture(t)

	for i, status := range []domain.AgentStatus{
		domain.AgentStatusApproved, domain.AgentStatusApproved, domain.AgentStatusPendingReview,
	} {
		require.NoError(t, repo.Create(ctx, testutil.NewAgent(int64(i+1), status, baseTime)))
	}

	got, err := svc.StatusBreakdown(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(3), got.Total)
	require.Equal(t, []StatusCount{
		{Status: domain.AgentStatusPendingReview, Count: 1},
		{Status: domain.AgentStatusApproved, Count: 2},
		{Status: domain.AgentStatusSuspended, Count: 0},
		{Status: domain.AgentStatusRejected, Count: 0},
	}, got.Statuses)
	require.Equal(t, time.Minute, cache.TTLs[statusBreakdownKey])

	t.Run("served from cache until invalidated", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, testutil.NewAgent(10, domain.AgentStatusRejected, baseTime)))

		cached, err := svc.StatusBreakdown(ctx)
		require.NoError(t, err)
		require.Equal(t, int64(3), cached.Total)

		require.NoError(t, svc.InvalidateStatusBreakdown(ctx))
		fresh, err := svc.StatusBreakdown(ctx)
		require.NoError(t, err)
		require.Equal(t, int64(4), fresh.Total)
	})

	t.Run("status change events invalidate the cache", func(t *testing.T) {
		dispatcher := events.NewInMemoryDispatcher()
		svc.RegisterHandlers(dispatcher)
		_, err := svc.StatusBreakdown(ctx)
		require.NoError(t, err)
		require.Equal(t, 1, cache.Keys())

		require.NoError(t, dispatcher.Publish(ctx, events.Event{Type: events.EventAgentStatusChanged}))
		require.Zero(t, cache.Keys())
	})
}

func TestStatusBreakdownCacheFailureFallsThrough(t *testing.T) {
	ctx := context.Background()
	repo, cache, svc := newAnalyticsFixture(t)
	cache.GetErr = errors.New("redis down")
	require.NoError(t, repo.Create(ctx, testutil.NewAgent(1, domain.AgentStatusApproved, baseTime)))

	got, err := svc.StatusBreakdown(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), got.Total)
}

func TestStatusBreakdownStoreFailure(t *testing.T) {
	repo, _, svc := newAnalyticsFixture(t)
	repo.FailWith = errors.New("db down")

	_, err := svc.StatusBreakdown(context.Background())
	require.True(t, apperrors.IsCode(err, apperrors.CodeInternal))
}

func TestOnboardingSeries(t *testing.T) {
	ctx := context.Background()
	repo, _, svc := newAnalyticsFixture(t)

	// nowTime is 2026-06-01 12:00 UTC.
	created := []time.Time{
		time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC),
		time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 5, 30, 23, 59, 0, 0, time.UTC),
		time.Date(2026, 5, 29, 23, 59, 0, 0, time.UTC), // outside a 3 day window
	}
	for i, ts := range created {
		require.NoError(t, repo.Create(ctx, testutil.NewAgent(int64(i+1), domain.AgentStatusPendingReview, ts)))
	}

	series, err := svc.OnboardingSeries(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, []DailyCount{
		{Date: "2026-05-30", Count: 1},
		{Date: "2026-05-31", Count: 0},
		{Date: "2026-06-01", Count: 2},
	}, series)

	series, err = svc.OnboardingSeries(ctx, DefaultOnboardingDays)
	require.NoError(t, err)
	require.Len(t, series, DefaultOnboardingDays)
	require.Equal(t, "2026-06-01", series[len(series)-1].Date)

	for _, days := range []int{0, -1, MaxOnboardingDays + 1} {
		_, err := svc.OnboardingSeries(ctx, days)
		require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput), days)
	}
}

func TestAnalyticsWithoutCache(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewInMemoryAgentRepository()
	svc := NewAnalyticsService(AnalyticsDependencies{AgentRepo: repo, Clock: testutil.FixedClock(nowTime)})

	require.NoError(t, svc.InvalidateStatusBreakdown(ctx))
	got, err := svc.StatusBreakdown(ctx)
	require.NoError(t, err)
	require.Zero(t, got.Total)
	require.Len(t, got.Statuses, 4)
}
