package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/agent-admin/internal/domain"
	"github.com/spec-kit/agent-admin/internal/events"
	"github.com/spec-kit/agent-admin/internal/repository"
	apperrors "github.com/spec-kit/agent-admin/pkg/util/errorutil"
)

// Onboarding window bounds, in days.
const (
	DefaultOnboardingDays = 30
	MaxOnboardingDays     = 365
)

const (
	statusBreakdownKey  = "analytics:agents:status:v1"
	onboardingKeyPrefix = "analytics:agents:onboarding:v1"
)

// Cache is the key-value store used for analytics results.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// StatusCount is one slice of the status breakdown chart.
type StatusCount struct {
	Status domain.AgentStatus `json:"status"`
	Count  int64              `json:"count"`
}

// StatusBreakdown holds agent counts for every status.
type StatusBreakdown struct {
	Total    int64         `json:"total"`
	Statuses []StatusCount `json:"statuses"`
}

// DailyCount is one point of the onboarding chart.
type DailyCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// AnalyticsService computes dashboard aggregates.
type AnalyticsService struct {
	agents repository.AgentRepository
	cache  Cache
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// AnalyticsDependencies bundles collaborators for analytics.
type AnalyticsDependencies struct {
	AgentRepo repository.AgentRepository
	Cache     Cache
	CacheTTL  time.Duration
	Logger    *zap.Logger
	Clock     func() time.Time
}

// NewAnalyticsService constructs the service. A nil cache or zero TTL
// disables caching.
func NewAnalyticsService(deps AnalyticsDependencies) *AnalyticsService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &AnalyticsService{
		agents: deps.AgentRepo,
		cache:  deps.Cache,
		ttl:    deps.CacheTTL,
		logger: logger,
		now:    clock,
	}
}

// StatusBreakdown counts agents per status, zero-filling missing statuses.
func (s *AnalyticsService) StatusBreakdown(ctx context.Context) (*StatusBreakdown, error) {
	var cached StatusBreakdown
	if s.readCache(ctx, statusBreakdownKey, &cached) {
		return &cached, nil
	}

	counts, err := s.agents.CountByStatus(ctx)
	if err != nil {
		s.logger.Error("count agents by status failed", zap.Error(err))
		return nil, apperrors.NewInternalError(err)
	}

	result := &StatusBreakdown{Statuses: make([]StatusCount, 0, len(domain.AgentStatuses))}
	for _, status := range domain.AgentStatuses {
		count := counts[status]
		result.Total += count
		result.Statuses = append(result.Statuses, StatusCount{Status: status, Count: count})
	}

	s.writeCache(ctx, statusBreakdownKey, result)
	return result, nil
}

// OnboardingSeries returns per-day creation counts for the last days UTC
// days, today included, oldest first.
func (s *AnalyticsService) OnboardingSeries(ctx context.Context, days int) ([]DailyCount, error) {
	if days < 1 || days > MaxOnboardingDays {
		return nil, apperrors.NewInvalidInput(fmt.Sprintf("days must be between 1 and %d", MaxOnboardingDays))
	}

	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := today.AddDate(0, 0, -(days - 1))
	key := fmt.Sprintf("%s:%d:%s", onboardingKeyPrefix, days, today.Format(repository.DayLayout))

	var cached []DailyCount
	if s.readCache(ctx, key, &cached) {
		return cached, nil
	}

	counts, err := s.agents.CountCreatedPerDay(ctx, start)
	if err != nil {
		s.logger.Error("count agents per day failed", zap.Error(err))
		return nil, apperrors.NewInternalError(err)
	}

	series := make([]DailyCount, 0, days)
	for day := start; !day.After(today); day = day.AddDate(0, 0, 1) {
		label := day.Format(repository.DayLayout)
		series = append(series, DailyCount{Date: label, Count: counts[label]})
	}

	s.writeCache(ctx, key, series)
	return series, nil
}

// InvalidateStatusBreakdown drops the cached status breakdown.
func (s *AnalyticsService) InvalidateStatusBreakdown(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, statusBreakdownKey)
}

// RegisterHandlers keeps the status breakdown fresh across lifecycle changes.
func (s *AnalyticsService) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventAgentStatusChanged, func(ctx context.Context, _ events.Event) error {
		return s.InvalidateStatusBreakdown(ctx)
	})
}

func (s *AnalyticsService) readCache(ctx context.Context, key string, dst any) bool {
	if s.cache == nil || s.ttl <= 0 {
		return false
	}
	raw, found, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("analytics cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if !found {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.logger.Warn("analytics cache entry corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *AnalyticsService) writeCache(ctx context.Context, key string, value any) {
	if s.cache == nil || s.ttl <= 0 {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("analytics cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.ttl); err != nil {
		s.logger.Warn("analytics cache write failed", zap.String("key", key), zap.Error(err))
	}
}
