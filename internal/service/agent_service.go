package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/agent-admin/internal/domain"
	"github.com/spec-kit/agent-admin/internal/events"
	"github.com/spec-kit/agent-admin/internal/observability"
	"github.com/spec-kit/agent-admin/internal/repository"
	apperrors "github.com/spec-kit/agent-admin/pkg/util/errorutil"
)

// Messages surfaced to callers.
const (
	MsgInvalidAgentID = "Invalid agent ID"
	MsgAgentNotFound  = "Agent not found"
)

// AgentService drives the agent lifecycle.
type AgentService struct {
	agents     repository.AgentRepository
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// AgentDependencies bundles collaborators for the agent service.
type AgentDependencies struct {
	AgentRepo  repository.AgentRepository
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
	Clock      func() time.Time
}

// NewAgentService constructs the service.
func NewAgentService(deps AgentDependencies) *AgentService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &AgentService{
		agents:     deps.AgentRepo,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
		now:        clock,
	}
}

// Actor identifies who requested a transition.
type Actor struct {
	Type domain.SubjectType
	ID   string
}

// ParseAgentID parses a base-10 agent identifier.
func ParseAgentID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, apperrors.NewInvalidInput(MsgInvalidAgentID)
	}
	return id, nil
}

// GetAgent resolves rawID and returns the agent.
func (s *AgentService) GetAgent(ctx context.Context, rawID string) (*domain.Agent, error) {
	id, err := ParseAgentID(rawID)
	if err != nil {
		return nil, err
	}
	return s.GetAgentByID(ctx, id)
}

// GetAgentByID returns the agent with the given id.
func (s *AgentService) GetAgentByID(ctx context.Context, id int64) (*domain.Agent, error) {
	agent, err := s.agents.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFound(MsgAgentNotFound)
	}
	if err != nil {
		return nil, s.unexpected("get agent", err, zap.Int64("agent_id", id))
	}
	return agent, nil
}

// ListAgents returns agents newest first. Unknown status values are ignored
// rather than rejected.
func (s *AgentService) ListAgents(ctx context.Context, rawStatus string) ([]domain.Agent, error) {
	var filter repository.AgentFilter
	if status, ok := domain.ParseAgentStatus(rawStatus); ok {
		filter.Status = &status
	}
	agents, err := s.agents.List(ctx, filter)
	if err != nil {
		return nil, s.unexpected("list agents", err)
	}
	return agents, nil
}

// RejectAgent rejects a pending application.
func (s *AgentService) RejectAgent(ctx context.Context, actor Actor, rawID, reason string) (*domain.Agent, error) {
	id, err := ParseAgentID(rawID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(reason) == "" {
		return nil, apperrors.NewInvalidInput(domain.MsgRejectionReasonMissing)
	}
	return s.transition(ctx, actor, id, strings.TrimSpace(reason), func(agent domain.Agent, now time.Time) (domain.Agent, error) {
		return domain.Reject(agent, reason, now)
	})
}

// ReactivateAgent returns a suspended agent to approved.
func (s *AgentService) ReactivateAgent(ctx context.Context, actor Actor, rawID string) (*domain.Agent, error) {
	id, err := ParseAgentID(rawID)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, actor, id, "", domain.Reactivate)
}

// SuspendAgent suspends an approved agent.
func (s *AgentService) SuspendAgent(ctx context.Context, actor Actor, rawID, reason string) (*domain.Agent, error) {
	id, err := ParseAgentID(rawID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(reason) == "" {
		return nil, apperrors.NewInvalidInput(domain.MsgSuspensionReasonMissing)
	}
	return s.transition(ctx, actor, id, strings.TrimSpace(reason), func(agent domain.Agent, now time.Time) (domain.Agent, error) {
		return domain.Suspend(agent, reason, now)
	})
}

type transitionFunc func(agent domain.Agent, now time.Time) (domain.Agent, error)

// transition performs one read, applies apply, and writes the result only if
// the status is still the one that was read. A lost race reports the
// precondition error of re-applying the transition to its own result, the
// same answer a request arriving after the winner would get.
func (s *AgentService) transition(ctx context.Context, actor Actor, id int64, reason string, apply transitionFunc) (*domain.Agent, error) {
	current, err := s.GetAgentByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := apply(*current, s.now().UTC())
	if err != nil {
		return nil, err
	}

	if err := s.agents.UpdateTransition(ctx, &next, current.Status); err != nil {
		if errors.Is(err, repository.ErrStatusChanged) {
			s.logger.Info("agent transition lost race",
				zap.Int64("agent_id", id),
				zap.String("expected_status", string(current.Status)),
				zap.String("target_status", string(next.Status)))
			_, stale := apply(next, s.now().UTC())
			if stale == nil {
				stale = apperrors.NewInvalidState("Agent status changed, retry the request")
			}
			return nil, stale
		}
		return nil, s.unexpected("update agent status", err, zap.Int64("agent_id", id))
	}

	s.metrics.RecordTransition(string(current.Status), string(next.Status))
	s.logger.Info("agent status changed",
		zap.Int64("agent_id", id),
		zap.String("from", string(current.Status)),
		zap.String("to", string(next.Status)),
		zap.String("actor", actor.ID))

	s.publishEvent(ctx, events.Event{
		Type:    events.EventAgentStatusChanged,
		AgentID: id,
		Actor:   events.Actor{Type: actor.Type, ID: actor.ID},
		Payload: events.AgentStatusChangedPayload{
			OldStatus: current.Status,
			NewStatus: next.Status,
			Reason:    reason,
		},
	})
	return &next, nil
}

func (s *AgentService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now().UTC()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed",
			zap.String("event_type", string(event.Type)),
			zap.Int64("agent_id", event.AgentID),
			zap.Error(err))
	}
}

func (s *AgentService) unexpected(op string, err error, fields ...zap.Field) error {
	s.logger.Error(op+" failed", append(fields, zap.Error(err))...)
	return apperrors.NewInternalError(err)
}
