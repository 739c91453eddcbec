package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/spec-kit/agent-admin/internal/domain"
	"github.com/spec-kit/agent-admin/internal/events"
	"github.com/spec-kit/agent-admin/internal/repository"
)

// HistoryService records and serves the lifecycle audit trail.
type HistoryService struct {
	history repository.AgentHistoryRepository
	agents  *AgentService
	logger  *zap.Logger
}

// NewHistoryService constructs the service.
func NewHistoryService(history repository.AgentHistoryRepository, agents *AgentService, logger *zap.Logger) *HistoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HistoryService{history: history, agents: agents, logger: logger}
}

// RegisterHandlers records every status change event.
func (s *HistoryService) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventAgentStatusChanged, s.record)
}

func (s *HistoryService) record(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.AgentStatusChangedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	id := event.ID
	if id == "" {
		id = uuid.NewString()
	}
	entry := &domain.AgentStatusHistory{
		ID:            id,
		AgentID:       event.AgentID,
		ChangedByType: event.Actor.Type,
		ChangedByID:   event.Actor.ID,
		OldStatus:     payload.OldStatus,
		NewStatus:     payload.NewStatus,
		Reason:        lo.EmptyableToPtr(payload.Reason),
		CreatedAt:     event.Timestamp,
	}
	if err := s.history.Create(ctx, entry); err != nil {
		s.logger.Error("record agent history failed", zap.Int64("agent_id", event.AgentID), zap.Error(err))
		return err
	}
	return nil
}

// ListAgentHistory returns the transitions of one agent, oldest first.
func (s *HistoryService) ListAgentHistory(ctx context.Context, rawID string) ([]domain.AgentStatusHistory, error) {
	agent, err := s.agents.GetAgent(ctx, rawID)
	if err != nil {
		return nil, err
	}
	entries, err := s.history.ListByAgent(ctx, agent.ID)
	if err != nil {
		return nil, s.agents.unexpected("list agent history", err, zap.Int64("agent_id", agent.ID))
	}
	return entries, nil
}
