package testutil

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/agent-admin/internal/domain"
	"github.com/spec-kit/agent-admin/internal/repository"
)

// InMemoryAgentRepository implements repository.AgentRepository over a map.
// Records are copied in and out so callers never share memory with the store.
type InMemoryAgentRepository struct {
	mu     sync.RWMutex
	agents map[int64]domain.Agent
	nextID int64

	// FailWith, when set, is returned by every method.
	FailWith error
	// BeforeUpdate runs inside UpdateTransition before the status check; tests
	// use it to simulate a concurrent writer.
	BeforeUpdate func(id int64)

	Updates int
}

var _ repository.AgentRepository = (*InMemoryAgentRepository)(nil)

// NewInMemoryAgentRepository returns an empty store.
func NewInMemoryAgentRepository() *InMemoryAgentRepository {
	return &InMemoryAgentRepository{agents: make(map[int64]domain.Agent), nextID: 1}
}

func (r *InMemoryAgentRepository) Create(_ context.Context, agent *domain.Agent) error {
	if r.FailWith != nil {
		return r.FailWith
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if agent.ID == 0 {
		agent.ID = r.nextID
	}
	if _, exists := r.agents[agent.ID]; exists {
		return errors.New("duplicate agent id")
	}
	if agent.ID >= r.nextID {
		r.nextID = agent.ID + 1
	}
	if agent.Status == "" {
		agent.Status = domain.AgentStatusPendingReview
	}
	if agent.CreatedAt.IsZero() {
		agent.CreatedAt = time.Now().UTC()
	}
	if agent.UpdatedAt.IsZero() {
		agent.UpdatedAt = agent.CreatedAt
	}
	r.agents[agent.ID] = cloneAgent(*agent)
	return nil
}

func (r *InMemoryAgentRepository) GetByID(_ context.Context, id int64) (*domain.Agent, error) {
	if r.FailWith != nil {
		return nil, r.FailWith
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	agent, ok := r.agents[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	out := cloneAgent(agent)
	return &out, nil
}

func (r *InMemoryAgentRepository) List(_ context.Context, filter repository.AgentFilter) ([]domain.Agent, error) {
	if r.FailWith != nil {
		return nil, r.FailWith
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []domain.Agent{}
	for _, agent := range r.agents {
		if filter.Status != nil && agent.Status != *filter.Status {
			continue
		}
		result = append(result, cloneAgent(agent))
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *InMemoryAgentRepository) UpdateTransition(_ context.Context, agent *domain.Agent, expected domain.AgentStatus) error {
	if r.FailWith != nil {
		return r.FailWith
	}
	if r.BeforeUpdate != nil {
		r.BeforeUpdate(agent.ID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.agents[agent.ID]
	if !ok || stored.Status != expected {
		return repository.ErrStatusChanged
	}
	stored.Status = agent.Status
	stored.RejectionReason = agent.RejectionReason
	stored.SuspendedAt = agent.SuspendedAt
	stored.SuspensionReason = agent.SuspensionReason
	stored.UpdatedAt = agent.UpdatedAt
	r.agents[agent.ID] = cloneAgent(stored)
	r.Updates++
	return nil
}

func (r *InMemoryAgentRepository) CountByStatus(_ context.Context) (map[domain.AgentStatus]int64, error) {
	if r.FailWith != nil {
		return nil, r.FailWith
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[domain.AgentStatus]int64)
	for _, agent := range r.agents {
		counts[agent.Status]++
	}
	return counts, nil
}

func (r *InMemoryAgentRepository) CountCreatedPerDay(_ context.Context, since time.Time) (map[string]int64, error) {
	if r.FailWith != nil {
		return nil, r.FailWith
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[string]int64)
	for _, agent := range r.agents {
		if agent.CreatedAt.Before(since) {
			continue
		}
		counts[agent.CreatedAt.UTC().Format(repository.DayLayout)]++
	}
	return counts, nil
}

// SetStatus overwrites a stored status directly, bypassing the lifecycle.
func (r *InMemoryAgentRepository) SetStatus(id int64, status domain.AgentStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if agent, ok := r.agents[id]; ok {
		agent.Status = status
		r.agents[id] = agent
	}
}

func cloneAgent(agent domain.Agent) domain.Agent {
	out := agent
	out.ApprovedAt = cloneTime(agent.ApprovedAt)
	out.SuspendedAt = cloneTime(agent.SuspendedAt)
	out.RejectionReason = cloneString(agent.RejectionReason)
	out.SuspensionReason = cloneString(agent.SuspensionReason)
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
