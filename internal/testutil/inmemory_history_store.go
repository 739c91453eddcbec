package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/spec-kit/agent-admin/internal/domain"
	"github.com/spec-kit/agent-admin/internal/repository"
)

var _ repository.AgentHistoryRepository = (*InMemoryHistoryRepository)(nil)

// InMemoryHistoryRepository keeps audit entries in insertion order.
type InMemoryHistoryRepository struct {
	mu      sync.Mutex
	entries []domain.AgentStatusHistory
	seen    map[string]bool

	// FailWith, when set, is returned by every method.
	FailWith error
}

// NewInMemoryHistoryRepository returns an empty repository.
func NewInMemoryHistoryRepository() *InMemoryHistoryRepository {
	return &InMemoryHistoryRepository{seen: make(map[string]bool)}
}

func (r *InMemoryHistoryRepository) Create(_ context.Context, entry *domain.AgentStatusHistory) error {
	if r.FailWith != nil {
		return r.FailWith
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.seen[entry.ID] {
		return nil
	}
	r.seen[entry.ID] = true
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *InMemoryHistoryRepository) ListByAgent(_ context.Context, agentID int64) ([]domain.AgentStatusHistory, error) {
	if r.FailWith != nil {
		return nil, r.FailWith
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.AgentStatusHistory
	for _, entry := range r.entries {
		if entry.AgentID == agentID {
			result = append(result, entry)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}
