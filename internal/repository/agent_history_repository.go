package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/agent-admin/internal/domain"
)

// AgentHistoryRepository stores lifecycle audit entries.
type AgentHistoryRepository interface {
	// Create inserts entry. Re-inserting an existing id is a no-op.
	Create(ctx context.Context, entry *domain.AgentStatusHistory) error
	ListByAgent(ctx context.Context, agentID int64) ([]domain.AgentStatusHistory, error)
}

type agentHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewAgentHistoryRepository builds repository.
func NewAgentHistoryRepository(pool *pgxpool.Pool) AgentHistoryRepository {
	return &agentHistoryRepository{pool: pool}
}

func (r *agentHistoryRepository) Create(ctx context.Context, entry *domain.AgentStatusHistory) error {
	const query = `
        INSERT INTO agent_status_history (id, agent_id, changed_by_type, changed_by_id, old_status, new_status, reason, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        ON CONFLICT (id) DO NOTHING`
	_, err := r.pool.Exec(ctx, query,
		entry.ID,
		entry.AgentID,
		entry.ChangedByType,
		entry.ChangedByID,
		entry.OldStatus,
		entry.NewStatus,
		entry.Reason,
		entry.CreatedAt,
	)
	return err
}

func (r *agentHistoryRepository) ListByAgent(ctx context.Context, agentID int64) ([]domain.AgentStatusHistory, error) {
	const query = `
        SELECT id, agent_id, changed_by_type, changed_by_id, old_status, new_status, reason, created_at
        FROM agent_status_history WHERE agent_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, agentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AgentStatusHistory
	for rows.Next() {
		var entry domain.AgentStatusHistory
		if err := rows.Scan(
			&entry.ID,
			&entry.AgentID,
			&entry.ChangedByType,
			&entry.ChangedByID,
			&entry.OldStatus,
			&entry.NewStatus,
			&entry.Reason,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
