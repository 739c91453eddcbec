package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/agent-admin/internal/domain"
)

// ErrStatusChanged is returned by UpdateTransition when the stored status no
// longer matches the status the caller read.
var ErrStatusChanged = errors.New("agent status changed concurrently")

// AgentRepository handles persistence for agents.
type AgentRepository interface {
	Create(ctx context.Context, agent *domain.Agent) error
	GetByID(ctx context.Context, id int64) (*domain.Agent, error)
	List(ctx context.Context, filter AgentFilter) ([]domain.Agent, error)
	// UpdateTransition writes the lifecycle fields of agent only if the stored
	// status still equals expected.
	UpdateTransition(ctx context.Context, agent *domain.Agent, expected domain.AgentStatus) error
	CountByStatus(ctx context.Context) (map[domain.AgentStatus]int64, error)
	CountCreatedPerDay(ctx context.Context, since time.Time) (map[string]int64, error)
}

// AgentFilter defines query params for agent listing.
type AgentFilter struct {
	Status *domain.AgentStatus
}

// DayLayout is the key format used by CountCreatedPerDay.
const DayLayout = "2006-01-02"

const agentColumns = `id, name, phone, email, id_document_type, id_document_number, status,
        approved_at, rejection_reason, suspended_at, suspension_reason, created_at, updated_at`

type agentRepository struct {
	pool *pgxpool.Pool
}

// NewAgentRepository instantiates the repository.
func NewAgentRepository(pool *pgxpool.Pool) AgentRepository {
	return &agentRepository{pool: pool}
}

func (r *agentRepository) Create(ctx context.Context, agent *domain.Agent) error {
	const query = `
        INSERT INTO agents (name, phone, email, id_document_type, id_document_number, status,
            approved_at, rejection_reason, suspended_at, suspension_reason)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at, updated_at`

	if agent.Status == "" {
		agent.Status = domain.AgentStatusPendingReview
	}
	return r.pool.QueryRow(ctx, query,
		agent.Name,
		agent.Phone,
		agent.Email,
		agent.IDDocumentType,
		agent.IDDocumentNumber,
		agent.Status,
		agent.ApprovedAt,
		agent.RejectionReason,
		agent.SuspendedAt,
		agent.SuspensionReason,
	).Scan(&agent.ID, &agent.CreatedAt, &agent.UpdatedAt)
}

func (r *agentRepository) GetByID(ctx context.Context, id int64) (*domain.Agent, error) {
	query := `SELECT ` + agentColumns + ` FROM agents WHERE id=$1`

	agent, err := scanAgent(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	return agent, nil
}

func (r *agentRepository) List(ctx context.Context, filter AgentFilter) ([]domain.Agent, error) {
	query := `SELECT ` + agentColumns + ` FROM agents`
	args := []any{}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += " WHERE status=$1"
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Agent{}
	for rows.Next() {
		agent, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *agent)
	}
	return result, rows.Err()
}

func (r *agentRepository) UpdateTransition(ctx context.Context, agent *domain.Agent, expected domain.AgentStatus) error {
	const query = `
        UPDATE agents
        SET status=$1, rejection_reason=$2, suspended_at=$3, suspension_reason=$4, updated_at=$5
        WHERE id=$6 AND status=$7`

	cmd, err := r.pool.Exec(ctx, query,
		agent.Status,
		agent.RejectionReason,
		agent.SuspendedAt,
		agent.SuspensionReason,
		agent.UpdatedAt,
		agent.ID,
		expected,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrStatusChanged
	}
	return nil
}

func (r *agentRepository) CountByStatus(ctx context.Context) (map[domain.AgentStatus]int64, error) {
	const query = `SELECT status, COUNT(*) FROM agents GROUP BY status`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.AgentStatus]int64)
	for rows.Next() {
		var (
			status domain.AgentStatus
			count  int64
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (r *agentRepository) CountCreatedPerDay(ctx context.Context, since time.Time) (map[string]int64, error) {
	const query = `
        SELECT to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day, COUNT(*)
        FROM agents
        WHERE created_at >= $1
        GROUP BY day`

	rows, err := r.pool.Query(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var (
			day   string
			count int64
		)
		if err := rows.Scan(&day, &count); err != nil {
			return nil, err
		}
		counts[day] = count
	}
	return counts, rows.Err()
}

func scanAgent(row pgx.Row) (*domain.Agent, error) {
	var agent domain.Agent
	if err := row.Scan(
		&agent.ID,
		&agent.Name,
		&agent.Phone,
		&agent.Email,
		&agent.IDDocumentType,
		&agent.IDDocumentNumber,
		&agent.Status,
		&agent.ApprovedAt,
		&agent.RejectionReason,
		&agent.SuspendedAt,
		&agent.SuspensionReason,
		&agent.CreatedAt,
		&agent.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &agent, nil
}
