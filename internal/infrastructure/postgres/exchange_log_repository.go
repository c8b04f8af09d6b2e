package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/catalog-exchange/internal/domain/entity"
	"github.com/jhoicas/catalog-exchange/internal/domain/repository"
)

var _ repository.ExchangeLogRepository = (*ExchangeLogRepo)(nil)

// ExchangeLogRepo log de intercambio sobre PostgreSQL (solo inserción).
type ExchangeLogRepo struct {
	q Querier
}

// NewExchangeLogRepository construye el adaptador del log.
func NewExchangeLogRepository(q Querier) *ExchangeLogRepo {
	return &ExchangeLogRepo{q: q}
}

// Append inserta una entrada.
func (r *ExchangeLogRepo) Append(ctx context.Context, e *entity.ExchangeLog) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO exchange_logs (id, job_id, status, message, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		e.ID, e.JobID, string(e.Status), e.Message, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert exchange log: %w", err)
	}
	return nil
}

// ListByJob lista las entradas de un job en orden de inserción.
func (r *ExchangeLogRepo) ListByJob(ctx context.Context, jobID string, limit, offset int) ([]*entity.ExchangeLog, error) {
	limit, offset = normalizePage(limit, offset)
	rows, err := r.q.Query(ctx, `
		SELECT id, job_id, status, message, created_at
		FROM exchange_logs WHERE job_id = $1
		ORDER BY created_at ASC, id ASC LIMIT $2 OFFSET $3`, jobID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list exchange logs: %w", err)
	}
	defer rows.Close()
	var list []*entity.ExchangeLog
	for rows.Next() {
		var (
			e      entity.ExchangeLog
			status string
		)
		if err := rows.Scan(&e.ID, &e.JobID, &status, &e.Message, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan exchange log: %w", err)
		}
		e.Status = entity.LogStatus(status)
		list = append(list, &e)
	}
	return list, rows.Err()
}
