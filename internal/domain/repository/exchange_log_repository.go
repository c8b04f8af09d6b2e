package repository

import (
	"context"

	"github.com/jhoicas/catalog-exchange/internal/domain/entity"
)

// ExchangeLogRepository define el puerto del log de intercambio (solo inserción).
type ExchangeLogRepository interface {
	Append(ctx context.Context, entry *entity.ExchangeLog) error
	ListByJob(ctx context.Context, jobID string, limit, offset int) ([]*entity.ExchangeLog, error)
}
