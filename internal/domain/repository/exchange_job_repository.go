package repository

import (
	"context"

	"github.com/jhoicas/catalog-exchange/internal/domain/entity"
)

// ExchangeJobRepository define el puerto del libro de jobs de intercambio.
type ExchangeJobRepository interface {
	Create(ctx context.Context, job *entity.ExchangeJob) error
	GetByID(ctx context.Context, id string) (*entity.ExchangeJob, error)
	FindLatestByPath(ctx context.Context, companyID, path string) (*entity.ExchangeJob, error)
	FindLatestByFilename(ctx context.Context, companyID, filename string) (*entity.ExchangeJob, error)
	// CompareAndSetStatus cambia el estado solo si el actual es uno de from; devuelve si cambió.
	CompareAndSetStatus(ctx context.Context, id string, to entity.JobStatus, errs []string, from ...entity.JobStatus) (bool, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.ExchangeJob, error)
	ListByStatus(ctx context.Context, status entity.JobStatus) ([]*entity.ExchangeJob, error)
}
