package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/catalog-exchange/internal/domain/entity"
	"github.com/jhoicas/catalog-exchange/internal/domain/repository"
)

var _ repository.ExchangeJobRepository = (*ExchangeJobRepo)(nil)

// ExchangeJobRepo libro de jobs de intercambio sobre PostgreSQL.
type ExchangeJobRepo struct {
	q Querier
}

// NewExchangeJobRepository construye el adaptador del libro de jobs.
func NewExchangeJobRepository(q Querier) *ExchangeJobRepo {
	return &ExchangeJobRepo{q: q}
}

const jobColumns = `id, company_id, path, type, status, locale, errors, created_at, updated_at`

// Create persiste un nuevo job.
func (r *ExchangeJobRepo) Create(ctx context.Context, job *entity.ExchangeJob) error {
	errs := job.Errors
	if errs == nil {
		errs = []string{}
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO exchange_jobs (`+jobColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		job.ID, job.CompanyID, job.Path, string(job.Type), string(job.Status), job.Locale, errs,
		job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert exchange job: %w", err)
	}
	return nil
}

// GetByID obtiene un job por ID.
func (r *ExchangeJobRepo) GetByID(ctx context.Context, id string) (*entity.ExchangeJob, error) {
	return r.findOne(ctx, `SELECT `+jobColumns+` FROM exchange_jobs WHERE id = $1`, id)
}

// FindLatestByPath devuelve el job más reciente para la ruta de staging.
func (r *ExchangeJobRepo) FindLatestByPath(ctx context.Context, companyID, path string) (*entity.ExchangeJob, error) {
	return r.findOne(ctx, `SELECT `+jobColumns+` FROM exchange_jobs
		WHERE company_id = $1 AND path = $2
		ORDER BY created_at DESC LIMIT 1`, companyID, path)
}

// FindLatestByFilename devuelve el job más reciente cuya ruta termina en /filename.
func (r *ExchangeJobRepo) FindLatestByFilename(ctx context.Context, companyID, filename string) (*entity.ExchangeJob, error) {
	return r.findOne(ctx, `SELECT `+jobColumns+` FROM exchange_jobs
		WHERE company_id = $1 AND right(path, length($2) + 1) = '/' || $2
		ORDER BY created_at DESC LIMIT 1`, companyID, filename)
}

// CompareAndSetStatus cambia el estado solo si el actual está en from.
func (r *ExchangeJobRepo) CompareAndSetStatus(ctx context.Context, id string, to entity.JobStatus, errs []string, from ...entity.JobStatus) (bool, error) {
	if errs == nil {
		errs = []string{}
	}
	allowed := make([]string, 0, len(from))
	for _, s := range from {
		allowed = append(allowed, string(s))
	}
	cmd, err := r.q.Exec(ctx, `
		UPDATE exchange_jobs SET status = $2, errors = errors || $3::text[], updated_at = now()
		WHERE id = $1 AND status = ANY($4)`, id, string(to), errs, allowed)
	if err != nil {
		return false, fmt.Errorf("update exchange job status: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// ListByCompany lista jobs por empresa con paginación (más recientes primero).
func (r *ExchangeJobRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.ExchangeJob, error) {
	limit, offset = normalizePage(limit, offset)
	return r.list(ctx, `SELECT `+jobColumns+` FROM exchange_jobs WHERE company_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`, companyID, limit, offset)
}

// ListByStatus lista todos los jobs en un estado (recuperación al arrancar).
func (r *ExchangeJobRepo) ListByStatus(ctx context.Context, status entity.JobStatus) ([]*entity.ExchangeJob, error) {
	return r.list(ctx, `SELECT `+jobColumns+` FROM exchange_jobs WHERE status = $1
		ORDER BY created_at ASC`, string(status))
}

func (r *ExchangeJobRepo) list(ctx context.Context, query string, args ...any) ([]*entity.ExchangeJob, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list exchange jobs: %w", err)
	}
	defer rows.Close()
	var list []*entity.ExchangeJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, job)
	}
	return list, rows.Err()
}

func (r *ExchangeJobRepo) findOne(ctx context.Context, query string, args ...any) (*entity.ExchangeJob, error) {
	job, err := scanJob(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return job, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*entity.ExchangeJob, error) {
	var (
		job            entity.ExchangeJob
		docType, state string
	)
	err := row.Scan(&job.ID, &job.CompanyID, &job.Path, &docType, &state, &job.Locale, &job.Errors,
		&job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, err
		}
		return nil, fmt.Errorf("scan exchange job: %w", err)
	}
	job.Type = entity.DocumentType(docType)
	job.Status = entity.JobStatus(state)
	return &job, nil
}
