package exchange

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/catalog-exchange/internal/domain/entity"
	"github.com/jhoicas/catalog-exchange/internal/domain/repository"
)

// Ledger libro de jobs de intercambio: registra cada archivo subido y sus transiciones
// INACTIVE -> PENDING -> {SUCCESS, ERROR}.
type Ledger struct {
	repo repository.ExchangeJobRepository
	now  func() time.Time
}

// NewLedger crea el libro sobre el repositorio dado.
func NewLedger(repo repository.ExchangeJobRepository) *Ledger {
	return &Ledger{repo: repo, now: time.Now}
}

// Create registra un job INACTIVE para path.
func (l *Ledger) Create(ctx context.Context, companyID, path string, typ entity.DocumentType, locale string) (*entity.ExchangeJob, error) {
	now := l.now()
	job := &entity.ExchangeJob{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Path:      path,
		Type:      typ,
		Status:    entity.JobInactive,
		Locale:    locale,
		Errors:    []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := l.repo.Create(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// Get obtiene un job; nil si no existe.
func (l *Ledger) Get(ctx context.Context, id string) (*entity.ExchangeJob, error) {
	return l.repo.GetByID(ctx, id)
}

// FindLatestByPath último job del archivo de staging.
func (l *Ledger) FindLatestByPath(ctx context.Context, companyID, path string) (*entity.ExchangeJob, error) {
	return l.repo.FindLatestByPath(ctx, companyID, path)
}

// FindByFilename último job cuya ruta termina en /filename.
func (l *Ledger) FindByFilename(ctx context.Context, companyID, filename string) (*entity.ExchangeJob, error) {
	return l.repo.FindLatestByFilename(ctx, companyID, filename)
}

// Claim pasa el job de INACTIVE a PENDING; solo un llamador lo consigue.
func (l *Ledger) Claim(ctx context.Context, id string) (bool, error) {
	return l.repo.CompareAndSetStatus(ctx, id, entity.JobPending, nil, entity.JobInactive)
}

// Release devuelve a INACTIVE un job reclamado que no llegó a encolarse.
func (l *Ledger) Release(ctx context.Context, id string) (bool, error) {
	return l.repo.CompareAndSetStatus(ctx, id, entity.JobInactive, nil, entity.JobPending)
}

// MarkPending asegura el estado PENDING; es idempotente.
func (l *Ledger) MarkPending(ctx context.Context, id string) (bool, error) {
	return l.repo.CompareAndSetStatus(ctx, id, entity.JobPending, nil, entity.JobInactive, entity.JobPending)
}

// Complete cierra el job con un estado terminal; un job ya terminado no cambia.
func (l *Ledger) Complete(ctx context.Context, id string, status entity.JobStatus, errs ...string) (bool, error) {
	return l.repo.CompareAndSetStatus(ctx, id, status, errs, entity.JobInactive, entity.JobPending)
}

// ListByCompany jobs de la empresa, más recientes primero.
func (l *Ledger) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.ExchangeJob, error) {
	return l.repo.ListByCompany(ctx, companyID, limit, offset)
}

// Pending jobs PENDING de todas las empresas (recuperación tras reinicio).
func (l *Ledger) Pending(ctx context.Context) ([]*entity.ExchangeJob, error) {
	return l.repo.ListByStatus(ctx, entity.JobPending)
}
