package exchange

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/catalog-exchange/internal/domain/entity"
	"github.com/jhoicas/catalog-exchange/internal/domain/repository"
)

// Journal escribe el log de intercambio: una entrada por entidad procesada, en el idioma del job.
// Un fallo al escribir el log se registra con zerolog y nunca hace fallar a la entidad.
type Journal struct {
	repo repository.ExchangeLogRepository
	log  zerolog.Logger
	now  func() time.Time
}

// NewJournal crea el journal.
func NewJournal(repo repository.ExchangeLogRepository, log zerolog.Logger) *Journal {
	return &Journal{repo: repo, log: log, now: time.Now}
}

// Success registra una entidad procesada correctamente.
func (j *Journal) Success(ctx context.Context, job *entity.ExchangeJob, key string, args ...any) {
	j.write(ctx, job, entity.LogSuccess, key, args)
}

// Failure registra una entidad que no se pudo procesar.
func (j *Journal) Failure(ctx context.Context, job *entity.ExchangeJob, key string, args ...any) {
	j.write(ctx, job, entity.LogError, key, args)
}

func (j *Journal) write(ctx context.Context, job *entity.ExchangeJob, status entity.LogStatus, key string, args []any) {
	msg := Printer(job.Locale).Sprintf(key, args...)
	entry := &entity.ExchangeLog{
		ID:        uuid.New().String(),
		JobID:     job.ID,
		Status:    status,
		Message:   msg,
		CreatedAt: j.now(),
	}
	if err := j.repo.Append(ctx, entry); err != nil {
		j.log.Error().Err(err).
			Str("job_id", job.ID).
			Str("status", string(status)).
			Str("message", msg).
			Msg("no se pudo escribir el log de intercambio")
		return
	}
	j.log.Debug().Str("job_id", job.ID).Str("status", string(status)).Msg(msg)
}

// Entries entradas del log de un job.
func (j *Journal) Entries(ctx context.Context, jobID string, limit, offset int) ([]*entity.ExchangeLog, error) {
	return j.repo.ListByJob(ctx, jobID, limit, offset)
}
