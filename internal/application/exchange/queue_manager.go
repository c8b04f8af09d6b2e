package exchange

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/catalog-exchange/internal/domain/entity"
)

// JobProcessor ejecuta un job por id.
type JobProcessor interface {
	Process(ctx context.Context, jobID string) error
}

// QueueManager mantiene una cola y un worker por empresa. Los jobs de una misma empresa se
// procesan de a uno y en orden; empresas distintas avanzan en paralelo.
type QueueManager struct {
	broker     Broker
	ledger     *Ledger
	processor  JobProcessor
	popTimeout time.Duration
	retryDelay time.Duration
	log        zerolog.Logger

	mu      sync.Mutex
	workers map[string]*workerHandle
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	closed  bool
}

type workerHandle struct {
	companyID string
	started   time.Time
}

// QueueOption configura el QueueManager.
type QueueOption func(*QueueManager)

// WithPopTimeout espera máxima de cada lectura de la cola.
func WithPopTimeout(d time.Duration) QueueOption {
	return func(m *QueueManager) {
		if d > 0 {
			m.popTimeout = d
		}
	}
}

// WithRetryDelay pausa tras un error del broker.
func WithRetryDelay(d time.Duration) QueueOption {
	return func(m *QueueManager) {
		if d > 0 {
			m.retryDelay = d
		}
	}
}

// WithQueueLogger asigna el logger.
func WithQueueLogger(l zerolog.Logger) QueueOption {
	return func(m *QueueManager) { m.log = l }
}

// NewQueueManager crea el gestor. Se construye una vez en main y se cierra con Shutdown.
func NewQueueManager(broker Broker, ledger *Ledger, processor JobProcessor, opts ...QueueOption) *QueueManager {
	ctx, cancel := context.WithCancel(context.Background())
	m := &QueueManager{
		broker:     broker,
		ledger:     ledger,
		processor:  processor,
		popTimeout: 5 * time.Second,
		retryDelay: time.Second,
		log:        zerolog.Nop(),
		workers:    map[string]*workerHandle{},
		ctx:        ctx,
		cancel:     cancel,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Enqueue encola el job en la cola de su empresa y asegura su worker.
func (m *QueueManager) Enqueue(ctx context.Context, job *entity.ExchangeJob) error {
	if err := m.broker.Push(ctx, job.CompanyID, job.ID); err != nil {
		return fmt.Errorf("encolar job %s: %w", job.ID, err)
	}
	m.EnsureWorker(job.CompanyID)
	return nil
}

// EnsureWorker arranca el worker de la empresa si no está corriendo.
func (m *QueueManager) EnsureWorker(companyID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	if _, ok := m.workers[companyID]; ok {
		return
	}
	m.workers[companyID] = &workerHandle{companyID: companyID, started: time.Now()}
	m.wg.Add(1)
	go m.work(companyID)
	m.log.Info().Str("company_id", companyID).Msg("worker iniciado")
}

// Resume re-encola los jobs PENDING que quedaron de una ejecución anterior y arranca sus workers.
// Una entrega duplicada es inocua: el procesador descarta los jobs ya terminados.
func (m *QueueManager) Resume(ctx context.Context) error {
	jobs, err := m.ledger.Pending(ctx)
	if err != nil {
		return fmt.Errorf("jobs pendientes: %w", err)
	}
	for _, job := range jobs {
		if err := m.Enqueue(ctx, job); err != nil {
			return err
		}
	}
	if len(jobs) > 0 {
		m.log.Info().Int("jobs", len(jobs)).Msg("jobs pendientes re-encolados")
	}
	return nil
}

// Workers empresas con worker activo.
func (m *QueueManager) Workers() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.workers))
	for id := range m.workers {
		out = append(out, id)
	}
	return out
}

// Shutdown detiene los workers y espera a que terminen el job en curso.
func (m *QueueManager) Shutdown() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	m.cancel()
	m.wg.Wait()
}

func (m *QueueManager) work(companyID string) {
	defer m.wg.Done()
	log := m.log.With().Str("company_id", companyID).Logger()
	for {
		if m.ctx.Err() != nil {
			log.Info().Msg("worker detenido")
			return
		}
		jobID, err := m.broker.Pop(m.ctx, companyID, m.popTimeout)
		switch {
		case errors.Is(err, ErrQueueEmpty):
			continue
		case m.ctx.Err() != nil:
			log.Info().Msg("worker detenido")
			return
		case err != nil:
			log.Error().Err(err).Msg("error leyendo la cola")
			select {
			case <-m.ctx.Done():
			case <-time.After(m.retryDelay):
			}
			continue
		}
		// El job en curso termina aunque se pida el cierre.
		if err := m.processor.Process(context.WithoutCancel(m.ctx), jobID); err != nil {
			log.Error().Err(err).Str("job_id", jobID).Msg("error procesando job")
		}
	}
}
