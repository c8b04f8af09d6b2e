package exchange_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalog-exchange/internal/application/exchange"
	"github.com/jhoicas/catalog-exchange/internal/domain/entity"
	"github.com/jhoicas/catalog-exchange/internal/infrastructure/memory"
	"github.com/jhoicas/catalog-exchange/internal/infrastructure/queue"
)

// recordingProcessor cierra cada job con SUCCESS y anota el orden por empresa.
type recordingProcessor struct {
	ledger *exchange.Ledger
	mu     sync.Mutex
	seen   map[string][]string
	active map[string]int
	maxPar map[string]int
}

func newRecordingProcessor(ledger *exchange.Ledger) *recordingProcessor {
	return &recordingProcessor{
		ledger: ledger,
		seen:   map[string][]string{},
		active: map[string]int{},
		maxPar: map[string]int{},
	}
}

func (p *recordingProcessor) Process(ctx context.Context, jobID string) error {
	job, err := p.ledger.Get(ctx, jobID)
	if err != nil || job == nil || job.Status.IsTerminal() {
		return err
	}
	p.mu.Lock()
	p.active[job.CompanyID]++
	if p.active[job.CompanyID] > p.maxPar[job.CompanyID] {
		p.maxPar[job.CompanyID] = p.active[job.CompanyID]
	}
	p.mu.Unlock()

	time.Sleep(5 * time.Millisecond)

	p.mu.Lock()
	p.active[job.CompanyID]--
	p.seen[job.CompanyID] = append(p.seen[job.CompanyID], jobID)
	p.mu.Unlock()
	_, err = p.ledger.Complete(ctx, jobID, entity.JobSuccess)
	return err
}

func (p *recordingProcessor) processed(companyID string) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.seen[companyID]...)
}

func (p *recordingProcessor) maxParallel(companyID string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.maxPar[companyID]
}

func newPendingJob(t *testing.T, ledger *exchange.Ledger, companyID, name string) *entity.ExchangeJob {
	t.Helper()
	ctx := context.Background()
	job, err := ledger.Create(ctx, companyID, "/staging/"+companyID+"/shared/"+name, entity.DocCatalogImport, "en")
	require.NoError(t, err)
	ok, err := ledger.Claim(ctx, job.ID)
	require.NoError(t, err)
	require.True(t, ok)
	return job
}

func TestQueueManager_OrdenPorEmpresa(t *testing.T) {
	store := memory.NewStore()
	ledger := exchange.NewLedger(store.Jobs())
	proc := newRecordingProcessor(ledger)
	m := exchange.NewQueueManager(queue.NewMemoryBroker(), ledger, proc, exchange.WithPopTimeout(20*time.Millisecond))
	defer m.Shutdown()
	ctx := context.Background()

	var want1, want2 []string
	for i := 0; i < 4; i++ {
		j1 := newPendingJob(t, ledger, "c1", "import.xml")
		j2 := newPendingJob(t, ledger, "c2", "import.xml")
		require.NoError(t, m.Enqueue(ctx, j1))
		require.NoError(t, m.Enqueue(ctx, j2))
		want1 = append(want1, j1.ID)
		want2 = append(want2, j2.ID)
	}

	require.Eventually(t, func() bool {
		return len(proc.processed("c1")) == 4 && len(proc.processed("c2")) == 4
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, want1, proc.processed("c1"))
	assert.Equal(t, want2, proc.processed("c2"))
	assert.Equal(t, 1, proc.maxParallel("c1"), "un solo job a la vez por empresa")
	assert.ElementsMatch(t, []string{"c1", "c2"}, m.Workers())
	for _, id := range append(want1, want2...) {
		assert.Equal(t, entity.JobSuccess, store.Job(id).Status)
	}
}

func TestQueueManager_ResumeReencolaPendientes(t *testing.T) {
	store := memory.NewStore()
	ledger := exchange.NewLedger(store.Jobs())
	pending := newPendingJob(t, ledger, "c1", "import.xml")
	inactive, err := ledger.Create(context.Background(), "c1", "/staging/c1/shared/offers.xml", entity.DocOffersImport, "en")
	require.NoError(t, err)

	broker := queue.NewMemoryBroker()
	proc := newRecordingProcessor(ledger)
	m := exchange.NewQueueManager(broker, ledger, proc, exchange.WithPopTimeout(20*time.Millisecond))
	defer m.Shutdown()

	require.NoError(t, m.Resume(context.Background()))
	require.Eventually(t, func() bool {
		return store.Job(pending.ID).Status == entity.JobSuccess
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{pending.ID}, proc.processed("c1"))
	assert.Equal(t, entity.JobInactive, store.Job(inactive.ID).Status)
}

// unstableBroker falla las primeras lecturas, como un Redis que se está reiniciando.
type unstableBroker struct {
	exchange.Broker
	mu       sync.Mutex
	failures int
}

func (b *unstableBroker) Pop(ctx context.Context, q string, timeout time.Duration) (string, error) {
	b.mu.Lock()
	if b.failures > 0 {
		b.failures--
		b.mu.Unlock()
		return "", errors.New("LOADING Redis is loading the dataset in memory")
	}
	b.mu.Unlock()
	return b.Broker.Pop(ctx, q, timeout)
}

func TestQueueManager_ReintentaTrasErrorDelBroker(t *testing.T) {
	store := memory.NewStore()
	ledger := exchange.NewLedger(store.Jobs())
	proc := newRecordingProcessor(ledger)
	broker := &unstableBroker{Broker: queue.NewMemoryBroker(), failures: 3}
	m := exchange.NewQueueManager(broker, ledger, proc,
		exchange.WithPopTimeout(20*time.Millisecond),
		exchange.WithRetryDelay(5*time.Millisecond),
	)
	defer m.Shutdown()

	job := newPendingJob(t, ledger, "c1", "import.xml")
	require.NoError(t, m.Enqueue(context.Background(), job))

	// Con la pausa por defecto (1s) tres fallos no entrarían en el plazo.
	require.Eventually(t, func() bool {
		return store.Job(job.ID).Status == entity.JobSuccess
	}, 500*time.Millisecond, 5*time.Millisecond)
	assert.Equal(t, []string{job.ID}, proc.processed("c1"))
}

func TestQueueManager_Shutdown(t *testing.T) {
	store := memory.NewStore()
	ledger := exchange.NewLedger(store.Jobs())
	broker := queue.NewMemoryBroker()
	m := exchange.NewQueueManager(broker, ledger, newRecordingProcessor(ledger), exchange.WithPopTimeout(time.Second))

	m.EnsureWorker("c1")
	done := make(chan struct{})
	go func() {
		m.Shutdown()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Shutdown no terminó")
	}

	m.EnsureWorker("c2")
	assert.ElementsMatch(t, []string{"c1"}, m.Workers(), "tras Shutdown no se arrancan workers")
}
