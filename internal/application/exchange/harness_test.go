package exchange_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalog-exchange/internal/application/catalog"
	"github.com/jhoicas/catalog-exchange/internal/application/exchange"
	"github.com/jhoicas/catalog-exchange/internal/domain/entity"
	"github.com/jhoicas/catalog-exchange/internal/infrastructure/commerceml"
	"github.com/jhoicas/catalog-exchange/internal/infrastructure/memory"
	"github.com/jhoicas/catalog-exchange/internal/infrastructure/spreadsheet"
)

const testCompanyID = "company-1"

// fakeAssetStore guarda los objetos en memoria.
type fakeAssetStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
	failOn  map[string]bool // sufijos de clave que fallan al subir
}

func newFakeAssetStore() *fakeAssetStore {
	return &fakeAssetStore{objects: map[string][]byte{}, failOn: map[string]bool{}}
}

func (s *fakeAssetStore) Upload(_ context.Context, key string, body io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOn[filepath.Ext(key)] {
		return io.ErrUnexpectedEOF
	}
	s.objects[key] = data
	return nil
}

func (s *fakeAssetStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *fakeAssetStore) URL(key string) string { return "https://cdn.test/" + key }

func (s *fakeAssetStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

// harness arma el pipeline completo sobre repositorios en memoria y un staging temporal.
type harness struct {
	t         *testing.T
	store     *memory.Store
	assets    *fakeAssetStore
	staging   exchange.Staging
	ledger    *exchange.Ledger
	journal   *exchange.Journal
	merge     *catalog.MergeService
	processor *exchange.Processor
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := memory.NewStore()
	store.AddCompany(entity.Company{ID: testCompanyID, Name: "ACME", Status: "active"})
	log := zerolog.Nop()

	h := &harness{
		t:       t,
		store:   store,
		assets:  newFakeAssetStore(),
		staging: exchange.Staging{Root: t.TempDir()},
		ledger:  exchange.NewLedger(store.Jobs()),
		journal: exchange.NewJournal(store, log),
		merge:   catalog.NewMergeService(store.Catalog(), nil),
	}
	assetSync := exchange.NewAssetSynchronizer(store.Images(), h.assets, h.staging, h.journal, log)
	catImp := exchange.NewCatalogImporter(h.merge, assetSync, h.journal, 4, log)
	offImp := exchange.NewOffersImporter(h.merge, h.journal, 4, log)
	h.processor = exchange.NewProcessor(h.ledger, commerceml.NewDecoder(), spreadsheet.NewDecoder(), catImp, offImp, log)
	return h
}

// writeFile escribe un archivo en staging tal como lo haría mode=file.
func (h *harness) writeFile(filename string, content []byte) string {
	h.t.Helper()
	path, err := h.staging.Path(testCompanyID, filename)
	require.NoError(h.t, err)
	require.NoError(h.t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(h.t, os.WriteFile(path, content, 0o644))
	return path
}

// run sube el documento, crea su job, lo reclama como Import y lo procesa; devuelve el job final.
func (h *harness) run(filename string, content []byte) *entity.ExchangeJob {
	h.t.Helper()
	ctx := context.Background()
	path := h.writeFile(filename, content)
	typ, ok := exchange.DocumentTypeFor(filename)
	require.True(h.t, ok, "tipo de documento para %s", filename)
	job, err := h.ledger.Create(ctx, testCompanyID, path, typ, "en")
	require.NoError(h.t, err)
	ok, err = h.ledger.Claim(ctx, job.ID)
	require.NoError(h.t, err)
	require.True(h.t, ok)
	require.NoError(h.t, h.staging.Seal(job))
	require.NoError(h.t, h.processor.Process(ctx, job.ID))
	return h.store.Job(job.ID)
}
