package exchange

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/jhoicas/catalog-exchange/internal/domain/document"
	"github.com/jhoicas/catalog-exchange/internal/domain/entity"
)

// ErrStagingFileNotFound el archivo del job ya no está en staging.
var ErrStagingFileNotFound = errors.New("staging file not found")

// Processor ejecuta un job: decodifica su documento, lo fusiona y cierra el job en el libro.
type Processor struct {
	ledger  *Ledger
	xml     DocumentDecoder
	tabular TabularDecoder
	catalog *CatalogImporter
	offers  *OffersImporter
	log     zerolog.Logger
}

// NewProcessor crea el procesador.
func NewProcessor(ledger *Ledger, xml DocumentDecoder, tabular TabularDecoder, catalog *CatalogImporter, offers *OffersImporter, log zerolog.Logger) *Processor {
	return &Processor{ledger: ledger, xml: xml, tabular: tabular, catalog: catalog, offers: offers, log: log}
}

// Process procesa el job jobID. Los jobs desconocidos o ya terminados se descartan (entrega
// duplicada). Solo devuelve error si el libro no se pudo consultar o actualizar.
func (p *Processor) Process(ctx context.Context, jobID string) error {
	job, err := p.ledger.Get(ctx, jobID)
	if err != nil {
		return fmt.Errorf("cargar job %s: %w", jobID, err)
	}
	log := p.log.With().Str("job_id", jobID).Logger()
	if job == nil {
		log.Warn().Msg("job desconocido, se descarta")
		return nil
	}
	if job.Status.IsTerminal() {
		log.Debug().Str("status", string(job.Status)).Msg("job ya terminado, se descarta")
		return nil
	}
	if _, err := p.ledger.MarkPending(ctx, job.ID); err != nil {
		return fmt.Errorf("marcar job %s: %w", job.ID, err)
	}
	log = log.With().Str("company_id", job.CompanyID).Str("type", string(job.Type)).Logger()

	report, runErr := p.run(ctx, job)

	if err := os.Remove(JobFile(job)); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Str("path", JobFile(job)).Msg("no se pudo borrar el archivo de staging")
	}

	status, detail := entity.JobSuccess, []string(nil)
	if runErr != nil {
		status, detail = entity.JobError, []string{runErr.Error()}
	}
	if _, err := p.ledger.Complete(ctx, job.ID, status, detail...); err != nil {
		return fmt.Errorf("cerrar job %s: %w", job.ID, err)
	}
	ev := log.Info()
	if runErr != nil {
		ev = log.Error().Err(runErr)
	}
	ev.Str("status", string(status)).Int("ok", report.Succeeded).Int("failed", report.Failed).Msg("job terminado")
	return nil
}

// run decodifica y fusiona el documento. Un panic se convierte en error del job.
func (p *Processor) run(ctx context.Context, job *entity.ExchangeJob) (report Report, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	f, err := os.Open(JobFile(job))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return report, ErrStagingFileNotFound
		}
		return report, fmt.Errorf("open staging file: %w", err)
	}
	defer f.Close()

	switch job.Type {
	case entity.DocCatalogImport, entity.DocTabularProducts:
		cat, err := p.decodeCatalog(job.Type, f)
		if err != nil {
			return report, err
		}
		return p.catalog.Import(ctx, job, cat), nil
	case entity.DocOffersImport, entity.DocTabularPrices, entity.DocTabularBalances:
		offers, err := p.decodeOffers(job.Type, f)
		if err != nil {
			return report, err
		}
		return p.offers.Import(ctx, job, offers), nil
	}
	return report, fmt.Errorf("unsupported document type %q", job.Type)
}

func (p *Processor) decodeCatalog(typ entity.DocumentType, r io.Reader) (*document.Catalog, error) {
	if typ == entity.DocTabularProducts {
		return p.tabular.DecodeProducts(r)
	}
	return p.xml.DecodeCatalog(r)
}

func (p *Processor) decodeOffers(typ entity.DocumentType, r io.Reader) (*document.Offers, error) {
	switch typ {
	case entity.DocTabularPrices:
		return p.tabular.DecodePrices(r)
	case entity.DocTabularBalances:
		return p.tabular.DecodeBalances(r)
	}
	return p.xml.DecodeOffers(r)
}
