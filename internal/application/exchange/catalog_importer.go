package exchange

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/jhoicas/catalog-exchange/internal/application/catalog"
	"github.com/jhoicas/catalog-exchange/internal/domain/document"
	"github.com/jhoicas/catalog-exchange/internal/domain/entity"
)

// CatalogImporter fusiona los productos de un documento de catálogo.
type CatalogImporter struct {
	merge       *catalog.MergeService
	assets      *AssetSynchronizer
	journal     *Journal
	validate    *validator.Validate
	concurrency int
	log         zerolog.Logger
}

// NewCatalogImporter crea el importador. assets puede ser nil (sin almacén de imágenes).
func NewCatalogImporter(merge *catalog.MergeService, assets *AssetSynchronizer, journal *Journal, concurrency int, log zerolog.Logger) *CatalogImporter {
	return &CatalogImporter{
		merge:       merge,
		assets:      assets,
		journal:     journal,
		validate:    validator.New(),
		concurrency: concurrency,
		log:         log,
	}
}

// Import procesa cada producto de forma independiente: un fallo se registra y no detiene al resto.
func (i *CatalogImporter) Import(ctx context.Context, job *entity.ExchangeJob, cat *document.Catalog) Report {
	outcomes := runBounded(ctx, i.concurrency, cat.Products, productKey, func(ctx context.Context, node document.Product) error {
		err := i.importProduct(ctx, job, node)
		if err != nil {
			i.journal.Failure(ctx, job, MsgProductFailed, productKey(node), err.Error())
			return err
		}
		i.journal.Success(ctx, job, MsgProductImported, productKey(node))
		return nil
	})
	var r Report
	r.Add(outcomes)
	i.log.Info().Str("job_id", job.ID).Int("ok", r.Succeeded).Int("failed", r.Failed).Msg("catálogo procesado")
	return r
}

func (i *CatalogImporter) importProduct(ctx context.Context, job *entity.ExchangeJob, node document.Product) error {
	if err := i.validate.Struct(node); err != nil {
		return validationError(err)
	}
	product, _, err := i.merge.UpsertProduct(ctx, job.CompanyID, node)
	if err != nil {
		return err
	}
	if i.assets != nil {
		if err := i.assets.Sync(ctx, job, product, node.Images, node.OnlyChanges); err != nil {
			return err
		}
	}
	return nil
}

func productKey(p document.Product) string {
	if p.ExternalID != "" {
		return p.ExternalID
	}
	if p.Number != "" {
		return p.Number
	}
	return p.Name
}

// validationError resume los errores del validador en un mensaje corto.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid entry: %v", err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return fmt.Errorf("required field missing: %s", strings.Join(fields, ", "))
}
