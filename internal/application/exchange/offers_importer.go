package exchange

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/jhoicas/catalog-exchange/internal/application/catalog"
	"github.com/jhoicas/catalog-exchange/internal/domain"
	"github.com/jhoicas/catalog-exchange/internal/domain/document"
	"github.com/jhoicas/catalog-exchange/internal/domain/entity"
)

// OffersImporter fusiona precios y existencias de un documento de ofertas.
type OffersImporter struct {
	merge       *catalog.MergeService
	journal     *Journal
	validate    *validator.Validate
	concurrency int
	log         zerolog.Logger
}

// NewOffersImporter crea el importador.
func NewOffersImporter(merge *catalog.MergeService, journal *Journal, concurrency int, log zerolog.Logger) *OffersImporter {
	return &OffersImporter{
		merge:       merge,
		journal:     journal,
		validate:    validator.New(),
		concurrency: concurrency,
		log:         log,
	}
}

// Import procesa los paquetes en orden: primero sus declaraciones, luego sus ofertas.
func (i *OffersImporter) Import(ctx context.Context, job *entity.ExchangeJob, offers *document.Offers) Report {
	var r Report
	for _, pkg := range offers.Packages {
		decl, failed := i.declare(ctx, job, pkg)
		r.Failed += failed
		if decl == nil {
			r.Failed += len(pkg.Offers)
			continue
		}
		r.Add(runBounded(ctx, i.concurrency, pkg.Offers, offerKey, func(ctx context.Context, o document.Offer) error {
			return i.importOffer(ctx, job, decl, o)
		}))
	}
	i.log.Info().Str("job_id", job.ID).Int("ok", r.Succeeded).Int("failed", r.Failed).Msg("ofertas procesadas")
	return r
}

// declare persiste los almacenes y tipos de precio válidos del paquete; los inválidos se registran.
func (i *OffersImporter) declare(ctx context.Context, job *entity.ExchangeJob, pkg document.OfferPackage) (*catalog.Declarations, int) {
	valid := document.OfferPackage{Stocks: []document.Stock{}, PriceTypes: []document.PriceType{}}
	failed := 0
	for _, s := range pkg.Stocks {
		if err := i.validate.Struct(s); err != nil {
			i.journal.Failure(ctx, job, MsgPackageFailed, fmt.Sprintf("stock %q: %v", s.Name, validationError(err)))
			failed++
			continue
		}
		valid.Stocks = append(valid.Stocks, s)
	}
	for _, pt := range pkg.PriceTypes {
		if err := i.validate.Struct(pt); err != nil {
			i.journal.Failure(ctx, job, MsgPackageFailed, fmt.Sprintf("price type %q: %v", pt.Name, validationError(err)))
			failed++
			continue
		}
		valid.PriceTypes = append(valid.PriceTypes, pt)
	}
	decl, err := i.merge.DeclarePackage(ctx, job.CompanyID, valid)
	if err != nil {
		i.journal.Failure(ctx, job, MsgPackageFailed, err.Error())
		return nil, failed + 1
	}
	return decl, failed
}

// importOffer aplica precios y existencias; cada par se registra por separado.
// La oferta cuenta como fallida si el producto no existe o algún par falló.
func (i *OffersImporter) importOffer(ctx context.Context, job *entity.ExchangeJob, decl *catalog.Declarations, o document.Offer) error {
	key := offerKey(o)
	if err := i.validate.Struct(o); err != nil {
		err = validationError(err)
		i.journal.Failure(ctx, job, MsgOfferFailed, key, err.Error())
		return err
	}
	product, err := i.merge.FindOfferProduct(ctx, job.CompanyID, o)
	if err != nil {
		i.journal.Failure(ctx, job, MsgOfferFailed, key, err.Error())
		return err
	}

	var errs []error
	for _, reason := range o.Rejected {
		err := errors.New(reason)
		i.journal.Failure(ctx, job, MsgOfferFailed, key, reason)
		errs = append(errs, err)
	}
	for _, p := range o.Prices {
		pt, ok := decl.PriceTypes[p.PriceTypeID]
		if !ok {
			err := fmt.Errorf("%s: %w", p.PriceTypeID, domain.ErrUnknownPriceType)
			i.journal.Failure(ctx, job, MsgOfferFailed, key, err.Error())
			errs = append(errs, err)
			continue
		}
		if err := i.merge.UpsertPrice(ctx, pt.ID, product.ID, p.Amount); err != nil {
			i.journal.Failure(ctx, job, MsgOfferFailed, key, err.Error())
			errs = append(errs, err)
			continue
		}
		i.journal.Success(ctx, job, MsgPriceUpdated, key, p.PriceTypeID)
	}
	for _, b := range o.Balances {
		st, ok := decl.Stocks[b.StockID]
		if !ok {
			err := fmt.Errorf("%s: %w", b.StockID, domain.ErrUnknownStock)
			i.journal.Failure(ctx, job, MsgOfferFailed, key, err.Error())
			errs = append(errs, err)
			continue
		}
		if err := i.merge.UpsertBalance(ctx, st.ID, product.ID, b.Quantity); err != nil {
			i.journal.Failure(ctx, job, MsgOfferFailed, key, err.Error())
			errs = append(errs, err)
			continue
		}
		i.journal.Success(ctx, job, MsgBalanceUpdated, key, b.StockID)
	}
	return errors.Join(errs...)
}

func offerKey(o document.Offer) string {
	if o.ExternalID != "" {
		return o.ExternalID
	}
	return o.Number
}
