package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/catalog-exchange/internal/domain"
	"github.com/jhoicas/catalog-exchange/internal/domain/document"
	"github.com/jhoicas/catalog-exchange/internal/domain/entity"
	"github.com/jhoicas/catalog-exchange/internal/domain/repository"
)

// Repositories agrupa los puertos de persistencia que toca el merge.
type Repositories struct {
	Products   repository.ProductRepository
	Images     repository.ProductImageRepository
	Stocks     repository.StockRepository
	PriceTypes repository.PriceTypeRepository
	Prices     repository.PriceRepository
	Balances   repository.StockBalanceRepository
}

// TxRunner ejecuta fn con repositorios atados a una transacción.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repositories) error) error
}

// Declarations almacenes y tipos de precio de un paquete de ofertas ya persistidos, por Ид del ERP.
type Declarations struct {
	Stocks     map[string]*entity.Stock
	PriceTypes map[string]*entity.PriceType
}

// MergeService primitivas idempotentes de creación-o-actualización del catálogo.
// Cada operación es atómica por sí misma; re-ejecutarla con los mismos datos no duplica filas.
type MergeService struct {
	repos Repositories
	tx    TxRunner
	now   func() time.Time
}

// NewMergeService construye el servicio. tx puede ser nil (sin transacción para las declaraciones).
func NewMergeService(repos Repositories, tx TxRunner) *MergeService {
	return &MergeService{repos: repos, tx: tx, now: time.Now}
}

// resolveProduct busca el producto existente: primero por ExternalID, luego por Number.
// Una variante solo se resuelve por su Ид, nunca por el SKU que comparte con su base.
func (s *MergeService) resolveProduct(ctx context.Context, companyID string, in document.Product) (*entity.Product, error) {
	p, err := s.repos.Products.FindByExternalID(ctx, companyID, in.ExternalID)
	if err != nil || p != nil || in.CharacteristicID != "" || in.Number == "" {
		return p, err
	}
	return s.repos.Products.FindByNumber(ctx, companyID, in.Number)
}

// UpsertProduct crea o actualiza el producto descrito por el nodo del catálogo.
// Devuelve el producto persistido e indica si se creó.
func (s *MergeService) UpsertProduct(ctx context.Context, companyID string, in document.Product) (*entity.Product, bool, error) {
	existing, err := s.resolveProduct(ctx, companyID, in)
	if err != nil {
		return nil, false, err
	}
	now := s.now()
	if existing == nil {
		p := &entity.Product{
			ID:        uuid.New().String(),
			CompanyID: companyID,
			CreatedAt: now,
		}
		applyProduct(p, in, now)
		err := s.repos.Products.Create(ctx, p)
		if err == nil {
			return p, true, nil
		}
		if !errors.Is(err, domain.ErrDuplicate) {
			return nil, false, err
		}
		// Otra entrega del mismo documento lo creó entre la búsqueda y el insert.
		existing, err = s.resolveProduct(ctx, companyID, in)
		if err != nil {
			return nil, false, err
		}
		if existing == nil {
			return nil, false, fmt.Errorf("product %q: %w", in.ExternalID, domain.ErrConflict)
		}
	}
	applyProduct(existing, in, now)
	if err := s.repos.Products.Update(ctx, existing); err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func applyProduct(p *entity.Product, in document.Product, now time.Time) {
	if in.ExternalID != "" {
		p.ExternalID = in.ExternalID
	}
	p.ProductID = in.ProductID
	p.CharacteristicID = in.CharacteristicID
	p.Name = in.Name
	p.Number = in.Number
	p.Brand = in.Brand
	p.BrandNumber = in.BrandNumber
	p.Unit = in.Unit
	p.Description = in.Description
	p.Archive = in.Archive
	p.UpdatedAt = now
}

func upsertStock(ctx context.Context, repos Repositories, companyID string, in document.Stock) (*entity.Stock, error) {
	if in.ExternalID == "" {
		return nil, fmt.Errorf("stock without id: %w", domain.ErrInvalidInput)
	}
	st := &entity.Stock{ID: uuid.New().String(), CompanyID: companyID, ExternalID: in.ExternalID, Name: in.Name}
	if err := repos.Stocks.Upsert(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func upsertPriceType(ctx context.Context, repos Repositories, companyID string, in document.PriceType) (*entity.PriceType, error) {
	if in.ExternalID == "" {
		return nil, fmt.Errorf("price type without id: %w", domain.ErrInvalidInput)
	}
	pt := &entity.PriceType{
		ID:         uuid.New().String(),
		CompanyID:  companyID,
		ExternalID: in.ExternalID,
		Name:       in.Name,
		Currency:   in.Currency,
	}
	if err := repos.PriceTypes.Upsert(ctx, pt); err != nil {
		return nil, err
	}
	return pt, nil
}

// DeclarePackage persiste los almacenes y tipos de precio de un paquete de ofertas en una sola
// transacción, antes de que ningún precio o existencia los referencie.
func (s *MergeService) DeclarePackage(ctx context.Context, companyID string, pkg document.OfferPackage) (*Declarations, error) {
	decl := &Declarations{
		Stocks:     make(map[string]*entity.Stock, len(pkg.Stocks)),
		PriceTypes: make(map[string]*entity.PriceType, len(pkg.PriceTypes)),
	}
	run := func(repos Repositories) error {
		for _, in := range pkg.Stocks {
			st, err := upsertStock(ctx, repos, companyID, in)
			if err != nil {
				return fmt.Errorf("stock %q: %w", in.ExternalID, err)
			}
			decl.Stocks[in.ExternalID] = st
		}
		for _, in := range pkg.PriceTypes {
			pt, err := upsertPriceType(ctx, repos, companyID, in)
			if err != nil {
				return fmt.Errorf("price type %q: %w", in.ExternalID, err)
			}
			decl.PriceTypes[in.ExternalID] = pt
		}
		return nil
	}
	var err error
	if s.tx != nil {
		err = s.tx.Run(ctx, run)
	} else {
		err = run(s.repos)
	}
	if err != nil {
		return nil, err
	}
	return decl, nil
}

// FindOfferProduct resuelve el producto de una oferta por Ид base, característica y SKU.
// Las ofertas nunca crean productos: si no existe devuelve domain.ErrProductNotFound.
func (s *MergeService) FindOfferProduct(ctx context.Context, companyID string, offer document.Offer) (*entity.Product, error) {
	p, err := s.repos.Products.FindByERPIdentity(ctx, companyID, offer.ProductID, offer.CharacteristicID, offer.Number)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

// UpsertPrice guarda el precio completo de (tipo de precio, producto).
func (s *MergeService) UpsertPrice(ctx context.Context, priceTypeID, productID string, value decimal.Decimal) error {
	return s.repos.Prices.Upsert(ctx, &entity.Price{
		PriceTypeID: priceTypeID,
		ProductID:   productID,
		Value:       value,
		UpdatedAt:   s.now(),
	})
}

// UpsertBalance guarda la existencia completa de (almacén, producto).
func (s *MergeService) UpsertBalance(ctx context.Context, stockID, productID string, quantity decimal.Decimal) error {
	return s.repos.Balances.Upsert(ctx, &entity.StockBalance{
		StockID:   stockID,
		ProductID: productID,
		Quantity:  quantity,
		UpdatedAt: s.now(),
	})
}
