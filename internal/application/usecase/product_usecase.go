package usecase

import (
	"context"

	"github.com/jhoicas/catalog-exchange/internal/application/catalog"
	"github.com/jhoicas/catalog-exchange/internal/application/dto"
	"github.com/jhoicas/catalog-exchange/internal/domain/entity"
)

// ProductUseCase consulta del catálogo importado. Los productos solo se escriben
// desde el intercambio con el ERP.
type ProductUseCase struct {
	repos catalog.Repositories
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repos catalog.Repositories) *ProductUseCase {
	return &ProductUseCase{repos: repos}
}

// List lista productos por empresa con paginación (sin los marcados como borrados).
func (uc *ProductUseCase) List(ctx context.Context, companyID string, limit, offset int) (*dto.ProductListResponse, error) {
	list, err := uc.repos.Products.ListByCompany(ctx, companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.repos.Products.CountByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: total},
	}, nil
}

// GetByID obtiene un producto de la empresa con imágenes, precios y existencias.
// Devuelve (nil, nil) si no existe, pertenece a otra empresa o está borrado.
func (uc *ProductUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.ProductDetailResponse, error) {
	p, err := uc.repos.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil || p.CompanyID != companyID || p.Deleted {
		return nil, nil
	}

	images, err := uc.repos.Images.ListCommerceML(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	prices, err := uc.repos.Prices.ListByProduct(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	balances, err := uc.repos.Balances.ListByProduct(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	priceTypes, err := uc.repos.PriceTypes.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	stocks, err := uc.repos.Stocks.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	out := &dto.ProductDetailResponse{
		ProductResponse: toProductResponse(p),
		Images:          make([]dto.ProductImageResponse, 0, len(images)),
		Prices:          make([]dto.ProductPriceResponse, 0, len(prices)),
		Balances:        make([]dto.ProductBalanceResponse, 0, len(balances)),
	}
	for _, img := range images {
		out.Images = append(out.Images, dto.ProductImageResponse{ID: img.ID, URL: img.URL})
	}

	ptByID := make(map[string]*entity.PriceType, len(priceTypes))
	for _, pt := range priceTypes {
		ptByID[pt.ID] = pt
	}
	for _, pr := range prices {
		item := dto.ProductPriceResponse{PriceTypeID: pr.PriceTypeID, Value: pr.Value}
		if pt, ok := ptByID[pr.PriceTypeID]; ok {
			item.PriceTypeName = pt.Name
			item.Currency = pt.Currency
		}
		out.Prices = append(out.Prices, item)
	}

	stockByID := make(map[string]string, len(stocks))
	for _, s := range stocks {
		stockByID[s.ID] = s.Name
	}
	for _, b := range balances {
		out.Balances = append(out.Balances, dto.ProductBalanceResponse{
			StockID:   b.StockID,
			StockName: stockByID[b.StockID],
			Quantity:  b.Quantity,
		})
	}
	return out, nil
}

func toProductResponse(p *entity.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:               p.ID,
		CompanyID:        p.CompanyID,
		ExternalID:       p.ExternalID,
		ProductID:        p.ProductID,
		CharacteristicID: p.CharacteristicID,
		Name:             p.Name,
		Number:           p.Number,
		Brand:            p.Brand,
		BrandNumber:      p.BrandNumber,
		Unit:             p.Unit,
		Description:      p.Description,
		Archive:          p.Archive,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}
