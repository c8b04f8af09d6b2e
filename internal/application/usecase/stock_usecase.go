package usecase

import (
	"context"

	"github.com/jhoicas/catalog-exchange/internal/application/dto"
	"github.com/jhoicas/catalog-exchange/internal/domain/repository"
)

// StockUseCase consulta de almacenes y tipos de precio declarados por el ERP.
type StockUseCase struct {
	stocks     repository.StockRepository
	priceTypes repository.PriceTypeRepository
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(stocks repository.StockRepository, priceTypes repository.PriceTypeRepository) *StockUseCase {
	return &StockUseCase{stocks: stocks, priceTypes: priceTypes}
}

// ListStocks lista los almacenes de la empresa.
func (uc *StockUseCase) ListStocks(ctx context.Context, companyID string) (*dto.StockListResponse, error) {
	list, err := uc.stocks.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockResponse, 0, len(list))
	for _, s := range list {
		items = append(items, dto.StockResponse{
			ID:         s.ID,
			ExternalID: s.ExternalID,
			Name:       s.Name,
			CreatedAt:  s.CreatedAt,
			UpdatedAt:  s.UpdatedAt,
		})
	}
	return &dto.StockListResponse{Items: items}, nil
}

// ListPriceTypes lista los tipos de precio de la empresa.
func (uc *StockUseCase) ListPriceTypes(ctx context.Context, companyID string) (*dto.PriceTypeListResponse, error) {
	list, err := uc.priceTypes.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PriceTypeResponse, 0, len(list))
	for _, pt := range list {
		items = append(items, dto.PriceTypeResponse{
			ID:         pt.ID,
			ExternalID: pt.ExternalID,
			Name:       pt.Name,
			Currency:   pt.Currency,
			CreatedAt:  pt.CreatedAt,
			UpdatedAt:  pt.UpdatedAt,
		})
	}
	return &dto.PriceTypeListResponse{Items: items}, nil
}
