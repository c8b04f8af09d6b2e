package repository

import (
	"context"

	"github.com/jhoicas/catalog-exchange/internal/domain/entity"
)

// StockRepository define el puerto de persistencia para Stock (almacenes del ERP).
type StockRepository interface {
	// Upsert crea o actualiza por (CompanyID, ExternalID) y deja en stock.ID el id persistido.
	Upsert(ctx context.Context, stock *entity.Stock) error
	FindByExternalID(ctx context.Context, companyID, externalID string) (*entity.Stock, error)
	ListByCompany(ctx context.Context, companyID string) ([]*entity.Stock, error)
}
