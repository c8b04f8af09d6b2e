package repository

import (
	"context"

	"github.com/jhoicas/catalog-exchange/internal/domain/entity"
)

// PriceTypeRepository define el puerto de persistencia para PriceType.
type PriceTypeRepository interface {
	// Upsert crea o actualiza por (CompanyID, ExternalID) y deja en pt.ID el id persistido.
	Upsert(ctx context.Context, pt *entity.PriceType) error
	FindByExternalID(ctx context.Context, companyID, externalID string) (*entity.PriceType, error)
	ListByCompany(ctx context.Context, companyID string) ([]*entity.PriceType, error)
}
