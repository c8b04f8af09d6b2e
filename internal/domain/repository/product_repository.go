package repository

import (
	"context"

	"github.com/jhoicas/catalog-exchange/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Las búsquedas devuelven (nil, nil) cuando no hay fila.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	Update(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	FindByExternalID(ctx context.Context, companyID, externalID string) (*entity.Product, error)
	FindByNumber(ctx context.Context, companyID, number string) (*entity.Product, error)
	// FindByERPIdentity busca por Ид base, característica y SKU (resolución de ofertas).
	FindByERPIdentity(ctx context.Context, companyID, productID, characteristicID, number string) (*entity.Product, error)
	CountByCompany(ctx context.Context, companyID string) (int, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Product, error)
}
