package repository

import (
	"context"

	"github.com/jhoicas/catalog-exchange/internal/domain/entity"
)

// PriceRepository define el puerto de persistencia para Price (clave compuesta).
type PriceRepository interface {
	Upsert(ctx context.Context, price *entity.Price) error
	ListByProduct(ctx context.Context, productID string) ([]*entity.Price, error)
}
