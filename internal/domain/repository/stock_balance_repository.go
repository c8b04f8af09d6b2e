package repository

import (
	"context"

	"github.com/jhoicas/catalog-exchange/internal/domain/entity"
)

// StockBalanceRepository define el puerto de persistencia para StockBalance (clave compuesta).
type StockBalanceRepository interface {
	Upsert(ctx context.Context, balance *entity.StockBalance) error
	ListByProduct(ctx context.Context, productID string) ([]*entity.StockBalance, error)
}
