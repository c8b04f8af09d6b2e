package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/catalog-exchange/internal/domain/entity"
	"github.com/jhoicas/catalog-exchange/internal/domain/repository"
)

var _ repository.PriceRepository = (*PriceRepo)(nil)

// PriceRepo implementación de PriceRepository sobre PostgreSQL.
type PriceRepo struct {
	q Querier
}

// NewPriceRepository construye el adaptador de precios.
func NewPriceRepository(q Querier) *PriceRepo {
	return &PriceRepo{q: q}
}

// Upsert inserta o actualiza el precio (por tipo de precio y producto).
func (r *PriceRepo) Upsert(ctx context.Context, p *entity.Price) error {
	query := `
		INSERT INTO prices (price_type_id, product_id, value, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (price_type_id, product_id)
		DO UPDATE SET value = EXCLUDED.value, updated_at = now()`
	if _, err := r.q.Exec(ctx, query, p.PriceTypeID, p.ProductID, p.Value); err != nil {
		return fmt.Errorf("upsert price: %w", err)
	}
	return nil
}

// ListByProduct precios del producto en todos los tipos de precio.
func (r *PriceRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.Price, error) {
	rows, err := r.q.Query(ctx, `
		SELECT price_type_id, product_id, value, updated_at
		FROM prices WHERE product_id = $1`, productID)
	if err != nil {
		return nil, fmt.Errorf("list prices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Price
	for rows.Next() {
		var p entity.Price
		if err := rows.Scan(&p.PriceTypeID, &p.ProductID, &p.Value, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan price: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
