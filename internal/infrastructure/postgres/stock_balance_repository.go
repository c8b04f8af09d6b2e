package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/catalog-exchange/internal/domain/entity"
	"github.com/jhoicas/catalog-exchange/internal/domain/repository"
)

var _ repository.StockBalanceRepository = (*StockBalanceRepo)(nil)

// StockBalanceRepo implementación de StockBalanceRepository sobre PostgreSQL.
type StockBalanceRepo struct {
	q Querier
}

// NewStockBalanceRepository construye el adaptador de existencias.
func NewStockBalanceRepository(q Querier) *StockBalanceRepo {
	return &StockBalanceRepo{q: q}
}

// Upsert inserta o actualiza la cantidad en existencia (por almacén y producto).
func (r *StockBalanceRepo) Upsert(ctx context.Context, b *entity.StockBalance) error {
	query := `
		INSERT INTO stock_balances (stock_id, product_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (stock_id, product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	if _, err := r.q.Exec(ctx, query, b.StockID, b.ProductID, b.Quantity); err != nil {
		return fmt.Errorf("upsert stock balance: %w", err)
	}
	return nil
}

// ListByProduct existencias del producto en todos los almacenes.
func (r *StockBalanceRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.StockBalance, error) {
	rows, err := r.q.Query(ctx, `
		SELECT stock_id, product_id, quantity, updated_at
		FROM stock_balances WHERE product_id = $1`, productID)
	if err != nil {
		return nil, fmt.Errorf("list stock balances: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockBalance
	for rows.Next() {
		var b entity.StockBalance
		if err := rows.Scan(&b.StockID, &b.ProductID, &b.Quantity, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock balance: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}
