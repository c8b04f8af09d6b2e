package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/catalog-exchange/internal/application/catalog"
)

// Ensure TxRunner implements catalog.TxRunner.
var _ catalog.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// NewCatalogRepositories agrupa los repositorios del catálogo sobre un Querier (pool o tx).
func NewCatalogRepositories(q Querier) catalog.Repositories {
	return catalog.Repositories{
		Products:   NewProductRepository(q),
		Images:     NewProductImageRepository(q),
		Stocks:     NewStockRepository(q),
		PriceTypes: NewPriceTypeRepository(q),
		Prices:     NewPriceRepository(q),
		Balances:   NewStockBalanceRepository(q),
	}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos catalog.Repositories) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewCatalogRepositories(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
