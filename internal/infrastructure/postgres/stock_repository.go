package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/catalog-exchange/internal/domain/entity"
	"github.com/jhoicas/catalog-exchange/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de almacenes. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Upsert inserta o actualiza el almacén por (company_id, external_id); el id existente se conserva.
func (r *StockRepo) Upsert(ctx context.Context, s *entity.Stock) error {
	query := `
		INSERT INTO stocks (id, company_id, external_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		ON CONFLICT (company_id, external_id)
		DO UPDATE SET name = EXCLUDED.name, updated_at = now()
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query, s.ID, s.CompanyID, s.ExternalID, s.Name).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

// FindByExternalID busca un almacén por Ид del ERP dentro de la empresa.
func (r *StockRepo) FindByExternalID(ctx context.Context, companyID, externalID string) (*entity.Stock, error) {
	var s entity.Stock
	err := r.q.QueryRow(ctx, `
		SELECT id, company_id, external_id, name, created_at, updated_at
		FROM stocks WHERE company_id = $1 AND external_id = $2`, companyID, externalID).Scan(
		&s.ID, &s.CompanyID, &s.ExternalID, &s.Name, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// ListByCompany lista los almacenes declarados por el ERP para la empresa.
func (r *StockRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.Stock, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, company_id, external_id, name, created_at, updated_at
		FROM stocks WHERE company_id = $1 ORDER BY name`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list stocks: %w", err)
	}
	defer rows.Close()
	var list []*entity.Stock
	for rows.Next() {
		var s entity.Stock
		if err := rows.Scan(&s.ID, &s.CompanyID, &s.ExternalID, &s.Name, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
