package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/catalog-exchange/internal/domain/entity"
	"github.com/jhoicas/catalog-exchange/internal/domain/repository"
)

var _ repository.PriceTypeRepository = (*PriceTypeRepo)(nil)

// PriceTypeRepo implementación de PriceTypeRepository sobre PostgreSQL.
type PriceTypeRepo struct {
	q Querier
}

// NewPriceTypeRepository construye el adaptador de tipos de precio.
func NewPriceTypeRepository(q Querier) *PriceTypeRepo {
	return &PriceTypeRepo{q: q}
}

// Upsert inserta o actualiza el tipo de precio por (company_id, external_id).
func (r *PriceTypeRepo) Upsert(ctx context.Context, pt *entity.PriceType) error {
	query := `
		INSERT INTO price_types (id, company_id, external_id, name, currency, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		ON CONFLICT (company_id, external_id)
		DO UPDATE SET name = EXCLUDED.name, currency = EXCLUDED.currency, updated_at = now()
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query, pt.ID, pt.CompanyID, pt.ExternalID, pt.Name, pt.Currency).
		Scan(&pt.ID, &pt.CreatedAt, &pt.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert price type: %w", err)
	}
	return nil
}

// FindByExternalID busca un tipo de precio por Ид del ERP dentro de la empresa.
func (r *PriceTypeRepo) FindByExternalID(ctx context.Context, companyID, externalID string) (*entity.PriceType, error) {
	var pt entity.PriceType
	err := r.q.QueryRow(ctx, `
		SELECT id, company_id, external_id, name, currency, created_at, updated_at
		FROM price_types WHERE company_id = $1 AND external_id = $2`, companyID, externalID).Scan(
		&pt.ID, &pt.CompanyID, &pt.ExternalID, &pt.Name, &pt.Currency, &pt.CreatedAt, &pt.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get price type: %w", err)
	}
	return &pt, nil
}

// ListByCompany lista los tipos de precio de la empresa.
func (r *PriceTypeRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.PriceType, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, company_id, external_id, name, currency, created_at, updated_at
		FROM price_types WHERE company_id = $1 ORDER BY name`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list price types: %w", err)
	}
	defer rows.Close()
	var list []*entity.PriceType
	for rows.Next() {
		var pt entity.PriceType
		if err := rows.Scan(&pt.ID, &pt.CompanyID, &pt.ExternalID, &pt.Name, &pt.Currency, &pt.CreatedAt, &pt.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan price type: %w", err)
		}
		list = append(list, &pt)
	}
	return list, rows.Err()
}
