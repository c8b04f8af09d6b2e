package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/catalog-exchange/internal/domain"
	"github.com/jhoicas/catalog-exchange/internal/domain/entity"
	"github.com/jhoicas/catalog-exchange/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, company_id, coalesce(external_id, ''), product_id, characteristic_id, name, number,
	brand, brand_number, unit, description, archive, deleted, created_at, updated_at`

// Create persiste un nuevo producto. Un external_id vacío se guarda como NULL para no chocar con el índice único.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (id, company_id, external_id, product_id, characteristic_id, name, number,
			brand, brand_number, unit, description, archive, deleted, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.CompanyID, p.ExternalID, p.ProductID, p.CharacteristicID, p.Name, p.Number,
		p.Brand, p.BrandNumber, p.Unit, p.Description, p.Archive, p.Deleted, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// Update sobrescribe los campos que gestiona el ERP. No toca deleted (borrado lógico fuera del intercambio).
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET external_id = NULLIF($2, ''), product_id = $3, characteristic_id = $4, name = $5,
			number = $6, brand = $7, brand_number = $8, unit = $9, description = $10, archive = $11, updated_at = $12
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.ExternalID, p.ProductID, p.CharacteristicID, p.Name,
		p.Number, p.Brand, p.BrandNumber, p.Unit, p.Description, p.Archive, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.findOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// FindByExternalID busca por Ид completo del ERP dentro de la empresa.
func (r *ProductRepo) FindByExternalID(ctx context.Context, companyID, externalID string) (*entity.Product, error) {
	if externalID == "" {
		return nil, nil
	}
	return r.findOne(ctx, `SELECT `+productColumns+` FROM products WHERE company_id = $1 AND external_id = $2`,
		companyID, externalID)
}

// FindByNumber busca por SKU dentro de la empresa (el más antiguo si hay varios).
func (r *ProductRepo) FindByNumber(ctx context.Context, companyID, number string) (*entity.Product, error) {
	if number == "" {
		return nil, nil
	}
	return r.findOne(ctx, `SELECT `+productColumns+` FROM products WHERE company_id = $1 AND number = $2
		ORDER BY created_at ASC LIMIT 1`, companyID, number)
}

// FindByERPIdentity busca por Ид base, característica y SKU.
func (r *ProductRepo) FindByERPIdentity(ctx context.Context, companyID, productID, characteristicID, number string) (*entity.Product, error) {
	return r.findOne(ctx, `SELECT `+productColumns+` FROM products
		WHERE company_id = $1 AND product_id = $2 AND characteristic_id = $3 AND number = $4
		ORDER BY created_at ASC LIMIT 1`, companyID, productID, characteristicID, number)
}

// CountByCompany cuenta los productos de una empresa.
func (r *ProductRepo) CountByCompany(ctx context.Context, companyID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM products WHERE company_id = $1`, companyID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

func (r *ProductRepo) findOne(ctx context.Context, query string, args ...any) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&p.ID, &p.CompanyID, &p.ExternalID, &p.ProductID, &p.CharacteristicID, &p.Name, &p.Number,
		&p.Brand, &p.BrandNumber, &p.Unit, &p.Description, &p.Archive, &p.Deleted, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// ListByCompany lista los productos de una empresa con paginación (orden por nombre).
func (r *ProductRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Product, error) {
	limit, offset = normalizePage(limit, offset)
	rows, err := r.q.Query(ctx, `SELECT `+productColumns+` FROM products
		WHERE company_id = $1 AND NOT deleted
		ORDER BY name, created_at LIMIT $2 OFFSET $3`, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(
			&p.ID, &p.CompanyID, &p.ExternalID, &p.ProductID, &p.CharacteristicID, &p.Name, &p.Number,
			&p.Brand, &p.BrandNumber, &p.Unit, &p.Description, &p.Archive, &p.Deleted, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
