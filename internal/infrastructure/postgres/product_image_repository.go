package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/catalog-exchange/internal/domain/entity"
	"github.com/jhoicas/catalog-exchange/internal/domain/repository"
)

var _ repository.ProductImageRepository = (*ProductImageRepo)(nil)

// ProductImageRepo implementación de ProductImageRepository sobre PostgreSQL.
type ProductImageRepo struct {
	q Querier
}

// NewProductImageRepository construye el adaptador de imágenes de producto.
func NewProductImageRepository(q Querier) *ProductImageRepo {
	return &ProductImageRepo{q: q}
}

// ListCommerceML devuelve las imágenes del producto que vinieron del ERP.
func (r *ProductImageRepo) ListCommerceML(ctx context.Context, productID string) ([]*entity.ProductImage, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, product_id, url, commerce_ml, created_at
		FROM product_images WHERE product_id = $1 AND commerce_ml ORDER BY created_at ASC`, productID)
	if err != nil {
		return nil, fmt.Errorf("list product images: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductImage
	for rows.Next() {
		var img entity.ProductImage
		if err := rows.Scan(&img.ID, &img.ProductID, &img.URL, &img.CommerceML, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan product image: %w", err)
		}
		list = append(list, &img)
	}
	return list, rows.Err()
}

// Create persiste una imagen.
func (r *ProductImageRepo) Create(ctx context.Context, img *entity.ProductImage) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO product_images (id, product_id, url, commerce_ml, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET url = EXCLUDED.url`,
		img.ID, img.ProductID, img.URL, img.CommerceML, img.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert product image: %w", err)
	}
	return nil
}

// Delete elimina una imagen por ID.
func (r *ProductImageRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM product_images WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete product image: %w", err)
	}
	return nil
}
