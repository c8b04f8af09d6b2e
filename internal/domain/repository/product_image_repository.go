package repository

import (
	"context"

	"github.com/jhoicas/catalog-exchange/internal/domain/entity"
)

// ProductImageRepository define el puerto de persistencia para ProductImage.
type ProductImageRepository interface {
	ListCommerceML(ctx context.Context, productID string) ([]*entity.ProductImage, error)
	Create(ctx context.Context, image *entity.ProductImage) error
	Delete(ctx context.Context, id string) error
}
