package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductResponse salida de un producto importado del ERP.
type ProductResponse struct {
	ID               string    `json:"id"`
	CompanyID        string    `json:"company_id"`
	ExternalID       string    `json:"external_id"`
	ProductID        string    `json:"product_id"`
	CharacteristicID string    `json:"characteristic_id,omitempty"`
	Name             string    `json:"name"`
	Number           string    `json:"number"`
	Brand            string    `json:"brand"`
	BrandNumber      string    `json:"brand_number"`
	Unit             string    `json:"unit"`
	Description      string    `json:"description"`
	Archive          bool      `json:"archive"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ProductImageResponse imagen de un producto.
type ProductImageResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// ProductPriceResponse precio de un producto para un tipo de precio.
type ProductPriceResponse struct {
	PriceTypeID   string          `json:"price_type_id"`
	PriceTypeName string          `json:"price_type_name"`
	Currency      string          `json:"currency"`
	Value         decimal.Decimal `json:"value"`
}

// ProductBalanceResponse existencias de un producto en un almacén.
type ProductBalanceResponse struct {
	StockID   string          `json:"stock_id"`
	StockName string          `json:"stock_name"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// ProductDetailResponse producto con imágenes, precios y existencias.
type ProductDetailResponse struct {
	ProductResponse
	Images   []ProductImageResponse   `json:"images"`
	Prices   []ProductPriceResponse   `json:"prices"`
	Balances []ProductBalanceResponse `json:"balances"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
