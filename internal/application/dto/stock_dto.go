package dto

import "time"

// StockResponse salida de un almacén declarado por el ERP.
type StockResponse struct {
	ID         string    `json:"id"`
	ExternalID string    `json:"external_id"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// StockListResponse lista de almacenes.
type StockListResponse struct {
	Items []StockResponse `json:"items"`
}

// PriceTypeResponse salida de un tipo de precio.
type PriceTypeResponse struct {
	ID         string    `json:"id"`
	ExternalID string    `json:"external_id"`
	Name       string    `json:"name"`
	Currency   string    `json:"currency"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// PriceTypeListResponse lista de tipos de precio.
type PriceTypeListResponse struct {
	Items []PriceTypeResponse `json:"items"`
}
