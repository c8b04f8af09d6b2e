package entity

import "time"

// PriceType tipo de precio declarado por el ERP (ТипЦены), p. ej. mayorista o minorista.
type PriceType struct {
	ID         string
	CompanyID  string
	ExternalID string
	Name       string
	Currency   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
