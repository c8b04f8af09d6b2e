package entity

import "time"

// Stock representa un almacén declarado por el ERP (Склад).
type Stock struct {
	ID         string
	CompanyID  string
	ExternalID string
	Name       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
