package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Price precio de un producto para un tipo de precio. Clave compuesta (PriceTypeID, ProductID).
type Price struct {
	PriceTypeID string
	ProductID   string
	Value       decimal.Decimal
	UpdatedAt   time.Time
}
