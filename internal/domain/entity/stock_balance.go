package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockBalance existencias de un producto en un almacén. Clave compuesta (StockID, ProductID).
type StockBalance struct {
	StockID   string
	ProductID string
	Quantity  decimal.Decimal
	UpdatedAt time.Time
}
