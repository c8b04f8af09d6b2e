package entity

import "time"

// Product representa un producto del catálogo de una empresa.
// ExternalID es el Ид completo del ERP; ProductID y CharacteristicID son sus dos mitades
// (producto base y variante). Se resuelve por ExternalID y, si no hay, por Number.
type Product struct {
	ID               string
	CompanyID        string
	ExternalID       string
	ProductID        string
	CharacteristicID string
	Name             string
	Number           string // SKU (Артикул)
	Brand            string
	BrandNumber      string
	Unit             string
	Description      string
	Archive          bool
	Deleted          bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsVariant indica si el producto es una característica (sub-variante) de otro.
func (p *Product) IsVariant() bool {
	return p.CharacteristicID != ""
}
