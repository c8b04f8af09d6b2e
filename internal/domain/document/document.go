// Package document contiene las estructuras intermedias, ya tipadas, de los documentos de
// intercambio (CommerceML y hojas de cálculo). Los decodificadores aplican aquí los valores por
// defecto: todo campo opcional ausente llega como cadena vacía o slice vacío, nunca como nil.
package document

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// IDSeparator separa el Ид del producto base del Ид de su característica.
const IDSeparator = "#"

// SplitID divide un Ид del ERP en producto base y característica (opcional).
func SplitID(externalID string) (productID, characteristicID string) {
	base, char, _ := strings.Cut(strings.TrimSpace(externalID), IDSeparator)
	return base, char
}

// ParseAmount interpreta un importe o cantidad del ERP: acepta coma decimal y espacios como
// separador de miles. La cadena vacía es cero.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0':
			return -1
		case ',':
			return '.'
		}
		return r
	}, strings.TrimSpace(s))
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("importe inválido %q", s)
	}
	return d, nil
}

// Catalog documento de catálogo (import.xml o productos tabulares). Un import.xml puede traer
// varios Каталог; sus productos se aplanan y cada uno conserva el modo de su catálogo.
type Catalog struct {
	// OnlyChanges indica si algún catálogo del documento es parcial.
	OnlyChanges bool
	Products    []Product
}

// Product nodo Товар ya proyectado.
type Product struct {
	ExternalID       string `validate:"required"`
	ProductID        string `validate:"required"`
	CharacteristicID string
	Name             string `validate:"required"`
	Number           string
	Description      string
	Brand            string
	BrandNumber      string
	Unit             string
	Archive          bool
	Images           []string
	// OnlyChanges el catálogo de origen solo trae cambios.
	OnlyChanges bool
}

// Offers documento de ofertas (offers.xml o precios/existencias tabulares).
type Offers struct {
	OnlyChanges bool
	Packages    []OfferPackage
}

// OfferPackage nodo ПакетПредложений: declara sus almacenes y tipos de precio.
type OfferPackage struct {
	Stocks     []Stock
	PriceTypes []PriceType
	Offers     []Offer
}

// Stock nodo Склад declarado en el paquete.
type Stock struct {
	ExternalID string `validate:"required"`
	Name       string
}

// PriceType nodo ТипЦены declarado en el paquete.
type PriceType struct {
	ExternalID string `validate:"required"`
	Name       string
	Currency   string
}

// Offer nodo Предложение.
type Offer struct {
	ExternalID       string `validate:"required"`
	ProductID        string `validate:"required"`
	CharacteristicID string
	Number           string
	Name             string
	Balances         []Balance
	Prices           []Price
	// Rejected pares almacén/precio descartados al decodificar (importe ilegible).
	Rejected []string
}

// Balance par almacén/cantidad de una oferta.
type Balance struct {
	StockID  string
	Quantity decimal.Decimal
}

// Price par tipo de precio/importe de una oferta.
type Price struct {
	PriceTypeID string
	Amount      decimal.Decimal
}
