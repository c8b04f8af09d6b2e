// Package spreadsheet decodifica los documentos tabulares (.xlsx) de productos, precios y
// existencias a las mismas estructuras que produce el decodificador CommerceML.
package spreadsheet

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/catalog-exchange/internal/domain"
	"github.com/jhoicas/catalog-exchange/internal/domain/document"
)

// Columnas reconocidas (cabecera de la primera hoja, sin distinguir mayúsculas).
const (
	colID          = "id"
	colSKU         = "sku"
	colName        = "name"
	colDescription = "description"
	colBrand       = "brand"
	colBrandNumber = "brand_number"
	colUnit        = "unit"
	colPriceTypeID = "price_type_id"
	colPriceType   = "price_type"
	colCurrency    = "currency"
	colPrice       = "price"
	colStockID     = "stock_id"
	colStock       = "stock"
	colQuantity    = "quantity"
)

// Decoder lee hojas de cálculo de intercambio.
type Decoder struct{}

// NewDecoder crea el decodificador.
func NewDecoder() *Decoder { return &Decoder{} }

// sheet filas de datos de la primera hoja con acceso por nombre de columna.
type sheet struct {
	header map[string]int
	rows   [][]string
}

func (s *sheet) has(col string) bool {
	_, ok := s.header[col]
	return ok
}

func (s *sheet) cell(row []string, col string) string {
	i, ok := s.header[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func readSheet(r io.Reader, required ...string) (*sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("spreadsheet: abrir libro: %w: %v", domain.ErrInvalidDocument, err)
	}
	defer f.Close()

	name := f.GetSheetName(0)
	if name == "" {
		return nil, fmt.Errorf("spreadsheet: libro sin hojas: %w", domain.ErrInvalidDocument)
	}
	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("spreadsheet: leer filas: %w: %v", domain.ErrInvalidDocument, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("spreadsheet: hoja sin cabecera: %w", domain.ErrInvalidDocument)
	}
	s := &sheet{header: make(map[string]int, len(rows[0]))}
	for i, h := range rows[0] {
		s.header[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range required {
		if !s.has(col) {
			return nil, fmt.Errorf("spreadsheet: falta la columna %q: %w", col, domain.ErrInvalidDocument)
		}
	}
	for _, row := range rows[1:] {
		if !isEmptyRow(row) {
			s.rows = append(s.rows, row)
		}
	}
	return s, nil
}

func isEmptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// DecodeProducts lee una hoja de productos.
func (d *Decoder) DecodeProducts(r io.Reader) (*document.Catalog, error) {
	s, err := readSheet(r, colID, colName)
	if err != nil {
		return nil, err
	}
	cat := &document.Catalog{Products: make([]document.Product, 0, len(s.rows))}
	for _, row := range s.rows {
		externalID := s.cell(row, colID)
		productID, characteristicID := document.SplitID(externalID)
		cat.Products = append(cat.Products, document.Product{
			ExternalID:       externalID,
			ProductID:        productID,
			CharacteristicID: characteristicID,
			Name:             s.cell(row, colName),
			Number:           s.cell(row, colSKU),
			Description:      s.cell(row, colDescription),
			Brand:            s.cell(row, colBrand),
			BrandNumber:      s.cell(row, colBrandNumber),
			Unit:             s.cell(row, colUnit),
			Images:           []string{},
		})
	}
	return cat, nil
}

// DecodePrices lee una hoja de precios; los tipos de precio se declaran a partir de las filas.
func (d *Decoder) DecodePrices(r io.Reader) (*document.Offers, error) {
	s, err := readSheet(r, colID, colPriceTypeID, colPrice)
	if err != nil {
		return nil, err
	}
	pkg := emptyPackage()
	seen := map[string]bool{}
	for _, row := range s.rows {
		typeID := s.cell(row, colPriceTypeID)
		if typeID != "" && !seen[typeID] {
			seen[typeID] = true
			pkg.PriceTypes = append(pkg.PriceTypes, document.PriceType{
				ExternalID: typeID,
				Name:       s.cell(row, colPriceType),
				Currency:   s.cell(row, colCurrency),
			})
		}
		o := offerFromRow(s, row)
		amount, err := document.ParseAmount(s.cell(row, colPrice))
		if err != nil {
			o.Rejected = append(o.Rejected, fmt.Sprintf("price %s: %v", typeID, err))
		} else {
			o.Prices = append(o.Prices, document.Price{PriceTypeID: typeID, Amount: amount})
		}
		pkg.Offers = append(pkg.Offers, o)
	}
	return &document.Offers{Packages: []document.OfferPackage{pkg}}, nil
}

// DecodeBalances lee una hoja de existencias; los almacenes se declaran a partir de las filas.
func (d *Decoder) DecodeBalances(r io.Reader) (*document.Offers, error) {
	s, err := readSheet(r, colID, colStockID, colQuantity)
	if err != nil {
		return nil, err
	}
	pkg := emptyPackage()
	seen := map[string]bool{}
	for _, row := range s.rows {
		stockID := s.cell(row, colStockID)
		if stockID != "" && !seen[stockID] {
			seen[stockID] = true
			pkg.Stocks = append(pkg.Stocks, document.Stock{ExternalID: stockID, Name: s.cell(row, colStock)})
		}
		o := offerFromRow(s, row)
		qty, err := document.ParseAmount(s.cell(row, colQuantity))
		if err != nil {
			o.Rejected = append(o.Rejected, fmt.Sprintf("stock %s: %v", stockID, err))
		} else {
			o.Balances = append(o.Balances, document.Balance{StockID: stockID, Quantity: qty})
		}
		pkg.Offers = append(pkg.Offers, o)
	}
	return &document.Offers{Packages: []document.OfferPackage{pkg}}, nil
}

func emptyPackage() document.OfferPackage {
	return document.OfferPackage{
		Stocks:     []document.Stock{},
		PriceTypes: []document.PriceType{},
		Offers:     []document.Offer{},
	}
}

func offerFromRow(s *sheet, row []string) document.Offer {
	externalID := s.cell(row, colID)
	productID, characteristicID := document.SplitID(externalID)
	return document.Offer{
		ExternalID:       externalID,
		ProductID:        productID,
		CharacteristicID: characteristicID,
		Number:           s.cell(row, colSKU),
		Balances:         []document.Balance{},
		Prices:           []document.Price{},
		Rejected:         []string{},
	}
}
