package spreadsheet_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/catalog-exchange/internal/domain"
	"github.com/jhoicas/catalog-exchange/internal/infrastructure/spreadsheet"
)

// buildBook arma un libro en memoria con una sola hoja.
func buildBook(t *testing.T, rows ...[]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestDecodeProducts(t *testing.T) {
	book := buildBook(t,
		[]interface{}{"ID", "SKU", "Name", "Brand", "Unit"},
		[]interface{}{"A1", "SKU-1", "Martillo", "Acme", "pcs"},
		[]interface{}{"", "", "", "", ""},
		[]interface{}{"A1#red", "SKU-R", "Martillo rojo", "", ""},
	)
	cat, err := spreadsheet.NewDecoder().DecodeProducts(book)
	require.NoError(t, err)
	require.Len(t, cat.Products, 2, "las filas vacías se ignoran")
	assert.False(t, cat.OnlyChanges)

	assert.Equal(t, "A1", cat.Products[0].ProductID)
	assert.Equal(t, "SKU-1", cat.Products[0].Number)
	assert.Equal(t, "Acme", cat.Products[0].Brand)
	assert.Equal(t, "pcs", cat.Products[0].Unit)
	assert.Equal(t, "red", cat.Products[1].CharacteristicID)
}

func TestDecodeProducts_FaltaColumna(t *testing.T) {
	book := buildBook(t, []interface{}{"sku", "name"}, []interface{}{"S", "N"})
	_, err := spreadsheet.NewDecoder().DecodeProducts(book)
	assert.ErrorIs(t, err, domain.ErrInvalidDocument)
}

func TestDecodePrices_DeclaraTiposDePrecio(t *testing.T) {
	book := buildBook(t,
		[]interface{}{"id", "sku", "price_type_id", "price_type", "currency", "price"},
		[]interface{}{"A1", "SKU-1", "P1", "Retail", "USD", "10,5"},
		[]interface{}{"A2", "SKU-2", "P1", "Retail", "USD", "x"},
		[]interface{}{"A2", "SKU-2", "P2", "Wholesale", "USD", "8"},
	)
	offers, err := spreadsheet.NewDecoder().DecodePrices(book)
	require.NoError(t, err)
	require.Len(t, offers.Packages, 1)

	pkg := offers.Packages[0]
	require.Len(t, pkg.PriceTypes, 2)
	assert.Equal(t, "Retail", pkg.PriceTypes[0].Name)
	require.Len(t, pkg.Offers, 3)
	assert.True(t, pkg.Offers[0].Prices[0].Amount.Equal(decimal.RequireFromString("10.5")))
	assert.Empty(t, pkg.Offers[1].Prices)
	assert.Len(t, pkg.Offers[1].Rejected, 1)
}

func TestDecodeBalances_DeclaraAlmacenes(t *testing.T) {
	book := buildBook(t,
		[]interface{}{"id", "stock_id", "stock", "quantity"},
		[]interface{}{"A1", "S1", "Central", "4"},
		[]interface{}{"A2", "S1", "Central", "0"},
	)
	offers, err := spreadsheet.NewDecoder().DecodeBalances(book)
	require.NoError(t, err)
	pkg := offers.Packages[0]
	require.Len(t, pkg.Stocks, 1)
	assert.Equal(t, "Central", pkg.Stocks[0].Name)
	require.Len(t, pkg.Offers, 2)
	assert.True(t, pkg.Offers[0].Balances[0].Quantity.Equal(decimal.NewFromInt(4)))
}

func TestDecode_NoEsUnLibro(t *testing.T) {
	_, err := spreadsheet.NewDecoder().DecodeProducts(strings.NewReader("no es xlsx"))
	assert.ErrorIs(t, err, domain.ErrInvalidDocument)
}
