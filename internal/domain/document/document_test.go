package document_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalog-exchange/internal/domain/document"
)

func TestSplitID(t *testing.T) {
	cases := []struct {
		in, product, characteristic string
	}{
		{"A1", "A1", ""},
		{"A1#red", "A1", "red"},
		{" A1#red#x ", "A1", "red#x"},
		{"", "", ""},
	}
	for _, c := range cases {
		p, ch := document.SplitID(c.in)
		assert.Equal(t, c.product, p, c.in)
		assert.Equal(t, c.characteristic, ch, c.in)
	}
}

func TestParseAmount(t *testing.T) {
	d, err := document.ParseAmount("1 234,50")
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.RequireFromString("1234.5")))

	d, err = document.ParseAmount("")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = document.ParseAmount("doce")
	assert.Error(t, err)
}
