package invoice_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpereira/invoicer/internal/invoice"
)

func TestSubtotal(t *testing.T) {
	type testCase struct {
		name    string
		qty     int
		price   string
		want    string
		wantErr error
	}

	tests := []testCase{
		{name: "Simple", qty: 2, price: "100.00", want: "200.00"},
		{name: "SingleUnit", qty: 1, price: "50.00", want: "50.00"},
		{name: "ZeroPrice", qty: 3, price: "0", want: "0"},
		{name: "DecimalPrecision", qty: 3, price: "0.10", want: "0.30"},
		{name: "ZeroQty", qty: 0, price: "10.00", wantErr: invoice.ErrInvalidQuantity},
		{name: "NegativeQty", qty: -1, price: "10.00", wantErr: invoice.ErrInvalidQuantity},
		{name: "NegativePrice", qty: 1, price: "-0.01", wantErr: invoice.ErrInvalidPrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := invoice.Subtotal(tt.qty, decimal.RequireFromString(tt.price))

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"got %s, want %s", got, tt.want)
		})
	}
}

func TestTotal(t *testing.T) {
	items := []invoice.Item{
		{Subtotal: decimal.RequireFromString("200.00")},
		{Subtotal: decimal.RequireFromString("50.00")},
	}

	total := invoice.Total(items)
	assert.True(t, total.Equal(decimal.RequireFromString("250.00")), "got %s", total)
}

// Summing many small decimal fractions must not drift the way binary floats do.
func TestTotal_NoFloatDrift(t *testing.T) {
	var items []invoice.Item
	for range 10 {
		items = append(items, invoice.Item{Subtotal: decimal.RequireFromString("0.10")})
	}

	total := invoice.Total(items)
	assert.True(t, total.Equal(decimal.RequireFromString("1.00")), "got %s", total)
}
