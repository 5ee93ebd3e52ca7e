package invoice

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrInvalidPrice    = errors.New("price must not be negative")
)

// Subtotal computes qty * price with exact decimal arithmetic.
func Subtotal(qty int, price decimal.Decimal) (decimal.Decimal, error) {
	if qty < 1 {
		return decimal.Zero, ErrInvalidQuantity
	}

	if price.IsNegative() {
		return decimal.Zero, ErrInvalidPrice
	}

	return price.Mul(decimal.NewFromInt(int64(qty))), nil
}

// Total sums the subtotals of the given items. Callers are expected to have
// rejected empty item lists before computing a total.
func Total(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal)
	}

	return total
}
