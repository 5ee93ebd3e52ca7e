package invoice

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice is a billing document owned by a user. Total is derived from the
// item subtotals and is never set by callers.
type Invoice struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	CustomerID uuid.UUID
	Number     string
	DueDate    time.Time
	Total      decimal.Decimal
	Items      []Item
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}

// Item is a single priced line within an invoice. It has no lifecycle of its
// own: items are always written and replaced together with their invoice.
type Item struct {
	ID        uuid.UUID
	InvoiceID uuid.UUID
	Name      string
	Qty       int
	Price     decimal.Decimal
	Subtotal  decimal.Decimal
}
