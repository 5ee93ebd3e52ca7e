package invoice

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mpereira/invoicer/internal/invoice"
)

type invoiceResponse struct {
	ID         uuid.UUID       `json:"id"`
	CustomerID uuid.UUID       `json:"customer_id"`
	Number     string          `json:"invoice_number"`
	DueDate    string          `json:"due_date"`
	Total      decimal.Decimal `json:"total"`
	Items      []itemResponse  `json:"items"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  *time.Time      `json:"updated_at,omitempty"`
}

type itemResponse struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Qty      int             `json:"qty"`
	Price    decimal.Decimal `json:"price"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type pageResponse struct {
	Data    []invoiceResponse `json:"data"`
	Page    int               `json:"page"`
	PerPage int               `json:"per_page"`
	Total   int               `json:"total"`
}

func toResponse(inv *invoice.Invoice) invoiceResponse {
	items := make([]itemResponse, len(inv.Items))
	for i, item := range inv.Items {
		items[i] = itemResponse{
			ID:       item.ID,
			Name:     item.Name,
			Qty:      item.Qty,
			Price:    item.Price,
			Subtotal: item.Subtotal,
		}
	}

	return invoiceResponse{
		ID:         inv.ID,
		CustomerID: inv.CustomerID,
		Number:     inv.Number,
		DueDate:    inv.DueDate.Format(time.DateOnly),
		Total:      inv.Total,
		Items:      items,
		CreatedAt:  inv.CreatedAt,
		UpdatedAt:  inv.UpdatedAt,
	}
}

func toPageResponse(page *invoice.Page) pageResponse {
	data := make([]invoiceResponse, len(page.Invoices))
	for i, inv := range page.Invoices {
		data[i] = toResponse(inv)
	}

	return pageResponse{
		Data:    data,
		Page:    page.Page,
		PerPage: page.PerPage,
		Total:   page.Total,
	}
}
