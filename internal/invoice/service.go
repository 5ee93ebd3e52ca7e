package invoice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mpereira/invoicer/internal/validate"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=invoice
type Repository interface {
	// BeginCreate opens a transaction that serializes invoice creation
	// for the given calendar day, so the daily count and the insert act
	// as one atomic step.
	BeginCreate(ctx context.Context, day time.Time) (CreateTx, error)

	GetInvoice(ctx context.Context, id, ownerID uuid.UUID) (*Invoice, error)
	ListInvoices(ctx context.Context, ownerID uuid.UUID, filter ListFilter) ([]*Invoice, int, error)
	ReplaceItems(ctx context.Context, inv *Invoice) error
	DeleteInvoice(ctx context.Context, id uuid.UUID) error
}

type CreateTx interface {
	CountCreatedOn(ctx context.Context, day time.Time) (int, error)
	CreateInvoiceWithItems(ctx context.Context, inv *Invoice) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	CustomerID uuid.UUID    `json:"customer_id" validate:"required"`
	DueDate    string       `json:"due_date"    validate:"required,datetime=2006-01-02"`
	Items      []ItemParams `json:"items"       validate:"required,min=1,dive"`
}

type UpdateParams struct {
	DueDate string       `json:"due_date" validate:"required,datetime=2006-01-02"`
	Items   []ItemParams `json:"items"    validate:"required,min=1,dive"`
}

type ItemParams struct {
	Name  string          `json:"name"  validate:"required"`
	Qty   int             `json:"qty"   validate:"min=1"`
	Price decimal.Decimal `json:"price" validate:"min=0"`
}

type ListFilter struct {
	Page    int
	PerPage int
}

// Page is one page of invoices, most recent first.
type Page struct {
	Invoices []*Invoice
	Page     int
	PerPage  int
	Total    int
}

const (
	defaultPerPage = 10

	// Attempts per creation. The advisory lock makes number collisions
	// impossible between well-behaved writers; the retries cover rows
	// inserted past the lock (manual inserts, other tools).
	maxNumberAttempts = 3
)

func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, params CreateParams) (*Invoice, error) {
	if err := validate.Struct(params); err != nil {
		return nil, err
	}

	dueDate, err := time.Parse(time.DateOnly, params.DueDate)
	if err != nil {
		return nil, validate.NewError("due_date", "must be a valid date in YYYY-MM-DD format")
	}

	items, err := buildItems(params.Items)
	if err != nil {
		return nil, err
	}

	var lastErr error

	for range maxNumberAttempts {
		inv, err := s.createOnce(ctx, ownerID, params.CustomerID, dueDate, items)
		if err == nil {
			return inv, nil
		}

		if !errors.Is(err, ErrNumberConflict) {
			return nil, err
		}

		lastErr = err
	}

	return nil, fmt.Errorf("creating invoice: %w", lastErr)
}

func (s *Service) createOnce(ctx context.Context, ownerID, customerID uuid.UUID, dueDate time.Time, items []Item) (*Invoice, error) {
	day := time.Now().UTC()

	ctr, err := s.repo.BeginCreate(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("begin create: %w", err)
	}
	defer ctr.Rollback()

	count, err := ctr.CountCreatedOn(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("counting today's invoices: %w", err)
	}

	inv := &Invoice{
		UserID:     ownerID,
		CustomerID: customerID,
		Number:     FormatNumber(day, count+1),
		DueDate:    dueDate,
		Total:      Total(items),
		Items:      items,
	}

	if err := ctr.CreateInvoiceWithItems(ctx, inv); err != nil {
		return nil, fmt.Errorf("creating invoice: %w", err)
	}

	if err := ctr.Commit(); err != nil {
		return nil, fmt.Errorf("commit create: %w", err)
	}

	return inv, nil
}

func (s *Service) Update(ctx context.Context, ownerID, id uuid.UUID, params UpdateParams) (*Invoice, error) {
	inv, err := s.repo.GetInvoice(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if err := validate.Struct(params); err != nil {
		return nil, err
	}

	dueDate, err := time.Parse(time.DateOnly, params.DueDate)
	if err != nil {
		return nil, validate.NewError("due_date", "must be a valid date in YYYY-MM-DD format")
	}

	items, err := buildItems(params.Items)
	if err != nil {
		return nil, err
	}

	inv.DueDate = dueDate
	inv.Items = items
	inv.Total = Total(items)

	if err := s.repo.ReplaceItems(ctx, inv); err != nil {
		return nil, fmt.Errorf("updating invoice: %w", err)
	}

	return inv, nil
}

func (s *Service) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	inv, err := s.repo.GetInvoice(ctx, id, ownerID)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteInvoice(ctx, inv.ID); err != nil {
		return fmt.Errorf("deleting invoice: %w", err)
	}

	return nil
}

func (s *Service) Get(ctx context.Context, ownerID, id uuid.UUID) (*Invoice, error) {
	return s.repo.GetInvoice(ctx, id, ownerID)
}

func (s *Service) List(ctx context.Context, ownerID uuid.UUID, filter ListFilter) (*Page, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}

	if filter.PerPage < 1 {
		filter.PerPage = defaultPerPage
	}

	invs, total, err := s.repo.ListInvoices(ctx, ownerID, filter)
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}

	return &Page{
		Invoices: invs,
		Page:     filter.Page,
		PerPage:  filter.PerPage,
		Total:    total,
	}, nil
}

func buildItems(params []ItemParams) ([]Item, error) {
	items := make([]Item, len(params))

	for i, p := range params {
		subtotal, err := Subtotal(p.Qty, p.Price)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}

		items[i] = Item{
			Name:     p.Name,
			Qty:      p.Qty,
			Price:    p.Price,
			Subtotal: subtotal,
		}
	}

	return items, nil
}
