package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mpereira/invoicer/internal/invoice"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

const selectInvoiceColumns = `
	id, user_id, customer_id, invoice_number, due_date, total, created_at, updated_at
`

func scanInvoice(s scanner) (*invoice.Invoice, error) {
	var inv invoice.Invoice

	if err := s.Scan(
		&inv.ID, &inv.UserID, &inv.CustomerID, &inv.Number, &inv.DueDate, &inv.Total,
		&inv.CreatedAt, &inv.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &inv, nil
}

func (s *Store) GetInvoice(ctx context.Context, id, ownerID uuid.UUID) (*invoice.Invoice, error) {
	query := `SELECT ` + selectInvoiceColumns + `
		FROM invoices
		WHERE id = $1 AND user_id = $2`

	inv, err := scanInvoice(s.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, invoice.ErrNotFound
		}

		return nil, fmt.Errorf("getting invoice: %w", err)
	}

	itemsByInvoice, err := loadItems(ctx, s.db, []uuid.UUID{inv.ID})
	if err != nil {
		return nil, err
	}

	inv.Items = itemsByInvoice[inv.ID]

	return inv, nil
}

func (s *Store) ListInvoices(ctx context.Context, ownerID uuid.UUID, filter invoice.ListFilter) ([]*invoice.Invoice, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM invoices WHERE user_id = $1`, ownerID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting invoices: %w", err)
	}

	query := `SELECT ` + selectInvoiceColumns + `
		FROM invoices
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`

	offset := (filter.Page - 1) * filter.PerPage

	rows, err := s.db.QueryContext(ctx, query, ownerID, filter.PerPage, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing invoices: %w", err)
	}
	defer rows.Close()

	var invs []*invoice.Invoice

	ids := make([]uuid.UUID, 0, filter.PerPage)

	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning invoice: %w", err)
		}

		invs = append(invs, inv)
		ids = append(ids, inv.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating invoice rows: %w", err)
	}

	if len(ids) > 0 {
		itemsByInvoice, err := loadItems(ctx, s.db, ids)
		if err != nil {
			return nil, 0, err
		}

		for _, inv := range invs {
			inv.Items = itemsByInvoice[inv.ID]
		}
	}

	return invs, total, nil
}

// ReplaceItems rewrites an invoice's item set in one transaction: the header
// is updated, all existing items deleted, and the new set inserted. Old and
// new state are never visible together.
func (s *Store) ReplaceItems(ctx context.Context, inv *invoice.Invoice) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	var updatedAt time.Time

	headerQuery := `
		UPDATE invoices
		SET due_date = $1, total = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING updated_at
	`
	if err := dbTx.QueryRowContext(ctx, headerQuery, inv.DueDate, inv.Total, inv.ID).Scan(&updatedAt); err != nil {
		return fmt.Errorf("updating invoice: %w", err)
	}

	inv.UpdatedAt = &updatedAt

	if _, err := dbTx.ExecContext(ctx,
		`DELETE FROM invoice_items WHERE invoice_id = $1`, inv.ID,
	); err != nil {
		return fmt.Errorf("deleting old items: %w", err)
	}

	if err := insertItems(ctx, dbTx, inv); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// DeleteInvoice removes the invoice and its items in one transaction, items
// first for referential cleanup.
func (s *Store) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx,
		`DELETE FROM invoice_items WHERE invoice_id = $1`, id,
	); err != nil {
		return fmt.Errorf("deleting items: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx,
		`DELETE FROM invoices WHERE id = $1`, id,
	); err != nil {
		return fmt.Errorf("deleting invoice: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

type createTx struct {
	tx *sql.Tx
}

// BeginCreate opens the creation transaction and takes a per-day advisory
// lock so concurrent creations on the same day are serialized. The lock is
// released on commit or rollback.
func (s *Store) BeginCreate(ctx context.Context, day time.Time) (invoice.CreateTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning create tx: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", invoice.DayLockKey(day)); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring numbering lock: %w", err)
	}

	return &createTx{tx: dbTx}, nil
}

func (ctr *createTx) Commit() error   { return ctr.tx.Commit() }
func (ctr *createTx) Rollback() error { return ctr.tx.Rollback() }

func (ctr *createTx) CountCreatedOn(ctx context.Context, day time.Time) (int, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	var count int
	if err := ctr.tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM invoices WHERE created_at >= $1 AND created_at < $2`,
		start, end,
	).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting invoices: %w", err)
	}

	return count, nil
}

func (ctr *createTx) CreateInvoiceWithItems(ctx context.Context, inv *invoice.Invoice) error {
	query := `
		INSERT INTO invoices (user_id, customer_id, invoice_number, due_date, total, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at
	`

	err := ctr.tx.QueryRowContext(ctx, query,
		inv.UserID,
		inv.CustomerID,
		inv.Number,
		inv.DueDate,
		inv.Total,
	).Scan(&inv.ID, &inv.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("inserting invoice %s: %w", inv.Number, invoice.ErrNumberConflict)
		}

		return fmt.Errorf("inserting invoice: %w", err)
	}

	return insertItems(ctx, ctr.tx, inv)
}

func insertItems(ctx context.Context, tx *sql.Tx, inv *invoice.Invoice) error {
	query := `
		INSERT INTO invoice_items (id, invoice_id, item_name, qty, price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	for i := range inv.Items {
		// UUIDv7 keeps item ids time-ordered, so reads can rely on
		// ORDER BY id to return items in insertion order.
		inv.Items[i].ID = uuid.Must(uuid.NewV7())
		inv.Items[i].InvoiceID = inv.ID

		item := inv.Items[i]
		if _, err := tx.ExecContext(ctx, query,
			item.ID, item.InvoiceID, item.Name, item.Qty, item.Price, item.Subtotal,
		); err != nil {
			return fmt.Errorf("inserting item %q: %w", item.Name, err)
		}
	}

	return nil
}

func loadItems(ctx context.Context, q querier, invoiceIDs []uuid.UUID) (map[uuid.UUID][]invoice.Item, error) {
	query := `
		SELECT id, invoice_id, item_name, qty, price, subtotal
		FROM invoice_items
		WHERE invoice_id = ANY($1)
		ORDER BY id ASC
	`

	rows, err := q.QueryContext(ctx, query, invoiceIDs)
	if err != nil {
		return nil, fmt.Errorf("loading items: %w", err)
	}
	defer rows.Close()

	itemsByInvoice := make(map[uuid.UUID][]invoice.Item, len(invoiceIDs))

	for rows.Next() {
		var item invoice.Item
		if err := rows.Scan(
			&item.ID, &item.InvoiceID, &item.Name, &item.Qty, &item.Price, &item.Subtotal,
		); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}

		itemsByInvoice[item.InvoiceID] = append(itemsByInvoice[item.InvoiceID], item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating item rows: %w", err)
	}

	return itemsByInvoice, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
