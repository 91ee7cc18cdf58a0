package invoices

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nazaara/billing/internal/billing"
	"github.com/nazaara/billing/internal/platform/db"
	"github.com/nazaara/billing/internal/shared"
)

const (
	msgNotFound         = "Invoice not found"
	msgCustomerNotFound = "Customer not found"
	customerConstraint  = "invoices_customer_id_fkey"
	numberConstraint    = "invoices_invoice_number_key"
)

// Repository persists invoices. Lists are ordered newest first.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	List(ctx context.Context) ([]billing.Invoice, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]billing.Invoice, error)
	Get(ctx context.Context, id uuid.UUID) (*billing.Invoice, error)
	// NextNumber allocates an invoice number. Call it inside WithTx.
	NextNumber(ctx context.Context) (string, error)
	Insert(ctx context.Context, inv billing.Invoice) (*billing.Invoice, error)
	Update(ctx context.Context, inv billing.Invoice) (*billing.Invoice, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db        db.Querier
	pool      *pgxpool.Pool
	allocator Allocator
}

// NewRepository returns a pgx-backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

const invoiceColumns = `id, invoice_number, customer_id, customer_name, customer_phone, status, items,
	subtotal, discount_type, discount_value, discount_amount, total, notes, created_at, updated_at`

func scanInvoice(row pgx.Row) (*billing.Invoice, error) {
	var (
		inv                                            billing.Invoice
		customerID                                     pgtype.UUID
		items                                          []byte
		subtotal, discountValue, discountAmount, total pgtype.Numeric
		notes                                          pgtype.Text
	)
	err := row.Scan(&inv.ID, &inv.InvoiceNumber, &customerID, &inv.CustomerName, &inv.CustomerPhone,
		&inv.Status, &items, &subtotal, &inv.DiscountType, &discountValue, &discountAmount, &total,
		&notes, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.NotFound(msgNotFound)
		}
		return nil, err
	}
	if customerID.Valid {
		id := uuid.UUID(customerID.Bytes)
		inv.CustomerID = &id
	}
	inv.Items = make([]billing.Item, 0)
	if err := json.Unmarshal(items, &inv.Items); err != nil {
		return nil, fmt.Errorf("decode invoice items: %w", err)
	}
	inv.Subtotal = db.Decimal(subtotal)
	inv.DiscountValue = db.Decimal(discountValue)
	inv.DiscountAmount = db.Decimal(discountAmount)
	inv.Total = db.Decimal(total)
	inv.Notes = db.Text(notes)
	return &inv, nil
}

func (r *repository) list(ctx context.Context, query string, args ...any) ([]billing.Invoice, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	invoices := make([]billing.Invoice, 0)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		invoices = append(invoices, *inv)
	}
	return invoices, rows.Err()
}

func (r *repository) List(ctx context.Context) ([]billing.Invoice, error) {
	return r.list(ctx, `SELECT `+invoiceColumns+` FROM invoices ORDER BY created_at DESC`)
}

func (r *repository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]billing.Invoice, error) {
	return r.list(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE customer_id = $1 ORDER BY created_at DESC`, customerID)
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	inv, err := scanInvoice(r.db.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id))
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, err
}

func (r *repository) NextNumber(ctx context.Context) (string, error) {
	number, _, err := r.allocator.Next(ctx, r.db)
	return number, err
}

func (r *repository) Insert(ctx context.Context, inv billing.Invoice) (*billing.Invoice, error) {
	items, err := json.Marshal(inv.Items)
	if err != nil {
		return nil, fmt.Errorf("encode invoice items: %w", err)
	}
	out, err := scanInvoice(r.db.QueryRow(ctx, `INSERT INTO invoices (
			id, invoice_number, customer_id, customer_name, customer_phone, status, items,
			subtotal, discount_type, discount_value, discount_amount, total, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8::numeric, $9, $10::numeric, $11::numeric, $12::numeric, $13)
		RETURNING `+invoiceColumns,
		inv.ID, inv.InvoiceNumber, inv.CustomerID, inv.CustomerName, inv.CustomerPhone, string(inv.Status),
		string(items), db.NumericArg(inv.Subtotal), string(inv.DiscountType), db.NumericArg(inv.DiscountValue),
		db.NumericArg(inv.DiscountAmount), db.NumericArg(inv.Total), inv.Notes))
	if err != nil {
		return nil, mapWriteError("insert invoice", err)
	}
	return out, nil
}

func (r *repository) Update(ctx context.Context, inv billing.Invoice) (*billing.Invoice, error) {
	items, err := json.Marshal(inv.Items)
	if err != nil {
		return nil, fmt.Errorf("encode invoice items: %w", err)
	}
	out, err := scanInvoice(r.db.QueryRow(ctx, `UPDATE invoices SET
			status = $2, items = $3::jsonb, subtotal = $4::numeric, discount_type = $5,
			discount_value = $6::numeric, discount_amount = $7::numeric, total = $8::numeric,
			notes = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING `+invoiceColumns,
		inv.ID, string(inv.Status), string(items), db.NumericArg(inv.Subtotal), string(inv.DiscountType),
		db.NumericArg(inv.DiscountValue), db.NumericArg(inv.DiscountAmount), db.NumericArg(inv.Total), inv.Notes))
	if err != nil {
		return nil, mapWriteError("update invoice", err)
	}
	return out, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.NotFound(msgNotFound)
	}
	return nil
}

func mapWriteError(op string, err error) error {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		return err
	case db.IsForeignKeyViolation(err, customerConstraint):
		return shared.Validation(msgCustomerNotFound)
	case db.IsUniqueViolation(err, numberConstraint):
		return shared.Conflict("Invoice number already issued")
	}
	return fmt.Errorf("%s: %w", op, err)
}
