package customers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nazaara/billing/internal/platform/db"
	"github.com/nazaara/billing/internal/shared"
)

const (
	msgNotFound      = "Customer not found"
	msgPhoneConflict = "A customer with this phone number already exists"
	phoneConstraint  = "customers_phone_key"
)

// Repository persists customers.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	List(ctx context.Context) ([]Customer, error)
	Get(ctx context.Context, id uuid.UUID) (*Customer, error)
	GetByPhone(ctx context.Context, phone string) (*Customer, error)
	Create(ctx context.Context, c Customer) (*Customer, error)
	Update(ctx context.Context, id uuid.UUID, patch Patch) (*Customer, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountInvoices(ctx context.Context, id uuid.UUID) (int, error)
}

type repository struct {
	db   db.Querier
	pool *pgxpool.Pool
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

const customerColumns = `id, name, phone, email, address, notes, created_at, updated_at`

func scanCustomer(row pgx.Row) (*Customer, error) {
	var c Customer
	var email, address, notes pgtype.Text
	if err := row.Scan(&c.ID, &c.Name, &c.Phone, &email, &address, &notes, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.NotFound(msgNotFound)
		}
		return nil, err
	}
	c.Email = db.Text(email)
	c.Address = db.Text(address)
	c.Notes = db.Text(notes)
	return &c, nil
}

func (r *repository) List(ctx context.Context) ([]Customer, error) {
	rows, err := r.db.Query(ctx, `SELECT `+customerColumns+` FROM customers ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	customers := make([]Customer, 0)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, *c)
	}
	return customers, rows.Err()
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*Customer, error) {
	return scanCustomer(r.db.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id))
}

func (r *repository) GetByPhone(ctx context.Context, phone string) (*Customer, error) {
	return scanCustomer(r.db.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE phone = $1`, phone))
}

func (r *repository) Create(ctx context.Context, c Customer) (*Customer, error) {
	created, err := scanCustomer(r.db.QueryRow(ctx, `
		INSERT INTO customers (id, name, phone, email, address, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+customerColumns,
		c.ID, c.Name, c.Phone, c.Email, c.Address, c.Notes,
	))
	if db.IsUniqueViolation(err, phoneConstraint) {
		return nil, shared.Conflict(msgPhoneConflict)
	}
	return created, err
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, patch Patch) (*Customer, error) {
	sets := []string{"updated_at = NOW()"}
	var args []any
	argPos := 1
	add := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argPos))
		args = append(args, value)
		argPos++
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Phone != nil {
		add("phone", *patch.Phone)
	}
	if patch.Email != nil {
		add("email", nullable(*patch.Email))
	}
	if patch.Address != nil {
		add("address", nullable(*patch.Address))
	}
	if patch.Notes != nil {
		add("notes", nullable(*patch.Notes))
	}
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE customers SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), argPos, customerColumns)

	updated, err := scanCustomer(r.db.QueryRow(ctx, query, args...))
	if db.IsUniqueViolation(err, phoneConstraint) {
		return nil, shared.Conflict(msgPhoneConflict)
	}
	return updated, err
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		if db.IsForeignKeyViolation(err, "") {
			return shared.Conflict("Cannot delete customer with existing invoices")
		}
		return fmt.Errorf("delete customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.NotFound(msgNotFound)
	}
	return nil
}

func (r *repository) CountInvoices(ctx context.Context, id uuid.UUID) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM invoices WHERE customer_id = $1`, id).Scan(&n); err != nil {
		return 0, fmt.Errorf("count customer invoices: %w", err)
	}
	return n, nil
}

func nullable(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
