package products

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

const msgNotFound = "Product not found"

// Repository persists products.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id uuid.UUID) (*Product, error)
	Create(ctx context.Context, p Product) (*Product, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db db.Querier
}

// NewRepository returns a pgx-backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

const productColumns = `id, name, category, default_price, is_active, created_at`

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	var price pgtype.Numeric
	if err := row.Scan(&p.ID, &p.Name, &p.Category, &price, &p.IsActive, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.NotFound(msgNotFound)
		}
		return nil, err
	}
	p.DefaultPrice = db.Decimal(price)
	return &p, nil
}

func (r *repository) List(ctx context.Context) ([]Product, error) {
	rows, err := r.db.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	out := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*Product, error) {
	return scanProduct(r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
}

func (r *repository) Create(ctx context.Context, p Product) (*Product, error) {
	return scanProduct(r.db.QueryRow(ctx, `
		INSERT INTO products (id, name, category, default_price, is_active)
		VALUES ($1, $2, $3, $4::numeric, $5)
		RETURNING `+productColumns,
		p.ID, p.Name, p.Category, db.NumericArg(p.DefaultPrice), p.IsActive,
	))
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*Product, error) {
	var sets []string
	var args []any
	argPos := 1
	add := func(expr string, value any) {
		sets = append(sets, fmt.Sprintf(expr, argPos))
		args = append(args, value)
		argPos++
	}
	if req.Name != nil {
		add("name = $%d", *req.Name)
	}
	if req.Category != nil {
		add("category = $%d", *req.Category)
	}
	if req.DefaultPrice != nil {
		add("default_price = $%d::numeric", db.NumericArg(*req.DefaultPrice))
	}
	if req.IsActive != nil {
		add("is_active = $%d", *req.IsActive)
	}
	if len(sets) == 0 {
		return r.Get(ctx, id)
	}
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE products SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), argPos, productColumns)
	return scanProduct(r.db.QueryRow(ctx, query, args...))
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.NotFound(msgNotFound)
	}
	return nil
}
