package categories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nazaara/billing/internal/platform/db"
	"github.com/nazaara/billing/internal/shared"
)

const (
	msgNotFound          = "Category not found"
	msgDuplicateLabel    = "A category with this label already exists"
	msgDuplicateID       = "A category with this id already exists"
	categoryIDConstraint = "categories_category_id_key"
	labelConstraint      = "categories_label_lower_key"
)

// Repository persists categories.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	List(ctx context.Context) ([]Category, error)
	Get(ctx context.Context, id uuid.UUID) (*Category, error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, c Category) (*Category, error)
	Update(ctx context.Context, id uuid.UUID, patch Patch) (*Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
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

const categoryColumns = `id, category_id, label, icon, is_active, sort_order, created_at`

func scanCategory(row pgx.Row) (*Category, error) {
	var c Category
	if err := row.Scan(&c.ID, &c.CategoryID, &c.Label, &c.Icon, &c.IsActive, &c.SortOrder, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.NotFound(msgNotFound)
		}
		return nil, err
	}
	return &c, nil
}

func mapWriteError(err error) error {
	switch {
	case db.IsUniqueViolation(err, categoryIDConstraint):
		return shared.Conflict(msgDuplicateID)
	case db.IsUniqueViolation(err, labelConstraint):
		return shared.Conflict(msgDuplicateLabel)
	}
	return err
}

func (r *repository) List(ctx context.Context) ([]Category, error) {
	rows, err := r.db.Query(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY sort_order ASC, created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	out := make([]Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*Category, error) {
	return scanCategory(r.db.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM categories`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return n, nil
}

func (r *repository) Create(ctx context.Context, c Category) (*Category, error) {
	created, err := scanCategory(r.db.QueryRow(ctx, `
		INSERT INTO categories (id, category_id, label, icon, is_active, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+categoryColumns,
		c.ID, c.CategoryID, c.Label, c.Icon, c.IsActive, c.SortOrder,
	))
	if err != nil {
		return nil, mapWriteError(err)
	}
	return created, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, patch Patch) (*Category, error) {
	var sets []string
	var args []any
	argPos := 1
	add := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argPos))
		args = append(args, value)
		argPos++
	}
	if patch.CategoryID != nil {
		add("category_id", *patch.CategoryID)
	}
	if patch.Label != nil {
		add("label", *patch.Label)
	}
	if patch.Icon != nil {
		add("icon", *patch.Icon)
	}
	if patch.IsActive != nil {
		add("is_active", *patch.IsActive)
	}
	if patch.SortOrder != nil {
		add("sort_order", *patch.SortOrder)
	}
	if len(sets) == 0 {
		return r.Get(ctx, id)
	}
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE categories SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), argPos, categoryColumns)
	updated, err := scanCategory(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapWriteError(err)
	}
	return updated, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.NotFound(msgNotFound)
	}
	return nil
}
