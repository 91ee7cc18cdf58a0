package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nazaara/billing/internal/platform/db"
	"github.com/nazaara/billing/internal/shared"
)

// Repository persists the settings singleton.
type Repository interface {
	Get(ctx context.Context) (*Settings, error)
	Update(ctx context.Context, req UpdateSettingsRequest) (*Settings, error)
}

type repository struct {
	db db.Querier
}

// NewRepository returns a pgx-backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

const settingsColumns = `shop_name, tagline, address, phone, gst_number, currency, tax_rate, invoice_prefix, last_invoice_number`

func scanSettings(row pgx.Row) (*Settings, error) {
	var s Settings
	var tagline, address, phone, gst pgtype.Text
	var taxRate pgtype.Numeric
	if err := row.Scan(&s.ShopName, &tagline, &address, &phone, &gst, &s.Currency, &taxRate, &s.InvoicePrefix, &s.LastInvoiceNumber); err != nil {
		return nil, err
	}
	s.Tagline = db.Text(tagline)
	s.Address = db.Text(address)
	s.Phone = db.Text(phone)
	s.GSTNumber = db.Text(gst)
	s.TaxRate = db.Decimal(taxRate)
	return &s, nil
}

// EnsureRow creates the singleton with column defaults when it is missing.
func EnsureRow(ctx context.Context, q db.Querier) error {
	if _, err := q.Exec(ctx, `INSERT INTO settings (singleton) VALUES (TRUE) ON CONFLICT DO NOTHING`); err != nil {
		return fmt.Errorf("ensure settings row: %w", err)
	}
	return nil
}

func (r *repository) Get(ctx context.Context) (*Settings, error) {
	if err := EnsureRow(ctx, r.db); err != nil {
		return nil, err
	}
	s, err := scanSettings(r.db.QueryRow(ctx, `SELECT `+settingsColumns+` FROM settings WHERE singleton`))
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return s, nil
}

func (r *repository) Update(ctx context.Context, req UpdateSettingsRequest) (*Settings, error) {
	if err := EnsureRow(ctx, r.db); err != nil {
		return nil, err
	}
	var sets, conds []string
	var args []any
	argPos := 1
	add := func(expr string, value any) {
		sets = append(sets, fmt.Sprintf(expr, argPos))
		args = append(args, value)
		argPos++
	}
	if req.ShopName != nil {
		add("shop_name = $%d", *req.ShopName)
	}
	if req.Tagline != nil {
		add("tagline = $%d", nullable(*req.Tagline))
	}
	if req.Address != nil {
		add("address = $%d", nullable(*req.Address))
	}
	if req.Phone != nil {
		add("phone = $%d", nullable(*req.Phone))
	}
	if req.GSTNumber != nil {
		add("gst_number = $%d", nullable(*req.GSTNumber))
	}
	if req.Currency != nil {
		add("currency = $%d", *req.Currency)
	}
	if req.TaxRate != nil {
		add("tax_rate = $%d::numeric", db.NumericArg(*req.TaxRate))
	}
	if req.InvoicePrefix != nil {
		add("invoice_prefix = $%d", *req.InvoicePrefix)
	}
	if req.LastInvoiceNumber != nil {
		conds = append(conds, fmt.Sprintf("last_invoice_number <= $%d", argPos))
		add("last_invoice_number = $%d", *req.LastInvoiceNumber)
	}
	if len(sets) == 0 {
		return r.Get(ctx)
	}

	query := fmt.Sprintf(`UPDATE settings SET %s WHERE %s RETURNING %s`,
		strings.Join(sets, ", "), strings.Join(append([]string{"singleton"}, conds...), " AND "), settingsColumns)
	s, err := scanSettings(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.Validation("Last invoice number cannot be lower than the current value")
	}
	if err != nil {
		return nil, fmt.Errorf("update settings: %w", err)
	}
	return s, nil
}

func nullable(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
