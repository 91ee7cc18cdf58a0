package invoices

import (
	"context"
	"fmt"

	"github.com/nazaara/billing/internal/billing"
	"github.com/nazaara/billing/internal/platform/db"
	"github.com/nazaara/billing/internal/settings"
)

// Allocator hands out invoice numbers from the settings counter.
type Allocator struct{}

// Next advances the counter and returns the formatted number with its
// sequence. q must be the transaction that inserts the invoice: the UPDATE
// row lock serializes concurrent callers until commit, and a rollback
// returns the number.
func (Allocator) Next(ctx context.Context, q db.Querier) (string, int64, error) {
	if err := settings.EnsureRow(ctx, q); err != nil {
		return "", 0, err
	}
	var (
		prefix string
		seq    int64
	)
	err := q.QueryRow(ctx, `UPDATE settings
		SET last_invoice_number = last_invoice_number + 1
		WHERE singleton
		RETURNING invoice_prefix, last_invoice_number`).Scan(&prefix, &seq)
	if err != nil {
		return "", 0, fmt.Errorf("allocate invoice number: %w", err)
	}
	return billing.FormatInvoiceNumber(prefix, seq), seq, nil
}
