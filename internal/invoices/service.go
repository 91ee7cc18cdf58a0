package invoices

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nazaara/billing/internal/billing"
	"github.com/nazaara/billing/internal/customers"
	"github.com/nazaara/billing/internal/reports"
	"github.com/nazaara/billing/internal/shared"
)

// CustomerLookup resolves the customer snapshotted onto a new invoice.
type CustomerLookup interface {
	Get(ctx context.Context, id uuid.UUID) (*customers.Customer, error)
}

// Invalidator drops cached views derived from invoices or the settings counter.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

// Observer records invoice activity.
type Observer interface {
	InvoiceCreated(status string, total float64)
}

type Service struct {
	repo        Repository
	customers   CustomerLookup
	invalidates []Invalidator
	observer    Observer
	loc         *time.Location
	now         func() time.Time
	logger      *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithInvalidators registers caches dropped after every invoice write.
func WithInvalidators(inv ...Invalidator) Option {
	return func(s *Service) { s.invalidates = append(s.invalidates, inv...) }
}

func WithObserver(o Observer) Option {
	return func(s *Service) { s.observer = o }
}

// WithLocation sets the shop time zone used by date filters.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func NewService(repo Repository, lookup CustomerLookup, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{repo: repo, customers: lookup, loc: time.UTC, now: time.Now, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns the invoices matching q, newest first.
func (s *Service) List(ctx context.Context, q reports.Query) ([]billing.Invoice, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return reports.FilterInvoices(all, q, s.now(), s.loc), nil
}

func (s *Service) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]billing.Invoice, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, req CreateInvoiceRequest) (*billing.Invoice, error) {
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return nil, shared.Validation("customerId must be a valid id")
	}
	items, err := qualifying(req.Items)
	if err != nil {
		return nil, err
	}
	discountValue, err := discount(req.DiscountValue)
	if err != nil {
		return nil, err
	}

	inv := billing.Invoice{
		ID:            uuid.New(),
		Status:        req.Status,
		Items:         items,
		DiscountType:  req.DiscountType,
		DiscountValue: discountValue,
		Notes:         trimmed(req.Notes),
	}
	if inv.Status == "" {
		inv.Status = billing.StatusPending
	}
	if inv.DiscountType == "" {
		inv.DiscountType = billing.DiscountPercent
	}
	totals := billing.ComputeTotals(inv.Items, inv.DiscountType, inv.DiscountValue)
	if err := checkStorable(totals); err != nil {
		return nil, err
	}
	if err := checkClientTotals(totals, req.Subtotal, req.Total); err != nil {
		return nil, err
	}
	inv.ApplyTotals(totals)

	customer, err := s.customers.Get(ctx, customerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.Validation(msgCustomerNotFound)
		}
		return nil, fmt.Errorf("load customer: %w", err)
	}
	inv.CustomerID = &customer.ID
	inv.CustomerName = customer.Name
	inv.CustomerPhone = customer.Phone

	var created *billing.Invoice
	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		number, err := repo.NextNumber(ctx)
		if err != nil {
			return err
		}
		inv.InvoiceNumber = number
		created, err = repo.Insert(ctx, inv)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("invoice created",
		slog.String("invoice_number", created.InvoiceNumber),
		slog.String("status", string(created.Status)),
		slog.String("total", created.Total.StringFixed(2)))
	if s.observer != nil {
		s.observer.InvoiceCreated(string(created.Status), created.Total.InexactFloat64())
	}
	s.invalidate(ctx)
	return created, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateInvoiceRequest) (*billing.Invoice, error) {
	inv, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		inv.Status = *req.Status
	}
	if req.Notes != nil {
		inv.Notes = trimmed(req.Notes)
	}
	if req.Items != nil {
		if inv.Items, err = qualifying(req.Items); err != nil {
			return nil, err
		}
	}
	if req.DiscountType != nil {
		inv.DiscountType = *req.DiscountType
	}
	if req.DiscountValue != nil {
		if inv.DiscountValue, err = discount(*req.DiscountValue); err != nil {
			return nil, err
		}
	}

	totals := billing.Totals{Subtotal: inv.Subtotal, DiscountAmount: inv.DiscountAmount, Total: inv.Total}
	if req.recomputes() {
		totals = billing.ComputeTotals(inv.Items, inv.DiscountType, inv.DiscountValue)
		if err := checkStorable(totals); err != nil {
			return nil, err
		}
	}
	if err := checkClientTotals(totals, req.Subtotal, req.Total); err != nil {
		return nil, err
	}
	inv.ApplyTotals(totals)

	updated, err := s.repo.Update(ctx, *inv)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	for _, inv := range s.invalidates {
		inv.Invalidate(ctx)
	}
}

// qualifying drops unpriced rows and requires at least one priced item.
// Prices must be whole cents and every line must fit a money column.
func qualifying(items []billing.Item) ([]billing.Item, error) {
	out := billing.QualifyingItems(items)
	if len(out) == 0 {
		return nil, shared.Validation("At least one item with a price is required")
	}
	for i := range out {
		if !billing.WholeCents(out[i].UnitPrice) {
			return nil, shared.Validation("Item %d price must have at most two decimal places", i+1)
		}
		if !billing.Storable(out[i].LineTotal) {
			return nil, shared.Validation("Item %d total exceeds %s", i+1, billing.MaxAmount.StringFixed(2))
		}
		out[i].Category = strings.TrimSpace(out[i].Category)
		if out[i].Category == "" {
			return nil, shared.Validation("Item %d is missing a category", i+1)
		}
		out[i].Description = strings.TrimSpace(out[i].Description)
	}
	return out, nil
}

func checkClientTotals(computed billing.Totals, subtotal, total *decimal.Decimal) error {
	if subtotal != nil && !billing.TotalsMatch(*subtotal, computed.Subtotal) {
		return shared.Validation("Subtotal %s does not match the items (expected %s)",
			subtotal.StringFixed(2), computed.Subtotal.StringFixed(2))
	}
	if total != nil && !billing.TotalsMatch(*total, computed.Total) {
		return shared.Validation("Total %s does not match the items and discount (expected %s)",
			total.StringFixed(2), computed.Total.StringFixed(2))
	}
	return nil
}

// discount reads a negative value as zero and rejects values a money
// column would round or overflow.
func discount(d decimal.Decimal) (decimal.Decimal, error) {
	if d.IsNegative() {
		return decimal.Zero, nil
	}
	if !billing.WholeCents(d) {
		return decimal.Zero, shared.Validation("Discount must have at most two decimal places")
	}
	if !billing.Storable(d) {
		return decimal.Zero, shared.Validation("Discount exceeds %s", billing.MaxAmount.StringFixed(2))
	}
	return d, nil
}

func checkStorable(t billing.Totals) error {
	if !billing.Storable(t.Subtotal) || !billing.Storable(t.DiscountAmount) {
		return shared.Validation("Invoice amount exceeds %s", billing.MaxAmount.StringFixed(2))
	}
	return nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
