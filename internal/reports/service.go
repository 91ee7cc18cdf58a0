package reports

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nazaara/billing/internal/billing"
	"github.com/nazaara/billing/internal/platform/cache"
)

// Source loads invoices, newest first.
type Source interface {
	List(ctx context.Context) ([]billing.Invoice, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]billing.Invoice, error)
}

// Service serves cached aggregates. Invoice writes must call Invalidate.
type Service struct {
	source Source
	cache  *cache.Versioned
	loc    *time.Location
	now    func() time.Time
	logger *slog.Logger
}

func NewService(source Source, c *cache.Versioned, loc *time.Location, logger *slog.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{source: source, cache: c, loc: loc, now: time.Now, logger: logger}
}

// Location is the shop's local time zone used for calendar days.
func (s *Service) Location() *time.Location {
	return s.loc
}

// Today returns the current local calendar day.
func (s *Service) Today() time.Time {
	return StartOfDay(s.now(), s.loc)
}

func (s *Service) Daily(ctx context.Context, day time.Time) (DailySummary, error) {
	day = StartOfDay(day, s.loc)
	var out DailySummary
	err := cache.FetchJSON(ctx, s.cache, &out, func(ctx context.Context) (DailySummary, error) {
		invoices, err := s.source.List(ctx)
		if err != nil {
			return DailySummary{}, err
		}
		return Summarize(invoices, day, s.loc), nil
	}, "daily", day.Format("2006-01-02"))
	return out, err
}

func (s *Service) CustomerLifetime(ctx context.Context, customerID uuid.UUID) (CustomerTotal, error) {
	var out CustomerTotal
	err := cache.FetchJSON(ctx, s.cache, &out, func(ctx context.Context) (CustomerTotal, error) {
		invoices, err := s.source.ListByCustomer(ctx, customerID)
		if err != nil {
			return CustomerTotal{}, err
		}
		return LifetimeTotal(invoices, customerID), nil
	}, "customer", customerID.String())
	return out, err
}

// Invalidate drops every cached aggregate.
func (s *Service) Invalidate(ctx context.Context) {
	if err := s.cache.Bump(ctx); err != nil {
		s.logger.Warn("reports cache invalidation failed", slog.Any("error", err))
	}
}
