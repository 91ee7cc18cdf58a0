package settings

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/nazaara/billing/internal/platform/cache"
	"github.com/nazaara/billing/internal/shared"
)

var maxTaxRate = decimal.NewFromInt(100)

// Service reads and updates the settings singleton through a Redis cache.
// Every write, including invoice number allocation, must call Invalidate.
type Service struct {
	repo   Repository
	cache  *cache.Versioned
	logger *slog.Logger
}

func NewService(repo Repository, c *cache.Versioned, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, cache: c, logger: logger}
}

// Get returns the settings, creating the singleton with defaults on first use.
func (s *Service) Get(ctx context.Context) (*Settings, error) {
	var out Settings
	err := cache.FetchJSON(ctx, s.cache, &out, func(ctx context.Context) (Settings, error) {
		v, err := s.repo.Get(ctx)
		if err != nil {
			return Settings{}, err
		}
		return *v, nil
	}, "current")
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) Update(ctx context.Context, req UpdateSettingsRequest) (*Settings, error) {
	if err := normalize(&req); err != nil {
		return nil, err
	}
	if req.Empty() {
		return s.Get(ctx)
	}
	updated, err := s.repo.Update(ctx, req)
	if err != nil {
		return nil, err
	}
	s.Invalidate(ctx)
	return updated, nil
}

// Invalidate drops cached settings. Failures are logged; the TTL bounds staleness.
func (s *Service) Invalidate(ctx context.Context) {
	if err := s.cache.Bump(ctx); err != nil {
		s.logger.Warn("settings cache invalidation failed", slog.Any("error", err))
	}
}

func normalize(req *UpdateSettingsRequest) error {
	if req.ShopName != nil {
		name := strings.TrimSpace(*req.ShopName)
		if name == "" {
			return shared.Validation("Shop name is required")
		}
		req.ShopName = &name
	}
	if req.Currency != nil {
		cur := strings.ToUpper(strings.TrimSpace(*req.Currency))
		if len(cur) != 3 {
			return shared.Validation("Currency must be a 3-letter code")
		}
		req.Currency = &cur
	}
	if req.TaxRate != nil && (req.TaxRate.IsNegative() || req.TaxRate.GreaterThan(maxTaxRate)) {
		return shared.Validation("Tax rate must be between 0 and 100")
	}
	if req.InvoicePrefix != nil {
		prefix := strings.TrimSpace(*req.InvoicePrefix)
		if prefix == "" {
			return shared.Validation("Invoice prefix is required")
		}
		req.InvoicePrefix = &prefix
	}
	if req.LastInvoiceNumber != nil && *req.LastInvoiceNumber < 0 {
		return shared.Validation("Last invoice number cannot be negative")
	}
	return nil
}
