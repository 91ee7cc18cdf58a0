package settings

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nazaara/billing/internal/platform/cache"
	"github.com/nazaara/billing/internal/shared"
)

type memorySettingsRepo struct {
	row   *Settings
	reads int
}

func (r *memorySettingsRepo) Get(ctx context.Context) (*Settings, error) {
	r.reads++
	if r.row == nil {
		d := Defaults()
		r.row = &d
	}
	cp := *r.row
	return &cp, nil
}

func (r *memorySettingsRepo) Update(ctx context.Context, req UpdateSettingsRequest) (*Settings, error) {
	if r.row == nil {
		d := Defaults()
		r.row = &d
	}
	if req.LastInvoiceNumber != nil && *req.LastInvoiceNumber < r.row.LastInvoiceNumber {
		return nil, shared.Validation("Last invoice number cannot be lower than the current value")
	}
	if req.ShopName != nil {
		r.row.ShopName = *req.ShopName
	}
	if req.Currency != nil {
		r.row.Currency = *req.Currency
	}
	if req.TaxRate != nil {
		r.row.TaxRate = *req.TaxRate
	}
	if req.InvoicePrefix != nil {
		r.row.InvoicePrefix = *req.InvoicePrefix
	}
	if req.LastInvoiceNumber != nil {
		r.row.LastInvoiceNumber = *req.LastInvoiceNumber
	}
	if req.GSTNumber != nil {
		r.row.GSTNumber = req.GSTNumber
	}
	cp := *r.row
	return &cp, nil
}

func newCachedService(t *testing.T) (*Service, *memorySettingsRepo) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	repo := &memorySettingsRepo{}
	return NewService(repo, cache.NewVersioned(client, "settings", time.Minute, nil), nil), repo
}

func strptr(s string) *string { return &s }

func TestGetCreatesDefaults(t *testing.T) {
	svc, _ := newCachedService(t)
	s, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Nazaara", s.ShopName)
	assert.Equal(t, "Exclusive Fashion & Style", *s.Tagline)
	assert.Equal(t, "INR", s.Currency)
	assert.Equal(t, "NZ-", s.InvoicePrefix)
	assert.Zero(t, s.LastInvoiceNumber)
	assert.True(t, s.TaxRate.IsZero())
}

func TestGetIsCachedUntilUpdate(t *testing.T) {
	svc, repo := newCachedService(t)
	ctx := context.Background()

	_, err := svc.Get(ctx)
	require.NoError(t, err)
	_, err = svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.reads)

	_, err = svc.Update(ctx, UpdateSettingsRequest{ShopName: strptr("Nazaara Couture")})
	require.NoError(t, err)

	s, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Nazaara Couture", s.ShopName)
	assert.Equal(t, 2, repo.reads)

	repo.row.LastInvoiceNumber = 9
	svc.Invalidate(ctx)
	s, err = svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(9), s.LastInvoiceNumber)
}

func TestUpdateMergesAndValidates(t *testing.T) {
	svc, _ := newCachedService(t)
	ctx := context.Background()

	rate := decimal.RequireFromString("5")
	s, err := svc.Update(ctx, UpdateSettingsRequest{
		Currency:  strptr("usd"),
		TaxRate:   &rate,
		GSTNumber: strptr("29ABCDE1234F1Z5"),
	})
	require.NoError(t, err)
	assert.Equal(t, "USD", s.Currency)
	assert.Equal(t, "Nazaara", s.ShopName, "untouched fields are preserved")
	assert.Equal(t, "29ABCDE1234F1Z5", *s.GSTNumber)

	bad := decimal.RequireFromString("101")
	_, err = svc.Update(ctx, UpdateSettingsRequest{TaxRate: &bad})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Update(ctx, UpdateSettingsRequest{ShopName: strptr("  ")})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Update(ctx, UpdateSettingsRequest{InvoicePrefix: strptr("")})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestLastInvoiceNumberOnlyMovesUp(t *testing.T) {
	svc, _ := newCachedService(t)
	ctx := context.Background()

	next := int64(120)
	s, err := svc.Update(ctx, UpdateSettingsRequest{LastInvoiceNumber: &next})
	require.NoError(t, err)
	assert.Equal(t, int64(120), s.LastInvoiceNumber)

	lower := int64(3)
	_, err = svc.Update(ctx, UpdateSettingsRequest{LastInvoiceNumber: &lower})
	require.ErrorIs(t, err, shared.ErrValidation)
}
