package reports

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nazaara/billing/internal/billing"
	"github.com/nazaara/billing/internal/platform/cache"
)

var kolkata = time.FixedZone("IST", 5*3600+1800)

func inv(customer uuid.UUID, status billing.Status, total string, at time.Time) billing.Invoice {
	c := customer
	return billing.Invoice{
		ID:         uuid.New(),
		CustomerID: &c,
		Status:     status,
		Total:      decimal.RequireFromString(total),
		CreatedAt:  at,
	}
}

func TestSummarizeExcludesCancelled(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, kolkata)
	c := uuid.New()
	invoices := []billing.Invoice{
		inv(c, billing.StatusPaid, "100", day.Add(10*time.Hour)),
		inv(c, billing.StatusPending, "200", day.Add(12*time.Hour)),
		inv(c, billing.StatusCancelled, "50", day.Add(13*time.Hour)),
		inv(c, billing.StatusPaid, "999", day.Add(-time.Minute)),
		inv(c, billing.StatusPaid, "999", day.Add(24*time.Hour)),
	}

	s := Summarize(invoices, day.Add(15*time.Hour), kolkata)
	assert.Equal(t, "2024-03-01", s.Date)
	assert.True(t, s.TotalSales.Equal(decimal.NewFromInt(300)), s.TotalSales.String())
	assert.Equal(t, 2, s.InvoiceCount)
	assert.True(t, s.PaidAmount.Equal(decimal.NewFromInt(100)))
	assert.True(t, s.PendingAmount.Equal(decimal.NewFromInt(200)))
}

func TestSummarizeUsesLocalCalendarDay(t *testing.T) {
	// 20:00 UTC on Feb 29 is 01:30 on Mar 1 in IST.
	late := time.Date(2024, 2, 29, 20, 0, 0, 0, time.UTC)
	invoices := []billing.Invoice{inv(uuid.New(), billing.StatusPaid, "75", late)}

	s := Summarize(invoices, time.Date(2024, 3, 1, 9, 0, 0, 0, kolkata), kolkata)
	assert.Equal(t, 1, s.InvoiceCount)

	s = Summarize(invoices, time.Date(2024, 2, 29, 9, 0, 0, 0, kolkata), kolkata)
	assert.Equal(t, 0, s.InvoiceCount)
	assert.True(t, s.TotalSales.IsZero())
}

func TestLifetimeTotalIncludesCancelled(t *testing.T) {
	c := uuid.New()
	other := uuid.New()
	now := time.Now()
	invoices := []billing.Invoice{
		inv(c, billing.StatusPaid, "100", now),
		inv(c, billing.StatusCancelled, "50", now),
		inv(other, billing.StatusPaid, "1000", now),
		{ID: uuid.New(), Status: billing.StatusPaid, Total: decimal.NewFromInt(7)},
	}
	got := LifetimeTotal(invoices, c)
	assert.True(t, got.Total.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, 2, got.InvoiceCount)
}

type stubSource struct {
	invoices []billing.Invoice
	calls    int
}

func (s *stubSource) List(ctx context.Context) ([]billing.Invoice, error) {
	s.calls++
	return s.invoices, nil
}

func (s *stubSource) ListByCustomer(ctx context.Context, id uuid.UUID) ([]billing.Invoice, error) {
	s.calls++
	var out []billing.Invoice
	for _, i := range s.invoices {
		if i.CustomerID != nil && *i.CustomerID == id {
			out = append(out, i)
		}
	}
	return out, nil
}

func TestServiceCachesDailyUntilInvalidated(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	day := time.Date(2024, 3, 1, 0, 0, 0, 0, kolkata)
	c := uuid.New()
	src := &stubSource{invoices: []billing.Invoice{inv(c, billing.StatusPaid, "100", day.Add(time.Hour))}}
	svc := NewService(src, cache.NewVersioned(client, "reports", time.Minute, nil), kolkata, nil)
	ctx := context.Background()

	s, err := svc.Daily(ctx, day)
	require.NoError(t, err)
	assert.True(t, s.TotalSales.Equal(decimal.NewFromInt(100)))

	src.invoices = append(src.invoices, inv(c, billing.StatusPending, "40", day.Add(2*time.Hour)))
	s, err = svc.Daily(ctx, day)
	require.NoError(t, err)
	assert.True(t, s.TotalSales.Equal(decimal.NewFromInt(100)), "served from cache")
	assert.Equal(t, 1, src.calls)

	svc.Invalidate(ctx)
	s, err = svc.Daily(ctx, day)
	require.NoError(t, err)
	assert.True(t, s.TotalSales.Equal(decimal.NewFromInt(140)))
	assert.True(t, s.PendingAmount.Equal(decimal.NewFromInt(40)))

	lt, err := svc.CustomerLifetime(ctx, c)
	require.NoError(t, err)
	assert.True(t, lt.Total.Equal(decimal.NewFromInt(140)))
}
