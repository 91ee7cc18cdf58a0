package reports

import (
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nazaara/billing/internal/billing"
	"github.com/nazaara/billing/internal/shared"
)

func named(number, name, phone string, status billing.Status, at time.Time) billing.Invoice {
	return billing.Invoice{
		ID:            uuid.New(),
		InvoiceNumber: number,
		CustomerName:  name,
		CustomerPhone: phone,
		Status:        status,
		CreatedAt:     at,
	}
}

func numbers(invoices []billing.Invoice) []string {
	out := make([]string, 0, len(invoices))
	for _, i := range invoices {
		out = append(out, i.InvoiceNumber)
	}
	return out
}

func fixture(now time.Time) []billing.Invoice {
	today := StartOfDay(now, kolkata)
	return []billing.Invoice{
		named("NZ-00005", "Asha Rao", "9876543210", billing.StatusPaid, today.Add(9*time.Hour)),
		named("NZ-00004", "Bina Shah", "9123456780", billing.StatusPending, today.AddDate(0, 0, -3)),
		named("NZ-00003", "asha mehta", "9000000001", billing.StatusCancelled, today.AddDate(0, 0, -10)),
		named("NZ-00002", "Chitra", "9000000002", billing.StatusPaid, today.AddDate(0, 0, -29)),
		named("NZ-00001", "Deepa", "9000000003", billing.StatusPaid, today.AddDate(0, 0, -45)),
	}
}

func TestFilterInvoicesRanges(t *testing.T) {
	now := time.Date(2024, 3, 20, 15, 0, 0, 0, kolkata)
	all := fixture(now)

	assert.Equal(t, []string{"NZ-00005", "NZ-00004", "NZ-00003", "NZ-00002", "NZ-00001"},
		numbers(FilterInvoices(all, Query{Range: RangeAll}, now, kolkata)))
	assert.Equal(t, []string{"NZ-00005"},
		numbers(FilterInvoices(all, Query{Range: RangeToday}, now, kolkata)))
	assert.Equal(t, []string{"NZ-00005", "NZ-00004"},
		numbers(FilterInvoices(all, Query{Range: RangeWeek}, now, kolkata)))
	assert.Equal(t, []string{"NZ-00005", "NZ-00004", "NZ-00003", "NZ-00002"},
		numbers(FilterInvoices(all, Query{Range: RangeMonth}, now, kolkata)))
}

func TestFilterInvoicesCustomRangeIsInclusive(t *testing.T) {
	now := time.Date(2024, 3, 20, 15, 0, 0, 0, kolkata)
	all := fixture(now)
	from := time.Date(2024, 3, 10, 0, 0, 0, 0, kolkata)
	to := time.Date(2024, 3, 17, 0, 0, 0, 0, kolkata)

	got := FilterInvoices(all, Query{Range: RangeCustom, From: &from, To: &to}, now, kolkata)
	assert.Equal(t, []string{"NZ-00004", "NZ-00003"}, numbers(got))

	got = FilterInvoices(all, Query{Range: RangeCustom, To: &to}, now, kolkata)
	assert.Equal(t, []string{"NZ-00004", "NZ-00003", "NZ-00002", "NZ-00001"}, numbers(got))
}

func TestFilterInvoicesSearchAndStatusAreConjunctive(t *testing.T) {
	now := time.Date(2024, 3, 20, 15, 0, 0, 0, kolkata)
	all := fixture(now)

	got := FilterInvoices(all, Query{Search: "ASHA"}, now, kolkata)
	assert.Equal(t, []string{"NZ-00005", "NZ-00003"}, numbers(got))

	got = FilterInvoices(all, Query{Search: "asha", Status: billing.StatusPaid}, now, kolkata)
	assert.Equal(t, []string{"NZ-00005"}, numbers(got))

	got = FilterInvoices(all, Query{Search: "asha", Range: RangeWeek, Status: billing.StatusCancelled}, now, kolkata)
	assert.Empty(t, got)

	got = FilterInvoices(all, Query{Search: "nz-0000"}, now, kolkata)
	assert.Len(t, got, 5)

	got = FilterInvoices(all, Query{Search: "91234"}, now, kolkata)
	assert.Equal(t, []string{"NZ-00004"}, numbers(got))
}

func TestParseQuery(t *testing.T) {
	q, err := ParseQuery(url.Values{"search": {" asha "}, "status": {"all"}}, kolkata)
	require.NoError(t, err)
	assert.Equal(t, "asha", q.Search)
	assert.Equal(t, RangeAll, q.Range)
	assert.Empty(t, q.Status)

	q, err = ParseQuery(url.Values{"from": {"10/03/2024"}, "to": {"2024-03-17"}, "status": {"Paid"}}, kolkata)
	require.NoError(t, err)
	assert.Equal(t, RangeCustom, q.Range)
	require.NotNil(t, q.From)
	assert.Equal(t, time.March, q.From.Month())
	assert.Equal(t, 10, q.From.Day())
	assert.Equal(t, billing.StatusPaid, q.Status)

	_, err = ParseQuery(url.Values{"range": {"year"}}, kolkata)
	require.ErrorIs(t, err, shared.ErrValidation)
	_, err = ParseQuery(url.Values{"status": {"void"}}, kolkata)
	require.ErrorIs(t, err, shared.ErrValidation)
	_, err = ParseQuery(url.Values{"from": {"yesterday"}}, kolkata)
	require.ErrorIs(t, err, shared.ErrValidation)
}
