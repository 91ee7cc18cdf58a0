package reports

import (
	"net/url"
	"strings"
	"time"

	"github.com/nazaara/billing/internal/billing"
	"github.com/nazaara/billing/internal/shared"
)

// Range selects a creation-date window.
type Range string

const (
	RangeAll    Range = "all"
	RangeToday  Range = "today"
	RangeWeek   Range = "week"
	RangeMonth  Range = "month"
	RangeCustom Range = "custom"
)

// Query is the conjunction of filters applied to an invoice list. Zero
// values disable the corresponding filter.
type Query struct {
	Search string
	Range  Range
	From   *time.Time
	To     *time.Time
	Status billing.Status
}

var dateLayouts = []string{"2006-01-02", "02/01/2006"}

// ParseDate reads a calendar day as YYYY-MM-DD or DD/MM/YYYY in loc.
func ParseDate(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseQuery builds a Query from URL parameters search, range, from, to, status.
func ParseQuery(values url.Values, loc *time.Location) (Query, error) {
	q := Query{
		Search: strings.TrimSpace(values.Get("search")),
		Range:  Range(strings.ToLower(strings.TrimSpace(values.Get("range")))),
	}
	switch q.Range {
	case "":
		q.Range = RangeAll
	case RangeAll, RangeToday, RangeWeek, RangeMonth, RangeCustom:
	default:
		return Query{}, shared.Validation("range must be one of: all, today, week, month, custom")
	}

	if raw := values.Get("from"); raw != "" {
		t, ok := ParseDate(raw, loc)
		if !ok {
			return Query{}, shared.Validation("from must be a date (YYYY-MM-DD)")
		}
		q.From = &t
	}
	if raw := values.Get("to"); raw != "" {
		t, ok := ParseDate(raw, loc)
		if !ok {
			return Query{}, shared.Validation("to must be a date (YYYY-MM-DD)")
		}
		q.To = &t
	}
	if (q.From != nil || q.To != nil) && q.Range == RangeAll {
		q.Range = RangeCustom
	}

	status := strings.ToLower(strings.TrimSpace(values.Get("status")))
	if status != "" && status != "all" {
		q.Status = billing.Status(status)
		if !q.Status.Valid() {
			return Query{}, shared.Validation("status must be one of: all, paid, pending, cancelled")
		}
	}
	return q, nil
}

// StartOfDay returns local midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// FilterInvoices keeps the invoices matching every filter in q, preserving order.
func FilterInvoices(invoices []billing.Invoice, q Query, now time.Time, loc *time.Location) []billing.Invoice {
	search := strings.ToLower(q.Search)
	lower, upper := window(q, now, loc)

	out := make([]billing.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		if search != "" &&
			!strings.Contains(strings.ToLower(inv.CustomerName), search) &&
			!strings.Contains(strings.ToLower(inv.CustomerPhone), search) &&
			!strings.Contains(strings.ToLower(inv.InvoiceNumber), search) {
			continue
		}
		if !lower.IsZero() && inv.CreatedAt.Before(lower) {
			continue
		}
		if !upper.IsZero() && !inv.CreatedAt.Before(upper) {
			continue
		}
		if q.Status != "" && inv.Status != q.Status {
			continue
		}
		out = append(out, inv)
	}
	return out
}

// window returns the inclusive lower and exclusive upper bound; zero means unbounded.
func window(q Query, now time.Time, loc *time.Location) (time.Time, time.Time) {
	today := StartOfDay(now, loc)
	switch q.Range {
	case RangeToday:
		return today, time.Time{}
	case RangeWeek:
		return today.AddDate(0, 0, -7), time.Time{}
	case RangeMonth:
		return today.AddDate(0, 0, -30), time.Time{}
	case RangeCustom:
		var lower, upper time.Time
		if q.From != nil {
			lower = StartOfDay(*q.From, loc)
		}
		if q.To != nil {
			upper = StartOfDay(*q.To, loc).AddDate(0, 0, 1)
		}
		return lower, upper
	}
	return time.Time{}, time.Time{}
}
