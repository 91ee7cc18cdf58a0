// Package reports derives read-only views over the invoice collection.
package reports

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nazaara/billing/internal/billing"
)

// DailySummary aggregates one local calendar day of non-cancelled invoices.
type DailySummary struct {
	Date          string          `json:"date"`
	TotalSales    decimal.Decimal `json:"totalSales"`
	InvoiceCount  int             `json:"invoiceCount"`
	PaidAmount    decimal.Decimal `json:"paidAmount"`
	PendingAmount decimal.Decimal `json:"pendingAmount"`
}

// CustomerTotal is the lifetime spend of one customer.
type CustomerTotal struct {
	CustomerID   uuid.UUID       `json:"customerId"`
	Total        decimal.Decimal `json:"total"`
	InvoiceCount int             `json:"invoiceCount"`
}

// Summarize computes the DailySummary for day in loc. Cancelled invoices are
// left out of every figure, including the count.
func Summarize(invoices []billing.Invoice, day time.Time, loc *time.Location) DailySummary {
	start := StartOfDay(day, loc)
	end := start.AddDate(0, 0, 1)
	s := DailySummary{
		Date:          start.Format("2006-01-02"),
		TotalSales:    decimal.Zero,
		PaidAmount:    decimal.Zero,
		PendingAmount: decimal.Zero,
	}
	for _, inv := range invoices {
		if inv.Status == billing.StatusCancelled {
			continue
		}
		if inv.CreatedAt.Before(start) || !inv.CreatedAt.Before(end) {
			continue
		}
		s.TotalSales = s.TotalSales.Add(inv.Total)
		s.InvoiceCount++
		switch inv.Status {
		case billing.StatusPaid:
			s.PaidAmount = s.PaidAmount.Add(inv.Total)
		case billing.StatusPending:
			s.PendingAmount = s.PendingAmount.Add(inv.Total)
		}
	}
	return s
}

// LifetimeTotal sums every invoice of customerID regardless of status;
// cancelled invoices count here even though Summarize drops them.
func LifetimeTotal(invoices []billing.Invoice, customerID uuid.UUID) CustomerTotal {
	out := CustomerTotal{CustomerID: customerID, Total: decimal.Zero}
	for _, inv := range invoices {
		if inv.CustomerID == nil || *inv.CustomerID != customerID {
			continue
		}
		out.Total = out.Total.Add(inv.Total)
		out.InvoiceCount++
	}
	return out
}
