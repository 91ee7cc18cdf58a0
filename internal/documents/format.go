// Package documents renders invoices for customers: a WhatsApp text with
// deep links, and a PDF produced by Gotenberg.
package documents

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var indianPrinter = message.NewPrinter(language.MustParse("en-IN"))

// FormatMoney renders amount for display. INR uses the "Rs." prefix with
// Indian digit grouping; other currencies print the code and two decimals.
func FormatMoney(amount decimal.Decimal, currency string) string {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" || currency == "INR" {
		return "Rs. " + indianPrinter.Sprintf("%.2f", amount.Round(2).InexactFloat64())
	}
	return currency + " " + amount.StringFixed(2)
}

// discountLabel is "10%" for percent discounts and a money amount otherwise.
func discountLabel(percent bool, value decimal.Decimal, currency string) string {
	if percent {
		return value.String() + "%"
	}
	return FormatMoney(value, currency)
}
