package documents

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/nazaara/billing/internal/billing"
	"github.com/nazaara/billing/internal/categories"
	"github.com/nazaara/billing/internal/settings"
)

const rule = "----------------------------"

var footer = []string{
	"Thank you for shopping with us :)",
	"",
	"_Exchange is applicable only within 2 days_",
	"_No exchange on jewellery and sale items._",
}

// Share is a ready-to-send WhatsApp message for one invoice.
type Share struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
	WebURL  string `json:"webUrl"`
	AppURL  string `json:"appUrl"`
}

// WhatsAppMessage renders inv as WhatsApp-formatted text. Dates are shown in loc.
func WhatsAppMessage(inv billing.Invoice, s settings.Settings, cats []categories.Category, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	line("*%s*", s.ShopName)
	if s.Tagline != nil && *s.Tagline != "" {
		line("_%s_", *s.Tagline)
	}
	if s.Address != nil && *s.Address != "" {
		line("%s", *s.Address)
	}
	if s.Phone != nil && *s.Phone != "" {
		line("Tel: %s", *s.Phone)
	}
	if s.GSTNumber != nil && *s.GSTNumber != "" {
		line("GST: %s", *s.GSTNumber)
	}
	line("")
	line(rule)
	line("*INVOICE: %s*", inv.InvoiceNumber)
	line("Date: %s", inv.CreatedAt.In(loc).Format("2/1/2006"))
	line(rule)
	line("")
	line("*Customer:* %s", inv.CustomerName)
	line("*Phone:* %s", inv.CustomerPhone)
	line("")
	line("*Items:*")
	line("")
	for i, it := range inv.Items {
		label := categories.LabelFor(it.Category, cats)
		if it.Description != "" {
			label += " - " + it.Description
		}
		line("%d. %s", i+1, label)
		line("   Qty: %d x %s = %s", it.Quantity,
			FormatMoney(it.UnitPrice, s.Currency), FormatMoney(it.LineTotal, s.Currency))
	}
	line("")
	line(rule)
	line("*Subtotal:* %s", FormatMoney(inv.Subtotal, s.Currency))
	if inv.DiscountValue.IsPositive() {
		line("*Discount (%s):* -%s",
			discountLabel(inv.DiscountType == billing.DiscountPercent, inv.DiscountValue, s.Currency),
			FormatMoney(inv.DiscountAmount, s.Currency))
	}
	line("")
	line("*TOTAL: %s*", FormatMoney(inv.Total, s.Currency))
	line(rule)
	line("")
	b.WriteString(strings.Join(footer, "\n"))
	return b.String()
}

// WhatsAppPhone reduces phone to digits and adds countryCode: a leading zero
// is replaced by it and a bare ten-digit number is prefixed with it.
func WhatsAppPhone(phone, countryCode string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	if strings.HasPrefix(digits, "0") {
		digits = countryCode + digits[1:]
	}
	if len(digits) == 10 {
		digits = countryCode + digits
	}
	return digits
}

// WhatsAppLinks builds the web and app deep links for message to phone.
func WhatsAppLinks(phone, message, countryCode string) Share {
	to := WhatsAppPhone(phone, countryCode)
	text := encodeURIComponent(message)
	return Share{
		Phone:   to,
		Message: message,
		WebURL:  "https://wa.me/" + to + "?text=" + text,
		AppURL:  "whatsapp://send?phone=" + to + "&text=" + text,
	}
}

// encodeURIComponent escapes s for a query value with spaces as %20.
func encodeURIComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
