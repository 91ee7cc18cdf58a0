package documents

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nazaara/billing/internal/billing"
	"github.com/nazaara/billing/internal/categories"
	"github.com/nazaara/billing/internal/settings"
)

var ist = time.FixedZone("IST", 5*3600+1800)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleInvoice() billing.Invoice {
	notes := "Alteration on Friday"
	return billing.Invoice{
		ID:            uuid.New(),
		InvoiceNumber: "NZ-00007",
		CustomerName:  "Asha Rao",
		CustomerPhone: "9876543210",
		Status:        billing.StatusPaid,
		Items: []billing.Item{
			{Category: "kurti", Description: "Cotton", Quantity: 2, UnitPrice: dec("500"), LineTotal: dec("1000")},
			{Category: "lehenga", Quantity: 1, UnitPrice: dec("250"), LineTotal: dec("250")},
		},
		Subtotal:       dec("1250"),
		DiscountType:   billing.DiscountPercent,
		DiscountValue:  dec("10"),
		DiscountAmount: dec("125"),
		Total:          dec("1125"),
		Notes:          &notes,
		CreatedAt:      time.Date(2024, 3, 1, 10, 0, 0, 0, ist),
	}
}

func sampleSettings() settings.Settings {
	s := settings.Defaults()
	phone := "98765 00000"
	s.Phone = &phone
	return s
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "Rs. 1,234.00", FormatMoney(dec("1234"), "INR"))
	assert.Equal(t, "Rs. 12.50", FormatMoney(dec("12.5"), ""))
	assert.Equal(t, "Rs. 0.00", FormatMoney(decimal.Zero, "inr"))
	assert.Equal(t, "USD 12.00", FormatMoney(dec("12"), "usd"))
	assert.Equal(t, "AED 1234.57", FormatMoney(dec("1234.567"), "AED"))
}

func TestWhatsAppMessage(t *testing.T) {
	want := strings.Join([]string{
		"*Nazaara*",
		"_Exclusive Fashion & Style_",
		"Tel: 98765 00000",
		"",
		"----------------------------",
		"*INVOICE: NZ-00007*",
		"Date: 1/3/2024",
		"----------------------------",
		"",
		"*Customer:* Asha Rao",
		"*Phone:* 9876543210",
		"",
		"*Items:*",
		"",
		"1. Kurti - Cotton",
		"   Qty: 2 x Rs. 500.00 = Rs. 1,000.00",
		"2. lehenga",
		"   Qty: 1 x Rs. 250.00 = Rs. 250.00",
		"",
		"----------------------------",
		"*Subtotal:* Rs. 1,250.00",
		"*Discount (10%):* -Rs. 125.00",
		"",
		"*TOTAL: Rs. 1,125.00*",
		"----------------------------",
		"",
		"Thank you for shopping with us :)",
		"",
		"_Exchange is applicable only within 2 days_",
		"_No exchange on jewellery and sale items._",
	}, "\n")

	got := WhatsAppMessage(sampleInvoice(), sampleSettings(), nil, ist)
	assert.Equal(t, want, got)
}

func TestWhatsAppMessageUsesStoredLabelsAndSkipsZeroDiscount(t *testing.T) {
	inv := sampleInvoice()
	inv.DiscountValue = decimal.Zero
	inv.DiscountAmount = decimal.Zero
	inv.Total = inv.Subtotal
	cats := []categories.Category{{CategoryID: "lehenga", Label: "Lehenga Choli"}}

	got := WhatsAppMessage(inv, sampleSettings(), cats, ist)
	assert.Contains(t, got, "2. Lehenga Choli\n")
	assert.NotContains(t, got, "Discount")
	assert.Contains(t, got, "*TOTAL: Rs. 1,250.00*")
}

func TestWhatsAppMessageFixedDiscount(t *testing.T) {
	inv := sampleInvoice()
	inv.DiscountType = billing.DiscountFixed
	inv.DiscountValue = dec("100")
	inv.DiscountAmount = dec("100")

	got := WhatsAppMessage(inv, sampleSettings(), nil, ist)
	assert.Contains(t, got, "*Discount (Rs. 100.00):* -Rs. 100.00")
}

func TestWhatsAppPhone(t *testing.T) {
	cases := map[string]string{
		"9876543210":      "919876543210",
		"98765 43210":     "919876543210",
		"09876543210":     "919876543210",
		"+91 98765-43210": "919876543210",
		"9123456780":      "919123456780",
		"+44 7700 900123": "447700900123",
	}
	for in, want := range cases {
		assert.Equal(t, want, WhatsAppPhone(in, "91"), in)
	}
}

func TestWhatsAppLinks(t *testing.T) {
	msg := "*Nazaara*\nTotal: Rs. 1,125.00 & more"
	share := WhatsAppLinks("98765 43210", msg, "91")

	assert.Equal(t, "919876543210", share.Phone)
	require.True(t, strings.HasPrefix(share.WebURL, "https://wa.me/919876543210?text="))
	require.True(t, strings.HasPrefix(share.AppURL, "whatsapp://send?phone=919876543210&text="))
	assert.NotContains(t, share.WebURL, "+")

	encoded := strings.TrimPrefix(share.WebURL, "https://wa.me/919876543210?text=")
	decoded, err := url.QueryUnescape(encoded)
	require.NoError(t, err)
	assert.Equal(t, msg, decoded)
}
