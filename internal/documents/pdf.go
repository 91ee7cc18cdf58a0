package documents

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/nazaara/billing/internal/billing"
	"github.com/nazaara/billing/internal/categories"
	"github.com/nazaara/billing/internal/settings"
	"github.com/nazaara/billing/web"
)

const invoiceTemplate = "invoice_pdf.html"

// ErrRendererDisabled is returned when no Gotenberg endpoint is configured.
var ErrRendererDisabled = errors.New("pdf renderer not configured")

var errNoTemplates = errors.New("pdf renderer has no templates; build it with NewPDFRenderer")

// PDFRenderer wraps Gotenberg interactions for invoice PDF generation.
type PDFRenderer struct {
	Endpoint  string
	Client    *http.Client
	templates *template.Template
}

// NewPDFRenderer parses the embedded invoice template. An empty endpoint
// yields a nil renderer, which reports ErrRendererDisabled.
func NewPDFRenderer(endpoint string, client *http.Client) (*PDFRenderer, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, nil
	}
	tpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	return &PDFRenderer{Endpoint: endpoint, Client: client, templates: tpl}, nil
}

func parseTemplates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
	}
	tpl, err := template.New(invoiceTemplate).Funcs(funcMap).ParseFS(web.Templates, "templates/invoices/"+invoiceTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse invoice template: %w", err)
	}
	return tpl, nil
}

type pdfRow struct {
	Label       string
	Description string
	Quantity    int
	UnitPrice   string
	LineTotal   string
}

type pdfView struct {
	Invoice        billing.Invoice
	Settings       settings.Settings
	Date           string
	Rows           []pdfRow
	Subtotal       string
	DiscountLabel  string
	DiscountAmount string
	Total          string
}

func newPDFView(inv billing.Invoice, s settings.Settings, cats []categories.Category, loc *time.Location) pdfView {
	if loc == nil {
		loc = time.UTC
	}
	v := pdfView{
		Invoice:  inv,
		Settings: s,
		Date:     inv.CreatedAt.In(loc).Format("2 January 2006"),
		Subtotal: FormatMoney(inv.Subtotal, s.Currency),
		Total:    FormatMoney(inv.Total, s.Currency),
	}
	for _, it := range inv.Items {
		v.Rows = append(v.Rows, pdfRow{
			Label:       categories.LabelFor(it.Category, cats),
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   FormatMoney(it.UnitPrice, s.Currency),
			LineTotal:   FormatMoney(it.LineTotal, s.Currency),
		})
	}
	if inv.DiscountAmount.IsPositive() {
		v.DiscountLabel = discountLabel(inv.DiscountType == billing.DiscountPercent, inv.DiscountValue, s.Currency)
		v.DiscountAmount = FormatMoney(inv.DiscountAmount, s.Currency)
	}
	return v
}

// Render builds the invoice HTML, sends it to Gotenberg and returns the PDF bytes.
func (p *PDFRenderer) Render(ctx context.Context, inv billing.Invoice, s settings.Settings, cats []categories.Category, loc *time.Location) ([]byte, error) {
	if p == nil {
		return nil, ErrRendererDisabled
	}
	endpoint := strings.TrimRight(p.Endpoint, "/")
	if endpoint == "" {
		return nil, ErrRendererDisabled
	}
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	if p.templates == nil {
		return nil, errNoTemplates
	}

	html := &bytes.Buffer{}
	if err := p.templates.ExecuteTemplate(html, invoiceTemplate, newPDFView(inv, s, cats, loc)); err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("files", "index.html")
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, html); err != nil {
		return nil, err
	}
	// A5 portrait, sizes in inches.
	fields := [][2]string{
		{"paperWidth", "5.83"},
		{"paperHeight", "8.27"},
		{"marginTop", "0.4"},
		{"marginBottom", "0.4"},
		{"marginLeft", "0.4"},
		{"marginRight", "0.4"},
		{"printBackground", "true"},
	}
	for _, f := range fields {
		if err := writer.WriteField(f[0], f[1]); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"/forms/chromium/convert/html", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("gotenberg response %d: %s", resp.StatusCode, string(data))
	}
	return io.ReadAll(resp.Body)
}
