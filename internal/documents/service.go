package documents

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/nazaara/billing/internal/billing"
	"github.com/nazaara/billing/internal/categories"
	"github.com/nazaara/billing/internal/settings"
)

type InvoiceSource interface {
	Get(ctx context.Context, id uuid.UUID) (*billing.Invoice, error)
}

type SettingsSource interface {
	Get(ctx context.Context) (*settings.Settings, error)
}

type CategorySource interface {
	List(ctx context.Context) ([]categories.Category, error)
}

// Service assembles the inputs of an invoice document.
type Service struct {
	invoices    InvoiceSource
	settings    SettingsSource
	categories  CategorySource
	renderer    *PDFRenderer
	loc         *time.Location
	countryCode string
}

func NewService(inv InvoiceSource, s SettingsSource, c CategorySource, renderer *PDFRenderer, loc *time.Location, countryCode string) *Service {
	if loc == nil {
		loc = time.UTC
	}
	if countryCode == "" {
		countryCode = "91"
	}
	return &Service{invoices: inv, settings: s, categories: c, renderer: renderer, loc: loc, countryCode: countryCode}
}

type bundle struct {
	invoice    billing.Invoice
	settings   settings.Settings
	categories []categories.Category
}

// load fetches the invoice, the settings and the category list concurrently.
func (s *Service) load(ctx context.Context, id uuid.UUID) (bundle, error) {
	var b bundle
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		inv, err := s.invoices.Get(ctx, id)
		if err != nil {
			return err
		}
		b.invoice = *inv
		return nil
	})
	g.Go(func() error {
		st, err := s.settings.Get(ctx)
		if err != nil {
			return err
		}
		b.settings = *st
		return nil
	})
	g.Go(func() error {
		cats, err := s.categories.List(ctx)
		if err != nil {
			return err
		}
		b.categories = cats
		return nil
	})
	if err := g.Wait(); err != nil {
		return bundle{}, err
	}
	return b, nil
}

// WhatsApp returns the invoice message with deep links to the customer.
func (s *Service) WhatsApp(ctx context.Context, id uuid.UUID) (Share, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return Share{}, err
	}
	msg := WhatsAppMessage(b.invoice, b.settings, b.categories, s.loc)
	return WhatsAppLinks(b.invoice.CustomerPhone, msg, s.countryCode), nil
}

// PDF renders the invoice and returns the document with its file name.
func (s *Service) PDF(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	if s.renderer == nil {
		return nil, "", ErrRendererDisabled
	}
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, "", err
	}
	data, err := s.renderer.Render(ctx, b.invoice, b.settings, b.categories, s.loc)
	if err != nil {
		return nil, "", err
	}
	return data, b.invoice.InvoiceNumber + ".pdf", nil
}
