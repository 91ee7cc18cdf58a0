package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/nazaara/billing/internal/categories"
	"github.com/nazaara/billing/internal/customers"
	"github.com/nazaara/billing/internal/documents"
	"github.com/nazaara/billing/internal/invoices"
	"github.com/nazaara/billing/internal/observability"
	"github.com/nazaara/billing/internal/platform/httpx"
	"github.com/nazaara/billing/internal/products"
	"github.com/nazaara/billing/internal/reports"
	"github.com/nazaara/billing/internal/settings"
)

// Pinger reports storage health for /healthz.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	Metrics           *observability.Metrics
	Health            []Pinger
	CustomersHandler  *customers.Handler
	InvoicesHandler   *invoices.Handler
	DocumentsHandler  *documents.Handler
	ProductsHandler   *products.Handler
	CategoriesHandler *categories.Handler
	SettingsHandler   *settings.Handler
	ReportsHandler    *reports.Handler
}

// NewRouter constructs the chi.Router with the billing API mounted under /api.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.Message(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.Message(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		for _, p := range params.Health {
			if err := p.Ping(ctx); err != nil {
				params.Logger.Warn("health check failed", slog.Any("error", err))
				httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(APIKey(params.Config, params.Logger))

		if params.CustomersHandler != nil {
			r.Route("/customers", params.CustomersHandler.MountRoutes)
		}
		r.Route("/invoices", func(r chi.Router) {
			if params.InvoicesHandler != nil {
				params.InvoicesHandler.MountRoutes(r)
			}
			if params.DocumentsHandler != nil {
				params.DocumentsHandler.MountRoutes(r)
			}
		})
		if params.ProductsHandler != nil {
			r.Route("/products", params.ProductsHandler.MountRoutes)
		}
		if params.CategoriesHandler != nil {
			r.Route("/categories", params.CategoriesHandler.MountRoutes)
		}
		if params.SettingsHandler != nil {
			r.Route("/settings", params.SettingsHandler.MountRoutes)
		}
		if params.ReportsHandler != nil {
			r.Route("/reports", params.ReportsHandler.MountRoutes)
		}
	})

	return r
}
