package documents

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nazaara/billing/internal/invoices"
	"github.com/nazaara/billing/internal/platform/httpx"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers the document endpoints under an invoice router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/{id}/whatsapp", h.whatsapp)
	r.Get("/{id}/pdf", h.pdf)
}

func (h *Handler) whatsapp(w http.ResponseWriter, r *http.Request) {
	id, ok := invoices.InvoiceID(w, r)
	if !ok {
		return
	}
	share, err := h.service.WhatsApp(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, h.logger, err, "Failed to build WhatsApp message")
		return
	}
	httpx.JSON(w, http.StatusOK, share)
}

func (h *Handler) pdf(w http.ResponseWriter, r *http.Request) {
	id, ok := invoices.InvoiceID(w, r)
	if !ok {
		return
	}
	data, name, err := h.service.PDF(r.Context(), id)
	if errors.Is(err, ErrRendererDisabled) {
		httpx.Error(w, http.StatusServiceUnavailable, "PDF rendering is not configured")
		return
	}
	if err != nil {
		httpx.RespondError(w, h.logger, err, "Failed to render invoice PDF")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
