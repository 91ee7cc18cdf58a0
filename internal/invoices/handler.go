package invoices

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nazaara/billing/internal/platform/httpx"
	"github.com/nazaara/billing/internal/reports"
	"github.com/nazaara/billing/internal/shared"
)

type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *httpx.Validator
}

func NewHandler(logger *slog.Logger, service *Service, validator *httpx.Validator) *Handler {
	return &Handler{logger: logger, service: service, validator: validator}
}

// MountRoutes registers the invoice endpoints on r.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/customer/{customerId}", h.ListByCustomer)
	r.Get("/{id}", h.Show)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q, err := reports.ParseQuery(r.URL.Query(), h.service.loc)
	if err != nil {
		httpx.RespondError(w, h.logger, err, "Failed to fetch invoices")
		return
	}
	invoices, err := h.service.List(r.Context(), q)
	if err != nil {
		httpx.RespondError(w, h.logger, err, "Failed to fetch invoices")
		return
	}
	httpx.JSON(w, http.StatusOK, invoices)
}

func (h *Handler) ListByCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "customerId"))
	if err != nil {
		// An id that cannot exist owns no invoices.
		httpx.JSON(w, http.StatusOK, []struct{}{})
		return
	}
	invoices, err := h.service.ListByCustomer(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, h.logger, err, "Failed to fetch invoices")
		return
	}
	httpx.JSON(w, http.StatusOK, invoices)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := InvoiceID(w, r)
	if !ok {
		return
	}
	inv, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, h.logger, err, "Failed to fetch invoice")
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateInvoiceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, h.logger, err, "Failed to create invoice")
		return
	}
	inv, err := h.service.Create(r.Context(), req)
	if err != nil {
		httpx.RespondError(w, h.logger, err, "Failed to create invoice")
		return
	}
	httpx.JSON(w, http.StatusCreated, inv)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := InvoiceID(w, r)
	if !ok {
		return
	}
	var req UpdateInvoiceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, h.logger, err, "Failed to update invoice")
		return
	}
	inv, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		httpx.RespondError(w, h.logger, err, "Failed to update invoice")
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := InvoiceID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, h.logger, err, "Failed to delete invoice")
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.SuccessBody{Success: true})
}

// InvoiceID parses the {id} path parameter, answering 404 when it is not a uuid.
func InvoiceID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, nil, shared.NotFound(msgNotFound), "")
		return uuid.Nil, false
	}
	return id, true
}
