package reports

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nazaara/billing/internal/platform/httpx"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/daily", h.daily)
	r.Get("/customers/{customerId}", h.customer)
}

func (h *Handler) daily(w http.ResponseWriter, r *http.Request) {
	day := h.service.Today()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, ok := ParseDate(raw, h.service.Location())
		if !ok {
			httpx.Error(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		day = parsed
	}
	summary, err := h.service.Daily(r.Context(), day)
	if err != nil {
		httpx.RespondError(w, h.logger, err, "Failed to compute daily summary")
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

func (h *Handler) customer(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "customerId"))
	if err != nil {
		httpx.Error(w, http.StatusNotFound, "Customer not found")
		return
	}
	total, err := h.service.CustomerLifetime(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, h.logger, err, "Failed to compute customer total")
		return
	}
	httpx.JSON(w, http.StatusOK, total)
}
