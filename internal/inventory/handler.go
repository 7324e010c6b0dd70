package inventory

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mercadito-pos/mercadito-pos/internal/platform/httpx"
)

// Handler serves the gateway's inventory endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes attaches inventory routes to the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/low", h.LowStock)
	r.Get("/movements", h.Movements)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	levels, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list inventory", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, levels)
}

func (h *Handler) LowStock(w http.ResponseWriter, r *http.Request) {
	levels, err := h.service.LowStock(r.Context())
	if err != nil {
		h.logger.Error("list low stock", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, levels)
}

func (h *Handler) Movements(w http.ResponseWriter, r *http.Request) {
	movements, err := h.service.Movements(r.Context())
	if err != nil {
		h.logger.Error("list movements", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, movements)
}
