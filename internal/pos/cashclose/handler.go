package cashclose

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mercadito-pos/mercadito-pos/internal/ledger"
	"github.com/mercadito-pos/mercadito-pos/internal/platform/httpx"
)

// Handler serves the end-of-day reconciliation endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes attaches cash close routes to the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/summary", h.Summary)
	r.Post("/", h.Close)
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.service.Summary(r.Context())
	if err != nil {
		h.logger.Error("cash close summary", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, sum)
}

func (h *Handler) Close(w http.ResponseWriter, r *http.Request) {
	var req CloseRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	closing, err := h.service.Close(r.Context(), req)
	if err != nil {
		h.logger.Error("cash close", slog.Any("error", err))
		if errors.Is(err, ledger.ErrDayClosed) {
			httpx.Problem(w, http.StatusConflict, "Day Closed", err.Error())
			return
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, closing)
}
