package httpx

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/mercadito-pos/mercadito-pos/internal/backend"
)

// Sentinel errors for the service layer.
var (
	ErrNotFound   = errors.New("resource not found")
	ErrValidation = errors.New("validation failed")
	ErrInvalidID  = errors.New("invalid id")
)

// RespondError maps service and upstream errors to problem responses.
// Upstream statuses pass through unchanged, with the upstream's error
// payload preserved as opaque detail.
func RespondError(w http.ResponseWriter, err error) {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		status := apiErr.Status
		if status < 400 {
			status = http.StatusBadGateway
		}
		JSON(w, status, ProblemDetail{
			Title:  "Upstream Error",
			Status: status,
			Detail: apiErr.Detail(),
		})
		return
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		Problem(w, http.StatusBadRequest, "Validation Failed", fieldErrs.Error())
		return
	}

	switch {
	case errors.Is(err, ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrInvalidID):
		Problem(w, http.StatusBadRequest, "Invalid ID", err.Error())
	case errors.Is(err, ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
