package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/acornlabs/squirreldex/pkg/squirreldex"
)

// ErrorResponse is the JSON body returned for failed requests
type ErrorResponse struct {
	Message string `json:"message"`
}

// renderError maps core errors onto HTTP statuses. Anything not in the
// client-error taxonomy is a 500.
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, squirreldex.ErrSquirrelNotFound),
		errors.Is(err, squirreldex.ErrAssetNotFound):
		status = http.StatusNotFound
	case errors.Is(err, squirreldex.ErrUnsupportedMediaType):
		status = http.StatusUnsupportedMediaType
	case errors.Is(err, squirreldex.ErrUnknownMediaType):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, squirreldex.ErrValidationFailed):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
	}

	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Message: err.Error()})
}

func renderBadRequest(w http.ResponseWriter, r *http.Request, message string) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, ErrorResponse{Message: message})
}
