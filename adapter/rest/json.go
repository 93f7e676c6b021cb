package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/RichardKnop/casedocs"
	"github.com/RichardKnop/casedocs/api"
)

const maxRequestBody = 1 << 20

func renderJSON(w http.ResponseWriter, v any) {
	renderJSONStatus(w, http.StatusOK, v)
}

func renderJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func renderJSONError(w http.ResponseWriter, status int, err error) {
	renderJSONStatus(w, status, api.Error{Message: err.Error()})
}

func readRequestJSON(r *http.Request, v any) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// renderServiceError maps service errors to HTTP statuses. Unexpected errors
// are logged and hidden from the client.
func (a *Adapter) renderServiceError(w http.ResponseWriter, err error, msg string) {
	switch {
	case errors.Is(err, casedocs.ErrInvalidArgument):
		renderJSONError(w, http.StatusBadRequest, err)
	case errors.Is(err, casedocs.ErrForbidden):
		renderJSONError(w, http.StatusForbidden, err)
	case errors.Is(err, casedocs.ErrNotFound):
		renderJSONError(w, http.StatusNotFound, err)
	case errors.Is(err, casedocs.ErrUnavailable):
		renderJSONError(w, http.StatusServiceUnavailable, err)
	default:
		a.logger.Sugar().With("error", err).Error(msg)
		renderJSONError(w, http.StatusInternalServerError, errors.New(msg))
	}
}

// ParamErrorHandler renders parameter binding errors as JSON.
func ParamErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	renderJSONError(w, http.StatusBadRequest, err)
}
