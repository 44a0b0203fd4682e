package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"financas/internal/core"
)

// errorBody is the uniform error shape of every non-2xx JSON response.
type errorBody struct {
	Error            string                            `json:"error"`
	ValidationErrors map[string][]core.ValidationError `json:"validationErrors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Error: message})
}

// respondError maps domain errors onto the HTTP taxonomy: authorization,
// caller mistakes, missing references, everything else. Handlers never
// choose status codes themselves.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var failed *core.ValidationFailedError
	if errors.As(err, &failed) {
		writeJSON(w, http.StatusBadRequest, errorBody{
			Error:            failed.Error(),
			ValidationErrors: failed.Errors,
		})
		return
	}

	switch {
	case errors.Is(err, core.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, core.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, core.ErrInvalidStructure),
		errors.Is(err, core.ErrIncompatibleVersion),
		errors.Is(err, core.ErrChecksumMismatch),
		errors.Is(err, core.ErrConfirmationRequired),
		errors.Is(err, core.ErrTooManyInstallments),
		errors.Is(err, core.ErrInvalidInstallment),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrInvalidType),
		errors.Is(err, core.ErrEmptyDescription):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		slog.ErrorContext(r.Context(), "Request failed",
			"request_id", requestIDFrom(r.Context()),
			"method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
