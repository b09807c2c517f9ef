package http

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"strings"

	"budgebuddy/internal/core"
	"budgebuddy/internal/log"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func respondError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	if status >= 500 {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "request failed",
			log.FieldPath, r.URL.Path, log.FieldError, msg)
	}
	respondJSON(w, status, errorResponse{Error: msg})
}

// respondDomainError maps domain errors onto HTTP status codes:
// validation failures are 422, missing records 404, anything else 500.
func respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case isValidationError(err):
		respondError(w, r, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, core.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		respondError(w, r, http.StatusNotFound, err.Error())
	default:
		respondError(w, r, http.StatusInternalServerError, err.Error())
	}
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		core.ErrNegativeAmount,
		core.ErrInvalidKind,
		core.ErrEmptyCategory,
		core.ErrZeroDate,
		core.ErrInvalidMonth,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondError(w, r, http.StatusMethodNotAllowed, "method not allowed")
}

// sanitizeInput trims whitespace and strips control characters.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
