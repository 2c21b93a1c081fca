package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/arthurmateu/throxy-project/internal/adapters/http/dto"
	"github.com/arthurmateu/throxy-project/internal/domain"
)

// respondJSON writes a JSON response with the given status code
func respondJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error JSON response
func respondError(w http.ResponseWriter, errorType string, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.NewErrorResponse(errorType, message, status))
}

// respondDomainError maps well-known domain errors onto HTTP statuses;
// anything unrecognized is a 500.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUnknownProvider),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrEmptyEvalSet),
		errors.Is(err, domain.ErrInvalidOptConfig),
		errors.Is(err, domain.ErrEmptyContent):
		respondError(w, "invalid_request", err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrNoCredential):
		respondError(w, "missing_credential", err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrPromptNotFound):
		respondError(w, "not_found", err.Error(), http.StatusNotFound)
	default:
		respondError(w, "internal_error", err.Error(), http.StatusInternalServerError)
	}
}

// validateURLParam validates and returns a URL parameter
func validateURLParam(r *http.Request, w http.ResponseWriter, paramName, errorField string) (string, bool) {
	value := chi.URLParam(r, paramName)
	if value == "" {
		respondError(w, "invalid_request", errorField+" is required", http.StatusBadRequest)
		return "", false
	}
	return value, true
}

// decodeJSON decodes JSON request body with error handling
func decodeJSON[T any](r *http.Request, w http.ResponseWriter) (*T, bool) {
	// Add request body size limit
	r.Body = http.MaxBytesReader(w, r.Body, 1024*1024) // 1MB limit

	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid_request", "Invalid request body", http.StatusBadRequest)
		return nil, false
	}
	return &req, true
}
