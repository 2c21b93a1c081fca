package handlers

import (
	"net/http"
	"strconv"

	"github.com/arthurmateu/throxy-project/internal/application/services"
)

// PromptsHandler handles the prompt version API endpoints
type PromptsHandler struct {
	prompts *services.PromptService
}

func NewPromptsHandler(prompts *services.PromptService) *PromptsHandler {
	return &PromptsHandler{prompts: prompts}
}

// List handles GET /api/v1/prompts
func (h *PromptsHandler) List(w http.ResponseWriter, r *http.Request) {
	versions, err := h.prompts.History(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, versions, http.StatusOK)
}

// Activate handles POST /api/v1/prompts/{version}/activate
func (h *PromptsHandler) Activate(w http.ResponseWriter, r *http.Request) {
	raw, ok := validateURLParam(r, w, "version", "version")
	if !ok {
		return
	}
	version, err := strconv.Atoi(raw)
	if err != nil || version < 1 {
		respondError(w, "invalid_request", "version must be a positive integer", http.StatusBadRequest)
		return
	}

	if err := h.prompts.Activate(r.Context(), version); err != nil {
		respondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
