package handlers

import (
	"net/http"

	"github.com/arthurmateu/throxy-project/internal/application/services"
	"github.com/arthurmateu/throxy-project/internal/domain/models"
	"github.com/arthurmateu/throxy-project/internal/ports"
)

// CostsHandler handles the call-cost reporting endpoint
type CostsHandler struct {
	costs    ports.CallCostRepository
	sessions *services.SessionStore
}

func NewCostsHandler(costs ports.CallCostRepository, sessions *services.SessionStore) *CostsHandler {
	return &CostsHandler{costs: costs, sessions: sessions}
}

// Summary handles GET /api/v1/costs. With a session query parameter the
// aggregate covers only that session's batches; a session with no batches
// reads as zero without touching storage.
func (h *CostsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	var batchIDs []string
	if sessionID := r.URL.Query().Get("session"); sessionID != "" {
		batchIDs = h.sessions.BatchIDs(sessionID)
		if len(batchIDs) == 0 {
			respondJSON(w, &models.CostSummary{}, http.StatusOK)
			return
		}
	}

	summary, err := h.costs.Summarize(r.Context(), batchIDs)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, summary, http.StatusOK)
}
