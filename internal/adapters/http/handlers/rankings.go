package handlers

import (
	"net/http"

	"github.com/arthurmateu/throxy-project/internal/ports"
)

// RankingsHandler handles the ranking batch API endpoints
type RankingsHandler struct {
	startRanking ports.StartRankingUseCase
	rankings     ports.RankingRepository
}

func NewRankingsHandler(startRanking ports.StartRankingUseCase, rankings ports.RankingRepository) *RankingsHandler {
	return &RankingsHandler{
		startRanking: startRanking,
		rankings:     rankings,
	}
}

// StartRankingRequest represents a request to start a ranking batch
type StartRankingRequest struct {
	Provider  string `json:"provider"`
	SessionID string `json:"sessionId,omitempty"`
}

// StartRankingResponse carries the id the client polls progress with
type StartRankingResponse struct {
	BatchID string `json:"batchId"`
}

// Start handles POST /api/v1/rankings
func (h *RankingsHandler) Start(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeJSON[StartRankingRequest](r, w)
	if !ok {
		return
	}
	if req.Provider == "" {
		respondError(w, "invalid_request", "provider is required", http.StatusBadRequest)
		return
	}

	batchID, err := h.startRanking.Execute(r.Context(), ports.StartRankingInput{
		Provider:  ports.Provider(req.Provider),
		SessionID: req.SessionID,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, StartRankingResponse{BatchID: batchID}, http.StatusAccepted)
}

// Progress handles GET /api/v1/rankings/progress/{batchId}
func (h *RankingsHandler) Progress(w http.ResponseWriter, r *http.Request) {
	batchID, ok := validateURLParam(r, w, "batchId", "batchId")
	if !ok {
		return
	}

	respondJSON(w, h.startRanking.Progress(batchID), http.StatusOK)
}

// List handles GET /api/v1/rankings
func (h *RankingsHandler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.rankings.List(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, rows, http.StatusOK)
}
