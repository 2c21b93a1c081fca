package handlers

import (
	"net/http"

	"github.com/arthurmateu/throxy-project/internal/domain/models"
	"github.com/arthurmateu/throxy-project/internal/ports"
)

// OptimizationsHandler handles the prompt optimization API endpoints
type OptimizationsHandler struct {
	startOptimization ports.StartOptimizationUseCase
}

func NewOptimizationsHandler(startOptimization ports.StartOptimizationUseCase) *OptimizationsHandler {
	return &OptimizationsHandler{startOptimization: startOptimization}
}

// StartOptimizationRequest represents a request to start an optimizer run
type StartOptimizationRequest struct {
	Provider  string                  `json:"provider"`
	SessionID string                  `json:"sessionId,omitempty"`
	EvalLeads []models.EvalLead       `json:"evalLeads"`
	Config    *models.OptimizerConfig `json:"config,omitempty"`
}

// StartOptimizationResponse carries the id the client polls progress with
type StartOptimizationResponse struct {
	RunID string `json:"runId"`
}

// Start handles POST /api/v1/optimizations
func (h *OptimizationsHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.start(w, r, false)
}

// StartForSession handles POST /api/v1/optimizations/session. The winning
// prompt becomes the session's override instead of a persisted version.
func (h *OptimizationsHandler) StartForSession(w http.ResponseWriter, r *http.Request) {
	h.start(w, r, true)
}

func (h *OptimizationsHandler) start(w http.ResponseWriter, r *http.Request, sessionRequired bool) {
	req, ok := decodeJSON[StartOptimizationRequest](r, w)
	if !ok {
		return
	}
	if req.Provider == "" {
		respondError(w, "invalid_request", "provider is required", http.StatusBadRequest)
		return
	}
	if sessionRequired && req.SessionID == "" {
		respondError(w, "invalid_request", "sessionId is required", http.StatusBadRequest)
		return
	}

	input := ports.StartOptimizationInput{
		Provider:  ports.Provider(req.Provider),
		EvalLeads: req.EvalLeads,
	}
	if sessionRequired {
		input.SessionID = req.SessionID
	}
	if req.Config != nil {
		input.Config = *req.Config
	}

	runID, err := h.startOptimization.Execute(r.Context(), input)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, StartOptimizationResponse{RunID: runID}, http.StatusAccepted)
}

// Progress handles GET /api/v1/optimizations/progress/{runId}
func (h *OptimizationsHandler) Progress(w http.ResponseWriter, r *http.Request) {
	runID, ok := validateURLParam(r, w, "runId", "runId")
	if !ok {
		return
	}

	respondJSON(w, h.startOptimization.Progress(runID), http.StatusOK)
}
