package handlers

import (
	"net/http"

	"github.com/arthurmateu/throxy-project/internal/application/services"
	"github.com/arthurmateu/throxy-project/internal/domain/models"
)

// SessionsHandler exposes the ephemeral per-session state.
type SessionsHandler struct {
	sessions *services.SessionStore
}

func NewSessionsHandler(sessions *services.SessionStore) *SessionsHandler {
	return &SessionsHandler{sessions: sessions}
}

// Get handles GET /api/v1/sessions/{sessionId}. Unknown sessions read as
// the empty state rather than 404, since sessions are created implicitly.
func (h *SessionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := validateURLParam(r, w, "sessionId", "sessionId")
	if !ok {
		return
	}

	state := models.SessionState{
		BatchIDs:            h.sessions.BatchIDs(sessionID),
		PendingOptimization: h.sessions.PendingOptimization(sessionID),
		RankingChanges:      h.sessions.RankingChanges(sessionID),
	}
	if override, ok := h.sessions.PromptOverride(sessionID); ok {
		state.PromptOverride = &override
	}

	respondJSON(w, state, http.StatusOK)
}
