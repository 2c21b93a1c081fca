package services

import (
	"sync"

	"github.com/arthurmateu/throxy-project/internal/domain/models"
)

type sessionEntry struct {
	batchIDs            map[string]bool
	batchOrder          []string
	promptOverride      *string
	pendingOptimization bool
	rankingChanges      []models.RankingChange
}

// SessionStore maps opaque session ids to their ephemeral overrides.
// Entries are created on first reference and live for the process
// lifetime; there is no eviction.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*sessionEntry)}
}

func (s *SessionStore) entry(sessionID string) *sessionEntry {
	e, ok := s.sessions[sessionID]
	if !ok {
		e = &sessionEntry{batchIDs: make(map[string]bool)}
		s.sessions[sessionID] = e
	}
	return e
}

// RegisterBatch records a batch id under a session. Idempotent.
func (s *SessionStore) RegisterBatch(sessionID, batchID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.entry(sessionID)
	if e.batchIDs[batchID] {
		return
	}
	e.batchIDs[batchID] = true
	e.batchOrder = append(e.batchOrder, batchID)
}

// BatchIDs lists a session's batch ids in registration order.
// Unknown sessions yield an empty list without creating an entry.
func (s *SessionStore) BatchIDs(sessionID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}
	ids := make([]string, len(e.batchOrder))
	copy(ids, e.batchOrder)
	return ids
}

// SetPromptOverride stashes an optimized prompt for the session, raises the
// pending-optimization flag and clears any stale ranking-change list.
func (s *SessionStore) SetPromptOverride(sessionID, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.entry(sessionID)
	e.promptOverride = &content
	e.pendingOptimization = true
	e.rankingChanges = nil
}

func (s *SessionStore) PromptOverride(sessionID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.sessions[sessionID]
	if !ok || e.promptOverride == nil {
		return "", false
	}
	return *e.promptOverride, true
}

func (s *SessionStore) PendingOptimization(sessionID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.sessions[sessionID]
	return ok && e.pendingOptimization
}

func (s *SessionStore) ClearPendingOptimization(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.sessions[sessionID]; ok {
		e.pendingOptimization = false
	}
}

// SetRankingChanges stores the post-rank deltas and lowers the pending flag.
func (s *SessionStore) SetRankingChanges(sessionID string, changes []models.RankingChange) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.entry(sessionID)
	e.rankingChanges = changes
	e.pendingOptimization = false
}

func (s *SessionStore) RankingChanges(sessionID string) []models.RankingChange {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}
	return e.rankingChanges
}
