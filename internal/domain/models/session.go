package models

// RankingChange records one lead whose rank differed between the run before
// and the run after a session-scoped prompt optimization.
type RankingChange struct {
	LeadID   string `json:"leadId"`
	FullName string `json:"fullName"`
	Company  string `json:"company"`
	OldRank  *int   `json:"oldRank"`
	NewRank  *int   `json:"newRank"`
}

// SessionState holds the ephemeral per-session overrides that modulate
// ranking runs and cost reporting without touching canonical storage.
// Entries live for the process lifetime; there is no eviction.
type SessionState struct {
	BatchIDs            []string        `json:"batchIds"`
	PromptOverride      *string         `json:"optimizedPromptOverride,omitempty"`
	PendingOptimization bool            `json:"pendingOptimization"`
	RankingChanges      []RankingChange `json:"rankingChanges,omitempty"`
}
