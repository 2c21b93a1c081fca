package models

import "time"

// ParseFailureReasoning is the sentinel reasoning attached to leads the
// response parser could not recover a ranking for. A nil rank with this
// reasoning means "unparseable", as opposed to "explicitly irrelevant".
const ParseFailureReasoning = "failed to parse ranking from AI response"

// RankingResult is the parser-level outcome for one lead: a 1-10 rank,
// or nil when the model marked the lead irrelevant (or parsing failed).
type RankingResult struct {
	LeadID    string `json:"leadId"`
	Rank      *int   `json:"rank"`
	Reasoning string `json:"reasoning"`
}

// Ranking is a persisted ranking row. One ranking run fully replaces the
// previous table contents, so rows never outlive the run that wrote them.
type Ranking struct {
	ID             string    `json:"id"`
	LeadID         string    `json:"leadId"`
	Rank           *int      `json:"rank"`
	Reasoning      string    `json:"reasoning"`
	RelevanceScore float64   `json:"relevanceScore"`
	BatchID        string    `json:"batchId"`
	CreatedAt      time.Time `json:"createdAt"`
}

// RelevanceScore maps a 1-10 rank onto a descending 0..1 score,
// with nil (irrelevant) pinned to zero.
func RelevanceScore(rank *int) float64 {
	if rank == nil {
		return 0
	}
	return float64(11-*rank) / 10
}

// RankedLead is a ranking row joined with its lead, used for listing/export.
type RankedLead struct {
	LeadID         string  `json:"leadId"`
	FullName       string  `json:"fullName"`
	JobTitle       string  `json:"jobTitle"`
	CompanyName    string  `json:"companyName"`
	Rank           *int    `json:"rank"`
	Reasoning      string  `json:"reasoning"`
	RelevanceScore float64 `json:"relevanceScore"`
}

// RankingStatus is the lifecycle of one ranking batch.
// Transitions: idle -> running -> completed | error. Terminal states never change.
type RankingStatus string

const (
	RankingStatusIdle      RankingStatus = "idle"
	RankingStatusRunning   RankingStatus = "running"
	RankingStatusCompleted RankingStatus = "completed"
	RankingStatusError     RankingStatus = "error"
)

// RankingProgress is the live, poll-only view of a ranking batch.
// It exists per batch id for the process lifetime and is never persisted.
type RankingProgress struct {
	Total              int           `json:"total"`
	Completed          int           `json:"completed"`
	CurrentCompanyName *string       `json:"currentCompanyName"`
	Status             RankingStatus `json:"status"`
	Error              string        `json:"error,omitempty"`
}
