package models

import "time"

// CallCost is one appended LLM call-cost log row, tagged with the batch or
// run id the call was made for.
type CallCost struct {
	ID           string    `json:"id"`
	BatchID      string    `json:"batchId"`
	Provider     string    `json:"provider"`
	Model        string    `json:"model"`
	InputTokens  int       `json:"inputTokens"`
	OutputTokens int       `json:"outputTokens"`
	Cost         float64   `json:"cost"`
	DurationMs   int64     `json:"durationMs"`
	CreatedAt    time.Time `json:"createdAt"`
}

// CostSummary aggregates call-cost rows, optionally filtered by batch ids.
type CostSummary struct {
	Calls        int     `json:"calls"`
	InputTokens  int     `json:"inputTokens"`
	OutputTokens int     `json:"outputTokens"`
	TotalCost    float64 `json:"totalCost"`
}
