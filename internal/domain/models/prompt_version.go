package models

import "time"

// PromptVersion is an immutable, versioned ranking prompt. Version numbers
// are unique and monotonically assigned; at most one row is active at a time.
// Optimizer-produced versions carry their fitness, generation and lineage.
type PromptVersion struct {
	ID            string     `json:"id"`
	Version       int        `json:"version"`
	Content       string     `json:"content"`
	Active        bool       `json:"active"`
	Fitness       *float64   `json:"fitness,omitempty"`
	Generation    *int       `json:"generation,omitempty"`
	ParentVersion *int       `json:"parentVersion,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	ActivatedAt   *time.Time `json:"activatedAt,omitempty"`
	DeactivatedAt *time.Time `json:"deactivatedAt,omitempty"`
}
