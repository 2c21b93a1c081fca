package ports

import (
	"context"

	"github.com/arthurmateu/throxy-project/internal/domain/models"
)

// LeadRepository reads the lead snapshot a ranking run operates on.
type LeadRepository interface {
	GetAll(ctx context.Context) ([]*models.Lead, error)
	CreateMany(ctx context.Context, leads []*models.Lead) error
}

// RankingRepository persists ranking rows. Replace semantics are driven by
// the orchestrator (DeleteAll before CreateMany), not by the store.
type RankingRepository interface {
	DeleteAll(ctx context.Context) error
	CreateMany(ctx context.Context, rankings []*models.Ranking) error
	List(ctx context.Context) ([]*models.RankedLead, error)
	// RankMap returns the current rank per lead id, for pre-run capture.
	RankMap(ctx context.Context) (map[string]*int, error)
}

// PromptVersionRepository stores versioned ranking prompts.
type PromptVersionRepository interface {
	// GetActive returns the active prompt with the highest version number,
	// or domain.ErrPromptNotFound when no version is active.
	GetActive(ctx context.Context) (*models.PromptVersion, error)
	GetByVersion(ctx context.Context, version int) (*models.PromptVersion, error)
	Create(ctx context.Context, v *models.PromptVersion) error
	// NextVersion returns the smallest version number greater than every
	// persisted one. Version numbers are never reused.
	NextVersion(ctx context.Context) (int, error)
	// SetActive flips active off for all versions and on for the given one.
	SetActive(ctx context.Context, version int) error
	List(ctx context.Context, limit int) ([]*models.PromptVersion, error)
}

// CallCostRepository appends and aggregates LLM call-cost log rows.
type CallCostRepository interface {
	Create(ctx context.Context, cost *models.CallCost) error
	// Summarize aggregates rows; an empty batchIDs slice means all rows.
	Summarize(ctx context.Context, batchIDs []string) (*models.CostSummary, error)
}

// TransactionManager runs a function within a database transaction.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// IDGenerator produces unique, prefixed identifiers.
type IDGenerator interface {
	GenerateLeadID() string
	GenerateBatchID() string
	GenerateRunID() string
	GenerateRankingID() string
	GeneratePromptVersionID() string
	GenerateCallCostID() string
}
