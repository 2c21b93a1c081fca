package ports

import (
	"context"

	"github.com/arthurmateu/throxy-project/internal/domain/models"
)

// StartRankingInput starts a fire-and-forget ranking batch.
type StartRankingInput struct {
	Provider  Provider
	SessionID string
}

// StartRankingUseCase spawns a background ranking run and returns its
// batch id immediately; progress polling is the only observation channel.
type StartRankingUseCase interface {
	Execute(ctx context.Context, input StartRankingInput) (string, error)
	Progress(batchID string) models.RankingProgress
}

// StartOptimizationInput starts a fire-and-forget optimization run.
// A non-empty SessionID selects the session variant: the result is stashed
// as the session's prompt override instead of being persisted.
type StartOptimizationInput struct {
	Provider  Provider
	SessionID string
	EvalLeads []models.EvalLead
	Config    models.OptimizerConfig
}

// StartOptimizationUseCase spawns a background optimizer run.
type StartOptimizationUseCase interface {
	Execute(ctx context.Context, input StartOptimizationInput) (string, error)
	Progress(runID string) models.OptimizationProgress
}
