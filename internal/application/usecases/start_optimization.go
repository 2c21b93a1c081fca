package usecases

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/arthurmateu/throxy-project/internal/application/services"
	"github.com/arthurmateu/throxy-project/internal/domain"
	"github.com/arthurmateu/throxy-project/internal/domain/models"
	"github.com/arthurmateu/throxy-project/internal/ports"
)

// StartOptimizationUseCase validates an optimization request and runs the
// genetic optimizer in the background under a fresh run id.
type StartOptimizationUseCase struct {
	optimizer *services.OptimizerService
	sessions  *services.SessionStore
	progress  *services.OptimizationProgressStore
	llm       ports.ChatService
	ids       ports.IDGenerator
}

func NewStartOptimizationUseCase(
	optimizer *services.OptimizerService,
	sessions *services.SessionStore,
	progress *services.OptimizationProgressStore,
	llm ports.ChatService,
	ids ports.IDGenerator,
) *StartOptimizationUseCase {
	return &StartOptimizationUseCase{
		optimizer: optimizer,
		sessions:  sessions,
		progress:  progress,
		llm:       llm,
		ids:       ids,
	}
}

func (uc *StartOptimizationUseCase) Execute(ctx context.Context, input ports.StartOptimizationInput) (string, error) {
	provider, err := ports.ParseProvider(string(input.Provider))
	if err != nil {
		return "", err
	}
	if !uc.llm.HasCredential(provider) {
		return "", domain.NewDomainError(domain.ErrNoCredential,
			fmt.Sprintf("no API key configured for provider %q", provider))
	}
	if len(input.EvalLeads) == 0 {
		return "", domain.NewDomainError(domain.ErrEmptyEvalSet,
			"optimization requires labeled evaluation leads")
	}

	runID := uc.ids.GenerateRunID()
	// Cost rows are keyed by the run id, so the session must own it for
	// the session-scoped cost aggregate to see the optimizer's spend.
	if input.SessionID != "" {
		uc.sessions.RegisterBatch(input.SessionID, runID)
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("optimization run panicked", "runId", runID, "panic", r)
				uc.progress.Fail(runID, fmt.Sprintf("internal error: %v", r))
			}
		}()

		ctx := context.Background()
		if err := uc.optimizer.Run(ctx, runID, provider, input.EvalLeads, input.Config, input.SessionID); err != nil {
			slog.ErrorContext(ctx, "optimization run failed", "runId", runID, "error", err)
		}
	}()

	return runID, nil
}

func (uc *StartOptimizationUseCase) Progress(runID string) models.OptimizationProgress {
	return uc.progress.Get(runID)
}
