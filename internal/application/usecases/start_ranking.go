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

// StartRankingUseCase validates a ranking request, allocates a batch id
// and hands the run off to a background goroutine. The caller polls the
// progress store with the returned id.
type StartRankingUseCase struct {
	ranking  *services.RankingService
	sessions *services.SessionStore
	progress *services.RankingProgressStore
	llm      ports.ChatService
	ids      ports.IDGenerator
}

func NewStartRankingUseCase(
	ranking *services.RankingService,
	sessions *services.SessionStore,
	progress *services.RankingProgressStore,
	llm ports.ChatService,
	ids ports.IDGenerator,
) *StartRankingUseCase {
	return &StartRankingUseCase{
		ranking:  ranking,
		sessions: sessions,
		progress: progress,
		llm:      llm,
		ids:      ids,
	}
}

// Execute returns as soon as the run is accepted. Provider and credential
// problems are reported synchronously; everything after that surfaces
// through progress polling.
func (uc *StartRankingUseCase) Execute(ctx context.Context, input ports.StartRankingInput) (string, error) {
	provider, err := ports.ParseProvider(string(input.Provider))
	if err != nil {
		return "", err
	}
	if !uc.llm.HasCredential(provider) {
		return "", domain.NewDomainError(domain.ErrNoCredential,
			fmt.Sprintf("no API key configured for provider %q", provider))
	}

	batchID := uc.ids.GenerateBatchID()
	if input.SessionID != "" {
		uc.sessions.RegisterBatch(input.SessionID, batchID)
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("ranking run panicked", "batchId", batchID, "panic", r)
				uc.progress.Fail(batchID, fmt.Sprintf("internal error: %v", r))
			}
		}()

		// The run outlives the HTTP request that started it.
		ctx := context.Background()
		if err := uc.ranking.Run(ctx, batchID, provider, input.SessionID); err != nil {
			slog.ErrorContext(ctx, "ranking run failed", "batchId", batchID, "error", err)
		}
	}()

	return batchID, nil
}

// Progress reports the current state of a batch. Unknown ids read as idle.
func (uc *StartRankingUseCase) Progress(batchID string) models.RankingProgress {
	return uc.progress.Get(batchID)
}
