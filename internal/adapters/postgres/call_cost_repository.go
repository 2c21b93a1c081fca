package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arthurmateu/throxy-project/internal/domain/models"
	"github.com/arthurmateu/throxy-project/internal/ports"
)

type CallCostRepository struct {
	BaseRepository
}

var _ ports.CallCostRepository = (*CallCostRepository)(nil)

func NewCallCostRepository(pool *pgxpool.Pool) *CallCostRepository {
	return &CallCostRepository{BaseRepository: NewBaseRepository(pool)}
}

func (r *CallCostRepository) Create(ctx context.Context, cost *models.CallCost) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO call_costs (id, batch_id, provider, model, input_tokens,
		                        output_tokens, cost, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.conn(ctx).Exec(ctx, query,
		cost.ID, cost.BatchID, cost.Provider, cost.Model, cost.InputTokens,
		cost.OutputTokens, cost.Cost, cost.DurationMs, cost.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert call cost: %w", err)
	}
	return nil
}

// Summarize aggregates cost rows. An empty batchIDs slice aggregates
// everything; otherwise only rows tagged with one of the given ids count.
func (r *CallCostRepository) Summarize(ctx context.Context, batchIDs []string) (*models.CostSummary, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `
		SELECT COUNT(*), COALESCE(SUM(input_tokens), 0),
		       COALESCE(SUM(output_tokens), 0), COALESCE(SUM(cost), 0)
		FROM call_costs`

	var row interface {
		Scan(dest ...any) error
	}
	if len(batchIDs) > 0 {
		row = r.conn(ctx).QueryRow(ctx, query+` WHERE batch_id = ANY($1)`, batchIDs)
	} else {
		row = r.conn(ctx).QueryRow(ctx, query)
	}

	var summary models.CostSummary
	if err := row.Scan(&summary.Calls, &summary.InputTokens, &summary.OutputTokens, &summary.TotalCost); err != nil {
		return nil, fmt.Errorf("failed to summarize call costs: %w", err)
	}
	return &summary, nil
}
