package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arthurmateu/throxy-project/internal/domain/models"
	"github.com/arthurmateu/throxy-project/internal/ports"
)

type RankingRepository struct {
	BaseRepository
}

var _ ports.RankingRepository = (*RankingRepository)(nil)

func NewRankingRepository(pool *pgxpool.Pool) *RankingRepository {
	return &RankingRepository{BaseRepository: NewBaseRepository(pool)}
}

// DeleteAll clears the rankings table. The orchestrator calls this at the
// start of every run; rankings are full-replace, never merged.
func (r *RankingRepository) DeleteAll(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM lead_rankings`)
	if err != nil {
		return fmt.Errorf("failed to clear rankings: %w", err)
	}
	return nil
}

func (r *RankingRepository) CreateMany(ctx context.Context, rankings []*models.Ranking) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO lead_rankings (id, lead_id, rank, reasoning, relevance_score, batch_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	for _, ranking := range rankings {
		_, err := r.conn(ctx).Exec(ctx, query,
			ranking.ID, ranking.LeadID, nullIntPtr(ranking.Rank), ranking.Reasoning,
			ranking.RelevanceScore, ranking.BatchID, ranking.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert ranking for lead %s: %w", ranking.LeadID, err)
		}
	}
	return nil
}

// List returns ranking rows joined with their leads, best ranks first.
func (r *RankingRepository) List(ctx context.Context) ([]*models.RankedLead, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `
		SELECT r.lead_id, l.first_name, l.last_name, l.job_title, l.company_name,
		       r.rank, r.reasoning, r.relevance_score
		FROM lead_rankings r
		JOIN leads l ON l.id = r.lead_id
		ORDER BY r.rank IS NULL, r.rank, l.company_name`

	rows, err := r.conn(ctx).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query rankings: %w", err)
	}
	defer rows.Close()

	var ranked []*models.RankedLead
	for rows.Next() {
		var rl models.RankedLead
		var firstName, lastName string
		var rank sql.NullInt32
		if err := rows.Scan(
			&rl.LeadID, &firstName, &lastName, &rl.JobTitle, &rl.CompanyName,
			&rank, &rl.Reasoning, &rl.RelevanceScore,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ranking: %w", err)
		}
		rl.FullName = strings.TrimSpace(firstName + " " + lastName)
		rl.Rank = getIntPtr(rank)
		ranked = append(ranked, &rl)
	}
	return ranked, rows.Err()
}

// RankMap returns the current rank per lead id. Used to capture pre-run
// ranks before a session-scoped re-rank so deltas can be computed after.
func (r *RankingRepository) RankMap(ctx context.Context) (map[string]*int, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := r.conn(ctx).Query(ctx, `SELECT lead_id, rank FROM lead_rankings`)
	if err != nil {
		return nil, fmt.Errorf("failed to query rank map: %w", err)
	}
	defer rows.Close()

	ranks := make(map[string]*int)
	for rows.Next() {
		var leadID string
		var rank sql.NullInt32
		if err := rows.Scan(&leadID, &rank); err != nil {
			return nil, fmt.Errorf("failed to scan rank: %w", err)
		}
		ranks[leadID] = getIntPtr(rank)
	}
	return ranks, rows.Err()
}
