package postgres

import (
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"

	"github.com/arthurmateu/throxy-project/internal/domain/models"
)

func intPtr(i int) *int { return &i }

func TestRankingRepository_DeleteAll(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	defer mock.Close()

	repo := &RankingRepository{
		BaseRepository: BaseRepository{pool: nil},
	}

	mock.ExpectExec("DELETE FROM lead_rankings").
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	ctx := setupMockContext(mock)
	if err := repo.DeleteAll(ctx); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestRankingRepository_CreateMany(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	defer mock.Close()

	repo := &RankingRepository{
		BaseRepository: BaseRepository{pool: nil},
	}

	now := time.Now()
	rankings := []*models.Ranking{
		{ID: "rank_1", LeadID: "lead_a", Rank: intPtr(1), Reasoning: "fit", RelevanceScore: 1.0, BatchID: "bat_1", CreatedAt: now},
		{ID: "rank_2", LeadID: "lead_b", Rank: nil, Reasoning: "intern", RelevanceScore: 0, BatchID: "bat_1", CreatedAt: now},
	}

	for _, ranking := range rankings {
		mock.ExpectExec(`(?s)INSERT INTO lead_rankings`).
			WithArgs(ranking.ID, ranking.LeadID, pgxmock.AnyArg(), ranking.Reasoning,
				ranking.RelevanceScore, ranking.BatchID, pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}

	ctx := setupMockContext(mock)
	if err := repo.CreateMany(ctx, rankings); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestRankingRepository_List(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	defer mock.Close()

	repo := &RankingRepository{
		BaseRepository: BaseRepository{pool: nil},
	}

	mock.ExpectQuery(`(?s)SELECT .+ FROM lead_rankings r`).
		WillReturnRows(pgxmock.NewRows([]string{
			"lead_id", "first_name", "last_name", "job_title", "company_name",
			"rank", "reasoning", "relevance_score",
		}).
			AddRow("lead_a", "Ada", "Lovelace", "VP Sales", "Acme", int32(1), "fit", 1.0).
			AddRow("lead_b", "Bob", "", "Intern", "Acme", nil, "intern", 0.0))

	ctx := setupMockContext(mock)
	ranked, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ranked) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(ranked))
	}
	if ranked[0].FullName != "Ada Lovelace" {
		t.Errorf("expected full name Ada Lovelace, got %q", ranked[0].FullName)
	}
	if ranked[0].Rank == nil || *ranked[0].Rank != 1 {
		t.Errorf("expected rank 1, got %v", ranked[0].Rank)
	}
	if ranked[1].FullName != "Bob" {
		t.Errorf("expected trimmed full name Bob, got %q", ranked[1].FullName)
	}
	if ranked[1].Rank != nil {
		t.Errorf("expected nil rank, got %v", *ranked[1].Rank)
	}
}

func TestRankingRepository_RankMap(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	defer mock.Close()

	repo := &RankingRepository{
		BaseRepository: BaseRepository{pool: nil},
	}

	mock.ExpectQuery("SELECT lead_id, rank FROM lead_rankings").
		WillReturnRows(pgxmock.NewRows([]string{"lead_id", "rank"}).
			AddRow("lead_a", int32(2)).
			AddRow("lead_b", nil))

	ctx := setupMockContext(mock)
	ranks, err := repo.RankMap(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ranks) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(ranks))
	}
	if ranks["lead_a"] == nil || *ranks["lead_a"] != 2 {
		t.Errorf("expected rank 2 for lead_a, got %v", ranks["lead_a"])
	}
	if ranks["lead_b"] != nil {
		t.Errorf("expected nil rank for lead_b, got %v", *ranks["lead_b"])
	}
}
