package postgres

import (
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"

	"github.com/arthurmateu/throxy-project/internal/domain/models"
)

func TestCallCostRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	defer mock.Close()

	repo := &CallCostRepository{
		BaseRepository: BaseRepository{pool: nil},
	}

	cost := &models.CallCost{
		ID:           "cost_1",
		BatchID:      "bat_1",
		Provider:     "openai",
		Model:        "gpt-4o-mini",
		InputTokens:  1200,
		OutputTokens: 400,
		Cost:         0.00042,
		DurationMs:   2100,
		CreatedAt:    time.Now(),
	}

	mock.ExpectExec(`(?s)INSERT INTO call_costs`).
		WithArgs(cost.ID, cost.BatchID, cost.Provider, cost.Model, cost.InputTokens,
			cost.OutputTokens, cost.Cost, cost.DurationMs, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	ctx := setupMockContext(mock)
	if err := repo.Create(ctx, cost); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestCallCostRepository_Summarize_All(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	defer mock.Close()

	repo := &CallCostRepository{
		BaseRepository: BaseRepository{pool: nil},
	}

	mock.ExpectQuery(`(?s)SELECT .+ FROM call_costs`).
		WillReturnRows(pgxmock.NewRows([]string{"count", "input", "output", "cost"}).
			AddRow(12, 24000, 8000, 0.034))

	ctx := setupMockContext(mock)
	summary, err := repo.Summarize(ctx, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Calls != 12 {
		t.Errorf("expected 12 calls, got %d", summary.Calls)
	}
	if summary.TotalCost != 0.034 {
		t.Errorf("expected total cost 0.034, got %f", summary.TotalCost)
	}
}

func TestCallCostRepository_Summarize_Filtered(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	defer mock.Close()

	repo := &CallCostRepository{
		BaseRepository: BaseRepository{pool: nil},
	}

	batchIDs := []string{"bat_1", "opt_2"}
	mock.ExpectQuery(`(?s)SELECT .+ FROM call_costs.+WHERE batch_id = ANY`).
		WithArgs(batchIDs).
		WillReturnRows(pgxmock.NewRows([]string{"count", "input", "output", "cost"}).
			AddRow(3, 5000, 1500, 0.006))

	ctx := setupMockContext(mock)
	summary, err := repo.Summarize(ctx, batchIDs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Calls != 3 {
		t.Errorf("expected 3 calls, got %d", summary.Calls)
	}
}
