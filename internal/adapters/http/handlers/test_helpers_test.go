package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"

	"github.com/arthurmateu/throxy-project/internal/domain/models"
	"github.com/arthurmateu/throxy-project/internal/ports"
)

// withURLParam injects a chi route parameter into the request context so
// handlers can be exercised without mounting a full router.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func newJSONRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// Mock use cases

type mockStartRanking struct {
	executeErr error
	batchID    string
	input      ports.StartRankingInput
	progress   models.RankingProgress
}

func (m *mockStartRanking) Execute(ctx context.Context, input ports.StartRankingInput) (string, error) {
	m.input = input
	if m.executeErr != nil {
		return "", m.executeErr
	}
	return m.batchID, nil
}

func (m *mockStartRanking) Progress(batchID string) models.RankingProgress {
	return m.progress
}

type mockStartOptimization struct {
	executeErr error
	runID      string
	input      ports.StartOptimizationInput
	progress   models.OptimizationProgress
}

func (m *mockStartOptimization) Execute(ctx context.Context, input ports.StartOptimizationInput) (string, error) {
	m.input = input
	if m.executeErr != nil {
		return "", m.executeErr
	}
	return m.runID, nil
}

func (m *mockStartOptimization) Progress(runID string) models.OptimizationProgress {
	return m.progress
}

// Mock repositories

type mockRankingRepo struct {
	listErr error
	rows    []*models.RankedLead
}

func (m *mockRankingRepo) DeleteAll(ctx context.Context) error                       { return nil }
func (m *mockRankingRepo) CreateMany(ctx context.Context, _ []*models.Ranking) error { return nil }
func (m *mockRankingRepo) RankMap(ctx context.Context) (map[string]*int, error)      { return nil, nil }

func (m *mockRankingRepo) List(ctx context.Context) ([]*models.RankedLead, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.rows, nil
}

type mockCostRepo struct {
	summarizeErr error
	batchIDs     []string
	summary      *models.CostSummary
}

func (m *mockCostRepo) Create(ctx context.Context, _ *models.CallCost) error { return nil }

func (m *mockCostRepo) Summarize(ctx context.Context, batchIDs []string) (*models.CostSummary, error) {
	m.batchIDs = batchIDs
	if m.summarizeErr != nil {
		return nil, m.summarizeErr
	}
	return m.summary, nil
}
