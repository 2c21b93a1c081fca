package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/arthurmateu/throxy-project/internal/domain"
	"github.com/arthurmateu/throxy-project/internal/domain/models"
	"github.com/arthurmateu/throxy-project/internal/ports"
)

// stubIDs issues deterministic sequential ids.
type stubIDs struct {
	mu sync.Mutex
	n  int
}

func (s *stubIDs) next(prefix string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("%s_%d", prefix, s.n)
}

func (s *stubIDs) GenerateLeadID() string          { return s.next("lead") }
func (s *stubIDs) GenerateBatchID() string         { return s.next("bat") }
func (s *stubIDs) GenerateRunID() string           { return s.next("opt") }
func (s *stubIDs) GenerateRankingID() string       { return s.next("rank") }
func (s *stubIDs) GeneratePromptVersionID() string { return s.next("prm") }
func (s *stubIDs) GenerateCallCostID() string      { return s.next("cost") }

type fakeLeadRepo struct {
	leads []*models.Lead
}

func (f *fakeLeadRepo) GetAll(ctx context.Context) ([]*models.Lead, error) {
	return f.leads, nil
}

func (f *fakeLeadRepo) CreateMany(ctx context.Context, leads []*models.Lead) error {
	f.leads = append(f.leads, leads...)
	return nil
}

type fakeRankingRepo struct {
	mu       sync.Mutex
	rows     []*models.Ranking
	preRanks map[string]*int
	deletes  int
}

func (f *fakeRankingRepo) DeleteAll(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = nil
	f.deletes++
	return nil
}

func (f *fakeRankingRepo) CreateMany(ctx context.Context, rankings []*models.Ranking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, rankings...)
	return nil
}

func (f *fakeRankingRepo) List(ctx context.Context) ([]*models.RankedLead, error) {
	return nil, nil
}

func (f *fakeRankingRepo) RankMap(ctx context.Context) (map[string]*int, error) {
	return f.preRanks, nil
}

type fakePromptRepo struct {
	mu       sync.Mutex
	versions []*models.PromptVersion
}

func (f *fakePromptRepo) GetActive(ctx context.Context) (*models.PromptVersion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var active *models.PromptVersion
	for _, v := range f.versions {
		if v.Active && (active == nil || v.Version > active.Version) {
			active = v
		}
	}
	if active == nil {
		return nil, domain.ErrPromptNotFound
	}
	return active, nil
}

func (f *fakePromptRepo) GetByVersion(ctx context.Context, version int) (*models.PromptVersion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range f.versions {
		if v.Version == version {
			return v, nil
		}
	}
	return nil, domain.ErrPromptNotFound
}

func (f *fakePromptRepo) Create(ctx context.Context, v *models.PromptVersion) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.versions = append(f.versions, v)
	return nil
}

func (f *fakePromptRepo) NextVersion(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	next := 1
	for _, v := range f.versions {
		if v.Version >= next {
			next = v.Version + 1
		}
	}
	return next, nil
}

func (f *fakePromptRepo) SetActive(ctx context.Context, version int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	found := false
	for _, v := range f.versions {
		v.Active = v.Version == version
		if v.Active {
			found = true
		}
	}
	if !found {
		return domain.ErrPromptNotFound
	}
	return nil
}

func (f *fakePromptRepo) List(ctx context.Context, limit int) ([]*models.PromptVersion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.PromptVersion, len(f.versions))
	copy(out, f.versions)
	return out, nil
}

type fakeCostRepo struct {
	mu   sync.Mutex
	rows []*models.CallCost
}

func (f *fakeCostRepo) Create(ctx context.Context, cost *models.CallCost) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, cost)
	return nil
}

func (f *fakeCostRepo) Summarize(ctx context.Context, batchIDs []string) (*models.CostSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	keep := func(id string) bool {
		if len(batchIDs) == 0 {
			return true
		}
		for _, b := range batchIDs {
			if b == id {
				return true
			}
		}
		return false
	}
	var summary models.CostSummary
	for _, row := range f.rows {
		if !keep(row.BatchID) {
			continue
		}
		summary.Calls++
		summary.InputTokens += row.InputTokens
		summary.OutputTokens += row.OutputTokens
		summary.TotalCost += row.Cost
	}
	return &summary, nil
}

// stubChat routes every call through a single function.
type stubChat struct {
	fn func(provider ports.Provider, messages []ports.ChatMessage, opts ports.ChatOptions) (*ports.ChatResult, error)
}

func (s *stubChat) Chat(ctx context.Context, provider ports.Provider, messages []ports.ChatMessage, opts ports.ChatOptions) (*ports.ChatResult, error) {
	if s.fn == nil {
		return nil, errors.New("no stub behavior configured")
	}
	return s.fn(provider, messages, opts)
}

func (s *stubChat) HasCredential(provider ports.Provider) bool { return true }
