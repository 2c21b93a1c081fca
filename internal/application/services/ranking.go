package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/arthurmateu/throxy-project/internal/adapters/metrics"
	"github.com/arthurmateu/throxy-project/internal/domain"
	"github.com/arthurmateu/throxy-project/internal/domain/models"
	"github.com/arthurmateu/throxy-project/internal/prompt"
	"github.com/arthurmateu/throxy-project/internal/ports"
)

// rankingTemperature keeps batch ranking output stable across runs.
const rankingTemperature float32 = 0.2

// RankingService drives one full re-rank of every lead, grouped by
// company, one LLM call per company, strictly sequential.
type RankingService struct {
	leads    ports.LeadRepository
	rankings ports.RankingRepository
	costs    ports.CallCostRepository
	prompts  *PromptService
	llm      ports.ChatService
	sessions *SessionStore
	progress *RankingProgressStore
	ids      ports.IDGenerator
}

func NewRankingService(
	leads ports.LeadRepository,
	rankings ports.RankingRepository,
	costs ports.CallCostRepository,
	prompts *PromptService,
	llm ports.ChatService,
	sessions *SessionStore,
	progress *RankingProgressStore,
	ids ports.IDGenerator,
) *RankingService {
	return &RankingService{
		leads:    leads,
		rankings: rankings,
		costs:    costs,
		prompts:  prompts,
		llm:      llm,
		sessions: sessions,
		progress: progress,
		ids:      ids,
	}
}

type leadGroup struct {
	company string
	leads   []*models.Lead
}

// groupByCompany groups leads by company name, preserving the order in
// which companies first appear. Grouping is not sorted.
func groupByCompany(leads []*models.Lead) []leadGroup {
	index := make(map[string]int, len(leads))
	var groups []leadGroup
	for _, lead := range leads {
		i, ok := index[lead.CompanyName]
		if !ok {
			i = len(groups)
			index[lead.CompanyName] = i
			groups = append(groups, leadGroup{company: lead.CompanyName})
		}
		groups[i].leads = append(groups[i].leads, lead)
	}
	return groups
}

// rankingTokenBudget scales max output tokens with group size so a large
// batch never truncates mid-JSON.
func rankingTokenBudget(leadCount int) int {
	budget := 400 + 220*leadCount
	if budget < 4096 {
		budget = 4096
	}
	return budget
}

// Run executes one ranking batch to completion. Per-company failures are
// logged and skipped; any error returned here is run-fatal and has already
// been recorded in the progress store.
func (s *RankingService) Run(ctx context.Context, batchID string, provider ports.Provider, sessionID string) error {
	err := s.run(ctx, batchID, provider, sessionID)
	if err != nil {
		s.progress.Fail(batchID, err.Error())
		metrics.RankingRunsTotal.WithLabelValues(string(models.RankingStatusError)).Inc()
		return err
	}
	metrics.RankingRunsTotal.WithLabelValues(string(models.RankingStatusCompleted)).Inc()
	return nil
}

func (s *RankingService) run(ctx context.Context, batchID string, provider ports.Provider, sessionID string) error {
	allLeads, err := s.leads.GetAll(ctx)
	if err != nil {
		return domain.NewDomainError(err, "failed to load leads")
	}
	if len(allLeads) == 0 {
		return domain.NewDomainError(domain.ErrNoLeads, "cannot rank an empty lead set")
	}

	s.progress.Start(batchID, len(allLeads))

	active, err := s.prompts.GetOrCreateActive(ctx)
	if err != nil {
		return err
	}

	var override *string
	if sessionID != "" {
		if content, ok := s.sessions.PromptOverride(sessionID); ok {
			override = &content
		}
	}
	effective := SelectForRanking(active, override)

	// Pre-run ranks are only captured when a session optimization is
	// pending, so the post-run diff can show what the new prompt changed.
	var preRanks map[string]*int
	captureChanges := sessionID != "" && s.sessions.PendingOptimization(sessionID)
	if captureChanges {
		preRanks, err = s.rankings.RankMap(ctx)
		if err != nil {
			return domain.NewDomainError(err, "failed to capture pre-run ranks")
		}
	}

	if err := s.rankings.DeleteAll(ctx); err != nil {
		return domain.NewDomainError(err, "failed to clear rankings")
	}

	var persisted []*models.Ranking
	for _, group := range groupByCompany(allLeads) {
		s.progress.SetCurrentCompany(batchID, group.company)

		rows, err := s.rankCompany(ctx, batchID, provider, effective.Content, group)
		if err != nil {
			slog.ErrorContext(ctx, "company ranking failed, skipping",
				"batchId", batchID, "company", group.company, "error", err)
		} else {
			persisted = append(persisted, rows...)
		}

		s.progress.Advance(batchID, len(group.leads))
	}

	s.progress.Complete(batchID)

	if captureChanges {
		leadsByID := make(map[string]*models.Lead, len(allLeads))
		for _, lead := range allLeads {
			leadsByID[lead.ID] = lead
		}
		changes := BuildRankingChanges(preRanks, persisted, leadsByID)
		s.sessions.SetRankingChanges(sessionID, changes)
	}

	return nil
}

// rankCompany performs the per-company unit of work: build the prompt,
// call the LLM, log the cost, parse, persist. Any failure here is a
// company-level failure the caller skips over.
func (s *RankingService) rankCompany(ctx context.Context, batchID string, provider ports.Provider, basePrompt string, group leadGroup) ([]*models.Ranking, error) {
	request, err := prompt.BuildRankingPrompt(basePrompt, group.leads)
	if err != nil {
		return nil, err
	}

	result, err := s.llm.Chat(ctx, provider,
		[]ports.ChatMessage{{Role: "user", Content: request}},
		ports.ChatOptions{
			Temperature: float32Ptr(rankingTemperature),
			MaxTokens:   rankingTokenBudget(len(group.leads)),
			JSONMode:    true,
		})
	if err != nil {
		return nil, err
	}

	if costErr := s.costs.Create(ctx, &models.CallCost{
		ID:           s.ids.GenerateCallCostID(),
		BatchID:      batchID,
		Provider:     string(provider),
		Model:        result.Model,
		InputTokens:  result.InputTokens,
		OutputTokens: result.OutputTokens,
		Cost:         result.Cost,
		DurationMs:   result.DurationMs,
		CreatedAt:    time.Now(),
	}); costErr != nil {
		slog.ErrorContext(ctx, "failed to log call cost", "batchId", batchID, "error", costErr)
	}

	leadIDs := make([]string, len(group.leads))
	for i, lead := range group.leads {
		leadIDs[i] = lead.ID
	}
	parsed := prompt.ParseRankingResponse(result.Content, leadIDs)

	now := time.Now()
	rows := make([]*models.Ranking, 0, len(parsed))
	for _, res := range parsed {
		rows = append(rows, &models.Ranking{
			ID:             s.ids.GenerateRankingID(),
			LeadID:         res.LeadID,
			Rank:           res.Rank,
			Reasoning:      res.Reasoning,
			RelevanceScore: models.RelevanceScore(res.Rank),
			BatchID:        batchID,
			CreatedAt:      now,
		})
	}

	if err := s.rankings.CreateMany(ctx, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// BuildRankingChanges diffs pre-run ranks against the rows a run produced,
// keeping only leads whose rank actually changed. Leads absent from the
// pre-run map count as previously unranked.
func BuildRankingChanges(preRanks map[string]*int, rows []*models.Ranking, leadsByID map[string]*models.Lead) []models.RankingChange {
	var changes []models.RankingChange
	for _, row := range rows {
		oldRank := preRanks[row.LeadID]
		if equalRank(oldRank, row.Rank) {
			continue
		}
		change := models.RankingChange{
			LeadID:  row.LeadID,
			OldRank: oldRank,
			NewRank: row.Rank,
		}
		if lead, ok := leadsByID[row.LeadID]; ok {
			change.FullName = lead.FullName()
			change.Company = lead.CompanyName
		}
		changes = append(changes, change)
	}
	return changes
}

func equalRank(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func float32Ptr(f float32) *float32 {
	return &f
}
