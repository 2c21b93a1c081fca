package services

import (
	"context"
	"log/slog"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/arthurmateu/throxy-project/internal/adapters/metrics"
	"github.com/arthurmateu/throxy-project/internal/domain"
	"github.com/arthurmateu/throxy-project/internal/domain/models"
	"github.com/arthurmateu/throxy-project/internal/prompt"
	"github.com/arthurmateu/throxy-project/internal/ports"
)

const (
	// quickEvalSize is the fixed sub-sample used to gather fresh error
	// hints right before a mutation.
	quickEvalSize = 10

	// explorationHint seeds the first mutation round, before any error
	// signal exists.
	explorationHint = "There is no error signal yet. Explore the solution space with a meaningfully different phrasing, emphasis or structure while keeping the same ranking task."

	mutationTemperature float32 = 0.8
	offspringMaxTokens          = 2048
)

// OptimizerService evolves a population of ranking prompts with a genetic
// algorithm: tournament selection, AI-driven mutation and crossover, and
// elitism, scored against a labeled evaluation sample.
type OptimizerService struct {
	prompts  *PromptService
	costs    ports.CallCostRepository
	llm      ports.ChatService
	sessions *SessionStore
	progress *OptimizationProgressStore
	ids      ports.IDGenerator
	newRand  func() *rand.Rand
}

// OptimizerOption configures the service.
type OptimizerOption func(*OptimizerService)

// WithRandSeed fixes the random source, for reproducible runs and tests.
func WithRandSeed(seed int64) OptimizerOption {
	return func(s *OptimizerService) {
		s.newRand = func() *rand.Rand { return rand.New(rand.NewSource(seed)) }
	}
}

func NewOptimizerService(
	prompts *PromptService,
	costs ports.CallCostRepository,
	llm ports.ChatService,
	sessions *SessionStore,
	progress *OptimizationProgressStore,
	ids ports.IDGenerator,
	opts ...OptimizerOption,
) *OptimizerService {
	s := &OptimizerService{
		prompts:  prompts,
		costs:    costs,
		llm:      llm,
		sessions: sessions,
		progress: progress,
		ids:      ids,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes one optimization run to completion. A non-empty sessionID
// selects the session variant: the winning prompt becomes the session's
// override instead of a persisted version. Errors are run-fatal and have
// been recorded in the progress store by the time Run returns.
func (s *OptimizerService) Run(ctx context.Context, runID string, provider ports.Provider, evalLeads []models.EvalLead, cfg models.OptimizerConfig, sessionID string) error {
	err := s.run(ctx, runID, provider, evalLeads, cfg, sessionID)
	if err != nil {
		s.progress.Fail(runID, err.Error())
		metrics.OptimizationRunsTotal.WithLabelValues(string(models.OptimizationStatusError)).Inc()
		return err
	}
	metrics.OptimizationRunsTotal.WithLabelValues(string(models.OptimizationStatusCompleted)).Inc()
	return nil
}

func (s *OptimizerService) run(ctx context.Context, runID string, provider ports.Provider, evalLeads []models.EvalLead, cfg models.OptimizerConfig, sessionID string) error {
	cfg.Normalize()

	usable := make([]models.EvalLead, 0, len(evalLeads))
	for _, lead := range evalLeads {
		if lead.FullName != "" {
			usable = append(usable, lead)
		}
	}
	if len(usable) == 0 {
		return domain.NewDomainError(domain.ErrEmptyEvalSet, "optimization requires labeled evaluation leads")
	}

	s.progress.Start(runID, cfg.Generations, cfg.PopulationSize)

	seed, err := s.prompts.GetOrCreateActive(ctx)
	if err != nil {
		return err
	}

	rng := s.newRand()
	sample := sampleEvalLeads(rng, usable, cfg.SampleSize)

	// Candidates are numbered from the next unused persisted version so
	// the eventually persisted winner never collides with history.
	nextVersion, err := s.prompts.NextVersion(ctx)
	if err != nil {
		return err
	}

	population := []*models.PromptCandidate{{
		Content:    seed.Content,
		Version:    seed.Version,
		Generation: 0,
	}}
	for i := 1; i < cfg.PopulationSize; i++ {
		content, err := s.mutatePrompt(ctx, runID, provider, seed.Content, []string{explorationHint})
		if err != nil {
			return err
		}
		parentVersion := seed.Version
		population = append(population, &models.PromptCandidate{
			Content:       content,
			Version:       nextVersion,
			Generation:    0,
			ParentVersion: &parentVersion,
		})
		nextVersion++
	}

	for _, candidate := range population {
		report := s.evaluate(ctx, runID, provider, candidate.Content, sample)
		candidate.Fitness = report.Fitness
		s.progress.AddEvaluations(runID, 1)
	}
	sortByFitness(population)

	best := *population[0]
	s.progress.SetBest(runID, best.Fitness, best.Preview())

	quick := sample
	if len(quick) > quickEvalSize {
		quick = quick[:quickEvalSize]
	}

	for gen := 1; gen <= cfg.Generations; gen++ {
		s.progress.SetGeneration(runID, gen)

		next := make([]*models.PromptCandidate, 0, cfg.PopulationSize)
		for i := 0; i < cfg.EliteCount && i < len(population); i++ {
			elite := *population[i]
			elite.Generation = gen
			next = append(next, &elite)
		}

		var offspring []*models.PromptCandidate
		for len(next)+len(offspring) < cfg.PopulationSize {
			parent1 := tournamentSelect(rng, population, cfg.TournamentSize)
			parent2 := tournamentSelect(rng, population, cfg.TournamentSize)

			var content string
			if rng.Float64() < cfg.MutationRate {
				target := parent1
				if rng.Intn(2) == 1 {
					target = parent2
				}
				hintReport := s.evaluate(ctx, runID, provider, target.Content, quick)
				s.progress.AddEvaluations(runID, 1)
				hints := hintReport.Hints
				if len(hints) == 0 {
					hints = []string{explorationHint}
				}
				content, err = s.mutatePrompt(ctx, runID, provider, target.Content, hints)
			} else {
				content, err = s.crossoverPrompt(ctx, runID, provider, parent1.Content, parent2.Content)
			}
			if err != nil {
				return err
			}

			parentVersion := parent1.Version
			offspring = append(offspring, &models.PromptCandidate{
				Content:       content,
				Version:       nextVersion,
				Generation:    gen,
				ParentVersion: &parentVersion,
			})
			nextVersion++
		}

		for _, candidate := range offspring {
			report := s.evaluate(ctx, runID, provider, candidate.Content, sample)
			candidate.Fitness = report.Fitness
			s.progress.AddEvaluations(runID, 1)
		}

		population = append(next, offspring...)
		sortByFitness(population)

		if population[0].Fitness > best.Fitness {
			best = *population[0]
			s.progress.SetBest(runID, best.Fitness, best.Preview())
		}
	}

	if sessionID != "" {
		s.sessions.SetPromptOverride(sessionID, best.Content)
	} else if best.Version != seed.Version {
		// The seed already exists as a persisted version; only an
		// evolved winner produces a new row.
		if _, err := s.prompts.PersistCandidate(ctx, &best); err != nil {
			return err
		}
	} else {
		slog.InfoContext(ctx, "seed prompt remained the best candidate, nothing to persist",
			"runId", runID, "fitness", best.Fitness)
	}

	s.progress.Complete(runID)
	return nil
}

// evaluate scores one candidate prompt against an evaluation sample by
// running the full ranking pipeline per company. A failed company call
// degrades to zero-score predictions instead of failing the run.
func (s *OptimizerService) evaluate(ctx context.Context, runID string, provider ports.Provider, content string, sample []models.EvalLead) prompt.FitnessReport {
	var predictions []prompt.Prediction

	for _, group := range groupEvalByCompany(sample) {
		leads := make([]*models.Lead, len(group.leads))
		expected := make(map[string]*int, len(group.leads))
		for i, eval := range group.leads {
			lead := evalToLead(eval, group.company, i)
			leads[i] = lead
			expected[lead.ID] = eval.ExpectedRank
		}

		request, err := prompt.BuildRankingPrompt(content, leads)
		if err != nil {
			for range group.leads {
				predictions = append(predictions, prompt.Prediction{Failed: true})
			}
			continue
		}

		result, err := s.llm.Chat(ctx, provider,
			[]ports.ChatMessage{{Role: "user", Content: request}},
			ports.ChatOptions{
				Temperature: float32Ptr(rankingTemperature),
				MaxTokens:   rankingTokenBudget(len(leads)),
				JSONMode:    true,
			})
		if err != nil {
			slog.ErrorContext(ctx, "evaluation call failed, scoring zero",
				"runId", runID, "company", group.company, "error", err)
			for range group.leads {
				predictions = append(predictions, prompt.Prediction{Failed: true})
			}
			continue
		}
		s.logCost(ctx, runID, provider, result)

		leadIDs := make([]string, len(leads))
		for i, lead := range leads {
			leadIDs[i] = lead.ID
		}
		for _, parsed := range prompt.ParseRankingResponse(result.Content, leadIDs) {
			predictions = append(predictions, prompt.Prediction{
				Predicted: parsed.Rank,
				Expected:  expected[parsed.LeadID],
			})
		}
	}

	return prompt.ScoreFitness(predictions)
}

func (s *OptimizerService) mutatePrompt(ctx context.Context, runID string, provider ports.Provider, content string, hints []string) (string, error) {
	var b strings.Builder
	b.WriteString("Improve the following lead-ranking prompt. Address every observation, keep what already works, and preserve the overall task.\n\n")
	b.WriteString("Current prompt:\n---\n")
	b.WriteString(content)
	b.WriteString("\n---\n\nObservations from evaluation:\n")
	for _, hint := range hints {
		b.WriteString("- ")
		b.WriteString(hint)
		b.WriteString("\n")
	}
	b.WriteString("\nReturn only the improved prompt text, with no commentary.")

	return s.offspringCall(ctx, runID, provider, b.String())
}

func (s *OptimizerService) crossoverPrompt(ctx context.Context, runID string, provider ports.Provider, parent1, parent2 string) (string, error) {
	var b strings.Builder
	b.WriteString("Combine the strengths of these two lead-ranking prompts into a single new prompt for the same task.\n\n")
	b.WriteString("Prompt A:\n---\n")
	b.WriteString(parent1)
	b.WriteString("\n---\n\nPrompt B:\n---\n")
	b.WriteString(parent2)
	b.WriteString("\n---\n\nReturn only the combined prompt text, with no commentary.")

	return s.offspringCall(ctx, runID, provider, b.String())
}

func (s *OptimizerService) offspringCall(ctx context.Context, runID string, provider ports.Provider, request string) (string, error) {
	result, err := s.llm.Chat(ctx, provider,
		[]ports.ChatMessage{
			{Role: "system", Content: "You are an expert prompt engineer for sales lead qualification."},
			{Role: "user", Content: request},
		},
		ports.ChatOptions{
			Temperature: float32Ptr(mutationTemperature),
			MaxTokens:   offspringMaxTokens,
		})
	if err != nil {
		return "", err
	}
	s.logCost(ctx, runID, provider, result)

	content := strings.TrimSpace(result.Content)
	if content == "" {
		return "", domain.NewDomainError(domain.ErrEmptyContent, "model returned an empty prompt")
	}
	return content, nil
}

func (s *OptimizerService) logCost(ctx context.Context, runID string, provider ports.Provider, result *ports.ChatResult) {
	if err := s.costs.Create(ctx, &models.CallCost{
		ID:           s.ids.GenerateCallCostID(),
		BatchID:      runID,
		Provider:     string(provider),
		Model:        result.Model,
		InputTokens:  result.InputTokens,
		OutputTokens: result.OutputTokens,
		Cost:         result.Cost,
		DurationMs:   result.DurationMs,
		CreatedAt:    time.Now(),
	}); err != nil {
		slog.ErrorContext(ctx, "failed to log call cost", "runId", runID, "error", err)
	}
}

type evalGroup struct {
	company string
	leads   []models.EvalLead
}

func groupEvalByCompany(sample []models.EvalLead) []evalGroup {
	index := make(map[string]int, len(sample))
	var groups []evalGroup
	for _, lead := range sample {
		i, ok := index[lead.Company]
		if !ok {
			i = len(groups)
			index[lead.Company] = i
			groups = append(groups, evalGroup{company: lead.Company})
		}
		groups[i].leads = append(groups[i].leads, lead)
	}
	return groups
}

// evalToLead adapts a ground-truth row into the lead shape the prompt
// builder expects, with a synthetic per-group id.
func evalToLead(eval models.EvalLead, company string, index int) *models.Lead {
	firstName, lastName := splitName(eval.FullName)
	return &models.Lead{
		ID:            "eval_" + sanitizeID(company) + "_" + strconv.Itoa(index),
		FirstName:     firstName,
		LastName:      lastName,
		JobTitle:      eval.Title,
		CompanyName:   company,
		EmployeeRange: eval.EmployeeRange,
	}
}

func splitName(fullName string) (string, string) {
	first, rest, found := strings.Cut(fullName, " ")
	if !found {
		return fullName, ""
	}
	return first, rest
}

func sanitizeID(s string) string {
	s = strings.ToLower(s)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, s)
}

// sampleEvalLeads draws a uniform random sample without replacement; a
// pool smaller than the requested size is used wholesale.
func sampleEvalLeads(rng *rand.Rand, pool []models.EvalLead, size int) []models.EvalLead {
	if len(pool) <= size {
		sample := make([]models.EvalLead, len(pool))
		copy(sample, pool)
		return sample
	}
	sample := make([]models.EvalLead, 0, size)
	for _, i := range rng.Perm(len(pool))[:size] {
		sample = append(sample, pool[i])
	}
	return sample
}

func sortByFitness(population []*models.PromptCandidate) {
	sort.SliceStable(population, func(i, j int) bool {
		return population[i].Fitness > population[j].Fitness
	})
}

// tournamentSelect samples k candidates with replacement and keeps the
// fittest.
func tournamentSelect(rng *rand.Rand, population []*models.PromptCandidate, k int) *models.PromptCandidate {
	best := population[rng.Intn(len(population))]
	for i := 1; i < k; i++ {
		contender := population[rng.Intn(len(population))]
		if contender.Fitness > best.Fitness {
			best = contender
		}
	}
	return best
}
