package services

import (
	"sync"

	"github.com/arthurmateu/throxy-project/internal/domain/models"
)

// RankingProgressStore holds the live progress of every ranking batch in
// this process. It is an explicit, injected object rather than ambient
// global state; entries live for the process lifetime.
type RankingProgressStore struct {
	mu   sync.RWMutex
	runs map[string]*models.RankingProgress
}

func NewRankingProgressStore() *RankingProgressStore {
	return &RankingProgressStore{runs: make(map[string]*models.RankingProgress)}
}

// Get returns a copy of the batch's progress, or the idle zero value for
// unknown batch ids.
func (s *RankingProgressStore) Get(batchID string) models.RankingProgress {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.runs[batchID]; ok {
		return *p
	}
	return models.RankingProgress{Status: models.RankingStatusIdle}
}

func (s *RankingProgressStore) Start(batchID string, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[batchID] = &models.RankingProgress{
		Total:  total,
		Status: models.RankingStatusRunning,
	}
}

func (s *RankingProgressStore) SetCurrentCompany(batchID, company string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.runs[batchID]; ok {
		p.CurrentCompanyName = &company
	}
}

func (s *RankingProgressStore) Advance(batchID string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.runs[batchID]; ok {
		p.Completed += n
	}
}

func (s *RankingProgressStore) Complete(batchID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.runs[batchID]; ok {
		p.Status = models.RankingStatusCompleted
		p.CurrentCompanyName = nil
	}
}

func (s *RankingProgressStore) Fail(batchID string, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.runs[batchID]
	if !ok {
		p = &models.RankingProgress{}
		s.runs[batchID] = p
	}
	p.Status = models.RankingStatusError
	p.Error = message
	p.CurrentCompanyName = nil
}

// OptimizationProgressStore is the optimizer-run counterpart of
// RankingProgressStore.
type OptimizationProgressStore struct {
	mu   sync.RWMutex
	runs map[string]*models.OptimizationProgress
}

func NewOptimizationProgressStore() *OptimizationProgressStore {
	return &OptimizationProgressStore{runs: make(map[string]*models.OptimizationProgress)}
}

func (s *OptimizationProgressStore) Get(runID string) models.OptimizationProgress {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.runs[runID]; ok {
		return *p
	}
	return models.OptimizationProgress{Status: models.OptimizationStatusIdle}
}

func (s *OptimizationProgressStore) Start(runID string, totalGenerations, populationSize int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[runID] = &models.OptimizationProgress{
		Status:           models.OptimizationStatusRunning,
		TotalGenerations: totalGenerations,
		PopulationSize:   populationSize,
	}
}

func (s *OptimizationProgressStore) SetGeneration(runID string, generation int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.runs[runID]; ok {
		p.CurrentGeneration = generation
	}
}

func (s *OptimizationProgressStore) AddEvaluations(runID string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.runs[runID]; ok {
		p.EvaluationsRun += n
	}
}

func (s *OptimizationProgressStore) SetBest(runID string, fitness float64, preview string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.runs[runID]; ok {
		p.BestFitness = fitness
		p.CurrentBestPromptPreview = preview
	}
}

func (s *OptimizationProgressStore) Complete(runID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.runs[runID]; ok {
		p.Status = models.OptimizationStatusCompleted
	}
}

func (s *OptimizationProgressStore) Fail(runID string, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.runs[runID]
	if !ok {
		p = &models.OptimizationProgress{}
		s.runs[runID] = p
	}
	p.Status = models.OptimizationStatusError
	p.Error = message
}
