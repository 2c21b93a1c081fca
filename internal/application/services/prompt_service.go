package services

import (
	"context"
	"errors"
	"time"

	"github.com/arthurmateu/throxy-project/internal/domain"
	"github.com/arthurmateu/throxy-project/internal/domain/models"
	"github.com/arthurmateu/throxy-project/internal/prompt"
	"github.com/arthurmateu/throxy-project/internal/ports"
)

// PromptService owns the versioned ranking prompts.
type PromptService struct {
	repo ports.PromptVersionRepository
	ids  ports.IDGenerator
}

func NewPromptService(repo ports.PromptVersionRepository, ids ports.IDGenerator) *PromptService {
	return &PromptService{repo: repo, ids: ids}
}

// GetOrCreateActive returns the active prompt, creating and activating
// version 1 with the default content when no version is active yet.
// A second call returns the created row without creating a duplicate.
func (s *PromptService) GetOrCreateActive(ctx context.Context) (*models.PromptVersion, error) {
	active, err := s.repo.GetActive(ctx)
	if err == nil {
		return active, nil
	}
	if !errors.Is(err, domain.ErrPromptNotFound) {
		return nil, err
	}

	now := time.Now()
	v := &models.PromptVersion{
		ID:          s.ids.GeneratePromptVersionID(),
		Version:     1,
		Content:     prompt.DefaultRankingPrompt,
		Active:      true,
		CreatedAt:   now,
		ActivatedAt: &now,
	}
	if err := s.repo.Create(ctx, v); err != nil {
		return nil, domain.NewDomainError(err, "failed to create default prompt")
	}
	return v, nil
}

// SelectForRanking resolves the effective prompt for a ranking run. A
// session override swaps the content but keeps the canonical version
// number, so cost and lineage reporting stay attributable.
func SelectForRanking(active *models.PromptVersion, override *string) models.PromptVersion {
	selected := *active
	if override != nil {
		selected.Content = *override
	}
	return selected
}

// PersistCandidate stores an optimizer candidate as a new, inactive
// prompt version, keeping the version number the candidate was evolved
// under so its lineage pointers stay valid.
func (s *PromptService) PersistCandidate(ctx context.Context, c *models.PromptCandidate) (*models.PromptVersion, error) {
	if c.Content == "" {
		return nil, domain.NewDomainError(domain.ErrEmptyContent, "prompt content cannot be empty")
	}

	fitness := c.Fitness
	generation := c.Generation
	v := &models.PromptVersion{
		ID:            s.ids.GeneratePromptVersionID(),
		Version:       c.Version,
		Content:       c.Content,
		Active:        false,
		Fitness:       &fitness,
		Generation:    &generation,
		ParentVersion: c.ParentVersion,
		CreatedAt:     time.Now(),
	}
	if err := s.repo.Create(ctx, v); err != nil {
		return nil, domain.NewDomainError(err, "failed to persist prompt version")
	}
	return v, nil
}

// NextVersion exposes version-number assignment to the optimizer, which
// numbers in-memory candidates without persisting them.
func (s *PromptService) NextVersion(ctx context.Context) (int, error) {
	return s.repo.NextVersion(ctx)
}

// History lists persisted prompt versions, newest first.
func (s *PromptService) History(ctx context.Context) ([]*models.PromptVersion, error) {
	return s.repo.List(ctx, 100)
}

// Activate flips the active flag to the given version.
func (s *PromptService) Activate(ctx context.Context, version int) error {
	return s.repo.SetActive(ctx, version)
}
