package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthurmateu/throxy-project/internal/domain/models"
	"github.com/arthurmateu/throxy-project/internal/prompt"
)

func TestPromptService_GetOrCreateActive_CreatesDefault(t *testing.T) {
	repo := &fakePromptRepo{}
	svc := NewPromptService(repo, &stubIDs{})

	v, err := svc.GetOrCreateActive(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, v.Version)
	assert.True(t, v.Active)
	assert.Equal(t, prompt.DefaultRankingPrompt, v.Content)
	require.NotNil(t, v.ActivatedAt)

	// A second call returns the persisted row instead of creating another.
	again, err := svc.GetOrCreateActive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, v.ID, again.ID)
	assert.Len(t, repo.versions, 1)
}

func TestPromptService_GetOrCreateActive_ExistingWins(t *testing.T) {
	repo := &fakePromptRepo{versions: []*models.PromptVersion{
		{ID: "prm_1", Version: 3, Content: "custom", Active: true},
	}}
	svc := NewPromptService(repo, &stubIDs{})

	v, err := svc.GetOrCreateActive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, v.Version)
	assert.Equal(t, "custom", v.Content)
}

func TestSelectForRanking(t *testing.T) {
	active := &models.PromptVersion{Version: 4, Content: "canonical"}

	selected := SelectForRanking(active, nil)
	assert.Equal(t, "canonical", selected.Content)
	assert.Equal(t, 4, selected.Version)

	override := "session override"
	selected = SelectForRanking(active, &override)
	assert.Equal(t, "session override", selected.Content)
	// The version stays canonical so cost and lineage attribution hold.
	assert.Equal(t, 4, selected.Version)
	// The active version itself is never mutated.
	assert.Equal(t, "canonical", active.Content)
}

func TestPromptService_PersistCandidate(t *testing.T) {
	repo := &fakePromptRepo{versions: []*models.PromptVersion{
		{ID: "prm_1", Version: 1, Content: "seed", Active: true},
	}}
	svc := NewPromptService(repo, &stubIDs{})

	parent := 1
	candidate := &models.PromptCandidate{
		Content:       "evolved",
		Version:       4,
		Fitness:       0.83,
		Generation:    2,
		ParentVersion: &parent,
	}

	v, err := svc.PersistCandidate(context.Background(), candidate)
	require.NoError(t, err)

	assert.Equal(t, 4, v.Version)
	assert.False(t, v.Active)
	require.NotNil(t, v.Fitness)
	assert.Equal(t, 0.83, *v.Fitness)
	require.NotNil(t, v.Generation)
	assert.Equal(t, 2, *v.Generation)
	assert.Equal(t, &parent, v.ParentVersion)
}

func TestPromptService_PersistCandidate_EmptyContent(t *testing.T) {
	svc := NewPromptService(&fakePromptRepo{}, &stubIDs{})

	_, err := svc.PersistCandidate(context.Background(), &models.PromptCandidate{})
	require.Error(t, err)
}

func TestProgressStores_DefaultIdle(t *testing.T) {
	ranking := NewRankingProgressStore()
	p := ranking.Get("unknown")
	assert.Equal(t, models.RankingStatusIdle, p.Status)
	assert.Equal(t, 0, p.Total)
	assert.Equal(t, 0, p.Completed)

	optimization := NewOptimizationProgressStore()
	op := optimization.Get("unknown")
	assert.Equal(t, models.OptimizationStatusIdle, op.Status)
}

func TestRankingProgressStore_Lifecycle(t *testing.T) {
	s := NewRankingProgressStore()

	s.Start("bat_1", 10)
	s.SetCurrentCompany("bat_1", "Acme")
	s.Advance("bat_1", 4)

	p := s.Get("bat_1")
	assert.Equal(t, models.RankingStatusRunning, p.Status)
	assert.Equal(t, 4, p.Completed)
	require.NotNil(t, p.CurrentCompanyName)
	assert.Equal(t, "Acme", *p.CurrentCompanyName)

	s.Complete("bat_1")
	p = s.Get("bat_1")
	assert.Equal(t, models.RankingStatusCompleted, p.Status)
	assert.Nil(t, p.CurrentCompanyName)
}

func TestRankingProgressStore_FailBeforeStart(t *testing.T) {
	s := NewRankingProgressStore()

	s.Fail("bat_1", "cannot rank an empty lead set")
	p := s.Get("bat_1")
	assert.Equal(t, models.RankingStatusError, p.Status)
	assert.Equal(t, "cannot rank an empty lead set", p.Error)
}
