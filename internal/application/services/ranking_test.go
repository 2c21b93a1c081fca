package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthurmateu/throxy-project/internal/domain"
	"github.com/arthurmateu/throxy-project/internal/domain/models"
	"github.com/arthurmateu/throxy-project/internal/ports"
)

func intPtr(i int) *int { return &i }

func testLeads() []*models.Lead {
	return []*models.Lead{
		{ID: "lead_a", FirstName: "Ada", LastName: "Lovelace", JobTitle: "VP Sales", CompanyName: "Acme"},
		{ID: "lead_b", FirstName: "Bob", LastName: "Burns", JobTitle: "Intern", CompanyName: "Acme"},
		{ID: "lead_c", FirstName: "Cleo", LastName: "Chase", JobTitle: "CTO", CompanyName: "Beta"},
	}
}

func newRankingFixture(leads []*models.Lead, chat *stubChat) (*RankingService, *fakeRankingRepo, *fakeCostRepo, *SessionStore, *RankingProgressStore) {
	ids := &stubIDs{}
	rankings := &fakeRankingRepo{}
	costs := &fakeCostRepo{}
	sessions := NewSessionStore()
	progress := NewRankingProgressStore()
	prompts := NewPromptService(&fakePromptRepo{}, ids)

	svc := NewRankingService(
		&fakeLeadRepo{leads: leads},
		rankings,
		costs,
		prompts,
		chat,
		sessions,
		progress,
		ids,
	)
	return svc, rankings, costs, sessions, progress
}

// rankingsByCompany answers per-company requests with fixed JSON.
func rankingsByCompany(responses map[string]string, errCompanies map[string]bool) *stubChat {
	return &stubChat{fn: func(provider ports.Provider, messages []ports.ChatMessage, opts ports.ChatOptions) (*ports.ChatResult, error) {
		request := messages[len(messages)-1].Content
		for company, response := range responses {
			if strings.Contains(request, "Company: "+company+"\n") {
				if errCompanies[company] {
					return nil, errors.New("provider unavailable")
				}
				return &ports.ChatResult{
					Content:      response,
					InputTokens:  100,
					OutputTokens: 50,
					Model:        "test-model",
					Cost:         0.001,
				}, nil
			}
		}
		return nil, fmt.Errorf("unexpected request: %s", request)
	}}
}

func TestRankingService_Run(t *testing.T) {
	chat := rankingsByCompany(map[string]string{
		"Acme": `{"rankings":[
			{"leadId":"lead_a","rank":1,"reasoning":"decision maker"},
			{"leadId":"lead_b","rank":null,"reasoning":"intern"}]}`,
		"Beta": `{"rankings":[{"leadId":"lead_c","rank":4,"reasoning":"technical buyer"}]}`,
	}, nil)

	svc, rankings, costs, _, progress := newRankingFixture(testLeads(), chat)

	err := svc.Run(context.Background(), "bat_1", ports.ProviderOpenAI, "")
	require.NoError(t, err)

	require.Len(t, rankings.rows, 3)
	assert.Equal(t, 1, rankings.deletes)

	byLead := make(map[string]*models.Ranking)
	for _, row := range rankings.rows {
		byLead[row.LeadID] = row
		assert.Equal(t, "bat_1", row.BatchID)
	}

	require.NotNil(t, byLead["lead_a"].Rank)
	assert.Equal(t, 1, *byLead["lead_a"].Rank)
	assert.Equal(t, 1.0, byLead["lead_a"].RelevanceScore)

	assert.Nil(t, byLead["lead_b"].Rank)
	assert.Equal(t, 0.0, byLead["lead_b"].RelevanceScore)

	require.NotNil(t, byLead["lead_c"].Rank)
	assert.InDelta(t, 0.7, byLead["lead_c"].RelevanceScore, 1e-9)

	// One cost row per company call.
	assert.Len(t, costs.rows, 2)

	p := progress.Get("bat_1")
	assert.Equal(t, models.RankingStatusCompleted, p.Status)
	assert.Equal(t, 3, p.Total)
	assert.Equal(t, 3, p.Completed)
	assert.Nil(t, p.CurrentCompanyName)
}

func TestRankingService_CompanyFailureSkipped(t *testing.T) {
	chat := rankingsByCompany(map[string]string{
		"Acme": `{"rankings":[
			{"leadId":"lead_a","rank":2,"reasoning":"fit"},
			{"leadId":"lead_b","rank":6,"reasoning":"weak fit"}]}`,
		"Beta": "",
	}, map[string]bool{"Beta": true})

	svc, rankings, _, _, progress := newRankingFixture(testLeads(), chat)

	err := svc.Run(context.Background(), "bat_2", ports.ProviderOpenAI, "")
	require.NoError(t, err)

	// Beta's call failed, so only Acme's rows were persisted. Progress
	// still advances over the skipped group.
	assert.Len(t, rankings.rows, 2)

	p := progress.Get("bat_2")
	assert.Equal(t, models.RankingStatusCompleted, p.Status)
	assert.Equal(t, 3, p.Completed)
}

func TestRankingService_UnparseableResponse(t *testing.T) {
	chat := rankingsByCompany(map[string]string{
		"Acme": "I cannot rank these leads.",
		"Beta": `{"rankings":[{"leadId":"lead_c","rank":1,"reasoning":"ok"}]}`,
	}, nil)

	svc, rankings, _, _, _ := newRankingFixture(testLeads(), chat)

	err := svc.Run(context.Background(), "bat_3", ports.ProviderOpenAI, "")
	require.NoError(t, err)

	require.Len(t, rankings.rows, 3)
	byLead := make(map[string]*models.Ranking)
	for _, row := range rankings.rows {
		byLead[row.LeadID] = row
	}
	assert.Nil(t, byLead["lead_a"].Rank)
	assert.Equal(t, models.ParseFailureReasoning, byLead["lead_a"].Reasoning)
	assert.Nil(t, byLead["lead_b"].Rank)
	require.NotNil(t, byLead["lead_c"].Rank)
}

func TestRankingService_NoLeads(t *testing.T) {
	svc, _, _, _, progress := newRankingFixture(nil, &stubChat{})

	err := svc.Run(context.Background(), "bat_4", ports.ProviderOpenAI, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoLeads)

	p := progress.Get("bat_4")
	assert.Equal(t, models.RankingStatusError, p.Status)
	assert.NotEmpty(t, p.Error)
}

func TestRankingService_SessionOverrideAndChanges(t *testing.T) {
	var sawOverride bool
	chat := &stubChat{fn: func(provider ports.Provider, messages []ports.ChatMessage, opts ports.ChatOptions) (*ports.ChatResult, error) {
		request := messages[len(messages)-1].Content
		if strings.HasPrefix(request, "OVERRIDE PROMPT") {
			sawOverride = true
		}
		var response string
		switch {
		case strings.Contains(request, "Company: Acme\n"):
			response = `{"rankings":[
				{"leadId":"lead_a","rank":3,"reasoning":"fit"},
				{"leadId":"lead_b","rank":null,"reasoning":"intern"}]}`
		case strings.Contains(request, "Company: Beta\n"):
			response = `{"rankings":[{"leadId":"lead_c","rank":4,"reasoning":"same as before"}]}`
		default:
			return nil, fmt.Errorf("unexpected request")
		}
		return &ports.ChatResult{Content: response, Model: "test-model"}, nil
	}}

	svc, rankings, _, sessions, _ := newRankingFixture(testLeads(), chat)

	// Pre-run state: lead_a was rank 1, lead_b rank 5, lead_c rank 4.
	rankings.preRanks = map[string]*int{
		"lead_a": intPtr(1),
		"lead_b": intPtr(5),
		"lead_c": intPtr(4),
	}
	sessions.SetPromptOverride("sess_1", "OVERRIDE PROMPT")
	require.True(t, sessions.PendingOptimization("sess_1"))

	err := svc.Run(context.Background(), "bat_5", ports.ProviderOpenAI, "sess_1")
	require.NoError(t, err)

	assert.True(t, sawOverride, "expected the session override prompt to be used")

	// lead_c kept its rank and is absent from the diff; lead_a moved and
	// lead_b flipped to irrelevant.
	changes := sessions.RankingChanges("sess_1")
	require.Len(t, changes, 2)
	byLead := make(map[string]models.RankingChange)
	for _, c := range changes {
		byLead[c.LeadID] = c
	}
	assert.Equal(t, 1, *byLead["lead_a"].OldRank)
	assert.Equal(t, 3, *byLead["lead_a"].NewRank)
	assert.Equal(t, "Ada Lovelace", byLead["lead_a"].FullName)
	assert.Nil(t, byLead["lead_b"].NewRank)

	assert.False(t, sessions.PendingOptimization("sess_1"))
}

func TestGroupByCompany_PreservesOrder(t *testing.T) {
	leads := []*models.Lead{
		{ID: "1", CompanyName: "Zeta"},
		{ID: "2", CompanyName: "Acme"},
		{ID: "3", CompanyName: "Zeta"},
	}

	groups := groupByCompany(leads)
	require.Len(t, groups, 2)
	assert.Equal(t, "Zeta", groups[0].company)
	assert.Len(t, groups[0].leads, 2)
	assert.Equal(t, "Acme", groups[1].company)
}

func TestRankingTokenBudget(t *testing.T) {
	assert.Equal(t, 4096, rankingTokenBudget(1))
	assert.Equal(t, 4096, rankingTokenBudget(16))
	// 400 + 220*17 = 4140 crosses the floor.
	assert.Equal(t, 4140, rankingTokenBudget(17))
	assert.Equal(t, 22400, rankingTokenBudget(100))
}
