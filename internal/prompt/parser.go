package prompt

import (
	"encoding/json"
	"strings"

	"github.com/arthurmateu/throxy-project/internal/domain/models"
)

type rankingEntry struct {
	LeadID    string `json:"leadId"`
	Rank      *int   `json:"rank"`
	Reasoning string `json:"reasoning"`
}

// ParseRankingResponse extracts ranking records from raw LLM output.
// It always returns exactly one result per requested lead id: matched
// entries first in response order, then every unmatched id with a nil rank
// and the parse-failure sentinel reasoning. Duplicate entries for the same
// id are dropped (first occurrence wins); entries for ids that were not
// requested are ignored.
func ParseRankingResponse(raw string, leadIDs []string) []models.RankingResult {
	requested := make(map[string]bool, len(leadIDs))
	for _, id := range leadIDs {
		requested[id] = true
	}

	results := make([]models.RankingResult, 0, len(leadIDs))
	matched := make(map[string]bool, len(leadIDs))

	for _, entry := range extractEntries(raw) {
		if !requested[entry.LeadID] || matched[entry.LeadID] {
			continue
		}
		matched[entry.LeadID] = true
		results = append(results, models.RankingResult{
			LeadID:    entry.LeadID,
			Rank:      entry.Rank,
			Reasoning: entry.Reasoning,
		})
	}

	for _, id := range leadIDs {
		if matched[id] {
			continue
		}
		results = append(results, models.RankingResult{
			LeadID:    id,
			Rank:      nil,
			Reasoning: models.ParseFailureReasoning,
		})
	}

	return results
}

// extractEntries locates the first top-level {...} span (first '{' to last
// '}') and decodes its "rankings" list. Any failure yields no entries;
// individual malformed list items are skipped rather than failing the whole
// response.
func extractEntries(raw string) []rankingEntry {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return nil
	}
	span := raw[start : end+1]

	var payload struct {
		Rankings json.RawMessage `json:"rankings"`
	}
	if err := json.Unmarshal([]byte(span), &payload); err != nil {
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(payload.Rankings, &items); err != nil {
		return nil
	}

	entries := make([]rankingEntry, 0, len(items))
	for _, item := range items {
		var entry rankingEntry
		if err := json.Unmarshal(item, &entry); err != nil {
			continue
		}
		if entry.LeadID == "" {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}
