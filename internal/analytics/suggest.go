package analytics

import (
	"sort"
	"strings"

	"github.com/garageos/workshop-manager/internal/models"
)

// Suggestion is one task recommendation derived from the OBD knowledge base.
type Suggestion struct {
	Code           string   `json:"code"`
	Title          string   `json:"title"`
	Severity       string   `json:"severity"`
	Score          int      `json:"score"`
	MatchedTerms   []string `json:"matched_terms"`
	SuggestedTasks []string `json:"suggested_tasks"`
	PotentialParts []string `json:"potential_parts"`
}

// SuggestTasks matches the free-text complaint against the knowledge base by
// keyword overlap and returns the best-scoring records, highest first. The
// score counts distinct query terms found in the code, title or symptoms;
// records with no overlap are dropped. Terms shorter than three characters
// are ignored so "a"/"is"/"on" never match.
func SuggestTasks(query string, knowledge []models.OBDCode, limit int) []Suggestion {
	terms := queryTerms(query)
	if len(terms) == 0 {
		return nil
	}

	out := make([]Suggestion, 0)
	for i := range knowledge {
		rec := &knowledge[i]
		haystack := strings.ToLower(rec.Code + " " + rec.Title + " " + strings.Join(rec.Symptoms, " "))
		var matched []string
		for _, term := range terms {
			if strings.Contains(haystack, term) {
				matched = append(matched, term)
			}
		}
		if len(matched) == 0 {
			continue
		}
		out = append(out, Suggestion{
			Code:           rec.Code,
			Title:          rec.Title,
			Severity:       rec.Severity,
			Score:          len(matched),
			MatchedTerms:   matched,
			SuggestedTasks: rec.DiagnosticSteps,
			PotentialParts: rec.PotentialParts,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func queryTerms(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	seen := make(map[string]bool)
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,;:!?")
		if len(f) < 3 || seen[f] {
			continue
		}
		seen[f] = true
		terms = append(terms, f)
	}
	return terms
}
