package catalog

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// SuggestionStrategy proposes known names close to an unknown one. It
// returns nil when nothing is close.
type SuggestionStrategy interface {
	Suggest(candidates []string, unknown string) []string
}

// SuggestionFunc adapts a function to SuggestionStrategy.
type SuggestionFunc func(candidates []string, unknown string) []string

func (f SuggestionFunc) Suggest(candidates []string, unknown string) []string {
	return f(candidates, unknown)
}

// LevenshteinSuggester ranks candidates by case-insensitive edit distance.
type LevenshteinSuggester struct {
	MaxDistance int // default 2
	Limit       int // default 3
}

func (s LevenshteinSuggester) Suggest(candidates []string, unknown string) []string {
	maxDist := s.MaxDistance
	if maxDist <= 0 {
		maxDist = 2
	}
	limit := s.Limit
	if limit <= 0 {
		limit = 3
	}
	type scored struct {
		name string
		dist int
	}
	u := strings.ToLower(unknown)
	var hits []scored
	seen := map[string]bool{}
	for _, c := range candidates {
		if seen[c] {
			continue
		}
		seen[c] = true
		if d := levenshtein.ComputeDistance(strings.ToLower(c), u); d <= maxDist {
			hits = append(hits, scored{c, d})
		}
	}
	if len(hits) == 0 {
		return nil
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].dist != hits[j].dist {
			return hits[i].dist < hits[j].dist
		}
		return hits[i].name < hits[j].name
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.name
	}
	return out
}
