package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/vongohren/fpl-ai-assist/internal/fplapi"
)

// resolveTeam maps free-text input (id, short code, or full name, possibly
// misspelled) to a catalog team. Exact matches win; otherwise the closest
// name by Levenshtein distance, rejected when nothing comes close.
func resolveTeam(teams []fplapi.Team, query string) (fplapi.Team, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return fplapi.Team{}, fmt.Errorf("team is required")
	}

	if id, err := strconv.Atoi(q); err == nil {
		for _, t := range teams {
			if t.ID == id {
				return t, nil
			}
		}
		return fplapi.Team{}, fmt.Errorf("unknown team id %d", id)
	}

	lower := strings.ToLower(q)
	for _, t := range teams {
		if strings.ToLower(t.ShortName) == lower || strings.ToLower(t.Name) == lower {
			return t, nil
		}
	}

	best := fplapi.Team{}
	bestDist := -1
	for _, t := range teams {
		d := fuzzy.LevenshteinDistance(lower, strings.ToLower(t.Name))
		if ds := fuzzy.LevenshteinDistance(lower, strings.ToLower(t.ShortName)); ds < d {
			d = ds
		}
		if bestDist == -1 || d < bestDist {
			best, bestDist = t, d
		}
	}
	// A distance beyond half the query length is a different word, not a
	// typo.
	if bestDist == -1 || bestDist > len(lower)/2+1 {
		return fplapi.Team{}, fmt.Errorf("unknown team %q", query)
	}
	return best, nil
}
