package cli

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

const maxSuggestions = 3

// suggest returns up to maxSuggestions candidates that fuzzily match
// pattern, best match first. Matching is case-insensitive.
func suggest(pattern string, candidates []string) []string {
	pattern = strings.ToLower(strings.TrimSpace(pattern))
	if pattern == "" || len(candidates) == 0 {
		return nil
	}
	lower := make([]string, len(candidates))
	for i, c := range candidates {
		lower[i] = strings.ToLower(c)
	}

	matches := fuzzy.Find(pattern, lower)
	out := make([]string, 0, maxSuggestions)
	for _, m := range matches {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, candidates[m.Index])
	}
	return out
}
