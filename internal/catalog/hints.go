package catalog

import (
	"sort"

	"github.com/agnivade/levenshtein"
)

// MaxHintDistance is the largest edit distance reported as a suggestion.
const MaxHintDistance = 2

// CategoryHint flags a configured weight category that matched no discovered
// category. Suggestion is the closest discovered category within
// MaxHintDistance edits, or empty.
type CategoryHint struct {
	Configured string
	Suggestion string
	Distance   int
}

// SuggestCategories checks configured categories against the discovered ones
// and returns a hint for each configured category that is never used.
func SuggestCategories(configured, discovered []string) []CategoryHint {
	known := make(map[string]struct{}, len(discovered))
	for _, d := range discovered {
		known[d] = struct{}{}
	}

	names := append([]string(nil), configured...)
	sort.Strings(names)

	var hints []CategoryHint
	for _, name := range names {
		if _, ok := known[name]; ok {
			continue
		}
		hint := CategoryHint{Configured: name}
		best := MaxHintDistance + 1
		for _, d := range discovered {
			dist := levenshtein.ComputeDistance(name, d)
			if dist < best || (dist == best && d < hint.Suggestion) {
				best = dist
				hint.Suggestion = d
			}
		}
		if hint.Suggestion != "" {
			hint.Distance = best
		}
		hints = append(hints, hint)
	}
	return hints
}
