package resources

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Suggest returns the candidate closest to input, or "" when nothing is close enough.
func Suggest(input string, candidates []string) string {
	in := strings.ToLower(strings.TrimSpace(input))
	if in == "" {
		return ""
	}

	best := ""
	bestDist := -1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(in, strings.ToLower(c))
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}

	limit := len(in) / 3
	if limit < 2 {
		limit = 2
	}
	if bestDist < 0 || bestDist > limit {
		return ""
	}
	return best
}

func unsupportedValueError(what, got string, supported []string) error {
	if s := Suggest(got, supported); s != "" {
		return fmt.Errorf("unsupported %s %q, did you mean %q? supported values: %v", what, got, s, supported)
	}
	return fmt.Errorf("unsupported %s %q, supported values: %v", what, got, supported)
}
