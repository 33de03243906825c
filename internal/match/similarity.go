// Package match provides the string-similarity primitives shared by the
// duplicate detector and the backup restorer. Scores are in [0,1] and all
// threshold comparisons in the pipeline treat the boundary as inclusive.
package match

import (
	"strings"

	"github.com/agext/levenshtein"
)

var params = levenshtein.NewParams()

// Fold lowercases a string and collapses runs of whitespace, producing the
// comparison form used by both matching passes.
func Fold(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Ratio returns an edit-distance-based similarity in [0,1] between the
// folded forms of a and b. Symmetric; 1.0 for folded equality; 0 when
// either side folds to empty.
func Ratio(a, b string) float64 {
	fa, fb := Fold(a), Fold(b)
	if fa == "" || fb == "" {
		return 0
	}
	if fa == fb {
		return 1
	}
	return levenshtein.Similarity(fa, fb, params)
}

// Best scores name against every candidate and returns the index of the
// best candidate along with the best and second-best scores. Returns
// index -1 when candidates is empty.
func Best(name string, candidates []string) (idx int, best, second float64) {
	idx = -1
	for i, c := range candidates {
		s := Ratio(name, c)
		switch {
		case s > best:
			second = best
			best = s
			idx = i
		case s > second:
			second = s
		}
	}
	return idx, best, second
}
