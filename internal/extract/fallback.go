package extract

import (
	"strings"
	"unicode"
)

// maxLeadingBrandWords bounds the capitalized-prefix heuristic; real
// brand names on the sheet run one to three words.
const maxLeadingBrandWords = 3

// SplitName extracts a brand from a product name without the API: first
// by matching a known brand keyword prefix, then by taking the leading
// run of capitalized words. Returns false when no confident split exists.
func SplitName(name string, brandKeywords []string) (string, bool) {
	cleaned := strings.Join(strings.Fields(name), " ")
	if cleaned == "" {
		return "", false
	}
	folded := strings.ToLower(cleaned)

	// Known brand prefix wins, longest match first.
	var best string
	for _, kw := range brandKeywords {
		k := strings.ToLower(kw)
		if strings.HasPrefix(folded, k+" ") && len(k) > len(best) {
			best = cleaned[:len(k)]
		}
	}
	if best != "" {
		return best, true
	}

	// Leading capitalized words, stopping at the first lowercase or
	// numeric token. The split needs at least one remaining word so the
	// whole name is never consumed as a brand.
	words := strings.Fields(cleaned)
	n := 0
	for _, w := range words {
		if n >= maxLeadingBrandWords || !startsUpper(w) {
			break
		}
		n++
	}
	if n == 0 || n >= len(words) {
		return "", false
	}
	return strings.Join(words[:n], " "), true
}

func startsUpper(w string) bool {
	for _, r := range w {
		return unicode.IsUpper(r)
	}
	return false
}
