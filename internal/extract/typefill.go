package extract

import (
	"strings"

	"go.uber.org/zap"

	"github.com/celiapp/catalog-cli/internal/model"
	"github.com/celiapp/catalog-cli/internal/normalize"
)

// FillTypes derives a type label for records that have a brand but no
// type, by scanning the brand and subcategory for known type keywords.
// Longer keywords win so "pale ale" beats "ale". Returns the number of
// records filled.
func FillTypes(records []*model.ProductRecord, rules *normalize.Ruleset) int {
	filled := 0
	for _, rec := range records {
		if rec.Deleted || rec.Brand == "" || rec.Type != "" {
			continue
		}
		kw := matchTypeKeyword(rec.Brand, rules.TypeKeywords)
		if kw == "" {
			kw = matchTypeKeyword(rec.Subcategory, rules.TypeKeywords)
		}
		if kw == "" {
			continue
		}
		rec.Set(model.FieldType, rules.TypeLabel(kw))
		filled++
		zap.L().Debug("filled type from keywords",
			zap.Int("row", rec.RowIndex),
			zap.String("type", rec.Type))
	}
	if filled > 0 {
		zap.L().Info("type fill complete", zap.Int("filled", filled))
	}
	return filled
}

// matchTypeKeyword returns the longest type keyword contained in the
// value as a whole word, or empty when none match.
func matchTypeKeyword(value string, keywords []string) string {
	folded := " " + strings.ToLower(strings.Join(strings.Fields(value), " ")) + " "
	best := ""
	for _, kw := range keywords {
		k := strings.ToLower(kw)
		if strings.Contains(folded, " "+k+" ") && len(k) > len(best) {
			best = k
		}
	}
	return best
}
