package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/celiapp/catalog-cli/internal/model"
)

var titleCaser = cases.Title(language.English)

// clean trims a value and collapses internal whitespace runs.
func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Brand maps a brand spelling to its canonical form. Unmatched brands are
// returned cleaned but otherwise unchanged.
func (rs *Ruleset) Brand(brand string) string {
	cleaned := clean(brand)
	if cleaned == "" {
		return ""
	}
	if canonical, ok := rs.BrandVariants[cleaned]; ok {
		return canonical
	}
	return cleaned
}

// Subcategory maps a subcategory label onto the controlled vocabulary.
// Unmatched values pass through cleaned.
func (rs *Ruleset) Subcategory(sub string) string {
	cleaned := clean(strings.TrimRight(strings.TrimSpace(sub), ","))
	if cleaned == "" {
		return ""
	}
	if canonical, ok := rs.SubcategorySynonyms[cleaned]; ok {
		return canonical
	}
	return cleaned
}

// TypeLabel re-cases a derived type label: acronym types (IPA and friends)
// go upper, everything else title case.
func (rs *Ruleset) TypeLabel(t string) string {
	cleaned := clean(t)
	if cleaned == "" {
		return ""
	}
	if rs.uppercaseSet[strings.ToLower(cleaned)] {
		return strings.ToUpper(cleaned)
	}
	return titleCaser.String(strings.ToLower(cleaned))
}

// Apply normalizes one record in place and returns the number of fields
// that changed. Name is never touched. Applying twice is a no-op.
func (rs *Ruleset) Apply(rec *model.ProductRecord) int {
	changed := 0
	if b := rs.Brand(rec.Brand); b != rec.Brand {
		rec.Set(model.FieldBrand, b)
		changed++
	}
	if s := rs.Subcategory(rec.Subcategory); s != rec.Subcategory {
		rec.Set(model.FieldSubcategory, s)
		changed++
	}
	if rec.Type != "" {
		if t := rs.TypeLabel(rec.Type); t != rec.Type {
			rec.Set(model.FieldType, t)
			changed++
		}
	}
	return changed
}

// stripForGrouping reduces a brand to its apostrophe-and-case-insensitive
// form for alternative grouping.
func stripForGrouping(brand string) string {
	s := strings.ToLower(brand)
	for _, r := range []string{"'", "’", "\"", "“", "”"} {
		s = strings.ReplaceAll(s, r, "")
	}
	return clean(s)
}

// scoreBrandSpelling ranks alternative spellings of the same brand: proper
// apostrophes beat missing ones, mixed case beats all caps, fewer words
// beat more.
func scoreBrandSpelling(brand string) int {
	score := 0
	if strings.ContainsAny(brand, "'’") {
		score += 10
	}
	if brand == strings.ToUpper(brand) {
		score -= 5
	} else if brand != "" && brand[0] >= 'A' && brand[0] <= 'Z' {
		score += 5
	}
	score -= len(strings.Fields(brand))
	return score
}

// ConsolidateBrands groups brands whose stripped forms collide, picks the
// best spelling within each group, and rewrites the rest. Returns the
// number of records whose brand changed.
func (rs *Ruleset) ConsolidateBrands(records []*model.ProductRecord) int {
	groups := make(map[string][]string)
	for _, rec := range records {
		if rec.Brand == "" {
			continue
		}
		key := stripForGrouping(rec.Brand)
		groups[key] = append(groups[key], rec.Brand)
	}

	mapping := make(map[string]string)
	for _, alternatives := range groups {
		best := alternatives[0]
		for _, alt := range alternatives[1:] {
			if scoreBrandSpelling(alt) > scoreBrandSpelling(best) {
				best = alt
			}
		}
		for _, alt := range alternatives {
			if alt != best {
				mapping[alt] = best
			}
		}
	}

	changed := 0
	for _, rec := range records {
		if best, ok := mapping[rec.Brand]; ok {
			rec.Set(model.FieldBrand, best)
			changed++
		}
	}
	return changed
}
