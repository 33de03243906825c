// Package normalize canonicalizes brand, subcategory, and type labels via
// immutable rule tables loaded once at process start. All functions are
// pure: no I/O, deterministic, idempotent.
package normalize

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Ruleset holds the lookup tables driving normalization. Variant keys are
// matched exactly after whitespace cleanup; unmatched values pass through
// cleaned but otherwise unchanged.
type Ruleset struct {
	// BrandVariants maps known brand spellings to the canonical spelling.
	BrandVariants map[string]string `yaml:"brand_variants"`
	// SubcategorySynonyms maps synonyms and misspellings to the
	// controlled subcategory vocabulary.
	SubcategorySynonyms map[string]string `yaml:"subcategory_synonyms"`
	// GenericStarters are leading words that mark a product name as
	// generic (no distinguishing brand); such names never reach the AI
	// extraction stage.
	GenericStarters []string `yaml:"generic_starters"`
	// BrandKeywords are known brands used by the rule-based extraction
	// fallback.
	BrandKeywords []string `yaml:"brand_keywords"`
	// TypeKeywords are generic product types recognized inside brand
	// fields and subcategories when deriving a type label.
	TypeKeywords []string `yaml:"type_keywords"`
	// UppercaseTypes are type labels rendered all-caps rather than
	// title-cased (varietal acronyms and the like).
	UppercaseTypes []string `yaml:"uppercase_types"`

	genericSet   map[string]bool
	uppercaseSet map[string]bool
}

// Load reads a Ruleset from a YAML file, replacing the built-in tables.
func Load(path string) (*Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "normalize: read rules file %s", path)
	}
	var rs Ruleset
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, eris.Wrapf(err, "normalize: parse rules file %s", path)
	}
	rs.index()
	return &rs, nil
}

// index builds the lookup sets. Called once at load time.
func (rs *Ruleset) index() {
	rs.genericSet = make(map[string]bool, len(rs.GenericStarters))
	for _, w := range rs.GenericStarters {
		rs.genericSet[strings.ToLower(w)] = true
	}
	rs.uppercaseSet = make(map[string]bool, len(rs.UppercaseTypes))
	for _, w := range rs.UppercaseTypes {
		rs.uppercaseSet[strings.ToLower(w)] = true
	}
}

// IsGenericName reports whether a product name starts with a generic word
// (a bare varietal or category term), meaning it carries no extractable
// brand.
func (rs *Ruleset) IsGenericName(name string) bool {
	fields := strings.Fields(strings.ToLower(name))
	if len(fields) == 0 {
		return true
	}
	if rs.genericSet[fields[0]] {
		return true
	}
	// Two-word starters like "red wine".
	if len(fields) >= 2 && rs.genericSet[fields[0]+" "+fields[1]] {
		return true
	}
	return false
}
