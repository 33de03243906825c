// Package dedupe finds catalog rows that represent the same product and
// merges each group into a single survivor under a deterministic
// precedence policy.
package dedupe

import (
	"sort"

	"go.uber.org/zap"

	"github.com/celiapp/catalog-cli/internal/match"
	"github.com/celiapp/catalog-cli/internal/model"
)

// Config controls which detection passes run.
type Config struct {
	// Exact enables the case-insensitive (brand, name) pass.
	Exact bool
	// Fuzzy enables the similarity pass over records the exact pass left
	// ungrouped.
	Fuzzy bool
	// Threshold is the inclusive similarity boundary for the fuzzy pass.
	Threshold float64
}

// Find returns the merge groups among records. Records already marked
// deleted are ignored. Groups are ordered by survivor row index.
func Find(records []*model.ProductRecord, cfg Config) []model.MergeGroup {
	byRow := make(map[int]*model.ProductRecord, len(records))
	var live []*model.ProductRecord
	for _, rec := range records {
		if rec.Deleted || match.Fold(rec.Name) == "" {
			continue
		}
		byRow[rec.RowIndex] = rec
		live = append(live, rec)
	}

	uf := newUnionFind()
	for _, rec := range live {
		uf.find(rec.RowIndex)
	}

	if cfg.Exact {
		exactPass(live, uf)
	}
	if cfg.Fuzzy {
		fuzzyPass(live, uf, cfg.Threshold)
	}

	// Collect multi-member sets.
	sets := make(map[int][]*model.ProductRecord)
	for _, rec := range live {
		root := uf.find(rec.RowIndex)
		sets[root] = append(sets[root], rec)
	}

	var groups []model.MergeGroup
	for _, members := range sets {
		if len(members) < 2 {
			// A group reduced to one record is a no-op, not an error.
			continue
		}
		sort.Slice(members, func(i, j int) bool {
			return members[i].RowIndex < members[j].RowIndex
		})
		groups = append(groups, model.MergeGroup{
			Survivor: selectSurvivor(members),
			Members:  members,
		})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Survivor.RowIndex < groups[j].Survivor.RowIndex
	})

	zap.L().Info("dedupe: detection complete",
		zap.Int("records", len(live)),
		zap.Int("groups", len(groups)),
	)
	return groups
}

// exactPass unions records whose folded (brand, name) pair is identical.
func exactPass(records []*model.ProductRecord, uf *unionFind) {
	seen := make(map[string]int)
	for _, rec := range records {
		key := match.Fold(rec.Brand) + "|" + match.Fold(rec.Name)
		if first, ok := seen[key]; ok {
			uf.union(first, rec.RowIndex)
		} else {
			seen[key] = rec.RowIndex
		}
	}
}

// fuzzyPass unions ungrouped records whose name similarity meets the
// threshold. Brand acts as the tie-break the similarity score alone
// cannot provide: records with conflicting brands never pair, since
// near-identical names under different brands are different products.
// A record with no brand can pair with anything.
func fuzzyPass(records []*model.ProductRecord, uf *unionFind, threshold float64) {
	var pending []*model.ProductRecord
	for _, rec := range records {
		if !uf.grouped(rec.RowIndex) {
			pending = append(pending, rec)
		}
	}

	for i := 0; i < len(pending); i++ {
		for j := i + 1; j < len(pending); j++ {
			a, b := pending[i], pending[j]
			ba, bb := match.Fold(a.Brand), match.Fold(b.Brand)
			if ba != "" && bb != "" && ba != bb {
				continue
			}
			score := match.Ratio(a.Name, b.Name)
			if score >= threshold {
				zap.L().Debug("dedupe: fuzzy pair",
					zap.Int("row_a", a.RowIndex),
					zap.Int("row_b", b.RowIndex),
					zap.Float64("score", score),
				)
				uf.union(a.RowIndex, b.RowIndex)
			}
		}
	}
}

// selectSurvivor applies the precedence policy: non-empty brand first,
// then field completeness, then lowest row index. Members must be sorted
// by row index so the final tie-break is deterministic.
func selectSurvivor(members []*model.ProductRecord) *model.ProductRecord {
	best := members[0]
	for _, cand := range members[1:] {
		if better(cand, best) {
			best = cand
		}
	}
	return best
}

func better(a, b *model.ProductRecord) bool {
	aBrand, bBrand := a.Brand != "", b.Brand != ""
	if aBrand != bBrand {
		return aBrand
	}
	if ap, bp := a.PopulatedFields(), b.PopulatedFields(); ap != bp {
		return ap > bp
	}
	return a.RowIndex < b.RowIndex
}

// Merge widens each survivor with fields it lacks from its group members,
// then marks the non-survivors deleted. Populated survivor fields are
// never overwritten. Returns the number of rows marked deleted; at least
// one record of every group always remains.
func Merge(groups []model.MergeGroup) int {
	merged := 0
	for _, g := range groups {
		s := g.Survivor
		for _, m := range g.Members {
			if m == s {
				continue
			}
			for _, f := range model.TargetFields {
				if s.Get(f) == "" && m.Get(f) != "" {
					s.Set(f, m.Get(f))
				}
			}
			// Widen passthrough columns the same way.
			for i, v := range m.Raw {
				if v == "" {
					continue
				}
				for len(s.Raw) <= i {
					s.Raw = append(s.Raw, "")
				}
				if s.Raw[i] == "" {
					s.Raw[i] = v
					s.Dirty = true
				}
			}
			m.Deleted = true
			merged++
		}
		zap.L().Info("dedupe: merged group",
			zap.Int("survivor_row", s.RowIndex),
			zap.Int("members", len(g.Members)),
		)
	}
	return merged
}
