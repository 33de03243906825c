// Package restore fills empty catalog fields from a backup snapshot when a
// confident fuzzy name match exists. The stage is read-only with respect
// to the backup and purely additive with respect to the live records: a
// populated field is never overwritten, whatever the match score says.
package restore

import (
	"go.uber.org/zap"

	"github.com/celiapp/catalog-cli/internal/match"
	"github.com/celiapp/catalog-cli/internal/model"
)

// Config holds the match acceptance parameters.
type Config struct {
	// Threshold is the inclusive minimum similarity for the best match.
	Threshold float64
	// AmbiguityMargin is the minimum lead the best match must hold over
	// the second-best. A contest closer than this is skipped entirely:
	// a no-op beats wrong data.
	AmbiguityMargin float64
}

// Result tallies what the stage did.
type Result struct {
	RestoredFields int
	AmbiguousSkips int
}

// Run restores empty fields on records from backups. Only records missing
// at least one reconcilable field are considered; deleted records are
// skipped.
func Run(records []*model.ProductRecord, backups []*model.BackupRecord, cfg Config) Result {
	var res Result
	if len(backups) == 0 {
		return res
	}

	names := make([]string, len(backups))
	for i, b := range backups {
		names[i] = b.Name
	}

	for _, rec := range records {
		if rec.Deleted || !rec.MissingAny() {
			continue
		}

		idx, best, second := match.Best(rec.Name, names)
		if idx < 0 || best < cfg.Threshold {
			continue
		}
		if best-second < cfg.AmbiguityMargin {
			res.AmbiguousSkips++
			zap.L().Info("restore: ambiguous match skipped",
				zap.Int("row", rec.RowIndex),
				zap.String("name", rec.Name),
				zap.Float64("best", best),
				zap.Float64("second", second),
			)
			continue
		}

		backup := backups[idx]
		restored := 0
		for _, f := range model.TargetFields {
			if rec.Get(f) == "" && backup.Get(f) != "" {
				rec.Set(f, backup.Get(f))
				restored++
			}
		}
		if restored > 0 {
			res.RestoredFields += restored
			zap.L().Info("restore: fields restored",
				zap.Int("row", rec.RowIndex),
				zap.Int("backup_row", backup.RowIndex),
				zap.Int("fields", restored),
				zap.Float64("score", best),
			)
		}
	}
	return res
}
