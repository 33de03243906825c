// Package tabular abstracts the sheet backends the reconciler reads and
// writes. A Store sees rows as positional string slices; column semantics
// live in ColumnMap, resolved from the header row once per read.
package tabular

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/celiapp/catalog-cli/internal/model"
)

// Row is one sheet row. Index is 1-based and counts the header, matching
// how spreadsheet UIs number rows; data rows start at 2.
type Row struct {
	Index  int
	Values []string
}

// Store is a tabular sheet backend.
type Store interface {
	// ReadAll returns the header row followed by every data row.
	ReadAll(ctx context.Context, sheet string) ([]Row, error)
	// WriteRows rewrites the given rows in place, keyed by row index.
	WriteRows(ctx context.Context, sheet string, rows map[int][]string) error
	// DeleteRows removes the given rows. Implementations delete in
	// descending index order so earlier deletions never shift later ones.
	DeleteRows(ctx context.Context, sheet string, indices []int) error
}

// ColumnMap resolves the reconcilable fields to column positions. A value
// of -1 means the sheet has no such column.
type ColumnMap struct {
	Name        int
	Brand       int
	Subcategory int
	Type        int
	Width       int
}

// ResolveColumns builds a ColumnMap from a header row. Matching is fuzzy:
// case-insensitive, underscores and hyphens treated as spaces, so
// "Brand_Name", "brand name", and "Brand" all resolve. The name column is
// required.
func ResolveColumns(header []string) (ColumnMap, error) {
	cm := ColumnMap{Name: -1, Brand: -1, Subcategory: -1, Type: -1, Width: len(header)}
	for i, h := range header {
		clean := strings.Join(strings.Fields(strings.NewReplacer("_", " ", "-", " ").Replace(strings.ToLower(h))), " ")
		switch {
		case cm.Name < 0 && (clean == "product" || strings.Contains(clean, "product name") || clean == "name"):
			cm.Name = i
		case cm.Brand < 0 && (clean == "brand" || strings.Contains(clean, "brand name")):
			cm.Brand = i
		case cm.Subcategory < 0 && strings.Contains(clean, "subcategory"):
			cm.Subcategory = i
		case cm.Type < 0 && (clean == "type" || strings.Contains(clean, "product type")):
			cm.Type = i
		}
	}
	if cm.Name < 0 {
		return cm, eris.Errorf("tabular: no product name column in header %v", header)
	}
	return cm, nil
}

// cell returns a row value by position, tolerating ragged rows.
func cell(values []string, idx int) string {
	if idx < 0 || idx >= len(values) {
		return ""
	}
	return strings.TrimSpace(values[idx])
}

// ToRecord converts a data row into a ProductRecord using the column map.
// The full row is preserved in Raw for write-back, padded to header width
// but never truncated: cells beyond the header still ride along into
// merges and writes.
func (cm ColumnMap) ToRecord(r Row) *model.ProductRecord {
	width := cm.Width
	if len(r.Values) > width {
		width = len(r.Values)
	}
	raw := make([]string, width)
	copy(raw, r.Values)
	return &model.ProductRecord{
		RowIndex:    r.Index,
		Name:        cell(r.Values, cm.Name),
		Brand:       cell(r.Values, cm.Brand),
		Subcategory: cell(r.Values, cm.Subcategory),
		Type:        cell(r.Values, cm.Type),
		Raw:         raw,
	}
}

// ToBackupRecord converts a backup sheet row.
func (cm ColumnMap) ToBackupRecord(r Row) *model.BackupRecord {
	return &model.BackupRecord{
		RowIndex:    r.Index,
		Name:        cell(r.Values, cm.Name),
		Brand:       cell(r.Values, cm.Brand),
		Subcategory: cell(r.Values, cm.Subcategory),
		Type:        cell(r.Values, cm.Type),
	}
}

// FromRecord renders a record back into a positional row, writing the
// reconciled fields over the preserved raw cells. Unknown columns keep
// their original values.
func (cm ColumnMap) FromRecord(rec *model.ProductRecord) []string {
	width := cm.Width
	if len(rec.Raw) > width {
		width = len(rec.Raw)
	}
	values := make([]string, width)
	copy(values, rec.Raw)
	set := func(idx int, v string) {
		if idx >= 0 && idx < len(values) {
			values[idx] = v
		}
	}
	set(cm.Name, rec.Name)
	set(cm.Brand, rec.Brand)
	set(cm.Subcategory, rec.Subcategory)
	set(cm.Type, rec.Type)
	return values
}
