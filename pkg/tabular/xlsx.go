package tabular

import (
	"context"
	"sort"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// XLSXStore is a file-backed Store, one worksheet per sheet name. Used
// for local runs and fixtures; the whole workbook is rewritten on every
// mutation.
type XLSXStore struct {
	path string
}

// NewXLSXStore creates a Store over an XLSX workbook on disk.
func NewXLSXStore(path string) *XLSXStore {
	return &XLSXStore{path: path}
}

func (s *XLSXStore) open(sheetName string) (*xlsx.File, *xlsx.Sheet, error) {
	f, err := xlsx.OpenFile(s.path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "tabular: open workbook %s", s.path)
	}
	sheet, ok := f.Sheet[sheetName]
	if !ok {
		return nil, nil, eris.Errorf("tabular: workbook %s has no sheet %q", s.path, sheetName)
	}
	return f, sheet, nil
}

// ReadAll returns every row of the named worksheet.
func (s *XLSXStore) ReadAll(_ context.Context, sheetName string) ([]Row, error) {
	_, sheet, err := s.open(sheetName)
	if err != nil {
		return nil, err
	}
	rows := make([]Row, 0, len(sheet.Rows))
	for i, row := range sheet.Rows {
		values := make([]string, len(row.Cells))
		for j, c := range row.Cells {
			values[j] = c.String()
		}
		rows = append(rows, Row{Index: i + 1, Values: values})
	}
	return rows, nil
}

// WriteRows rewrites the given rows in place and saves the workbook.
func (s *XLSXStore) WriteRows(_ context.Context, sheetName string, rows map[int][]string) error {
	f, sheet, err := s.open(sheetName)
	if err != nil {
		return err
	}
	for idx, values := range rows {
		pos := idx - 1
		if pos < 0 || pos >= len(sheet.Rows) {
			return eris.Errorf("tabular: write to row %d outside sheet %q (%d rows)", idx, sheetName, len(sheet.Rows))
		}
		row := sheet.Rows[pos]
		for j, v := range values {
			for len(row.Cells) <= j {
				row.AddCell()
			}
			row.Cells[j].SetString(v)
		}
	}
	if err := f.Save(s.path); err != nil {
		return eris.Wrapf(err, "tabular: save workbook %s", s.path)
	}
	return nil
}

// DeleteRows removes rows from the worksheet, highest index first.
func (s *XLSXStore) DeleteRows(_ context.Context, sheetName string, indices []int) error {
	if len(indices) == 0 {
		return nil
	}
	f, sheet, err := s.open(sheetName)
	if err != nil {
		return err
	}

	desc := append([]int(nil), indices...)
	sort.Sort(sort.Reverse(sort.IntSlice(desc)))

	for _, idx := range desc {
		pos := idx - 1
		if pos < 0 || pos >= len(sheet.Rows) {
			return eris.Errorf("tabular: delete row %d outside sheet %q (%d rows)", idx, sheetName, len(sheet.Rows))
		}
		sheet.Rows = append(sheet.Rows[:pos], sheet.Rows[pos+1:]...)
	}
	if err := f.Save(s.path); err != nil {
		return eris.Wrapf(err, "tabular: save workbook %s", s.path)
	}
	return nil
}
