package tabular

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func writeFixture(t *testing.T, rows [][]string) string {
	t.Helper()

	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Products")
	require.NoError(t, err)
	for _, values := range rows {
		row := sheet.AddRow()
		for _, v := range values {
			row.AddCell().SetString(v)
		}
	}

	path := filepath.Join(t.TempDir(), "catalog.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func fixtureRows() [][]string {
	return [][]string{
		{"Product Name", "Brand"},
		{"Lagavulin 16", "Lagavulin"},
		{"Talisker 10", "Talisker"},
		{"Oban 14", "Oban"},
	}
}

func TestXLSX_ReadAll(t *testing.T) {
	s := NewXLSXStore(writeFixture(t, fixtureRows()))

	rows, err := s.ReadAll(context.Background(), "Products")

	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, 1, rows[0].Index)
	assert.Equal(t, []string{"Product Name", "Brand"}, rows[0].Values)
	assert.Equal(t, []string{"Talisker 10", "Talisker"}, rows[2].Values)
}

func TestXLSX_MissingSheet(t *testing.T) {
	s := NewXLSXStore(writeFixture(t, fixtureRows()))

	_, err := s.ReadAll(context.Background(), "Nope")
	assert.Error(t, err)
}

func TestXLSX_WriteRows(t *testing.T) {
	s := NewXLSXStore(writeFixture(t, fixtureRows()))

	err := s.WriteRows(context.Background(), "Products", map[int][]string{
		2: {"Lagavulin 16 Year", "Lagavulin"},
	})
	require.NoError(t, err)

	rows, err := s.ReadAll(context.Background(), "Products")
	require.NoError(t, err)
	assert.Equal(t, []string{"Lagavulin 16 Year", "Lagavulin"}, rows[1].Values)
	assert.Equal(t, []string{"Talisker 10", "Talisker"}, rows[2].Values)
}

func TestXLSX_WriteRows_OutOfRange(t *testing.T) {
	s := NewXLSXStore(writeFixture(t, fixtureRows()))

	err := s.WriteRows(context.Background(), "Products", map[int][]string{
		42: {"X"},
	})
	assert.Error(t, err)
}

func TestXLSX_DeleteRows(t *testing.T) {
	s := NewXLSXStore(writeFixture(t, fixtureRows()))

	// Passing indices unsorted must still delete the right rows.
	err := s.DeleteRows(context.Background(), "Products", []int{2, 4})
	require.NoError(t, err)

	rows, err := s.ReadAll(context.Background(), "Products")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Product Name", "Brand"}, rows[0].Values)
	assert.Equal(t, []string{"Talisker 10", "Talisker"}, rows[1].Values)
}
