package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/celiapp/catalog-cli/internal/model"
)

func TestResolveColumns_FuzzyAliases(t *testing.T) {
	cm, err := ResolveColumns([]string{"Product_Name", "BRAND-NAME", "Subcategory", "Product Type", "Price"})

	require.NoError(t, err)
	assert.Equal(t, 0, cm.Name)
	assert.Equal(t, 1, cm.Brand)
	assert.Equal(t, 2, cm.Subcategory)
	assert.Equal(t, 3, cm.Type)
	assert.Equal(t, 5, cm.Width)
}

func TestResolveColumns_BareHeaders(t *testing.T) {
	cm, err := ResolveColumns([]string{"brand", "name", "type"})

	require.NoError(t, err)
	assert.Equal(t, 1, cm.Name)
	assert.Equal(t, 0, cm.Brand)
	assert.Equal(t, 2, cm.Type)
	assert.Equal(t, -1, cm.Subcategory)
}

func TestResolveColumns_NameRequired(t *testing.T) {
	_, err := ResolveColumns([]string{"brand", "price", "sku"})
	assert.Error(t, err)
}

func TestToRecord_RaggedRowTolerated(t *testing.T) {
	cm, err := ResolveColumns([]string{"Product Name", "Brand", "Subcategory", "Type"})
	require.NoError(t, err)

	rec := cm.ToRecord(Row{Index: 5, Values: []string{"Lagavulin 16", "Lagavulin"}})

	assert.Equal(t, 5, rec.RowIndex)
	assert.Equal(t, "Lagavulin 16", rec.Name)
	assert.Equal(t, "Lagavulin", rec.Brand)
	assert.Empty(t, rec.Subcategory)
	assert.Empty(t, rec.Type)
	assert.Len(t, rec.Raw, 4)
}

func TestToRecord_RowWiderThanHeaderKept(t *testing.T) {
	cm, err := ResolveColumns([]string{"Product Name", "Brand", "Subcategory", "Type"})
	require.NoError(t, err)

	// Cells past the header must survive into Raw so a merge can still
	// widen them onto a survivor before the row is deleted.
	rec := cm.ToRecord(Row{Index: 9, Values: []string{"Lagavulin 16", "Lagavulin", "Scotch", "", "LAG-16"}})

	require.Len(t, rec.Raw, 5)
	assert.Equal(t, "LAG-16", rec.Raw[4])

	values := cm.FromRecord(rec)
	require.Len(t, values, 5)
	assert.Equal(t, "LAG-16", values[4])
}

func TestFromRecord_PreservesPassthroughColumns(t *testing.T) {
	cm, err := ResolveColumns([]string{"Product Name", "Brand", "Subcategory", "Type", "Price", "SKU"})
	require.NoError(t, err)

	row := Row{Index: 7, Values: []string{"Lagavulin 16", "lagavulin", "", "", "129.99", "LAG-16"}}
	rec := cm.ToRecord(row)
	rec.Set(model.FieldBrand, "Lagavulin")
	rec.Set(model.FieldType, "Single Malt")

	values := cm.FromRecord(rec)

	assert.Equal(t, []string{"Lagavulin 16", "Lagavulin", "", "Single Malt", "129.99", "LAG-16"}, values)
}

func TestToBackupRecord(t *testing.T) {
	cm, err := ResolveColumns([]string{"Product Name", "Brand", "Subcategory", "Type"})
	require.NoError(t, err)

	b := cm.ToBackupRecord(Row{Index: 3, Values: []string{"Lagavulin 16", "Lagavulin", "Scotch", "Single Malt"}})

	assert.Equal(t, 3, b.RowIndex)
	assert.Equal(t, "Lagavulin", b.Brand)
	assert.Equal(t, "Scotch", b.Subcategory)
}
