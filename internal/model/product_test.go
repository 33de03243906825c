package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetMarksDirtyOnChange(t *testing.T) {
	r := &ProductRecord{Brand: "Absolut"}

	r.Set(FieldBrand, "Absolut")
	assert.False(t, r.Dirty, "no-op set must not dirty the record")

	r.Set(FieldBrand, "Absolut Elyx")
	assert.True(t, r.Dirty)
	assert.Equal(t, "Absolut Elyx", r.Brand)
}

func TestSetIgnoresUnknownField(t *testing.T) {
	r := &ProductRecord{}
	r.Set(Field("name"), "should not land anywhere")
	assert.False(t, r.Dirty)
	assert.Empty(t, r.Get(Field("name")))
}

func TestMissingAny(t *testing.T) {
	r := &ProductRecord{Brand: "Absolut", Subcategory: "Vodka", Type: "Vodka"}
	assert.False(t, r.MissingAny())

	r.Type = "   "
	assert.True(t, r.MissingAny(), "whitespace counts as empty")
}

func TestPopulatedFields(t *testing.T) {
	r := &ProductRecord{
		Name:  "Absolut Elyx",
		Brand: "Absolut",
		Raw:   []string{"Absolut Elyx", "Absolut", "", "", "750ml"},
	}
	// name + brand + three non-empty raw cells
	assert.Equal(t, 5, r.PopulatedFields())

	assert.Greater(t, r.PopulatedFields(), (&ProductRecord{Name: "Absolut Elyx"}).PopulatedFields())
}
