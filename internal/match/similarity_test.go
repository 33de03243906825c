package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "jack daniels old no 7", Fold("  Jack   Daniels OLD No 7 "))
	assert.Equal(t, "", Fold("   "))
}

func TestRatio_ExactAfterFolding(t *testing.T) {
	assert.Equal(t, 1.0, Ratio("Bailey's  Irish Cream", "bailey's irish cream"))
}

func TestRatio_EmptyInput(t *testing.T) {
	assert.Equal(t, 0.0, Ratio("", "anything"))
	assert.Equal(t, 0.0, Ratio("  ", "anything"))
}

func TestRatio_SimilarStrings(t *testing.T) {
	r := Ratio("Chateau Margaux 2015", "Chateau Margaux 2016")
	assert.Greater(t, r, 0.9)
	assert.Less(t, r, 1.0)
}

func TestRatio_DissimilarStrings(t *testing.T) {
	assert.Less(t, Ratio("Absolut Vodka", "Macallan 18 Year"), 0.5)
}

func TestBest(t *testing.T) {
	candidates := []string{
		"Chateau Margaux 2016",
		"Macallan 18 Year",
		"Chateau Margaux 2015",
	}

	idx, best, second := Best("Chateau Margaux 2015", candidates)

	assert.Equal(t, 2, idx)
	assert.Equal(t, 1.0, best)
	assert.Greater(t, second, 0.8)
	assert.Less(t, second, 1.0)
}

func TestBest_Empty(t *testing.T) {
	idx, best, second := Best("anything", nil)

	assert.Equal(t, -1, idx)
	assert.Equal(t, 0.0, best)
	assert.Equal(t, 0.0, second)
}
