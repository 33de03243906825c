package cost

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimate_KnownModel(t *testing.T) {
	c := NewCalculator(DefaultRates())

	est := c.Estimate("claude-haiku-4-5-20251001", 500)

	assert.Equal(t, 500, est.RecordCount)
	assert.Equal(t, 75000, est.EstimatedTokens)
	// 50k input at $0.80/M plus 25k output at $4.00/M.
	assert.InDelta(t, 0.14, est.EstimatedCost, 1e-9)
}

func TestEstimate_UnknownModelReportsTokensOnly(t *testing.T) {
	c := NewCalculator(DefaultRates())

	est := c.Estimate("some-future-model", 10)

	assert.Equal(t, 1500, est.EstimatedTokens)
	assert.Zero(t, est.EstimatedCost)
}

func TestEstimate_ZeroRecords(t *testing.T) {
	c := NewCalculator(DefaultRates())

	est := c.Estimate("claude-haiku-4-5-20251001", 0)

	assert.Zero(t, est.EstimatedTokens)
	assert.Zero(t, est.EstimatedCost)
}
