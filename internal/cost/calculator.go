// Package cost estimates AI spend before any extraction batch is
// dispatched. Estimates are advisory: they are surfaced to the operator
// but never gate execution; the max_ai_products cap is the hard limit.
package cost

import "github.com/celiapp/catalog-cli/internal/model"

// ModelRate holds per-model token pricing (USD per million tokens).
type ModelRate struct {
	Input  float64 `yaml:"input" mapstructure:"input"`
	Output float64 `yaml:"output" mapstructure:"output"`
}

// Per-record token model: a short extraction prompt plus a small JSON
// reply. Matches the fixed instruction in the extract package.
const (
	inputTokensPerRecord  = 100
	outputTokensPerRecord = 50
)

// Calculator computes extraction cost estimates.
type Calculator struct {
	rates map[string]ModelRate
}

// NewCalculator creates a Calculator with the given rates.
func NewCalculator(rates map[string]ModelRate) *Calculator {
	return &Calculator{rates: rates}
}

// Estimate computes the advisory CostEstimate for dispatching recordCount
// extraction requests against model. Unknown models estimate zero dollars
// but still report token volume.
func (c *Calculator) Estimate(model_ string, recordCount int) model.CostEstimate {
	inTokens := recordCount * inputTokensPerRecord
	outTokens := recordCount * outputTokensPerRecord

	est := model.CostEstimate{
		RecordCount:     recordCount,
		EstimatedTokens: inTokens + outTokens,
	}
	if rate, ok := c.rates[model_]; ok {
		est.EstimatedCost = (float64(inTokens)/1e6)*rate.Input + (float64(outTokens)/1e6)*rate.Output
	}
	return est
}

// DefaultRates returns the default pricing rates.
func DefaultRates() map[string]ModelRate {
	return map[string]ModelRate{
		"claude-haiku-4-5-20251001":  {Input: 0.80, Output: 4.00},
		"claude-sonnet-4-5-20250929": {Input: 3.00, Output: 15.00},
	}
}
