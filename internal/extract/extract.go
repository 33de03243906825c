// Package extract fills empty brand fields from product names, primarily
// through the Anthropic API with a rule-based splitter as fallback. All
// dispatch is serial: one request in flight at a time, batches paced by a
// rate limiter.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/celiapp/catalog-cli/internal/cost"
	"github.com/celiapp/catalog-cli/internal/model"
	"github.com/celiapp/catalog-cli/internal/normalize"
	"github.com/celiapp/catalog-cli/pkg/anthropic"
)

const (
	systemPrompt  = "Extract brand names. Return only JSON."
	maxReplyToken = 50
	// Pause between batches. The API tolerates far more, but the catalog
	// is not latency sensitive and the account is shared.
	batchInterval = time.Second
)

var lowTemperature = 0.1

// Config tunes eligibility, batching, and the extraction cap.
type Config struct {
	Enabled       bool
	Model         string
	MinNameLength int
	MaxNameLength int
	BatchSize     int
	MaxProducts   int
}

// Result tallies one extraction pass.
type Result struct {
	Eligible   int
	Dispatched int
	Filled     int
	Declined   int
	Failed     int
	Usage      anthropic.TokenUsage
}

// Extractor drives the brand extraction stage.
type Extractor struct {
	client  anthropic.Client
	rules   *normalize.Ruleset
	calc    *cost.Calculator
	limiter *rate.Limiter
	cfg     Config
}

// NewExtractor creates an Extractor. The client may be nil when AI
// extraction is disabled; only the fallback splitter runs then.
func NewExtractor(client anthropic.Client, rules *normalize.Ruleset, calc *cost.Calculator, cfg Config) *Extractor {
	return &Extractor{
		client:  client,
		rules:   rules,
		calc:    calc,
		limiter: rate.NewLimiter(rate.Every(batchInterval), 1),
		cfg:     cfg,
	}
}

// eligible reports whether a record qualifies for brand extraction: no
// brand yet, name inside the length bounds, and not a generic name.
func (e *Extractor) eligible(rec *model.ProductRecord) bool {
	if rec.Deleted || rec.Brand != "" {
		return false
	}
	n := len(rec.Name)
	if n < e.cfg.MinNameLength || n > e.cfg.MaxNameLength {
		return false
	}
	return !e.rules.IsGenericName(rec.Name)
}

// selectCandidates returns the eligible records capped at MaxProducts,
// preserving row order. The cap truncates, it never samples.
func (e *Extractor) selectCandidates(records []*model.ProductRecord) (candidates []*model.ProductRecord, eligibleCount int) {
	for _, rec := range records {
		if e.eligible(rec) {
			candidates = append(candidates, rec)
		}
	}
	eligibleCount = len(candidates)
	if e.cfg.MaxProducts > 0 && len(candidates) > e.cfg.MaxProducts {
		zap.L().Info("capping AI extraction",
			zap.Int("eligible", eligibleCount),
			zap.Int("cap", e.cfg.MaxProducts))
		candidates = candidates[:e.cfg.MaxProducts]
	}
	return candidates, eligibleCount
}

// Estimate computes the advisory cost of a full extraction pass over the
// given records without dispatching anything.
func (e *Extractor) Estimate(records []*model.ProductRecord) model.CostEstimate {
	candidates, _ := e.selectCandidates(records)
	return e.calc.Estimate(e.cfg.Model, len(candidates))
}

// Run performs the extraction pass. With AI disabled only the rule-based
// splitter runs. Per-record failures are tallied and logged; the pass
// always completes.
func (e *Extractor) Run(ctx context.Context, records []*model.ProductRecord) (Result, error) {
	var res Result
	candidates, eligibleCount := e.selectCandidates(records)
	res.Eligible = eligibleCount

	if len(candidates) == 0 {
		zap.L().Info("no records need brand extraction")
		return res, nil
	}

	if !e.cfg.Enabled || e.client == nil {
		for _, rec := range candidates {
			if brand, ok := SplitName(rec.Name, e.rules.BrandKeywords); ok {
				rec.Set(model.FieldBrand, brand)
				res.Filled++
			} else {
				res.Declined++
			}
		}
		zap.L().Info("rule-based extraction complete",
			zap.Int("filled", res.Filled),
			zap.Int("declined", res.Declined))
		return res, nil
	}

	est := e.calc.Estimate(e.cfg.Model, len(candidates))
	zap.L().Info("dispatching AI brand extraction",
		zap.Int("records", len(candidates)),
		zap.Int("estimated_tokens", est.EstimatedTokens),
		zap.Float64("estimated_cost", est.EstimatedCost))

	batchSize := e.cfg.BatchSize
	if batchSize < 1 {
		batchSize = 1
	}

	for start := 0; start < len(candidates); start += batchSize {
		if err := e.limiter.Wait(ctx); err != nil {
			return res, eris.Wrap(err, "extract: wait for batch slot")
		}

		end := start + batchSize
		if end > len(candidates) {
			end = len(candidates)
		}
		batch := candidates[start:end]
		zap.L().Info("processing extraction batch",
			zap.Int("batch", start/batchSize+1),
			zap.Int("batches", (len(candidates)+batchSize-1)/batchSize),
			zap.Int("size", len(batch)))

		for _, rec := range batch {
			res.Dispatched++
			brand, usage, err := e.extractBrand(ctx, rec.Name)
			res.Usage.Add(usage)
			if err != nil {
				if ctx.Err() != nil {
					return res, eris.Wrap(ctx.Err(), "extract: run")
				}
				res.Failed++
				zap.L().Warn("brand extraction failed",
					zap.Int("row", rec.RowIndex),
					zap.String("name", rec.Name),
					zap.Error(err))
				continue
			}
			if brand == "" {
				// The model declined; try the rule splitter before
				// giving up on the record.
				if fb, ok := SplitName(rec.Name, e.rules.BrandKeywords); ok {
					brand = fb
				} else {
					res.Declined++
					continue
				}
			}
			rec.Set(model.FieldBrand, e.rules.Brand(brand))
			res.Filled++
			zap.L().Info("extracted brand",
				zap.Int("row", rec.RowIndex),
				zap.String("brand", brand),
				zap.String("name", rec.Name))
		}
	}

	res.Usage.LogUsage(e.cfg.Model, "brand_extraction")
	zap.L().Info("AI brand extraction complete",
		zap.Int("dispatched", res.Dispatched),
		zap.Int("filled", res.Filled),
		zap.Int("declined", res.Declined),
		zap.Int("failed", res.Failed))
	return res, nil
}

// brandReply is the JSON shape the model is instructed to return.
type brandReply struct {
	Brand   string `json:"brand"`
	Product string `json:"product"`
}

// buildPrompt returns the fixed extraction prompt for one product name.
func buildPrompt(name string) string {
	return fmt.Sprintf(`Extract brand from: %q
Return JSON: {"brand": "BrandName", "product": "RemainingProduct"}
Examples:
"Campbell Kind Wine Tawse Riesling 2019" -> {"brand": "Campbell Kind Wine", "product": "Tawse Riesling 2019"}
"La Bélière Red Organic Wine 2019" -> {"brand": "La Bélière", "product": "Red Organic Wine 2019"}
"Red Wine 2019" -> {"brand": "", "product": "Red Wine 2019"}`, name)
}

// extractBrand asks the model to split one name. Empty brand with nil
// error means the model declined or the reply failed validation.
func (e *Extractor) extractBrand(ctx context.Context, name string) (string, anthropic.TokenUsage, error) {
	resp, err := e.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       e.cfg.Model,
		MaxTokens:   maxReplyToken,
		System:      systemPrompt,
		Temperature: &lowTemperature,
		Messages: []anthropic.Message{
			{Role: "user", Content: buildPrompt(name)},
		},
	})
	if err != nil {
		return "", anthropic.TokenUsage{}, eris.Wrapf(err, "extract: brand for %q", name)
	}

	var reply brandReply
	if err := json.Unmarshal([]byte(strings.TrimSpace(resp.Text)), &reply); err != nil {
		zap.L().Warn("unparseable extraction reply",
			zap.String("name", name),
			zap.String("reply", resp.Text))
		return "", resp.Usage, nil
	}

	brand := strings.TrimSpace(reply.Brand)
	product := strings.TrimSpace(reply.Product)
	if !validSplit(name, brand, product) {
		return "", resp.Usage, nil
	}
	return brand, resp.Usage, nil
}

// validSplit accepts an extraction only when both parts are non-empty,
// the brand is more than one character, and the parts plausibly
// reassemble the original name.
func validSplit(name, brand, product string) bool {
	if len(brand) < 2 || product == "" {
		return false
	}
	folded := strings.ToLower(strings.Join(strings.Fields(name), " "))
	b := strings.ToLower(brand)
	p := strings.ToLower(product)
	if !strings.Contains(folded, b) {
		return false
	}
	return strings.HasSuffix(folded, p) || strings.HasPrefix(folded, p)
}
