package extract

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/celiapp/catalog-cli/internal/cost"
	"github.com/celiapp/catalog-cli/internal/model"
	"github.com/celiapp/catalog-cli/internal/normalize"
	"github.com/celiapp/catalog-cli/pkg/anthropic"
)

// fakeClient returns canned replies keyed by the product name embedded in
// the prompt.
type fakeClient struct {
	replies map[string]string
	err     error
	calls   int
}

func (f *fakeClient) CreateMessage(_ context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	for name, reply := range f.replies {
		if len(req.Messages) > 0 && strings.Contains(req.Messages[0].Content, name) {
			return &anthropic.MessageResponse{
				Text:  reply,
				Usage: anthropic.TokenUsage{InputTokens: 100, OutputTokens: 50},
			}, nil
		}
	}
	return &anthropic.MessageResponse{Text: `{"brand": "", "product": ""}`}, nil
}

func newExtractor(client anthropic.Client, cfg Config) *Extractor {
	return NewExtractor(client, normalize.Default(), cost.NewCalculator(cost.DefaultRates()), cfg)
}

func aiConfig() Config {
	return Config{
		Enabled:       true,
		Model:         "claude-haiku-4-5-20251001",
		MinNameLength: 5,
		MaxNameLength: 100,
		BatchSize:     50,
		MaxProducts:   500,
	}
}

func TestEligibility(t *testing.T) {
	e := newExtractor(nil, aiConfig())

	assert.True(t, e.eligible(&model.ProductRecord{Name: "Campbell Kind Wine Tawse Riesling"}))
	assert.False(t, e.eligible(&model.ProductRecord{Name: "Campbell Kind Wine", Brand: "Campbell"}), "existing brand")
	assert.False(t, e.eligible(&model.ProductRecord{Name: "abc"}), "too short")
	assert.False(t, e.eligible(&model.ProductRecord{Name: "Red Wine 2019"}), "generic starter")
	assert.False(t, e.eligible(&model.ProductRecord{Name: "Campbell Kind Wine", Deleted: true}), "deleted")
}

func TestSelectCandidates_CapTruncatesInRowOrder(t *testing.T) {
	cfg := aiConfig()
	cfg.MaxProducts = 2
	e := newExtractor(nil, cfg)

	records := []*model.ProductRecord{
		{RowIndex: 2, Name: "Campbell Kind Wine One"},
		{RowIndex: 3, Name: "Campbell Kind Wine Two"},
		{RowIndex: 4, Name: "Campbell Kind Wine Three"},
	}

	candidates, eligible := e.selectCandidates(records)

	assert.Equal(t, 3, eligible)
	require.Len(t, candidates, 2)
	assert.Equal(t, 2, candidates[0].RowIndex)
	assert.Equal(t, 3, candidates[1].RowIndex)
}

func TestEstimate(t *testing.T) {
	e := newExtractor(nil, aiConfig())
	records := []*model.ProductRecord{
		{RowIndex: 2, Name: "Campbell Kind Wine Riesling"},
		{RowIndex: 3, Name: "Red Wine 2019"},
	}

	est := e.Estimate(records)

	assert.Equal(t, 1, est.RecordCount)
	assert.Equal(t, 150, est.EstimatedTokens)
	assert.Greater(t, est.EstimatedCost, 0.0)
}

func TestRun_FillsBrandFromAI(t *testing.T) {
	client := &fakeClient{replies: map[string]string{
		"Campbell Kind Wine Tawse Riesling 2019": `{"brand": "Campbell Kind Wine", "product": "Tawse Riesling 2019"}`,
	}}
	e := newExtractor(client, aiConfig())

	records := []*model.ProductRecord{
		{RowIndex: 2, Name: "Campbell Kind Wine Tawse Riesling 2019"},
	}

	res, err := e.Run(context.Background(), records)

	require.NoError(t, err)
	assert.Equal(t, 1, res.Filled)
	assert.Equal(t, "Campbell Kind Wine", records[0].Brand)
	assert.True(t, records[0].Dirty)
	assert.Equal(t, int64(100), res.Usage.InputTokens)
}

func TestRun_InconsistentRemainderDeclined(t *testing.T) {
	// The remainder is not part of the original name: hallucinated split.
	client := &fakeClient{replies: map[string]string{
		"Mystery Cellar Selection": `{"brand": "Mystery", "product": "Totally Invented Product"}`,
	}}
	e := newExtractor(client, aiConfig())

	records := []*model.ProductRecord{
		{RowIndex: 2, Name: "Mystery Cellar Selection"},
	}

	res, err := e.Run(context.Background(), records)

	require.NoError(t, err)
	assert.Equal(t, 0, res.Filled)
	// The rule splitter still gets a shot and splits on leading caps.
	assert.GreaterOrEqual(t, res.Filled+res.Declined, 1)
}

func TestRun_UnparseableReplyFallsBack(t *testing.T) {
	client := &fakeClient{replies: map[string]string{
		"Zzzqx blended mix": `the model rambles instead of returning JSON`,
	}}
	e := newExtractor(client, aiConfig())

	records := []*model.ProductRecord{
		{RowIndex: 2, Name: "Zzzqx blended mix"},
	}

	res, err := e.Run(context.Background(), records)

	require.NoError(t, err)
	assert.Equal(t, 1, res.Dispatched)
	// Leading-caps fallback split applies.
	assert.Equal(t, 1, res.Filled)
}

func TestRun_APIErrorTalliedNotFatal(t *testing.T) {
	client := &fakeClient{err: fmt.Errorf("rate limited")}
	e := newExtractor(client, aiConfig())

	records := []*model.ProductRecord{
		{RowIndex: 2, Name: "Campbell Kind Wine Riesling"},
		{RowIndex: 3, Name: "Quinta Nova Reserve Port"},
	}

	res, err := e.Run(context.Background(), records)

	require.NoError(t, err)
	assert.Equal(t, 2, res.Failed)
	assert.Empty(t, records[0].Brand)
	assert.Empty(t, records[1].Brand)
}

func TestRun_DisabledUsesRuleSplitter(t *testing.T) {
	cfg := aiConfig()
	cfg.Enabled = false
	e := newExtractor(nil, cfg)

	records := []*model.ProductRecord{
		{RowIndex: 2, Name: "Jagermeister Herbal Spirit 700ml"},
	}

	res, err := e.Run(context.Background(), records)

	require.NoError(t, err)
	assert.Equal(t, 0, res.Dispatched)
	assert.Equal(t, 1, res.Filled)
	assert.Equal(t, "Jagermeister", records[0].Brand)
}

func TestRun_NeverTouchesName(t *testing.T) {
	client := &fakeClient{replies: map[string]string{
		"Campbell Kind Wine Tawse Riesling 2019": `{"brand": "Campbell Kind Wine", "product": "Tawse Riesling 2019"}`,
	}}
	e := newExtractor(client, aiConfig())

	records := []*model.ProductRecord{
		{RowIndex: 2, Name: "Campbell Kind Wine Tawse Riesling 2019"},
	}

	_, err := e.Run(context.Background(), records)

	require.NoError(t, err)
	assert.Equal(t, "Campbell Kind Wine Tawse Riesling 2019", records[0].Name)
}

func TestValidSplit(t *testing.T) {
	assert.True(t, validSplit("Campbell Kind Wine Tawse Riesling 2019", "Campbell Kind Wine", "Tawse Riesling 2019"))
	assert.True(t, validSplit("La Bélière Red Organic Wine 2019", "La Bélière", "Red Organic Wine 2019"))
	assert.False(t, validSplit("Some Product", "X", "Product"), "single-char brand")
	assert.False(t, validSplit("Some Product", "Some", ""), "empty remainder")
	assert.False(t, validSplit("Some Product", "Other", "Product"), "brand not in name")
	assert.False(t, validSplit("Some Product Here", "Some", "Totally Else"), "remainder not in name")
}

func TestSplitName(t *testing.T) {
	keywords := normalize.Default().BrandKeywords

	brand, ok := SplitName("Johnnie Walker Black Label 12", keywords)
	require.True(t, ok)
	assert.Equal(t, "Johnnie Walker", brand)

	brand, ok = SplitName("Quinta Nova reserve port", keywords)
	require.True(t, ok)
	assert.Equal(t, "Quinta Nova", brand)

	_, ok = SplitName("completely lowercase name", keywords)
	assert.False(t, ok)

	_, ok = SplitName("", keywords)
	assert.False(t, ok)

	// A fully capitalized name can never split: the whole name would be
	// consumed as the brand.
	_, ok = SplitName("One Two", nil)
	assert.False(t, ok)
}
