package classifier

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-ads-optimizer/internal/models"
)

type recentValues map[models.Metric]string

func val(s string) models.Value {
	if s == "" {
		return models.Missing
	}
	return models.Known(decimal.RequireFromString(s))
}

// record builds a wide record from most recent period values and changes
// against the previous period
func record(values recentValues, deltas recentValues) *models.WideRecord {
	w := models.NewWideRecord(models.Key{Keyword: "kw", MatchType: "broad"}, models.DefaultPeriods())
	for m, v := range values {
		if m == models.MetricCR {
			w.CR = val(v)
			continue
		}
		w.Set(m, models.Period3, val(v))
	}
	for m, v := range deltas {
		w.SetDelta(m, models.Period2, val(v))
	}
	return w
}

func TestParseMode(t *testing.T) {
	mode, err := ParseMode(" Advice ")
	require.NoError(t, err)
	assert.Equal(t, ModeAdvice, mode)

	mode, err = ParseMode("recommendation")
	require.NoError(t, err)
	assert.Equal(t, ModeRecommendation, mode)

	_, err = ParseMode("ml")
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	c, err := New(ModeRecommendation, nil)
	require.NoError(t, err)
	assert.Equal(t, "Recommendation", c.Column())
	assert.Equal(t, ModeRecommendation, c.Mode())
	assert.Equal(t, []string{"CUT", "INCREASE", "OPTIMIZE", "PAUSE", "REMOVE", "BOOST", "REVIEW"}, c.Labels())

	c, err = New(ModeAdvice, nil)
	require.NoError(t, err)
	assert.Equal(t, "AI_Advice", c.Column())
	assert.Len(t, c.Labels(), 5)

	_, err = New("other", nil)
	assert.Error(t, err)

	bad := DefaultThresholds()
	bad.BoostMinCR = decimal.NewFromInt(-1)
	_, err = New(ModeRecommendation, bad)
	assert.Error(t, err)
}

func TestRecommendationRules(t *testing.T) {
	tests := []struct {
		name   string
		values recentValues
		deltas recentValues
		label  string
		rule   string
	}{
		{
			name:   "clicks without sales",
			values: recentValues{models.MetricSales: "0", models.MetricClicks: "20"},
			label:  LabelCut,
			rule:   "clicks_without_sales",
		},
		{
			name:   "exactly ten clicks",
			values: recentValues{models.MetricSales: "0.99", models.MetricClicks: "10"},
			label:  LabelCut,
		},
		{
			name: "cut beats increase",
			values: recentValues{
				models.MetricSales: "0.5", models.MetricClicks: "15",
				models.MetricROAS: "3", models.MetricACOS: "0.1",
			},
			deltas: recentValues{models.MetricROAS: "1"},
			label:  LabelCut,
		},
		{
			name:   "increase",
			values: recentValues{models.MetricSales: "30", models.MetricClicks: "15", models.MetricROAS: "3", models.MetricACOS: "0.33"},
			deltas: recentValues{models.MetricROAS: "0.5"},
			label:  LabelIncrease,
			rule:   "profitable_and_improving",
		},
		{
			name:   "roas of exactly two is not increase",
			values: recentValues{models.MetricSales: "30", models.MetricROAS: "2", models.MetricACOS: "0.5"},
			deltas: recentValues{models.MetricROAS: "0.5", models.MetricCTR: "0.01"},
			label:  LabelOptimize,
		},
		{
			name:   "missing previous roas is not increase",
			values: recentValues{models.MetricSales: "30", models.MetricROAS: "3", models.MetricACOS: "0.3"},
			label:  LabelReview,
		},
		{
			name:   "optimize",
			values: recentValues{models.MetricSales: "10", models.MetricROAS: "1.5"},
			deltas: recentValues{models.MetricCTR: "0.001", models.MetricROAS: "0.2"},
			label:  LabelOptimize,
		},
		{
			name:   "pause",
			values: recentValues{models.MetricSales: "5", models.MetricSpend: "12", models.MetricOrders: "0"},
			label:  LabelPause,
		},
		{
			name:   "spend of exactly ten is not pause",
			values: recentValues{models.MetricSales: "5", models.MetricSpend: "10", models.MetricOrders: "0"},
			label:  LabelReview,
		},
		{
			name:   "remove",
			values: recentValues{models.MetricSales: "0", models.MetricClicks: "3", models.MetricCTR: "0.0015", models.MetricImpressions: "2000"},
			label:  LabelRemove,
		},
		{
			name:   "boost",
			values: recentValues{models.MetricSales: "5", models.MetricCR: "0.2", models.MetricCPC: "0.25"},
			label:  LabelBoost,
			rule:   "converting_cheaply",
		},
		{
			name:   "all missing",
			values: recentValues{},
			label:  LabelReview,
			rule:   "default",
		},
	}

	c := NewRecommendation(DefaultThresholds())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := c.Classify(record(tt.values, tt.deltas))
			assert.Equal(t, tt.label, decision.Label)
			if tt.rule != "" {
				assert.Equal(t, tt.rule, decision.Rule)
			}
		})
	}
}

func TestAdviceRules(t *testing.T) {
	tests := []struct {
		name   string
		values recentValues
		advice string
	}{
		{"relevance", recentValues{models.MetricSales: "0", models.MetricClicks: "12", models.MetricROAS: "5"}, AdviceRelevance},
		{"scale", recentValues{models.MetricSales: "20", models.MetricROAS: "2.5", models.MetricCTR: "0.001"}, AdviceScale},
		{"low ctr", recentValues{models.MetricSales: "20", models.MetricROAS: "1", models.MetricCTR: "0.001"}, AdviceLowCTR},
		{"high acos", recentValues{models.MetricSales: "20", models.MetricROAS: "1", models.MetricCTR: "0.01", models.MetricACOS: "0.9"}, AdviceHighACOS},
		{"mixed", recentValues{models.MetricSales: "20", models.MetricROAS: "1", models.MetricCTR: "0.01", models.MetricACOS: "0.5"}, AdviceMixed},
		{"missing everything", recentValues{}, AdviceMixed},
	}

	c := NewAdvice(DefaultThresholds())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.advice, c.Classify(record(tt.values, nil)).Label)
		})
	}
}

func TestCustomThresholds(t *testing.T) {
	th := DefaultThresholds()
	require.NoError(t, th.Set("pause-min-spend", decimal.NewFromInt(50)))
	assert.Error(t, th.Set("no-such-threshold", decimal.Zero))

	got, ok := th.Get("pause-min-spend")
	require.True(t, ok)
	assert.True(t, got.Equal(decimal.NewFromInt(50)))

	c := NewRecommendation(th)
	decision := c.Classify(record(recentValues{models.MetricSales: "5", models.MetricSpend: "12", models.MetricOrders: "0"}, nil))
	assert.Equal(t, LabelReview, decision.Label)
}

func TestThresholdKeysCoverEveryThreshold(t *testing.T) {
	th := DefaultThresholds()
	keys := ThresholdKeys()
	assert.Len(t, keys, len(th.pointers()))
	for _, key := range keys {
		_, ok := th.Get(key)
		assert.True(t, ok, key)
	}
}
