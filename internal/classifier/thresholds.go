package classifier

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Thresholds holds every cutoff used by the rule tables
type Thresholds struct {
	// CUT and the advice relevance rule
	CutMaxSales  decimal.Decimal
	CutMinClicks decimal.Decimal

	IncreaseMinROAS decimal.Decimal
	IncreaseMaxACOS decimal.Decimal

	PauseMinSpend decimal.Decimal

	RemoveMaxCTR         decimal.Decimal
	RemoveMinImpressions decimal.Decimal

	BoostMinCR  decimal.Decimal
	BoostMaxCPC decimal.Decimal

	// advice mode
	ScaleMinROAS decimal.Decimal
	LowCTR       decimal.Decimal
	HighACOS     decimal.Decimal
}

// DefaultThresholds returns the standard cutoffs
func DefaultThresholds() *Thresholds {
	return &Thresholds{
		CutMaxSales:          decimal.NewFromInt(1),
		CutMinClicks:         decimal.NewFromInt(10),
		IncreaseMinROAS:      decimal.NewFromInt(2),
		IncreaseMaxACOS:      decimal.RequireFromString("0.4"),
		PauseMinSpend:        decimal.NewFromInt(10),
		RemoveMaxCTR:         decimal.RequireFromString("0.002"),
		RemoveMinImpressions: decimal.NewFromInt(1000),
		BoostMinCR:           decimal.RequireFromString("0.15"),
		BoostMaxCPC:          decimal.RequireFromString("0.3"),
		ScaleMinROAS:         decimal.NewFromInt(2),
		LowCTR:               decimal.RequireFromString("0.002"),
		HighACOS:             decimal.RequireFromString("0.6"),
	}
}

// Validate rejects negative cutoffs
func (t *Thresholds) Validate() error {
	pointers := t.pointers()
	for _, key := range thresholdKeys {
		if v := *pointers[key]; v.IsNegative() {
			return fmt.Errorf("threshold %s cannot be negative, got %s", key, v)
		}
	}
	return nil
}

// Set overrides the threshold with the given key
func (t *Thresholds) Set(key string, value decimal.Decimal) error {
	target, ok := t.pointers()[key]
	if !ok {
		return fmt.Errorf("unknown threshold %q", key)
	}
	*target = value
	return nil
}

// ThresholdKeys returns every threshold key, as used in configuration
func ThresholdKeys() []string {
	return append([]string(nil), thresholdKeys...)
}

// Get returns the threshold with the given key
func (t *Thresholds) Get(key string) (decimal.Decimal, bool) {
	target, ok := t.pointers()[key]
	if !ok {
		return decimal.Zero, false
	}
	return *target, true
}

var thresholdKeys = []string{
	"cut-max-sales",
	"cut-min-clicks",
	"increase-min-roas",
	"increase-max-acos",
	"pause-min-spend",
	"remove-max-ctr",
	"remove-min-impressions",
	"boost-min-cr",
	"boost-max-cpc",
	"scale-min-roas",
	"low-ctr",
	"high-acos",
}

func (t *Thresholds) pointers() map[string]*decimal.Decimal {
	return map[string]*decimal.Decimal{
		"cut-max-sales":          &t.CutMaxSales,
		"cut-min-clicks":         &t.CutMinClicks,
		"increase-min-roas":      &t.IncreaseMinROAS,
		"increase-max-acos":      &t.IncreaseMaxACOS,
		"pause-min-spend":        &t.PauseMinSpend,
		"remove-max-ctr":         &t.RemoveMaxCTR,
		"remove-min-impressions": &t.RemoveMinImpressions,
		"boost-min-cr":           &t.BoostMinCR,
		"boost-max-cpc":          &t.BoostMaxCPC,
		"scale-min-roas":         &t.ScaleMinROAS,
		"low-ctr":                &t.LowCTR,
		"high-acos":              &t.HighACOS,
	}
}
