package models

import (
	"github.com/shopspring/decimal"
)

// Currency is the currency detected from an input's Spend column. An empty
// currency means the input was already in the plain column shape.
type Currency string

const (
	CurrencyNone Currency = ""
	CurrencyEUR  Currency = "EUR"
	CurrencyUSD  Currency = "USD"
)

// Key identifies a keyword within a match type. Match type is opaque.
type Key struct {
	Keyword   string `json:"keyword" yaml:"keyword"`
	MatchType string `json:"match_type" yaml:"match_type"`
}

// Less orders keys by keyword, then match type, byte-wise
func (k Key) Less(o Key) bool {
	if k.Keyword != o.Keyword {
		return k.Keyword < o.Keyword
	}
	return k.MatchType < o.MatchType
}

// Totals holds the additive counters of a row or a group
type Totals struct {
	Impressions decimal.Decimal `json:"impressions"`
	Clicks      decimal.Decimal `json:"clicks"`
	Spend       decimal.Decimal `json:"spend"`
	Sales       decimal.Decimal `json:"sales"`
	Orders      decimal.Decimal `json:"orders"`
}

// Add returns the element-wise sum of t and o
func (t Totals) Add(o Totals) Totals {
	return Totals{
		Impressions: t.Impressions.Add(o.Impressions),
		Clicks:      t.Clicks.Add(o.Clicks),
		Spend:       t.Spend.Add(o.Spend),
		Sales:       t.Sales.Add(o.Sales),
		Orders:      t.Orders.Add(o.Orders),
	}
}

// Record is one canonical input row tagged with its period
type Record struct {
	Key
	Totals
	Period Period `json:"period"`
	Input  string `json:"input"`
	Line   int    `json:"line"`
}

// Aggregate is the per (keyword, match type, period) group with its ratios
// recomputed from the summed counters
type Aggregate struct {
	Key
	Totals
	Period Period `json:"period"`
	Rows   int    `json:"rows"`
	CTR    Value  `json:"ctr"`
	CPC    Value  `json:"cpc"`
	ACOS   Value  `json:"acos"`
	ROAS   Value  `json:"roas"`
}

// Metric returns the aggregate's value for a pivot metric
func (a *Aggregate) Metric(m Metric) Value {
	switch m {
	case MetricCTR:
		return a.CTR
	case MetricACOS:
		return a.ACOS
	case MetricROAS:
		return a.ROAS
	case MetricCPC:
		return a.CPC
	case MetricImpressions:
		return Known(a.Impressions)
	case MetricClicks:
		return Known(a.Clicks)
	case MetricSpend:
		return Known(a.Spend)
	case MetricSales:
		return Known(a.Sales)
	case MetricOrders:
		return Known(a.Orders)
	default:
		return Missing
	}
}

// Decision is the output of a classifier
type Decision struct {
	Label string `json:"label"`
	Rule  string `json:"rule"`
}

// WideRecord holds every period of one keyword side by side
type WideRecord struct {
	Key
	Periods  PeriodSet
	Values   map[Metric][]Value
	Deltas   map[Metric]map[Period]Value
	CR       Value
	Decision Decision
}

// NewWideRecord returns a record with every metric and period back-filled
// as missing
func NewWideRecord(key Key, periods PeriodSet) *WideRecord {
	w := &WideRecord{
		Key:     key,
		Periods: periods,
		Values:  make(map[Metric][]Value, len(PivotMetrics)),
		Deltas:  make(map[Metric]map[Period]Value, len(DeltaMetrics)),
		CR:      Missing,
	}
	for _, m := range PivotMetrics {
		w.Values[m] = make([]Value, len(periods))
	}
	return w
}

// Get returns the value of metric m in period p
func (w *WideRecord) Get(m Metric, p Period) Value {
	values, ok := w.Values[m]
	if !ok {
		return Missing
	}
	i := w.Periods.Index(p)
	if i < 0 {
		return Missing
	}
	return values[i]
}

// Set stores the value of metric m in period p
func (w *WideRecord) Set(m Metric, p Period, v Value) {
	i := w.Periods.Index(p)
	if i < 0 {
		return
	}
	if _, ok := w.Values[m]; !ok {
		w.Values[m] = make([]Value, len(w.Periods))
	}
	w.Values[m][i] = v
}

// Recent returns metric m in the most recent period
func (w *WideRecord) Recent(m Metric) Value {
	if m == MetricCR {
		return w.CR
	}
	return w.Get(m, w.Periods.Recent())
}

// Delta returns the change of m between the recent period and earlier
func (w *WideRecord) Delta(m Metric, earlier Period) Value {
	byPeriod, ok := w.Deltas[m]
	if !ok {
		return Missing
	}
	v, ok := byPeriod[earlier]
	if !ok {
		return Missing
	}
	return v
}

// SetDelta stores the change of m between the recent period and earlier
func (w *WideRecord) SetDelta(m Metric, earlier Period, v Value) {
	if w.Deltas[m] == nil {
		w.Deltas[m] = make(map[Period]Value, 2)
	}
	w.Deltas[m][earlier] = v
}

// Clone returns a deep copy of w
func (w *WideRecord) Clone() *WideRecord {
	c := &WideRecord{
		Key:      w.Key,
		Periods:  w.Periods,
		Values:   make(map[Metric][]Value, len(w.Values)),
		Deltas:   make(map[Metric]map[Period]Value, len(w.Deltas)),
		CR:       w.CR,
		Decision: w.Decision,
	}
	for m, values := range w.Values {
		c.Values[m] = append([]Value(nil), values...)
	}
	for m, byPeriod := range w.Deltas {
		c.Deltas[m] = make(map[Period]Value, len(byPeriod))
		for p, v := range byPeriod {
			c.Deltas[m][p] = v
		}
	}
	return c
}
