package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPeriodSet(t *testing.T) {
	set, err := NewPeriodSet([]string{"jan", " feb ", "mar"})
	require.NoError(t, err)
	assert.Equal(t, Period("mar"), set.Recent())
	assert.Equal(t, Period("feb"), set.Previous())
	assert.Equal(t, []Period{"feb", "jan"}, set.Earlier())
	assert.Equal(t, 0, set.Index("jan"))
	assert.Equal(t, -1, set.Index("apr"))

	_, err = NewPeriodSet([]string{"a", "b"})
	assert.Error(t, err)

	_, err = NewPeriodSet([]string{"a", "a", "b"})
	assert.Error(t, err)

	_, err = NewPeriodSet([]string{"a", "", "b"})
	assert.Error(t, err)

	_, err = NewPeriodSet([]string{"a", "b c", "d"})
	assert.Error(t, err)
}

func TestColumnNames(t *testing.T) {
	assert.Equal(t, "ROAS_period3", ColumnName(MetricROAS, Period3))
	assert.Equal(t, "CTR_change_period3_vs_period1", DeltaColumnName(MetricCTR, Period3, Period1))
}

func TestKeyLess(t *testing.T) {
	assert.True(t, Key{Keyword: "a", MatchType: "z"}.Less(Key{Keyword: "b", MatchType: "a"}))
	assert.True(t, Key{Keyword: "a", MatchType: "broad"}.Less(Key{Keyword: "a", MatchType: "exact"}))
	assert.False(t, Key{Keyword: "a", MatchType: "exact"}.Less(Key{Keyword: "a", MatchType: "exact"}))
	// byte order puts upper case first
	assert.True(t, Key{Keyword: "Zebra"}.Less(Key{Keyword: "apple"}))
}

func TestWideRecordBackfill(t *testing.T) {
	w := NewWideRecord(Key{Keyword: "shoe rack", MatchType: "broad"}, DefaultPeriods())

	for _, m := range PivotMetrics {
		for _, p := range w.Periods {
			assert.True(t, w.Get(m, p).IsMissing(), "%s_%s", m, p)
		}
	}
	assert.True(t, w.Delta(MetricROAS, Period2).IsMissing())
	assert.True(t, w.Recent(MetricCR).IsMissing())

	w.Set(MetricClicks, Period3, KnownInt(12))
	w.SetDelta(MetricROAS, Period2, Known(dec("0.5")))
	w.Set(MetricClicks, "unknown", KnownInt(1))

	assert.Equal(t, "12", w.Recent(MetricClicks).String())
	assert.Equal(t, "0.5", w.Delta(MetricROAS, Period2).String())
	assert.True(t, w.Delta(MetricROAS, Period1).IsMissing())
}

func TestAggregateMetric(t *testing.T) {
	a := &Aggregate{
		Totals: Totals{Impressions: dec("100"), Clicks: dec("5"), Spend: dec("2"), Sales: dec("8"), Orders: dec("1")},
		CTR:    Known(dec("0.05")),
		ACOS:   Known(dec("0.25")),
		ROAS:   Known(dec("4")),
		CPC:    Known(dec("0.4")),
	}

	assert.Equal(t, "0.05", a.Metric(MetricCTR).String())
	assert.Equal(t, "100", a.Metric(MetricImpressions).String())
	assert.Equal(t, "1", a.Metric(MetricOrders).String())
	assert.True(t, a.Metric(MetricCR).IsMissing())
}

func TestTotalsAdd(t *testing.T) {
	a := Totals{Impressions: dec("10"), Clicks: dec("1"), Spend: dec("0.5"), Sales: dec("0"), Orders: dec("0")}
	b := Totals{Impressions: dec("5"), Clicks: dec("2"), Spend: dec("1.25"), Sales: dec("3"), Orders: dec("1")}

	sum := a.Add(b)
	assert.True(t, sum.Impressions.Equal(dec("15")))
	assert.True(t, sum.Spend.Equal(dec("1.75")))
	assert.True(t, sum.Orders.Equal(dec("1")))
}

func TestHeaderAndCells(t *testing.T) {
	periods := DefaultPeriods()
	header := Header(periods, "Recommendation")

	require.Len(t, header, 2+27+6+1+1)
	assert.Equal(t, []string{"Keyword", "Match type", "CTR_period1", "CTR_period2", "CTR_period3", "ACOS_period1"}, header[:6])
	assert.Equal(t, []string{
		"Orders_period3",
		"CTR_change_period3_vs_period2",
		"CTR_change_period3_vs_period1",
		"ACOS_change_period3_vs_period2",
		"ACOS_change_period3_vs_period1",
		"ROAS_change_period3_vs_period2",
		"ROAS_change_period3_vs_period1",
		"CR_period3",
		"Recommendation",
	}, header[28:])

	w := NewWideRecord(Key{Keyword: "mat", MatchType: "exact"}, periods)
	w.Set(MetricCTR, Period1, Known(dec("0.1")))
	w.SetDelta(MetricROAS, Period1, Known(dec("-1")))
	w.CR = Known(dec("0.2"))

	cells := w.Cells()
	require.Len(t, cells, len(header)-3)
	assert.Equal(t, "0.1", cells[0].String())
	assert.Equal(t, "-1", cells[len(cells)-2].String())
	assert.Equal(t, "0.2", cells[len(cells)-1].String())
}

func TestWideRecordClone(t *testing.T) {
	w := NewWideRecord(Key{Keyword: "mat"}, DefaultPeriods())
	w.Set(MetricClicks, Period3, KnownInt(4))
	w.SetDelta(MetricCTR, Period2, KnownInt(1))

	c := w.Clone()
	c.Set(MetricClicks, Period3, KnownInt(9))
	c.SetDelta(MetricCTR, Period2, KnownInt(2))

	assert.Equal(t, "4", w.Recent(MetricClicks).String())
	assert.Equal(t, "1", w.Delta(MetricCTR, Period2).String())
	assert.Equal(t, "9", c.Recent(MetricClicks).String())
}
