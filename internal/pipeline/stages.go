package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"golang-ads-optimizer/internal/classifier"
	"golang-ads-optimizer/internal/models"
	"golang-ads-optimizer/internal/parsers"
	"golang-ads-optimizer/internal/schema"
	"golang-ads-optimizer/pkg/errors"
)

// TagAndCombine parses every table onto the canonical columns, tags each row
// with the period at the same position and concatenates the results in
// period order. Columns outside the canonical set are ignored. Rows without
// a keyword or match type cannot be grouped and are skipped.
func TagAndCombine(ctx context.Context, tables []*parsers.Table, periods models.PeriodSet) ([]models.Record, int, error) {
	if len(tables) != len(periods) {
		return nil, 0, errors.InternalError(errors.CodeUnexpectedError, "tagging",
			fmt.Errorf("expected %d tables, got %d", len(periods), len(tables)))
	}

	var records []models.Record
	skipped := 0
	for i, table := range tables {
		for _, row := range table.Rows {
			if ctx.Err() != nil {
				return nil, 0, errors.InternalError(errors.CodeCancelled, "tagging", ctx.Err())
			}

			record, ok, err := parseRecord(table, row, periods[i])
			if err != nil {
				return nil, 0, err
			}
			if !ok {
				skipped++
				continue
			}
			records = append(records, record)
		}
	}
	return records, skipped, nil
}

// parseRecord keeps Keyword and Match type exactly as exported, so cells
// differing only in surrounding space form separate groups. A cell that is
// blank after trimming still counts as empty.
func parseRecord(table *parsers.Table, row parsers.Row, period models.Period) (models.Record, bool, error) {
	record := models.Record{
		Key: models.Key{
			Keyword:   table.Raw(row, schema.ColumnKeyword),
			MatchType: table.Raw(row, schema.ColumnMatchType),
		},
		Period: period,
		Input:  table.Label,
		Line:   row.Line,
	}
	if strings.TrimSpace(record.Keyword) == "" || strings.TrimSpace(record.MatchType) == "" {
		return record, false, nil
	}

	counters := map[string]*decimal.Decimal{
		schema.ColumnImpressions: &record.Impressions,
		schema.ColumnClicks:      &record.Clicks,
		schema.ColumnSpend:       &record.Spend,
		schema.ColumnSales:       &record.Sales,
		schema.ColumnOrders:      &record.Orders,
	}
	for _, column := range counterColumns {
		d, err := table.Decimal(row, column)
		if err != nil {
			return record, false, err
		}
		*counters[column] = d
	}
	return record, true, nil
}

// counterColumns are parsed in this order so the first bad cell in a row is
// reported deterministically
var counterColumns = []string{
	schema.ColumnImpressions,
	schema.ColumnClicks,
	schema.ColumnSpend,
	schema.ColumnSales,
	schema.ColumnOrders,
}

type groupKey struct {
	models.Key
	period models.Period
}

// Aggregate sums the counters per keyword, match type and period. Every
// group is kept, including all-zero ones. The result is ordered by keyword,
// match type and then period order. Ratios are left for Derive.
func Aggregate(records []models.Record, periods models.PeriodSet) []*models.Aggregate {
	groups := make(map[groupKey]*models.Aggregate)
	var ordered []*models.Aggregate

	for _, r := range records {
		k := groupKey{Key: r.Key, period: r.Period}
		agg, ok := groups[k]
		if !ok {
			agg = &models.Aggregate{Key: r.Key, Period: r.Period}
			groups[k] = agg
			ordered = append(ordered, agg)
		}
		agg.Totals = agg.Totals.Add(r.Totals)
		agg.Rows++
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Key != b.Key {
			return a.Key.Less(b.Key)
		}
		return periods.Index(a.Period) < periods.Index(b.Period)
	})
	return ordered
}

// Derive recomputes CTR, CPC, ACOS and ROAS from the summed counters of
// each group. Ratios of sums, never averages of row ratios.
func Derive(aggregates []*models.Aggregate) []*models.Aggregate {
	derived := make([]*models.Aggregate, len(aggregates))
	for i, a := range aggregates {
		d := *a
		d.CTR = models.Ratio(a.Clicks, a.Impressions)
		d.CPC = models.Ratio(a.Spend, a.Clicks)
		d.ACOS = models.Ratio(a.Spend, a.Sales)
		d.ROAS = models.Ratio(a.Sales, a.Spend)
		derived[i] = &d
	}
	return derived
}

// Pivot lays every period of a keyword side by side, one wide record per
// keyword and match type, sorted by keyword then match type. Periods a
// keyword did not appear in are back-filled with missing values.
func Pivot(aggregates []*models.Aggregate, periods models.PeriodSet) []*models.WideRecord {
	byKey := make(map[models.Key]*models.WideRecord)
	var rows []*models.WideRecord

	for _, a := range aggregates {
		w, ok := byKey[a.Key]
		if !ok {
			w = models.NewWideRecord(a.Key, periods)
			byKey[a.Key] = w
			rows = append(rows, w)
		}
		for _, m := range models.PivotMetrics {
			w.Set(m, a.Period, a.Metric(m))
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Key.Less(rows[j].Key)
	})
	return rows
}

// ComputeDeltas adds the change of CTR, ACOS and ROAS between the most
// recent period and each earlier one, the recent conversion rate, and
// recomputes the recent CPC from the recent spend and clicks.
func ComputeDeltas(rows []*models.WideRecord) []*models.WideRecord {
	out := make([]*models.WideRecord, len(rows))
	for i, row := range rows {
		w := row.Clone()
		recent := w.Periods.Recent()

		for _, m := range models.DeltaMetrics {
			for _, earlier := range w.Periods.Earlier() {
				w.SetDelta(m, earlier, w.Get(m, recent).Sub(w.Get(m, earlier)))
			}
		}

		clicks := w.Get(models.MetricClicks, recent)
		w.CR = w.Get(models.MetricOrders, recent).Div(clicks)
		w.Set(models.MetricCPC, recent, w.Get(models.MetricSpend, recent).Div(clicks))

		out[i] = w
	}
	return out
}

// Classify attaches exactly one decision to every row
func Classify(rows []*models.WideRecord, c classifier.Classifier) []*models.WideRecord {
	out := make([]*models.WideRecord, len(rows))
	for i, row := range rows {
		w := row.Clone()
		w.Decision = c.Classify(w)
		out[i] = w
	}
	return out
}
