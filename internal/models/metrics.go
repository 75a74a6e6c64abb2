package models

import "fmt"

// Metric names a tracked per-period field
type Metric string

const (
	MetricCTR         Metric = "CTR"
	MetricACOS        Metric = "ACOS"
	MetricROAS        Metric = "ROAS"
	MetricCPC         Metric = "CPC"
	MetricImpressions Metric = "Impressions"
	MetricClicks      Metric = "Clicks"
	MetricSpend       Metric = "Spend"
	MetricSales       Metric = "Sales"
	MetricOrders      Metric = "Orders"
	MetricCR          Metric = "CR"
)

// PivotMetrics are the nine metrics carried per period, in output order
var PivotMetrics = []Metric{
	MetricCTR,
	MetricACOS,
	MetricROAS,
	MetricCPC,
	MetricImpressions,
	MetricClicks,
	MetricSpend,
	MetricSales,
	MetricOrders,
}

// DeltaMetrics are the metrics compared between the recent and earlier periods
var DeltaMetrics = []Metric{MetricCTR, MetricACOS, MetricROAS}

// ColumnName returns the output column for a metric in a period
func ColumnName(m Metric, p Period) string {
	return fmt.Sprintf("%s_%s", m, p)
}

// DeltaColumnName returns the output column for a period-over-period change
func DeltaColumnName(m Metric, recent, earlier Period) string {
	return fmt.Sprintf("%s_change_%s_vs_%s", m, recent, earlier)
}
