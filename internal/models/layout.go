package models

// Fixed output columns
const (
	ColumnKeyword   = "Keyword"
	ColumnMatchType = "Match type"
)

// Header returns the output column names: keyword and match type, every
// pivot metric per period, the deltas, the recent conversion rate and the
// classification column.
//
// The recent CPC is recomputed from the recent spend and clicks and stored in
// its CPC_<recent> pivot column; it is not repeated after the CR column.
func Header(periods PeriodSet, classification string) []string {
	header := []string{ColumnKeyword, ColumnMatchType}
	for _, m := range PivotMetrics {
		for _, p := range periods {
			header = append(header, ColumnName(m, p))
		}
	}
	recent := periods.Recent()
	for _, m := range DeltaMetrics {
		for _, earlier := range periods.Earlier() {
			header = append(header, DeltaColumnName(m, recent, earlier))
		}
	}
	header = append(header, ColumnName(MetricCR, recent))
	return append(header, classification)
}

// Cells returns the metric values of w in Header order, without the key
// and classification columns
func (w *WideRecord) Cells() []Value {
	cells := make([]Value, 0, len(PivotMetrics)*len(w.Periods)+len(DeltaMetrics)*2+1)
	for _, m := range PivotMetrics {
		for _, p := range w.Periods {
			cells = append(cells, w.Get(m, p))
		}
	}
	for _, m := range DeltaMetrics {
		for _, earlier := range w.Periods.Earlier() {
			cells = append(cells, w.Delta(m, earlier))
		}
	}
	return append(cells, w.CR)
}
