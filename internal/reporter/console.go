package reporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"golang-ads-optimizer/internal/models"
	"golang-ads-optimizer/internal/pipeline"
	"golang-ads-optimizer/internal/schema"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// missingCell marks a missing value in the console table
const missingCell = "-"

// consoleColumn is one column of the condensed console table
type consoleColumn struct {
	title  string
	places int32
	value  func(w *models.WideRecord) models.Value
}

func consoleColumns(periods models.PeriodSet) []consoleColumn {
	recent := func(m models.Metric, places int32) consoleColumn {
		return consoleColumn{
			title:  models.ColumnName(m, periods.Recent()),
			places: places,
			value:  func(w *models.WideRecord) models.Value { return w.Recent(m) },
		}
	}
	delta := func(m models.Metric) consoleColumn {
		return consoleColumn{
			title:  models.DeltaColumnName(m, periods.Recent(), periods.Previous()),
			places: 4,
			value:  func(w *models.WideRecord) models.Value { return w.Delta(m, periods.Previous()) },
		}
	}

	return []consoleColumn{
		recent(models.MetricImpressions, 0),
		recent(models.MetricClicks, 0),
		recent(models.MetricSpend, 2),
		recent(models.MetricSales, 2),
		recent(models.MetricOrders, 0),
		recent(models.MetricCTR, 4),
		recent(models.MetricACOS, 4),
		recent(models.MetricROAS, 4),
		recent(models.MetricCPC, 4),
		recent(models.MetricCR, 4),
		delta(models.MetricCTR),
		delta(models.MetricROAS),
	}
}

// formatConsoleValue rounds for display; missing renders as "-"
func formatConsoleValue(v models.Value, places int32) string {
	if v.IsMissing() {
		return missingCell
	}
	return v.Decimal.Round(places).String()
}

// generateConsoleReport renders the most recent period of every row
func (rg *ReportGenerator) generateConsoleReport(result *pipeline.Result, rows []*models.WideRecord, writer io.Writer) error {
	style := func(s lipgloss.Style, text string) string {
		if !rg.config.UseColors {
			return text
		}
		return s.Render(text)
	}

	if rg.config.IncludeSummary {
		fmt.Fprintln(writer, style(titleStyle, strings.ToUpper(rg.config.SessionName)))
		fmt.Fprintf(writer, "Mode: %s (most recent period: %s)\n", result.Mode, result.Periods.Recent())
		for _, input := range result.Inputs {
			fmt.Fprintf(writer, "  %s -> %s: %d rows, currency %s\n",
				input.Label, input.Period, input.Rows, schema.DescribeCurrency(input.Currency))
		}
		if result.Skipped > 0 {
			fmt.Fprintln(writer, style(dimStyle, fmt.Sprintf("  %d rows without keyword or match type skipped", result.Skipped)))
		}
		fmt.Fprintln(writer)
	}

	columns := consoleColumns(result.Periods)
	headers := []string{models.ColumnKeyword, models.ColumnMatchType}
	for _, c := range columns {
		headers = append(headers, c.title)
	}
	headers = append(headers, result.Column)

	shown := rows
	if rg.config.MaxRows > 0 && len(shown) > rg.config.MaxRows {
		shown = shown[:rg.config.MaxRows]
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow && rg.config.UseColors {
				return headerStyle
			}
			return cellStyle
		})
	if rg.config.UseColors {
		t = t.BorderStyle(borderStyle)
	}

	for _, w := range shown {
		cells := []string{w.Keyword, w.MatchType}
		for _, c := range columns {
			cells = append(cells, formatConsoleValue(c.value(w), c.places))
		}
		cells = append(cells, w.Decision.Label)
		t = t.Row(cells...)
	}

	fmt.Fprintln(writer, t.Render())

	if len(shown) < len(rows) {
		fmt.Fprintln(writer, style(dimStyle, fmt.Sprintf("... %d more rows", len(rows)-len(shown))))
	}

	if rg.config.IncludeSummary {
		fmt.Fprintf(writer, "\n%d keywords", len(rows))
		if len(rows) != len(result.Rows) {
			fmt.Fprintf(writer, " (filtered from %d)", len(result.Rows))
		}
		fmt.Fprintln(writer)
		for _, c := range countLabels(result.Labels, rows) {
			fmt.Fprintf(writer, "  %-10s %d\n", c.Label, c.Count)
		}
	}
	return nil
}
