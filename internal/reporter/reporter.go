// Package reporter renders classified keyword rows.
//
// Supported output formats:
//   - CSV: the full wide table, one row per keyword and match type
//   - JSON and YAML: the same table plus run metadata and label counts
//   - XLSX: the wide table and an inputs sheet
//   - Console: a condensed table of the most recent period for a terminal
//
// Missing values render as an empty cell (CSV, XLSX), null (JSON, YAML) or
// "-" (console). Output carries no timestamps, so identical inputs give
// identical CSV, JSON and YAML bytes.
//
// Example usage:
//
//	generator, err := reporter.NewReportGenerator(&reporter.ReportConfig{Format: reporter.FormatCSV})
//	err = generator.GenerateReport(result, os.Stdout)
package reporter

import (
	"fmt"
	"io"
	"strings"

	"golang-ads-optimizer/internal/models"
	"golang-ads-optimizer/internal/pipeline"
)

// OutputFormat represents the supported report output formats
type OutputFormat string

const (
	FormatCSV     OutputFormat = "csv"
	FormatJSON    OutputFormat = "json"
	FormatYAML    OutputFormat = "yaml"
	FormatXLSX    OutputFormat = "xlsx"
	FormatConsole OutputFormat = "console"
)

// Formats lists every supported format
var Formats = []OutputFormat{FormatCSV, FormatJSON, FormatYAML, FormatXLSX, FormatConsole}

// IsValid checks if the output format is supported
func (f OutputFormat) IsValid() bool {
	for _, format := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

// Extension returns the file extension conventionally used for the format
func (f OutputFormat) Extension() string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatYAML:
		return ".yaml"
	case FormatXLSX:
		return ".xlsx"
	case FormatConsole:
		return ".txt"
	default:
		return ".csv"
	}
}

// Binary reports whether the format should not be written to a terminal
func (f OutputFormat) Binary() bool {
	return f == FormatXLSX
}

// DefaultSessionName names a session when none is given
const DefaultSessionName = "Amazon Optimization Session"

// ReportConfig holds configuration options for report generation
type ReportConfig struct {
	Format      OutputFormat `json:"format"`
	SessionName string       `json:"session_name"`

	// Filter restricts the rows written; an empty filter keeps every row
	Filter Filter `json:"filter"`

	// CSV options
	CSVDelimiter rune `json:"csv_delimiter"`
	CSVHeaders   bool `json:"csv_headers"`

	// Console options
	UseColors      bool `json:"use_colors"`
	IncludeSummary bool `json:"include_summary"`
	MaxRows        int  `json:"max_rows"`
}

// DefaultReportConfig returns a default report configuration
func DefaultReportConfig() *ReportConfig {
	return &ReportConfig{
		Format:         FormatCSV,
		SessionName:    DefaultSessionName,
		CSVDelimiter:   ',',
		CSVHeaders:     true,
		UseColors:      true,
		IncludeSummary: true,
	}
}

// Validate validates the report configuration
func (c *ReportConfig) Validate() error {
	if !c.Format.IsValid() {
		return fmt.Errorf("invalid output format: %s", c.Format)
	}
	if c.CSVDelimiter == 0 || c.CSVDelimiter == '"' || c.CSVDelimiter == '\n' || c.CSVDelimiter == '\r' {
		return fmt.Errorf("invalid CSV delimiter %q", c.CSVDelimiter)
	}
	if c.MaxRows < 0 {
		return fmt.Errorf("max rows cannot be negative, got %d", c.MaxRows)
	}
	return nil
}

// DefaultFileName returns "{session}_recommendations{ext}"
func (c *ReportConfig) DefaultFileName() string {
	session := strings.TrimSpace(c.SessionName)
	if session == "" {
		session = DefaultSessionName
	}
	return fmt.Sprintf("%s_recommendations%s", session, c.Format.Extension())
}

// ReportGenerator generates reports in various formats
type ReportGenerator struct {
	config *ReportConfig
}

// NewReportGenerator creates a new report generator with the specified configuration
func NewReportGenerator(config *ReportConfig) (*ReportGenerator, error) {
	if config == nil {
		config = DefaultReportConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid report configuration: %w", err)
	}
	return &ReportGenerator{config: config}, nil
}

// GetConfiguration returns the current configuration
func (rg *ReportGenerator) GetConfiguration() *ReportConfig {
	return rg.config
}

// GenerateReport writes the filtered rows of result to writer
func (rg *ReportGenerator) GenerateReport(result *pipeline.Result, writer io.Writer) error {
	if result == nil {
		return fmt.Errorf("result cannot be nil")
	}
	if writer == nil {
		return fmt.Errorf("writer cannot be nil")
	}

	rows := rg.config.Filter.Apply(result.Rows)

	switch rg.config.Format {
	case FormatCSV:
		return rg.generateCSVReport(result, rows, writer)
	case FormatJSON:
		return rg.generateJSONReport(result, rows, writer)
	case FormatYAML:
		return rg.generateYAMLReport(result, rows, writer)
	case FormatXLSX:
		return rg.generateXLSXReport(result, rows, writer)
	case FormatConsole:
		return rg.generateConsoleReport(result, rows, writer)
	default:
		return fmt.Errorf("unsupported output format: %s", rg.config.Format)
	}
}

// tableRow renders a row as strings in header order
func tableRow(w *models.WideRecord) []string {
	cells := w.Cells()
	row := make([]string, 0, len(cells)+3)
	row = append(row, w.Keyword, w.MatchType)
	for _, v := range cells {
		row = append(row, v.String())
	}
	return append(row, w.Decision.Label)
}

// labelCount is the number of rows given one label
type labelCount struct {
	Label string `json:"label" yaml:"label"`
	Count int    `json:"count" yaml:"count"`
}

// countLabels counts rows per label in rule order, then any other label
// in order of appearance
func countLabels(labels []string, rows []*models.WideRecord) []labelCount {
	counts := make(map[string]int)
	var extra []string
	known := make(map[string]bool, len(labels))
	for _, l := range labels {
		known[l] = true
	}
	for _, row := range rows {
		label := row.Decision.Label
		if !known[label] && counts[label] == 0 {
			extra = append(extra, label)
		}
		counts[label]++
	}

	var out []labelCount
	for _, l := range append(append([]string(nil), labels...), extra...) {
		if counts[l] > 0 {
			out = append(out, labelCount{Label: l, Count: counts[l]})
		}
	}
	return out
}
