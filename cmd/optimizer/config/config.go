package config

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"golang-ads-optimizer/internal/classifier"
	"golang-ads-optimizer/internal/models"
	"golang-ads-optimizer/internal/parsers"
	"golang-ads-optimizer/internal/pipeline"
	"golang-ads-optimizer/internal/reporter"
)

// ParseDelimiter turns a flag value into a delimiter rune. "tab" and "\t"
// both mean a tab.
func ParseDelimiter(value string) (rune, error) {
	switch value {
	case "", ",":
		return ',', nil
	case "tab", `\t`, "\t":
		return '\t', nil
	}
	if utf8.RuneCountInString(value) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", value)
	}
	r, _ := utf8.DecodeRuneInString(value)
	return r, nil
}

// CreateLoaderConfig creates the input loader configuration
func CreateLoaderConfig(delimiter, sheet string) (*parsers.Config, error) {
	config := parsers.DefaultConfig()

	r, err := ParseDelimiter(delimiter)
	if err != nil {
		return nil, err
	}
	config.Delimiter = r
	config.Sheet = strings.TrimSpace(sheet)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// CreatePeriodSet creates the period labels; an empty list gives the defaults
func CreatePeriodSet(labels []string) (models.PeriodSet, error) {
	if len(labels) == 0 {
		return models.DefaultPeriods(), nil
	}
	return models.NewPeriodSet(labels)
}

// CreateThresholds applies overrides, keyed by threshold name, on top of the
// default thresholds
func CreateThresholds(overrides map[string]float64) (*classifier.Thresholds, error) {
	thresholds := classifier.DefaultThresholds()

	keys := make([]string, 0, len(overrides))
	for key := range overrides {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if err := thresholds.Set(key, decimal.NewFromFloat(overrides[key])); err != nil {
			return nil, err
		}
	}

	if err := thresholds.Validate(); err != nil {
		return nil, err
	}
	return thresholds, nil
}

// CreatePipelineConfig creates the pipeline configuration
func CreatePipelineConfig(mode string, periods models.PeriodSet, thresholds *classifier.Thresholds, loader *parsers.Config) (*pipeline.Config, error) {
	parsed, err := classifier.ParseMode(mode)
	if err != nil {
		return nil, err
	}

	config := pipeline.DefaultConfig()
	config.Mode = parsed
	config.Periods = periods
	if thresholds != nil {
		config.Thresholds = thresholds
	}
	if loader != nil {
		config.Loader = loader
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// ReportOptions carries the CLI settings that shape a report
type ReportOptions struct {
	Format      string
	SessionName string
	Keywords    []string
	Labels      []string
	MaxRows     int
	NoColor     bool
}

// CreateReportConfig creates a report configuration for the specified output format
func CreateReportConfig(options ReportOptions) (*reporter.ReportConfig, error) {
	config := reporter.DefaultReportConfig()

	config.Format = reporter.OutputFormat(strings.ToLower(strings.TrimSpace(options.Format)))
	if session := strings.TrimSpace(options.SessionName); session != "" {
		config.SessionName = session
	}
	config.Filter = reporter.Filter{Keywords: options.Keywords, Labels: options.Labels}
	config.MaxRows = options.MaxRows

	switch config.Format {
	case reporter.FormatConsole:
		config.UseColors = !options.NoColor
		config.IncludeSummary = true
	case reporter.FormatCSV:
		config.CSVHeaders = true
		config.CSVDelimiter = ','
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// ResolveOutputFile returns where the report goes; "" means stdout. Binary
// formats never go to stdout and fall back to the session file name.
func ResolveOutputFile(outputFile string, config *reporter.ReportConfig) string {
	if outputFile == "-" {
		outputFile = ""
	}
	if outputFile == "" && config.Format.Binary() {
		return config.DefaultFileName()
	}
	return outputFile
}
