package config

import (
	"testing"

	"github.com/shopspring/decimal"

	"golang-ads-optimizer/internal/classifier"
	"golang-ads-optimizer/internal/models"
	"golang-ads-optimizer/internal/reporter"
)

func TestParseDelimiter(t *testing.T) {
	tests := []struct {
		value       string
		expected    rune
		expectError bool
	}{
		{"", ',', false},
		{",", ',', false},
		{";", ';', false},
		{"tab", '\t', false},
		{`\t`, '\t', false},
		{"|", '|', false},
		{"ab", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := ParseDelimiter(tt.value)
			if tt.expectError {
				if err == nil {
					t.Errorf("expected error for %q", tt.value)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestCreateLoaderConfig(t *testing.T) {
	config, err := CreateLoaderConfig(";", " Week 3 ")
	if err != nil {
		t.Fatalf("failed to create loader config: %v", err)
	}
	if config.Delimiter != ';' {
		t.Errorf("expected ';' delimiter, got %q", config.Delimiter)
	}
	if config.Sheet != "Week 3" {
		t.Errorf("expected trimmed sheet name, got %q", config.Sheet)
	}
	if !config.SkipEmptyRows {
		t.Error("expected defaults to be kept")
	}

	if _, err := CreateLoaderConfig(`"`, ""); err == nil {
		t.Error("expected quote delimiter to be rejected")
	}
}

func TestCreatePeriodSet(t *testing.T) {
	periods, err := CreatePeriodSet(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if periods != models.DefaultPeriods() {
		t.Errorf("expected default periods, got %v", periods)
	}

	periods, err = CreatePeriodSet([]string{"may", "june", "july"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if periods.Recent() != "july" {
		t.Errorf("expected july to be the most recent period, got %s", periods.Recent())
	}

	if _, err := CreatePeriodSet([]string{"a", "b"}); err == nil {
		t.Error("expected error for two labels")
	}
	if _, err := CreatePeriodSet([]string{"a", "a", "b"}); err == nil {
		t.Error("expected error for duplicate labels")
	}
}

func TestCreateThresholds(t *testing.T) {
	thresholds, err := CreateThresholds(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !thresholds.CutMinClicks.Equal(decimal.NewFromInt(10)) {
		t.Errorf("expected default cut-min-clicks, got %s", thresholds.CutMinClicks)
	}

	thresholds, err = CreateThresholds(map[string]float64{"cut-min-clicks": 25, "high-acos": 0.5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !thresholds.CutMinClicks.Equal(decimal.NewFromInt(25)) {
		t.Errorf("expected override, got %s", thresholds.CutMinClicks)
	}
	if !thresholds.HighACOS.Equal(decimal.RequireFromString("0.5")) {
		t.Errorf("expected override, got %s", thresholds.HighACOS)
	}

	if _, err := CreateThresholds(map[string]float64{"no-such-threshold": 1}); err == nil {
		t.Error("expected error for unknown threshold")
	}
	if _, err := CreateThresholds(map[string]float64{"low-ctr": -1}); err == nil {
		t.Error("expected error for negative threshold")
	}
}

func TestCreatePipelineConfig(t *testing.T) {
	config, err := CreatePipelineConfig("Advice", models.DefaultPeriods(), nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.Mode != classifier.ModeAdvice {
		t.Errorf("expected advice mode, got %s", config.Mode)
	}
	if config.Thresholds == nil || config.Loader == nil {
		t.Error("expected defaults for thresholds and loader")
	}

	if _, err := CreatePipelineConfig("aggressive", models.DefaultPeriods(), nil, nil); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestCreateReportConfig(t *testing.T) {
	tests := []struct {
		name        string
		options     ReportOptions
		expectError bool
		check       func(t *testing.T, config *reporter.ReportConfig)
	}{
		{
			name:    "csv",
			options: ReportOptions{Format: "CSV"},
			check: func(t *testing.T, config *reporter.ReportConfig) {
				if config.Format != reporter.FormatCSV || !config.CSVHeaders {
					t.Errorf("unexpected csv config %+v", config)
				}
				if config.SessionName != reporter.DefaultSessionName {
					t.Errorf("expected default session, got %q", config.SessionName)
				}
			},
		},
		{
			name:    "console without colors",
			options: ReportOptions{Format: "console", NoColor: true, MaxRows: 20},
			check: func(t *testing.T, config *reporter.ReportConfig) {
				if config.UseColors {
					t.Error("expected colors to be disabled")
				}
				if config.MaxRows != 20 {
					t.Errorf("expected max rows 20, got %d", config.MaxRows)
				}
			},
		},
		{
			name:    "filters and session",
			options: ReportOptions{Format: "json", SessionName: "Spring", Labels: []string{"CUT"}, Keywords: []string{"mat"}},
			check: func(t *testing.T, config *reporter.ReportConfig) {
				if config.SessionName != "Spring" {
					t.Errorf("expected session Spring, got %q", config.SessionName)
				}
				if len(config.Filter.Labels) != 1 || len(config.Filter.Keywords) != 1 {
					t.Errorf("expected filter to be set, got %+v", config.Filter)
				}
			},
		},
		{
			name:        "invalid format",
			options:     ReportOptions{Format: "pdf"},
			expectError: true,
		},
		{
			name:        "negative max rows",
			options:     ReportOptions{Format: "console", MaxRows: -5},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := CreateReportConfig(tt.options)
			if tt.expectError {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, config)
		})
	}
}

func TestResolveOutputFile(t *testing.T) {
	csvConfig, _ := CreateReportConfig(ReportOptions{Format: "csv"})
	xlsxConfig, _ := CreateReportConfig(ReportOptions{Format: "xlsx", SessionName: "Spring"})

	tests := []struct {
		name       string
		outputFile string
		config     *reporter.ReportConfig
		expected   string
	}{
		{"csv to stdout", "", csvConfig, ""},
		{"dash means stdout", "-", csvConfig, ""},
		{"explicit file", "out/report.csv", csvConfig, "out/report.csv"},
		{"xlsx defaults to session file", "", xlsxConfig, "Spring_recommendations.xlsx"},
		{"xlsx explicit file", "r.xlsx", xlsxConfig, "r.xlsx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveOutputFile(tt.outputFile, tt.config); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}
