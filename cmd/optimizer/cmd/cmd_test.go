package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"

	"github.com/spf13/viper"

	"golang-ads-optimizer/cmd/optimizer/config"
	"golang-ads-optimizer/internal/classifier"
	"golang-ads-optimizer/pkg/errors"
)

const exportHeader = "Keyword,Match type,Impressions,Clicks,Spend,Sales,Orders,CTR,CPC,ACOS,ROAS"

// writeExports creates three exports; "new kw" only appears in the last one
func writeExports(t *testing.T, dir string) []string {
	t.Helper()

	shoeRack := "shoe rack,exact,2000,2,5,0,0,0.001,2.5,,0"
	contents := []string{
		exportHeader + "\n" + shoeRack + "\n",
		exportHeader + "\n" + shoeRack + "\n",
		exportHeader + "\n" + shoeRack + "\nnew kw,phrase,500,20,8,0,0,,,,\n",
	}

	var paths []string
	for i, content := range contents {
		path := filepath.Join(dir, fmt.Sprintf("week%d.csv", i+1))
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write export: %v", err)
		}
		paths = append(paths, path)
	}
	return paths
}

func defaultOptions(files []string) *analyzeOptions {
	return &analyzeOptions{
		Files:     files,
		Mode:      "recommendation",
		Delimiter: ",",
		Report:    config.ReportOptions{Format: "csv"},
	}
}

func TestValidateFileExists(t *testing.T) {
	tmpDir := t.TempDir()
	validFile := filepath.Join(tmpDir, "valid.csv")
	if err := os.WriteFile(validFile, []byte("test"), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	tests := []struct {
		name         string
		filePath     string
		expectError  bool
		expectedCode int
	}{
		{"valid file", validFile, false, 0},
		{"empty path", "", true, 4},
		{"non-existent file", "/non/existent/file.csv", true, 2},
		{"directory instead of file", tmpDir, true, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateFileExists(tt.filePath, "test file")

			if !tt.expectError {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			optimizerErr, ok := errors.AsOptimizerError(err)
			if !ok {
				t.Fatalf("expected OptimizerError, got %v", err)
			}
			if optimizerErr.GetExitCode() != tt.expectedCode {
				t.Errorf("expected exit code %d, got %d", tt.expectedCode, optimizerErr.GetExitCode())
			}
		})
	}
}

func TestValidateAnalyzeFlags(t *testing.T) {
	files := writeExports(t, t.TempDir())

	tests := []struct {
		name          string
		args          []string
		setupFlags    func()
		expectError   bool
		errorContains string
	}{
		{
			name: "valid arguments",
			args: files,
			setupFlags: func() {
				viper.Set("output-format", "csv")
				viper.Set("mode", "recommendation")
			},
		},
		{
			name: "files from config",
			setupFlags: func() {
				viper.Set("files", files)
				viper.Set("output-format", "JSON")
				viper.Set("mode", "advice")
			},
		},
		{
			name: "two files",
			args: files[:2],
			setupFlags: func() {
				viper.Set("output-format", "csv")
				viper.Set("mode", "recommendation")
			},
			expectError:   true,
			errorContains: "files",
		},
		{
			name: "missing export",
			args: []string{files[0], files[1], "/no/such/week3.csv"},
			setupFlags: func() {
				viper.Set("output-format", "csv")
				viper.Set("mode", "recommendation")
			},
			expectError:   true,
			errorContains: "file not found",
		},
		{
			name: "invalid output format",
			args: files,
			setupFlags: func() {
				viper.Set("output-format", "pdf")
				viper.Set("mode", "recommendation")
			},
			expectError:   true,
			errorContains: "output-format",
		},
		{
			name: "invalid mode",
			args: files,
			setupFlags: func() {
				viper.Set("output-format", "csv")
				viper.Set("mode", "aggressive")
			},
			expectError:   true,
			errorContains: "mode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Set("files", []string{})
			tt.setupFlags()

			err := validateAnalyzeFlags(analyzeCmd, tt.args)

			if tt.expectError {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				if !strings.Contains(err.Error(), tt.errorContains) {
					t.Errorf("expected error containing %q, got %q", tt.errorContains, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}

	viper.Set("files", []string{})
	viper.Set("output-format", "csv")
	viper.Set("mode", "recommendation")
}

func TestRunAnalysisCSV(t *testing.T) {
	files := writeExports(t, t.TempDir())

	var stdout, stderr bytes.Buffer
	if err := runAnalysis(context.Background(), defaultOptions(files), &stdout, &stderr); err != nil {
		t.Fatalf("analysis failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got:\n%s", stdout.String())
	}
	if !strings.HasPrefix(lines[0], "Keyword,Match type,CTR_period1,CTR_period2,CTR_period3,ACOS_period1,") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.HasSuffix(lines[0], ",CR_period3,Recommendation") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "new kw,phrase,") || !strings.HasSuffix(lines[1], ",CUT") {
		t.Errorf("unexpected first row %q", lines[1])
	}
	if !strings.HasSuffix(lines[2], ",REMOVE") {
		t.Errorf("unexpected second row %q", lines[2])
	}
	if stderr.Len() != 0 {
		t.Errorf("expected nothing on stderr, got %q", stderr.String())
	}
}

func TestRunAnalysisAdviceJSON(t *testing.T) {
	files := writeExports(t, t.TempDir())

	opts := defaultOptions(files)
	opts.Mode = "advice"
	opts.Report.Format = "json"
	opts.Report.Labels = []string{"Low CTR - test rewriting product title or image."}

	var stdout, stderr bytes.Buffer
	if err := runAnalysis(context.Background(), opts, &stdout, &stderr); err != nil {
		t.Fatalf("analysis failed: %v", err)
	}

	var doc struct {
		Mode string                   `json:"mode"`
		Rows []map[string]interface{} `json:"rows"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if doc.Mode != "advice" {
		t.Errorf("expected advice mode, got %s", doc.Mode)
	}
	if len(doc.Rows) != 1 || doc.Rows[0]["Keyword"] != "shoe rack" {
		t.Errorf("expected only the shoe rack row, got %v", doc.Rows)
	}
	if _, ok := doc.Rows[0]["AI_Advice"]; !ok {
		t.Error("expected AI_Advice column")
	}
}

// resetArrayFlag clears a repeatable flag parsed by a test
func resetArrayFlag(t *testing.T, name string) {
	t.Helper()
	flag := analyzeCmd.Flags().Lookup(name)
	if err := flag.Value.(interface{ Replace([]string) error }).Replace([]string{}); err != nil {
		t.Fatalf("failed to reset --%s: %v", name, err)
	}
	flag.Changed = false
}

func TestFilterFlagsKeepCommas(t *testing.T) {
	t.Cleanup(func() {
		resetArrayFlag(t, "label")
		resetArrayFlag(t, "keyword")
	})

	err := analyzeCmd.Flags().Parse([]string{
		"--label", classifier.AdviceRelevance,
		"--keyword", "shoe rack, large",
		"-k", "boot tray",
	})
	if err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}

	opts := loadAnalyzeOptions()
	if len(opts.Report.Labels) != 1 || opts.Report.Labels[0] != classifier.AdviceRelevance {
		t.Errorf("expected the advice sentence as one label, got %q", opts.Report.Labels)
	}
	if len(opts.Report.Keywords) != 2 || opts.Report.Keywords[0] != "shoe rack, large" || opts.Report.Keywords[1] != "boot tray" {
		t.Errorf("expected two keywords, got %q", opts.Report.Keywords)
	}

	opts.Files = writeExports(t, t.TempDir())
	opts.Mode = "advice"
	opts.Delimiter = ","
	opts.OutputFile = ""
	opts.Verbose = false
	opts.Thresholds = nil
	opts.PeriodLabels = nil
	opts.Report.Format = "json"
	opts.Report.Keywords = nil

	var stdout, stderr bytes.Buffer
	if err := runAnalysis(context.Background(), opts, &stdout, &stderr); err != nil {
		t.Fatalf("analysis failed: %v", err)
	}

	var doc struct {
		Rows []map[string]interface{} `json:"rows"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if len(doc.Rows) != 1 || doc.Rows[0]["Keyword"] != "new kw" {
		t.Fatalf("expected only the new kw row, got %v", doc.Rows)
	}
	if doc.Rows[0][classifier.AdviceColumn] != classifier.AdviceRelevance {
		t.Errorf("unexpected advice %v", doc.Rows[0][classifier.AdviceColumn])
	}
}

func TestRunAnalysisOptions(t *testing.T) {
	files := writeExports(t, t.TempDir())

	opts := defaultOptions(files)
	opts.PeriodLabels = []string{"may", "june", "july"}
	opts.Thresholds = map[string]float64{"cut-min-clicks": 50}

	var stdout, stderr bytes.Buffer
	if err := runAnalysis(context.Background(), opts, &stdout, &stderr); err != nil {
		t.Fatalf("analysis failed: %v", err)
	}

	output := stdout.String()
	if !strings.Contains(output, "CTR_change_july_vs_june") {
		t.Errorf("expected custom period labels in header:\n%s", output)
	}
	// 20 clicks no longer reaches the cut threshold
	if !strings.Contains(output, "new kw,phrase,") || strings.Contains(output, ",CUT\n") {
		t.Errorf("expected the threshold override to prevent CUT:\n%s", output)
	}
}

func TestRunAnalysisXLSXFile(t *testing.T) {
	dir := t.TempDir()
	files := writeExports(t, dir)

	opts := defaultOptions(files)
	opts.Report.Format = "xlsx"
	opts.OutputFile = filepath.Join(dir, "out", "report.xlsx")
	opts.Verbose = true

	var stdout, stderr bytes.Buffer
	if err := runAnalysis(context.Background(), opts, &stdout, &stderr); err != nil {
		t.Fatalf("analysis failed: %v", err)
	}

	if stdout.Len() != 0 {
		t.Error("expected nothing on stdout for a file report")
	}
	if _, err := os.Stat(opts.OutputFile); err != nil {
		t.Errorf("expected report file: %v", err)
	}
	for _, want := range []string{"Report written to", "Analysis completed", "classify", "2 keywords classified"} {
		if !strings.Contains(stderr.String(), want) {
			t.Errorf("expected stderr to contain %q:\n%s", want, stderr.String())
		}
	}
}

func TestRunAnalysisAbortsBeforeOutput(t *testing.T) {
	dir := t.TempDir()
	files := writeExports(t, dir)

	// Date 2 loses its Orders column
	broken := "Keyword,Match type,Impressions,Clicks,Spend,Sales,CTR,CPC,ACOS,ROAS\nmat,broad,1,1,1,1,1,1,1,1\n"
	if err := os.WriteFile(files[1], []byte(broken), 0644); err != nil {
		t.Fatalf("failed to write export: %v", err)
	}

	opts := defaultOptions(files)
	opts.OutputFile = filepath.Join(dir, "report.csv")

	var stdout, stderr bytes.Buffer
	err := runAnalysis(context.Background(), opts, &stdout, &stderr)
	if !errors.IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "Date 2") || !strings.Contains(err.Error(), "Orders") {
		t.Errorf("expected error to name the input and column, got %q", err.Error())
	}
	if _, statErr := os.Stat(opts.OutputFile); !os.IsNotExist(statErr) {
		t.Error("expected no report to be written")
	}
	if code := NewCLIErrorHandlerWithWriter(&bytes.Buffer{}, false).HandleError(err); code != 3 {
		t.Errorf("expected exit code 3, got %d", code)
	}
}

func TestRunAnalysisConfigurationErrors(t *testing.T) {
	files := writeExports(t, t.TempDir())

	tests := []struct {
		name   string
		modify func(opts *analyzeOptions)
	}{
		{"bad delimiter", func(opts *analyzeOptions) { opts.Delimiter = "ab" }},
		{"two period labels", func(opts *analyzeOptions) { opts.PeriodLabels = []string{"a", "b"} }},
		{"unknown threshold", func(opts *analyzeOptions) { opts.Thresholds = map[string]float64{"nope": 1} }},
		{"bad mode", func(opts *analyzeOptions) { opts.Mode = "loud" }},
		{"bad format", func(opts *analyzeOptions) { opts.Report.Format = "pdf" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := defaultOptions(files)
			tt.modify(opts)

			err := runAnalysis(context.Background(), opts, &bytes.Buffer{}, &bytes.Buffer{})
			optimizerErr, ok := errors.AsOptimizerError(err)
			if !ok {
				t.Fatalf("expected OptimizerError, got %v", err)
			}
			if optimizerErr.Category != errors.CategoryConfiguration {
				t.Errorf("expected configuration error, got %s", optimizerErr.Category)
			}
		})
	}
}

func TestThresholdOverrides(t *testing.T) {
	t.Cleanup(func() { viper.Set("thresholds", map[string]interface{}{}) })

	viper.Set("thresholds.cut-min-clicks", 30)
	viper.Set("thresholds.high-acos", 0.5)

	overrides := thresholdOverrides()
	if len(overrides) != 2 {
		t.Fatalf("expected 2 overrides, got %v", overrides)
	}
	if overrides["cut-min-clicks"] != 30 || overrides["high-acos"] != 0.5 {
		t.Errorf("unexpected overrides %v", overrides)
	}
}

func TestListingCommand(t *testing.T) {
	dir := t.TempDir()
	ideas := filepath.Join(dir, "ideas.txt")
	if err := os.WriteFile(ideas, []byte("boot tray\n\n"), 0644); err != nil {
		t.Fatalf("failed to write ideas: %v", err)
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"listing", "--title", "Bamboo Shoe Rack", "--new-keywords", "shoe shelf", "--new-keywords-file", ideas})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	if err := Execute(); err != nil {
		t.Fatalf("listing failed: %v", err)
	}

	output := out.String()
	for _, want := range []string{
		"### Optimized Title\nBamboo Shoe Rack",
		"[No description provided]",
		"**shoe shelf**",
		"**boot tray**",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected listing to contain %q:\n%s", want, output)
		}
	}
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode int
		contains     []string
	}{
		{
			name:         "nil",
			err:          nil,
			expectedCode: 0,
		},
		{
			name:         "schema error",
			err:          errors.SchemaError(errors.CodeUnrecognizedCurrency, "Date 2", []string{"Spend(GBP)"}),
			expectedCode: 3,
			contains:     []string{"Error: unrecognized currency qualifier", "Context:", "input: Date 2", "Suggestion:", "Schema error help"},
		},
		{
			name: "cell error",
			err: fmt.Errorf("loading: %w", errors.InvalidNumberError(
				&errors.CellContext{Input: "Date 2", Line: 3, Column: "Impressions", Value: "lots"}, nil)),
			expectedCode: 3,
			contains:     []string{"Line: 3", "Column: Impressions", "Value: 'lots'", "Parse error help"},
		},
		{
			name:         "file error",
			err:          errors.FileError(errors.CodeFileNotFound, "week1.csv", os.ErrNotExist),
			expectedCode: 2,
			contains:     []string{"file not found: week1.csv", "File error help"},
		},
		{
			name:         "configuration error",
			err:          errors.ConfigurationError(errors.CodeInvalidConfig, "mode", "loud", nil),
			expectedCode: 4,
			contains:     []string{"invalid configuration for 'mode'", "optimizer analyze --help"},
		},
		{
			name:         "plain not found",
			err:          &os.PathError{Op: "open", Path: "x.csv", Err: syscall.ENOENT},
			expectedCode: 2,
			contains:     []string{"File not found"},
		},
		{
			name:         "disk full",
			err:          syscall.ENOSPC,
			expectedCode: 2,
			contains:     []string{"Insufficient disk space"},
		},
		{
			name:         "cobra usage error",
			err:          fmt.Errorf("unknown flag: --bogus"),
			expectedCode: 1,
			contains:     []string{"unknown flag: --bogus", "optimizer --help"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			code := NewCLIErrorHandlerWithWriter(&out, false).HandleError(tt.err)

			if code != tt.expectedCode {
				t.Errorf("expected exit code %d, got %d", tt.expectedCode, code)
			}
			for _, want := range tt.contains {
				if !strings.Contains(out.String(), want) {
					t.Errorf("expected output to contain %q:\n%s", want, out.String())
				}
			}
		})
	}
}

func TestVersionString(t *testing.T) {
	t.Cleanup(func() { SetVersionInfo("dev", "unknown", "unknown") })

	SetVersionInfo("1.2.0", "abc123", "2026-01-01")
	if rootCmd.Version != "1.2.0" {
		t.Errorf("expected release version, got %q", rootCmd.Version)
	}

	SetVersionInfo("dev", "abc123", "2026-01-01")
	if !strings.Contains(rootCmd.Version, "abc123") {
		t.Errorf("expected dev version to include the commit, got %q", rootCmd.Version)
	}
}

func TestSampleCommand(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "samples")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"sample", "--output-dir", dir, "--seed", "9", "--fillers", "4", "--currency", "eur"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	if err := Execute(); err != nil {
		t.Fatalf("sample failed: %v", err)
	}

	files := []string{
		filepath.Join(dir, "week1.csv"),
		filepath.Join(dir, "week2.csv"),
		filepath.Join(dir, "week3.csv"),
	}
	for _, file := range files {
		if !strings.Contains(out.String(), file) {
			t.Errorf("expected output to list %s:\n%s", file, out.String())
		}
	}

	opts := defaultOptions(files)
	opts.Report.Labels = []string{"BOOST"}
	var stdout bytes.Buffer
	if err := runAnalysis(context.Background(), opts, &stdout, &bytes.Buffer{}); err != nil {
		t.Fatalf("analysis of samples failed: %v", err)
	}
	if !strings.Contains(stdout.String(), "boot tray,exact,") {
		t.Errorf("expected the boost scenario in the report:\n%s", stdout.String())
	}
}

func TestParseCurrency(t *testing.T) {
	for _, value := range []string{"", "eur", " USD "} {
		if _, err := parseCurrency(value); err != nil {
			t.Errorf("unexpected error for %q: %v", value, err)
		}
	}
	if _, err := parseCurrency("GBP"); err == nil {
		t.Error("expected error for GBP")
	}
}
