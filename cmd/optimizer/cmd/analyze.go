package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"golang-ads-optimizer/cmd/optimizer/config"
	"golang-ads-optimizer/internal/classifier"
	"golang-ads-optimizer/internal/pipeline"
	"golang-ads-optimizer/internal/reporter"
	"golang-ads-optimizer/pkg/errors"
	"golang-ads-optimizer/pkg/logger"
)

// Flags for the analyze command
var (
	inputFiles   []string
	mode         string
	outputFormat string
	outputFile   string
	sessionName  string
	keywords     []string
	labels       []string
	delimiter    string
	sheet        string
	periodLabels []string
	maxRows      int
	noColor      bool
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze DATE1 DATE2 DATE3",
	Short: "Classify keywords from three period exports",
	Long: `Analyze loads three keyword performance exports, earliest first, and
writes one row per keyword and match type with every metric per period, the
change of CTR, ACOS and ROAS against each earlier period, and a label for the
most recent period.

Exports are CSV (or TSV) or XLSX files with the columns Keyword, Match type,
Impressions, Clicks, Spend, Sales, Orders, CTR, CPC, ACOS and ROAS. Spend,
Sales and CPC may carry a (EUR) or (USD) qualifier.

Examples:
  # Recommendation labels as CSV on stdout
  optimizer analyze week1.csv week2.csv week3.csv

  # Free-text advice in a terminal table
  optimizer analyze w1.csv w2.csv w3.csv --mode advice --output-format console

  # Only keywords to cut or remove, written to a workbook
  optimizer analyze w1.csv w2.csv w3.csv --label CUT --label REMOVE \
    --output-format xlsx --output-file actions.xlsx

  # Semicolon separated exports and named periods
  optimizer analyze may.csv june.csv july.csv --delimiter ";" \
    --period-labels may,june,july`,

	Args:    cobra.MaximumNArgs(3),
	PreRunE: validateAnalyzeFlags,
	RunE:    runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Input flags
	analyzeCmd.Flags().StringSliceVar(&inputFiles, "files", []string{}, "the three exports, earliest first (alternative to arguments)")
	analyzeCmd.Flags().StringVar(&delimiter, "delimiter", ",", "field delimiter of CSV exports (use \"tab\" for tabs)")
	analyzeCmd.Flags().StringVar(&sheet, "sheet", "", "worksheet to read from XLSX exports (default: first sheet)")
	analyzeCmd.Flags().StringSliceVar(&periodLabels, "period-labels", []string{}, "names of the three periods, earliest first (default: period1,period2,period3)")

	// Classification flags
	analyzeCmd.Flags().StringVarP(&mode, "mode", "m", string(classifier.ModeRecommendation), "classification mode: recommendation, advice")

	// Output flags
	analyzeCmd.Flags().StringVarP(&outputFormat, "output-format", "f", string(reporter.FormatCSV), "output format: csv, json, yaml, xlsx, console")
	analyzeCmd.Flags().StringVarP(&outputFile, "output-file", "o", "", "output file path (default: stdout, or {session}_recommendations.xlsx for xlsx)")
	analyzeCmd.Flags().StringVar(&sessionName, "session-name", reporter.DefaultSessionName, "session name used in reports and default file names")
	analyzeCmd.Flags().StringArrayVarP(&keywords, "keyword", "k", []string{}, "only report this keyword (repeatable)")
	analyzeCmd.Flags().StringArrayVarP(&labels, "label", "l", []string{}, "only report rows with this label or advice sentence (repeatable)")
	analyzeCmd.Flags().IntVar(&maxRows, "max-rows", 0, "maximum rows in the console table (0 for all)")
	analyzeCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colors in console output")

	// Bind flags to viper
	for _, name := range []string{
		"files", "delimiter", "sheet", "period-labels", "mode",
		"output-format", "output-file", "session-name", "keyword", "label",
		"max-rows", "no-color",
	} {
		viper.BindPFlag(name, analyzeCmd.Flags().Lookup(name))
	}
}

// analyzeOptions is everything a run needs, resolved from flags, config
// file and environment
type analyzeOptions struct {
	Files        []string
	Mode         string
	Delimiter    string
	Sheet        string
	PeriodLabels []string
	Thresholds   map[string]float64
	Report       config.ReportOptions
	OutputFile   string
	Verbose      bool
}

func validateAnalyzeFlags(cmd *cobra.Command, args []string) error {
	// Get values from viper (allows override from config file)
	inputFiles = viper.GetStringSlice("files")
	if len(args) > 0 {
		inputFiles = args
	}

	if len(inputFiles) != 3 {
		return errors.ConfigurationError(errors.CodeMissingConfig, "files", len(inputFiles),
			fmt.Errorf("expected 3 exports, got %d", len(inputFiles))).
			WithSuggestion("pass the three exports, earliest first: optimizer analyze DATE1 DATE2 DATE3")
	}

	for i, file := range inputFiles {
		if err := validateFileExists(file, fmt.Sprintf("Date %d export", i+1)); err != nil {
			return err
		}
	}

	outputFormat = viper.GetString("output-format")
	if !reporter.OutputFormat(strings.ToLower(outputFormat)).IsValid() {
		return errors.ConfigurationError(errors.CodeInvalidConfig, "output-format", outputFormat, nil).
			WithSuggestion("use one of csv, json, yaml, xlsx or console")
	}

	mode = viper.GetString("mode")
	if _, err := classifier.ParseMode(mode); err != nil {
		return errors.ConfigurationError(errors.CodeInvalidConfig, "mode", mode, err).
			WithSuggestion("use recommendation or advice")
	}

	return nil
}

func validateFileExists(filePath, description string) error {
	if filePath == "" {
		return errors.ConfigurationError(errors.CodeMissingConfig, description, "", nil)
	}

	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return errors.FileError(errors.CodeFileNotFound, filePath, err)
	}
	if err != nil {
		return errors.FileError(errors.CodeFilePermission, filePath, err)
	}

	if info.IsDir() {
		return errors.FileError(errors.CodeUnsupportedFile, filePath,
			fmt.Errorf("%s is a directory, expected a file", description))
	}

	return nil
}

// thresholdOverrides collects thresholds.* keys from config and environment
func thresholdOverrides() map[string]float64 {
	overrides := make(map[string]float64)
	for key := range viper.GetStringMap("thresholds") {
		overrides[key] = viper.GetFloat64("thresholds." + key)
	}
	for _, key := range classifier.ThresholdKeys() {
		if viper.IsSet("thresholds." + key) {
			overrides[key] = viper.GetFloat64("thresholds." + key)
		}
	}
	return overrides
}

func loadAnalyzeOptions() *analyzeOptions {
	return &analyzeOptions{
		Files:        inputFiles,
		Mode:         mode,
		Delimiter:    viper.GetString("delimiter"),
		Sheet:        viper.GetString("sheet"),
		PeriodLabels: viper.GetStringSlice("period-labels"),
		Thresholds:   thresholdOverrides(),
		Report: config.ReportOptions{
			Format:      outputFormat,
			SessionName: viper.GetString("session-name"),
			Keywords:    viper.GetStringSlice("keyword"),
			Labels:      viper.GetStringSlice("label"),
			MaxRows:     viper.GetInt("max-rows"),
			NoColor:     viper.GetBool("no-color"),
		},
		OutputFile: viper.GetString("output-file"),
		Verbose:    viper.GetBool("verbose"),
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	return runAnalysis(cmd.Context(), loadAnalyzeOptions(), cmd.OutOrStdout(), cmd.ErrOrStderr())
}

func runAnalysis(ctx context.Context, opts *analyzeOptions, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log := logger.GetGlobalLogger().WithComponent("cli")

	// Create configurations
	loaderConfig, err := config.CreateLoaderConfig(opts.Delimiter, opts.Sheet)
	if err != nil {
		return errors.ConfigurationError(errors.CodeInvalidConfig, "delimiter", opts.Delimiter, err)
	}

	periods, err := config.CreatePeriodSet(opts.PeriodLabels)
	if err != nil {
		return errors.ConfigurationError(errors.CodeInvalidConfig, "period-labels", strings.Join(opts.PeriodLabels, ","), err)
	}

	thresholds, err := config.CreateThresholds(opts.Thresholds)
	if err != nil {
		return errors.ConfigurationError(errors.CodeInvalidConfig, "thresholds", opts.Thresholds, err).
			WithSuggestion(fmt.Sprintf("valid thresholds: %s", strings.Join(classifier.ThresholdKeys(), ", ")))
	}

	pipelineConfig, err := config.CreatePipelineConfig(opts.Mode, periods, thresholds, loaderConfig)
	if err != nil {
		return errors.ConfigurationError(errors.CodeInvalidConfig, "mode", opts.Mode, err)
	}

	reportConfig, err := config.CreateReportConfig(opts.Report)
	if err != nil {
		return errors.ConfigurationError(errors.CodeInvalidConfig, "output-format", opts.Report.Format, err)
	}

	generator, err := reporter.NewSafeReportGenerator(reportConfig, log)
	if err != nil {
		return err
	}

	service, err := pipeline.NewService(pipelineConfig)
	if err != nil {
		return err
	}

	if opts.Verbose {
		fmt.Fprintf(stderr, "Analyzing %s\n", strings.Join(opts.Files, ", "))
		fmt.Fprintf(stderr, "Mode: %s, output format: %s\n", pipelineConfig.Mode, reportConfig.Format)
	}

	// Nothing is written unless every export loads and validates
	result, err := service.Run(ctx, pipeline.NewRequest(opts.Files...))
	if err != nil {
		return err
	}

	destination := config.ResolveOutputFile(opts.OutputFile, reportConfig)
	if destination == "" {
		if err := generator.Write(result, stdout); err != nil {
			return err
		}
	} else {
		if err := generator.WriteFile(result, destination); err != nil {
			return err
		}
		fmt.Fprintf(stderr, "Report written to %s\n", destination)
	}

	if opts.Verbose {
		fmt.Fprintf(stderr, "\nAnalysis completed in %v (run %s)\n", result.Duration, result.RunID)
		for _, stage := range result.Stages {
			fmt.Fprintf(stderr, "  %s\n", stage)
		}
		fmt.Fprintf(stderr, "%d keywords classified", len(result.Rows))
		if result.Skipped > 0 {
			fmt.Fprintf(stderr, ", %d rows without keyword or match type skipped", result.Skipped)
		}
		fmt.Fprintln(stderr)
	}

	return nil
}
