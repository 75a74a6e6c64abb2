package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"golang-ads-optimizer/internal/models"
	"golang-ads-optimizer/internal/sample"
	"golang-ads-optimizer/pkg/errors"
)

// Flags for the sample command
var (
	sampleOutputDir string
	sampleSeed      int64
	sampleFillers   int
	sampleCurrency  string
	sampleFormat    string
)

// sampleCmd represents the sample command
var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Generate three sample exports",
	Long: `Sample writes three keyword exports (week1, week2, week3) that exercise
every recommendation label, plus seeded random filler keywords.

Examples:
  optimizer sample --output-dir samples
  optimizer sample --output-dir samples --currency EUR --format xlsx --seed 42
  optimizer analyze samples/week1.csv samples/week2.csv samples/week3.csv`,
	Args: cobra.NoArgs,
	RunE: runSample,
}

func init() {
	rootCmd.AddCommand(sampleCmd)

	sampleCmd.Flags().StringVarP(&sampleOutputDir, "output-dir", "d", "samples", "directory for the generated exports")
	sampleCmd.Flags().Int64Var(&sampleSeed, "seed", time.Now().UnixNano(), "random seed for reproducible filler keywords")
	sampleCmd.Flags().IntVar(&sampleFillers, "fillers", 20, "number of random filler keywords")
	sampleCmd.Flags().StringVar(&sampleCurrency, "currency", "", "currency qualifier for money columns: EUR, USD or empty")
	sampleCmd.Flags().StringVar(&sampleFormat, "format", "csv", "export format: csv, xlsx")
}

func parseCurrency(value string) (models.Currency, error) {
	switch models.Currency(strings.ToUpper(strings.TrimSpace(value))) {
	case models.CurrencyNone:
		return models.CurrencyNone, nil
	case models.CurrencyEUR:
		return models.CurrencyEUR, nil
	case models.CurrencyUSD:
		return models.CurrencyUSD, nil
	default:
		return "", fmt.Errorf("unsupported currency %q", value)
	}
}

func runSample(cmd *cobra.Command, args []string) error {
	currency, err := parseCurrency(sampleCurrency)
	if err != nil {
		return errors.ConfigurationError(errors.CodeInvalidConfig, "currency", sampleCurrency, err).
			WithSuggestion("use EUR, USD or leave the currency empty")
	}
	if sampleFillers < 0 {
		return errors.ConfigurationError(errors.CodeInvalidConfig, "fillers", sampleFillers, nil)
	}

	generator := sample.NewGenerator(sampleSeed, sampleFillers, currency)

	var paths []string
	switch strings.ToLower(sampleFormat) {
	case "csv":
		paths, err = generator.WriteCSV(sampleOutputDir)
	case "xlsx":
		paths, err = generator.WriteXLSX(sampleOutputDir)
	default:
		return errors.ConfigurationError(errors.CodeInvalidConfig, "format", sampleFormat, nil).
			WithSuggestion("use csv or xlsx")
	}
	if err != nil {
		return errors.FileError(errors.CodeFilePermission, sampleOutputDir, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Generated %d scenario and %d filler keywords (seed %d):\n", len(sample.Scenarios()), sampleFillers, sampleSeed)
	for _, path := range paths {
		fmt.Fprintf(out, "  %s\n", path)
	}
	fmt.Fprintf(out, "\nRun: optimizer analyze %s\n", strings.Join(paths, " "))
	return nil
}
