package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"golang-ads-optimizer/pkg/errors"
	"golang-ads-optimizer/pkg/logger"
)

var (
	cfgFile   string
	verbose   bool
	logLevel  string
	logFormat string
	configErr error
	version   = "dev"
	commit    = "unknown"
	date      = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "optimizer",
	Short: "Keyword campaign optimizer",
	Long: `Optimizer compares three consecutive keyword performance exports from an
ads console and labels every keyword and match type with an action for the
most recent period.

Examples:
  optimizer analyze week1.csv week2.csv week3.csv
  optimizer analyze w1.csv w2.csv w3.csv --mode advice --output-format console
  optimizer analyze w1.xlsx w2.xlsx w3.xlsx --output-format xlsx --session-name "Spring push"
  optimizer listing --title "Bamboo Shoe Rack" --new-keywords "shoe shelf,boot tray"`,
	Version:           getVersionString(),
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (optional)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", string(logger.WarnLevel), "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", string(logger.TextFormat), "log format: text, json")

	// Bind flags to viper
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log-format", rootCmd.PersistentFlags().Lookup("log-format"))
}

// initConfig reads in config file and ENV variables.
func initConfig() {
	configErr = nil

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)

		if err := viper.ReadInConfig(); err != nil {
			configErr = errors.ConfigurationError(errors.CodeInvalidConfig, "config", cfgFile, err).
				WithSuggestion("check that the config file exists and is valid YAML, JSON or TOML")
			return
		}
	}

	// OPTIMIZER_OUTPUT_FORMAT, OPTIMIZER_THRESHOLDS_LOW_CTR, ...
	viper.SetEnvPrefix("OPTIMIZER")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()
}

// setupLogging installs the global logger once flags and config are read
func setupLogging(cmd *cobra.Command, args []string) error {
	if configErr != nil {
		return configErr
	}

	level := logger.Level(strings.ToLower(viper.GetString("log-level")))
	if viper.GetBool("verbose") && !cmd.Flags().Changed("log-level") && level == logger.WarnLevel {
		level = logger.InfoLevel
	}

	log, err := logger.NewLogger(&logger.Config{
		Level:  level,
		Format: logger.Format(strings.ToLower(viper.GetString("log-format"))),
		Output: logger.StderrOutput,
	})
	if err != nil {
		return errors.ConfigurationError(errors.CodeInvalidConfig, "log-level/log-format",
			fmt.Sprintf("%s/%s", viper.GetString("log-level"), viper.GetString("log-format")), err)
	}
	logger.SetGlobalLogger(log)

	if cfgFile != "" {
		log.WithField("config_file", viper.ConfigFileUsed()).Info("Using config file")
	}
	return nil
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = getVersionString()
}

func getVersionString() string {
	if version == "dev" {
		return fmt.Sprintf("%s (commit %s, built %s)", version, commit, date)
	}
	return version
}
