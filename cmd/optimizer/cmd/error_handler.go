package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/viper"

	"golang-ads-optimizer/pkg/errors"
	"golang-ads-optimizer/pkg/logger"
)

// CLIErrorHandler provides user-friendly error handling for CLI operations
type CLIErrorHandler struct {
	logger  logger.Logger
	out     io.Writer
	verbose bool
}

// NewCLIErrorHandler creates a new CLI error handler writing to stderr
func NewCLIErrorHandler() *CLIErrorHandler {
	return NewCLIErrorHandlerWithWriter(os.Stderr, viper.GetBool("verbose"))
}

// NewCLIErrorHandlerWithWriter creates a CLI error handler writing to out
func NewCLIErrorHandlerWithWriter(out io.Writer, verbose bool) *CLIErrorHandler {
	return &CLIErrorHandler{
		logger:  logger.GetGlobalLogger().WithComponent("cli"),
		out:     out,
		verbose: verbose,
	}
}

// HandleError prints err and returns the process exit code
func (h *CLIErrorHandler) HandleError(err error) int {
	if err == nil {
		return 0
	}

	h.logger.WithError(err).Debug("Command failed")

	if cellErr, ok := errors.AsCellError(err); ok {
		fmt.Fprintln(h.out, cellErr.GetDetailedError())
		fmt.Fprintf(h.out, "\n%s\n", h.getCategoryHelp(cellErr.Category))
		return cellErr.GetExitCode()
	}

	if optimizerErr, ok := errors.AsOptimizerError(err); ok {
		return h.handleOptimizerError(optimizerErr)
	}

	return h.handleGenericError(err)
}

// handleOptimizerError prints message, context, suggestion and category help
func (h *CLIErrorHandler) handleOptimizerError(err *errors.OptimizerError) int {
	fmt.Fprintf(h.out, "Error: %s\n", err.Message)

	if len(err.Context) > 0 {
		fmt.Fprintf(h.out, "\nContext:\n")
		for _, key := range err.ContextKeys() {
			fmt.Fprintf(h.out, "  %s: %v\n", key, err.Context[key])
		}
	}

	if err.Suggestion != "" {
		fmt.Fprintf(h.out, "\nSuggestion: %s\n", err.Suggestion)
	}

	fmt.Fprintf(h.out, "\n%s\n", h.getCategoryHelp(err.Category))

	if h.verbose && err.Cause != nil {
		fmt.Fprintf(h.out, "\nUnderlying error: %v\n", err.Cause)
	}

	return err.GetExitCode()
}

// handleGenericError handles errors that did not come from the optimizer,
// such as flag parsing errors from cobra
func (h *CLIErrorHandler) handleGenericError(err error) int {
	if h.isFileNotFoundError(err) {
		fmt.Fprintf(h.out, "Error: File not found\n")
		fmt.Fprintf(h.out, "Suggestion: Check if the file path is correct and the file exists\n")
		return 2
	}

	if h.isPermissionError(err) {
		fmt.Fprintf(h.out, "Error: Permission denied\n")
		fmt.Fprintf(h.out, "Suggestion: Check file permissions and ensure you have read access\n")
		return 2
	}

	if h.isDiskFullError(err) {
		fmt.Fprintf(h.out, "Error: Insufficient disk space\n")
		fmt.Fprintf(h.out, "Suggestion: Free up disk space and try again\n")
		return 2
	}

	fmt.Fprintf(h.out, "Error: %v\n", err)
	fmt.Fprintf(h.out, "Run 'optimizer --help' for usage.\n")
	return 1
}

// getCategoryHelp returns category-specific help text
func (h *CLIErrorHandler) getCategoryHelp(category errors.ErrorCategory) string {
	switch category {
	case errors.CategoryFile:
		return `File error help:
• Check that each export exists and is readable
• Exports must be .csv, .tsv, .txt or .xlsx files
• Check that the output directory is writable`

	case errors.CategoryParse:
		return `Parse error help:
• Metric cells must hold non-negative numbers
• Currency symbols and thousands separators such as 1,234.50 are accepted
• Use --delimiter if the export is not comma separated`

	case errors.CategorySchema:
		return `Schema error help:
• Spend, Sales and CPC may be unqualified or end in (EUR) or (USD)
• All qualified columns of one export must use the same currency
• Each column may appear only once`

	case errors.CategoryValidation:
		return `Validation error help:
• Every export needs Keyword, Match type, Impressions, Clicks, Spend,
  Sales, Orders, CTR, CPC, ACOS and ROAS columns
• Counters and money values cannot be negative`

	case errors.CategoryConfiguration:
		return `Configuration error help:
• Check your command-line flags and arguments
• Verify configuration file syntax if using --config
• Use 'optimizer analyze --help' to see all available options`

	default:
		return `For more help:
• Use 'optimizer --help' for general help
• Use 'optimizer analyze --help' for command-specific help
• Run again with --verbose --log-level debug for details`
	}
}

// Error detection helpers

func (h *CLIErrorHandler) isFileNotFoundError(err error) bool {
	return os.IsNotExist(err) || strings.Contains(err.Error(), "no such file or directory")
}

func (h *CLIErrorHandler) isPermissionError(err error) bool {
	return os.IsPermission(err) ||
		strings.Contains(err.Error(), "permission denied") ||
		strings.Contains(err.Error(), "access denied")
}

func (h *CLIErrorHandler) isDiskFullError(err error) bool {
	if err == syscall.ENOSPC {
		return true
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "no space left") ||
		strings.Contains(errStr, "disk full") ||
		strings.Contains(errStr, "device full")
}
