package errors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// ErrorCategory represents different categories of errors
type ErrorCategory string

const (
	CategoryFile          ErrorCategory = "file"
	CategoryParse         ErrorCategory = "parse"
	CategorySchema        ErrorCategory = "schema"
	CategoryValidation    ErrorCategory = "validation"
	CategoryConfiguration ErrorCategory = "configuration"
	CategoryInternal      ErrorCategory = "internal"
)

// ErrorCode represents specific error codes within categories
type ErrorCode string

const (
	// File errors
	CodeFileNotFound    ErrorCode = "file_not_found"
	CodeFilePermission  ErrorCode = "file_permission"
	CodeFileCorrupted   ErrorCode = "file_corrupted"
	CodeUnsupportedFile ErrorCode = "unsupported_file"

	// Parse errors
	CodeInvalidFormat ErrorCode = "invalid_format"
	CodeInvalidNumber ErrorCode = "invalid_number"
	CodeEmptyInput    ErrorCode = "empty_input"

	// Schema errors
	CodeUnrecognizedCurrency ErrorCode = "unrecognized_currency"
	CodeMixedCurrency        ErrorCode = "mixed_currency"
	CodeDuplicateColumn      ErrorCode = "duplicate_column"

	// Validation errors
	CodeMissingColumn ErrorCode = "missing_column"
	CodeOutOfRange    ErrorCode = "out_of_range"

	// Configuration errors
	CodeInvalidConfig ErrorCode = "invalid_config"
	CodeMissingConfig ErrorCode = "missing_config"

	// Internal errors
	CodeUnexpectedError ErrorCode = "unexpected_error"
	CodeCancelled       ErrorCode = "cancelled"
)

// OptimizerError is the base error type for all application errors
type OptimizerError struct {
	Category   ErrorCategory     `json:"category"`
	Code       ErrorCode         `json:"code"`
	Message    string            `json:"message"`
	Suggestion string            `json:"suggestion,omitempty"`
	Context    Context           `json:"context,omitempty"`
	Cause      error             `json:"-"`
	StackTrace errors.StackTrace `json:"-"`
}

// Context provides additional information about the error
type Context map[string]interface{}

// Error implements the error interface
func (e *OptimizerError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s (suggestion: %s)", e.Message, e.Suggestion)
	}
	return e.Message
}

// Unwrap returns the underlying cause error
func (e *OptimizerError) Unwrap() error {
	return e.Cause
}

// GetExitCode returns an appropriate exit code for the error
func (e *OptimizerError) GetExitCode() int {
	switch e.Category {
	case CategoryFile:
		return 2
	case CategoryParse, CategorySchema, CategoryValidation:
		return 3
	case CategoryConfiguration:
		return 4
	case CategoryInternal:
		return 5
	default:
		return 1
	}
}

// WithContext adds context information to the error
func (e *OptimizerError) WithContext(key string, value interface{}) *OptimizerError {
	if e.Context == nil {
		e.Context = make(Context)
	}
	e.Context[key] = value
	return e
}

// WithSuggestion adds a suggestion for fixing the error
func (e *OptimizerError) WithSuggestion(suggestion string) *OptimizerError {
	e.Suggestion = suggestion
	return e
}

// ContextKeys returns the context keys in sorted order so callers can print
// context deterministically.
func (e *OptimizerError) ContextKeys() []string {
	keys := make([]string, 0, len(e.Context))
	for k := range e.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// New creates a new OptimizerError
func New(category ErrorCategory, code ErrorCode, message string) *OptimizerError {
	return &OptimizerError{
		Category:   category,
		Code:       code,
		Message:    message,
		StackTrace: errors.New("").(stackTracer).StackTrace(),
	}
}

// Wrap wraps an existing error with OptimizerError context
func Wrap(err error, category ErrorCategory, code ErrorCode, message string) *OptimizerError {
	if err == nil {
		return nil
	}

	return &OptimizerError{
		Category:   category,
		Code:       code,
		Message:    message,
		Cause:      err,
		StackTrace: errors.WithStack(err).(stackTracer).StackTrace(),
	}
}

// newOrWrap wraps err when it is set and creates a fresh error otherwise.
func newOrWrap(err error, category ErrorCategory, code ErrorCode, message string) *OptimizerError {
	if err != nil {
		return Wrap(err, category, code, message)
	}
	return New(category, code, message)
}

// stackTracer interface for extracting stack traces
type stackTracer interface {
	StackTrace() errors.StackTrace
}

// Specific error constructors

// FileError creates a file-related error
func FileError(code ErrorCode, path string, err error) *OptimizerError {
	var message string
	var suggestion string

	switch code {
	case CodeFileNotFound:
		message = fmt.Sprintf("file not found: %s", path)
		suggestion = "check if the file path is correct and the file exists"
	case CodeFilePermission:
		message = fmt.Sprintf("permission denied accessing file: %s", path)
		suggestion = "check file permissions and ensure you have read access"
	case CodeFileCorrupted:
		message = fmt.Sprintf("file could not be read: %s", path)
		suggestion = "re-export the report from the ad console and try again"
	case CodeUnsupportedFile:
		message = fmt.Sprintf("unsupported file type: %s", path)
		suggestion = "provide a .csv, .tsv or .xlsx export"
	default:
		message = fmt.Sprintf("file error: %s", path)
		suggestion = "check the file and try again"
	}

	return newOrWrap(err, CategoryFile, code, message).
		WithSuggestion(suggestion).
		WithContext("file_path", path)
}

// ParseError creates a parsing-related error
func ParseError(code ErrorCode, input string, line int, column string, value string, err error) *OptimizerError {
	var message string
	var suggestion string

	switch code {
	case CodeInvalidFormat:
		message = fmt.Sprintf("invalid format in %s at line %d", input, line)
		suggestion = "check that the file is a valid delimited export"
	case CodeInvalidNumber:
		message = fmt.Sprintf("invalid number in %s at line %d, column '%s': '%s'", input, line, column, value)
		suggestion = "metric cells must hold non-negative numbers such as '12.34'"
	case CodeEmptyInput:
		message = fmt.Sprintf("%s contains no header row", input)
		suggestion = "ensure the export contains a header row"
	default:
		message = fmt.Sprintf("parse error in %s at line %d", input, line)
		suggestion = "check the file format and data integrity"
	}

	return newOrWrap(err, CategoryParse, code, message).
		WithSuggestion(suggestion).
		WithContext("input", input).
		WithContext("line", line).
		WithContext("column", column).
		WithContext("value", value)
}

// SchemaError creates an error for a header layout the normalizer cannot
// map onto the canonical columns. It always aborts the run.
func SchemaError(code ErrorCode, input string, columns []string) *OptimizerError {
	var message string
	var suggestion string

	switch code {
	case CodeUnrecognizedCurrency:
		message = fmt.Sprintf("unrecognized currency qualifier in %s: %s", input, strings.Join(columns, ", "))
		suggestion = "use Spend/Sales/CPC columns without a qualifier or with a (EUR) or (USD) suffix"
	case CodeMixedCurrency:
		message = fmt.Sprintf("mixed currency qualifiers in %s: %s", input, strings.Join(columns, ", "))
		suggestion = "export Spend, Sales and CPC in the same currency"
	case CodeDuplicateColumn:
		message = fmt.Sprintf("duplicate columns after normalization in %s: %s", input, strings.Join(columns, ", "))
		suggestion = "remove the duplicated column from the export"
	default:
		message = fmt.Sprintf("schema error in %s", input)
		suggestion = "check the column headers"
	}

	return New(CategorySchema, code, message).
		WithSuggestion(suggestion).
		WithContext("input", input).
		WithContext("columns", columns)
}

// ValidationError creates a validation-related error
func ValidationError(code ErrorCode, input string, fields []string, value interface{}) *OptimizerError {
	var message string
	var suggestion string

	switch code {
	case CodeMissingColumn:
		message = fmt.Sprintf("'%s' is missing columns: %s", input, strings.Join(fields, ", "))
		suggestion = "export the report with all standard keyword performance columns"
	case CodeOutOfRange:
		message = fmt.Sprintf("value out of range in '%s' field %s: %v", input, strings.Join(fields, ", "), value)
		suggestion = "metric values cannot be negative"
	default:
		message = fmt.Sprintf("validation error in '%s': %s", input, strings.Join(fields, ", "))
		suggestion = "check the field values"
	}

	return New(CategoryValidation, code, message).
		WithSuggestion(suggestion).
		WithContext("input", input).
		WithContext("fields", fields)
}

// ConfigurationError creates a configuration-related error
func ConfigurationError(code ErrorCode, setting string, value interface{}, err error) *OptimizerError {
	var message string
	var suggestion string

	switch code {
	case CodeInvalidConfig:
		message = fmt.Sprintf("invalid configuration for '%s': %v", setting, value)
		suggestion = "check the configuration documentation for valid values"
	case CodeMissingConfig:
		message = fmt.Sprintf("missing required configuration: %s", setting)
		suggestion = "provide this setting as a flag or in the config file"
	default:
		message = fmt.Sprintf("configuration error: %s", setting)
		suggestion = "check your configuration and try again"
	}

	return newOrWrap(err, CategoryConfiguration, code, message).
		WithSuggestion(suggestion).
		WithContext("setting", setting).
		WithContext("value", value)
}

// InternalError creates an internal error
func InternalError(code ErrorCode, operation string, err error) *OptimizerError {
	var message string
	var suggestion string

	switch code {
	case CodeUnexpectedError:
		message = fmt.Sprintf("unexpected error during %s", operation)
		suggestion = "this is likely a bug - please report it with the error details"
	case CodeCancelled:
		message = fmt.Sprintf("%s was cancelled", operation)
		suggestion = "run the command again"
	default:
		message = fmt.Sprintf("internal error during %s", operation)
		suggestion = "try again or contact support if the problem persists"
	}

	return newOrWrap(err, CategoryInternal, code, message).
		WithSuggestion(suggestion).
		WithContext("operation", operation)
}

// Utility functions

// AsOptimizerError extracts an OptimizerError from an error chain
func AsOptimizerError(err error) (*OptimizerError, bool) {
	var optimizerErr *OptimizerError
	if errors.As(err, &optimizerErr) {
		return optimizerErr, true
	}
	return nil, false
}

// IsSchemaError reports whether err carries a schema error.
func IsSchemaError(err error) bool {
	return hasCategory(err, CategorySchema)
}

// IsValidationError reports whether err carries a validation error.
func IsValidationError(err error) bool {
	return hasCategory(err, CategoryValidation)
}

func hasCategory(err error, category ErrorCategory) bool {
	optimizerErr, ok := AsOptimizerError(err)
	return ok && optimizerErr.Category == category
}

// WrapIfNeeded wraps an error if it's not already an OptimizerError
func WrapIfNeeded(err error, category ErrorCategory, code ErrorCode, message string) *OptimizerError {
	if err == nil {
		return nil
	}

	if optimizerErr, ok := AsOptimizerError(err); ok {
		return optimizerErr
	}

	return Wrap(err, category, code, message)
}
