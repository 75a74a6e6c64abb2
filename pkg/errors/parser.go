package errors

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// CellContext locates a single offending cell in an input table
type CellContext struct {
	Input    string `json:"input"`
	File     string `json:"file,omitempty"`
	Line     int    `json:"line"`
	Column   string `json:"column"`
	Value    string `json:"value"`
	Expected string `json:"expected,omitempty"`
}

// CellError extends OptimizerError with the location of a bad cell
type CellError struct {
	*OptimizerError
	Cell     *CellContext `json:"cell"`
	Examples []string     `json:"examples,omitempty"`
}

// Error implements the error interface with location information appended
func (e *CellError) Error() string {
	parts := []string{e.OptimizerError.Error()}

	if e.Cell != nil && e.Cell.File != "" {
		location := fmt.Sprintf("at %s", filepath.Base(e.Cell.File))
		if e.Cell.Line > 0 {
			location += fmt.Sprintf(":%d", e.Cell.Line)
		}
		parts = append(parts, location)
	}

	return strings.Join(parts, " ")
}

// As exposes the embedded OptimizerError to errors.As.
func (e *CellError) As(target interface{}) bool {
	if t, ok := target.(**OptimizerError); ok {
		*t = e.OptimizerError
		return true
	}
	return false
}

// GetDetailedError returns a detailed multi-line error description
func (e *CellError) GetDetailedError() string {
	var lines []string

	lines = append(lines, fmt.Sprintf("ERROR: %s", e.Message))

	if e.Cell != nil {
		if e.Cell.File != "" {
			lines = append(lines, fmt.Sprintf("  → File: %s", e.Cell.File))
		}
		if e.Cell.Line > 0 {
			lines = append(lines, fmt.Sprintf("  → Line: %d", e.Cell.Line))
		}
		if e.Cell.Column != "" {
			lines = append(lines, fmt.Sprintf("  → Column: %s", e.Cell.Column))
		}
		lines = append(lines, fmt.Sprintf("  → Value: '%s'", e.Cell.Value))
		if e.Cell.Expected != "" {
			lines = append(lines, fmt.Sprintf("  → Expected: %s", e.Cell.Expected))
		}
	}

	if e.Suggestion != "" {
		lines = append(lines, fmt.Sprintf("  → Suggestion: %s", e.Suggestion))
	}

	if len(e.Examples) > 0 {
		lines = append(lines, "  → Examples:")
		for _, example := range e.Examples {
			lines = append(lines, fmt.Sprintf("    • %s", example))
		}
	}

	return strings.Join(lines, "\n")
}

// NewCellError creates a new cell error; cause may be nil
func NewCellError(category ErrorCategory, code ErrorCode, cell *CellContext, message string, cause error) *CellError {
	baseError := newOrWrap(cause, category, code, message)

	if cell != nil {
		baseError.WithContext("input", cell.Input).
			WithContext("line", cell.Line).
			WithContext("column", cell.Column).
			WithContext("value", cell.Value)
		if cell.File != "" {
			baseError.WithContext("file", cell.File)
		}
	}

	return &CellError{
		OptimizerError: baseError,
		Cell:           cell,
	}
}

// WithExamples adds example values to help fix the error
func (e *CellError) WithExamples(examples ...string) *CellError {
	e.Examples = examples
	return e
}

// WithSuggestion adds a suggestion and returns the CellError
func (e *CellError) WithSuggestion(suggestion string) *CellError {
	e.OptimizerError.WithSuggestion(suggestion)
	return e
}

// InvalidNumberError reports a metric cell that is not a number
func InvalidNumberError(cell *CellContext, cause error) *CellError {
	cell.Expected = "non-negative number"
	message := fmt.Sprintf("invalid number in '%s' at line %d, column '%s': '%s'",
		cell.Input, cell.Line, cell.Column, cell.Value)

	return NewCellError(CategoryParse, CodeInvalidNumber, cell, message, cause).
		WithExamples("1250", "12.34", "1,234.50").
		WithSuggestion("Remove text from metric cells; currency symbols and thousands separators are accepted")
}

// NegativeValueError reports a metric cell holding a negative number
func NegativeValueError(cell *CellContext) *CellError {
	cell.Expected = "non-negative number"
	message := fmt.Sprintf("negative value in '%s' at line %d, column '%s': '%s'",
		cell.Input, cell.Line, cell.Column, cell.Value)

	return NewCellError(CategoryValidation, CodeOutOfRange, cell, message, nil).
		WithSuggestion("Impressions, clicks, spend, sales and orders cannot be negative")
}

// AsCellError extracts a CellError from an error chain
func AsCellError(err error) (*CellError, bool) {
	var cellErr *CellError
	if errors.As(err, &cellErr) {
		return cellErr, true
	}
	return nil, false
}
