package schema

import (
	"golang-ads-optimizer/internal/parsers"
	"golang-ads-optimizer/pkg/errors"
	"golang-ads-optimizer/pkg/logger"
)

// Validator checks normalized tables for the canonical column set
type Validator struct {
	required []string
	logger   logger.Logger
}

// NewValidator creates a Validator requiring CanonicalColumns
func NewValidator() *Validator {
	return &Validator{
		required: CanonicalColumns,
		logger:   logger.GetGlobalLogger().WithComponent("validator"),
	}
}

// Missing returns the required columns absent from table, in canonical order
func (v *Validator) Missing(table *parsers.Table) []string {
	var missing []string
	for _, column := range v.required {
		if !table.HasColumn(column) {
			missing = append(missing, column)
		}
	}
	return missing
}

// Validate returns a validation error naming the input and every missing
// column
func (v *Validator) Validate(table *parsers.Table) error {
	missing := v.Missing(table)
	if len(missing) == 0 {
		return nil
	}

	v.logger.WithFields(logger.Fields{
		"input":             table.Label,
		"missing_columns":   missing,
		"available_columns": table.Headers,
	}).Warn("Required columns are missing")

	return errors.ValidationError(errors.CodeMissingColumn, table.Label, missing, nil).
		WithContext("available_columns", table.Headers)
}
