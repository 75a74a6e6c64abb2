// Package parsers loads keyword performance exports into raw tables.
//
// Exports are read as delimited text (.csv, .tsv, .txt) or as Excel
// workbooks (.xlsx, .xlsm). Headers are trimmed and a leading byte order
// mark is dropped; fully blank rows are skipped. Cells are kept as strings
// until the pipeline parses the columns it needs with ParseMetric.
package parsers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang-ads-optimizer/pkg/errors"
	"golang-ads-optimizer/pkg/logger"
)

// Input names one export to load
type Input struct {
	Label string
	Path  string
}

// Config holds configuration for loading exports
type Config struct {
	Delimiter        rune
	Sheet            string
	TrimLeadingSpace bool
	SkipEmptyRows    bool
	LazyQuotes       bool
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Delimiter:        ',',
		TrimLeadingSpace: true,
		SkipEmptyRows:    true,
	}
}

// Validate checks that the configuration can drive a reader
func (c *Config) Validate() error {
	if c.Delimiter == 0 || c.Delimiter == utf8.RuneError {
		return fmt.Errorf("delimiter must be a valid character")
	}
	if c.Delimiter == '"' || c.Delimiter == '\r' || c.Delimiter == '\n' {
		return fmt.Errorf("delimiter %q is not allowed", c.Delimiter)
	}
	return nil
}

// Format is the container format of an export
type Format string

const (
	FormatDelimited Format = "delimited"
	FormatXLSX      Format = "xlsx"
)

// DetectFormat picks the reader for a path from its extension
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv", ".txt":
		return FormatDelimited, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	default:
		return "", errors.FileError(errors.CodeUnsupportedFile, path, nil)
	}
}

// Loader reads exports into tables
type Loader struct {
	config *Config
	logger logger.Logger
}

// NewLoader creates a Loader; a nil config uses DefaultConfig
func NewLoader(config *Config) (*Loader, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, errors.ConfigurationError(errors.CodeInvalidConfig, "delimiter", string(config.Delimiter), err)
	}

	log := logger.GetGlobalLogger().WithComponent("loader")
	log.WithFields(logger.Fields{
		"delimiter": string(config.Delimiter),
		"sheet":     config.Sheet,
	}).Debug("Created loader")

	return &Loader{config: config, logger: log}, nil
}

// Load reads one export
func (l *Loader) Load(ctx context.Context, input Input) (*Table, error) {
	format, err := DetectFormat(input.Path)
	if err != nil {
		return nil, err
	}

	if err := checkFile(input.Path); err != nil {
		return nil, err
	}

	log := l.logger.WithFields(logger.Fields{"input": input.Label, "file_path": input.Path})
	log.Debug("Loading export")

	var table *Table
	switch format {
	case FormatXLSX:
		table, err = l.loadXLSX(ctx, input)
	default:
		table, err = l.loadDelimited(ctx, input)
	}
	if err != nil {
		log.WithError(err).Debug("Failed to load export")
		return nil, err
	}

	log.WithFields(logger.Fields{
		"columns": len(table.Headers),
		"rows":    len(table.Rows),
	}).Info("Loaded export")
	return table, nil
}

// LoadAll reads every export in order and stops at the first failure
func (l *Loader) LoadAll(ctx context.Context, inputs []Input) ([]*Table, error) {
	tables := make([]*Table, 0, len(inputs))
	for _, input := range inputs {
		table, err := l.Load(ctx, input)
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return tables, nil
}

func checkFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.FileError(errors.CodeFileNotFound, path, err)
		}
		if os.IsPermission(err) {
			return errors.FileError(errors.CodeFilePermission, path, err)
		}
		return errors.FileError(errors.CodeFileCorrupted, path, err)
	}
	if info.IsDir() {
		return errors.FileError(errors.CodeUnsupportedFile, path, fmt.Errorf("path is a directory"))
	}
	return nil
}

// newTable builds a table from a header row and data rows, cleaning the
// headers and dropping blank rows. lines holds the source line of each row.
func (l *Loader) newTable(input Input, headers []string, rows [][]string, lines []int) *Table {
	table := &Table{
		Label:   input.Label,
		Path:    input.Path,
		Headers: cleanHeaders(headers),
		Rows:    make([]Row, 0, len(rows)),
	}

	for i, cells := range rows {
		if l.config.SkipEmptyRows && isEmptyRecord(cells) {
			continue
		}
		table.Rows = append(table.Rows, Row{Line: lines[i], Cells: cells})
	}
	return table
}

// cleanHeaders trims header cells and drops a leading byte order mark
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	for i, header := range headers {
		if i == 0 {
			header = strings.TrimPrefix(header, "\ufeff")
		}
		cleaned[i] = strings.TrimSpace(header)
	}
	return cleaned
}

// isEmptyRecord checks if all fields in a record are empty or whitespace
func isEmptyRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

func emptyInputError(input Input) error {
	return errors.ParseError(errors.CodeEmptyInput, input.Label, 1, "", "", nil).
		WithContext("file_path", input.Path)
}

func cancelledError(ctx context.Context, input Input) error {
	return errors.InternalError(errors.CodeCancelled, fmt.Sprintf("loading %s", input.Label), ctx.Err())
}
