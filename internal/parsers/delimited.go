package parsers

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"golang-ads-optimizer/pkg/errors"
)

func (l *Loader) loadDelimited(ctx context.Context, input Input) (*Table, error) {
	file, err := os.Open(input.Path)
	if err != nil {
		if os.IsPermission(err) {
			return nil, errors.FileError(errors.CodeFilePermission, input.Path, err)
		}
		return nil, errors.FileError(errors.CodeFileNotFound, input.Path, err)
	}
	defer file.Close()

	return l.readDelimited(ctx, input, file)
}

// readDelimited decodes UTF-8 or BOM-marked UTF-16 text and splits it into
// records
func (l *Loader) readDelimited(ctx context.Context, input Input, r io.Reader) (*Table, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	reader := csv.NewReader(decoded)
	reader.Comma = l.delimiterFor(input.Path)
	reader.TrimLeadingSpace = l.config.TrimLeadingSpace
	reader.LazyQuotes = l.config.LazyQuotes
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, emptyInputError(input)
	}
	if err != nil {
		return nil, errors.ParseError(errors.CodeInvalidFormat, input.Label, 1, "headers", "", err).
			WithContext("file_path", input.Path)
	}

	var rows [][]string
	var lines []int
	for {
		if ctx.Err() != nil {
			return nil, cancelledError(ctx, input)
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			line := 0
			if parseErr, ok := err.(*csv.ParseError); ok {
				line = parseErr.Line
			}
			return nil, errors.ParseError(errors.CodeInvalidFormat, input.Label, line, "", "", err).
				WithContext("file_path", input.Path)
		}

		line, _ := reader.FieldPos(0)
		rows = append(rows, record)
		lines = append(lines, line)
	}

	return l.newTable(input, headers, rows, lines), nil
}

func (l *Loader) delimiterFor(path string) rune {
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		return '\t'
	}
	return l.config.Delimiter
}
