package parsers

import (
	"strings"

	"github.com/shopspring/decimal"

	"golang-ads-optimizer/pkg/errors"
)

// Row is one data row of a table together with its line in the source file
type Row struct {
	Line  int
	Cells []string
}

// Table is a raw export: a header row and string cells. Label names the
// input in error messages ("Date 1", "Date 2", ...).
type Table struct {
	Label   string
	Path    string
	Headers []string
	Rows    []Row
}

// WithHeaders returns a copy of the table using headers in place of the
// current header row. Rows are shared.
func (t *Table) WithHeaders(headers []string) *Table {
	copied := make([]string, len(headers))
	copy(copied, headers)
	return &Table{
		Label:   t.Label,
		Path:    t.Path,
		Headers: copied,
		Rows:    t.Rows,
	}
}

// ColumnIndex returns the index of the column with exactly this name, or -1
func (t *Table) ColumnIndex(name string) int {
	for i, header := range t.Headers {
		if header == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the table has a column with exactly this name
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Raw returns the cell of row in the named column as read. Short rows yield
// an empty string.
func (t *Table) Raw(row Row, column string) string {
	i := t.ColumnIndex(column)
	if i < 0 || i >= len(row.Cells) {
		return ""
	}
	return row.Cells[i]
}

// Text returns the trimmed cell of row in the named column. Short rows
// yield an empty string.
func (t *Table) Text(row Row, column string) string {
	return strings.TrimSpace(t.Raw(row, column))
}

// Decimal parses the named metric cell of row. Failures are reported as
// cell errors carrying the input label, line, column and raw value.
func (t *Table) Decimal(row Row, column string) (decimal.Decimal, error) {
	raw := t.Text(row, column)

	d, err := ParseMetric(raw)
	if err == nil {
		return d, nil
	}

	cell := &errors.CellContext{
		Input:  t.Label,
		File:   t.Path,
		Line:   row.Line,
		Column: column,
		Value:  raw,
	}
	if err == errNegative {
		return decimal.Zero, errors.NegativeValueError(cell)
	}
	return decimal.Zero, errors.InvalidNumberError(cell, err)
}
