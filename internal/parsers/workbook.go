package parsers

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"golang-ads-optimizer/pkg/errors"
)

// loadXLSX reads the configured sheet, or the first one, of a workbook.
// Spreadsheet rows are 1-based, so row i of the sheet is line i.
func (l *Loader) loadXLSX(ctx context.Context, input Input) (*Table, error) {
	f, err := excelize.OpenFile(input.Path)
	if err != nil {
		return nil, errors.FileError(errors.CodeFileCorrupted, input.Path, err)
	}
	defer f.Close()

	sheet := l.config.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, emptyInputError(input)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.ParseError(errors.CodeInvalidFormat, input.Label, 0, "", sheet,
			fmt.Errorf("reading sheet %q: %w", sheet, err)).
			WithContext("file_path", input.Path)
	}
	if ctx.Err() != nil {
		return nil, cancelledError(ctx, input)
	}
	if len(rows) == 0 {
		return nil, emptyInputError(input)
	}

	lines := make([]int, len(rows)-1)
	for i := range lines {
		lines[i] = i + 2
	}
	return l.newTable(input, rows[0], rows[1:], lines), nil
}
