package reporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"golang-ads-optimizer/internal/classifier"
	"golang-ads-optimizer/internal/models"
	"golang-ads-optimizer/internal/pipeline"
)

// generateCSVReport writes the wide table
func (rg *ReportGenerator) generateCSVReport(result *pipeline.Result, rows []*models.WideRecord, writer io.Writer) error {
	csvWriter := csv.NewWriter(writer)
	csvWriter.Comma = rg.config.CSVDelimiter

	if rg.config.CSVHeaders {
		if err := csvWriter.Write(result.Header()); err != nil {
			return fmt.Errorf("failed to write CSV headers: %w", err)
		}
	}
	for _, row := range rows {
		if err := csvWriter.Write(tableRow(row)); err != nil {
			return fmt.Errorf("failed to write row for %q: %w", row.Keyword, err)
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// document is the JSON and YAML shape of a report
type document struct {
	Session string                   `json:"session" yaml:"session"`
	Mode    classifier.Mode          `json:"mode" yaml:"mode"`
	Periods []models.Period          `json:"periods" yaml:"periods"`
	Inputs  []pipeline.InputSummary  `json:"inputs" yaml:"inputs"`
	Summary []labelCount             `json:"summary" yaml:"summary"`
	Columns []string                 `json:"columns" yaml:"columns"`
	Rows    []map[string]interface{} `json:"rows" yaml:"rows"`
}

func (rg *ReportGenerator) buildDocument(result *pipeline.Result, rows []*models.WideRecord) *document {
	header := result.Header()
	doc := &document{
		Session: rg.config.SessionName,
		Mode:    result.Mode,
		Periods: result.Periods[:],
		Inputs:  result.Inputs,
		Summary: countLabels(result.Labels, rows),
		Columns: header,
		Rows:    make([]map[string]interface{}, 0, len(rows)),
	}

	for _, row := range rows {
		cells := row.Cells()
		record := make(map[string]interface{}, len(header))
		record[header[0]] = row.Keyword
		record[header[1]] = row.MatchType
		for i, v := range cells {
			record[header[i+2]] = v
		}
		record[header[len(header)-1]] = row.Decision.Label
		doc.Rows = append(doc.Rows, record)
	}
	return doc
}

// generateJSONReport writes the table with run metadata
func (rg *ReportGenerator) generateJSONReport(result *pipeline.Result, rows []*models.WideRecord, writer io.Writer) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(rg.buildDocument(result, rows))
}

// generateYAMLReport writes the same document as the JSON report
func (rg *ReportGenerator) generateYAMLReport(result *pipeline.Result, rows []*models.WideRecord, writer io.Writer) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(rg.buildDocument(result, rows)); err != nil {
		return fmt.Errorf("failed to encode YAML report: %w", err)
	}
	return encoder.Close()
}

const (
	recommendationsSheet = "Recommendations"
	inputsSheet          = "Inputs"
)

// generateXLSXReport writes a workbook with the wide table and the inputs
func (rg *ReportGenerator) generateXLSXReport(result *pipeline.Result, rows []*models.WideRecord, writer io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", recommendationsSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := result.Header()
	if err := writeSheetRow(f, recommendationsSheet, 1, toInterfaces(header)); err != nil {
		return err
	}
	for r, row := range rows {
		cells := make([]interface{}, 0, len(header))
		cells = append(cells, row.Keyword, row.MatchType)
		for _, v := range row.Cells() {
			if n, ok := v.Float64(); ok {
				cells = append(cells, n)
			} else {
				cells = append(cells, nil)
			}
		}
		cells = append(cells, row.Decision.Label)
		if err := writeSheetRow(f, recommendationsSheet, r+2, cells); err != nil {
			return err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := f.SetCellStyle(recommendationsSheet, "A1", last, bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	if _, err := f.NewSheet(inputsSheet); err != nil {
		return fmt.Errorf("failed to add inputs sheet: %w", err)
	}
	if err := writeSheetRow(f, inputsSheet, 1, []interface{}{"Input", "Period", "File", "Rows", "Currency"}); err != nil {
		return err
	}
	for i, input := range result.Inputs {
		cells := []interface{}{input.Label, string(input.Period), input.Path, input.Rows, string(input.Currency)}
		if err := writeSheetRow(f, inputsSheet, i+2, cells); err != nil {
			return err
		}
	}

	if err := f.Write(writer); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// writeSheetRow writes cells left to right starting at column A; nil cells
// are left empty
func writeSheetRow(f *excelize.File, sheet string, rowIdx int, cells []interface{}) error {
	for c, v := range cells {
		if v == nil {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(c+1, rowIdx)
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("failed to write cell %s: %w", cell, err)
		}
	}
	return nil
}

func toInterfaces(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
