package reporter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang-ads-optimizer/internal/pipeline"
	"golang-ads-optimizer/pkg/errors"
	"golang-ads-optimizer/pkg/logger"
)

// SafeReportGenerator wraps ReportGenerator with typed errors and logging
type SafeReportGenerator struct {
	*ReportGenerator
	logger logger.Logger
}

// NewSafeReportGenerator creates a new safe report generator
func NewSafeReportGenerator(config *ReportConfig, log logger.Logger) (*SafeReportGenerator, error) {
	if log == nil {
		log = logger.GetGlobalLogger()
	}

	generator, err := NewReportGenerator(config)
	if err != nil {
		format := ""
		if config != nil {
			format = string(config.Format)
		}
		return nil, errors.ConfigurationError(errors.CodeInvalidConfig, "output-format", format, err).
			WithSuggestion("use one of csv, json, yaml, xlsx or console")
	}

	return &SafeReportGenerator{
		ReportGenerator: generator,
		logger:          log.WithComponent("reporter"),
	}, nil
}

// Write renders the report to writer
func (srg *SafeReportGenerator) Write(result *pipeline.Result, writer io.Writer) error {
	srg.logger.WithFields(logger.Fields{
		"format": srg.config.Format,
		"output": getWriterDescription(writer),
	}).Debug("Starting report generation")

	if err := srg.GenerateReport(result, writer); err != nil {
		srg.logger.WithError(err).Error("Report generation failed")
		return srg.wrapGenerationError(err)
	}

	srg.logger.Debug("Report generation completed")
	return nil
}

// WriteFile renders the report into a temporary file next to path and
// renames it into place, so a failed run never leaves a partial report.
func (srg *SafeReportGenerator) WriteFile(result *pipeline.Result, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return srg.fileError(path, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return srg.fileError(path, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	// CreateTemp opens the file owner-only
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return srg.fileError(path, err)
	}

	if err := srg.Write(result, tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return srg.fileError(path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return srg.fileError(path, err)
	}

	srg.logger.WithFields(logger.Fields{
		"file_path": path,
		"format":    srg.config.Format,
	}).Info("Report written")
	return nil
}

func (srg *SafeReportGenerator) fileError(path string, err error) error {
	code := errors.CodeFileCorrupted
	switch {
	case os.IsPermission(err):
		code = errors.CodeFilePermission
	case os.IsNotExist(err):
		code = errors.CodeFileNotFound
	}

	fileErr := errors.FileError(code, path, err)
	if isSpaceError(err) {
		fileErr.WithSuggestion("free disk space or write the report to another location")
	}
	srg.logger.WithError(err).WithField("file_path", path).Error("Failed to write report")
	return fileErr
}

// wrapGenerationError wraps generation errors with context
func (srg *SafeReportGenerator) wrapGenerationError(err error) error {
	if optimizerErr, ok := errors.AsOptimizerError(err); ok {
		return optimizerErr
	}

	return errors.InternalError(errors.CodeUnexpectedError, "report generation", err).
		WithSuggestion("check the output destination and report format settings")
}

func getWriterDescription(writer io.Writer) string {
	switch w := writer.(type) {
	case *os.File:
		if w.Name() != "" {
			return fmt.Sprintf("file:%s", w.Name())
		}
		return "file:unnamed"
	default:
		return fmt.Sprintf("writer:%T", writer)
	}
}

func isSpaceError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "no space left") ||
		strings.Contains(msg, "disk full") ||
		strings.Contains(msg, "device full")
}
