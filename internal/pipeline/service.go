// Package pipeline turns three period exports into classified keyword rows.
//
// A run loads the three exports, normalizes and validates all of them, and
// only then tags, aggregates, derives ratios, pivots, computes deltas and
// classifies. Each stage returns a new value; nothing is kept between runs.
//
// Example usage:
//
//	service, err := pipeline.NewService(pipeline.DefaultConfig())
//	result, err := service.Run(ctx, &pipeline.Request{
//		Inputs: []parsers.Input{
//			{Label: "Date 1", Path: "week1.csv"},
//			{Label: "Date 2", Path: "week2.csv"},
//			{Label: "Date 3", Path: "week3.csv"},
//		},
//	})
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"golang-ads-optimizer/internal/classifier"
	"golang-ads-optimizer/internal/models"
	"golang-ads-optimizer/internal/parsers"
	"golang-ads-optimizer/internal/schema"
	"golang-ads-optimizer/pkg/errors"
	"golang-ads-optimizer/pkg/logger"
)

// Config holds configuration options for the pipeline service
type Config struct {
	Periods    models.PeriodSet
	Mode       classifier.Mode
	Thresholds *classifier.Thresholds
	Loader     *parsers.Config
}

// DefaultConfig returns a default configuration for the pipeline service
func DefaultConfig() *Config {
	return &Config{
		Periods:    models.DefaultPeriods(),
		Mode:       classifier.ModeRecommendation,
		Thresholds: classifier.DefaultThresholds(),
		Loader:     parsers.DefaultConfig(),
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Periods.Validate(); err != nil {
		return fmt.Errorf("invalid period labels: %w", err)
	}
	if _, err := classifier.ParseMode(string(c.Mode)); err != nil {
		return err
	}
	if c.Thresholds != nil {
		if err := c.Thresholds.Validate(); err != nil {
			return err
		}
	}
	if c.Loader != nil {
		if err := c.Loader.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Request names the three exports, earliest first
type Request struct {
	Inputs []parsers.Input
}

// NewRequest builds a request from paths, earliest first, labelling them
// "Date 1", "Date 2", ...
func NewRequest(paths ...string) *Request {
	req := &Request{}
	for i, path := range paths {
		req.Inputs = append(req.Inputs, parsers.Input{Label: fmt.Sprintf("Date %d", i+1), Path: path})
	}
	return req
}

// Validate validates the request
func (r *Request) Validate(periods models.PeriodSet) error {
	if len(r.Inputs) != len(periods) {
		return fmt.Errorf("exactly %d exports are required, got %d", len(periods), len(r.Inputs))
	}
	for i, input := range r.Inputs {
		if input.Path == "" {
			return fmt.Errorf("export %d has no path", i+1)
		}
	}
	return nil
}

// InputSummary describes one loaded export
type InputSummary struct {
	Label    string          `json:"label" yaml:"label"`
	Path     string          `json:"path" yaml:"path"`
	Period   models.Period   `json:"period" yaml:"period"`
	Rows     int             `json:"rows" yaml:"rows"`
	Currency models.Currency `json:"currency" yaml:"currency"`
}

// Result is the output of one run
type Result struct {
	RunID    string               `json:"-" yaml:"-"`
	Periods  models.PeriodSet     `json:"periods" yaml:"periods"`
	Mode     classifier.Mode      `json:"mode" yaml:"mode"`
	Column   string               `json:"column" yaml:"column"`
	Labels   []string             `json:"-" yaml:"-"`
	Inputs   []InputSummary       `json:"inputs" yaml:"inputs"`
	Rows     []*models.WideRecord `json:"-" yaml:"-"`
	Stages   []logger.StageStats  `json:"-" yaml:"-"`
	Skipped  int                  `json:"skipped_rows" yaml:"skipped_rows"`
	Duration time.Duration        `json:"-" yaml:"-"`
}

// Header returns the output column names
func (r *Result) Header() []string {
	return models.Header(r.Periods, r.Column)
}

// Service runs the pipeline. It holds only immutable configuration and is
// safe to reuse across runs.
type Service struct {
	config     *Config
	loader     *parsers.Loader
	normalizer *schema.Normalizer
	validator  *schema.Validator
	classifier classifier.Classifier
	logger     logger.Logger
}

// NewService creates a Service; a nil config uses DefaultConfig
func NewService(config *Config) (*Service, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, errors.ConfigurationError(errors.CodeInvalidConfig, "pipeline", config.Mode, err)
	}

	loader, err := parsers.NewLoader(config.Loader)
	if err != nil {
		return nil, err
	}

	c, err := classifier.New(config.Mode, config.Thresholds)
	if err != nil {
		return nil, errors.ConfigurationError(errors.CodeInvalidConfig, "mode", config.Mode, err)
	}

	log := logger.GetGlobalLogger().WithComponent("pipeline")
	log.WithFields(logger.Fields{
		"mode":    config.Mode,
		"periods": config.Periods,
	}).Debug("Created pipeline service")

	return &Service{
		config:     config,
		loader:     loader,
		normalizer: schema.NewNormalizer(),
		validator:  schema.NewValidator(),
		classifier: c,
		logger:     log,
	}, nil
}

// Classifier returns the classifier selected by the configuration
func (s *Service) Classifier() classifier.Classifier {
	return s.classifier
}

// Run loads the three exports in req and processes them
func (s *Service) Run(ctx context.Context, req *Request) (*Result, error) {
	if req == nil {
		return nil, errors.ConfigurationError(errors.CodeMissingConfig, "inputs", nil, nil)
	}
	if err := req.Validate(s.config.Periods); err != nil {
		return nil, errors.ConfigurationError(errors.CodeInvalidConfig, "inputs", len(req.Inputs), err)
	}

	runID := uuid.NewString()
	log := s.logger.WithField("run_id", runID)
	tracker := logger.NewStageTracker("optimize", log)

	tracker.Start("load")
	tables, err := s.loader.LoadAll(ctx, req.Inputs)
	if err != nil {
		tracker.CompleteWithError(err)
		return nil, err
	}
	tracker.Done(countRows(tables))

	result, err := s.process(ctx, tables, tracker, log)
	if err != nil {
		tracker.CompleteWithError(err)
		return nil, err
	}
	result.RunID = runID
	result.Duration = tracker.Complete()
	result.Stages = tracker.Stages()
	return result, nil
}

// RunTables processes tables that are already loaded, earliest first
func (s *Service) RunTables(ctx context.Context, tables []*parsers.Table) (*Result, error) {
	if len(tables) != len(s.config.Periods) {
		return nil, errors.ConfigurationError(errors.CodeInvalidConfig, "inputs", len(tables),
			fmt.Errorf("exactly %d tables are required", len(s.config.Periods)))
	}

	runID := uuid.NewString()
	log := s.logger.WithField("run_id", runID)
	tracker := logger.NewStageTracker("optimize", log)

	result, err := s.process(ctx, tables, tracker, log)
	if err != nil {
		tracker.CompleteWithError(err)
		return nil, err
	}
	result.RunID = runID
	result.Duration = tracker.Complete()
	result.Stages = tracker.Stages()
	return result, nil
}

func (s *Service) process(ctx context.Context, tables []*parsers.Table, tracker *logger.StageTracker, log logger.Logger) (*Result, error) {
	periods := s.config.Periods
	result := &Result{
		Periods: periods,
		Mode:    s.classifier.Mode(),
		Column:  s.classifier.Column(),
		Labels:  s.classifier.Labels(),
	}

	// every input must pass before any aggregation starts
	tracker.Start("normalize")
	normalized := make([]*parsers.Table, len(tables))
	for i, table := range tables {
		n, currency, err := s.normalizer.Normalize(table)
		if err != nil {
			return nil, err
		}
		if err := s.validator.Validate(n); err != nil {
			return nil, err
		}
		normalized[i] = n
		result.Inputs = append(result.Inputs, InputSummary{
			Label:    table.Label,
			Path:     table.Path,
			Period:   periods[i],
			Rows:     len(table.Rows),
			Currency: currency,
		})
	}
	tracker.Done(countRows(normalized))

	if err := checkCancelled(ctx, "normalization"); err != nil {
		return nil, err
	}

	tracker.Start("tag")
	records, skipped, err := TagAndCombine(ctx, normalized, periods)
	if err != nil {
		return nil, err
	}
	result.Skipped = skipped
	if skipped > 0 {
		log.WithField("skipped_rows", skipped).Warn("Skipped rows without keyword or match type")
	}
	tracker.Done(len(records))

	if err := checkCancelled(ctx, "aggregation"); err != nil {
		return nil, err
	}

	tracker.Start("aggregate")
	aggregates := Derive(Aggregate(records, periods))
	tracker.Done(len(aggregates))

	tracker.Start("pivot")
	rows := Pivot(aggregates, periods)
	tracker.Done(len(rows))

	if err := checkCancelled(ctx, "delta computation"); err != nil {
		return nil, err
	}

	tracker.Start("deltas")
	rows = ComputeDeltas(rows)
	tracker.Done(len(rows))

	tracker.Start("classify")
	rows = Classify(rows, s.classifier)
	tracker.Done(len(rows))

	for _, row := range rows {
		log.WithFields(logger.Fields{
			"keyword":    row.Keyword,
			"match_type": row.MatchType,
			"label":      row.Decision.Label,
			"rule":       row.Decision.Rule,
		}).Debug("Classified keyword")
	}

	result.Rows = rows
	return result, nil
}

func checkCancelled(ctx context.Context, operation string) error {
	if err := ctx.Err(); err != nil {
		return errors.InternalError(errors.CodeCancelled, operation, err)
	}
	return nil
}

func countRows(tables []*parsers.Table) int {
	total := 0
	for _, t := range tables {
		total += len(t.Rows)
	}
	return total
}
