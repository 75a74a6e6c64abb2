package logger

import (
	"fmt"
	"time"
)

// StageStats records the outcome of one pipeline stage
type StageStats struct {
	Name     string        `json:"name" yaml:"name"`
	Rows     int           `json:"rows" yaml:"rows"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// String returns a human-readable representation of the stage
func (s StageStats) String() string {
	return fmt.Sprintf("%s: %d rows in %v", s.Name, s.Rows, s.Duration)
}

// StageTracker times the stages of a single run and logs each one as it
// finishes. It is not safe for concurrent use; a run owns its tracker.
type StageTracker struct {
	logger    Logger
	operation string
	startTime time.Time
	current   string
	stageAt   time.Time
	stages    []StageStats
	now       func() time.Time
}

// NewStageTracker creates a tracker and logs the start of the operation
func NewStageTracker(operation string, logger Logger) *StageTracker {
	if logger == nil {
		logger = GetGlobalLogger()
	}

	tracker := &StageTracker{
		logger:    logger.WithComponent("stages"),
		operation: operation,
		now:       time.Now,
	}
	tracker.startTime = tracker.now()

	tracker.logger.WithField("operation", operation).Debug("Starting operation")
	return tracker
}

// Start begins timing the named stage
func (t *StageTracker) Start(stage string) {
	t.current = stage
	t.stageAt = t.now()
}

// Done closes the current stage, recording how many rows it produced
func (t *StageTracker) Done(rows int) StageStats {
	stats := StageStats{
		Name:     t.current,
		Rows:     rows,
		Duration: t.now().Sub(t.stageAt),
	}
	t.stages = append(t.stages, stats)

	t.logger.WithFields(Fields{
		"operation": t.operation,
		"stage":     stats.Name,
		"rows":      stats.Rows,
		"duration":  stats.Duration.String(),
	}).Debug("Stage completed")

	t.current = ""
	return stats
}

// Stages returns the stages completed so far
func (t *StageTracker) Stages() []StageStats {
	out := make([]StageStats, len(t.stages))
	copy(out, t.stages)
	return out
}

// Complete logs the total duration of the operation
func (t *StageTracker) Complete() time.Duration {
	total := t.now().Sub(t.startTime)

	t.logger.WithFields(Fields{
		"operation": t.operation,
		"stages":    len(t.stages),
		"duration":  total.String(),
	}).Info("Operation completed")

	return total
}

// CompleteWithError logs the failure along with the stage that was running
func (t *StageTracker) CompleteWithError(err error) {
	fields := Fields{
		"operation": t.operation,
		"duration":  t.now().Sub(t.startTime).String(),
	}
	if t.current != "" {
		fields["stage"] = t.current
	}

	t.logger.WithError(err).WithFields(fields).Error("Operation failed")
}
