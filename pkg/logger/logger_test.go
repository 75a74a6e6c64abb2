package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name        string
		config      *Config
		expectError bool
	}{
		{"default", DefaultConfig(), false},
		{"debug", DebugConfig(), false},
		{"bad level", &Config{Level: "loud", Format: TextFormat, Output: StderrOutput}, true},
		{"bad format", &Config{Level: InfoLevel, Format: "xml", Output: StderrOutput}, true},
		{"bad output", &Config{Level: InfoLevel, Format: TextFormat, Output: "syslog"}, true},
		{"file without path", &Config{Level: InfoLevel, Format: TextFormat, Output: FileOutput}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.expectError && err == nil {
				t.Errorf("expected error but got none")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestDerivedLoggersKeepFields(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewLoggerWithWriter(&Config{Level: DebugLevel, Format: JSONFormat, Output: StderrOutput}, &buf)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	log.WithComponent("pipeline").WithField("rows", 3).Info("aggregated")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["component"] != "pipeline" {
		t.Errorf("expected component field, got %v", entry["component"])
	}
	if entry["rows"] != float64(3) {
		t.Errorf("expected rows field, got %v", entry["rows"])
	}
	if entry["msg"] != "aggregated" {
		t.Errorf("expected message, got %v", entry["msg"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewLoggerWithWriter(&Config{Level: WarnLevel, Format: TextFormat, Output: StderrOutput}, &buf)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	log.Info("hidden")
	log.Warn("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Error("expected info message to be filtered at warn level")
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Error("expected warn message to be logged")
	}
}

func TestStageTracker(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewLoggerWithWriter(&Config{Level: DebugLevel, Format: TextFormat, Output: StderrOutput}, &buf)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	tracker := NewStageTracker("analyze", log)
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tracker.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	tracker.Start("aggregate")
	stats := tracker.Done(12)

	if stats.Name != "aggregate" || stats.Rows != 12 {
		t.Errorf("unexpected stage stats: %+v", stats)
	}
	if stats.Duration != time.Second {
		t.Errorf("expected 1s duration, got %v", stats.Duration)
	}
	if len(tracker.Stages()) != 1 {
		t.Errorf("expected 1 recorded stage, got %d", len(tracker.Stages()))
	}

	tracker.Start("pivot")
	tracker.CompleteWithError(errors.New("boom"))
	if !strings.Contains(buf.String(), "stage=pivot") {
		t.Errorf("expected failing stage in log, got %q", buf.String())
	}
}
