// Package classifier assigns each keyword row exactly one outcome from an
// ordered rule table. The first rule whose condition holds wins.
package classifier

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"golang-ads-optimizer/internal/models"
)

// Mode selects the rule table
type Mode string

const (
	ModeRecommendation Mode = "recommendation"
	ModeAdvice         Mode = "advice"
)

// ParseMode parses a mode name
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeRecommendation:
		return ModeRecommendation, nil
	case ModeAdvice:
		return ModeAdvice, nil
	default:
		return "", fmt.Errorf("unknown mode %q: must be %s or %s", s, ModeRecommendation, ModeAdvice)
	}
}

// Classifier maps a wide record to a decision
type Classifier interface {
	// Mode identifies the rule table
	Mode() Mode
	// Column is the output column the decision label is written to
	Column() string
	// Classify evaluates the rules against the most recent period
	Classify(w *models.WideRecord) models.Decision
	// Labels lists every label the classifier can emit, in rule order
	Labels() []string
}

// Rule is one row of a decision table
type Rule struct {
	Name  string
	Label string
	When  func(w *models.WideRecord) bool
}

// table is a first-match decision table with a fallback
type table struct {
	mode     Mode
	column   string
	rules    []Rule
	fallback Rule
}

func (t *table) Mode() Mode {
	return t.mode
}

func (t *table) Column() string {
	return t.column
}

func (t *table) Classify(w *models.WideRecord) models.Decision {
	for _, rule := range t.rules {
		if rule.When(w) {
			return models.Decision{Label: rule.Label, Rule: rule.Name}
		}
	}
	return models.Decision{Label: t.fallback.Label, Rule: t.fallback.Name}
}

func (t *table) Labels() []string {
	labels := make([]string, 0, len(t.rules)+1)
	for _, rule := range t.rules {
		labels = append(labels, rule.Label)
	}
	return append(labels, t.fallback.Label)
}

// New builds the classifier for mode. A nil thresholds uses the defaults.
func New(mode Mode, thresholds *Thresholds) (Classifier, error) {
	if thresholds == nil {
		thresholds = DefaultThresholds()
	}
	if err := thresholds.Validate(); err != nil {
		return nil, err
	}

	switch mode {
	case ModeRecommendation:
		return NewRecommendation(thresholds), nil
	case ModeAdvice:
		return NewAdvice(thresholds), nil
	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}
}

// recent reads metric m of the most recent period
func recent(w *models.WideRecord, m models.Metric) models.Value {
	return w.Recent(m)
}

// deltaVsPrevious reads the change of m against the period before the most
// recent one
func deltaVsPrevious(w *models.WideRecord, m models.Metric) models.Value {
	return w.Delta(m, w.Periods.Previous())
}

var zero = decimal.Zero
