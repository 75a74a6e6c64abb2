package models

import (
	"fmt"
	"strings"
)

// Period identifies one of the three comparison windows
type Period string

const (
	Period1 Period = "period1"
	Period2 Period = "period2"
	Period3 Period = "period3"
)

// String returns the string representation of Period
func (p Period) String() string {
	return string(p)
}

// PeriodSet names the three periods from earliest to most recent. The names
// appear verbatim in output column names.
type PeriodSet [3]Period

// DefaultPeriods returns period1, period2, period3
func DefaultPeriods() PeriodSet {
	return PeriodSet{Period1, Period2, Period3}
}

// NewPeriodSet builds a set from three labels, earliest first
func NewPeriodSet(labels []string) (PeriodSet, error) {
	var set PeriodSet
	if len(labels) != len(set) {
		return set, fmt.Errorf("exactly %d period labels are required, got %d", len(set), len(labels))
	}
	for i, label := range labels {
		set[i] = Period(strings.TrimSpace(label))
	}
	return set, set.Validate()
}

// Validate checks the labels are non-empty, distinct and usable in column names
func (s PeriodSet) Validate() error {
	seen := make(map[Period]bool, len(s))
	for i, p := range s {
		if p == "" {
			return fmt.Errorf("period %d has an empty label", i+1)
		}
		if strings.ContainsAny(string(p), " ,\t\n") {
			return fmt.Errorf("period label %q cannot contain whitespace or commas", p)
		}
		if seen[p] {
			return fmt.Errorf("period label %q is used twice", p)
		}
		seen[p] = true
	}
	return nil
}

// Recent returns the most recent period
func (s PeriodSet) Recent() Period {
	return s[len(s)-1]
}

// Previous returns the period right before the most recent one
func (s PeriodSet) Previous() Period {
	return s[len(s)-2]
}

// Earlier returns the periods a delta compares against, nearest first
func (s PeriodSet) Earlier() []Period {
	return []Period{s[1], s[0]}
}

// Index returns the position of p, or -1
func (s PeriodSet) Index(p Period) int {
	for i, candidate := range s {
		if candidate == p {
			return i
		}
	}
	return -1
}
