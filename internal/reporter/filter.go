package reporter

import (
	"strings"

	"golang-ads-optimizer/internal/models"
)

// Filter keeps rows whose keyword is in Keywords and whose label is in
// Labels. An empty set does not restrict.
type Filter struct {
	Keywords []string `json:"keywords,omitempty"`
	Labels   []string `json:"labels,omitempty"`
}

// IsEmpty reports whether the filter keeps every row
func (f Filter) IsEmpty() bool {
	return len(f.Keywords) == 0 && len(f.Labels) == 0
}

// Apply returns the rows kept by the filter, in their original order
func (f Filter) Apply(rows []*models.WideRecord) []*models.WideRecord {
	if f.IsEmpty() {
		return rows
	}

	keywords := toSet(f.Keywords, false)
	labels := toSet(f.Labels, true)

	kept := make([]*models.WideRecord, 0, len(rows))
	for _, row := range rows {
		if len(keywords) > 0 && !keywords[strings.TrimSpace(row.Keyword)] {
			continue
		}
		if len(labels) > 0 && !labels[strings.ToLower(row.Decision.Label)] {
			continue
		}
		kept = append(kept, row)
	}
	return kept
}

func toSet(values []string, fold bool) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if fold {
			v = strings.ToLower(v)
		}
		set[v] = true
	}
	return set
}
