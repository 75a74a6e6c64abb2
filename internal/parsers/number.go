package parsers

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	currencySymbols   = strings.NewReplacer("€", "", "$", "", "£", "")
	thousandsGrouping = regexp.MustCompile(`^\d{1,3}(,\d{3})+(\.\d+)?$`)
	errNegative       = fmt.Errorf("value is negative")
)

// ParseMetric parses a counter or money cell. Surrounding space, currency
// symbols and comma thousands separators are accepted. An empty cell is 0.
func ParseMetric(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}

	s = strings.TrimSpace(currencySymbols.Replace(s))
	if thousandsGrouping.MatchString(s) {
		s = strings.ReplaceAll(s, ",", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal format '%s': %w", s, err)
	}
	if d.IsNegative() {
		return decimal.Zero, errNegative
	}
	return d, nil
}
