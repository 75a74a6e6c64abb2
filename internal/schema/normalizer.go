// Package schema maps export headers onto the canonical column set and
// checks that every required column is present.
package schema

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"golang-ads-optimizer/internal/models"
	"golang-ads-optimizer/internal/parsers"
	"golang-ads-optimizer/pkg/errors"
	"golang-ads-optimizer/pkg/logger"
)

// Canonical column names
const (
	ColumnKeyword     = "Keyword"
	ColumnMatchType   = "Match type"
	ColumnImpressions = "Impressions"
	ColumnClicks      = "Clicks"
	ColumnSpend       = "Spend"
	ColumnSales       = "Sales"
	ColumnOrders      = "Orders"
	ColumnCTR         = "CTR"
	ColumnCPC         = "CPC"
	ColumnACOS        = "ACOS"
	ColumnROAS        = "ROAS"
)

// CanonicalColumns is the column set every normalized input must carry
var CanonicalColumns = []string{
	ColumnKeyword,
	ColumnMatchType,
	ColumnImpressions,
	ColumnClicks,
	ColumnSpend,
	ColumnSales,
	ColumnOrders,
	ColumnCTR,
	ColumnCPC,
	ColumnACOS,
	ColumnROAS,
}

// currencyQualifiers lists the recognized header suffixes. Adding a currency
// is a single entry here.
var currencyQualifiers = map[models.Currency]string{
	models.CurrencyEUR: "(EUR)",
	models.CurrencyUSD: "(USD)",
}

// qualifiedColumns carry a currency suffix in raw exports
var qualifiedColumns = []string{ColumnSpend, ColumnSales, ColumnCPC}

// qualifiedHeader matches "Spend(EUR)" and "Spend (EUR)"
var qualifiedHeader = regexp.MustCompile(`^(.+?)\s*(\([^()]*\))$`)

// SupportedCurrencies returns the recognized currency codes in order
func SupportedCurrencies() []models.Currency {
	currencies := make([]models.Currency, 0, len(currencyQualifiers))
	for c := range currencyQualifiers {
		currencies = append(currencies, c)
	}
	sort.Slice(currencies, func(i, j int) bool { return currencies[i] < currencies[j] })
	return currencies
}

// Normalizer renames currency-qualified and differently cased headers to
// the canonical names. Values are never converted.
type Normalizer struct {
	logger logger.Logger
}

// NewNormalizer creates a Normalizer
func NewNormalizer() *Normalizer {
	return &Normalizer{logger: logger.GetGlobalLogger().WithComponent("normalizer")}
}

// header is a raw header split into its base name and qualifier
type header struct {
	raw       string
	base      string
	qualifier string
}

func splitHeader(raw string) header {
	h := header{raw: raw, base: raw}
	if m := qualifiedHeader.FindStringSubmatch(raw); m != nil {
		h.base = strings.TrimSpace(m[1])
		h.qualifier = strings.ToUpper(strings.ReplaceAll(m[2], " ", ""))
	}
	return h
}

func canonicalName(base string) (string, bool) {
	for _, name := range CanonicalColumns {
		if strings.EqualFold(base, name) {
			return name, true
		}
	}
	return "", false
}

func isQualified(name string) bool {
	for _, column := range qualifiedColumns {
		if column == name {
			return true
		}
	}
	return false
}

func currencyFor(qualifier string) (models.Currency, bool) {
	for currency, suffix := range currencyQualifiers {
		if suffix == qualifier {
			return currency, true
		}
	}
	return models.CurrencyNone, false
}

// Normalize returns a copy of table with canonical headers and the currency
// detected from its Spend column.
func (n *Normalizer) Normalize(table *parsers.Table) (*parsers.Table, models.Currency, error) {
	headers := make([]header, len(table.Headers))
	for i, raw := range table.Headers {
		headers[i] = splitHeader(raw)
	}

	currency, err := detectCurrency(table.Label, headers)
	if err != nil {
		return nil, models.CurrencyNone, err
	}

	renamed := make([]string, len(headers))
	var mixed []string
	for i, h := range headers {
		renamed[i] = h.raw

		if name, ok := canonicalName(h.base); ok && isQualified(name) && h.qualifier != "" {
			c, known := currencyFor(h.qualifier)
			if !known || c != currency {
				mixed = append(mixed, h.raw)
				continue
			}
			renamed[i] = name
			continue
		}

		if name, ok := canonicalName(h.raw); ok {
			renamed[i] = name
		}
	}
	if len(mixed) > 0 {
		return nil, models.CurrencyNone, errors.SchemaError(errors.CodeMixedCurrency, table.Label, mixed).
			WithContext("currency", string(currency))
	}

	if duplicates := findDuplicates(renamed); len(duplicates) > 0 {
		return nil, models.CurrencyNone, errors.SchemaError(errors.CodeDuplicateColumn, table.Label, duplicates)
	}

	n.logger.WithFields(logger.Fields{
		"input":    table.Label,
		"currency": DescribeCurrency(currency),
		"columns":  len(renamed),
	}).Debug("Normalized headers")

	return table.WithHeaders(renamed), currency, nil
}

// detectCurrency reads the qualifier of the Spend column. A plain Spend
// column is already normalized. Anything else is an unrecognized layout.
func detectCurrency(label string, headers []header) (models.Currency, error) {
	var spend []header
	for _, h := range headers {
		if strings.EqualFold(h.base, ColumnSpend) {
			spend = append(spend, h)
		}
	}

	if len(spend) == 0 {
		return models.CurrencyNone, errors.SchemaError(errors.CodeUnrecognizedCurrency, label, []string{"no Spend column"})
	}

	h := spend[0]
	if h.qualifier == "" {
		return models.CurrencyNone, nil
	}
	currency, ok := currencyFor(h.qualifier)
	if !ok {
		return models.CurrencyNone, errors.SchemaError(errors.CodeUnrecognizedCurrency, label, []string{h.raw}).
			WithContext("supported", SupportedCurrencies())
	}
	return currency, nil
}

func findDuplicates(headers []string) []string {
	seen := make(map[string]int, len(headers))
	var duplicates []string
	for _, h := range headers {
		seen[h]++
		if seen[h] == 2 {
			duplicates = append(duplicates, h)
		}
	}
	return duplicates
}

// DescribeCurrency renders a currency for reports
func DescribeCurrency(c models.Currency) string {
	if c == models.CurrencyNone {
		return "unqualified"
	}
	if suffix, ok := currencyQualifiers[c]; ok {
		return fmt.Sprintf("%s %s", c, suffix)
	}
	return string(c)
}
