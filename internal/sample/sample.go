// Package sample generates three period keyword exports for demos and
// tests. Every scenario keyword is built to trigger one recommendation
// label; filler keywords add seeded random noise.
package sample

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"golang-ads-optimizer/internal/classifier"
	"golang-ads-optimizer/internal/models"
)

// Metrics are the counters of one keyword in one period
type Metrics struct {
	Impressions int64
	Clicks      int64
	Spend       decimal.Decimal
	Sales       decimal.Decimal
	Orders      int64
}

// Scenario is a keyword with fixed metrics per period. A nil period means
// the keyword is absent from that export.
type Scenario struct {
	Keyword   string
	MatchType string
	Expect    string
	Periods   [3]*Metrics
}

func m(impressions, clicks int64, spend, sales string, orders int64) *Metrics {
	return &Metrics{
		Impressions: impressions,
		Clicks:      clicks,
		Spend:       decimal.RequireFromString(spend),
		Sales:       decimal.RequireFromString(sales),
		Orders:      orders,
	}
}

func steady(metrics *Metrics) [3]*Metrics {
	return [3]*Metrics{metrics, metrics, metrics}
}

// Scenarios returns one keyword per recommendation label under the default
// thresholds
func Scenarios() []Scenario {
	return []Scenario{
		{"yoga mat thick", "broad", classifier.LabelCut, steady(m(800, 15, "9.00", "0", 0))},
		{"bamboo shoe rack", "exact", classifier.LabelIncrease, [3]*Metrics{
			m(900, 35, "10.00", "25.00", 3),
			m(1000, 40, "10.00", "30.00", 3),
			m(1000, 40, "10.00", "50.00", 5),
		}},
		{"shoe organizer", "phrase", classifier.LabelOptimize, [3]*Metrics{
			m(1000, 10, "10.00", "12.00", 1),
			m(1000, 10, "10.00", "10.00", 1),
			m(1000, 20, "10.00", "15.00", 2),
		}},
		{"entryway bench", "broad", classifier.LabelPause, steady(m(600, 8, "12.00", "0", 0))},
		{"shoe rack", "exact", classifier.LabelRemove, steady(m(2000, 2, "5.00", "0", 0))},
		{"boot tray", "exact", classifier.LabelBoost, steady(m(500, 20, "4.00", "30.00", 5))},
		{"shoe cabinet", "phrase", classifier.LabelReview, steady(m(300, 5, "3.00", "6.00", 1))},
		{"narrow shoe rack", "phrase", classifier.LabelCut, [3]*Metrics{nil, nil, m(500, 20, "8.00", "0", 0)}},
	}
}

var (
	fillerWords = []string{"wooden", "metal", "stackable", "hanging", "foldable", "slim", "white", "black"}
	fillerNouns = []string{"shoe shelf", "boot rack", "closet organizer", "door rack", "storage bench", "sneaker box"}
	matchTypes  = []string{"exact", "phrase", "broad"}
)

// Generator writes three exports. The same seed always gives the same files.
type Generator struct {
	Seed     int64
	Fillers  int
	Currency models.Currency
}

// NewGenerator creates a generator
func NewGenerator(seed int64, fillers int, currency models.Currency) *Generator {
	return &Generator{Seed: seed, Fillers: fillers, Currency: currency}
}

// Header returns the export header, qualifying money columns with the
// generator's currency
func (g *Generator) Header() []string {
	money := func(name string) string {
		if g.Currency == models.CurrencyNone {
			return name
		}
		return fmt.Sprintf("%s(%s)", name, g.Currency)
	}
	return []string{
		"Keyword", "Match type", "Impressions", "Clicks", money("Spend"), money("Sales"),
		"Orders", "CTR", money("CPC"), "ACOS", "ROAS",
	}
}

// Records returns the header and data rows of every period, earliest first
func (g *Generator) Records() [3][][]string {
	var out [3][][]string
	for p := range out {
		out[p] = [][]string{g.Header()}
	}

	for _, s := range Scenarios() {
		for p, metrics := range s.Periods {
			if metrics != nil {
				out[p] = append(out[p], row(s.Keyword, s.MatchType, metrics))
			}
		}
	}

	r := rand.New(rand.NewSource(g.Seed))
	for i := 0; i < g.Fillers; i++ {
		keyword := fmt.Sprintf("%s %s %d", fillerWords[r.Intn(len(fillerWords))], fillerNouns[r.Intn(len(fillerNouns))], i+1)
		matchType := matchTypes[r.Intn(len(matchTypes))]
		// one in five fillers is launched in the most recent period only
		launched := r.Intn(5) == 0
		for p := range out {
			metrics := randomMetrics(r)
			if launched && p < len(out)-1 {
				continue
			}
			out[p] = append(out[p], row(keyword, matchType, metrics))
		}
	}
	return out
}

func randomMetrics(r *rand.Rand) *Metrics {
	impressions := int64(100 + r.Intn(5000))
	clicks := int64(r.Intn(int(impressions/20) + 1))
	cpc := decimal.NewFromInt(int64(15 + r.Intn(120))).Div(decimal.NewFromInt(100))
	spend := cpc.Mul(decimal.NewFromInt(clicks)).Round(2)
	orders := int64(0)
	if clicks > 0 {
		orders = int64(r.Intn(int(clicks/4) + 1))
	}
	sales := decimal.NewFromInt(orders * int64(12+r.Intn(30))).Round(2)
	return &Metrics{Impressions: impressions, Clicks: clicks, Spend: spend, Sales: sales, Orders: orders}
}

// row renders metrics with the ratio columns an ads console would export
func row(keyword, matchType string, metrics *Metrics) []string {
	impressions := decimal.NewFromInt(metrics.Impressions)
	clicks := decimal.NewFromInt(metrics.Clicks)

	return []string{
		keyword,
		matchType,
		impressions.String(),
		clicks.String(),
		metrics.Spend.StringFixed(2),
		metrics.Sales.StringFixed(2),
		decimal.NewFromInt(metrics.Orders).String(),
		ratio(clicks, impressions, 4),
		ratio(metrics.Spend, clicks, 2),
		ratio(metrics.Spend, metrics.Sales, 4),
		ratio(metrics.Sales, metrics.Spend, 2),
	}
}

func ratio(num, den decimal.Decimal, places int32) string {
	v := models.Ratio(num, den)
	if v.IsMissing() {
		return ""
	}
	return v.Decimal.StringFixed(places)
}

// WriteCSV writes week1.csv, week2.csv and week3.csv into dir
func (g *Generator) WriteCSV(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var paths []string
	for p, records := range g.Records() {
		path := filepath.Join(dir, fmt.Sprintf("week%d.csv", p+1))
		if err := writeCSV(path, records); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeCSV(path string, records [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return file.Close()
}

// WriteXLSX writes week1.xlsx, week2.xlsx and week3.xlsx into dir
func (g *Generator) WriteXLSX(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var paths []string
	for p, records := range g.Records() {
		path := filepath.Join(dir, fmt.Sprintf("week%d.xlsx", p+1))
		if err := writeXLSX(path, records); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeXLSX(path string, records [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	for i, record := range records {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		values := make([]interface{}, len(record))
		for j, v := range record {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i+1, path, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
