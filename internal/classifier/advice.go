package classifier

import (
	"golang-ads-optimizer/internal/models"
)

// Advice sentences
const (
	AdviceRelevance = "High clicks, no sales - likely a relevance issue."
	AdviceScale     = "Great ROAS - consider scaling this keyword."
	AdviceLowCTR    = "Low CTR - test rewriting product title or image."
	AdviceHighACOS  = "High ACOS - test lower bid or negative targeting."
	AdviceMixed     = "Mixed performance - monitor and adjust if needed."
)

// AdviceColumn is the output column of the advice classifier
const AdviceColumn = "AI_Advice"

// NewAdvice returns the advisory sentence classifier
func NewAdvice(th *Thresholds) Classifier {
	return &table{
		mode:   ModeAdvice,
		column: AdviceColumn,
		rules: []Rule{
			{
				Name:  "clicks_without_sales",
				Label: AdviceRelevance,
				When: func(w *models.WideRecord) bool {
					return recent(w, models.MetricSales).LessThan(th.CutMaxSales) &&
						recent(w, models.MetricClicks).GreaterThanOrEqual(th.CutMinClicks)
				},
			},
			{
				Name:  "high_roas",
				Label: AdviceScale,
				When: func(w *models.WideRecord) bool {
					return recent(w, models.MetricROAS).GreaterThan(th.ScaleMinROAS)
				},
			},
			{
				Name:  "low_ctr",
				Label: AdviceLowCTR,
				When: func(w *models.WideRecord) bool {
					return recent(w, models.MetricCTR).LessThan(th.LowCTR)
				},
			},
			{
				Name:  "high_acos",
				Label: AdviceHighACOS,
				When: func(w *models.WideRecord) bool {
					return recent(w, models.MetricACOS).GreaterThan(th.HighACOS)
				},
			},
		},
		fallback: Rule{Name: "default", Label: AdviceMixed},
	}
}
