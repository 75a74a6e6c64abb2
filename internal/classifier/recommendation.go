package classifier

import (
	"golang-ads-optimizer/internal/models"
)

// Recommendation labels
const (
	LabelCut      = "CUT"
	LabelIncrease = "INCREASE"
	LabelOptimize = "OPTIMIZE"
	LabelPause    = "PAUSE"
	LabelRemove   = "REMOVE"
	LabelBoost    = "BOOST"
	LabelReview   = "REVIEW"
)

// RecommendationColumn is the output column of the label classifier
const RecommendationColumn = "Recommendation"

// NewRecommendation returns the action label classifier
func NewRecommendation(th *Thresholds) Classifier {
	return &table{
		mode:   ModeRecommendation,
		column: RecommendationColumn,
		rules: []Rule{
			{
				Name:  "clicks_without_sales",
				Label: LabelCut,
				When: func(w *models.WideRecord) bool {
					return recent(w, models.MetricSales).LessThan(th.CutMaxSales) &&
						recent(w, models.MetricClicks).GreaterThanOrEqual(th.CutMinClicks)
				},
			},
			{
				Name:  "profitable_and_improving",
				Label: LabelIncrease,
				When: func(w *models.WideRecord) bool {
					return recent(w, models.MetricROAS).GreaterThan(th.IncreaseMinROAS) &&
						deltaVsPrevious(w, models.MetricROAS).GreaterThan(zero) &&
						recent(w, models.MetricACOS).LessThan(th.IncreaseMaxACOS)
				},
			},
			{
				Name:  "ctr_and_roas_rising",
				Label: LabelOptimize,
				When: func(w *models.WideRecord) bool {
					return deltaVsPrevious(w, models.MetricCTR).GreaterThan(zero) &&
						deltaVsPrevious(w, models.MetricROAS).GreaterThan(zero)
				},
			},
			{
				Name:  "spend_without_orders",
				Label: LabelPause,
				When: func(w *models.WideRecord) bool {
					return recent(w, models.MetricSpend).GreaterThan(th.PauseMinSpend) &&
						recent(w, models.MetricOrders).Equal(zero)
				},
			},
			{
				Name:  "low_ctr_high_impressions",
				Label: LabelRemove,
				When: func(w *models.WideRecord) bool {
					return recent(w, models.MetricCTR).LessThan(th.RemoveMaxCTR) &&
						recent(w, models.MetricImpressions).GreaterThan(th.RemoveMinImpressions)
				},
			},
			{
				Name:  "converting_cheaply",
				Label: LabelBoost,
				When: func(w *models.WideRecord) bool {
					return recent(w, models.MetricCR).GreaterThan(th.BoostMinCR) &&
						recent(w, models.MetricCPC).LessThan(th.BoostMaxCPC)
				},
			},
		},
		fallback: Rule{Name: "default", Label: LabelReview},
	}
}
