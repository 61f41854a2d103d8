package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/cohorent/backend/internal/contracts"
)

// metricSetter points a test at one metric of a record
type metricSetter struct {
	name   string
	pillar string
	set    func(r *contracts.ProductRecord, v float64)
}

func favorableMetrics() []metricSetter {
	return []metricSetter{
		{"searchVolume", contracts.PillarDemandVelocity, func(r *contracts.ProductRecord, v float64) { r.ExternalSignals.SearchVolume = &v }},
		{"searchTrendSlope", contracts.PillarDemandVelocity, func(r *contracts.ProductRecord, v float64) { r.ExternalSignals.SearchTrendSlope = &v }},
		{"keywordIntentRatio", contracts.PillarDemandVelocity, func(r *contracts.ProductRecord, v float64) { r.ExternalSignals.KeywordIntentRatio = &v }},
		{"socialEngagementVelocity", contracts.PillarDemandVelocity, func(r *contracts.ProductRecord, v float64) { r.ExternalSignals.SocialEngagementVelocity = &v }},
		{"grossMarginPercent", contracts.PillarUnitEconomics, func(r *contracts.ProductRecord, v float64) { r.Economics.GrossMarginPercent = &v }},
		{"unitsSold", contracts.PillarLivePerformance, func(r *contracts.ProductRecord, v float64) { r.Performance.UnitsSold = &v }},
		{"conversionRate", contracts.PillarLivePerformance, func(r *contracts.ProductRecord, v float64) { r.Performance.ConversionRate = &v }},
		{"repeatPurchaseRate", contracts.PillarLivePerformance, func(r *contracts.ProductRecord, v float64) { r.Performance.RepeatPurchaseRate = &v }},
	}
}

func unfavorableMetrics() []metricSetter {
	return []metricSetter{
		{"competitorReviewDepth", contracts.PillarRedOceanPressure, func(r *contracts.ProductRecord, v float64) { r.ExternalSignals.CompetitorReviewDepth = &v }},
		{"cpcEstimate", contracts.PillarRedOceanPressure, func(r *contracts.ProductRecord, v float64) { r.ExternalSignals.CPCEstimate = &v }},
		{"sellerSaturation", contracts.PillarRedOceanPressure, func(r *contracts.ProductRecord, v float64) { r.ExternalSignals.SellerSaturation = &v }},
		{"landedCost", contracts.PillarUnitEconomics, func(r *contracts.ProductRecord, v float64) { r.Economics.LandedCost = &v }},
		{"returnRate", contracts.PillarUnitEconomics, func(r *contracts.ProductRecord, v float64) { r.Economics.ReturnRate = &v }},
		{"discountDependency", contracts.PillarLivePerformance, func(r *contracts.ProductRecord, v float64) { r.Performance.DiscountDependency = &v }},
	}
}

// sweep covers negatives, fractions, percent range and heavy tails
var sweep = []float64{-10, -1, 0, 0.05, 0.1, 0.3, 0.5, 0.9, 1, 2, 3, 5, 8, 10, 15, 20, 30, 40, 50, 75, 100, 150, 500, 1000, 5000, 10000, 50000, 1e6}

func TestProperty_FavorableMonotonic(t *testing.T) {
	e := newTestEngine()

	for _, m := range favorableMetrics() {
		t.Run(m.name, func(t *testing.T) {
			prevPillar, prevRating := 0, 0
			for i, v := range sweep {
				rec := benchmarkRecord(contracts.PhaseMatureLive)
				m.set(&rec, v)
				snap := e.ComputeRating(rec)
				pillar := snap.Pillars()[m.pillar].Score

				if i > 0 {
					assert.GreaterOrEqual(t, pillar, prevPillar, "pillar decreased at %v", v)
					assert.GreaterOrEqual(t, snap.Rating, prevRating, "rating decreased at %v", v)
				}
				prevPillar, prevRating = pillar, snap.Rating
			}
		})
	}
}

func TestProperty_UnfavorableInverted(t *testing.T) {
	e := newTestEngine()

	for _, m := range unfavorableMetrics() {
		t.Run(m.name, func(t *testing.T) {
			prevPillar, prevRating := 0, 0
			for i, v := range sweep {
				rec := benchmarkRecord(contracts.PhaseMatureLive)
				m.set(&rec, v)
				snap := e.ComputeRating(rec)
				pillar := snap.Pillars()[m.pillar].Score

				if i > 0 {
					assert.LessOrEqual(t, pillar, prevPillar, "pillar increased at %v", v)
					assert.LessOrEqual(t, snap.Rating, prevRating, "rating increased at %v", v)
				}
				prevPillar, prevRating = pillar, snap.Rating
			}

			// 벤치마크보다 나쁜 값은 반드시 600 미만
			rec := benchmarkRecord(contracts.PhaseMatureLive)
			m.set(&rec, 1e6)
			worst := e.ComputeRating(rec)
			assert.Less(t, worst.Pillars()[m.pillar].Score, 600)
		})
	}
}

func TestProperty_ConfidenceGrowsWithFields(t *testing.T) {
	e := newTestEngine()
	full := benchmarkRecord(contracts.PhaseMatureLive)

	// 선택 필드를 하나씩 추가 (coverage 슬롯마다 신뢰도가 올라야 함)
	steps := []func(r *contracts.ProductRecord){
		func(r *contracts.ProductRecord) { r.ExternalSignals.SearchVolume = full.ExternalSignals.SearchVolume },
		func(r *contracts.ProductRecord) { r.ExternalSignals.SearchTrendSlope = full.ExternalSignals.SearchTrendSlope },
		func(r *contracts.ProductRecord) { r.ExternalSignals.KeywordIntentRatio = full.ExternalSignals.KeywordIntentRatio },
		func(r *contracts.ProductRecord) { r.ExternalSignals.SocialEngagementVelocity = full.ExternalSignals.SocialEngagementVelocity },
		func(r *contracts.ProductRecord) { r.ExternalSignals.CompetitorReviewDepth = full.ExternalSignals.CompetitorReviewDepth },
		func(r *contracts.ProductRecord) { r.ExternalSignals.CPCEstimate = full.ExternalSignals.CPCEstimate },
		func(r *contracts.ProductRecord) { r.ExternalSignals.SellerSaturation = full.ExternalSignals.SellerSaturation },
		func(r *contracts.ProductRecord) { r.Economics.GrossMarginPercent = full.Economics.GrossMarginPercent },
		func(r *contracts.ProductRecord) { r.Economics.COGS = full.Economics.COGS },
		func(r *contracts.ProductRecord) { r.Economics.LandedCost = full.Economics.LandedCost },
		func(r *contracts.ProductRecord) { r.Economics.ReturnRate = full.Economics.ReturnRate },
		func(r *contracts.ProductRecord) { r.Economics.CategoryReturnRate = full.Economics.CategoryReturnRate },
		func(r *contracts.ProductRecord) { r.Performance.ConversionRate = full.Performance.ConversionRate },
		func(r *contracts.ProductRecord) { r.Performance.RepeatPurchaseRate = full.Performance.RepeatPurchaseRate },
		func(r *contracts.ProductRecord) { r.Performance.DiscountDependency = full.Performance.DiscountDependency },
		func(r *contracts.ProductRecord) { r.Performance.UnitsSold = full.Performance.UnitsSold },
		func(r *contracts.ProductRecord) { r.Performance.Sessions = full.Performance.Sessions },
	}

	for _, phase := range contracts.AllPhases() {
		t.Run(phase.String(), func(t *testing.T) {
			rec := contracts.ProductRecord{
				Phase:           phase,
				ExternalSignals: &contracts.ExternalSignals{},
				Economics:       &contracts.Economics{},
				Performance:     &contracts.Performance{},
			}
			prev := e.ComputeRating(rec).ConfidenceIndex
			assert.Equal(t, 0.0, prev)

			limit := len(steps)
			if !phase.IsLive() {
				limit = 12 // Idea는 성과 필드가 coverage 에 포함되지 않음
			}
			for i := 0; i < limit; i++ {
				steps[i](&rec)
				got := e.ComputeRating(rec).ConfidenceIndex
				assert.Greater(t, got, prev, "step %d", i)
				assert.LessOrEqual(t, got, 1.0)
				prev = got
			}
		})
	}
}

func TestProperty_ConfidenceGrowsWithEachField(t *testing.T) {
	e := newTestEngine()
	full := benchmarkRecord(contracts.PhaseMatureLive)

	// 한 필드만 추가해도 빈 레코드보다 신뢰도가 높아야 함
	fields := map[string]func(r *contracts.ProductRecord){
		"searchVolume":             func(r *contracts.ProductRecord) { r.ExternalSignals.SearchVolume = full.ExternalSignals.SearchVolume },
		"searchTrendSlope":         func(r *contracts.ProductRecord) { r.ExternalSignals.SearchTrendSlope = full.ExternalSignals.SearchTrendSlope },
		"keywordIntentRatio":       func(r *contracts.ProductRecord) { r.ExternalSignals.KeywordIntentRatio = full.ExternalSignals.KeywordIntentRatio },
		"socialEngagementVelocity": func(r *contracts.ProductRecord) { r.ExternalSignals.SocialEngagementVelocity = full.ExternalSignals.SocialEngagementVelocity },
		"competitorReviewDepth":    func(r *contracts.ProductRecord) { r.ExternalSignals.CompetitorReviewDepth = full.ExternalSignals.CompetitorReviewDepth },
		"cpcEstimate":              func(r *contracts.ProductRecord) { r.ExternalSignals.CPCEstimate = full.ExternalSignals.CPCEstimate },
		"sellerSaturation":         func(r *contracts.ProductRecord) { r.ExternalSignals.SellerSaturation = full.ExternalSignals.SellerSaturation },
		"grossMarginPercent":       func(r *contracts.ProductRecord) { r.Economics.GrossMarginPercent = full.Economics.GrossMarginPercent },
		"cogs":                     func(r *contracts.ProductRecord) { r.Economics.COGS = full.Economics.COGS },
		"landedCost":               func(r *contracts.ProductRecord) { r.Economics.LandedCost = full.Economics.LandedCost },
		"returnRate":               func(r *contracts.ProductRecord) { r.Economics.ReturnRate = full.Economics.ReturnRate },
		"categoryReturnRate":       func(r *contracts.ProductRecord) { r.Economics.CategoryReturnRate = full.Economics.CategoryReturnRate },
		"unitsSold":                func(r *contracts.ProductRecord) { r.Performance.UnitsSold = full.Performance.UnitsSold },
		"sessions":                 func(r *contracts.ProductRecord) { r.Performance.Sessions = full.Performance.Sessions },
		"conversionRate":           func(r *contracts.ProductRecord) { r.Performance.ConversionRate = full.Performance.ConversionRate },
		"repeatPurchaseRate":       func(r *contracts.ProductRecord) { r.Performance.RepeatPurchaseRate = full.Performance.RepeatPurchaseRate },
		"discountDependency":       func(r *contracts.ProductRecord) { r.Performance.DiscountDependency = full.Performance.DiscountDependency },
	}

	// 나머지가 모두 채워진 상태에서 마지막 한 필드를 추가하는 경우
	for name, set := range fields {
		t.Run(name, func(t *testing.T) {
			rec := contracts.ProductRecord{
				Phase:           contracts.PhaseMatureLive,
				ExternalSignals: &contracts.ExternalSignals{},
				Economics:       &contracts.Economics{},
				Performance:     &contracts.Performance{},
			}
			for other, fill := range fields {
				if other != name {
					fill(&rec)
				}
			}
			without := e.ComputeRating(rec).ConfidenceIndex

			set(&rec)
			with := e.ComputeRating(rec).ConfidenceIndex
			assert.Greater(t, with, without)
		})
	}
}

func TestProperty_StatusBoundaries(t *testing.T) {
	thresholds := newTestEngine().Model().Status

	tests := []struct {
		rating int
		want   contracts.StatusLabel
	}{
		{900, contracts.StatusScale},
		{700, contracts.StatusScale},
		{699, contracts.StatusOptimize},
		{550, contracts.StatusOptimize},
		{549, contracts.StatusTest},
		{400, contracts.StatusTest},
		{399, contracts.StatusRetire},
		{300, contracts.StatusRetire},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.rating, thresholds), "rating %d", tt.rating)
	}
}

func TestProperty_StatusIsFunctionOfRating(t *testing.T) {
	e := newTestEngine()
	for _, v := range sweep {
		rec := benchmarkRecord(contracts.PhaseEarlyLive)
		rec.ExternalSignals.SearchVolume = &v
		snap := e.ComputeRating(rec)
		assert.Equal(t, e.Status(snap.Rating), snap.StatusLabel)
	}
}
