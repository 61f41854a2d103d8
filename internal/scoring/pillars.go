package scoring

import (
	"math"

	"github.com/wonny/cohorent/backend/internal/contracts"
	"github.com/wonny/cohorent/backend/internal/scoringconfig"
)

// metricValue pairs a benchmark name with an optional raw input.
// fallback 은 value 가 없을 때 점수에만 쓰이고 coverage 에는 세지 않는다.
type metricValue struct {
	name     string
	value    *float64
	fallback *float64
}

// present treats non-finite inputs as absent
func present(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}

// normalize converts a raw metric into a signed contribution
// (양수 = 유리, Inverted 지표는 부호 반전)
func normalize(b scoringconfig.Benchmark, v float64) float64 {
	var z float64
	switch b.Kind {
	case scoringconfig.KindLog:
		z = (math.Log1p(math.Max(0, v)) - math.Log1p(b.Mean)) / b.Std
	case scoringconfig.KindPercent:
		z = (math.Max(0, math.Min(100, v)) - b.Mean) / b.Std
	default:
		z = (v - b.Mean) / b.Std
	}
	if b.Inverted {
		z = -z
	}
	return z
}

// scorePillar averages the present scored metrics.
// informational 지표는 coverage 에만 반영된다.
func (e *Engine) scorePillar(scored []metricValue, informational ...*float64) contracts.PillarScore {
	total := len(scored) + len(informational)
	available := 0
	sum := 0.0
	metrics := make(map[string]float64, len(scored))

	scoredCount := 0
	for _, m := range scored {
		v := m.value
		if present(v) {
			available++
		} else if present(m.fallback) {
			v = m.fallback
		} else {
			continue
		}
		contribution := normalize(e.model.Benchmarks[m.name], *v)
		metrics[m.name] = contribution
		sum += contribution
		scoredCount++
	}

	for _, v := range informational {
		if present(v) {
			available++
		}
	}

	z := 0.0
	if scoredCount > 0 {
		z = sum / float64(scoredCount)
	}
	z = clip(z, e.model.Scale.ZScoreClip)

	coverage := 0.0
	if total > 0 {
		coverage = float64(available) / float64(total)
	}

	return contracts.PillarScore{
		Score:    toRating(z, e.model.Scale.RatingMin, e.model.Scale.RatingMax),
		ZScore:   z,
		Coverage: coverage,
		Metrics:  metrics,
	}
}

func (e *Engine) demandVelocity(s *contracts.ExternalSignals) contracts.PillarScore {
	if s == nil {
		s = &contracts.ExternalSignals{}
	}
	return e.scorePillar([]metricValue{
		{name: scoringconfig.MetricSearchVolume, value: s.SearchVolume},
		{name: scoringconfig.MetricSearchTrendSlope, value: s.SearchTrendSlope},
		{name: scoringconfig.MetricKeywordIntentRatio, value: s.KeywordIntentRatio},
		{name: scoringconfig.MetricSocialEngagementVelocity, value: s.SocialEngagementVelocity},
	})
}

func (e *Engine) redOceanPressure(s *contracts.ExternalSignals) contracts.PillarScore {
	if s == nil {
		s = &contracts.ExternalSignals{}
	}
	return e.scorePillar([]metricValue{
		{name: scoringconfig.MetricCompetitorReviewDepth, value: s.CompetitorReviewDepth},
		{name: scoringconfig.MetricCPCEstimate, value: s.CPCEstimate},
		{name: scoringconfig.MetricSellerSaturation, value: s.SellerSaturation},
	})
}

func (e *Engine) unitEconomics(ec *contracts.Economics) contracts.PillarScore {
	if ec == nil {
		ec = &contracts.Economics{}
	}
	// returnRate 우선, 없으면 categoryReturnRate 로 채점.
	// categoryReturnRate 자체는 cogs 처럼 별도 coverage 슬롯.
	return e.scorePillar([]metricValue{
		{name: scoringconfig.MetricGrossMarginPercent, value: ec.GrossMarginPercent},
		{name: scoringconfig.MetricLandedCost, value: ec.LandedCost},
		{name: scoringconfig.MetricReturnRate, value: ec.ReturnRate, fallback: ec.CategoryReturnRate},
	}, ec.COGS, ec.CategoryReturnRate)
}

func (e *Engine) livePerformance(p *contracts.Performance) contracts.PillarScore {
	if p == nil {
		p = &contracts.Performance{}
	}
	return e.scorePillar([]metricValue{
		{name: scoringconfig.MetricUnitsSold, value: p.UnitsSold},
		{name: scoringconfig.MetricConversionRate, value: p.ConversionRate},
		{name: scoringconfig.MetricRepeatPurchaseRate, value: p.RepeatPurchaseRate},
		{name: scoringconfig.MetricDiscountDependency, value: p.DiscountDependency},
	}, p.Sessions)
}
