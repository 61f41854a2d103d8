package scoring

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/wonny/cohorent/backend/internal/contracts"
)

// sampleFactor discounts live products with little traffic
func (e *Engine) sampleFactor(phase contracts.Phase, perf *contracts.Performance) float64 {
	if !phase.IsLive() {
		return 1.0
	}

	n := 0.0
	if perf != nil {
		if present(perf.Sessions) {
			n = math.Max(n, *perf.Sessions)
		}
		if present(perf.UnitsSold) {
			n = math.Max(n, *perf.UnitsSold)
		}
	}

	c := e.model.Confidence.SampleConstant
	return math.Max(e.model.Confidence.SampleFloor, n/(n+c))
}

// coverageFactor averages pillar coverage over the phase's pillars
func coverageFactor(pillars ...contracts.PillarScore) float64 {
	if len(pillars) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range pillars {
		sum += p.Coverage
	}
	return sum / float64(len(pillars))
}

// confidenceIndex = coverage × sample rounded half away from zero to
// 2 decimals, bounded to [0, 1]. 곱셈도 decimal로 수행 (0.75 × 0.3 = 0.225 → 0.23, float 곱은 0.2249…)
func confidenceIndex(coverage, sample float64) float64 {
	c := decimal.NewFromFloat(coverage).
		Mul(decimal.NewFromFloat(sample)).
		Round(2).
		InexactFloat64()
	return math.Max(0, math.Min(1, c))
}
