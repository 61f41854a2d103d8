package scoringconfig

import (
	"fmt"
	"math"
	"sort"
)

// ValidationError 검증 실패 (프로그램 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Warning 권장 위반 (경고만)
type Warning struct {
	Code    string
	Message string
}

// Validate checks all required constraints
// 실패 시 error 반환 (프로그램 중단)
func Validate(m *Model) error {
	// === Meta ===
	if m.Meta.ModelID == "" {
		return ValidationError{"meta.model_id", "required"}
	}
	if m.Meta.Version == "" {
		return ValidationError{"meta.version", "required"}
	}

	// === Scale ===
	if m.Scale.ZScoreClip <= 0 {
		return ValidationError{"scale.zscore_clip", "must be > 0"}
	}
	if m.Scale.RatingMin >= m.Scale.RatingMax {
		return ValidationError{"scale", "rating_min must be < rating_max"}
	}

	// === Weights ===
	if err := validateWeights(m.Weights.Idea); err != nil {
		return ValidationError{"weights.idea", err.Error()}
	}
	if err := validateWeights(m.Weights.Live); err != nil {
		return ValidationError{"weights.live", err.Error()}
	}
	if m.Weights.Idea.LivePerformance != 0 {
		return ValidationError{"weights.idea.live_performance", "must be 0"}
	}

	// === Benchmarks ===
	for _, name := range sortedMetricNames() {
		b, ok := m.Benchmarks[name]
		field := "benchmarks." + name
		if !ok {
			return ValidationError{field, "required"}
		}
		if err := validateBenchmark(b, requiredBenchmarks[name]); err != nil {
			return ValidationError{field, err.Error()}
		}
	}
	for name := range m.Benchmarks {
		if _, ok := requiredBenchmarks[name]; !ok {
			return ValidationError{"benchmarks." + name, "unknown metric"}
		}
	}

	// === Confidence ===
	if m.Confidence.SampleConstant <= 0 {
		return ValidationError{"confidence.sample_constant", "must be > 0"}
	}
	if m.Confidence.SampleFloor <= 0 || m.Confidence.SampleFloor > 1 {
		return ValidationError{"confidence.sample_floor", "must be in (0, 1]"}
	}

	// === Status ===
	s := m.Status
	if !(s.Scale > s.Optimize && s.Optimize > s.Test) {
		return ValidationError{"status", "thresholds must be strictly descending (scale > optimize > test)"}
	}
	if s.Test <= m.Scale.RatingMin || s.Scale > m.Scale.RatingMax {
		return ValidationError{"status", fmt.Sprintf("thresholds must lie in (%d, %d]", m.Scale.RatingMin, m.Scale.RatingMax)}
	}

	return nil
}

// Warn checks recommended constraints (non-fatal)
func Warn(m *Model) []Warning {
	var warnings []Warning

	// 판매 성과 가중치가 수요보다 크면 경고
	if m.Weights.Live.LivePerformance > m.Weights.Live.DemandVelocity {
		warnings = append(warnings, Warning{
			Code:    "PERFORMANCE_DOMINANT",
			Message: "live_performance 가중치 > demand_velocity: 초기 판매 노이즈에 민감",
		})
	}

	// 표본 상수가 너무 작으면 신뢰도가 과대평가됨
	if m.Confidence.SampleConstant < 100 {
		warnings = append(warnings, Warning{
			Code:    "LOW_SAMPLE_CONSTANT",
			Message: "sample_constant < 100: 소량 판매에도 신뢰도가 빠르게 포화",
		})
	}

	if m.Scale.ZScoreClip > 4 {
		warnings = append(warnings, Warning{
			Code:    "WIDE_CLIP",
			Message: "zscore_clip > 4: 극단값이 rating 양끝에 몰림",
		})
	}

	return warnings
}

// === Helper Functions ===

func sortedMetricNames() []string {
	names := make([]string, 0, len(requiredBenchmarks))
	for name := range requiredBenchmarks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func validateWeights(w PillarWeights) error {
	for _, v := range []float64{w.DemandVelocity, w.RedOceanPressure, w.UnitEconomics, w.LivePerformance} {
		if v < 0 || math.IsNaN(v) {
			return fmt.Errorf("weights must be >= 0")
		}
	}
	return validateWeightsSum([]float64{w.DemandVelocity, w.RedOceanPressure, w.UnitEconomics, w.LivePerformance}, 1.0, 1e-6)
}

func validateWeightsSum(weights []float64, target float64, epsilon float64) error {
	if len(weights) == 0 {
		return fmt.Errorf("must not be empty")
	}
	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	if math.Abs(sum-target) > epsilon {
		return fmt.Errorf("must sum to %.2f, got %.4f", target, sum)
	}
	return nil
}

func validateBenchmark(b Benchmark, inverted bool) error {
	switch b.Kind {
	case KindLinear, KindLog, KindPercent:
	default:
		return fmt.Errorf("kind must be one of linear, log, percent")
	}
	if !(b.Std > 0) || math.IsInf(b.Std, 0) {
		return fmt.Errorf("std must be a positive finite number")
	}
	if math.IsNaN(b.Mean) || math.IsInf(b.Mean, 0) {
		return fmt.Errorf("mean must be finite")
	}
	if b.Kind == KindLog && b.Mean < 0 {
		return fmt.Errorf("log benchmark mean must be >= 0")
	}
	if b.Inverted != inverted {
		return fmt.Errorf("inverted must be %v", inverted)
	}
	return nil
}
