package scoring

import "math"

// Abramowitz & Stegun 7.1.26 계수
// erf 최대 오차 1.5e-7 → Φ 최대 오차 7.5e-8
const (
	erfA1 = 0.254829592
	erfA2 = -0.284496736
	erfA3 = 1.421413741
	erfA4 = -1.453152027
	erfA5 = 1.061405429
	erfP  = 0.3275911
)

// erf approximates the error function
func erf(x float64) float64 {
	sign := 1.0
	if x < 0 {
		sign = -1.0
		x = -x
	}

	t := 1.0 / (1.0 + erfP*x)
	poly := ((((erfA5*t+erfA4)*t+erfA3)*t+erfA2)*t + erfA1) * t
	return sign * (1.0 - poly*math.Exp(-x*x))
}

// normalCDF approximates Φ(z) for the standard normal distribution
func normalCDF(z float64) float64 {
	return 0.5 * (1.0 + erf(z/math.Sqrt2))
}

// clip bounds z to [-limit, limit]
func clip(z, limit float64) float64 {
	return math.Max(-limit, math.Min(limit, z))
}

// toRating maps a clipped z-score onto [min, max]
func toRating(z float64, min, max int) int {
	span := float64(max - min)
	r := int(math.Round(float64(min) + span*normalCDF(z)))
	if r < min {
		return min
	}
	if r > max {
		return max
	}
	return r
}
