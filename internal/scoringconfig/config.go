package scoringconfig

// Model은 스코어링 엔진의 전체 설정
// ⭐ SSOT: 벤치마크/가중치/임계값은 여기서만 정의
type Model struct {
	Meta       Meta                 `yaml:"meta" json:"meta"`
	Scale      Scale                `yaml:"scale" json:"scale"`
	Weights    Weights              `yaml:"weights" json:"weights"`
	Benchmarks map[string]Benchmark `yaml:"benchmarks" json:"benchmarks"`
	Confidence Confidence           `yaml:"confidence" json:"confidence"`
	Status     StatusThresholds     `yaml:"status" json:"status"`
}

// Meta 메타 정보
type Meta struct {
	ModelID     string `yaml:"model_id" json:"model_id"`
	Version     string `yaml:"version" json:"version"` // 스냅샷 algoVersion
	Description string `yaml:"description" json:"description"`
}

// Scale z-score → rating 변환 범위
type Scale struct {
	ZScoreClip float64 `yaml:"zscore_clip" json:"zscore_clip"`
	RatingMin  int     `yaml:"rating_min" json:"rating_min"`
	RatingMax  int     `yaml:"rating_max" json:"rating_max"`
}

// Weights phase별 pillar 가중치 (합 = 1.0)
type Weights struct {
	Idea PillarWeights `yaml:"idea" json:"idea"`
	Live PillarWeights `yaml:"live" json:"live"`
}

type PillarWeights struct {
	DemandVelocity   float64 `yaml:"demand_velocity" json:"demand_velocity"`
	RedOceanPressure float64 `yaml:"red_ocean_pressure" json:"red_ocean_pressure"`
	UnitEconomics    float64 `yaml:"unit_economics" json:"unit_economics"`
	LivePerformance  float64 `yaml:"live_performance" json:"live_performance"`
}

// Sum returns the sum of all weights
func (w PillarWeights) Sum() float64 {
	return w.DemandVelocity + w.RedOceanPressure + w.UnitEconomics + w.LivePerformance
}

// Normalization kinds
const (
	KindLinear  = "linear"  // (v - mean) / std
	KindLog     = "log"     // (ln(1+v) - ln(1+mean)) / std
	KindPercent = "percent" // (clamp(v, 0, 100) - mean) / std
)

// Benchmark 지표별 정규화 기준
type Benchmark struct {
	Kind     string  `yaml:"kind" json:"kind"`
	Mean     float64 `yaml:"mean" json:"mean"`
	Std      float64 `yaml:"std" json:"std"`
	Inverted bool    `yaml:"inverted" json:"inverted"` // 높을수록 불리한 지표
}

// Confidence 표본 크기 할인 설정 (Live 전용)
type Confidence struct {
	SampleConstant float64 `yaml:"sample_constant" json:"sample_constant"` // n / (n + constant)
	SampleFloor    float64 `yaml:"sample_floor" json:"sample_floor"`
}

// StatusThresholds rating 하한 (이상이면 해당 라벨)
type StatusThresholds struct {
	Scale    int `yaml:"scale" json:"scale"`
	Optimize int `yaml:"optimize" json:"optimize"`
	Test     int `yaml:"test" json:"test"`
}

// Metric names (JSON 필드명과 동일)
const (
	MetricSearchVolume             = "searchVolume"
	MetricSearchTrendSlope         = "searchTrendSlope"
	MetricKeywordIntentRatio       = "keywordIntentRatio"
	MetricSocialEngagementVelocity = "socialEngagementVelocity"

	MetricCompetitorReviewDepth = "competitorReviewDepth"
	MetricCPCEstimate           = "cpcEstimate"
	MetricSellerSaturation      = "sellerSaturation"

	MetricGrossMarginPercent = "grossMarginPercent"
	MetricLandedCost         = "landedCost"
	MetricReturnRate         = "returnRate"

	MetricUnitsSold          = "unitsSold"
	MetricConversionRate     = "conversionRate"
	MetricRepeatPurchaseRate = "repeatPurchaseRate"
	MetricDiscountDependency = "discountDependency"
)

// requiredBenchmarks lists every scored metric and its fixed direction
var requiredBenchmarks = map[string]bool{
	MetricSearchVolume:             false,
	MetricSearchTrendSlope:         false,
	MetricKeywordIntentRatio:       false,
	MetricSocialEngagementVelocity: false,
	MetricCompetitorReviewDepth:    true,
	MetricCPCEstimate:              true,
	MetricSellerSaturation:         true,
	MetricGrossMarginPercent:       false,
	MetricLandedCost:               true,
	MetricReturnRate:               true,
	MetricUnitsSold:                false,
	MetricConversionRate:           false,
	MetricRepeatPurchaseRate:       false,
	MetricDiscountDependency:       true,
}

// DefaultModel returns the compiled-in v1 model
func DefaultModel() *Model {
	return &Model{
		Meta: Meta{
			ModelID:     "cohorent",
			Version:     "v1",
			Description: "Four-pillar portfolio rating (demand, competition, economics, live performance)",
		},
		Scale: Scale{
			ZScoreClip: 3,
			RatingMin:  300,
			RatingMax:  900,
		},
		Weights: Weights{
			Idea: PillarWeights{DemandVelocity: 0.40, RedOceanPressure: 0.30, UnitEconomics: 0.30, LivePerformance: 0},
			Live: PillarWeights{DemandVelocity: 0.35, RedOceanPressure: 0.25, UnitEconomics: 0.25, LivePerformance: 0.15},
		},
		Benchmarks: map[string]Benchmark{
			// Demand Velocity
			MetricSearchVolume:             {Kind: KindLog, Mean: 10000, Std: 1.0},
			MetricSearchTrendSlope:         {Kind: KindLinear, Mean: 0.1, Std: 0.3},
			MetricKeywordIntentRatio:       {Kind: KindLinear, Mean: 0.5, Std: 0.2},
			MetricSocialEngagementVelocity: {Kind: KindLog, Mean: 1000, Std: 0.5},

			// Red Ocean Pressure
			MetricCompetitorReviewDepth: {Kind: KindLog, Mean: 500, Std: 0.5, Inverted: true},
			MetricCPCEstimate:           {Kind: KindLinear, Mean: 2.0, Std: 1.0, Inverted: true},
			MetricSellerSaturation:      {Kind: KindLinear, Mean: 50, Std: 30, Inverted: true},

			// Unit Economics
			MetricGrossMarginPercent: {Kind: KindPercent, Mean: 40, Std: 15},
			MetricLandedCost:         {Kind: KindLog, Mean: 20, Std: 0.5, Inverted: true},
			MetricReturnRate:         {Kind: KindPercent, Mean: 10, Std: 5, Inverted: true},

			// Live Performance
			MetricUnitsSold:          {Kind: KindLog, Mean: 100, Std: 0.5},
			MetricConversionRate:     {Kind: KindPercent, Mean: 3, Std: 1.5},
			MetricRepeatPurchaseRate: {Kind: KindPercent, Mean: 20, Std: 10},
			MetricDiscountDependency: {Kind: KindPercent, Mean: 30, Std: 15, Inverted: true},
		},
		Confidence: Confidence{
			SampleConstant: 1000,
			SampleFloor:    0.3,
		},
		Status: StatusThresholds{
			Scale:    700,
			Optimize: 550,
			Test:     400,
		},
	}
}
