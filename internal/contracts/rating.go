package contracts

import "time"

// StatusLabel is the portfolio action derived from a rating
type StatusLabel string

const (
	StatusScale    StatusLabel = "Scale"
	StatusOptimize StatusLabel = "Optimize"
	StatusTest     StatusLabel = "Test"
	StatusRetire   StatusLabel = "Retire"
)

// AllStatusLabels returns labels from best to worst
func AllStatusLabels() []StatusLabel {
	return []StatusLabel{StatusScale, StatusOptimize, StatusTest, StatusRetire}
}

// IsValidStatusLabel checks if s names a status label
func IsValidStatusLabel(s string) bool {
	for _, l := range AllStatusLabels() {
		if string(l) == s {
			return true
		}
	}
	return false
}

// Pillar names
const (
	PillarDemandVelocity   = "demandVelocity"
	PillarRedOceanPressure = "redOceanPressure"
	PillarUnitEconomics    = "unitEconomics"
	PillarLivePerformance  = "livePerformance"
)

// PillarScore is one scoring dimension of a snapshot
type PillarScore struct {
	Score    int                `json:"score"`    // 300 ~ 900
	ZScore   float64            `json:"zScore"`   // [-3, 3] 클리핑 후
	Coverage float64            `json:"coverage"` // 입력된 지표 수 / 전체 지표 수
	Metrics  map[string]float64 `json:"metrics"`  // 지표별 정규화 기여도
}

// RatingSnapshot is the scoring output
// ⭐ SSOT: 스코어링 엔진 출력은 이 타입만 사용
type RatingSnapshot struct {
	ID              string      `json:"id"`
	ProductID       string      `json:"productId,omitempty"`
	Rating          int         `json:"rating"`
	ConfidenceIndex float64     `json:"confidenceIndex"`
	CoverageFactor  float64     `json:"coverageFactor"`
	SampleFactor    float64     `json:"sampleFactor"`
	CompositeZ      float64     `json:"compositeZ"`
	StatusLabel     StatusLabel `json:"statusLabel"`
	AlgoVersion     string      `json:"algoVersion"`
	Phase           Phase       `json:"phase"`
	Timestamp       time.Time   `json:"timestamp"`

	DemandVelocity   PillarScore  `json:"demandVelocity"`
	RedOceanPressure PillarScore  `json:"redOceanPressure"`
	UnitEconomics    PillarScore  `json:"unitEconomics"`
	LivePerformance  *PillarScore `json:"livePerformance"` // Idea 단계는 nil
}

// Pillars returns the pillars present in the snapshot keyed by name
func (r RatingSnapshot) Pillars() map[string]PillarScore {
	pillars := map[string]PillarScore{
		PillarDemandVelocity:   r.DemandVelocity,
		PillarRedOceanPressure: r.RedOceanPressure,
		PillarUnitEconomics:    r.UnitEconomics,
	}
	if r.LivePerformance != nil {
		pillars[PillarLivePerformance] = *r.LivePerformance
	}
	return pillars
}

// StatusTransition records a label change found while rescoring
type StatusTransition struct {
	ProductID      string      `json:"productId"`
	ProductName    string      `json:"productName"`
	From           StatusLabel `json:"from"`
	To             StatusLabel `json:"to"`
	PreviousRating int         `json:"previousRating"`
	Rating         int         `json:"rating"`
	At             time.Time   `json:"at"`
}

// IsUpgrade reports whether the product moved to a better label
func (t StatusTransition) IsUpgrade() bool {
	return t.Rating > t.PreviousRating
}
