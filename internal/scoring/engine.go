// Package scoring turns product metric bundles into rating snapshots.
//
// 엔진은 모델 데이터만 보유(불변)하므로 동시 호출에 안전하다.
// I/O, 로깅 없음. 입력 누락은 에러가 아니라 coverage/confidence 저하로 처리한다.
package scoring

import (
	"time"

	"github.com/google/uuid"

	"github.com/wonny/cohorent/backend/internal/contracts"
	"github.com/wonny/cohorent/backend/internal/scoringconfig"
)

// Engine computes rating snapshots
// ⭐ SSOT: rating 계산은 여기서만
type Engine struct {
	model *scoringconfig.Model
	now   func() time.Time
	newID func() string
}

// Option configures an Engine
type Option func(*Engine)

// WithClock injects the snapshot timestamp source
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithIDGenerator injects the snapshot id source
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) {
		e.newID = newID
	}
}

// NewEngine creates an engine for model (nil → DefaultModel).
// model은 Validate를 통과한 것이어야 한다.
func NewEngine(model *scoringconfig.Model, opts ...Option) *Engine {
	if model == nil {
		model = scoringconfig.DefaultModel()
	}

	e := &Engine{
		model: model,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Model returns the scoring model in use
func (e *Engine) Model() *scoringconfig.Model {
	return e.model
}

// AlgoVersion returns the model version stamped on snapshots
func (e *Engine) AlgoVersion() string {
	return e.model.Meta.Version
}

// Status maps a rating onto the model's status labels
func (e *Engine) Status(rating int) contracts.StatusLabel {
	return StatusFor(rating, e.model.Status)
}

// ComputeRating scores one product record. Never fails.
func (e *Engine) ComputeRating(rec contracts.ProductRecord) contracts.RatingSnapshot {
	dv := e.demandVelocity(rec.ExternalSignals)
	ro := e.redOceanPressure(rec.ExternalSignals)
	ue := e.unitEconomics(rec.Economics)

	var lp *contracts.PillarScore
	weights := e.model.Weights.Idea
	coverage := coverageFactor(dv, ro, ue)

	if rec.Phase.IsLive() {
		p := e.livePerformance(rec.Performance)
		lp = &p
		weights = e.model.Weights.Live
		coverage = coverageFactor(dv, ro, ue, p)
	}

	z := weights.DemandVelocity*dv.ZScore +
		weights.RedOceanPressure*ro.ZScore +
		weights.UnitEconomics*ue.ZScore
	if lp != nil {
		z += weights.LivePerformance * lp.ZScore
	}
	z = clip(z, e.model.Scale.ZScoreClip)

	rating := toRating(z, e.model.Scale.RatingMin, e.model.Scale.RatingMax)
	sample := e.sampleFactor(rec.Phase, rec.Performance)

	return contracts.RatingSnapshot{
		ID:               e.newID(),
		Rating:           rating,
		ConfidenceIndex:  confidenceIndex(coverage, sample),
		CoverageFactor:   coverage,
		SampleFactor:     sample,
		CompositeZ:       z,
		StatusLabel:      e.Status(rating),
		AlgoVersion:      e.model.Meta.Version,
		Phase:            rec.Phase,
		Timestamp:        e.now().UTC(),
		DemandVelocity:   dv,
		RedOceanPressure: ro,
		UnitEconomics:    ue,
		LivePerformance:  lp,
	}
}

// RateProduct scores a catalog product and stamps its id
func (e *Engine) RateProduct(p *contracts.Product) contracts.RatingSnapshot {
	snap := e.ComputeRating(p.Record())
	snap.ProductID = p.ID
	return snap
}
