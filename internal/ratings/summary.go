package ratings

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wonny/cohorent/backend/internal/contracts"
	"github.com/wonny/cohorent/backend/pkg/redis"
)

// PortfolioSummary aggregates ratings over the whole catalog
type PortfolioSummary struct {
	Total          int                           `json:"total"`
	ByStatus       map[contracts.StatusLabel]int `json:"byStatus"`
	ByPhase        map[string]int                `json:"byPhase"`
	MeanRating     float64                       `json:"meanRating"`
	MeanConfidence float64                       `json:"meanConfidence"`
	AlgoVersion    string                        `json:"algoVersion"`
	GeneratedAt    time.Time                     `json:"generatedAt"`
}

// PortfolioSummary returns label and phase counts plus mean rating and confidence
func (s *Service) PortfolioSummary(ctx context.Context) (*PortfolioSummary, error) {
	if s.cache == nil {
		return s.buildSummary(ctx)
	}

	var summary PortfolioSummary
	key := redis.PortfolioSummaryKey(s.engine.AlgoVersion())
	err := s.cache.GetOrSet(ctx, key, &summary, redis.TTLShort, func() (interface{}, error) {
		return s.buildSummary(ctx)
	})
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (s *Service) buildSummary(ctx context.Context) (*PortfolioSummary, error) {
	all, err := s.rateAll(ctx, s.rate)
	if err != nil {
		return nil, err
	}

	summary := &PortfolioSummary{
		Total:       len(all),
		ByStatus:    make(map[contracts.StatusLabel]int),
		ByPhase:     make(map[string]int),
		AlgoVersion: s.engine.AlgoVersion(),
		GeneratedAt: s.now().UTC(),
	}
	for _, label := range contracts.AllStatusLabels() {
		summary.ByStatus[label] = 0
	}
	for _, phase := range contracts.AllPhases() {
		summary.ByPhase[phase.String()] = 0
	}

	ratingSum := decimal.Zero
	confidenceSum := decimal.Zero
	for _, r := range all {
		summary.ByStatus[r.snapshot.StatusLabel]++
		summary.ByPhase[r.product.Phase.String()]++
		ratingSum = ratingSum.Add(decimal.NewFromInt(int64(r.snapshot.Rating)))
		confidenceSum = confidenceSum.Add(decimal.NewFromFloat(r.snapshot.ConfidenceIndex))
	}

	if n := len(all); n > 0 {
		count := decimal.NewFromInt(int64(n))
		summary.MeanRating = ratingSum.DivRound(count, 1).InexactFloat64()
		summary.MeanConfidence = confidenceSum.DivRound(count, 2).InexactFloat64()
	}
	return summary, nil
}
