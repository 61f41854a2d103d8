package ratings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wonny/cohorent/backend/internal/contracts"
)

// RescoreResult summarizes one full rescoring pass
type RescoreResult struct {
	Scored      int                          `json:"scored"`
	Transitions []contracts.StatusTransition `json:"transitions"`
	Duration    time.Duration                `json:"duration"`
}

// RescoreAll scores every product, records the snapshots and returns
// products whose status label changed since the previous pass.
// 이전 결과가 없는 제품(첫 채점)은 전이로 보지 않는다.
func (s *Service) RescoreAll(ctx context.Context) (*RescoreResult, error) {
	start := time.Now()

	all, err := s.rateAll(ctx, s.rateFresh)
	if err != nil {
		return nil, err
	}

	result := &RescoreResult{Transitions: []contracts.StatusTransition{}}
	var errs []error

	for _, r := range all {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		snap := r.snapshot
		prev, found := s.previous(ctx, r.product.ID)

		if err := s.recorder.Record(ctx, snap); err != nil {
			errs = append(errs, fmt.Errorf("record %s: %w", r.product.ID, err))
		}
		result.Scored++

		s.mu.Lock()
		s.last[r.product.ID] = lastRating{rating: snap.Rating, label: snap.StatusLabel}
		s.mu.Unlock()

		if !found || prev.label == snap.StatusLabel {
			continue
		}

		t := contracts.StatusTransition{
			ProductID:      r.product.ID,
			ProductName:    r.product.Name,
			From:           prev.label,
			To:             snap.StatusLabel,
			PreviousRating: prev.rating,
			Rating:         snap.Rating,
			At:             snap.Timestamp,
		}
		if err := s.recorder.RecordTransition(ctx, t); err != nil {
			errs = append(errs, fmt.Errorf("record transition %s: %w", r.product.ID, err))
		}
		result.Transitions = append(result.Transitions, t)
	}

	result.Duration = time.Since(start)

	s.logger.WithFields(map[string]interface{}{
		"scored":      result.Scored,
		"transitions": len(result.Transitions),
		"duration":    result.Duration.String(),
	}).Info("Rescore completed")

	// 기록 실패는 결과와 함께 반환 (전이는 이미 계산됨)
	return result, errors.Join(errs...)
}

// previous returns the last known rating of a product: in-process first,
// then the newest recorded snapshot
func (s *Service) previous(ctx context.Context, id string) (lastRating, bool) {
	s.mu.Lock()
	prev, ok := s.last[id]
	s.mu.Unlock()
	if ok {
		return prev, true
	}

	entries, err := s.recorder.History(ctx, id, 1)
	if err != nil {
		s.logger.WithError(err).WithField("product_id", id).Warn("Failed to load previous rating")
		return lastRating{}, false
	}
	if len(entries) == 0 {
		return lastRating{}, false
	}
	return lastRating{rating: entries[0].Rating, label: entries[0].StatusLabel}, true
}
