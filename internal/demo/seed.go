package demo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/wonny/cohorent/backend/internal/contracts"
	"github.com/wonny/cohorent/backend/internal/recorder"
	"github.com/wonny/cohorent/backend/pkg/logger"
)

// Seed stores products that are not in the catalog yet and returns how many were created
func Seed(ctx context.Context, repo contracts.ProductRepository, products []*contracts.Product, log *logger.Logger) (int, error) {
	created := 0
	for _, p := range products {
		_, err := repo.Get(ctx, p.ID)
		switch {
		case err == nil:
			continue
		case !errors.Is(err, contracts.ErrProductNotFound):
			return created, fmt.Errorf("check %s: %w", p.ID, err)
		}

		if err := repo.Create(ctx, p); err != nil {
			return created, fmt.Errorf("seed %s: %w", p.ID, err)
		}
		created++
	}

	log.WithFields(map[string]interface{}{
		"created": created,
		"skipped": len(products) - created,
	}).Info("Demo catalog seeded")

	return created, nil
}

// Backfill records weekly past snapshots for mature products so that the
// recorder has a trend to show. 각 과거 스냅샷은 현재 레이팅 ±50, 신뢰도 ±0.1
func (g *Generator) Backfill(ctx context.Context, rec recorder.Recorder, engine contracts.RatingEngine, products []*contracts.Product) (int, error) {
	recorded := 0
	for _, p := range products {
		if p.Phase != contracts.PhaseMatureLive {
			continue
		}

		current := engine.ComputeRating(p.Record())
		current.ProductID = p.ID

		weeks := g.intBetween(3, 7)
		for i := weeks; i >= 1; i-- {
			snap := current
			snap.ID = fmt.Sprintf("%s_w%d", p.ID, i)
			snap.Rating = clampInt(current.Rating+g.intBetween(-50, 50), 300, 900)
			confidence := clampFloat(current.ConfidenceIndex+g.floatBetween(-0.1, 0.1), 0.3, 1)
			snap.ConfidenceIndex = math.Round(confidence*100) / 100
			snap.Timestamp = g.now.Add(-time.Duration(i) * 7 * 24 * time.Hour)

			if err := rec.Record(ctx, snap); err != nil {
				return recorded, fmt.Errorf("backfill %s: %w", p.ID, err)
			}
			recorded++
		}
	}
	return recorded, nil
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

func clampFloat(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}
