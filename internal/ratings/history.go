package ratings

import (
	"context"
	"time"

	"github.com/wonny/cohorent/backend/internal/contracts"
)

// 합성 이력: N일 전 시점에 현재 레이팅에서 offset 만큼 낮은 값
var historyOffsets = []struct {
	daysAgo int
	delta   int
}{
	{90, 30},
	{60, 20},
	{30, 10},
}

// History returns the rating trend of a product, oldest first.
// 저장된 과거 스냅샷이 아니라 현재 레이팅에서 파생한 합성 이력이다.
// 라벨은 조정된 레이팅으로 다시 계산한다.
func (s *Service) History(ctx context.Context, id string) ([]RatingSummary, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	snap, err := s.rate(ctx, p)
	if err != nil {
		return nil, err
	}
	return s.syntheticHistory(snap), nil
}

func (s *Service) syntheticHistory(current contracts.RatingSnapshot) []RatingSummary {
	now := s.now().UTC()
	ratingMin := s.engine.Model().Scale.RatingMin

	points := make([]RatingSummary, 0, len(historyOffsets)+1)
	for _, o := range historyOffsets {
		point := summarize(current)
		point.Rating = max(ratingMin, current.Rating-o.delta)
		point.StatusLabel = s.engine.Status(point.Rating)
		point.Timestamp = now.Add(-time.Duration(o.daysAgo) * 24 * time.Hour)
		points = append(points, point)
	}

	latest := summarize(current)
	latest.Timestamp = now
	return append(points, latest)
}
