package jobs

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/cohorent/backend/internal/contracts"
	"github.com/wonny/cohorent/backend/internal/ratings"
	"github.com/wonny/cohorent/backend/internal/recorder"
	"github.com/wonny/cohorent/backend/pkg/logger"
)

type fakeRescorer struct {
	result *ratings.RescoreResult
	err    error
}

func (f *fakeRescorer) RescoreAll(context.Context) (*ratings.RescoreResult, error) {
	return f.result, f.err
}

type recordingNotifier struct {
	got []contracts.StatusTransition
	err error
}

func (r *recordingNotifier) NotifyTransitions(_ context.Context, t []contracts.StatusTransition) error {
	r.got = append(r.got, t...)
	return r.err
}

func transition() contracts.StatusTransition {
	return contracts.StatusTransition{
		ProductID: "prod_001", From: contracts.StatusOptimize, To: contracts.StatusScale,
		PreviousRating: 690, Rating: 705,
	}
}

func TestRescoreJob_NotifiesTransitions(t *testing.T) {
	n := &recordingNotifier{}
	job := NewRescoreJob(&fakeRescorer{result: &ratings.RescoreResult{
		Scored:      3,
		Transitions: []contracts.StatusTransition{transition()},
	}}, n, "0 0 */6 * * *", logger.NewNop())

	assert.Equal(t, "rescore", job.Name())
	assert.Equal(t, "0 0 */6 * * *", job.Schedule())
	require.NoError(t, job.Run(context.Background()))
	require.Len(t, n.got, 1)
	assert.Equal(t, "prod_001", n.got[0].ProductID)
}

func TestRescoreJob_NoTransitions(t *testing.T) {
	n := &recordingNotifier{}
	job := NewRescoreJob(&fakeRescorer{result: &ratings.RescoreResult{Scored: 3}}, n, "@hourly", logger.NewNop())

	require.NoError(t, job.Run(context.Background()))
	assert.Empty(t, n.got)
}

func TestRescoreJob_Errors(t *testing.T) {
	// 목록 조회 실패 → 재시도 대상
	job := NewRescoreJob(&fakeRescorer{err: errors.New("db down")}, nil, "@hourly", logger.NewNop())
	assert.EqualError(t, job.Run(context.Background()), "db down")

	// 기록/알림 실패는 재시도하지 않음
	n := &recordingNotifier{err: errors.New("telegram down")}
	job = NewRescoreJob(&fakeRescorer{
		result: &ratings.RescoreResult{Transitions: []contracts.StatusTransition{transition()}},
		err:    errors.New("disk full"),
	}, n, "@hourly", logger.NewNop())
	assert.NoError(t, job.Run(context.Background()))
	assert.Len(t, n.got, 1)
}

func TestRecorderPruneJob(t *testing.T) {
	ctx := context.Background()
	rec, err := recorder.NewSQLiteRecorder(filepath.Join(t.TempDir(), "r.db"), nil)
	require.NoError(t, err)
	defer rec.Close()

	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	for i, age := range []int{200, 10} {
		require.NoError(t, rec.Record(ctx, contracts.RatingSnapshot{
			ID:        []string{"old", "new"}[i],
			ProductID: "prod_001",
			Rating:    600,
			Timestamp: now.Add(-time.Duration(age) * 24 * time.Hour),
		}))
	}

	job := NewRecorderPruneJob(rec, 180, logger.NewNop())
	job.now = func() time.Time { return now }
	require.NoError(t, job.Run(ctx))

	entries, err := rec.History(ctx, "prod_001", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "new", entries[0].SnapshotID)

	keep := NewRecorderPruneJob(rec, 0, logger.NewNop())
	require.NoError(t, keep.Run(ctx))
}
