package recorder

import (
	"context"
	"time"

	"github.com/wonny/cohorent/backend/internal/contracts"
	"github.com/wonny/cohorent/backend/pkg/logger"
)

// Entry is one recorded rating snapshot
type Entry struct {
	SnapshotID      string                `json:"snapshotId"`
	ProductID       string                `json:"productId"`
	Rating          int                   `json:"rating"`
	ConfidenceIndex float64               `json:"confidenceIndex"`
	StatusLabel     contracts.StatusLabel `json:"statusLabel"`
	AlgoVersion     string                `json:"algoVersion"`
	Phase           contracts.Phase       `json:"phase"`
	Timestamp       time.Time             `json:"timestamp"`
}

// Recorder persists rating snapshots and status transitions for later analysis.
type Recorder interface {
	Record(ctx context.Context, snap contracts.RatingSnapshot) error
	RecordTransition(ctx context.Context, t contracts.StatusTransition) error
	History(ctx context.Context, productID string, limit int) ([]Entry, error)
	Transitions(ctx context.Context, limit int) ([]contracts.StatusTransition, error)
	Prune(ctx context.Context, before time.Time) (int64, error)
	Close() error
}

var (
	_ Recorder = (*SQLiteRecorder)(nil)
	_ Recorder = (*NoopRecorder)(nil)
)

// Open returns a SQLite recorder for path, or a no-op recorder when path is empty
func Open(path string, log *logger.Logger) (Recorder, error) {
	if path == "" {
		return NewNoopRecorder(), nil
	}
	return NewSQLiteRecorder(path, log)
}
