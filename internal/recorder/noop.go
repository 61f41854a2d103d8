package recorder

import (
	"context"
	"time"

	"github.com/wonny/cohorent/backend/internal/contracts"
)

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) Record(context.Context, contracts.RatingSnapshot) error { return nil }
func (n *NoopRecorder) RecordTransition(context.Context, contracts.StatusTransition) error {
	return nil
}
func (n *NoopRecorder) History(context.Context, string, int) ([]Entry, error) { return nil, nil }
func (n *NoopRecorder) Transitions(context.Context, int) ([]contracts.StatusTransition, error) {
	return nil, nil
}
func (n *NoopRecorder) Prune(context.Context, time.Time) (int64, error) { return 0, nil }
func (n *NoopRecorder) Close() error                                   { return nil }
