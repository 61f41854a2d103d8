package jobs

import (
	"context"
	"time"

	"github.com/wonny/cohorent/backend/internal/recorder"
	"github.com/wonny/cohorent/backend/pkg/logger"
)

// RecorderPruneJob deletes recorded snapshots past the retention window
type RecorderPruneJob struct {
	recorder  recorder.Recorder
	retention time.Duration
	now       func() time.Time
	logger    *logger.Logger
}

// NewRecorderPruneJob creates a new prune job. retentionDays <= 0 keeps everything.
func NewRecorderPruneJob(rec recorder.Recorder, retentionDays int, log *logger.Logger) *RecorderPruneJob {
	return &RecorderPruneJob{
		recorder:  rec,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		now:       time.Now,
		logger:    log,
	}
}

// Name returns the job name
func (j *RecorderPruneJob) Name() string {
	return "recorder_prune"
}

// Schedule returns the cron schedule (매일 03:30)
func (j *RecorderPruneJob) Schedule() string {
	return "0 30 3 * * *"
}

// Run executes the prune
func (j *RecorderPruneJob) Run(ctx context.Context) error {
	if j.retention <= 0 {
		return nil
	}

	removed, err := j.recorder.Prune(ctx, j.now().Add(-j.retention))
	if err != nil {
		return err
	}

	if removed > 0 {
		j.logger.WithField("removed", removed).Info("Recorder prune completed")
	}
	return nil
}
