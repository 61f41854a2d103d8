package jobs

import (
	"context"

	"github.com/wonny/cohorent/backend/internal/notifier"
	"github.com/wonny/cohorent/backend/internal/ratings"
	"github.com/wonny/cohorent/backend/pkg/logger"
)

// Rescorer is the part of ratings.Service the job needs
type Rescorer interface {
	RescoreAll(ctx context.Context) (*ratings.RescoreResult, error)
}

// RescoreJob rescores the whole catalog and alerts on status label changes
type RescoreJob struct {
	rescorer Rescorer
	notifier notifier.Notifier
	schedule string
	logger   *logger.Logger
}

// NewRescoreJob creates a new rescoring job
func NewRescoreJob(rescorer Rescorer, n notifier.Notifier, schedule string, log *logger.Logger) *RescoreJob {
	if n == nil {
		n = notifier.Noop{}
	}
	return &RescoreJob{
		rescorer: rescorer,
		notifier: n,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *RescoreJob) Name() string {
	return "rescore"
}

// Schedule returns the cron schedule
func (j *RescoreJob) Schedule() string {
	return j.schedule
}

// Run executes one rescoring pass
func (j *RescoreJob) Run(ctx context.Context) error {
	result, err := j.rescorer.RescoreAll(ctx)
	if result == nil {
		return err
	}
	// 기록 실패는 재시도하지 않음 (재실행 시 전이가 이미 소비되어 알림이 누락됨)
	if err != nil {
		j.logger.WithError(err).Warn("Rescore finished with recorder errors")
	}

	if len(result.Transitions) == 0 {
		return nil
	}

	if err := j.notifier.NotifyTransitions(ctx, result.Transitions); err != nil {
		j.logger.WithError(err).WithField("transitions", len(result.Transitions)).Error("Failed to send status alerts")
		return nil
	}

	j.logger.WithField("transitions", len(result.Transitions)).Info("Status alerts sent")
	return nil
}
