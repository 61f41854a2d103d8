package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/cohorent/backend/internal/notifier"
	"github.com/wonny/cohorent/backend/internal/scheduler"
	"github.com/wonny/cohorent/backend/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "스케줄러 관리",
	Long: `재채점 스케줄러를 시작하거나 작업을 조회합니다.

Subcommands:
  start   - 스케줄러 시작 (API 서버 없이)
  list    - 등록된 작업 목록

Example:
  go run ./cmd/cohorent scheduler start
  go run ./cmd/cohorent scheduler list`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "스케줄러 시작",
		Long: `스케줄러를 시작하고 등록된 모든 작업을 스케줄합니다.

등록되는 작업:
- rescore: RESCORE_SCHEDULE (기본 6시간마다) 전체 재채점 + 라벨 변경 알림
- recorder_prune: 매일 03:30 RECORDER_RETENTION_DAYS 보다 오래된 기록 삭제

스케줄러는 Ctrl+C로 종료할 수 있습니다.`,
		RunE: runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "등록된 작업 목록",
		RunE:  listJobs,
	}
)

var runOnStart bool

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)

	schedulerStartCmd.Flags().BoolVar(&runOnStart, "run-now", false, "시작 직후 rescore 1회 실행")
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Cohorent Scheduler ===")

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	n, err := notifier.FromConfig(a.cfg, a.log, a.redis)
	if err != nil {
		return fmt.Errorf("init notifier: %w", err)
	}

	sched, err := newScheduler(a, n)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	sched.Start()
	if runOnStart {
		if err := sched.RunJob("rescore"); err != nil {
			return err
		}
	}

	PrintSuccess("Scheduler started successfully")
	printJobs(sched)
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down scheduler...")
	sched.Stop()
	fmt.Println("Scheduler stopped")

	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := newScheduler(a, notifier.Noop{})
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	printJobs(sched)
	return nil
}

func printJobs(sched *scheduler.Scheduler) {
	fmt.Println("\nRegistered jobs:")

	widths := []int{16, 20, 20}
	PrintTableHeader([]string{"NAME", "SCHEDULE", "NEXT RUN"}, widths)
	for _, job := range sched.GetAllJobs() {
		next := "-"
		if job.NextRun != nil {
			next = job.NextRun.Format("2006-01-02 15:04:05")
		}
		PrintTableRow([]string{job.Name, job.Schedule, next}, widths)
	}
}

// newScheduler registers the rescoring and recorder maintenance jobs
func newScheduler(a *app, n notifier.Notifier) (*scheduler.Scheduler, error) {
	sched := scheduler.New(a.log, scheduler.WithRetry(3, a.cfg.Scheduler.RetryDelay))

	if err := sched.AddJob(jobs.NewRescoreJob(a.service, n, a.cfg.Scheduler.RescoreSchedule, a.log)); err != nil {
		return nil, err
	}
	if err := sched.AddJob(jobs.NewRecorderPruneJob(a.recorder, a.cfg.Recorder.RetentionDays, a.log)); err != nil {
		return nil, err
	}

	return sched, nil
}
