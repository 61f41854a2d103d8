package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/cohorent/backend/internal/notifier"
)

// rescoreCmd represents the rescore command
var rescoreCmd = &cobra.Command{
	Use:   "rescore",
	Short: "전체 제품 재채점",
	Long: `모든 제품을 다시 채점하고 스냅샷을 recorder 에 기록합니다.
상태 라벨이 바뀐 제품은 설정된 알림 채널(Telegram / Webhook)로 전송합니다.

Example:
  go run ./cmd/cohorent rescore
  go run ./cmd/cohorent rescore --notify=false`,
	RunE: runRescore,
}

var rescoreNotify bool

func init() {
	rootCmd.AddCommand(rescoreCmd)

	rescoreCmd.Flags().BoolVar(&rescoreNotify, "notify", true, "라벨 변경 알림 전송")
}

func runRescore(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.service.RescoreAll(ctx)
	if result == nil {
		return fmt.Errorf("rescore: %w", err)
	}
	if err != nil {
		PrintWarning(fmt.Sprintf("Rescore finished with errors: %v", err))
	}

	PrintHeader("Rescore")
	PrintKeyValue("Scored", fmt.Sprintf("%d", result.Scored), 12)
	PrintKeyValue("Transitions", fmt.Sprintf("%d", len(result.Transitions)), 12)
	PrintKeyValue("Duration", result.Duration.String(), 12)

	if len(result.Transitions) > 0 {
		PrintSeparator()
		widths := []int{14, 10, 10, 16}
		PrintTableHeader([]string{"PRODUCT", "FROM", "TO", "RATING"}, widths)
		for _, t := range result.Transitions {
			PrintTableRow([]string{
				t.ProductID,
				string(t.From),
				string(t.To),
				fmt.Sprintf("%d → %d", t.PreviousRating, t.Rating),
			}, widths)
		}
	}
	PrintDoubleSeparator()

	if !rescoreNotify || len(result.Transitions) == 0 {
		return nil
	}

	n, err := notifier.FromConfig(a.cfg, a.log, a.redis)
	if err != nil {
		return fmt.Errorf("init notifier: %w", err)
	}
	if err := n.NotifyTransitions(ctx, result.Transitions); err != nil {
		return fmt.Errorf("send alerts: %w", err)
	}
	PrintSuccess("Alerts sent")
	return nil
}
