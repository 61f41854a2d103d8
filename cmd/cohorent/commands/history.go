package commands

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history <product-id>",
	Short: "제품 레이팅 이력 조회",
	Long: `recorder 에 기록된 레이팅 스냅샷을 최신순으로 출력합니다.
recorder 가 비활성(RECORDER_SQLITE_PATH 미설정)이거나 기록이 없으면
API 와 같은 추정 이력(90/60/30일 전 + 현재)을 보여줍니다.

Example:
  go run ./cmd/cohorent history prod_001
  go run ./cmd/cohorent history prod_001 --limit 20`,
	Args: cobra.ExactArgs(1),
	RunE: runHistory,
}

var historyLimit int

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "최대 출력 건수")
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id := args[0]

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	widths := []int{20, 8, 12, 10, 8}
	columns := []string{"TIMESTAMP", "RATING", "CONFIDENCE", "STATUS", "ALGO"}

	entries, err := a.recorder.History(ctx, id, historyLimit)
	if err != nil {
		return fmt.Errorf("load recorded history: %w", err)
	}

	if len(entries) > 0 {
		PrintHeader(fmt.Sprintf("Recorded history: %s", id))
		PrintTableHeader(columns, widths)
		for _, e := range entries {
			PrintTableRow([]string{
				e.Timestamp.Format("2006-01-02 15:04:05"),
				fmt.Sprintf("%d", e.Rating),
				decimal.NewFromFloat(e.ConfidenceIndex).StringFixed(2),
				string(e.StatusLabel),
				e.AlgoVersion,
			}, widths)
		}
		PrintDoubleSeparator()
		return nil
	}

	history, err := a.service.History(ctx, id)
	if err != nil {
		return fmt.Errorf("load history for %s: %w", id, err)
	}

	PrintHeader(fmt.Sprintf("Estimated history: %s", id))
	PrintTableHeader(columns, widths)
	for _, h := range history {
		PrintTableRow([]string{
			h.Timestamp.Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%d", h.Rating),
			decimal.NewFromFloat(h.ConfidenceIndex).StringFixed(2),
			string(h.StatusLabel),
			h.AlgoVersion,
		}, widths)
	}
	PrintDoubleSeparator()
	PrintInfo("No recorded snapshots; showing estimated trend")
	return nil
}
