package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/wonny/cohorent/backend/internal/contracts"
	"github.com/wonny/cohorent/backend/pkg/logger"
)

// scoreCmd represents the score command
var scoreCmd = &cobra.Command{
	Use:   "score <file|->",
	Short: "제품 레코드 1건 채점",
	Long: `JSON 제품 레코드를 읽어 레이팅 스냅샷을 출력합니다. 저장하지 않습니다.

입력 형식:
  {"phase": 0, "externalSignals": {...}, "economics": {...}, "performance": {...}}

Example:
  go run ./cmd/cohorent score product.json
  cat product.json | go run ./cmd/cohorent score - --json`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

var scoreJSON bool

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "스냅샷을 JSON 으로 출력")
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	engine, err := newEngine(cfg, log)
	if err != nil {
		return err
	}

	rec, err := readRecord(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}

	snap := engine.ComputeRating(rec)
	if scoreJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}

	PrintSnapshot("Rating Snapshot", snap)
	return nil
}

// readRecord decodes a product record from a file, or from stdin when path is "-"
func readRecord(path string, stdin io.Reader) (contracts.ProductRecord, error) {
	var rec contracts.ProductRecord

	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return rec, fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}

	if err := json.NewDecoder(r).Decode(&rec); err != nil {
		return rec, fmt.Errorf("decode product record: %w", err)
	}
	return rec, nil
}
