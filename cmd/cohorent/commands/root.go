package commands

import (
	"github.com/spf13/cobra"

	"github.com/wonny/cohorent/backend/pkg/config"
)

var (
	// Global flags
	env     string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cohorent",
	Short: "Cohorent - 제품 포트폴리오 스코어링 엔진",
	Long: `Cohorent Unified CLI

제품별 시장 신호, 단위 경제성, 판매 성과를 하나의 300-900 rating 으로 환산하고
Scale / Optimize / Test / Retire 라벨을 부여합니다.

Usage:
  go run ./cmd/cohorent [command]

Examples:
  go run ./cmd/cohorent api
  go run ./cmd/cohorent score product.json
  go run ./cmd/cohorent seed --count 15
  go run ./cmd/cohorent model validate configs/scoring/cohorent_v1.yaml`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&env, "env", "", "environment override (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug log level")
}

// loadConfig loads config and applies global flag overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if env != "" {
		cfg.Env = env
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}
