package commands

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/cohorent/backend/pkg/database"
	"github.com/wonny/cohorent/backend/pkg/logger"
)

// testDBCmd represents the test-db command
var testDBCmd = &cobra.Command{
	Use:   "test-db",
	Short: "PostgreSQL 연결 테스트",
	Long: `데이터베이스 연결을 테스트하고 풀 통계를 표시합니다.

이 명령어는:
- config에서 DATABASE_URL 로드
- 데이터베이스 연결 생성
- Ping / Health Check 실행
- Connection Pool 통계 표시

Example:
  DATABASE_URL=postgres://... go run ./cmd/cohorent test-db`,
	RunE: runTestDB,
}

func init() {
	rootCmd.AddCommand(testDBCmd)
}

func runTestDB(cmd *cobra.Command, args []string) error {
	fmt.Fprintln(out, "=== Cohorent Database Connection Test ===")

	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is not set")
	}
	PrintSuccess(fmt.Sprintf("Config loaded (ENV: %s)", cfg.Env))
	PrintKeyValue("Database URL", maskPassword(cfg.Database.URL), 12)

	// Create database connection
	db, err := database.New(cfg, logger.New(cfg))
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()
	PrintSuccess("Database connection established")

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()

	if err := db.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	PrintSuccess("Ping successful")

	status, err := db.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("health check: %w", err)
	}

	PrintHeader("Health Check")
	PrintKeyValue("Healthy", fmt.Sprintf("%v", status.Healthy), 22)
	PrintKeyValue("Response Time", status.ResponseTime.String(), 22)
	PrintKeyValue("Timestamp", status.Timestamp.Format(time.RFC3339), 22)
	PrintSeparator()
	PrintKeyValue("Max Connections", fmt.Sprintf("%d", status.Stats.MaxConns), 22)
	PrintKeyValue("Total Connections", fmt.Sprintf("%d", status.Stats.TotalConns), 22)
	PrintKeyValue("Acquired Connections", fmt.Sprintf("%d", status.Stats.AcquiredConns), 22)
	PrintKeyValue("Idle Connections", fmt.Sprintf("%d", status.Stats.IdleConns), 22)
	PrintKeyValue("Acquire Count", fmt.Sprintf("%d", status.Stats.AcquireCount), 22)
	PrintKeyValue("Acquire Duration", status.Stats.AcquireDuration.String(), 22)
	PrintDoubleSeparator()

	PrintSuccess("All tests passed!")
	return nil
}

// maskPassword hides the password of a connection URL
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); !ok {
		return raw
	}
	u.User = url.UserPassword(u.User.Username(), "***")
	return u.String()
}
