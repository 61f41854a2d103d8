package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/cohorent/backend/internal/api"
	"github.com/wonny/cohorent/backend/internal/api/handlers"
	"github.com/wonny/cohorent/backend/internal/demo"
	"github.com/wonny/cohorent/backend/internal/notifier"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

이 명령어는:
- HTTP API 서버 시작
- 제품 CRUD / 레이팅 조회 엔드포인트 제공
- SCHEDULER_ENABLED=true 이면 재채점 스케줄러 동시 실행
- DEMO_SEED=true 이면 샘플 카탈로그 적재

Endpoints:
  GET    /health
  GET    /api
  GET    /api/products
  POST   /api/products
  GET    /api/products/{id}
  PUT    /api/products/{id}
  DELETE /api/products/{id}
  GET    /api/products/{id}/rating-history
  GET    /api/portfolio/summary
  POST   /api/score

Example:
  go run ./cmd/cohorent api
  go run ./cmd/cohorent api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (기본값: PORT 환경변수)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Cohorent API Server ===")

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// 1. Wire dependencies
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	cfg, log := a.cfg, a.log
	if apiPort != "" {
		cfg.Port = apiPort
	}

	log.WithFields(map[string]interface{}{
		"port":  cfg.Port,
		"env":   cfg.Env,
		"store": cfg.Store.Driver,
	}).Info("Initializing API server")

	// 2. Demo catalog
	if cfg.Demo.Seed {
		if err := seedDemo(ctx, a, cfg.Demo.Count, demo.DefaultSeed, false); err != nil {
			return err
		}
	}

	// 3. Scheduler (optional)
	if cfg.Scheduler.Enabled {
		n, err := notifier.FromConfig(cfg, log, a.redis)
		if err != nil {
			return fmt.Errorf("init notifier: %w", err)
		}
		sched, err := newScheduler(a, n)
		if err != nil {
			return fmt.Errorf("init scheduler: %w", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	// 4. Handlers & router
	productHandler := handlers.NewProductHandler(a.service, log)
	indexHandler := handlers.NewIndexHandler(a.engine.AlgoVersion())

	router := api.NewRouter(productHandler, indexHandler, api.RouterOptions{
		AllowedOrigins:     cfg.API.CORSAllowedOrigins,
		RateLimitPerMinute: cfg.API.RateLimitPerMinute,
		Redis:              a.redis,
	}, log)

	// 5. Create server
	server := api.New(cfg, log, router)

	// 6. Start server with graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Printf("   Rating algorithm: %s\n", a.engine.AlgoVersion())
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal or server failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
