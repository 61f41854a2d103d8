package database_test

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/cohorent/backend/pkg/config"
	"github.com/wonny/cohorent/backend/pkg/database"
	"github.com/wonny/cohorent/backend/pkg/logger"
)

// Example opens the pool used by the postgres product store
// (STORE_DRIVER=postgres) and prints its health.
func Example() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("config:", err)
		return
	}
	cfg.Database.TraceQueries = true

	// query tracing 은 logger 로 전달
	db, err := database.New(cfg, logger.New(cfg))
	if err != nil {
		fmt.Println("connect:", err)
		return
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	status, err := db.HealthCheck(ctx)
	if err != nil {
		fmt.Println("health:", err)
		return
	}

	fmt.Printf("healthy=%v response=%v conns=%d/%d\n",
		status.Healthy, status.ResponseTime, status.Stats.AcquiredConns, status.Stats.MaxConns)
}
