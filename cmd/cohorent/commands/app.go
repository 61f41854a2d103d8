package commands

import (
	"context"
	"fmt"

	"github.com/wonny/cohorent/backend/internal/catalog"
	"github.com/wonny/cohorent/backend/internal/contracts"
	"github.com/wonny/cohorent/backend/internal/ratings"
	"github.com/wonny/cohorent/backend/internal/recorder"
	"github.com/wonny/cohorent/backend/internal/scoring"
	"github.com/wonny/cohorent/backend/internal/scoringconfig"
	"github.com/wonny/cohorent/backend/pkg/config"
	"github.com/wonny/cohorent/backend/pkg/logger"
	"github.com/wonny/cohorent/backend/pkg/redis"
)

// app bundles the wired dependencies shared by the commands
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	repo     contracts.ProductRepository
	redis    *redis.Client
	recorder recorder.Recorder
	engine   *scoring.Engine
	service  *ratings.Service

	closers []func()
}

// newEngine loads and validates the scoring model
func newEngine(cfg *config.Config, log *logger.Logger) (*scoring.Engine, error) {
	model, err := scoringconfig.LoadOrDefault(cfg.Scoring.ModelPath)
	if err != nil {
		return nil, err
	}
	if err := scoringconfig.Validate(model); err != nil {
		return nil, fmt.Errorf("invalid scoring model: %w", err)
	}
	for _, w := range scoringconfig.Warn(model) {
		log.WithField("code", w.Code).Warn(w.Message)
	}

	log.WithFields(map[string]interface{}{
		"model_id":     model.Meta.ModelID,
		"algo_version": model.Meta.Version,
	}).Info("Scoring model loaded")

	return scoring.NewEngine(model), nil
}

// newApp wires config, logger, store, cache, recorder, engine and service
func newApp(ctx context.Context) (*app, error) {
	// 1. Load config
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	a := &app{cfg: cfg, log: log}

	// 3. Product store
	repo, closeRepo, err := catalog.Open(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("open product store: %w", err)
	}
	a.repo = repo
	a.closers = append(a.closers, closeRepo)

	// 4. Redis (비활성이면 캐시/limiter 는 pass-through)
	rdb, err := redis.New(cfg)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	a.redis = rdb
	a.closers = append(a.closers, func() { _ = rdb.Close() })

	// 5. Rating recorder
	rec, err := recorder.Open(cfg.Recorder.SQLitePath, log)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("open recorder: %w", err)
	}
	a.recorder = rec
	a.closers = append(a.closers, func() { _ = rec.Close() })

	// 6. Scoring engine
	engine, err := newEngine(cfg, log)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.engine = engine

	// 7. Ratings service
	a.service = ratings.NewService(repo, engine, log,
		ratings.WithCache(redis.NewCache(rdb, "cohorent")),
		ratings.WithRecorder(rec),
	)

	return a, nil
}

// Close releases resources in reverse order
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
