package catalog

import (
	"context"
	"fmt"

	"github.com/wonny/cohorent/backend/internal/contracts"
	"github.com/wonny/cohorent/backend/pkg/config"
	"github.com/wonny/cohorent/backend/pkg/database"
	"github.com/wonny/cohorent/backend/pkg/logger"
)

// Open returns the product store selected by cfg.Store.Driver.
// 반환된 close 함수는 항상 non-nil 이며 호출자가 종료 시 호출해야 한다.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (contracts.ProductRepository, func(), error) {
	switch cfg.Store.Driver {
	case "", config.StoreMemory:
		log.Info("Using in-memory product store")
		return NewMemoryRepository(), func() {}, nil

	case config.StorePostgres:
		db, err := database.New(cfg, log)
		if err != nil {
			return nil, nil, fmt.Errorf("connect product store: %w", err)
		}

		repo := NewPostgresRepository(db.Pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}

		log.Info("Using postgres product store")
		return repo, db.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
