package state

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"shopcart/internal/config"
	"shopcart/internal/db"
)

// Open builds the Repository selected by cfg.StoreBackend. The returned
// closer releases its connections.
func Open(ctx context.Context, cfg config.Config, logger *zap.Logger) (Repository, func(), error) {
	switch cfg.StoreBackend {
	case config.StoreMemory, "":
		return NewMemory(), func() {}, nil
	case config.StorePostgres:
		pool, err := db.Connect(ctx, cfg.DBConnString, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		return NewPostgres(pool, logger), pool.Close, nil
	case config.StoreRedis:
		rdb := NewRedisClient(cfg.RedisAddr)
		repo := NewRedis(rdb, cfg.RedisTTL)
		if err := repo.Ping(ctx); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		return repo, func() { _ = rdb.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
