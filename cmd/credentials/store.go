package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/hasbyte1/go-credentials/config"
	"github.com/hasbyte1/go-credentials/credential"
	"github.com/hasbyte1/go-credentials/credential/inmemory"
	"github.com/hasbyte1/go-credentials/credential/pgstore"
	"github.com/hasbyte1/go-credentials/credential/redisstore"
)

// openRepository connects the backend named by cfg.Store.  The memory store
// lives only as long as the process.
func openRepository(ctx context.Context, cfg *config.Config, logger *slog.Logger) (credential.Repository, func(), error) {
	switch cfg.Store {
	case config.StoreRedis:
		//nolint:exhaustruct
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.RedisAddr, err)
		}

		logger.DebugContext(ctx, "using redis store",
			slog.String("addr", cfg.RedisAddr), slog.String("prefix", cfg.RedisPrefix))

		return redisstore.New(rdb, cfg.RedisPrefix), func() { _ = rdb.Close() }, nil

	case config.StorePostgres:
		pool, err := pgstore.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}

		repo := pgstore.New(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}

		logger.DebugContext(ctx, "using postgres store")

		return repo, pool.Close, nil

	default:
		logger.WarnContext(ctx, "using in-memory store; credentials are lost on exit")
		return inmemory.New(), func() {}, nil
	}
}
