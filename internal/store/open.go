package store

import (
	"context"
	"fmt"

	"gameon/internal/config"

	"github.com/rs/zerolog"
)

// Open builds the driver selected by cfg.StoreDriver.
func Open(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (Store, error) {
	logger = logger.With().Str("store", cfg.StoreDriver).Logger()

	var (
		s   Store
		err error
	)
	switch cfg.StoreDriver {
	case config.StoreMemory:
		logger.Warn().Msg("Using in-memory store; data is lost on restart")
		s = NewMemoryStore()
	case config.StoreFile:
		s, err = NewFileStore(cfg.StorePath)
		logger = logger.With().Str("path", cfg.StorePath).Logger()
	case config.StorePostgres:
		s, err = NewPostgresStore(ctx, cfg.DBConnectionString)
	case config.StoreRedis:
		s, err = NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisKeyPrefix)
	case config.StoreMongo:
		s, err = NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
	if err != nil {
		return nil, err
	}
	logger.Info().Msg("Store opened")
	return s, nil
}
