package store

import (
	"context"

	"github.com/MKhiriev/go-task-keeper/internal/config"
	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/redis/go-redis/v9"
)

// NewConnectRedis creates a Redis client and pings it. The client is returned
// even when the ping fails: every consumer degrades while Redis is down and
// go-redis reconnects on its own once it comes back.
func NewConnectRedis(ctx context.Context, cfg config.Cache, log *logger.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).
			Str("func", "NewConnectRedis").
			Str("address", cfg.Address).
			Msg("redis is unreachable, continuing in degraded mode")
		return client, err
	}

	log.Info().Str("func", "NewConnectRedis").Msg("connected to redis successfully")
	return client, nil
}
