package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	redisclient "github.com/yungbote/coursehub-backend/internal/clients/redis"
	"github.com/yungbote/coursehub-backend/internal/observability"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
	"github.com/yungbote/coursehub-backend/internal/platform/objectstore"
	"github.com/yungbote/coursehub-backend/internal/services"
)

// Clients holds the external connections. Redis is optional: every redis-backed field stays
// nil without REDIS_ADDR and the services fall back to uncached, unlimited behavior.
type Clients struct {
	Redis       *goredis.Client
	Cache       services.JSONCache
	Revoker     services.TokenRevoker
	RateLimiter *redisclient.RateLimiter
	Store       objectstore.Store
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config, metrics *observability.Metrics) (Clients, error) {
	log.Info("Wiring clients...")
	var out Clients

	if cfg.Redis.Addr != "" {
		rdb, err := redisclient.NewClient(ctx, log, redisclient.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		if err != nil {
			return Clients{}, fmt.Errorf("init redis: %w", err)
		}
		out.Redis = rdb
		out.Cache = redisclient.NewCache(rdb, log, cfg.Redis.Prefix, cfg.Redis.CacheTTL)
		out.Revoker = redisclient.NewTokenDenylist(rdb, cfg.Redis.Prefix)
		out.RateLimiter = redisclient.NewRateLimiter(rdb, cfg.Redis.Prefix, cfg.Redis.RateLimit, cfg.Redis.RateWindow)
	} else {
		log.Warn("REDIS_ADDR not set; catalog cache, token revocation and rate limiting are off")
	}

	store, err := resolveObjectStore(ctx, log, metrics, cfg.ObjectStoreConfig())
	if err != nil {
		out.Close()
		return Clients{}, err
	}
	out.Store = store
	return out, nil
}

func (c Clients) Close() {
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
