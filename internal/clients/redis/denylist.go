package redis

import (
	"context"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// TokenDenylist remembers revoked access-token ids until they would have expired anyway.
// A nil *TokenDenylist revokes nothing.
type TokenDenylist struct {
	rdb    goredis.UniversalClient
	prefix string
}

func NewTokenDenylist(rdb goredis.UniversalClient, prefix string) *TokenDenylist {
	if rdb == nil {
		return nil
	}
	return &TokenDenylist{rdb: rdb, prefix: prefix}
}

func (d *TokenDenylist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	tokenID = strings.TrimSpace(tokenID)
	if d == nil || tokenID == "" || ttl <= 0 {
		return nil
	}
	return d.rdb.Set(ctx, key(d.prefix, "revoked", tokenID), "1", ttl).Err()
}

func (d *TokenDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	tokenID = strings.TrimSpace(tokenID)
	if d == nil || tokenID == "" {
		return false, nil
	}
	n, err := d.rdb.Exists(ctx, key(d.prefix, "revoked", tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
