// Package rates provides RateSource implementations for the currency
// converter. Live rates are pushed into Redis by an external fetcher; this
// package only reads them.
package rates

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/voyantra/pricing-engine/internal/app/pricing/domain"
)

// lookupTimeout bounds the Redis round trip so a slow cache degrades to the
// fallback rate table instead of stalling quote generation.
const lookupTimeout = 500 * time.Millisecond

// RedisProvider reads exchange rates from Redis keys of the form
// "fx:<FROM>:<TO>" holding a decimal string.
type RedisProvider struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisProvider creates a rate provider over an existing Redis client.
func NewRedisProvider(client *redis.Client, logger *zap.Logger) *RedisProvider {
	return &RedisProvider{
		client: client,
		logger: logger,
	}
}

// NewRedisClient builds a Redis client with the pool settings used across
// our services.
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:            addr,
		Password:        password,
		DB:              db,
		PoolSize:        50,
		MinIdleConns:    5,
		PoolTimeout:     4 * time.Second,
		ConnMaxIdleTime: 5 * time.Minute,
		ConnMaxLifetime: 30 * time.Minute,
		MaxRetries:      3,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}

// Rate returns the cached market rate for the currency pair.
// A miss, a malformed value or a timeout all report ErrRateUnavailable so the
// converter's fallback chain treats them identically.
func (p *RedisProvider) Rate(ctx context.Context, from, to string) (*big.Rat, error) {
	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	key := fmt.Sprintf("fx:%s:%s", from, to)
	val, err := p.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, fmt.Errorf("%s: %w", key, domain.ErrRateUnavailable)
	}
	if err != nil {
		p.logger.Warn("rate lookup failed",
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%s: %w", key, domain.ErrRateUnavailable)
	}

	rate, ok := new(big.Rat).SetString(val)
	if !ok || rate.Sign() <= 0 {
		p.logger.Warn("malformed rate value",
			zap.String("key", key),
			zap.String("value", val),
		)
		return nil, fmt.Errorf("%s: %w", key, domain.ErrRateUnavailable)
	}

	return rate, nil
}
