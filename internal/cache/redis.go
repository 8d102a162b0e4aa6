package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/nurpe/wasteops-admin/internal/config"
	"github.com/nurpe/wasteops-admin/internal/model"
)

const binStatsKey = "wasteops:bins:stats"

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// StatsCache keeps the bin overview in redis between writes.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	return &StatsCache{client: client, ttl: ttl}
}

// GetBinStats returns nil without error on a miss.
func (c *StatsCache) GetBinStats(ctx context.Context) (*model.BinStats, error) {
	raw, err := c.client.Get(ctx, binStatsKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var stats model.BinStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *StatsCache) SetBinStats(ctx context.Context, stats model.BinStats) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, binStatsKey, raw, c.ttl).Err()
}

func (c *StatsCache) InvalidateBinStats(ctx context.Context) error {
	return c.client.Del(ctx, binStatsKey).Err()
}
