package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hansonlew0803/online-ticket-booking-system/config"
	"github.com/hansonlew0803/online-ticket-booking-system/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisCache backs the events listing cache and the auth token denylist.
type RedisCache struct {
	client    *redis.Client
	eventsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, eventsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:    redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		eventsTTL: eventsTTL,
	}
}

func (c *RedisCache) GetEvents(ctx context.Context) ([]domain.Event, error) {
	data, err := c.client.Get(ctx, eventsKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var events []domain.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (c *RedisCache) SetEvents(ctx context.Context, events []domain.Event) error {
	payload, err := json.Marshal(events)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, eventsKey(), payload, c.eventsTTL).Err()
}

// InvalidateEvents drops the cached listing after any committed inventory or
// event mutation so readers never see stale availability for long.
func (c *RedisCache) InvalidateEvents(ctx context.Context) error {
	return c.client.Del(ctx, eventsKey()).Err()
}

func (c *RedisCache) DenyToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return c.client.Set(ctx, denyKey(jti), "revoked", ttl).Err()
}

func (c *RedisCache) IsTokenDenied(ctx context.Context, jti string) (bool, error) {
	n, err := c.client.Exists(ctx, denyKey(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func eventsKey() string {
	return "cache:events"
}

func denyKey(jti string) string {
	return fmt.Sprintf("deny:token:%s", jti)
}
