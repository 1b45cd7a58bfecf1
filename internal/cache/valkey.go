package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds Valkey connection settings.
type Config struct {
	Addr     string
	Password string
	TTL      time.Duration
}

// ValkeyClient caches rendered event list responses.
type ValkeyClient struct {
	client *redis.Client
	ttl    time.Duration
}

func NewValkeyClient(cfg Config) (*ValkeyClient, error) {
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Second
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           0,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Valkey: %w", err)
	}

	return &ValkeyClient{client: rdb, ttl: cfg.TTL}, nil
}

func eventsListKey(page, pageSize int) string {
	return fmt.Sprintf("events:list:%d:%d", page, pageSize)
}

// GetEventsList returns the cached raw JSON for an events page, or nil
// on a miss.
func (v *ValkeyClient) GetEventsList(ctx context.Context, page, pageSize int) ([]byte, error) {
	data, err := v.client.Get(ctx, eventsListKey(page, pageSize)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("cache lookup error: %w", err)
	}
	return data, nil
}

// SetEventsList stores the raw JSON for an events page.
func (v *ValkeyClient) SetEventsList(ctx context.Context, page, pageSize int, data []byte) error {
	return v.client.Set(ctx, eventsListKey(page, pageSize), data, v.ttl).Err()
}

// InvalidateEvents drops all cached event list pages. Called after any
// write that changes what a list response would contain.
func (v *ValkeyClient) InvalidateEvents(ctx context.Context) error {
	iter := v.client.Scan(ctx, 0, "events:list:*", 100).Iterator()
	for iter.Next(ctx) {
		if err := v.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("cache invalidation error: %w", err)
		}
	}
	return iter.Err()
}

func (v *ValkeyClient) Close() error {
	return v.client.Close()
}
