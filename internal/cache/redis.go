// Package cache keeps seller settings snapshots in Redis so the calculator
// does not hit the database on every input change.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"wedsnap/internal/domain"
)

const keyPrefix = "wedsnap:settings:"

type Settings struct {
	client *redis.Client
}

// Connect dials Redis and verifies the connection with a ping.
func Connect(ctx context.Context, addr, password string, db int) (*Settings, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &Settings{client: client}, nil
}

func NewSettings(client *redis.Client) *Settings { return &Settings{client: client} }

func (s *Settings) Close() error { return s.client.Close() }

// Get reports ok=false on a miss.
func (s *Settings) Get(ctx context.Context, sellerID string) (domain.EstimateSettings, bool, error) {
	raw, err := s.client.Get(ctx, keyPrefix+sellerID).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.EstimateSettings{}, false, nil
	}
	if err != nil {
		return domain.EstimateSettings{}, false, err
	}
	var out domain.EstimateSettings
	if err := json.Unmarshal(raw, &out); err != nil {
		return domain.EstimateSettings{}, false, fmt.Errorf("decode cached settings: %w", err)
	}
	return out, true, nil
}

func (s *Settings) Set(ctx context.Context, settings domain.EstimateSettings, ttl time.Duration) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, keyPrefix+settings.SellerID, raw, ttl).Err()
}

func (s *Settings) Delete(ctx context.Context, sellerID string) error {
	return s.client.Del(ctx, keyPrefix+sellerID).Err()
}
