package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/olmosO/doggys/internal/domain"
	"github.com/olmosO/doggys/internal/repository"
	apperrors "github.com/olmosO/doggys/pkg/errors"
)

// Config holds Redis connection configuration.
type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns the Redis address string.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Connect creates a Redis client and verifies the connection.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

// CartRepository implements repository.CartRepository using Redis. It is the
// shared-store alternative to the SQLite file: several client processes on
// the same profile see one cart, last write wins. Keys carry no expiry.
type CartRepository struct {
	client *redis.Client
}

// NewCartRepository creates a Redis-backed cart repository.
func NewCartRepository(client *redis.Client) *CartRepository {
	return &CartRepository{client: client}
}

// Get retrieves the persisted cart lines.
func (r *CartRepository) Get(ctx context.Context) ([]domain.CartLine, error) {
	data, err := r.client.Get(ctx, repository.KeyCart).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.NotFound("local store key", repository.KeyCart)
		}
		return nil, fmt.Errorf("redis get cart: %w", err)
	}

	var lines []domain.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}

	return lines, nil
}

// Save persists the cart lines as a JSON snapshot.
func (r *CartRepository) Save(ctx context.Context, lines []domain.CartLine) error {
	if lines == nil {
		lines = []domain.CartLine{}
	}

	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}

	if err := r.client.Set(ctx, repository.KeyCart, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set cart: %w", err)
	}

	return nil
}

// Delete removes the cart snapshot.
func (r *CartRepository) Delete(ctx context.Context) error {
	if err := r.client.Del(ctx, repository.KeyCart).Err(); err != nil {
		return fmt.Errorf("redis del cart: %w", err)
	}

	return nil
}

// SessionRepository implements repository.SessionRepository using Redis.
type SessionRepository struct {
	client *redis.Client
}

// NewSessionRepository creates a Redis-backed session repository.
func NewSessionRepository(client *redis.Client) *SessionRepository {
	return &SessionRepository{client: client}
}

// Get retrieves the value for a key.
func (r *SessionRepository) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", apperrors.NotFound("local store key", key)
		}
		return "", fmt.Errorf("redis get %q: %w", key, err)
	}
	return value, nil
}

// Set stores the value for a key.
func (r *SessionRepository) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

// Delete removes the given keys.
func (r *SessionRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
