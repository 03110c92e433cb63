package prefs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix        = "prefs:"
	loggedInUsername = "logged_in_username"
)

// RedisStore keeps one hash per user
type RedisStore struct {
	rdb *redis.Client
}

// ConnectRedis opens a client and pings the server
func ConnectRedis(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &RedisStore{rdb: rdb}, nil
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) SetDisplayName(ctx context.Context, userID, name string) error {
	if err := s.rdb.HSet(ctx, keyPrefix+userID, loggedInUsername, name).Err(); err != nil {
		return fmt.Errorf("store display name: %w", err)
	}
	return nil
}

func (s *RedisStore) DisplayName(ctx context.Context, userID string) (string, error) {
	name, err := s.rdb.HGet(ctx, keyPrefix+userID, loggedInUsername).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read display name: %w", err)
	}
	return name, nil
}

func (s *RedisStore) Clear(ctx context.Context, userID string) error {
	if err := s.rdb.Del(ctx, keyPrefix+userID).Err(); err != nil {
		return fmt.Errorf("clear prefs: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
