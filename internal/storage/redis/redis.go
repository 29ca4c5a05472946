package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"session_auth/internal/config"
	"session_auth/internal/storage"

	"github.com/redis/go-redis/v9"
)

type RedisRepo struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func New(ctx context.Context, cfg config.Redis) (*RedisRepo, error) {
	const op = "storage.redis.New"

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return NewWithClient(client, cfg.SessionPrefix, cfg.SessionTTL), nil
}

// NewWithClient wraps an existing client. A zero ttl stores sessions without
// expiry; they then live until DeleteSession.
func NewWithClient(client *redis.Client, prefix string, ttl time.Duration) *RedisRepo {
	return &RedisRepo{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// * Session возвращает сохраненный снимок пользователя
func (r *RedisRepo) Session(ctx context.Context, userID string) ([]byte, error) {
	const op = "storage.redis.Session"

	data, err := r.client.Get(ctx, r.key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, storage.ErrSessionNotFound
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return data, nil
}

// * SetSession сохраняет или перезаписывает снимок пользователя
func (r *RedisRepo) SetSession(ctx context.Context, userID string, snapshot []byte) error {
	const op = "storage.redis.SetSession"

	if err := r.client.Set(ctx, r.key(userID), snapshot, r.ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// * DeleteSession удаляет сессию, отсутствие ключа ошибкой не считается
func (r *RedisRepo) DeleteSession(ctx context.Context, userID string) error {
	const op = "storage.redis.DeleteSession"

	if err := r.client.Del(ctx, r.key(userID)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *RedisRepo) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// * Close закрывает соединение с базой данных.
func (r *RedisRepo) Close() {
	r.client.Close()
}

func (r *RedisRepo) key(userID string) string {
	return r.prefix + userID
}
