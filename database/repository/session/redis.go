package sessionRepo

import (
	"context"
	"encoding/json"
	"time"

	"citaflow/models"

	"github.com/go-redis/redis/v8"
)

const sessionPrefix = "dialog:session:"

type RedisSessionRepo struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionRepo(client *redis.Client, ttl time.Duration) *RedisSessionRepo {
	return &RedisSessionRepo{client: client, ttl: ttl}
}

func (s *RedisSessionRepo) Get(ctx context.Context, contact string) (models.Session, error) {
	key := sessionPrefix + contact
	data, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return models.IdleSession(), nil
	}
	if err != nil {
		return models.Session{}, err
	}
	var session models.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return models.Session{}, err
	}
	return session, nil
}

func (s *RedisSessionRepo) Set(ctx context.Context, contact string, session models.Session) error {
	key := sessionPrefix + contact
	b, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, b, s.ttl).Err()
}

func (s *RedisSessionRepo) Clear(ctx context.Context, contact string) error {
	key := sessionPrefix + contact
	return s.client.Del(ctx, key).Err()
}
