package intelligence

import (
	"context"
	"encoding/json"
	"time"

	"citaflow/models"

	"github.com/go-redis/redis/v8"
)

const chatContextPrefix = "chat:ctx:"

// maxHistoryMessages bounds the prompt size sent to the model.
const maxHistoryMessages = 20

type RedisChatStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisChatStore(client *redis.Client, ttl time.Duration) *RedisChatStore {
	return &RedisChatStore{client: client, ttl: ttl}
}

func (s *RedisChatStore) Get(ctx context.Context, contact string) (*models.ChatContext, error) {
	key := chatContextPrefix + contact
	data, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return &models.ChatContext{}, nil
	}
	if err != nil {
		return nil, err
	}
	var chatCtx models.ChatContext
	if err := json.Unmarshal([]byte(data), &chatCtx); err != nil {
		return nil, err
	}
	return &chatCtx, nil
}

// Append records one exchange, trimming the oldest turns past the cap.
func (s *RedisChatStore) Append(ctx context.Context, contact string, messages ...models.ChatMessage) error {
	chatCtx, err := s.Get(ctx, contact)
	if err != nil {
		return err
	}
	chatCtx.Messages = append(chatCtx.Messages, messages...)
	if len(chatCtx.Messages) > maxHistoryMessages {
		chatCtx.Messages = chatCtx.Messages[len(chatCtx.Messages)-maxHistoryMessages:]
	}
	b, err := json.Marshal(chatCtx)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, chatContextPrefix+contact, b, s.ttl).Err()
}

func (s *RedisChatStore) Clear(ctx context.Context, contact string) error {
	return s.client.Del(ctx, chatContextPrefix+contact).Err()
}
