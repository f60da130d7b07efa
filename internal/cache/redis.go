package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"healthassistant/internal/models"
	"time"

	"github.com/redis/go-redis/v9"
)

// ConversationStore keeps each user's pending record mode between turns.
type ConversationStore interface {
	Get(ctx context.Context, userID string) (*models.ConversationState, error)
	Set(ctx context.Context, state *models.ConversationState) error
	Clear(ctx context.Context, userID string) error
}

type RedisClient struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisClient(redisURL string, ttl time.Duration) (*RedisClient, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	// Test connection
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisClient{client: client, ttl: ttl}, nil
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}

func conversationKey(userID string) string {
	return fmt.Sprintf("conversation:%s", userID)
}

// Get returns nil without an error when the user has no pending mode.
func (r *RedisClient) Get(ctx context.Context, userID string) (*models.ConversationState, error) {
	data, err := r.client.Get(ctx, conversationKey(userID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get conversation state from Redis: %w", err)
	}

	var state models.ConversationState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal conversation state: %w", err)
	}
	return &state, nil
}

func (r *RedisClient) Set(ctx context.Context, state *models.ConversationState) error {
	jsonData, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal conversation state: %w", err)
	}

	if err := r.client.Set(ctx, conversationKey(state.UserID), jsonData, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store conversation state in Redis: %w", err)
	}
	return nil
}

func (r *RedisClient) Clear(ctx context.Context, userID string) error {
	return r.client.Del(ctx, conversationKey(userID)).Err()
}

// GetStatus reports pool statistics for the health endpoint.
func (r *RedisClient) GetStatus(ctx context.Context) (map[string]interface{}, error) {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	stats := r.client.PoolStats()

	return map[string]interface{}{
		"connected":    true,
		"hits":         stats.Hits,
		"misses":       stats.Misses,
		"active_conns": stats.TotalConns,
	}, nil
}
