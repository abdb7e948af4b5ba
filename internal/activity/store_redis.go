package activity

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"statusline/pkg/domain"
)

const activityKeyPrefix = "statusline:activity:"

// RedisStore keeps each project's feed in a capped Redis list, newest first.
type RedisStore struct {
	client *redis.Client
	maxLen int64
}

func NewRedisStore(client *redis.Client, maxLen int64) *RedisStore {
	if maxLen <= 0 {
		maxLen = 1000
	}
	return &RedisStore{client: client, maxLen: maxLen}
}

func activityKey(projectID domain.ProjectID) string {
	return activityKeyPrefix + projectID.String()
}

// Append pushes and trims atomically so the list never exceeds maxLen.
func (s *RedisStore) Append(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode activity event: %w", err)
	}
	key := activityKey(event.ProjectID)
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, key, payload)
	pipe.LTrim(ctx, key, 0, s.maxLen-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append activity event: %w", err)
	}
	return nil
}

func (s *RedisStore) ListByProject(ctx context.Context, projectID domain.ProjectID, limit int) ([]Event, error) {
	if limit <= 0 {
		return []Event{}, nil
	}
	raw, err := s.client.LRange(ctx, activityKey(projectID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("list activity events: %w", err)
	}
	events := make([]Event, 0, len(raw))
	for _, item := range raw {
		var e Event
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			return nil, fmt.Errorf("decode activity event: %w", err)
		}
		events = append(events, e)
	}
	return events, nil
}
