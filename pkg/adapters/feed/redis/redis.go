package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mizutori/nosread/pkg/domain"
)

// FeedStore implements FeedStore using a Redis list. The key is
// scoped to one reader session and carries a TTL, so nothing
// outlives the session: the list is cleared on every new
// subscription and expires on its own after the TTL.
type FeedStore struct {
	client    *redis.Client
	logger    *zap.Logger
	sessionID string
	ttl       time.Duration
}

// NewFeedStore creates a Redis-backed feed store for one session.
func NewFeedStore(client *redis.Client, sessionID string, ttl time.Duration, logger *zap.Logger) *FeedStore {
	return &FeedStore{
		client:    client,
		logger:    logger,
		sessionID: sessionID,
		ttl:       ttl,
	}
}

// Append adds a record to the end of the list and refreshes the TTL.
func (s *FeedStore) Append(ctx context.Context, record domain.ArticleRecord) error {
	key := s.key()

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, data)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append record: %w", err)
	}

	return nil
}

// List returns the records in append order.
func (s *FeedStore) List(ctx context.Context) ([]domain.ArticleRecord, error) {
	key := s.key()

	items, err := s.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read feed list: %w", err)
	}

	records := make([]domain.ArticleRecord, 0, len(items))
	for _, item := range items {
		var record domain.ArticleRecord
		if err := json.Unmarshal([]byte(item), &record); err != nil {
			s.logger.Warn("skipping undecodable feed entry",
				zap.String("key", key),
				zap.Error(err))
			continue
		}
		records = append(records, record)
	}

	return records, nil
}

// Clear discards the list.
func (s *FeedStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key()).Err(); err != nil {
		return fmt.Errorf("failed to clear feed list: %w", err)
	}
	return nil
}

// Len returns the number of stored records.
func (s *FeedStore) Len(ctx context.Context) (int, error) {
	n, err := s.client.LLen(ctx, s.key()).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read feed length: %w", err)
	}
	return int(n), nil
}

// Close deletes the session key. The Redis client is closed by the
// caller.
func (s *FeedStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.client.Del(ctx, s.key()).Err(); err != nil {
		s.logger.Warn("failed to delete feed key on close",
			zap.String("key", s.key()),
			zap.Error(err))
	}
	return nil
}

// key returns the Redis key for this session's feed list.
func (s *FeedStore) key() string {
	return fmt.Sprintf("nosread:feed:%s", s.sessionID)
}
