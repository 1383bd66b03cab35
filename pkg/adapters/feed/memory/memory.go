package memory

import (
	"context"
	"sync"

	"github.com/mizutori/nosread/pkg/domain"
)

// FeedStore implements FeedStore using an in-memory slice.
type FeedStore struct {
	records []domain.ArticleRecord
	mu      sync.RWMutex
}

// NewFeedStore creates a new in-memory feed store.
func NewFeedStore() *FeedStore {
	return &FeedStore{}
}

// Append adds a record to the end of the list.
func (s *FeedStore) Append(ctx context.Context, record domain.ArticleRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, record)
	return nil
}

// List returns the records in append order.
func (s *FeedStore) List(ctx context.Context) ([]domain.ArticleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ArticleRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}

// Clear discards all records.
func (s *FeedStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
	return nil
}

// Len returns the number of stored records.
func (s *FeedStore) Len(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records), nil
}

// Close releases the store.
func (s *FeedStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
	return nil
}
