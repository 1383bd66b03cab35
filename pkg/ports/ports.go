package ports

import (
	"context"
	"time"

	"github.com/mizutori/nosread/pkg/domain"
)

// Feed event topics published by the reader.
const (
	TopicArticles = "feed.articles"
	TopicStatus   = "feed.status"
)

// FeedEventType discriminates the payload of a FeedEvent.
type FeedEventType string

const (
	FeedEventArticle FeedEventType = "article"
	FeedEventStatus  FeedEventType = "status"
	FeedEventClear   FeedEventType = "clear"
)

// FeedEvent is the unit of distribution on the event bus: a newly
// projected article, a status signal, or a clear-list marker issued
// when a new subscription supersedes the current feed.
type FeedEvent struct {
	ID        string                `json:"id"`
	Type      FeedEventType         `json:"type"`
	Timestamp time.Time             `json:"timestamp"`
	Article   *domain.ArticleRecord `json:"article,omitempty"`
	Status    *domain.Status        `json:"status,omitempty"`
}

// FeedEventHandler consumes events delivered by an EventBus.
type FeedEventHandler func(ctx context.Context, event FeedEvent) error

// EventBus distributes feed events from the reader to stream
// consumers (the UI WebSocket handler, tests).
type EventBus interface {
	Publish(ctx context.Context, topic string, event FeedEvent) error
	Subscribe(ctx context.Context, topic string, handler FeedEventHandler) error
	Close() error
}

// FeedStore holds the articles rendered for the current
// subscription. The list is append-only between subscriptions and
// cleared whenever a new subscription is issued.
type FeedStore interface {
	Append(ctx context.Context, record domain.ArticleRecord) error
	List(ctx context.Context) ([]domain.ArticleRecord, error)
	Clear(ctx context.Context) error
	Len(ctx context.Context) (int, error)
	Close() error
}

// MetricsCollector records protocol and feed activity.
type MetricsCollector interface {
	RecordFrame(frameType string)
	RecordParseFailure()
	RecordArticle(eventAge time.Duration)
	RecordSubscription()
	RecordSendFailure()
	RecordRejection()
	SetSessionState(state string)
	SetFeedSize(n int)
}
