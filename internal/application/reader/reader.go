package reader

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mizutori/nosread/internal/article"
	"github.com/mizutori/nosread/internal/relay"
	"github.com/mizutori/nosread/pkg/domain"
	"github.com/mizutori/nosread/pkg/ports"
)

// Reader coordinates one relay session and its collaborators: the
// projector, the feed store, the event bus and the metrics
// collector. All session output flows through the reader; the API
// layer only ever talks to the reader.
type Reader struct {
	session   *relay.Session
	store     ports.FeedStore
	bus       ports.EventBus
	metrics   ports.MetricsCollector
	validator *Validator
	logger    *zap.Logger

	mu         sync.RWMutex
	lastStatus domain.Status
	autoFilter *domain.Filter
}

// NewReader creates a reader and the relay session it drives.
func NewReader(
	dialer relay.Dialer,
	store ports.FeedStore,
	bus ports.EventBus,
	metrics ports.MetricsCollector,
	validator *Validator,
	logger *zap.Logger,
) *Reader {
	r := &Reader{
		store:     store,
		bus:       bus,
		metrics:   metrics,
		validator: validator,
		logger:    logger,
	}

	r.session = relay.NewSession(
		dialer,
		article.Project,
		metrics,
		relay.Callbacks{
			OnState:   r.handleState,
			OnArticle: r.handleArticle,
			OnStatus:  r.handleStatus,
			OnClear:   r.handleClear,
		},
		logger,
	)

	return r
}

// AutoSubscribe sets a filter to issue as soon as the session
// opens. Must be called before Connect.
func (r *Reader) AutoSubscribe(filter domain.Filter) {
	r.autoFilter = &filter
}

// Connect starts the relay connection. The outcome arrives through
// status events on the bus.
func (r *Reader) Connect(ctx context.Context, relayURL string) error {
	return r.session.Connect(ctx, relayURL)
}

// Subscribe validates the filter and issues a subscription request,
// superseding any active one.
func (r *Reader) Subscribe(filter domain.Filter) error {
	if err := r.validator.Validate(filter); err != nil {
		return fmt.Errorf("invalid filter: %w", err)
	}
	return r.session.Subscribe(filter)
}

// Disconnect closes the relay session. Idempotent.
func (r *Reader) Disconnect() {
	r.session.Disconnect()
}

// Articles returns the articles rendered for the current
// subscription, in arrival order.
func (r *Reader) Articles(ctx context.Context) ([]domain.ArticleRecord, error) {
	return r.store.List(ctx)
}

// State returns the relay session state.
func (r *Reader) State() relay.State {
	return r.session.State()
}

// LastStatus returns the most recent status signal.
func (r *Reader) LastStatus() domain.Status {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastStatus
}

// Shutdown disconnects and releases the reader's resources.
func (r *Reader) Shutdown(ctx context.Context) error {
	r.session.Disconnect()

	if err := r.bus.Close(); err != nil {
		r.logger.Error("event bus close error", zap.Error(err))
	}
	if err := r.store.Close(); err != nil {
		r.logger.Error("feed store close error", zap.Error(err))
	}
	return nil
}

// handleState reacts to session state transitions.
func (r *Reader) handleState(state relay.State) {
	r.logger.Info("session state changed", zap.String("state", string(state)))

	var status domain.Status
	switch state {
	case relay.StateOpen:
		status = domain.Info("connected to relay")
	case relay.StateClosed:
		status = domain.Info("disconnected from relay")
	default:
		status = domain.Info("session " + string(state))
	}
	r.handleStatus(status)

	if state == relay.StateOpen && r.autoFilter != nil {
		if err := r.Subscribe(*r.autoFilter); err != nil {
			r.logger.Error("auto-subscribe failed", zap.Error(err))
		}
	}
}

// handleArticle stores and distributes a projected article.
func (r *Reader) handleArticle(record domain.ArticleRecord) {
	ctx := context.Background()

	r.metrics.RecordArticle(time.Since(record.Timestamp))

	if err := r.store.Append(ctx, record); err != nil {
		r.logger.Error("failed to store article",
			zap.String("title", record.Title),
			zap.Error(err))
	}
	if n, err := r.store.Len(ctx); err == nil {
		r.metrics.SetFeedSize(n)
	}

	r.publish(ports.TopicArticles, ports.FeedEvent{
		ID:        uuid.New().String(),
		Type:      ports.FeedEventArticle,
		Timestamp: time.Now(),
		Article:   &record,
	})
}

// handleStatus records and distributes a status signal.
func (r *Reader) handleStatus(status domain.Status) {
	r.mu.Lock()
	r.lastStatus = status
	r.mu.Unlock()

	r.publish(ports.TopicStatus, ports.FeedEvent{
		ID:        uuid.New().String(),
		Type:      ports.FeedEventStatus,
		Timestamp: time.Now(),
		Status:    &status,
	})
}

// handleClear discards the feed when a new subscription supersedes
// the current one.
func (r *Reader) handleClear() {
	ctx := context.Background()

	if err := r.store.Clear(ctx); err != nil {
		r.logger.Error("failed to clear feed store", zap.Error(err))
	}
	r.metrics.SetFeedSize(0)

	r.publish(ports.TopicArticles, ports.FeedEvent{
		ID:        uuid.New().String(),
		Type:      ports.FeedEventClear,
		Timestamp: time.Now(),
	})
}

func (r *Reader) publish(topic string, event ports.FeedEvent) {
	if err := r.bus.Publish(context.Background(), topic, event); err != nil {
		r.logger.Error("failed to publish feed event",
			zap.String("topic", topic),
			zap.String("type", string(event.Type)),
			zap.Error(err))
	}
}
