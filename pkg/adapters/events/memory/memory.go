package memory

import (
	"context"
	"sync"

	"github.com/mizutori/nosread/pkg/ports"
)

// EventBus implements EventBus using in-process handlers.
type EventBus struct {
	subscribers map[string][]ports.FeedEventHandler
	mu          sync.RWMutex
}

// NewEventBus creates a new in-memory event bus.
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[string][]ports.FeedEventHandler),
	}
}

// Publish delivers an event to all subscribers of a topic. Handler
// errors are the handler's problem; delivery continues.
func (e *EventBus) Publish(ctx context.Context, topic string, event ports.FeedEvent) error {
	e.mu.RLock()
	handlers := make([]ports.FeedEventHandler, len(e.subscribers[topic]))
	copy(handlers, e.subscribers[topic])
	e.mu.RUnlock()

	for _, handler := range handlers {
		if handler == nil {
			// Slot released by an unsubscribed handler.
			continue
		}
		_ = handler(ctx, event)
	}

	return nil
}

// Subscribe registers a handler for a topic until ctx is canceled.
func (e *EventBus) Subscribe(ctx context.Context, topic string, handler ports.FeedEventHandler) error {
	e.mu.Lock()
	e.subscribers[topic] = append(e.subscribers[topic], handler)
	idx := len(e.subscribers[topic]) - 1
	e.mu.Unlock()

	go func() {
		<-ctx.Done()
		e.unsubscribe(topic, idx)
	}()

	return nil
}

// Close drops all subscribers.
func (e *EventBus) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.subscribers = make(map[string][]ports.FeedEventHandler)
	return nil
}

// unsubscribe nils out a handler slot; the slice is not compacted so
// indices of other subscribers stay valid.
func (e *EventBus) unsubscribe(topic string, idx int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	handlers := e.subscribers[topic]
	if idx < len(handlers) {
		handlers[idx] = nil
	}
}
