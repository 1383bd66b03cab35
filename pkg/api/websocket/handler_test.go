package websocket

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mizutori/nosread/pkg/adapters/events/memory"
	"github.com/mizutori/nosread/pkg/domain"
	"github.com/mizutori/nosread/pkg/ports"
)

func TestHandleFeedStream(t *testing.T) {
	gin.SetMode(gin.TestMode)

	bus := memory.NewEventBus()
	handler := NewHandler(bus, zap.NewNop())

	router := gin.New()
	router.GET("/api/v1/feed/ws", handler.HandleFeedStream)

	server := httptest.NewServer(router)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/feed/ws"
	client, _, err := gorilla.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer client.Close()

	// The handler registers its bus subscriptions after the
	// upgrade; keep publishing until a frame comes back.
	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_ = bus.Publish(context.Background(), ports.TopicArticles, ports.FeedEvent{
					ID:   "probe",
					Type: ports.FeedEventArticle,
					Article: &domain.ArticleRecord{
						Title: "Hello",
					},
				})
			}
		}
	}()

	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := client.ReadMessage()
	require.NoError(t, err)

	var event ports.FeedEvent
	require.NoError(t, json.Unmarshal(data, &event))
	assert.Equal(t, ports.FeedEventArticle, event.Type)
	require.NotNil(t, event.Article)
	assert.Equal(t, "Hello", event.Article.Title)
}
