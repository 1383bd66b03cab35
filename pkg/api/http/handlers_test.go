package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mizutori/nosread/internal/application/reader"
	"github.com/mizutori/nosread/internal/relay"
	eventsmemory "github.com/mizutori/nosread/pkg/adapters/events/memory"
	feedmemory "github.com/mizutori/nosread/pkg/adapters/feed/memory"
	"github.com/mizutori/nosread/pkg/domain"
)

type apiConn struct {
	inbound chan []byte
	mu      sync.Mutex
	closed  bool
}

func newAPIConn() *apiConn {
	return &apiConn{inbound: make(chan []byte, 16)}
}

func (c *apiConn) ReadMessage() ([]byte, error) {
	data, ok := <-c.inbound
	if !ok {
		return nil, io.EOF
	}
	return data, nil
}

func (c *apiConn) WriteMessage(data []byte) error { return nil }

func (c *apiConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.inbound)
	}
	return nil
}

type apiDialer struct {
	conn *apiConn
}

func (d *apiDialer) Dial(ctx context.Context, rawURL string) (relay.Conn, error) {
	return d.conn, nil
}

type apiMetrics struct{}

func (apiMetrics) RecordFrame(string)          {}
func (apiMetrics) RecordParseFailure()         {}
func (apiMetrics) RecordArticle(time.Duration) {}
func (apiMetrics) RecordSubscription()         {}
func (apiMetrics) RecordSendFailure()          {}
func (apiMetrics) RecordRejection()            {}
func (apiMetrics) SetSessionState(string)      {}
func (apiMetrics) SetFeedSize(int)             {}

type apiHarness struct {
	server *Server
	reader *reader.Reader
	store  *feedmemory.FeedStore
	conn   *apiConn
}

func newAPIHarness(t *testing.T) *apiHarness {
	t.Helper()

	h := &apiHarness{
		conn:  newAPIConn(),
		store: feedmemory.NewFeedStore(),
	}

	h.reader = reader.NewReader(
		&apiDialer{conn: h.conn},
		h.store,
		eventsmemory.NewEventBus(),
		apiMetrics{},
		reader.NewValidator(),
		zap.NewNop(),
	)

	h.server = NewServer(&Config{
		Port:   0,
		Reader: h.reader,
		Logger: zap.NewNop(),
	})

	return h
}

func (h *apiHarness) open(t *testing.T) {
	t.Helper()

	require.NoError(t, h.reader.Connect(context.Background(), "wss://relay.test"))
	require.Eventually(t, func() bool {
		return h.reader.State() == relay.StateOpen
	}, 2*time.Second, 10*time.Millisecond)
}

func (h *apiHarness) do(method, path, body string) *httptest.ResponseRecorder {
	var reqBody io.Reader
	if body != "" {
		reqBody = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reqBody)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.server.router.ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	h := newAPIHarness(t)

	rec := h.do(http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
	assert.Contains(t, rec.Body.String(), "idle")
}

func TestHandleSubscribe(t *testing.T) {
	h := newAPIHarness(t)
	h.open(t)

	rec := h.do(http.MethodPost, "/api/v1/subscription", `{"kind":30023,"limit":20}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestHandleSubscribeNotConnected(t *testing.T) {
	h := newAPIHarness(t)

	rec := h.do(http.MethodPost, "/api/v1/subscription", `{"kind":1,"limit":10}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT_CONNECTED")
}

func TestHandleSubscribeInvalidFilter(t *testing.T) {
	h := newAPIHarness(t)
	h.open(t)

	rec := h.do(http.MethodPost, "/api/v1/subscription", `{"kind":-1,"limit":10}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHandleSubscribeMalformedBody(t *testing.T) {
	h := newAPIHarness(t)

	rec := h.do(http.MethodPost, "/api/v1/subscription", `{not json`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleListArticles(t *testing.T) {
	h := newAPIHarness(t)
	require.NoError(t, h.store.Append(context.Background(), domain.ArticleRecord{
		Title:         "Foo",
		Body:          "bar",
		AuthorDisplay: "abcdef012345",
	}))

	rec := h.do(http.MethodGet, "/api/v1/articles", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Articles []domain.ArticleRecord `json:"articles"`
		Total    int                    `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Articles, 1)
	assert.Equal(t, "Foo", resp.Articles[0].Title)
}

func TestHandleGetStatus(t *testing.T) {
	h := newAPIHarness(t)
	h.open(t)

	rec := h.do(http.MethodGet, "/api/v1/status", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "open", resp.State)
}

func TestHandleDisconnect(t *testing.T) {
	h := newAPIHarness(t)
	h.open(t)

	rec := h.do(http.MethodDelete, "/api/v1/connection", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, relay.StateClosed, h.reader.State())

	// Disconnect is idempotent.
	rec = h.do(http.MethodDelete, "/api/v1/connection", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
