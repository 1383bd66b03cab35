package relay

import (
	"context"
	"fmt"
	"net/url"

	"github.com/gorilla/websocket"
)

// Conn is a bidirectional text-frame connection to a relay.
type Conn interface {
	ReadMessage() ([]byte, error)
	WriteMessage(data []byte) error
	Close() error
}

// Dialer opens a Conn to a relay address. Sessions take a Dialer so
// the state machine is testable without a real network connection.
type Dialer interface {
	Dial(ctx context.Context, rawURL string) (Conn, error)
}

// NormalizeURL validates a relay address and rewrites http(s) schemes
// to their WebSocket equivalents. A bare host defaults to wss.
func NormalizeURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("malformed relay address: %w", err)
	}

	switch u.Scheme {
	case "ws", "wss":
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "":
		// url.Parse reads "relay.example.com" as a path
		return NormalizeURL("wss://" + rawURL)
	default:
		return "", fmt.Errorf("unsupported relay scheme %q", u.Scheme)
	}

	if u.Host == "" {
		return "", fmt.Errorf("relay address %q has no host", rawURL)
	}

	return u.String(), nil
}

// wsDialer is the production Dialer backed by gorilla/websocket.
type wsDialer struct{}

// NewDialer returns the default WebSocket dialer.
func NewDialer() Dialer {
	return wsDialer{}
}

func (wsDialer) Dial(ctx context.Context, rawURL string) (Conn, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, rawURL, nil)
	if err != nil {
		return nil, err
	}
	return &wsConn{conn: conn}, nil
}

// wsConn adapts *websocket.Conn to the text-frame Conn interface.
type wsConn struct {
	conn *websocket.Conn
}

func (c *wsConn) ReadMessage() ([]byte, error) {
	for {
		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			return nil, err
		}
		// Relays speak text frames; skip anything else.
		if msgType == websocket.TextMessage {
			return data, nil
		}
	}
}

func (c *wsConn) WriteMessage(data []byte) error {
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *wsConn) Close() error {
	return c.conn.Close()
}
