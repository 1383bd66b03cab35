package relay

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mizutori/nosread/pkg/domain"
	"github.com/mizutori/nosread/pkg/ports"
)

// State is the connection state of a session.
type State string

const (
	StateIdle       State = "idle"
	StateConnecting State = "connecting"
	StateOpen       State = "open"
	StateClosed     State = "closed"
)

// Projector converts a relay event into its rendered article form.
type Projector func(event *domain.NostrEvent) domain.ArticleRecord

// Callbacks receive session output. Any callback may be nil.
type Callbacks struct {
	// OnState fires on every connection state transition.
	OnState func(State)
	// OnArticle fires once per inbound EVENT with the projected record.
	OnArticle func(domain.ArticleRecord)
	// OnStatus fires for EOSE, rejected OKs, NOTICEs and connection
	// loss.
	OnStatus func(domain.Status)
	// OnClear fires when a new subscription discards the rendered
	// list.
	OnClear func()
}

func (cb Callbacks) state(s State) {
	if cb.OnState != nil {
		cb.OnState(s)
	}
}

func (cb Callbacks) article(record domain.ArticleRecord) {
	if cb.OnArticle != nil {
		cb.OnArticle(record)
	}
}

func (cb Callbacks) status(status domain.Status) {
	if cb.OnStatus != nil {
		cb.OnStatus(status)
	}
}

func (cb Callbacks) clear() {
	if cb.OnClear != nil {
		cb.OnClear()
	}
}

// Session is a single-use client connection to one relay. It owns
// the connection state machine and the single active subscription
// id. A session that reaches StateClosed cannot be reused; construct
// a new one to reconnect.
type Session struct {
	dialer  Dialer
	project Projector
	metrics ports.MetricsCollector
	cb      Callbacks
	logger  *zap.Logger

	mu    sync.Mutex
	state State
	conn  Conn
	subID string
}

// NewSession creates a session in StateIdle.
func NewSession(
	dialer Dialer,
	project Projector,
	metrics ports.MetricsCollector,
	cb Callbacks,
	logger *zap.Logger,
) *Session {
	return &Session{
		dialer:  dialer,
		project: project,
		metrics: metrics,
		cb:      cb,
		logger:  logger,
		state:   StateIdle,
	}
}

// State returns the current connection state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SubscriptionID returns the active subscription id, or "" when no
// subscription is active.
func (s *Session) SubscriptionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subID
}

// Connect validates the relay address and starts the dial. It
// returns immediately: the transition to StateOpen (or StateClosed
// on dial failure) is reported through the state callback. A
// malformed address fails synchronously with a ConnectionError and
// leaves the session in StateIdle.
func (s *Session) Connect(ctx context.Context, rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return &ConnectionError{Reason: "relay address is empty"}
	}

	wsURL, err := NormalizeURL(rawURL)
	if err != nil {
		return &ConnectionError{URL: rawURL, Reason: err.Error()}
	}

	s.mu.Lock()
	if s.state != StateIdle {
		state := s.state
		s.mu.Unlock()
		return &ConnectionError{URL: rawURL, Reason: "session already used (state: " + string(state) + ")"}
	}
	s.state = StateConnecting
	s.mu.Unlock()
	s.reportState(StateConnecting)

	go s.dial(ctx, wsURL)
	return nil
}

// dial runs the asynchronous part of Connect.
func (s *Session) dial(ctx context.Context, wsURL string) {
	conn, err := s.dialer.Dial(ctx, wsURL)
	if err != nil {
		s.logger.Warn("relay dial failed",
			zap.String("url", wsURL),
			zap.Error(err))
		s.cb.status(domain.Warning("connection failed: " + err.Error()))
		s.transitionClosed()
		return
	}

	s.mu.Lock()
	if s.state != StateConnecting {
		// Disconnect won the race; drop the fresh connection.
		s.mu.Unlock()
		_ = conn.Close()
		return
	}
	s.conn = conn
	s.state = StateOpen
	s.mu.Unlock()

	s.logger.Info("connected to relay", zap.String("url", wsURL))
	s.reportState(StateOpen)

	go s.readLoop(conn)
}

// Subscribe discards the current rendered list, generates a fresh
// subscription id and sends the REQ frame. The previous subscription
// id is replaced without sending a CLOSE for it. Requires StateOpen.
func (s *Session) Subscribe(filter domain.Filter) error {
	s.mu.Lock()
	if s.state != StateOpen || s.conn == nil {
		state := s.state
		s.mu.Unlock()
		return &NotConnectedError{Op: "subscribe", State: state}
	}
	conn := s.conn
	s.mu.Unlock()

	s.cb.clear()

	subID := uuid.New().String()
	frame, err := EncodeReq(subID, filter)
	if err != nil {
		return &SendError{Frame: "REQ", Err: err}
	}

	s.mu.Lock()
	s.subID = subID
	s.mu.Unlock()

	if err := conn.WriteMessage(frame); err != nil {
		s.metrics.RecordSendFailure()
		return &SendError{Frame: "REQ", Err: err}
	}

	s.metrics.RecordSubscription()
	s.logger.Info("subscription requested",
		zap.String("subscription_id", subID),
		zap.Ints("kinds", filter.Kinds),
		zap.Int("limit", filter.Limit))
	return nil
}

// Disconnect sends a best-effort CLOSE for the active subscription,
// closes the transport and transitions to StateClosed. It is
// idempotent, never fails, and reports close problems only as
// warnings.
func (s *Session) Disconnect() {
	s.mu.Lock()
	conn := s.conn
	subID := s.subID
	open := s.state == StateOpen
	s.subID = ""
	s.conn = nil
	s.mu.Unlock()

	if open && subID != "" && conn != nil {
		if frame, err := EncodeClose(subID); err == nil {
			if err := conn.WriteMessage(frame); err != nil {
				s.logger.Warn("failed to send CLOSE frame",
					zap.String("subscription_id", subID),
					zap.Error(err))
			}
		}
	}

	if conn != nil {
		if err := conn.Close(); err != nil {
			s.logger.Warn("transport close error", zap.Error(err))
			s.cb.status(domain.Warning("close error: " + err.Error()))
		}
	}

	s.transitionClosed()
}

// readLoop drains inbound frames until the transport fails or is
// closed. Frames are dispatched in arrival order.
func (s *Session) readLoop(conn Conn) {
	for {
		data, err := conn.ReadMessage()
		if err != nil {
			s.mu.Lock()
			closed := s.state == StateClosed
			s.mu.Unlock()
			if !closed {
				s.logger.Warn("relay connection lost", zap.Error(err))
				s.cb.status(domain.Warning("connection closed: " + err.Error()))
				s.transitionClosed()
			}
			return
		}
		s.Dispatch(data)
	}
}

// Dispatch parses one inbound frame and routes it: EVENT frames are
// projected into articles, EOSE/OK/NOTICE become status signals,
// unknown types are ignored. Malformed frames are logged and dropped
// without touching the connection.
func (s *Session) Dispatch(data []byte) {
	msg, err := ParseMessage(data)
	if err != nil {
		s.metrics.RecordParseFailure()
		s.logger.Warn("dropping malformed frame",
			zap.Error(err),
			zap.Int("size", len(data)))
		return
	}

	s.metrics.RecordFrame(string(msg.Type))

	switch msg.Type {
	case MessageEvent:
		record := s.project(msg.Event)
		s.cb.article(record)

	case MessageEOSE:
		s.logger.Debug("end of stored events",
			zap.String("subscription_id", msg.SubscriptionID))
		s.cb.status(domain.Info("all results received"))

	case MessageOK:
		if !msg.Accepted {
			s.metrics.RecordRejection()
			s.cb.status(domain.Warning("relay rejected event: " + msg.Text))
		}

	case MessageNotice:
		s.logger.Warn("relay notice", zap.String("message", msg.Text))
		s.cb.status(domain.Warning("relay notice: " + msg.Text))

	default:
		s.logger.Debug("ignoring unknown frame type")
	}
}

// transitionClosed moves to StateClosed from any non-terminal state.
func (s *Session) transitionClosed() {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return
	}
	s.state = StateClosed
	s.subID = ""
	s.conn = nil
	s.mu.Unlock()
	s.reportState(StateClosed)
}

func (s *Session) reportState(state State) {
	s.metrics.SetSessionState(string(state))
	s.cb.state(state)
}
