package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"intervox/internal/interview"
	"intervox/internal/logging"
	"intervox/internal/session"
)

// Handler consumes decoded realtime events.
type Handler func(interview.RealtimeEvent)

// State is the connection lifecycle position of a Channel.
type State string

const (
	StateIdle       State = "idle"
	StateConnecting State = "connecting"
	StateOpen       State = "open"
	StateRetryWait  State = "retry_wait"
	StateStopped    State = "stopped"
)

// Dialer abstracts websocket dialing; *websocket.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, urlStr string, requestHeader http.Header) (*websocket.Conn, *http.Response, error)
}

// Option customises Channel construction.
type Option func(*Channel)

// WithDialer overrides the websocket dialer (used in tests).
func WithDialer(dialer Dialer) Option {
	return func(c *Channel) {
		c.dialer = dialer
	}
}

// WithLogger attaches a logger; the default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Channel) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Channel owns one push connection to the backend. All mutable state is
// guarded by mu; the stopped flag is checked before every transition so no
// reconnect can fire after Stop.
type Channel struct {
	baseURL string
	session session.Provider
	logger  *slog.Logger
	dialer  Dialer

	mu         sync.Mutex
	handler    Handler
	conn       *websocket.Conn
	state      State
	retries    int
	retryTimer *time.Timer
	stopped    bool
}

// New constructs a Channel against the given websocket base URL
// (ws:// or wss://, no trailing slash).
func New(baseURL string, provider session.Provider, opts ...Option) *Channel {
	channel := &Channel{
		baseURL: baseURL,
		session: provider,
		logger:  logging.NewNop(),
		dialer:  websocket.DefaultDialer,
		state:   StateIdle,
	}
	for _, opt := range opts {
		opt(channel)
	}
	return channel
}

// SetHandler swaps the event handler. The connection is untouched, so a
// consumer may replace its processing closure mid-stream.
func (c *Channel) SetHandler(handler Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handler = handler
}

// State returns the current lifecycle position.
func (c *Channel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Start begins connecting in the background. When no credentials are
// available the attempt is abandoned silently; a later Start call retries.
func (c *Channel) Start(ctx context.Context) {
	go c.connect(ctx)
}

func (c *Channel) connect(ctx context.Context) {
	c.mu.Lock()
	if c.stopped || ctx.Err() != nil {
		c.mu.Unlock()
		return
	}
	c.state = StateConnecting
	c.mu.Unlock()

	creds, err := c.session.Credentials(ctx)
	if err != nil || creds.Token == "" || creds.UserID == "" {
		// Auth unavailable is a skip, not a failure: no retry until the
		// next explicit Start.
		c.mu.Lock()
		if !c.stopped {
			c.state = StateIdle
		}
		c.mu.Unlock()
		return
	}

	endpoint := fmt.Sprintf("%s/api/v1/ws/%s?token=%s",
		c.baseURL, url.PathEscape(creds.UserID), url.QueryEscape(creds.Token))

	conn, _, err := c.dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		c.logger.Debug("realtime dial failed", logging.Error(err))
		c.scheduleReconnect(ctx)
		return
	}

	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		_ = conn.Close()
		return
	}
	c.conn = conn
	c.retries = 0
	c.state = StateOpen
	c.mu.Unlock()

	c.logger.Debug("realtime channel open")
	go c.readLoop(ctx, conn)
}

func (c *Channel) readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}

		var event interview.RealtimeEvent
		if err := json.Unmarshal(data, &event); err != nil {
			// Malformed frames are not a connection problem.
			continue
		}

		c.mu.Lock()
		handler := c.handler
		c.mu.Unlock()
		if handler != nil {
			handler(event)
		}
	}
	_ = conn.Close()

	c.mu.Lock()
	if c.stopped || c.conn != conn {
		// Stop already detached this connection, or a newer connection
		// superseded it. Either way this loop must not reconnect.
		c.mu.Unlock()
		return
	}
	c.conn = nil
	c.mu.Unlock()

	c.scheduleReconnect(ctx)
}

func (c *Channel) scheduleReconnect(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped || ctx.Err() != nil {
		return
	}
	delay := ReconnectDelay(c.retries)
	c.retries++
	c.state = StateRetryWait
	c.logger.Debug("realtime reconnect scheduled",
		logging.Duration("delay", delay), logging.Int("attempt", c.retries))
	c.retryTimer = time.AfterFunc(delay, func() { c.connect(ctx) })
}

// Stop tears the channel down permanently: the pending reconnect timer is
// cancelled and the connection detached before it is closed, so the close
// event from the socket cannot trigger another reconnect. Idempotent.
func (c *Channel) Stop() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.stopped = true
	c.state = StateStopped
	if c.retryTimer != nil {
		c.retryTimer.Stop()
		c.retryTimer = nil
	}
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
}
