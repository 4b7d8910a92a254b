package stream

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// DefaultMaxAttempts is how many consecutive failures are tolerated
	// per URL before failing over or stopping.
	DefaultMaxAttempts = 5
	// DefaultReconnectDelay is the fixed wait before each reconnect.
	DefaultReconnectDelay = 5 * time.Second

	handshakeTimeout = 30 * time.Second
)

// Config describes one upstream stream. FallbackURL may be empty, in
// which case exhausting the attempts stops the connection permanently.
type Config struct {
	Name           string
	URL            string
	FallbackURL    string
	MaxAttempts    int
	ReconnectDelay time.Duration
}

// Connection owns one persistent websocket connection. Every inbound
// payload is forwarded as raw bytes to the onMessage callback on the read
// goroutine. Failures feed the reconnect policy: a fixed delay between
// attempts, at most MaxAttempts consecutive failures per URL, one
// failover to FallbackURL when configured, then a permanent stop. The
// process keeps running with the feed degraded; nothing is propagated to
// the consumer.
type Connection struct {
	name           string
	fallbackURL    string
	maxAttempts    int
	reconnectDelay time.Duration
	dialer         *websocket.Dialer
	onMessage      func([]byte)
	logger         *zap.Logger

	mu         sync.Mutex
	currentURL string
	conn       *websocket.Conn
	attempts   int
	timer      *time.Timer
	closed     bool
	stopped    bool
}

func NewConnection(cfg Config, onMessage func([]byte), logger *zap.Logger) *Connection {
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.ReconnectDelay == 0 {
		cfg.ReconnectDelay = DefaultReconnectDelay
	}
	return &Connection{
		name:           cfg.Name,
		currentURL:     cfg.URL,
		fallbackURL:    cfg.FallbackURL,
		maxAttempts:    cfg.MaxAttempts,
		reconnectDelay: cfg.ReconnectDelay,
		dialer:         &websocket.Dialer{HandshakeTimeout: handshakeTimeout},
		onMessage:      onMessage,
		logger:         logger.Named("stream").With(zap.String("stream", cfg.Name)),
	}
}

// Connect starts the connection attempt loop. It returns immediately;
// connection state is only observable through the callbacks and logs.
func (c *Connection) Connect() {
	go c.dial()
}

// Close tears the connection down and cancels any pending reconnect
// timer, so a deliberate shutdown never produces a late dial.
func (c *Connection) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.logger.Info("connection closed")
}

// Stopped reports whether the reconnect policy has given up on all
// available URLs.
func (c *Connection) Stopped() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopped
}

// CurrentURL returns the endpoint the next attempt will target.
func (c *Connection) CurrentURL() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentURL
}

func (c *Connection) dial() {
	c.mu.Lock()
	if c.closed || c.stopped {
		c.mu.Unlock()
		return
	}
	url := c.currentURL
	c.mu.Unlock()

	c.logger.Info("connecting", zap.String("url", url))
	conn, _, err := c.dialer.Dial(url, http.Header{"User-Agent": []string{"Mozilla/5.0"}})
	if err != nil {
		c.logger.Error("connect failed", zap.String("url", url), zap.Error(err))
		c.handleFailure()
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		conn.Close()
		return
	}
	c.conn = conn
	c.attempts = 0
	c.mu.Unlock()

	c.logger.Info("connected", zap.String("url", url))
	go c.readLoop(conn)
}

func (c *Connection) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			closed := c.closed
			c.mu.Unlock()
			if closed {
				return
			}
			c.logger.Warn("connection lost", zap.Error(err))
			c.handleFailure()
			return
		}
		c.onMessage(data)
	}
}

// handleFailure advances the reconnect state machine: count the failure,
// fail over or stop once the attempts for the current URL are exhausted,
// otherwise schedule the next dial after the fixed delay.
func (c *Connection) handleFailure() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.stopped {
		return
	}
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}

	c.attempts++
	if c.attempts >= c.maxAttempts {
		if c.fallbackURL != "" && c.currentURL != c.fallbackURL {
			c.logger.Warn("attempts exhausted, switching to fallback URL",
				zap.String("fallback", c.fallbackURL))
			c.currentURL = c.fallbackURL
			c.attempts = 0
		} else {
			c.stopped = true
			c.logger.Error("reconnect attempts exhausted on all URLs, stopping stream")
			return
		}
	}

	c.logger.Info("scheduling reconnect",
		zap.Int("attempt", c.attempts+1),
		zap.Int("max", c.maxAttempts),
		zap.String("url", c.currentURL),
		zap.Duration("delay", c.reconnectDelay))
	c.timer = time.AfterFunc(c.reconnectDelay, c.dial)
}
