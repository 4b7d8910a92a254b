package stream

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// wsServer upgrades every request and runs handler on the connection.
// Requests are counted even when the handshake is refused.
type wsServer struct {
	*httptest.Server
	mu    sync.Mutex
	hits  int
	serve func(conn *websocket.Conn)
}

func newWSServer(t *testing.T, refuse bool, serve func(conn *websocket.Conn)) *wsServer {
	t.Helper()
	s := &wsServer{serve: serve}
	upgrader := websocket.Upgrader{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits++
		s.mu.Unlock()
		if refuse {
			http.Error(w, "no", http.StatusServiceUnavailable)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		if s.serve != nil {
			s.serve(conn)
		}
		conn.Close()
	}))
	t.Cleanup(s.Server.Close)
	return s
}

func (s *wsServer) wsURL() string {
	return "ws" + strings.TrimPrefix(s.Server.URL, "http")
}

func (s *wsServer) attempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits
}

func TestForwardsMessages(t *testing.T) {
	srv := newWSServer(t, false, func(conn *websocket.Conn) {
		conn.WriteMessage(websocket.TextMessage, []byte(`{"p":"100"}`))
		conn.WriteMessage(websocket.TextMessage, []byte(`{"p":"101"}`))
	})

	var mu sync.Mutex
	var got []string
	c := NewConnection(Config{
		Name:           "test",
		URL:            srv.wsURL(),
		ReconnectDelay: 10 * time.Millisecond,
	}, func(data []byte) {
		mu.Lock()
		got = append(got, string(data))
		mu.Unlock()
	}, zap.NewNop())
	defer c.Close()

	c.Connect()

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 2
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	assert.Equal(t, []string{`{"p":"100"}`, `{"p":"101"}`}, got)
	mu.Unlock()
}

func TestFailsOverAfterExhaustingPrimary(t *testing.T) {
	primary := newWSServer(t, true, nil)
	fallback := newWSServer(t, true, nil)

	c := NewConnection(Config{
		Name:           "aggTrade",
		URL:            primary.wsURL(),
		FallbackURL:    fallback.wsURL(),
		ReconnectDelay: 5 * time.Millisecond,
	}, func([]byte) {}, zap.NewNop())
	defer c.Close()

	c.Connect()

	// The 6th attempt targets the fallback after 5 failures on the
	// primary.
	assert.Eventually(t, func() bool {
		return fallback.attempts() >= 1
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, 5, primary.attempts())
	assert.Equal(t, fallback.wsURL(), c.CurrentURL())

	// The fallback gets its own attempt budget, then the stream stops
	// for good.
	assert.Eventually(t, c.Stopped, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, 5, fallback.attempts())

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 5, primary.attempts())
	assert.Equal(t, 5, fallback.attempts())
}

func TestStopsWithoutFallback(t *testing.T) {
	srv := newWSServer(t, true, nil)

	c := NewConnection(Config{
		Name:           "trade",
		URL:            srv.wsURL(),
		ReconnectDelay: 5 * time.Millisecond,
	}, func([]byte) {}, zap.NewNop())
	defer c.Close()

	c.Connect()

	assert.Eventually(t, c.Stopped, 2*time.Second, 5*time.Millisecond)

	// No 6th attempt is ever scheduled.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 5, srv.attempts())
}

func TestReconnectsAfterConnectionDrop(t *testing.T) {
	// First connection drops immediately; the reconnect succeeds and
	// delivers a message.
	var mu sync.Mutex
	conns := 0
	srv := newWSServer(t, false, nil)
	srv.serve = func(conn *websocket.Conn) {
		mu.Lock()
		conns++
		n := conns
		mu.Unlock()
		if n == 1 {
			return // close right away
		}
		conn.WriteMessage(websocket.TextMessage, []byte("back"))
		time.Sleep(100 * time.Millisecond)
	}

	received := make(chan string, 1)
	c := NewConnection(Config{
		Name:           "test",
		URL:            srv.wsURL(),
		ReconnectDelay: 5 * time.Millisecond,
	}, func(data []byte) {
		select {
		case received <- string(data):
		default:
		}
	}, zap.NewNop())
	defer c.Close()

	c.Connect()

	select {
	case msg := <-received:
		assert.Equal(t, "back", msg)
	case <-time.After(2 * time.Second):
		t.Fatal("no message after reconnect")
	}
	assert.False(t, c.Stopped())
}

func TestCloseCancelsPendingReconnect(t *testing.T) {
	srv := newWSServer(t, true, nil)

	c := NewConnection(Config{
		Name:           "test",
		URL:            srv.wsURL(),
		ReconnectDelay: 50 * time.Millisecond,
	}, func([]byte) {}, zap.NewNop())

	c.Connect()

	// Wait for the first failure so a reconnect timer is pending, then
	// close before it fires.
	assert.Eventually(t, func() bool {
		return srv.attempts() == 1
	}, 2*time.Second, 5*time.Millisecond)
	c.Close()

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, 1, srv.attempts(), "closed connection must not dial again")
}

func TestSuccessResetsAttemptCounter(t *testing.T) {
	// The third dial succeeds briefly before dropping; the successful
	// connection resets the attempt counter.
	var mu sync.Mutex
	hits := 0
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits++
		n := hits
		mu.Unlock()
		if n == 3 {
			if conn, err := upgrader.Upgrade(w, r, nil); err == nil {
				conn.Close()
			}
			return
		}
		http.Error(w, "no", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewConnection(Config{
		Name:           "test",
		URL:            "ws" + strings.TrimPrefix(srv.URL, "http"),
		ReconnectDelay: 5 * time.Millisecond,
	}, func([]byte) {}, zap.NewNop())
	defer c.Close()

	c.Connect()

	// Without the reset the stream would stop after 5 dials total.
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return hits >= 7
	}, 2*time.Second, 5*time.Millisecond)
}
