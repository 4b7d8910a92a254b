package gateway

import (
	"net/http"
	"sync"

	"market-data-backend/internal/bus"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Envelope wraps every pushed event with its topic name so a single
// client connection can carry both streams unambiguously.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Gateway pushes chart and relay points to connected websocket clients.
// Delivery is best-effort: a client that cannot keep up has messages
// dropped, and a dead connection is unregistered on its next write.
type Gateway struct {
	upgrader websocket.Upgrader
	logger   *zap.Logger

	mu      sync.Mutex
	clients map[*client]bool
}

type client struct {
	conn *websocket.Conn
	send chan Envelope
}

func New(b *bus.Bus, logger *zap.Logger) *Gateway {
	g := &Gateway{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger:  logger.Named("gateway"),
		clients: make(map[*client]bool),
	}

	b.Subscribe(bus.TopicChartUpdate, func(payload any) {
		g.broadcast(Envelope{Event: "chartUpdate", Data: payload})
	})
	b.Subscribe(bus.TopicTradeUpdate, func(payload any) {
		g.broadcast(Envelope{Event: "tradeUpdate", Data: payload})
	})
	return g
}

// Handle upgrades the request and streams bus events to the client until
// it disconnects.
func (g *Gateway) Handle(c *gin.Context) {
	conn, err := g.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		g.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	cl := &client{conn: conn, send: make(chan Envelope, 256)}
	g.mu.Lock()
	g.clients[cl] = true
	g.mu.Unlock()
	g.logger.Info("client connected", zap.String("remote", conn.RemoteAddr().String()))

	go g.writePump(cl)
	g.readPump(cl)
}

// ClientCount reports the number of connected clients.
func (g *Gateway) ClientCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.clients)
}

func (g *Gateway) broadcast(env Envelope) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for cl := range g.clients {
		select {
		case cl.send <- env:
		default:
			// Backpressure: drop for slow clients rather than block
			// the ingest path.
		}
	}
}

func (g *Gateway) writePump(cl *client) {
	for env := range cl.send {
		if err := cl.conn.WriteJSON(env); err != nil {
			g.unregister(cl)
			return
		}
	}
}

// readPump discards inbound frames; it exists to detect disconnects.
func (g *Gateway) readPump(cl *client) {
	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			g.unregister(cl)
			return
		}
	}
}

func (g *Gateway) unregister(cl *client) {
	g.mu.Lock()
	if _, ok := g.clients[cl]; !ok {
		g.mu.Unlock()
		return
	}
	delete(g.clients, cl)
	g.mu.Unlock()

	close(cl.send)
	cl.conn.Close()
	g.logger.Info("client disconnected", zap.String("remote", cl.conn.RemoteAddr().String()))
}
