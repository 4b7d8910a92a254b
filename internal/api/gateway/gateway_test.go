package gateway

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"market-data-backend/internal/bus"
	"market-data-backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupGateway(t *testing.T) (*bus.Bus, *Gateway, *websocket.Conn) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	b := bus.New()
	gw := New(b, zap.NewNop())

	r := gin.New()
	r.GET("/stream", gw.Handle)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool {
		return gw.ClientCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	return b, gw, conn
}

func TestGatewayPushesChartUpdates(t *testing.T) {
	b, _, conn := setupGateway(t)

	b.Publish(bus.TopicChartUpdate, models.ChartPoint{Time: 1678886400, Value: 100.5, Baseline: 100.25})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var env struct {
		Event string            `json:"event"`
		Data  models.ChartPoint `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&env))

	assert.Equal(t, "chartUpdate", env.Event)
	assert.Equal(t, models.ChartPoint{Time: 1678886400, Value: 100.5, Baseline: 100.25}, env.Data)
}

func TestGatewayPushesRelayUpdates(t *testing.T) {
	b, _, conn := setupGateway(t)

	b.Publish(bus.TopicTradeUpdate, models.RelayPoint{Time: 1678886400, Value: 64201.5})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var env struct {
		Event string            `json:"event"`
		Data  models.RelayPoint `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&env))

	assert.Equal(t, "tradeUpdate", env.Event)
	assert.Equal(t, models.RelayPoint{Time: 1678886400, Value: 64201.5}, env.Data)
}

func TestGatewayUnregistersDisconnectedClients(t *testing.T) {
	b, gw, conn := setupGateway(t)

	conn.Close()

	assert.Eventually(t, func() bool {
		return gw.ClientCount() == 0
	}, 2*time.Second, 10*time.Millisecond)

	// Publishing with no clients must not panic or block.
	assert.NotPanics(t, func() {
		b.Publish(bus.TopicChartUpdate, models.ChartPoint{Time: 1, Value: 2, Baseline: 3})
	})
}
