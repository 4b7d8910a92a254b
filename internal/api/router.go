package api

import (
	"time"

	"market-data-backend/internal/api/gateway"
	"market-data-backend/internal/api/handler"
	"market-data-backend/internal/api/middleware"

	"github.com/gin-gonic/gin"
)

// NewRouter assembles the HTTP surface: the query endpoints behind the
// error and timeout middleware, and the websocket push endpoint outside
// the timeout (it holds the connection open).
func NewRouter(hd handler.HandlerItf, gw *gateway.Gateway, requestTimeout time.Duration) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	v1 := r.Group("/api/v1")
	v1.Use(middleware.Error())
	v1.Use(middleware.Timeout(requestTimeout))
	{
		v1.GET("/historical", hd.GetHistorical)
		v1.GET("/price", hd.GetLatestPrice)
		v1.GET("/trade", hd.GetLatestTrade)
	}

	r.GET("/api/v1/stream", gw.Handle)
	return r
}
