package middleware

import (
	"context"
	"net/http"
	"time"

	"market-data-backend/internal/api/dto"

	"github.com/gin-gonic/gin"
)

// Timeout bounds each request with a deadline. When the deadline fires
// first, this middleware writes the 504 and aborts; the handler chain may
// still be running but its response is discarded.
func Timeout(duration time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), duration)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		done := make(chan struct{})
		go func() {
			c.Next()
			close(done)
		}()

		select {
		case <-done:
			return
		case <-ctx.Done():
			c.AbortWithStatusJSON(http.StatusGatewayTimeout, dto.Res{
				Success: false,
				Error:   "request timed out",
			})
		}
	}
}
