package httpapi

import (
	"time"

	"github.com/gin-gonic/gin"

	"docqa/internal/log"
)

// RequestLogger logs one structured line per request. Bodies are not
// captured since uploads can be large.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Infow("http request",
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"clientIP", c.ClientIP(),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"errors", c.Errors.String(),
		)
	}
}
