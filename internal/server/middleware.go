package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tartampluch/go-ninety/internal/config"
)

// recovery turns handler panics into a 500 JSON error envelope.
func recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		slog.Error(config.MsgPanicRecovered,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPath, c.Request.URL.Path,
			config.LogKeyPanic, recovered,
		)
		abortWithError(c, http.StatusInternalServerError, config.ErrCodeInternal, config.ErrInternal)
	})
}

// requestLogger logs one debug line per request.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Debug(config.MsgHTTPRequest,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyMethod, c.Request.Method,
			config.LogKeyPath, c.Request.URL.Path,
			config.LogKeyStatus, c.Writer.Status(),
			config.LogKeyDuration, time.Since(start).Milliseconds(),
		)
	}
}

// methodNotAllowed completes gin's 405 with the Allow header.
func methodNotAllowed(c *gin.Context) {
	c.Header(config.HeaderAllow, config.AllowedMethods)
	c.String(http.StatusMethodNotAllowed, config.HTTPMsgMethodNotAll)
}
