package dropshipserver

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderRequestID carries the correlation id in both directions.
const HeaderRequestID = "X-Request-ID"

const requestIDKey = "request.id"

// RequestID reuses an incoming X-Request-ID or mints a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// RequestIDFrom returns the id set by RequestID.
func RequestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// AccessLog writes one structured line per request. 5xx responses are logged
// at ERROR together with errors recorded on the context.
func AccessLog(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		requestAttrs := slog.Group("request",
			slog.String("id", RequestIDFrom(c)),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.String("route", route),
			slog.String("remote_addr", c.ClientIP()),
		)
		responseAttrs := slog.Group("response",
			slog.Int("status", status),
			slog.Int("bytes", c.Writer.Size()),
			slog.String("latency", time.Since(start).String()),
		)
		if status >= 500 {
			logger.ErrorContext(c.Request.Context(), "server error", requestAttrs, responseAttrs,
				slog.String("errors", c.Errors.String()))
			return
		}
		logger.InfoContext(c.Request.Context(), "request completed", requestAttrs, responseAttrs)
	}
}
