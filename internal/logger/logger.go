package logger

import (
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// CorrelationIDHeader carries the per-request correlation identifier.
const CorrelationIDHeader = "X-Correlation-ID"

const correlationContextKey = "correlationID"

var global = zap.NewNop()

// Init builds the process logger, honoring LOG_LEVEL when set.
func Init() (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if raw := strings.TrimSpace(os.Getenv("LOG_LEVEL")); raw != "" {
		if parsed, err := zapcore.ParseLevel(strings.ToLower(raw)); err == nil {
			level = parsed
		}
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)

	logg, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	global = logg
	return logg, nil
}

// L returns the process logger. Safe to call before Init; it returns a no-op
// logger until Init succeeds.
func L() *zap.Logger {
	return global
}

// Middleware assigns a correlation ID to every request and logs its outcome.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(CorrelationIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(correlationContextKey, id)
		c.Writer.Header().Set(CorrelationIDHeader, id)

		start := time.Now()
		c.Next()

		global.Info("http request",
			zap.String("correlation_id", id),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// CorrelationID extracts the correlation ID assigned by Middleware.
func CorrelationID(c *gin.Context) string {
	value, ok := c.Get(correlationContextKey)
	if !ok {
		return ""
	}
	id, _ := value.(string)
	return id
}
