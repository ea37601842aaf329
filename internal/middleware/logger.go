package middleware

import (
	"time"

	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"
)

func RequestLogger(logger *zap.Logger) drift.HandlerFunc {
	return func(c *drift.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
