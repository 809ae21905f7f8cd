package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// requestLogger prefers a logger placed on the context and tags it with the route.
func requestLogger(c *gin.Context, base *zap.Logger) *zap.Logger {
	if l, exists := c.Get("logger"); exists {
		if logger, ok := l.(*zap.Logger); ok {
			base = logger
		}
	}
	if base == nil {
		base = zap.NewNop()
	}
	return base.With(zap.String("method", c.Request.Method), zap.String("route", c.FullPath()))
}
