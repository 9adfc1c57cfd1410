package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"verified-ideas/internal/shared/server/respond"
	"verified-ideas/internal/shared/telemetry"
)

// Recovery recovers from panics and answers with the generic internal error body.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				telemetry.Error("panic", map[string]any{
					"request_id": RequestIDFromContext(c),
					"error":      fmt.Sprint(rec),
					"stack":      string(debug.Stack()),
					"path":       c.Request.URL.Path,
					"method":     c.Request.Method,
				})
				respond.Error(c, http.StatusInternalServerError, "internal", "Internal Server Error", fmt.Errorf("panic: %v", rec))
			}
		}()
		c.Next()
	}
}
