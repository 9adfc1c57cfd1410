package respond

import (
	"github.com/gin-gonic/gin"

	"verified-ideas/internal/shared/telemetry"
)

// ErrorResponse is the error body returned to clients.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Error logs the failure with its cause and aborts with {"error": message}.
// The cause is only written to the server log.
func Error(c *gin.Context, status int, code, message string, cause error) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if cause != nil {
		fields["error"] = cause.Error()
	}
	if ideaID := c.GetString("ideaId"); ideaID != "" {
		fields["idea_id"] = ideaID
	}
	telemetry.Error("http.error", fields)

	c.AbortWithStatusJSON(status, ErrorResponse{Error: message})
}
