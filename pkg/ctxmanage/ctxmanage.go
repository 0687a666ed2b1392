package ctxmanage

import (
	"github.com/gin-gonic/gin"
)

// TraceIDKey is where the logger middleware stores the request trace id.
const TraceIDKey = "trace-id"

// GetTraceIdOfRequest returns the trace id set by the logger middleware,
// or an empty string if the middleware did not run.
func GetTraceIdOfRequest(c *gin.Context) string {
	traceId, ok := c.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceId
}
