package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/coursehub-backend/internal/platform/ctxutil"
)

const (
	headerRequestID = "X-Request-Id"
	headerTraceID   = "X-Trace-Id"

	maxRequestIDLen = 64
)

// Correlate assigns the request id and trace id that logs and error reports carry.
// A client X-Request-Id is honored only when it is short and printable. The trace id comes
// from the otel span when tracing is on.
func Correlate() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(headerRequestID)
		if !validRequestID(reqID) {
			reqID = uuid.NewString()
		}
		traceID := reqID
		if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
			traceID = sc.TraceID().String()
		}

		c.Request = c.Request.WithContext(ctxutil.WithCorrelation(c.Request.Context(), ctxutil.Correlation{
			RequestID: reqID,
			TraceID:   traceID,
		}))
		c.Header(headerRequestID, reqID)
		c.Header(headerTraceID, traceID)
		c.Next()
	}
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		ch := id[i]
		alnum := ch >= '0' && ch <= '9' || ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z'
		if !alnum && ch != '-' && ch != '_' && ch != '.' {
			return false
		}
	}
	return true
}
