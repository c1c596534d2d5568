package middleware

import (
	"fmt"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursehub-backend/internal/http/response"
	"github.com/yungbote/coursehub-backend/internal/observability"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

// AttachRequestContext gives each request its own sentry hub and turns panics into a 500 envelope.
func AttachRequestContext(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		hub := sentry.CurrentHub().Clone()
		hub.Scope().SetRequest(c.Request)
		ctx := sentry.SetHubOnContext(c.Request.Context(), hub)
		c.Request = c.Request.WithContext(ctx)

		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			err, ok := rec.(error)
			if !ok {
				err = fmt.Errorf("panic: %v", rec)
			}
			if log != nil {
				log.Error("Recovered panic", "path", c.Request.URL.Path, "error", err)
			}
			observability.CaptureErr(c.Request.Context(), err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, response.Envelope(c, "internal", "internal error"))
		}()
		c.Next()
	}
}
