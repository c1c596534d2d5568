package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/coursehub-backend/internal/domain/aggregates"
	"github.com/yungbote/coursehub-backend/internal/observability"
	"github.com/yungbote/coursehub-backend/internal/platform/apierr"
)

// RespondAggregateError maps a service error onto the error envelope.
// Forbidden errors use their reason as the code; anything unmapped is a 500 and is reported.
func RespondAggregateError(c *gin.Context, err error) {
	if ae, ok := apierr.As(err); ok {
		status := ae.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		RespondError(c, status, ae.Code, ae)
		return
	}

	var aggErr *domainagg.Error
	if errors.As(err, &aggErr) {
		switch aggErr.Code {
		case domainagg.CodeValidation:
			respondMessage(c, http.StatusBadRequest, string(aggErr.Code), aggErr.Message)
			return
		case domainagg.CodeNotFound:
			respondMessage(c, http.StatusNotFound, string(aggErr.Code), aggErr.Message)
			return
		case domainagg.CodeForbidden:
			code := aggErr.Message
			if code == "" {
				code = string(aggErr.Code)
			}
			respondMessage(c, http.StatusForbidden, code, "forbidden: "+code)
			return
		case domainagg.CodeConflict:
			respondMessage(c, http.StatusConflict, string(aggErr.Code), aggErr.Message)
			return
		case domainagg.CodeRetryable:
			respondMessage(c, http.StatusServiceUnavailable, string(aggErr.Code), "temporarily unavailable, retry")
			return
		}
	}

	observability.CaptureErr(c.Request.Context(), err)
	_ = c.Error(err)
	respondMessage(c, http.StatusInternalServerError, string(domainagg.CodeInternal), "internal error")
}
