package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursehub-backend/internal/platform/ctxutil"
)

type APIError struct {
	Message   string `json:"message"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// Envelope builds the error body for c, stamping the request id when one was assigned.
func Envelope(c *gin.Context, code, msg string) ErrorEnvelope {
	env := ErrorEnvelope{Error: APIError{Message: msg, Code: code}}
	if c != nil && c.Request != nil {
		if corr, ok := ctxutil.CorrelationFrom(c.Request.Context()); ok {
			env.Error.RequestID = corr.RequestID
		}
	}
	return env
}

// RespondError writes err's text under code. Callers pass only client-safe errors here;
// server faults go through RespondAggregateError.
func RespondError(c *gin.Context, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	respondMessage(c, status, code, msg)
}

func respondMessage(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, Envelope(c, code, msg))
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

func RespondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
