package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursehub-backend/internal/platform/ctxutil"
)

func TestCorrelate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name   string
		header string
		keep   bool
	}{
		{"client id kept", "abc-123_x.y", true},
		{"missing id generated", "", false},
		{"too long replaced", strings.Repeat("a", maxRequestIDLen+1), false},
		{"unprintable replaced", "bad id\n", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.Use(Correlate())
			var got ctxutil.Correlation
			r.GET("/x", func(c *gin.Context) {
				got, _ = ctxutil.CorrelationFrom(c.Request.Context())
				c.Status(http.StatusNoContent)
			})
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if tc.header != "" {
				req.Header.Set(headerRequestID, tc.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if got.RequestID == "" || rec.Header().Get(headerRequestID) != got.RequestID {
				t.Fatalf("request id not propagated: ctx=%q header=%q", got.RequestID, rec.Header().Get(headerRequestID))
			}
			if (got.RequestID == tc.header) != tc.keep {
				t.Fatalf("keep=%v but got %q for %q", tc.keep, got.RequestID, tc.header)
			}
			if got.TraceID != got.RequestID {
				t.Fatalf("without a span the trace id falls back to the request id, got %q", got.TraceID)
			}
		})
	}
}
