package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/coursehub-backend/internal/domain/aggregates"
	"github.com/yungbote/coursehub-backend/internal/platform/apierr"
	"github.com/yungbote/coursehub-backend/internal/platform/ctxutil"
)

func TestRespondAggregateError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", domainagg.Validation("op", "title is required"), http.StatusBadRequest, "validation"},
		{"not found", domainagg.NotFound("op", "course"), http.StatusNotFound, "not_found"},
		{"not enrolled", fmt.Errorf("lesson: %w", domainagg.Forbidden("op", domainagg.ReasonNotEnrolled)), http.StatusForbidden, "not_enrolled"},
		{"conflict", domainagg.NewError(domainagg.CodeConflict, "op", "taken", nil), http.StatusConflict, "conflict"},
		{"retryable", domainagg.NewError(domainagg.CodeRetryable, "op", "deadlock", nil), http.StatusServiceUnavailable, "retryable"},
		{"apierr", apierr.New(http.StatusUnauthorized, "unauthorized", errors.New("no token")), http.StatusUnauthorized, "unauthorized"},
		{"plain", errors.New("boom"), http.StatusInternalServerError, "internal"},
		{"internal code", domainagg.NewError(domainagg.CodeInternal, "op", "db down", nil), http.StatusInternalServerError, "internal"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			RespondAggregateError(c, tc.err)

			if w.Code != tc.status {
				t.Fatalf("status = %d, want %d", w.Code, tc.status)
			}
			var env ErrorEnvelope
			if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if env.Error.Code != tc.code || env.Error.Message == "" {
				t.Fatalf("unexpected envelope: %+v", env)
			}
		})
	}
}

func TestInternalErrorsDoNotLeak(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	RespondAggregateError(c, errors.New("pq: password authentication failed"))

	var env ErrorEnvelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	if env.Error.Message != "internal error" {
		t.Fatalf("internal detail leaked: %q", env.Error.Message)
	}
}

func TestEnvelopeCarriesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request = req.WithContext(ctxutil.WithCorrelation(req.Context(), ctxutil.Correlation{RequestID: "req-7"}))

	RespondError(c, http.StatusBadRequest, "invalid_request", nil)

	var env ErrorEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Error.RequestID != "req-7" || env.Error.Message != "Bad Request" || !c.IsAborted() {
		t.Fatalf("unexpected envelope: %+v aborted=%v", env, c.IsAborted())
	}
}
