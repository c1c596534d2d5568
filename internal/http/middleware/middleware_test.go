package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	redisclient "github.com/yungbote/coursehub-backend/internal/clients/redis"
	"github.com/yungbote/coursehub-backend/internal/platform/ctxutil"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
	"github.com/yungbote/coursehub-backend/internal/services"
)

type stubAuth struct {
	services.AuthService
	rd *ctxutil.RequestData
}

func (s stubAuth) SetContextFromToken(ctx context.Context, token string) (context.Context, error) {
	if token != "good" {
		return ctx, services.ErrUnauthorized
	}
	return ctxutil.WithRequestData(ctx, s.rd), nil
}

func serve(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuthGates(t *testing.T) {
	gin.SetMode(gin.TestMode)
	student := &ctxutil.RequestData{UserID: uuid.New(), Role: "student"}
	teacher := &ctxutil.RequestData{UserID: uuid.New(), Role: "teacher"}
	admin := &ctxutil.RequestData{UserID: uuid.New(), Role: "student", IsAdmin: true}

	cases := []struct {
		name   string
		rd     *ctxutil.RequestData
		gate   gin.HandlerFunc
		token  string
		status int
	}{
		{"missing token", student, nil, "", http.StatusUnauthorized},
		{"bad token", student, nil, "bad", http.StatusUnauthorized},
		{"authenticated", student, nil, "good", http.StatusOK},
		{"student at teacher gate", student, RequireTeacher(), "good", http.StatusForbidden},
		{"teacher at teacher gate", teacher, RequireTeacher(), "good", http.StatusOK},
		{"teacher at admin gate", teacher, RequireAdmin(), "good", http.StatusForbidden},
		{"admin at admin gate", admin, RequireAdmin(), "good", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			am := NewAuthMiddleware(logger.NewNop(), stubAuth{rd: tc.rd})
			r := gin.New()
			r.Use(am.RequireAuth())
			if tc.gate != nil {
				r.Use(tc.gate)
			}
			r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
			if rec := serve(r, tc.token); rec.Code != tc.status {
				t.Fatalf("status = %d, want %d", rec.Code, tc.status)
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rd := &ctxutil.RequestData{UserID: uuid.New(), Role: "student"}
	am := NewAuthMiddleware(logger.NewNop(), stubAuth{rd: rd})
	r := gin.New()
	r.Use(am.OptionalAuth())
	r.GET("/x", func(c *gin.Context) {
		if ctxutil.GetRequestData(c.Request.Context()) != nil {
			c.Status(http.StatusAccepted)
			return
		}
		c.Status(http.StatusOK)
	})

	if rec := serve(r, ""); rec.Code != http.StatusOK {
		t.Fatalf("anonymous: %d", rec.Code)
	}
	if rec := serve(r, "bad"); rec.Code != http.StatusOK {
		t.Fatalf("bad token must fall back to anonymous: %d", rec.Code)
	}
	if rec := serve(r, "good"); rec.Code != http.StatusAccepted {
		t.Fatalf("valid token must install caller: %d", rec.Code)
	}
}

type countingLimiter struct {
	limit int
	seen  int
	err   error
}

func (l *countingLimiter) Allow(context.Context, string, string) (redisclient.RateDecision, error) {
	if l.err != nil {
		return redisclient.RateDecision{}, l.err
	}
	l.seen++
	if l.seen > l.limit {
		return redisclient.RateDecision{RetryAfter: 1500 * time.Millisecond}, nil
	}
	return redisclient.RateDecision{Allowed: true}, nil
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter := &countingLimiter{limit: 2}
	r := gin.New()
	r.GET("/x", RateLimit(logger.NewNop(), limiter, nil, "contact"), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		if rec := serve(r, ""); rec.Code != http.StatusOK {
			t.Fatalf("request %d: %d", i, rec.Code)
		}
	}
	rec := serve(r, "")
	if rec.Code != http.StatusTooManyRequests || rec.Header().Get("Retry-After") != "2" {
		t.Fatalf("expected 429 with Retry-After=2, got %d %q", rec.Code, rec.Header().Get("Retry-After"))
	}

	broken := gin.New()
	broken.GET("/x", RateLimit(logger.NewNop(), &countingLimiter{err: errors.New("redis down")}, nil, "contact"), func(c *gin.Context) { c.Status(http.StatusOK) })
	if rec := serve(broken, ""); rec.Code != http.StatusOK {
		t.Fatalf("limiter failure must fail open, got %d", rec.Code)
	}
}

func TestRecoveryReturnsEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachRequestContext(logger.NewNop()))
	r.GET("/x", func(c *gin.Context) { panic("boom") })
	rec := serve(r, "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
}
