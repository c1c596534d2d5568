package observability

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/yungbote/coursehub-backend/internal/platform/ctxutil"
)

// InitSentry configures the global hub. An empty dsn leaves reporting off.
func InitSentry(dsn, env, release string) (func(), error) {
	if dsn == "" {
		return func() {}, nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      env,
		Release:          release,
		AttachStacktrace: true,
	}); err != nil {
		return func() {}, err
	}
	return func() { sentry.Flush(2 * time.Second) }, nil
}

// CaptureErr reports err with the request's ids attached when ctx carries them.
func CaptureErr(ctx context.Context, err error) {
	if err == nil {
		return
	}
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub().Clone()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		if rd := ctxutil.GetRequestData(ctx); rd != nil {
			scope.SetUser(sentry.User{ID: rd.UserID.String()})
			scope.SetTag("role", rd.Role)
		}
		if corr, ok := ctxutil.CorrelationFrom(ctx); ok {
			scope.SetTag("request_id", corr.RequestID)
			scope.SetTag("trace_id", corr.TraceID)
		}
		hub.CaptureException(err)
	})
}
