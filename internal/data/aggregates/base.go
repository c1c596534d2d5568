package aggregates

import (
	"context"
	"strings"
	"time"

	domainagg "github.com/yungbote/coursehub-backend/internal/domain/aggregates"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
	"gorm.io/gorm"
)

// BaseDeps is shared by every aggregate. Only DB is required.
type BaseDeps struct {
	DB       *gorm.DB
	Log      *logger.Logger
	Runner   TxRunner
	Hooks    Hooks
	CASGuard CASGuard
}

func (d BaseDeps) withDefaults() BaseDeps {
	if d.Runner == nil {
		d.Runner = NewGormTxRunner(d.DB)
	}
	if d.Hooks == nil {
		d.Hooks = noopHooks{}
	}
	if d.CASGuard.db == nil {
		d.CASGuard = NewCASGuard(d.DB)
	}
	return d
}

// conflictRetries is how many extra transactions a write gets after losing a race on a unique pair.
const conflictRetries = 1

// executeWrite runs fn in one transaction and reports the outcome to the hooks.
// Every error it returns carries an aggregate code.
func executeWrite(ctx context.Context, deps BaseDeps, op string, fn func(dbc dbctx.Context) error) error {
	return executeWriteWithRetry(ctx, deps, op, 0, fn)
}

// executeWriteWithRetry reruns fn in a fresh transaction after a conflict or retryable failure,
// at most retries times. Each attempt is observed on its own.
func executeWriteWithRetry(ctx context.Context, deps BaseDeps, op string, retries int, fn func(dbc dbctx.Context) error) error {
	deps = deps.withDefaults()
	if op = strings.TrimSpace(op); op == "" {
		op = "aggregate.write"
	}
	for attempt := 0; ; attempt++ {
		start := time.Now()
		err := MapError(op, deps.Runner.InTx(ctx, fn))
		code := domainagg.CodeOf(err)
		switch code {
		case domainagg.CodeConflict:
			deps.Hooks.IncConflict(op)
		case domainagg.CodeRetryable:
			deps.Hooks.IncRetry(op)
		}
		deps.Hooks.ObserveOperation(op, aggregateErrorStatus(err), time.Since(start))

		transient := code == domainagg.CodeConflict || code == domainagg.CodeRetryable
		if err == nil || !transient || attempt >= retries || ctx.Err() != nil {
			return err
		}
	}
}

func aggregateErrorStatus(err error) string {
	if err == nil {
		return "success"
	}
	if code := domainagg.CodeOf(MapError("aggregate.status", err)); code != "" {
		return string(code)
	}
	return string(domainagg.CodeInternal)
}
