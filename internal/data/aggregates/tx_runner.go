package aggregates

import (
	"context"
	"time"

	"gorm.io/gorm"

	domainagg "github.com/yungbote/coursehub-backend/internal/domain/aggregates"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
)

// TxRunner opens the transaction one aggregate write attempt runs in.
type TxRunner interface {
	InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error
}

// DefaultWriteTimeout bounds a single write transaction, lock waits included, when the caller's
// context has no deadline of its own.
const DefaultWriteTimeout = 10 * time.Second

type gormTxRunner struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewGormTxRunner(db *gorm.DB) TxRunner {
	return &gormTxRunner{db: db, timeout: DefaultWriteTimeout}
}

func (r *gormTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	if r == nil || r.db == nil {
		return domainagg.NewError(domainagg.CodeInternal, "aggregate.tx", "transaction runner has nil db", nil)
	}
	if _, ok := ctx.Deadline(); !ok && r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: ctx, Tx: tx})
	})
}
