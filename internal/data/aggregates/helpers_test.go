package aggregates

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/coursehub-backend/internal/data/repos"
	repotest "github.com/yungbote/coursehub-backend/internal/data/repos/testutil"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
)

type sqliteFixture struct {
	ctx   context.Context
	tx    *gorm.DB
	hooks *spyHooks
	repos repos.Set
}

func newSQLiteFixture(t *testing.T) *sqliteFixture {
	t.Helper()
	db := repotest.DB(t)
	tx := repotest.Tx(t, db)
	return &sqliteFixture{
		ctx:   context.Background(),
		tx:    tx,
		hooks: &spyHooks{},
		repos: repos.NewSet(tx, repotest.Logger(t)),
	}
}

func (f *sqliteFixture) base() BaseDeps {
	return BaseDeps{
		DB:       f.tx,
		Runner:   NewGormTxRunner(f.tx),
		Hooks:    f.hooks,
		CASGuard: NewCASGuard(f.tx),
	}
}

func dbcFor(f *sqliteFixture) dbctx.Context {
	return dbctx.Context{Ctx: f.ctx, Tx: f.tx}
}
