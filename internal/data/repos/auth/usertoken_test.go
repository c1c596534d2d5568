package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/coursehub-backend/internal/data/repos/testutil"
	"github.com/yungbote/coursehub-backend/internal/domain/auth"
	"github.com/yungbote/coursehub-backend/internal/domain/user"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
)

func TestUserTokenRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewUserTokenRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "usertokenrepo", user.RoleStudent)

	makeToken := func(access, refresh string, expires time.Time) *auth.UserToken {
		return &auth.UserToken{
			ID:               uuid.New(),
			UserID:           u.ID,
			AccessTokenID:    access,
			RefreshTokenHash: refresh,
			ExpiresAt:        expires,
		}
	}

	t1 := makeToken("access-1", "refresh-1", time.Now().Add(time.Hour))
	if _, err := repo.Create(dbc, []*auth.UserToken{t1}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByRefreshHash(dbc, "refresh-1")
	if err != nil || got == nil || got.ID != t1.ID {
		t.Fatalf("GetByRefreshHash: err=%v got=%+v", err, got)
	}
	if missing, err := repo.GetByRefreshHash(dbc, "nope"); err != nil || missing != nil {
		t.Fatalf("GetByRefreshHash missing: err=%v got=%+v", err, missing)
	}
	if rows, err := repo.GetByUserIDs(dbc, []uuid.UUID{u.ID}); err != nil || len(rows) != 1 {
		t.Fatalf("GetByUserIDs: err=%v len=%d", err, len(rows))
	}

	if err := repo.FullDeleteByIDs(dbc, []uuid.UUID{t1.ID}); err != nil {
		t.Fatalf("FullDeleteByIDs: %v", err)
	}
	if rows, err := repo.GetByUserIDs(dbc, []uuid.UUID{u.ID}); err != nil || len(rows) != 0 {
		t.Fatalf("after FullDeleteByIDs: err=%v len=%d", err, len(rows))
	}

	stale := makeToken("access-2", "refresh-2", time.Now().Add(-time.Hour))
	fresh := makeToken("access-3", "refresh-3", time.Now().Add(time.Hour))
	if _, err := repo.Create(dbc, []*auth.UserToken{stale, fresh}); err != nil {
		t.Fatalf("seed tokens: %v", err)
	}
	n, err := repo.FullDeleteExpired(dbc, time.Now())
	if err != nil || n != 1 {
		t.Fatalf("FullDeleteExpired: err=%v n=%d", err, n)
	}
	if rows, err := repo.GetByUserIDs(dbc, []uuid.UUID{u.ID}); err != nil || len(rows) != 1 || rows[0].ID != fresh.ID {
		t.Fatalf("after FullDeleteExpired: err=%v rows=%d", err, len(rows))
	}
}
