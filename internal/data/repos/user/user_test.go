package user

import (
	"context"
	"testing"

	"github.com/yungbote/coursehub-backend/internal/data/repos/testutil"
	"github.com/yungbote/coursehub-backend/internal/domain/user"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
)

func TestUserRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewUserRepo(db, testutil.Logger(t))

	phone := "+998901112233"
	u := &user.User{Username: "alice", Phone: &phone, Password: "hash", FirstName: "Alice", LastName: "A"}
	if err := repo.Create(dbc, u); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.Role != user.RoleStudent || u.Level != user.LevelBeginner {
		t.Fatalf("defaults: role=%s level=%s", u.Role, u.Level)
	}

	if got, err := repo.GetByUsername(dbc, "alice"); err != nil || got == nil || got.ID != u.ID {
		t.Fatalf("GetByUsername: err=%v got=%v", err, got)
	}
	if got, err := repo.GetByPhone(dbc, phone); err != nil || got == nil || got.ID != u.ID {
		t.Fatalf("GetByPhone: err=%v got=%v", err, got)
	}
	if got, err := repo.GetByUsername(dbc, "nobody"); err != nil || got != nil {
		t.Fatalf("GetByUsername missing: err=%v got=%v", err, got)
	}

	dup := &user.User{Username: "alice", Password: "x", FirstName: "B", LastName: "B"}
	if err := repo.Create(dbc, dup); err == nil {
		t.Fatalf("expected unique violation on duplicate username")
	}
}

func TestUserRepoStarsAndLeaderboard(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewUserRepo(db, testutil.Logger(t))

	a := testutil.SeedUser(t, ctx, tx, "a", user.RoleStudent)
	b := testutil.SeedUser(t, ctx, tx, "b", user.RoleStudent)
	c := testutil.SeedUser(t, ctx, tx, "c", user.RoleStudent)
	testutil.SeedUser(t, ctx, tx, "teach", user.RoleTeacher)

	if total, err := repo.AddStars(dbc, a.ID, 3); err != nil || total != 3 {
		t.Fatalf("AddStars: err=%v total=%d", err, total)
	}
	if total, err := repo.AddStars(dbc, a.ID, 2); err != nil || total != 5 {
		t.Fatalf("AddStars again: err=%v total=%d", err, total)
	}
	if total, err := repo.AddStars(dbc, b.ID, 0); err != nil || total != 0 {
		t.Fatalf("AddStars zero: err=%v total=%d", err, total)
	}
	if err := repo.UpdateFields(dbc, c.ID, map[string]interface{}{"coins": 1}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}

	board, err := repo.Leaderboard(dbc, 50)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(board) != 3 {
		t.Fatalf("leaderboard should only hold students, got %d", len(board))
	}
	if board[0].ID != c.ID || board[1].ID != a.ID || board[2].ID != b.ID {
		t.Fatalf("leaderboard order: %s %s %s", board[0].Username, board[1].Username, board[2].Username)
	}
}

func TestTeacherRatingRepoUpsertAndStats(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewTeacherRatingRepo(db, testutil.Logger(t))

	teacher := testutil.SeedUser(t, ctx, tx, "teacher", user.RoleTeacher)
	s1 := testutil.SeedUser(t, ctx, tx, "s1", user.RoleStudent)
	s2 := testutil.SeedUser(t, ctx, tx, "s2", user.RoleStudent)

	if avg, n, err := repo.Stats(dbc, teacher.ID); err != nil || avg != 0 || n != 0 {
		t.Fatalf("empty stats: avg=%v n=%d err=%v", avg, n, err)
	}

	if err := repo.Upsert(dbc, &user.TeacherRating{RaterID: s1.ID, TeacherID: teacher.ID, Rating: 5}); err != nil {
		t.Fatalf("Upsert s1: %v", err)
	}
	if err := repo.Upsert(dbc, &user.TeacherRating{RaterID: s2.ID, TeacherID: teacher.ID, Rating: 4}); err != nil {
		t.Fatalf("Upsert s2: %v", err)
	}
	if err := repo.Upsert(dbc, &user.TeacherRating{RaterID: s1.ID, TeacherID: teacher.ID, Rating: 3, Review: "changed"}); err != nil {
		t.Fatalf("Upsert s1 again: %v", err)
	}

	avg, n, err := repo.Stats(dbc, teacher.ID)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if n != 2 || avg != 3.5 {
		t.Fatalf("stats: avg=%v n=%d", avg, n)
	}
	got, err := repo.GetByPair(dbc, s1.ID, teacher.ID)
	if err != nil || got == nil || got.Rating != 3 || got.Review != "changed" {
		t.Fatalf("GetByPair: err=%v got=%+v", err, got)
	}
}
