package services

import (
	"fmt"
	"testing"

	domainagg "github.com/yungbote/coursehub-backend/internal/domain/aggregates"
	"github.com/yungbote/coursehub-backend/internal/domain/user"
)

func TestLeaderboardRanksStudents(t *testing.T) {
	f := newServiceFixture(t)
	f.seedUser(t, "teacher", user.RoleTeacher)
	for i, stars := range []int{3, 9, 9, 1} {
		u := f.seedUser(t, fmt.Sprintf("s%d", i), user.RoleStudent)
		if err := f.db.Model(&user.User{}).Where("id = ?", u.ID).Update("stars", stars).Error; err != nil {
			t.Fatalf("set stars: %v", err)
		}
	}

	board, err := NewCommunityService(f.log, f.repos).Leaderboard(f.ctx)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(board) != 4 {
		t.Fatalf("teachers must not rank, got %d rows", len(board))
	}
	got := []string{board[0].Username, board[1].Username, board[2].Username, board[3].Username}
	want := []string{"s1", "s2", "s0", "s3"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestPublicForms(t *testing.T) {
	f := newServiceFixture(t)
	admin := f.seedAdmin(t, "admin")
	svc := NewCommunityService(f.log, f.repos)

	if _, err := svc.Contact(f.ctx, ContactInput{Name: "A", Phone: " ", Message: "hi"}); !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("missing phone must be rejected, got %v", err)
	}
	msg, err := svc.Contact(f.ctx, ContactInput{Name: "A", Phone: "90 123 45 67", Message: " hello "})
	if err != nil {
		t.Fatalf("Contact: %v", err)
	}
	if msg.Phone != "901234567" || msg.Message != "hello" {
		t.Fatalf("unexpected message: %+v", msg)
	}

	if _, err := svc.ApplyTeacher(f.ctx, TeacherApplicationInput{FullName: "B"}); !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("missing phone must be rejected, got %v", err)
	}
	app, err := svc.ApplyTeacher(f.ctx, TeacherApplicationInput{FullName: " Bobur ", Phone: "+998911234567", Subject: "Physics"})
	if err != nil || app.FullName != "Bobur" {
		t.Fatalf("ApplyTeacher: %+v %v", app, err)
	}

	back := newTestAdmin(t, f)
	actx := f.as(admin)
	unread, err := back.ListContactMessages(actx, true)
	if err != nil || len(unread) != 1 {
		t.Fatalf("ListContactMessages: %d %v", len(unread), err)
	}
	if err := back.MarkContactMessageRead(actx, msg.ID); err != nil {
		t.Fatalf("MarkContactMessageRead: %v", err)
	}
	if unread, _ = back.ListContactMessages(actx, true); len(unread) != 0 {
		t.Fatalf("read message still unread")
	}
	if err := back.MarkTeacherApplicationProcessed(actx, app.ID); err != nil {
		t.Fatalf("MarkTeacherApplicationProcessed: %v", err)
	}
	open, err := back.ListTeacherApplications(actx, true)
	if err != nil || len(open) != 0 {
		t.Fatalf("ListTeacherApplications: %d %v", len(open), err)
	}
}
