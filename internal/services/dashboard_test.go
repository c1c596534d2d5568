package services

import (
	"testing"

	repotest "github.com/yungbote/coursehub-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/coursehub-backend/internal/domain/aggregates"
	"github.com/yungbote/coursehub-backend/internal/domain/learning"
	"github.com/yungbote/coursehub-backend/internal/domain/user"
)

func TestDashboardStatsAndStudents(t *testing.T) {
	f := newServiceFixture(t)
	teacher := f.seedUser(t, "teacher", user.RoleTeacher)
	rival := f.seedUser(t, "rival", user.RoleTeacher)
	s1 := f.seedUser(t, "s1", user.RoleStudent)
	s2 := f.seedUser(t, "s2", user.RoleStudent)

	c1 := repotest.SeedCourse(t, f.ctx, f.db, teacher.ID, "One", learning.CourseTypeOpen)
	c2 := repotest.SeedCourse(t, f.ctx, f.db, teacher.ID, "Two", learning.CourseTypeClosed)
	other := repotest.SeedCourse(t, f.ctx, f.db, rival.ID, "Other", learning.CourseTypeOpen)
	repotest.SeedLesson(t, f.ctx, f.db, c1.ID, 1)
	repotest.SeedLesson(t, f.ctx, f.db, c1.ID, 2)
	repotest.SeedLesson(t, f.ctx, f.db, c2.ID, 1)
	repotest.SeedTest(t, f.ctx, f.db, c1.ID, 2, 0)
	e1 := repotest.SeedEnrollment(t, f.ctx, f.db, s1.ID, c1.ID)
	repotest.SeedEnrollment(t, f.ctx, f.db, s1.ID, c2.ID)
	repotest.SeedEnrollment(t, f.ctx, f.db, s2.ID, c1.ID)
	foreign := repotest.SeedEnrollment(t, f.ctx, f.db, s2.ID, other.ID)
	if err := f.repos.JoinRequests.Create(dbcOf(f), &learning.JoinRequest{UserID: s2.ID, CourseID: c2.ID, Status: learning.JoinRequestPending}); err != nil {
		t.Fatalf("seed join request: %v", err)
	}

	svc := NewDashboardService(f.db, f.log, f.repos, f.catalog(nil))
	ctx := f.as(teacher)

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	want := DashboardStats{Courses: 2, Lessons: 3, Tests: 1, Students: 2, PendingJoinRequests: 1}
	if stats != want {
		t.Fatalf("Stats = %+v, want %+v", stats, want)
	}

	rows, err := svc.Students(ctx)
	if err != nil {
		t.Fatalf("Students: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 students, got %d", len(rows))
	}
	for _, r := range rows {
		if r.Student.ID == s1.ID && len(r.Enrollments) != 2 {
			t.Fatalf("s1 must have 2 enrollments, got %d", len(r.Enrollments))
		}
		if r.Student.ID == s2.ID && len(r.Enrollments) != 1 {
			t.Fatalf("s2 must only show enrollments in own courses, got %d", len(r.Enrollments))
		}
	}

	if err := svc.RemoveEnrollment(ctx, foreign.ID); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("removing a foreign enrollment must be not_found, got %v", err)
	}
	if err := svc.RemoveEnrollment(ctx, e1.ID); err != nil {
		t.Fatalf("RemoveEnrollment: %v", err)
	}
	if ok, _ := f.repos.Enrollments.Exists(dbcOf(f), s1.ID, c1.ID); ok {
		t.Fatalf("enrollment still present")
	}
	if ok, _ := f.repos.Enrollments.Exists(dbcOf(f), s2.ID, other.ID); !ok {
		t.Fatalf("foreign enrollment must survive")
	}

	empty, err := svc.Stats(f.as(s1))
	if err != nil || empty != (DashboardStats{}) {
		t.Fatalf("caller without courses: %+v %v", empty, err)
	}
}
