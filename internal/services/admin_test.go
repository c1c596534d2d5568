package services

import (
	"errors"
	"strings"
	"testing"

	repotest "github.com/yungbote/coursehub-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/coursehub-backend/internal/domain/aggregates"
	"github.com/yungbote/coursehub-backend/internal/domain/learning"
	"github.com/yungbote/coursehub-backend/internal/domain/user"
)

func newTestAdmin(t *testing.T, f *serviceFixture) AdminService {
	t.Helper()
	store, _ := f.store(t)
	return NewAdminService(f.db, f.log, f.repos, f.aggs.Enrollments, f.aggs.TeacherRequests, f.catalog(nil), store, nil)
}

func TestAdminRequiresFlag(t *testing.T) {
	f := newServiceFixture(t)
	student := f.seedUser(t, "student", user.RoleStudent)
	svc := newTestAdmin(t, f)

	_, err := svc.ListJoinRequests(f.as(student))
	if !domainagg.IsCode(err, domainagg.CodeForbidden) || domainagg.ReasonOf(err) != domainagg.ReasonNotAdmin {
		t.Fatalf("expected not_admin, got %v", err)
	}
	if _, err := svc.CreateCategory(f.ctx, CategoryInput{Name: "Maths"}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("anonymous caller must be unauthorized, got %v", err)
	}
}

func TestAdminDecidesJoinAndTeacherRequests(t *testing.T) {
	f := newServiceFixture(t)
	admin := f.seedAdmin(t, "admin")
	teacher := f.seedUser(t, "teacher", user.RoleTeacher)
	student := f.seedUser(t, "student", user.RoleStudent)
	closed := repotest.SeedCourse(t, f.ctx, f.db, teacher.ID, "Closed", learning.CourseTypeClosed)

	courses := NewCourseService(f.db, f.log, f.repos.Courses, f.repos.Lessons, f.repos.Tests,
		f.repos.Enrollments, f.repos.JoinRequests, f.repos.Progress, f.aggs.Enrollments, f.catalog(nil))
	jr, err := courses.RequestJoin(f.as(student), closed.ID, "")
	if err != nil {
		t.Fatalf("RequestJoin: %v", err)
	}

	svc := newTestAdmin(t, f)
	actx := f.as(admin)
	pending, err := svc.ListJoinRequests(actx)
	if err != nil || len(pending) != 1 {
		t.Fatalf("ListJoinRequests: %d %v", len(pending), err)
	}
	decided, err := svc.DecideJoinRequest(actx, jr.ID, true)
	if err != nil || decided.Status != learning.JoinRequestApproved {
		t.Fatalf("DecideJoinRequest: %+v %v", decided, err)
	}
	if _, err := svc.DecideJoinRequest(actx, jr.ID, false); !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("second decision must conflict, got %v", err)
	}
	enrolled, err := f.repos.Enrollments.Exists(dbcOf(f), student.ID, closed.ID)
	if err != nil || !enrolled {
		t.Fatalf("approval must enroll the student: %v %v", enrolled, err)
	}

	profiles := NewProfileService(f.db, f.log, f.repos, nil, nil)
	req, err := profiles.BecomeTeacher(f.as(student), "I like teaching")
	if err != nil {
		t.Fatalf("BecomeTeacher: %v", err)
	}
	got, err := svc.DecideTeacherRequest(actx, req.ID, true)
	if err != nil || !got.Approved || !got.IsProcessed {
		t.Fatalf("DecideTeacherRequest: %+v %v", got, err)
	}
	promoted, err := f.repos.Users.GetByID(dbcOf(f), student.ID)
	if err != nil || promoted.Role != user.RoleTeacher {
		t.Fatalf("approval must promote: %+v %v", promoted, err)
	}
}

func TestAdminCatalogAndNews(t *testing.T) {
	f := newServiceFixture(t)
	admin := f.seedAdmin(t, "admin")
	svc := newTestAdmin(t, f)
	ctx := f.as(admin)

	cat, err := svc.CreateCategory(ctx, CategoryInput{Name: " Computer Science! "})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	if cat.Slug != "computer-science" {
		t.Fatalf("unexpected slug %q", cat.Slug)
	}
	if err := svc.DeleteCategory(ctx, cat.ID); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
	if err := svc.DeleteCategory(ctx, cat.ID); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("second delete must be not_found, got %v", err)
	}

	if _, err := svc.CreateNews(ctx, NewsFields{Title: ptr(" ")}, nil); !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("blank news title must be rejected, got %v", err)
	}
	n, err := svc.CreateNews(ctx, NewsFields{Title: ptr("Open day"), Content: ptr("Saturday")},
		&Upload{Filename: "poster.png", Body: strings.NewReader("png-bytes")})
	if err != nil {
		t.Fatalf("CreateNews: %v", err)
	}
	if !n.IsPublished || !strings.Contains(n.ImageURL, "/files/news/") {
		t.Fatalf("unexpected news: %+v", n)
	}

	community := NewCommunityService(f.log, f.repos)
	feed, err := community.News(f.ctx)
	if err != nil || len(feed) != 1 {
		t.Fatalf("News: %d %v", len(feed), err)
	}
	if _, err := svc.UpdateNews(ctx, n.ID, NewsFields{IsPublished: ptr(false)}, nil); err != nil {
		t.Fatalf("UpdateNews: %v", err)
	}
	if feed, _ = community.News(f.ctx); len(feed) != 0 {
		t.Fatalf("unpublished news must leave the feed")
	}
	if err := svc.DeleteNews(ctx, n.ID); err != nil {
		t.Fatalf("DeleteNews: %v", err)
	}
}

func TestSlugify(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Maths", "maths"},
		{"  Art & Design  ", "art-design"},
		{"--x--", "x"},
		{"Тарих 9", "тарих-9"},
		{"!!!", ""},
	}
	for _, tc := range cases {
		if got := slugify(tc.in); got != tc.want {
			t.Fatalf("slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
