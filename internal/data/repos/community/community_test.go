package community

import (
	"context"
	"testing"

	"github.com/yungbote/coursehub-backend/internal/data/repos/testutil"
	"github.com/yungbote/coursehub-backend/internal/domain/community"
	"github.com/yungbote/coursehub-backend/internal/domain/learning"
	"github.com/yungbote/coursehub-backend/internal/domain/user"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
)

func TestNewsRepoPublishedOnly(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewNewsRepo(db, testutil.Logger(t))

	pub := &community.News{Title: "open day", IsPublished: true}
	draft := &community.News{Title: "draft"}
	for _, n := range []*community.News{pub, draft} {
		if err := repo.Create(dbc, n); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	list, err := repo.ListPublished(dbc, 10)
	if err != nil || len(list) != 1 || list[0].ID != pub.ID {
		t.Fatalf("ListPublished: err=%v len=%d", err, len(list))
	}
	if ok, err := repo.SoftDelete(dbc, pub.ID); err != nil || !ok {
		t.Fatalf("SoftDelete: err=%v ok=%v", err, ok)
	}
	if got, err := repo.GetByID(dbc, pub.ID); err != nil || got != nil {
		t.Fatalf("deleted news visible: err=%v", err)
	}
}

func TestInboxRepos(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	messages := NewContactMessageRepo(db, testutil.Logger(t))
	apps := NewTeacherApplicationRepo(db, testutil.Logger(t))
	direct := NewContactToTeacherRepo(db, testutil.Logger(t))

	m := &community.ContactMessage{Name: "Guest", Phone: "123", Message: "hello"}
	if err := messages.Create(dbc, m); err != nil {
		t.Fatalf("Create message: %v", err)
	}
	if ok, err := messages.MarkRead(dbc, m.ID); err != nil || !ok {
		t.Fatalf("MarkRead: err=%v ok=%v", err, ok)
	}
	if unread, err := messages.List(dbc, true); err != nil || len(unread) != 0 {
		t.Fatalf("unread list: err=%v len=%d", err, len(unread))
	}

	a := &community.TeacherApplication{FullName: "Bob", Phone: "555", Subject: "math"}
	if err := apps.Create(dbc, a); err != nil {
		t.Fatalf("Create application: %v", err)
	}
	if open, err := apps.List(dbc, true); err != nil || len(open) != 1 {
		t.Fatalf("open applications: err=%v len=%d", err, len(open))
	}
	if ok, err := apps.MarkProcessed(dbc, a.ID); err != nil || !ok {
		t.Fatalf("MarkProcessed: err=%v ok=%v", err, ok)
	}

	teacher := testutil.SeedUser(t, ctx, tx, "teacher", user.RoleTeacher)
	if err := direct.Create(dbc, &community.ContactToTeacher{TeacherID: teacher.ID, Name: "Guest", Phone: "1", Message: "hi"}); err != nil {
		t.Fatalf("Create direct: %v", err)
	}
	if list, err := direct.ListByTeacher(dbc, teacher.ID); err != nil || len(list) != 1 {
		t.Fatalf("ListByTeacher: err=%v len=%d", err, len(list))
	}
}

func TestBecomeTeacherRequestPending(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewBecomeTeacherRequestRepo(db, testutil.Logger(t))

	student := testutil.SeedUser(t, ctx, tx, "student", user.RoleStudent)
	req := &community.BecomeTeacherRequest{UserID: student.ID, Motivation: "I like teaching"}
	if err := repo.Create(dbc, req); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got, err := repo.FindPendingForUser(dbc, student.ID); err != nil || got == nil {
		t.Fatalf("FindPendingForUser: err=%v", err)
	}
	if err := tx.Model(req).Updates(map[string]interface{}{"is_processed": true, "approved": true}).Error; err != nil {
		t.Fatalf("process: %v", err)
	}
	if got, err := repo.FindPendingForUser(dbc, student.ID); err != nil || got != nil {
		t.Fatalf("FindPendingForUser after processing: err=%v", err)
	}
	if pending, err := repo.ListPending(dbc); err != nil || len(pending) != 0 {
		t.Fatalf("ListPending: err=%v len=%d", err, len(pending))
	}
	got, err := repo.LockByID(dbc, req.ID)
	if err != nil || got == nil || !got.Approved || !got.IsProcessed {
		t.Fatalf("request after processing: err=%v got=%+v", err, got)
	}
}

func TestCertificateRepoIssuedOnce(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewCertificateRepo(db, testutil.Logger(t))

	teacher := testutil.SeedUser(t, ctx, tx, "teacher", user.RoleTeacher)
	student := testutil.SeedUser(t, ctx, tx, "student", user.RoleStudent)
	course := testutil.SeedCourse(t, ctx, tx, teacher.ID, "Course", learning.CourseTypeOpen)

	created, err := repo.CreateIfAbsent(dbc, &community.Certificate{UserID: student.ID, CourseID: course.ID, Title: "Course"})
	if err != nil || !created {
		t.Fatalf("CreateIfAbsent: err=%v created=%v", err, created)
	}
	created, err = repo.CreateIfAbsent(dbc, &community.Certificate{UserID: student.ID, CourseID: course.ID, Title: "Course"})
	if err != nil || created {
		t.Fatalf("CreateIfAbsent repeat: err=%v created=%v", err, created)
	}
	cert, err := repo.Get(dbc, student.ID, course.ID)
	if err != nil || cert == nil {
		t.Fatalf("Get: err=%v", err)
	}
	if err := repo.SetImage(dbc, cert.ID, "certificates/x.png", "/files/certificates/x.png"); err != nil {
		t.Fatalf("SetImage: %v", err)
	}
	list, err := repo.ListByUser(dbc, student.ID)
	if err != nil || len(list) != 1 || list[0].ImageKey != "certificates/x.png" || list[0].Course == nil {
		t.Fatalf("ListByUser: err=%v list=%+v", err, list)
	}
}
