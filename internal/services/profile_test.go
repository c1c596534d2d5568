package services

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	repotest "github.com/yungbote/coursehub-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/coursehub-backend/internal/domain/aggregates"
	"github.com/yungbote/coursehub-backend/internal/domain/learning"
	"github.com/yungbote/coursehub-backend/internal/domain/user"
	"github.com/yungbote/coursehub-backend/internal/platform/objectstore"
)

func samplePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode sample: %v", err)
	}
	return buf.Bytes()
}

func TestProfileUpdate(t *testing.T) {
	f := newServiceFixture(t)
	a := f.seedUser(t, "a", user.RoleStudent)
	b := f.seedUser(t, "b", user.RoleStudent)
	svc := NewProfileService(f.db, f.log, f.repos, nil, nil)

	got, err := svc.Update(f.as(a), ProfileFields{Phone: ptr("+998 90 000 00 01"), Bio: ptr(" hello ")})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Phone == nil || *got.Phone != "+998900000001" || got.Bio != "hello" {
		t.Fatalf("unexpected profile: %+v", got)
	}
	if _, err := svc.Update(f.as(b), ProfileFields{Phone: ptr("+998900000001")}); !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("taken phone must conflict, got %v", err)
	}
	if _, err := svc.Update(f.as(a), ProfileFields{Phone: ptr("+998900000001")}); err != nil {
		t.Fatalf("keeping own phone: %v", err)
	}
	if _, err := svc.Update(f.as(a), ProfileFields{Level: ptr(user.Level("guru"))}); !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("unknown level must be rejected, got %v", err)
	}
	if _, err := svc.Update(f.as(a), ProfileFields{FirstName: ptr("  ")}); !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("blank first name must be rejected, got %v", err)
	}
	cleared, err := svc.Update(f.as(a), ProfileFields{Phone: ptr("")})
	if err != nil || cleared.Phone != nil {
		t.Fatalf("empty phone must clear: %+v %v", cleared.Phone, err)
	}
}

func TestProfileAvatar(t *testing.T) {
	f := newServiceFixture(t)
	u := f.seedUser(t, "u", user.RoleStudent)
	store, dir := f.store(t)
	svc := NewProfileService(f.db, f.log, f.repos, store, nil)
	ctx := f.as(u)

	if _, err := svc.UploadAvatar(ctx, Upload{Filename: "me.png", Body: strings.NewReader("not an image")}); !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("garbage must be rejected, got %v", err)
	}
	first, err := svc.UploadAvatar(ctx, Upload{Filename: "me.png", Body: bytes.NewReader(samplePNG(t, 300, 200))})
	if err != nil {
		t.Fatalf("UploadAvatar: %v", err)
	}
	raw, err := os.ReadFile(filepath.Join(dir, string(objectstore.CategoryAvatar), first.AvatarKey))
	if err != nil {
		t.Fatalf("stored avatar: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(raw))
	if err != nil || cfg.Width != avatarSize || cfg.Height != avatarSize {
		t.Fatalf("avatar must be a %dpx square png: %+v %v", avatarSize, cfg, err)
	}

	second, err := svc.UploadAvatar(ctx, Upload{Filename: "me.png", Body: bytes.NewReader(samplePNG(t, 64, 64))})
	if err != nil {
		t.Fatalf("UploadAvatar again: %v", err)
	}
	if second.AvatarKey == first.AvatarKey {
		t.Fatalf("new upload must get a new key")
	}
	if _, err := os.Stat(filepath.Join(dir, string(objectstore.CategoryAvatar), first.AvatarKey)); !os.IsNotExist(err) {
		t.Fatalf("previous avatar must be removed, stat err=%v", err)
	}
}

func TestBecomeTeacher(t *testing.T) {
	f := newServiceFixture(t)
	student := f.seedUser(t, "student", user.RoleStudent)
	teacher := f.seedUser(t, "teacher", user.RoleTeacher)
	svc := NewProfileService(f.db, f.log, f.repos, nil, nil)

	req, err := svc.BecomeTeacher(f.as(student), " I teach chess ")
	if err != nil {
		t.Fatalf("BecomeTeacher: %v", err)
	}
	if req.Motivation != "I teach chess" || req.IsProcessed {
		t.Fatalf("unexpected request: %+v", req)
	}
	again, err := svc.BecomeTeacher(f.as(student), "second try")
	if err != nil || again.ID != req.ID {
		t.Fatalf("pending request must be reused: %+v %v", again, err)
	}
	if _, err := svc.BecomeTeacher(f.as(teacher), ""); !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("teacher must conflict, got %v", err)
	}
}

func TestProfileContactFields(t *testing.T) {
	f := newServiceFixture(t)
	a := f.seedUser(t, "a", user.RoleStudent)
	svc := NewProfileService(f.db, f.log, f.repos, nil, nil)

	got, err := svc.Update(f.as(a), ProfileFields{
		Email:            ptr("  Amir@Example.COM "),
		TelegramUsername: ptr(" @amir_t "),
		DateOfBirth:      ptr("2001-02-03"),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Email != "amir@example.com" || got.TelegramUsername != "amir_t" {
		t.Fatalf("unexpected contacts: %q %q", got.Email, got.TelegramUsername)
	}
	if got.DateOfBirth == nil || time.Time(*got.DateOfBirth).Format(time.DateOnly) != "2001-02-03" {
		t.Fatalf("unexpected date of birth: %v", got.DateOfBirth)
	}

	tomorrow := time.Now().AddDate(0, 0, 2).Format(time.DateOnly)
	bad := []struct {
		name   string
		fields ProfileFields
	}{
		{"email", ProfileFields{Email: ptr("not an email")}},
		{"email with name", ProfileFields{Email: ptr("Amir <amir@example.com>")}},
		{"telegram with space", ProfileFields{TelegramUsername: ptr("amir t")}},
		{"telegram too long", ProfileFields{TelegramUsername: ptr(strings.Repeat("x", maxTelegramUsernameLen+1))}},
		{"date format", ProfileFields{DateOfBirth: ptr("03.02.2001")}},
		{"future date", ProfileFields{DateOfBirth: ptr(tomorrow)}},
	}
	for _, tc := range bad {
		if _, err := svc.Update(f.as(a), tc.fields); !domainagg.IsCode(err, domainagg.CodeValidation) {
			t.Fatalf("%s: want validation error, got %v", tc.name, err)
		}
	}

	cleared, err := svc.Update(f.as(a), ProfileFields{Email: ptr(""), TelegramUsername: ptr(""), DateOfBirth: ptr("")})
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if cleared.Email != "" || cleared.TelegramUsername != "" || cleared.DateOfBirth != nil {
		t.Fatalf("empty values must clear: %+v", cleared)
	}
}

func TestProfileDelete(t *testing.T) {
	f := newServiceFixture(t)
	teacher := f.seedUser(t, "teacher", user.RoleTeacher)
	other := f.seedUser(t, "other", user.RoleTeacher)
	student := f.seedUser(t, "student", user.RoleStudent)
	svc := NewProfileService(f.db, f.log, f.repos, nil, nil)

	owned := repotest.SeedCourse(t, f.ctx, f.db, teacher.ID, "Owned", learning.CourseTypeOpen)
	kept := repotest.SeedCourse(t, f.ctx, f.db, other.ID, "Kept", learning.CourseTypeOpen)
	repotest.SeedEnrollment(t, f.ctx, f.db, student.ID, owned.ID)
	repotest.SeedEnrollment(t, f.ctx, f.db, student.ID, kept.ID)

	if err := svc.Delete(f.as(teacher)); err != nil {
		t.Fatalf("Delete teacher: %v", err)
	}
	count := func(model any, query string, args ...any) int64 {
		t.Helper()
		var n int64
		if err := f.db.Unscoped().Model(model).Where(query, args...).Count(&n).Error; err != nil {
			t.Fatalf("count: %v", err)
		}
		return n
	}
	if n := count(&user.User{}, "id = ?", teacher.ID); n != 0 {
		t.Fatalf("user row must be gone, found %d", n)
	}
	if n := count(&learning.Course{}, "id = ?", owned.ID); n != 0 {
		t.Fatalf("owned course must cascade, found %d", n)
	}
	if n := count(&learning.CourseStudent{}, "course_id = ?", owned.ID); n != 0 {
		t.Fatalf("enrollments of owned course must cascade, found %d", n)
	}
	if n := count(&learning.Course{}, "id = ?", kept.ID); n != 1 {
		t.Fatalf("foreign course must survive, found %d", n)
	}
	if _, err := svc.Me(f.as(teacher)); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("deleted user must be unauthorized, got %v", err)
	}
	if err := svc.Delete(f.as(teacher)); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("second delete must be unauthorized, got %v", err)
	}

	if err := svc.Delete(f.as(student)); err != nil {
		t.Fatalf("Delete student: %v", err)
	}
	if n := count(&learning.CourseStudent{}, "user_id = ?", student.ID); n != 0 {
		t.Fatalf("student enrollments must cascade, found %d", n)
	}
	if n := count(&learning.Course{}, "id = ?", kept.ID); n != 1 {
		t.Fatalf("course must outlive its student, found %d", n)
	}
}
