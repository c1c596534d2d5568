package objectstore

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

func TestLocalStoreLifecycle(t *testing.T) {
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	ctx := context.Background()
	st, err := New(ctx, log, Config{Dir: t.TempDir(), PublicBaseURL: "http://localhost:8080/"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if st.Mode() != ModeLocal {
		t.Fatalf("mode: want=%q got=%q", ModeLocal, st.Mode())
	}

	obj, err := st.Put(ctx, CategoryCertificate, "c1.png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if obj.Size != int64(len("png-bytes")) {
		t.Fatalf("size: got %d", obj.Size)
	}
	if obj.URL != "http://localhost:8080/files/certificate/c1.png" {
		t.Fatalf("url: got %q", obj.URL)
	}

	rc, err := st.Open(ctx, CategoryCertificate, "c1.png")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	body, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(body) != "png-bytes" {
		t.Fatalf("body: got %q", body)
	}

	if err := st.Delete(ctx, CategoryCertificate, "c1.png"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := st.Delete(ctx, CategoryCertificate, "c1.png"); err != nil {
		t.Fatalf("Delete missing object must be a no-op: %v", err)
	}
	if _, err := st.Open(ctx, CategoryCertificate, "c1.png"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestObjectNameRejectsEscapes(t *testing.T) {
	cases := []struct {
		category Category
		key      string
		want     string
		ok       bool
	}{
		{CategoryAvatar, "a.png", "avatar/a.png", true},
		{CategoryAvatar, "/nested/./a.png", "avatar/nested/a.png", true},
		{CategoryAvatar, "../secret", "", false},
		{CategoryAvatar, "x/../../secret", "", false},
		{CategoryAvatar, "  ", "", false},
		{Category("tmp"), "a.png", "", false},
	}
	for _, tc := range cases {
		got, err := objectName(tc.category, tc.key)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("objectName(%q, %q) = %q, %v; want %q", tc.category, tc.key, got, err, tc.want)
		}
		if !tc.ok && err == nil {
			t.Fatalf("objectName(%q, %q) = %q; want error", tc.category, tc.key, got)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		code ConfigErrorCode
	}{
		{"local ok", Config{Dir: "/tmp/x"}, ""},
		{"local missing dir", Config{Mode: ModeLocal}, ConfigErrorMissingDir},
		{"gcs missing bucket", Config{Mode: ModeGCS}, ConfigErrorMissingBucket},
		{"emulator inferred", Config{Bucket: "b", EmulatorHost: "http://fake-gcs:4443"}, ""},
		{"emulator bad host", Config{Mode: ModeGCSEmulator, Bucket: "b", EmulatorHost: "fake-gcs"}, ConfigErrorInvalidURL},
		{"bad mode", Config{Mode: "s3"}, ConfigErrorInvalidMode},
		{"bad public url", Config{Dir: "/tmp/x", PublicBaseURL: "/relative"}, ConfigErrorInvalidURL},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Normalize().Validate()
			if tc.code == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) || cfgErr.Code != tc.code {
				t.Fatalf("want %q, got %v", tc.code, err)
			}
		})
	}
}

func TestGCSURLs(t *testing.T) {
	emu := &gcsStore{bucket: "media", mode: ModeGCSEmulator, emulatorHost: "http://fake-gcs:4443"}
	if got := emu.URL(CategoryAvatar, "a.png"); got != "http://fake-gcs:4443/storage/v1/b/media/o/avatar%2Fa.png?alt=media" {
		t.Fatalf("emulator url: %q", got)
	}
	cdn := &gcsStore{bucket: "media", mode: ModeGCS, publicBaseURL: "https://cdn.example.com"}
	if got := cdn.URL(CategoryNews, "n.jpg"); got != "https://cdn.example.com/news/n.jpg" {
		t.Fatalf("cdn url: %q", got)
	}
	plain := &gcsStore{bucket: "media", mode: ModeGCS}
	if got := plain.URL(CategoryNews, "n.jpg"); got != "https://storage.googleapis.com/media/news/n.jpg" {
		t.Fatalf("gcs url: %q", got)
	}
}

func TestContentTypeForKey(t *testing.T) {
	if got := ContentTypeForKey("deck.PPTX"); !strings.Contains(got, "presentationml") {
		t.Fatalf("pptx: %q", got)
	}
	if got := ContentTypeForKey("c.png?v=2"); got != "image/png" {
		t.Fatalf("png: %q", got)
	}
	if got := ContentTypeForKey("blob"); got != "application/octet-stream" {
		t.Fatalf("default: %q", got)
	}
}
