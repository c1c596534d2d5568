package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

type Category string

const (
	CategoryAvatar       Category = "avatar"
	CategoryCourseImage  Category = "course_image"
	CategoryPresentation Category = "presentation"
	CategoryCertificate  Category = "certificate"
	CategoryNews         Category = "news"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryAvatar, CategoryCourseImage, CategoryPresentation, CategoryCertificate, CategoryNews:
		return true
	default:
		return false
	}
}

var ErrNotFound = errors.New("object not found")

// Store keeps files under "<category>/<key>" object names.
type Store interface {
	Put(ctx context.Context, category Category, key string, r io.Reader) (Object, error)
	Open(ctx context.Context, category Category, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, category Category, key string) error
	URL(category Category, key string) string
	Mode() Mode
}

type Object struct {
	Category Category `json:"category"`
	Key      string   `json:"key"`
	Size     int64    `json:"size"`
	URL      string   `json:"url"`
}

// New opens the backend selected by cfg.Mode.
func New(ctx context.Context, log *logger.Logger, cfg Config) (Store, error) {
	cfg = cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate object storage config: %w", err)
	}
	storeLog := log.With("service", "ObjectStore")
	var (
		st  Store
		err error
	)
	switch cfg.Mode {
	case ModeLocal:
		st, err = newLocalStore(cfg)
	default:
		st, err = newGCSStore(ctx, cfg)
	}
	if err != nil {
		return nil, err
	}
	storeLog.Info(
		"Object storage initialized",
		"mode", cfg.Mode,
		"bucket", cfg.Bucket,
		"dir", cfg.Dir,
		"emulator_host", cfg.EmulatorHost,
		"public_base_url", cfg.PublicBaseURL,
	)
	return st, nil
}

// NewKey returns a random key that keeps ext, e.g. "3f0c...e1.png".
func NewKey(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return uuid.NewString() + ext
}

// objectName joins category and key, rejecting keys that escape their category.
func objectName(category Category, key string) (string, error) {
	if !category.Valid() {
		return "", fmt.Errorf("unknown object category: %q", category)
	}
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if key == "" {
		return "", fmt.Errorf("empty object key")
	}
	clean := path.Clean(key)
	if clean == "." || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("invalid object key: %q", key)
	}
	return string(category) + "/" + clean, nil
}

// ContentTypeForKey guesses a MIME type from the key's extension.
func ContentTypeForKey(key string) string {
	s := strings.ToLower(strings.TrimSpace(key))
	if i := strings.Index(s, "?"); i >= 0 {
		s = s[:i]
	}
	switch path.Ext(s) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	case ".svg":
		return "image/svg+xml"
	case ".pdf":
		return "application/pdf"
	case ".ppt":
		return "application/vnd.ms-powerpoint"
	case ".pptx":
		return "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	case ".key":
		return "application/x-iwork-keynote-sffkey"
	case ".odp":
		return "application/vnd.oasis.opendocument.presentation"
	default:
		return "application/octet-stream"
	}
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
