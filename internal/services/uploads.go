package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/yungbote/coursehub-backend/internal/observability"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
	"github.com/yungbote/coursehub-backend/internal/platform/objectstore"
)

// MaxUploadBytes caps every multipart upload.
const MaxUploadBytes = 20 << 20

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp"}

func allowedImage(filename string) bool {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(filename)))
	for _, allowed := range imageExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// Upload is a file handed to a service by the HTTP layer.
type Upload struct {
	Filename string
	Body     io.Reader
}

type uploader struct {
	store   objectstore.Store
	metrics *observability.Metrics
}

func (u uploader) put(ctx context.Context, op string, category objectstore.Category, filename string, body io.Reader) (objectstore.Object, error) {
	if u.store == nil {
		return objectstore.Object{}, internal(op, fmt.Errorf("object storage is not configured"))
	}
	key := objectstore.NewKey(filepath.Ext(filename))
	obj, err := u.store.Put(ctx, category, key, io.LimitReader(body, MaxUploadBytes))
	if err != nil {
		return objectstore.Object{}, internal(op, fmt.Errorf("store %s: %w", category, err))
	}
	u.metrics.AddUploadBytes(string(category), obj.Size)
	return obj, nil
}

// discard removes a replaced object. Failures only leave an orphan behind.
func (u uploader) discard(ctx context.Context, log *logger.Logger, category objectstore.Category, key string) {
	if u.store == nil || key == "" {
		return
	}
	if err := u.store.Delete(ctx, category, key); err != nil {
		log.Warn("Failed to delete replaced object", "category", category, "key", key, "error", err)
	}
}
