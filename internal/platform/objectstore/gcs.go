package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

type gcsStore struct {
	client        *storage.Client
	bucket        string
	mode          Mode
	emulatorHost  string
	publicBaseURL string
}

func newGCSStore(ctx context.Context, cfg Config) (*gcsStore, error) {
	var opts []option.ClientOption
	switch cfg.Mode {
	case ModeGCSEmulator:
		// The storage client reads the emulator endpoint from the environment.
		_ = os.Setenv("STORAGE_EMULATOR_HOST", cfg.EmulatorHost)
		opts = append(opts, option.WithoutAuthentication())
	default:
		opts = append(opts, credentialOptions(cfg.CredentialsJSON)...)
		opts = append(opts, option.WithScopes(storage.ScopeReadWrite))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &gcsStore{
		client:        client,
		bucket:        cfg.Bucket,
		mode:          cfg.Mode,
		emulatorHost:  cfg.EmulatorHost,
		publicBaseURL: cfg.PublicBaseURL,
	}, nil
}

func credentialOptions(creds string) []option.ClientOption {
	creds = strings.TrimSpace(creds)
	if creds == "" {
		return nil
	}
	if strings.HasPrefix(creds, "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(creds))}
	}
	return []option.ClientOption{option.WithCredentialsFile(creds)}
}

func (s *gcsStore) Mode() Mode { return s.mode }

func (s *gcsStore) Put(ctx context.Context, category Category, key string, r io.Reader) (Object, error) {
	name, err := objectName(category, key)
	if err != nil {
		return Object{}, err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(name).NewWriter(ctx)
	w.ContentType = ContentTypeForKey(key)
	cr := &countingReader{r: r}
	if _, err := io.Copy(w, cr); err != nil {
		_ = w.Close()
		return Object{}, fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return Object{}, fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return Object{Category: category, Key: key, Size: cr.n, URL: s.URL(category, key)}, nil
}

func (s *gcsStore) Open(ctx context.Context, category Category, key string) (io.ReadCloser, error) {
	name, err := objectName(category, key)
	if err != nil {
		return nil, err
	}
	rc, err := s.client.Bucket(s.bucket).Object(name).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open GCS object %q: %w", name, err)
	}
	return rc, nil
}

func (s *gcsStore) Delete(ctx context.Context, category Category, key string) error {
	name, err := objectName(category, key)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	err = s.client.Bucket(s.bucket).Object(name).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to delete GCS object %q in bucket %q: %w", name, s.bucket, err)
	}
	return nil
}

func (s *gcsStore) URL(category Category, key string) string {
	name, err := objectName(category, key)
	if err != nil {
		return ""
	}
	if s.mode == ModeGCSEmulator {
		base := s.publicBaseURL
		if base == "" {
			base = s.emulatorHost
		}
		return fmt.Sprintf("%s/storage/v1/b/%s/o/%s?alt=media", base, url.PathEscape(s.bucket), url.PathEscape(name))
	}
	if s.publicBaseURL != "" {
		return fmt.Sprintf("%s/%s", s.publicBaseURL, name)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, name)
}
