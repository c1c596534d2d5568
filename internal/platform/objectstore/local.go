package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// localStore writes objects below a directory. Files are served by the API under /files/*key.
type localStore struct {
	root          string
	publicBaseURL string
}

func newLocalStore(cfg Config) (*localStore, error) {
	root, err := filepath.Abs(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("resolve OBJECT_STORAGE_DIR: %w", err)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create OBJECT_STORAGE_DIR: %w", err)
	}
	return &localStore{root: root, publicBaseURL: cfg.PublicBaseURL}, nil
}

func (s *localStore) Mode() Mode { return ModeLocal }

func (s *localStore) path(category Category, key string) (string, string, error) {
	name, err := objectName(category, key)
	if err != nil {
		return "", "", err
	}
	return name, filepath.Join(s.root, filepath.FromSlash(name)), nil
}

func (s *localStore) Put(ctx context.Context, category Category, key string, r io.Reader) (Object, error) {
	_, full, err := s.path(category, key)
	if err != nil {
		return Object{}, err
	}
	if err := ctx.Err(); err != nil {
		return Object{}, err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return Object{}, err
	}
	tmp, err := os.CreateTemp(filepath.Dir(full), ".upload-*")
	if err != nil {
		return Object{}, err
	}
	n, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return Object{}, fmt.Errorf("write object: %w", err)
	}
	if err := os.Rename(tmp.Name(), full); err != nil {
		_ = os.Remove(tmp.Name())
		return Object{}, fmt.Errorf("move object into place: %w", err)
	}
	return Object{Category: category, Key: key, Size: n, URL: s.URL(category, key)}, nil
}

func (s *localStore) Open(_ context.Context, category Category, key string) (io.ReadCloser, error) {
	_, full, err := s.path(category, key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return f, err
}

func (s *localStore) Delete(_ context.Context, category Category, key string) error {
	_, full, err := s.path(category, key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (s *localStore) URL(category Category, key string) string {
	name, err := objectName(category, key)
	if err != nil {
		return ""
	}
	return s.publicBaseURL + "/files/" + name
}
