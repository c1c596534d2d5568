package app

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/yungbote/coursehub-backend/internal/platform/logger"
	"github.com/yungbote/coursehub-backend/internal/platform/objectstore"
)

func TestClassifyStorageBootstrapError(t *testing.T) {
	cases := []struct {
		name string
		src  error
		want StorageBootstrapErrorCode
	}{
		{"invalid mode", &objectstore.ConfigError{Code: objectstore.ConfigErrorInvalidMode}, StorageBootstrapInvalidMode},
		{"missing dir", &objectstore.ConfigError{Code: objectstore.ConfigErrorMissingDir}, StorageBootstrapMissingSetting},
		{"missing bucket", &objectstore.ConfigError{Code: objectstore.ConfigErrorMissingBucket}, StorageBootstrapMissingSetting},
		{"missing emulator", &objectstore.ConfigError{Code: objectstore.ConfigErrorMissingEmulatorHost}, StorageBootstrapMissingEmulatorHost},
		{"wrapped invalid url", fmt.Errorf("validate: %w", &objectstore.ConfigError{Code: objectstore.ConfigErrorInvalidURL}), StorageBootstrapInvalidURL},
		{"connect", errors.New("dial tcp: refused"), StorageBootstrapConnectFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := classifyStorageBootstrapError(objectstore.Config{Mode: objectstore.ModeGCS}, tc.src)
			if got.Code != tc.want {
				t.Fatalf("code: want=%q got=%q", tc.want, got.Code)
			}
			if !errors.Is(got, tc.src) {
				t.Fatalf("cause must stay reachable through Unwrap")
			}
		})
	}
}

func TestResolveObjectStoreInvalidMode(t *testing.T) {
	_, err := resolveObjectStore(context.Background(), logger.NewNop(), nil, objectstore.Config{Mode: "ftp"})
	var got *StorageBootstrapError
	if !errors.As(err, &got) || got.Code != StorageBootstrapInvalidMode {
		t.Fatalf("expected invalid_mode bootstrap error, got %v", err)
	}
}

func TestResolveObjectStoreConnectFailure(t *testing.T) {
	orig := newObjectStore
	t.Cleanup(func() { newObjectStore = orig })
	newObjectStore = func(context.Context, *logger.Logger, objectstore.Config) (objectstore.Store, error) {
		return nil, errors.New("bucket unreachable")
	}

	_, err := resolveObjectStore(context.Background(), logger.NewNop(), nil, objectstore.Config{Mode: objectstore.ModeGCS, Bucket: "b"})
	var got *StorageBootstrapError
	if !errors.As(err, &got) || got.Code != StorageBootstrapConnectFailed || got.Mode != "gcs" {
		t.Fatalf("expected connect_failed, got %v", err)
	}
}

func TestResolveObjectStoreLocal(t *testing.T) {
	st, err := resolveObjectStore(context.Background(), logger.NewNop(), nil, objectstore.Config{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("resolveObjectStore: %v", err)
	}
	if st.Mode() != objectstore.ModeLocal {
		t.Fatalf("expected local mode, got %s", st.Mode())
	}
}
