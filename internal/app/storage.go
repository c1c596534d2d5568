package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/yungbote/coursehub-backend/internal/observability"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
	"github.com/yungbote/coursehub-backend/internal/platform/objectstore"
)

var newObjectStore = objectstore.New

type StorageBootstrapErrorCode string

const (
	StorageBootstrapInvalidMode         StorageBootstrapErrorCode = "invalid_mode"
	StorageBootstrapMissingSetting      StorageBootstrapErrorCode = "missing_setting"
	StorageBootstrapMissingEmulatorHost StorageBootstrapErrorCode = "missing_emulator_host"
	StorageBootstrapInvalidURL          StorageBootstrapErrorCode = "invalid_url"
	StorageBootstrapConnectFailed       StorageBootstrapErrorCode = "connect_failed"
)

type StorageBootstrapError struct {
	Code         StorageBootstrapErrorCode
	Mode         string
	EmulatorHost string
	Cause        error
}

func (e *StorageBootstrapError) Error() string {
	if e == nil {
		return "object storage bootstrap failed"
	}
	return fmt.Sprintf(
		"object storage bootstrap failed (code=%s mode=%q emulator_host=%q): %v",
		e.Code,
		e.Mode,
		e.EmulatorHost,
		e.Cause,
	)
}

func (e *StorageBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// resolveObjectStore opens the configured backend and records the outcome.
func resolveObjectStore(ctx context.Context, log *logger.Logger, metrics *observability.Metrics, cfg objectstore.Config) (objectstore.Store, error) {
	cfg = cfg.Normalize()
	log.Info(
		"Selecting object storage provider",
		"mode", cfg.Mode,
		"bucket", cfg.Bucket,
		"emulator_host", cfg.EmulatorHost,
	)

	store, err := newObjectStore(ctx, log, cfg)
	if err != nil {
		classified := classifyStorageBootstrapError(cfg, err)
		metrics.ObserveStorageBootstrap(string(cfg.Mode), "error", string(classified.Code))
		log.Error(
			"Object storage provider bootstrap failed",
			"mode", cfg.Mode,
			"emulator_host", cfg.EmulatorHost,
			"error_code", classified.Code,
			"error", err,
		)
		return nil, classified
	}
	metrics.ObserveStorageBootstrap(string(cfg.Mode), "success", "none")
	return store, nil
}

func classifyStorageBootstrapError(cfg objectstore.Config, err error) *StorageBootstrapError {
	out := &StorageBootstrapError{
		Code:         StorageBootstrapConnectFailed,
		Mode:         string(cfg.Mode),
		EmulatorHost: cfg.EmulatorHost,
		Cause:        err,
	}
	var cfgErr *objectstore.ConfigError
	if !errors.As(err, &cfgErr) {
		return out
	}
	switch cfgErr.Code {
	case objectstore.ConfigErrorInvalidMode:
		out.Code = StorageBootstrapInvalidMode
	case objectstore.ConfigErrorMissingDir, objectstore.ConfigErrorMissingBucket:
		out.Code = StorageBootstrapMissingSetting
	case objectstore.ConfigErrorMissingEmulatorHost:
		out.Code = StorageBootstrapMissingEmulatorHost
	case objectstore.ConfigErrorInvalidURL:
		out.Code = StorageBootstrapInvalidURL
	}
	return out
}
