package objectstore

import (
	"fmt"
	"net/url"
	"strings"
)

type Mode string

const (
	ModeLocal       Mode = "local"
	ModeGCS         Mode = "gcs"
	ModeGCSEmulator Mode = "gcs_emulator"
)

type Config struct {
	Mode Mode
	// Dir is the root directory for ModeLocal.
	Dir    string
	Bucket string
	// EmulatorHost is an absolute URL such as http://fake-gcs:4443.
	EmulatorHost string
	// PublicBaseURL prefixes object URLs; for ModeLocal it is the API origin serving /files/*key.
	PublicBaseURL string
	// CredentialsJSON is either inline JSON or a path to a service account file.
	CredentialsJSON string
}

type ConfigErrorCode string

const (
	ConfigErrorInvalidMode         ConfigErrorCode = "invalid_mode"
	ConfigErrorMissingDir          ConfigErrorCode = "missing_dir"
	ConfigErrorMissingBucket       ConfigErrorCode = "missing_bucket"
	ConfigErrorMissingEmulatorHost ConfigErrorCode = "missing_emulator_host"
	ConfigErrorInvalidURL          ConfigErrorCode = "invalid_url"
)

type ConfigError struct {
	Code  ConfigErrorCode
	Mode  string
	Value string
	Cause error
}

func (e *ConfigError) Error() string {
	if e == nil {
		return "invalid object storage config"
	}
	switch e.Code {
	case ConfigErrorInvalidMode:
		return fmt.Sprintf("invalid OBJECT_STORAGE_MODE=%q (allowed: %q, %q, %q)", e.Mode, ModeLocal, ModeGCS, ModeGCSEmulator)
	case ConfigErrorMissingDir:
		return fmt.Sprintf("OBJECT_STORAGE_MODE=%q requires OBJECT_STORAGE_DIR", e.Mode)
	case ConfigErrorMissingBucket:
		return fmt.Sprintf("OBJECT_STORAGE_MODE=%q requires GCS_BUCKET", e.Mode)
	case ConfigErrorMissingEmulatorHost:
		return fmt.Sprintf("OBJECT_STORAGE_MODE=%q requires STORAGE_EMULATOR_HOST", e.Mode)
	case ConfigErrorInvalidURL:
		return fmt.Sprintf("invalid URL %q; expected absolute URL like http://localhost:8080", e.Value)
	default:
		return "invalid object storage config"
	}
}

func (e *ConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Normalize lowercases the mode and defaults it: gcs_emulator when an emulator host is set,
// local otherwise.
func (c Config) Normalize() Config {
	c.Mode = Mode(strings.ToLower(strings.TrimSpace(string(c.Mode))))
	c.Dir = strings.TrimSpace(c.Dir)
	c.Bucket = strings.TrimSpace(c.Bucket)
	c.EmulatorHost = strings.TrimRight(strings.TrimSpace(c.EmulatorHost), "/")
	c.PublicBaseURL = strings.TrimRight(strings.TrimSpace(c.PublicBaseURL), "/")
	if c.Mode == "" {
		if c.EmulatorHost != "" {
			c.Mode = ModeGCSEmulator
		} else {
			c.Mode = ModeLocal
		}
	}
	return c
}

func (c Config) Validate() error {
	switch c.Mode {
	case ModeLocal:
		if c.Dir == "" {
			return &ConfigError{Code: ConfigErrorMissingDir, Mode: string(c.Mode)}
		}
	case ModeGCS:
		if c.Bucket == "" {
			return &ConfigError{Code: ConfigErrorMissingBucket, Mode: string(c.Mode)}
		}
	case ModeGCSEmulator:
		if c.Bucket == "" {
			return &ConfigError{Code: ConfigErrorMissingBucket, Mode: string(c.Mode)}
		}
		if c.EmulatorHost == "" {
			return &ConfigError{Code: ConfigErrorMissingEmulatorHost, Mode: string(c.Mode)}
		}
		if err := requireAbsoluteURL(c.EmulatorHost); err != nil {
			return err
		}
	default:
		return &ConfigError{Code: ConfigErrorInvalidMode, Mode: string(c.Mode)}
	}
	if c.PublicBaseURL != "" {
		return requireAbsoluteURL(c.PublicBaseURL)
	}
	return nil
}

func requireAbsoluteURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || strings.TrimSpace(u.Scheme) == "" || strings.TrimSpace(u.Host) == "" {
		return &ConfigError{Code: ConfigErrorInvalidURL, Value: raw, Cause: err}
	}
	return nil
}
