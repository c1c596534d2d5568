package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yungbote/coursehub-backend/internal/data/db"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(logger.NewNop())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != "8080" || cfg.Env != EnvDevelopment || cfg.TimeZone != "Asia/Tashkent" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Auth.AccessTokenTTL != time.Hour || cfg.Redis.RateLimit != 10 {
		t.Fatalf("unexpected auth/redis defaults: %+v %+v", cfg.Auth, cfg.Redis)
	}
	if got := cfg.DBConfig().DSN; got != "postgres://postgres:@localhost:5432/coursehub?sslmode=disable" {
		t.Fatalf("unexpected dsn %q", got)
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
port: "9000"
time_zone: UTC
database:
  driver: sqlite
  url: file:test.db
auth:
  jwt_secret: from-file
  access_token_ttl: 15m
storage:
  mode: local
  dir: /srv/media
`)
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "7000")
	t.Setenv("REFRESH_TOKEN_TTL", "3600")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadConfig(logger.NewNop())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != "7000" {
		t.Fatalf("env must win over file, got port %q", cfg.Port)
	}
	if cfg.TimeZone != "UTC" || cfg.Auth.JWTSecret != "from-file" || cfg.Auth.AccessTokenTTL != 15*time.Minute {
		t.Fatalf("file values lost: %+v", cfg)
	}
	if cfg.Auth.RefreshTokenTTL != time.Hour {
		t.Fatalf("bare seconds must parse, got %s", cfg.Auth.RefreshTokenTTL)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins %v", cfg.CORSOrigins)
	}
	dbc := cfg.DBConfig()
	if dbc.Driver != db.DriverSQLite || dbc.DSN != "file:test.db" {
		t.Fatalf("unexpected db config %+v", dbc)
	}
	if st := cfg.ObjectStoreConfig(); st.Dir != "/srv/media" {
		t.Fatalf("unexpected storage config %+v", st)
	}
}

func TestLoadConfigRejects(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown driver", env: map[string]string{"DB_DRIVER": "mysql"}},
		{name: "default secret in production", env: map[string]string{"APP_ENV": "production"}},
		{name: "zero ttl", env: map[string]string{"ACCESS_TOKEN_TTL": "0s"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if _, err := LoadConfig(logger.NewNop()); err == nil {
				t.Fatalf("expected error")
			}
		})
	}

	t.Run("missing file", func(t *testing.T) {
		t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))
		if _, err := LoadConfig(logger.NewNop()); err == nil {
			t.Fatalf("expected error for missing config file")
		}
	})
}
