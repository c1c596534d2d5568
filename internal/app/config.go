package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/coursehub-backend/internal/data/db"
	"github.com/yungbote/coursehub-backend/internal/platform/envutil"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
	"github.com/yungbote/coursehub-backend/internal/platform/objectstore"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	defaultJWTSecret = "defaultsecret"
)

type Config struct {
	Env         string   `yaml:"env"`
	Port        string   `yaml:"port"`
	ServiceName string   `yaml:"service_name"`
	Version     string   `yaml:"version"`
	TimeZone    string   `yaml:"time_zone"`
	CORSOrigins []string `yaml:"cors_origins"`
	SentryDSN   string   `yaml:"sentry_dsn"`
	// CertificateFont is a TTF path; empty uses the built-in Go font.
	CertificateFont string `yaml:"certificate_font"`

	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Redis    RedisConfig    `yaml:"redis"`
	Storage  StorageConfig  `yaml:"storage"`
}

type DatabaseConfig struct {
	Driver          string        `yaml:"driver"`
	URL             string        `yaml:"url"`
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Name            string        `yaml:"name"`
	SSLMode         string        `yaml:"sslmode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

type AuthConfig struct {
	JWTSecret       string        `yaml:"jwt_secret"`
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
	// CacheTTL bounds catalog entries; RateLimit is requests per RateWindow per client.
	CacheTTL   time.Duration `yaml:"cache_ttl"`
	RateLimit  int           `yaml:"rate_limit"`
	RateWindow time.Duration `yaml:"rate_window"`
}

type StorageConfig struct {
	Mode            string `yaml:"mode"`
	Dir             string `yaml:"dir"`
	Bucket          string `yaml:"bucket"`
	EmulatorHost    string `yaml:"emulator_host"`
	PublicBaseURL   string `yaml:"public_base_url"`
	CredentialsJSON string `yaml:"credentials_json"`
}

func defaultConfig() Config {
	return Config{
		Env:         EnvDevelopment,
		Port:        "8080",
		ServiceName: "coursehub-backend",
		Version:     "dev",
		TimeZone:    "Asia/Tashkent",
		Database: DatabaseConfig{
			Driver:          db.DriverPostgres,
			Host:            "localhost",
			Port:            "5432",
			User:            "postgres",
			Name:            "coursehub",
			SSLMode:         "disable",
			MaxOpenConns:    20,
			MaxIdleConns:    10,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Auth: AuthConfig{
			JWTSecret:       defaultJWTSecret,
			AccessTokenTTL:  time.Hour,
			RefreshTokenTTL: 24 * time.Hour,
		},
		Redis: RedisConfig{
			Prefix:     "coursehub",
			CacheTTL:   5 * time.Minute,
			RateLimit:  10,
			RateWindow: time.Minute,
		},
		Storage: StorageConfig{
			Mode: string(objectstore.ModeLocal),
			Dir:  "./media",
		},
	}
}

// LoadConfig layers built-in defaults, the optional CONFIG_FILE yaml, then the environment.
func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := defaultConfig()

	if path := envutil.String("CONFIG_FILE", ""); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
		log.Info("Loaded config file", "path", path)
	}

	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	if cfg.Auth.JWTSecret == defaultJWTSecret {
		log.Warn("JWT_SECRET is not set; using the development default")
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Env = strings.ToLower(envutil.String("APP_ENV", c.Env))
	c.Port = envutil.String("PORT", c.Port)
	c.ServiceName = envutil.String("SERVICE_NAME", c.ServiceName)
	c.Version = envutil.String("APP_VERSION", c.Version)
	c.TimeZone = envutil.String("TIME_ZONE", c.TimeZone)
	c.CORSOrigins = envutil.List("CORS_ORIGINS", c.CORSOrigins)
	c.SentryDSN = envutil.String("SENTRY_DSN", c.SentryDSN)
	c.CertificateFont = envutil.String("CERTIFICATE_FONT", c.CertificateFont)

	d := &c.Database
	d.Driver = strings.ToLower(envutil.String("DB_DRIVER", d.Driver))
	d.URL = envutil.String("DATABASE_URL", d.URL)
	d.Host = envutil.String("POSTGRES_HOST", d.Host)
	d.Port = envutil.String("POSTGRES_PORT", d.Port)
	d.User = envutil.String("POSTGRES_USER", d.User)
	d.Password = envutil.String("POSTGRES_PASSWORD", d.Password)
	d.Name = envutil.String("POSTGRES_NAME", d.Name)
	d.SSLMode = envutil.String("POSTGRES_SSLMODE", d.SSLMode)
	d.MaxOpenConns = envutil.Int("DB_MAX_OPEN_CONNS", d.MaxOpenConns)
	d.MaxIdleConns = envutil.Int("DB_MAX_IDLE_CONNS", d.MaxIdleConns)
	d.ConnMaxLifetime = envutil.Duration("DB_CONN_MAX_LIFETIME", d.ConnMaxLifetime)

	a := &c.Auth
	a.JWTSecret = envutil.String("JWT_SECRET", a.JWTSecret)
	a.AccessTokenTTL = envutil.Duration("ACCESS_TOKEN_TTL", a.AccessTokenTTL)
	a.RefreshTokenTTL = envutil.Duration("REFRESH_TOKEN_TTL", a.RefreshTokenTTL)

	r := &c.Redis
	r.Addr = envutil.String("REDIS_ADDR", r.Addr)
	r.Password = envutil.String("REDIS_PASSWORD", r.Password)
	r.DB = envutil.Int("REDIS_DB", r.DB)
	r.Prefix = envutil.String("REDIS_PREFIX", r.Prefix)
	r.CacheTTL = envutil.Duration("CACHE_TTL", r.CacheTTL)
	r.RateLimit = envutil.Int("RATE_LIMIT", r.RateLimit)
	r.RateWindow = envutil.Duration("RATE_LIMIT_WINDOW", r.RateWindow)

	s := &c.Storage
	s.Mode = envutil.String("OBJECT_STORAGE_MODE", s.Mode)
	s.Dir = envutil.String("OBJECT_STORAGE_DIR", s.Dir)
	s.Bucket = envutil.String("GCS_BUCKET", s.Bucket)
	s.EmulatorHost = envutil.String("STORAGE_EMULATOR_HOST", s.EmulatorHost)
	s.PublicBaseURL = envutil.String("PUBLIC_BASE_URL", s.PublicBaseURL)
	s.CredentialsJSON = envutil.String("GCS_CREDENTIALS_JSON", s.CredentialsJSON)
}

func (c Config) validate() error {
	switch c.Database.Driver {
	case db.DriverPostgres, db.DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (allowed: %q, %q)", c.Database.Driver, db.DriverPostgres, db.DriverSQLite)
	}
	if c.Auth.AccessTokenTTL <= 0 || c.Auth.RefreshTokenTTL <= 0 {
		return fmt.Errorf("token ttls must be positive")
	}
	if c.Env == EnvProduction && c.Auth.JWTSecret == defaultJWTSecret {
		return fmt.Errorf("JWT_SECRET must be set when APP_ENV=%s", EnvProduction)
	}
	return nil
}

// DBConfig resolves DATABASE_URL or the discrete POSTGRES_* settings.
func (c Config) DBConfig() db.Config {
	dsn := c.Database.URL
	if dsn == "" && c.Database.Driver == db.DriverPostgres {
		d := c.Database
		dsn = db.PostgresDSN(d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
	}
	return db.Config{
		Driver:          c.Database.Driver,
		DSN:             dsn,
		MaxOpenConns:    c.Database.MaxOpenConns,
		MaxIdleConns:    c.Database.MaxIdleConns,
		ConnMaxLifetime: c.Database.ConnMaxLifetime,
	}
}

func (c Config) ObjectStoreConfig() objectstore.Config {
	return objectstore.Config{
		Mode:            objectstore.Mode(c.Storage.Mode),
		Dir:             c.Storage.Dir,
		Bucket:          c.Storage.Bucket,
		EmulatorHost:    c.Storage.EmulatorHost,
		PublicBaseURL:   c.Storage.PublicBaseURL,
		CredentialsJSON: c.Storage.CredentialsJSON,
	}
}
