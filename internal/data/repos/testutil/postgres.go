//go:build integration

package testutil

import (
	"context"
	"testing"
	"time"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/yungbote/coursehub-backend/internal/data/db"
)

// Postgres starts a throwaway postgres container, applies the goose migrations and returns
// the connection. The container is terminated on cleanup.
func Postgres(tb testing.TB) *gorm.DB {
	tb.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pg, err := postgres.RunContainer(ctx,
		tc.WithImage("postgres:16-alpine"),
		postgres.WithDatabase("coursehub"),
		postgres.WithUsername("coursehub"),
		postgres.WithPassword("coursehub"),
		tc.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	if err != nil {
		tb.Fatalf("start postgres container: %v", err)
	}
	tb.Cleanup(func() {
		stopCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
		defer stop()
		_ = pg.Terminate(stopCtx)
	})

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		tb.Fatalf("postgres dsn: %v", err)
	}
	svc, err := db.Open(db.Config{Driver: db.DriverPostgres, DSN: dsn, MaxOpenConns: 20}, Logger(tb))
	if err != nil {
		tb.Fatalf("open postgres: %v", err)
	}
	tb.Cleanup(func() { _ = svc.Close() })
	if err := svc.Migrate(ctx); err != nil {
		tb.Fatalf("migrate postgres: %v", err)
	}
	return svc.DB()
}
