package db

import (
	"context"
	"fmt"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"

	"github.com/yungbote/coursehub-backend/internal/data/db/migrations"
	"github.com/yungbote/coursehub-backend/internal/domain/assessment"
	"github.com/yungbote/coursehub-backend/internal/domain/auth"
	"github.com/yungbote/coursehub-backend/internal/domain/community"
	"github.com/yungbote/coursehub-backend/internal/domain/learning"
	"github.com/yungbote/coursehub-backend/internal/domain/user"
)

// Models lists every persisted model in dependency order.
func Models() []any {
	return []any{
		// Identity
		&user.User{},
		&auth.UserToken{},
		&user.TeacherRating{},

		// Catalog + enrollment
		&learning.CourseCategory{},
		&learning.Course{},
		&learning.Lesson{},
		&learning.CourseStudent{},
		&learning.JoinRequest{},
		&learning.Comment{},
		&learning.LessonLikeDislike{},
		&learning.LessonProgress{},

		// Tests
		&assessment.CourseTest{},
		&assessment.TestQuestion{},
		&assessment.TestAnswer{},
		&assessment.StudentTest{},

		// Site content + back office
		&community.News{},
		&community.ContactMessage{},
		&community.ContactToTeacher{},
		&community.TeacherApplication{},
		&community.BecomeTeacherRequest{},
		&community.Certificate{},
	}
}

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

// Migrate applies the embedded goose migrations on Postgres and AutoMigrate elsewhere.
func (s *Service) Migrate(ctx context.Context) error {
	if s.driver != DriverPostgres {
		s.log.Info("Running AutoMigrate", "driver", s.driver)
		return AutoMigrateAll(s.db.WithContext(ctx))
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	version, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err == nil {
		s.log.Info("Migrations applied", "version", version)
	}
	return nil
}
