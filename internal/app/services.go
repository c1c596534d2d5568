package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/coursehub-backend/internal/data/aggregates"
	"github.com/yungbote/coursehub-backend/internal/data/repos"
	"github.com/yungbote/coursehub-backend/internal/observability"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
	"github.com/yungbote/coursehub-backend/internal/services"
)

type Services struct {
	Auth         services.AuthService
	Catalog      services.CatalogService
	Courses      services.CourseService
	Lessons      services.LessonService
	Assessments  services.AssessmentService
	Certificates services.CertificateService
	Authoring    services.AuthoringService
	Teachers     services.TeacherService
	Dashboard    services.DashboardService
	Admin        services.AdminService
	Profiles     services.ProfileService
	Community    services.CommunityService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, clients Clients, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")
	r := repos.NewSet(db, log)
	aggs := aggregates.NewSet(aggregates.BaseDeps{
		DB:    db,
		Log:   log,
		Hooks: aggregates.NewObservabilityHooks(metrics, log),
	}, r)

	certificates, err := services.NewCertificateService(db, log, r, clients.Store, cfg.CertificateFont, metrics)
	if err != nil {
		return Services{}, fmt.Errorf("init certificate service: %w", err)
	}
	catalog := services.NewCatalogService(db, log, r.Courses, r.Categories, r.Lessons, r.Enrollments, clients.Cache, metrics)

	return Services{
		Auth: services.NewAuthService(
			db, log, r.Users, r.Tokens, clients.Revoker,
			cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL,
		),
		Catalog: catalog,
		Courses: services.NewCourseService(
			db, log, r.Courses, r.Lessons, r.Tests, r.Enrollments, r.JoinRequests, r.Progress,
			aggs.Enrollments, catalog,
		),
		Lessons:      services.NewLessonService(db, log, r, aggs.Reactions, aggs.Progress, certificates),
		Assessments:  services.NewAssessmentService(log, r.Tests, r.Enrollments, aggs.Attempts, metrics),
		Certificates: certificates,
		Authoring:    services.NewAuthoringService(db, log, r, aggs.QuestionSets, catalog, clients.Store, metrics),
		Teachers:     services.NewTeacherService(log, r, aggs.Ratings),
		Dashboard:    services.NewDashboardService(db, log, r, catalog),
		Admin:        services.NewAdminService(db, log, r, aggs.Enrollments, aggs.TeacherRequests, catalog, clients.Store, metrics),
		Profiles:     services.NewProfileService(db, log, r, clients.Store, metrics),
		Community:    services.NewCommunityService(log, r),
	}, nil
}
