package app

import (
	"database/sql"

	httpserver "github.com/yungbote/coursehub-backend/internal/http"
	httpH "github.com/yungbote/coursehub-backend/internal/http/handlers"
	httpMW "github.com/yungbote/coursehub-backend/internal/http/middleware"
	"github.com/yungbote/coursehub-backend/internal/observability"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

func wireRouterConfig(log *logger.Logger, cfg Config, sqlDB *sql.DB, clients Clients, svc Services, metrics *observability.Metrics) httpserver.RouterConfig {
	log.Info("Wiring handlers...")
	rc := httpserver.RouterConfig{
		Log:         log,
		ServiceName: cfg.ServiceName,
		CORSOrigins: cfg.CORSOrigins,
		Metrics:     metrics,

		AuthMiddleware: httpMW.NewAuthMiddleware(log, svc.Auth),

		AuthHandler:      httpH.NewAuthHandler(svc.Auth),
		UserHandler:      httpH.NewUserHandler(svc.Profiles, svc.Certificates),
		CourseHandler:    httpH.NewCourseHandler(svc.Catalog, svc.Courses),
		LessonHandler:    httpH.NewLessonHandler(svc.Lessons),
		TestHandler:      httpH.NewTestHandler(svc.Assessments),
		TeacherHandler:   httpH.NewTeacherHandler(svc.Teachers),
		CommunityHandler: httpH.NewCommunityHandler(svc.Community),
		AuthoringHandler: httpH.NewAuthoringHandler(svc.Authoring, svc.Dashboard),
		AdminHandler:     httpH.NewAdminHandler(svc.Admin),
		HealthHandler:    httpH.NewHealthHandler(sqlDB),
		FileHandler:      httpH.NewFileHandler(log, clients.Store),
	}
	if clients.RateLimiter != nil {
		rc.RateLimiter = clients.RateLimiter
	}
	return rc
}
