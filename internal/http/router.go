package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/coursehub-backend/internal/http/handlers"
	httpMW "github.com/yungbote/coursehub-backend/internal/http/middleware"
	"github.com/yungbote/coursehub-backend/internal/observability"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string
	Metrics     *observability.Metrics
	RateLimiter httpMW.RateLimiter

	AuthMiddleware *httpMW.AuthMiddleware

	AuthHandler      *httpH.AuthHandler
	UserHandler      *httpH.UserHandler
	CourseHandler    *httpH.CourseHandler
	LessonHandler    *httpH.LessonHandler
	TestHandler      *httpH.TestHandler
	TeacherHandler   *httpH.TeacherHandler
	CommunityHandler *httpH.CommunityHandler
	AuthoringHandler *httpH.AuthoringHandler
	AdminHandler     *httpH.AdminHandler
	FileHandler      *httpH.FileHandler
	HealthHandler    *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(httpMW.AttachRequestContext(cfg.Log))
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.Correlate())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics, "/metrics", "/healthcheck"))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}
	if cfg.FileHandler != nil {
		r.GET("/files/*path", cfg.FileHandler.Serve)
	}

	api := r.Group("/api")
	optional := func(c *gin.Context) { c.Next() }
	if cfg.AuthMiddleware != nil {
		optional = cfg.AuthMiddleware.OptionalAuth()
	}
	limited := func(bucket string) gin.HandlerFunc {
		return httpMW.RateLimit(cfg.Log, cfg.RateLimiter, cfg.Metrics, bucket)
	}

	// Public
	if cfg.AuthHandler != nil {
		api.POST("/register", limited("register"), cfg.AuthHandler.Register)
		api.POST("/login", limited("login"), cfg.AuthHandler.Login)
		api.POST("/refresh", cfg.AuthHandler.Refresh)
	}
	if cfg.CourseHandler != nil {
		api.GET("/courses", cfg.CourseHandler.List)
		api.GET("/courses/:id", optional, cfg.CourseHandler.Detail)
		api.GET("/categories", cfg.CourseHandler.Categories)
	}
	if cfg.TeacherHandler != nil {
		api.GET("/teachers", cfg.TeacherHandler.List)
		api.GET("/teachers/:id", optional, cfg.TeacherHandler.Detail)
	}
	if cfg.CommunityHandler != nil {
		api.GET("/leaderboard", cfg.CommunityHandler.Leaderboard)
		api.GET("/news", cfg.CommunityHandler.News)
		api.POST("/contact", limited("contact"), cfg.CommunityHandler.Contact)
		api.POST("/teacher-applications", limited("teacher_application"), cfg.CommunityHandler.ApplyTeacher)
	}

	protected := api.Group("/")
	if cfg.AuthMiddleware != nil {
		protected.Use(cfg.AuthMiddleware.RequireAuth())
	} else {
		protected.Use(func(c *gin.Context) { c.AbortWithStatus(http.StatusUnauthorized) })
	}
	{
		if cfg.AuthHandler != nil {
			protected.POST("/logout", cfg.AuthHandler.Logout)
		}

		// Account
		if cfg.UserHandler != nil {
			protected.GET("/me", cfg.UserHandler.GetMe)
			protected.PATCH("/me", cfg.UserHandler.Update)
			protected.DELETE("/me", cfg.UserHandler.Delete)
			protected.POST("/me/avatar", cfg.UserHandler.UploadAvatar)
			protected.GET("/me/certificates", cfg.UserHandler.Certificates)
			protected.POST("/me/become-teacher", cfg.UserHandler.BecomeTeacher)
		}

		// Courses, lessons, tests
		if cfg.CourseHandler != nil {
			protected.POST("/courses/:id/enroll", cfg.CourseHandler.Enroll)
			protected.POST("/courses/:id/join-requests", cfg.CourseHandler.RequestJoin)
		}
		if cfg.LessonHandler != nil {
			protected.GET("/lessons/:id", cfg.LessonHandler.Detail)
			protected.POST("/lessons/:id/reaction", cfg.LessonHandler.React)
			protected.POST("/lessons/:id/complete", cfg.LessonHandler.Complete)
			protected.POST("/lessons/:id/comments", cfg.LessonHandler.Comment)
		}
		if cfg.TestHandler != nil {
			protected.POST("/tests/:id/start", cfg.TestHandler.Start)
			protected.POST("/tests/:id/submit", cfg.TestHandler.Submit)
		}

		// Teachers
		if cfg.TeacherHandler != nil {
			protected.POST("/teachers/:id/rate", cfg.TeacherHandler.Rate)
			protected.POST("/teachers/:id/contact", cfg.TeacherHandler.Contact)
		}
	}

	if h := cfg.AuthoringHandler; h != nil {
		teacher := protected.Group("/teacher", httpMW.RequireTeacher())
		teacher.GET("/dashboard", h.Dashboard)
		teacher.GET("/students", h.Students)
		teacher.DELETE("/enrollments/:id", h.RemoveEnrollment)

		teacher.GET("/courses", h.ListCourses)
		teacher.POST("/courses", h.CreateCourse)
		teacher.PATCH("/courses/:id", h.UpdateCourse)
		teacher.DELETE("/courses/:id", h.DeleteCourse)
		teacher.POST("/courses/:id/image", h.UploadCourseImage)
		teacher.POST("/courses/:id/lessons", h.CreateLesson)
		teacher.POST("/courses/:id/tests", h.CreateTest)

		teacher.PATCH("/lessons/:id", h.UpdateLesson)
		teacher.DELETE("/lessons/:id", h.DeleteLesson)
		teacher.POST("/lessons/:id/presentation", h.UploadPresentation)

		teacher.GET("/tests/:id", h.GetTest)
		teacher.PATCH("/tests/:id", h.UpdateTest)
		teacher.DELETE("/tests/:id", h.DeleteTest)
		teacher.PUT("/tests/:id/questions", h.SaveQuestions)
		teacher.GET("/tests/:id/results", h.Results)
	}

	if h := cfg.AdminHandler; h != nil {
		admin := protected.Group("/admin", httpMW.RequireAdmin())
		admin.GET("/join-requests", h.ListJoinRequests)
		admin.POST("/join-requests/:id/approve", h.DecideJoinRequest(true))
		admin.POST("/join-requests/:id/reject", h.DecideJoinRequest(false))
		admin.GET("/teacher-requests", h.ListTeacherRequests)
		admin.POST("/teacher-requests/:id/approve", h.DecideTeacherRequest(true))
		admin.POST("/teacher-requests/:id/reject", h.DecideTeacherRequest(false))

		admin.GET("/contact-messages", h.ListContactMessages)
		admin.POST("/contact-messages/:id/read", h.MarkContactMessageRead)
		admin.GET("/teacher-applications", h.ListTeacherApplications)
		admin.POST("/teacher-applications/:id/read", h.MarkTeacherApplicationProcessed)

		admin.POST("/news", h.CreateNews)
		admin.PATCH("/news/:id", h.UpdateNews)
		admin.DELETE("/news/:id", h.DeleteNews)
		admin.POST("/categories", h.CreateCategory)
		admin.DELETE("/categories/:id", h.DeleteCategory)
	}

	return r
}
