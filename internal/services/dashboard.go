package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/coursehub-backend/internal/data/repos"
	"github.com/yungbote/coursehub-backend/internal/domain/learning"
	"github.com/yungbote/coursehub-backend/internal/domain/user"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

type DashboardStats struct {
	Courses             int64 `json:"courses"`
	Lessons             int64 `json:"lessons"`
	Tests               int64 `json:"tests"`
	Students            int64 `json:"students"`
	PendingJoinRequests int64 `json:"pending_join_requests"`
}

type StudentEnrollment struct {
	EnrollmentID uuid.UUID `json:"enrollment_id"`
	CourseID     uuid.UUID `json:"course_id"`
	CourseTitle  string    `json:"course_title"`
	JoinedAt     time.Time `json:"joined_at"`
}

type StudentRow struct {
	Student     *user.User          `json:"student"`
	Enrollments []StudentEnrollment `json:"enrollments"`
}

type DashboardService interface {
	Stats(ctx context.Context) (DashboardStats, error)
	Students(ctx context.Context) ([]StudentRow, error)
	// RemoveEnrollment only removes enrollments in the caller's own courses.
	RemoveEnrollment(ctx context.Context, enrollmentID uuid.UUID) error
}

type dashboardService struct {
	db              *gorm.DB
	log             *logger.Logger
	courseRepo      repos.CourseRepo
	lessonRepo      repos.LessonRepo
	testRepo        repos.TestRepo
	enrollmentRepo  repos.EnrollmentRepo
	joinRequestRepo repos.JoinRequestRepo
	catalog         CatalogService
}

func NewDashboardService(db *gorm.DB, baseLog *logger.Logger, r repos.Set, catalog CatalogService) DashboardService {
	return &dashboardService{
		db:              db,
		log:             baseLog.With("service", "DashboardService"),
		courseRepo:      r.Courses,
		lessonRepo:      r.Lessons,
		testRepo:        r.Tests,
		enrollmentRepo:  r.Enrollments,
		joinRequestRepo: r.JoinRequests,
		catalog:         catalog,
	}
}

func (ds *dashboardService) Stats(ctx context.Context) (DashboardStats, error) {
	const op = "Dashboard.Stats"
	actor, err := actorFromContext(ctx)
	if err != nil {
		return DashboardStats{}, err
	}
	courseIDs, err := ds.courseRepo.IDsByTeacher(dbctx.Context{Ctx: ctx}, actor.ID)
	if err != nil {
		return DashboardStats{}, internal(op, err)
	}
	out := DashboardStats{Courses: int64(len(courseIDs))}
	if len(courseIDs) == 0 {
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	dbc := dbctx.Context{Ctx: gctx}
	g.Go(func() error {
		counts, err := ds.lessonRepo.CountByCourseIDs(dbc, courseIDs)
		for _, n := range counts {
			out.Lessons += n
		}
		return err
	})
	g.Go(func() error {
		n, err := ds.testRepo.CountByCourseIDs(dbc, courseIDs)
		out.Tests = n
		return err
	})
	g.Go(func() error {
		n, err := ds.enrollmentRepo.CountDistinctStudents(dbc, courseIDs)
		out.Students = n
		return err
	})
	g.Go(func() error {
		n, err := ds.joinRequestRepo.CountPendingForCourses(dbc, courseIDs)
		out.PendingJoinRequests = n
		return err
	})
	if err := g.Wait(); err != nil {
		return DashboardStats{}, internal(op, err)
	}
	return out, nil
}

func (ds *dashboardService) Students(ctx context.Context) ([]StudentRow, error) {
	const op = "Dashboard.Students"
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	courseIDs, err := ds.courseRepo.IDsByTeacher(dbc, actor.ID)
	if err != nil {
		return nil, internal(op, err)
	}
	if len(courseIDs) == 0 {
		return []StudentRow{}, nil
	}
	enrollments, err := ds.enrollmentRepo.ListByCourseIDs(dbc, courseIDs)
	if err != nil {
		return nil, internal(op, err)
	}

	byStudent := map[uuid.UUID]*StudentRow{}
	order := make([]uuid.UUID, 0)
	for _, e := range enrollments {
		row, ok := byStudent[e.UserID]
		if !ok {
			row = &StudentRow{Student: e.User}
			byStudent[e.UserID] = row
			order = append(order, e.UserID)
		}
		se := StudentEnrollment{EnrollmentID: e.ID, CourseID: e.CourseID, JoinedAt: e.JoinedAt}
		if e.Course != nil {
			se.CourseTitle = e.Course.Title
		}
		row.Enrollments = append(row.Enrollments, se)
	}
	out := make([]StudentRow, 0, len(order))
	for _, id := range order {
		row := byStudent[id]
		sort.Slice(row.Enrollments, func(i, j int) bool {
			return row.Enrollments[i].JoinedAt.After(row.Enrollments[j].JoinedAt)
		})
		out = append(out, *row)
	}
	return out, nil
}

func (ds *dashboardService) RemoveEnrollment(ctx context.Context, enrollmentID uuid.UUID) error {
	const op = "Dashboard.RemoveEnrollment"
	actor, err := actorFromContext(ctx)
	if err != nil {
		return err
	}
	err = ds.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		e, err := ds.enrollmentRepo.GetByID(dbc, enrollmentID)
		if err != nil {
			return err
		}
		if e == nil {
			return notFound(op, "enrollment")
		}
		course, err := ds.courseRepo.LockByID(dbc, e.CourseID)
		if err != nil {
			return err
		}
		if !learning.OwnsCourse(actor, course) {
			return notFound(op, "enrollment")
		}
		return ds.enrollmentRepo.Delete(dbc, enrollmentID)
	})
	if err != nil {
		return internal(op, err)
	}
	ds.log.Info("Enrollment removed", "enrollment_id", enrollmentID, "teacher_id", actor.ID)
	ds.catalog.Invalidate(ctx)
	return nil
}
