package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/coursehub-backend/internal/data/repos"
	domainagg "github.com/yungbote/coursehub-backend/internal/domain/aggregates"
	"github.com/yungbote/coursehub-backend/internal/domain/assessment"
	"github.com/yungbote/coursehub-backend/internal/domain/learning"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

type CourseDetail struct {
	Course          *learning.Course         `json:"course"`
	Lessons         []*learning.Lesson       `json:"lessons"`
	Tests           []*assessment.CourseTest `json:"tests"`
	StudentCount    int64                    `json:"student_count"`
	IsEnrolled      bool                     `json:"is_enrolled"`
	ProgressPercent int                      `json:"progress_percent"`
}

type CourseService interface {
	// Detail is public; enrollment and progress are filled in for an authenticated viewer.
	Detail(ctx context.Context, courseID uuid.UUID) (CourseDetail, error)
	Enroll(ctx context.Context, courseID uuid.UUID) (domainagg.EnrollResult, error)
	RequestJoin(ctx context.Context, courseID uuid.UUID, message string) (*learning.JoinRequest, error)
}

type courseService struct {
	db              *gorm.DB
	log             *logger.Logger
	courseRepo      repos.CourseRepo
	lessonRepo      repos.LessonRepo
	testRepo        repos.TestRepo
	enrollmentRepo  repos.EnrollmentRepo
	joinRequestRepo repos.JoinRequestRepo
	progressRepo    repos.ProgressRepo
	enrollments     domainagg.EnrollmentAggregate
	catalog         CatalogService
}

func NewCourseService(
	db *gorm.DB,
	baseLog *logger.Logger,
	courseRepo repos.CourseRepo,
	lessonRepo repos.LessonRepo,
	testRepo repos.TestRepo,
	enrollmentRepo repos.EnrollmentRepo,
	joinRequestRepo repos.JoinRequestRepo,
	progressRepo repos.ProgressRepo,
	enrollments domainagg.EnrollmentAggregate,
	catalog CatalogService,
) CourseService {
	return &courseService{
		db:              db,
		log:             baseLog.With("service", "CourseService"),
		courseRepo:      courseRepo,
		lessonRepo:      lessonRepo,
		testRepo:        testRepo,
		enrollmentRepo:  enrollmentRepo,
		joinRequestRepo: joinRequestRepo,
		progressRepo:    progressRepo,
		enrollments:     enrollments,
		catalog:         catalog,
	}
}

func (cs *courseService) Detail(ctx context.Context, courseID uuid.UUID) (CourseDetail, error) {
	const op = "Course.Detail"
	dbc := dbctx.Context{Ctx: ctx}
	course, err := cs.courseRepo.GetDetail(dbc, courseID)
	if err != nil {
		return CourseDetail{}, internal(op, err)
	}
	actor, authErr := actorFromContext(ctx)
	if course == nil || (!course.IsActive && !learning.OwnsCourse(actor, course)) {
		return CourseDetail{}, notFound(op, "course")
	}

	out := CourseDetail{Course: course}
	if out.Lessons, err = cs.lessonRepo.ListByCourse(dbc, courseID); err != nil {
		return CourseDetail{}, internal(op, err)
	}
	if out.Tests, err = cs.testRepo.ListByCourse(dbc, courseID); err != nil {
		return CourseDetail{}, internal(op, err)
	}
	counts, err := cs.enrollmentRepo.CountByCourseIDs(dbc, []uuid.UUID{courseID})
	if err != nil {
		return CourseDetail{}, internal(op, err)
	}
	out.StudentCount = counts[courseID]

	if authErr == nil {
		if out.IsEnrolled, err = cs.enrollmentRepo.Exists(dbc, actor.ID, courseID); err != nil {
			return CourseDetail{}, internal(op, err)
		}
		if out.IsEnrolled {
			done, err := cs.progressRepo.CountCompletedInCourse(dbc, actor.ID, courseID)
			if err != nil {
				return CourseDetail{}, internal(op, err)
			}
			out.ProgressPercent = learning.ProgressPercent(done, int64(len(out.Lessons)))
		}
	}
	return out, nil
}

func (cs *courseService) Enroll(ctx context.Context, courseID uuid.UUID) (domainagg.EnrollResult, error) {
	const op = "Course.Enroll"
	actor, err := actorFromContext(ctx)
	if err != nil {
		return domainagg.EnrollResult{}, err
	}
	course, err := cs.courseRepo.GetByID(dbctx.Context{Ctx: ctx}, courseID)
	if err != nil {
		return domainagg.EnrollResult{}, internal(op, err)
	}
	if course == nil || !course.IsActive {
		return domainagg.EnrollResult{}, notFound(op, "course")
	}
	if !learning.CanEnroll(course) {
		return domainagg.EnrollResult{}, domainagg.Forbidden(op, domainagg.ReasonCourseClosed)
	}
	res, err := cs.enrollments.Enroll(ctx, actor.ID, courseID)
	if err != nil {
		return domainagg.EnrollResult{}, err
	}
	if res.Created {
		cs.log.Info("Student enrolled", "user_id", actor.ID, "course_id", courseID)
		cs.catalog.Invalidate(ctx)
	}
	return res, nil
}

func (cs *courseService) RequestJoin(ctx context.Context, courseID uuid.UUID, message string) (*learning.JoinRequest, error) {
	const op = "Course.RequestJoin"
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	var out *learning.JoinRequest
	err = cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		course, err := cs.courseRepo.GetByID(dbc, courseID)
		if err != nil {
			return err
		}
		if course == nil || !course.IsActive {
			return notFound(op, "course")
		}
		if course.IsOpen() {
			return validation(op, "course is open; enroll directly")
		}
		enrolled, err := cs.enrollmentRepo.Exists(dbc, actor.ID, courseID)
		if err != nil {
			return err
		}
		if enrolled {
			return domainagg.NewError(domainagg.CodeConflict, op, "already enrolled", nil)
		}
		pending, err := cs.joinRequestRepo.FindPending(dbc, actor.ID, courseID)
		if err != nil {
			return err
		}
		if pending != nil {
			out = pending
			return nil
		}
		jr := &learning.JoinRequest{UserID: actor.ID, CourseID: courseID, Message: strings.TrimSpace(message)}
		if err := cs.joinRequestRepo.Create(dbc, jr); err != nil {
			return err
		}
		out = jr
		return nil
	})
	if err != nil {
		return nil, internal(op, err)
	}
	return out, nil
}
