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
	"github.com/yungbote/coursehub-backend/internal/observability"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
	"github.com/yungbote/coursehub-backend/internal/platform/objectstore"
)

// CourseFields is used for create and partial update; nil fields are left alone.
type CourseFields struct {
	Title       *string              `json:"title"`
	Description *string              `json:"description"`
	Subject     *string              `json:"subject"`
	Grade       *string              `json:"grade"`
	CategoryID  *uuid.UUID           `json:"category_id"`
	CourseType  *learning.CourseType `json:"course_type"`
	IsActive    *bool                `json:"is_active"`
}

type LessonFields struct {
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	Content         *string `json:"content"`
	VideoURL        *string `json:"video_url"`
	DurationMinutes *int    `json:"duration_minutes"`
	Order           *int    `json:"order"`
}

type TestFields struct {
	Title            *string `json:"title"`
	Description      *string `json:"description"`
	PassingScore     *int    `json:"passing_score"`
	TimeLimitMinutes *int    `json:"time_limit_minutes"`
}

// AuthoringService is the teacher-side CRUD. Every call is scoped to courses the caller owns,
// and a foreign course looks exactly like a missing one.
type AuthoringService interface {
	ListCourses(ctx context.Context) ([]*learning.Course, error)
	CreateCourse(ctx context.Context, in CourseFields) (*learning.Course, error)
	UpdateCourse(ctx context.Context, courseID uuid.UUID, in CourseFields) (*learning.Course, error)
	DeleteCourse(ctx context.Context, courseID uuid.UUID) error
	UploadCourseImage(ctx context.Context, courseID uuid.UUID, up Upload) (*learning.Course, error)

	CreateLesson(ctx context.Context, courseID uuid.UUID, in LessonFields) (*learning.Lesson, error)
	UpdateLesson(ctx context.Context, lessonID uuid.UUID, in LessonFields) (*learning.Lesson, error)
	DeleteLesson(ctx context.Context, lessonID uuid.UUID) error
	UploadPresentation(ctx context.Context, lessonID uuid.UUID, up Upload) (*learning.Lesson, error)

	CreateTest(ctx context.Context, courseID uuid.UUID, in TestFields) (*assessment.CourseTest, error)
	UpdateTest(ctx context.Context, testID uuid.UUID, in TestFields) (*assessment.CourseTest, error)
	DeleteTest(ctx context.Context, testID uuid.UUID) error
	GetTest(ctx context.Context, testID uuid.UUID) (*assessment.CourseTest, error)
	SaveQuestions(ctx context.Context, testID uuid.UUID, set assessment.QuestionSet) ([]assessment.TestQuestion, error)
	Results(ctx context.Context, testID uuid.UUID) ([]*assessment.StudentTest, error)
}

type authoringService struct {
	db           *gorm.DB
	log          *logger.Logger
	courseRepo   repos.CourseRepo
	categoryRepo repos.CategoryRepo
	lessonRepo   repos.LessonRepo
	testRepo     repos.TestRepo
	attemptRepo  repos.AttemptRepo
	questionSets domainagg.QuestionSetAggregate
	catalog      CatalogService
	files        uploader
}

func NewAuthoringService(
	db *gorm.DB,
	baseLog *logger.Logger,
	r repos.Set,
	questionSets domainagg.QuestionSetAggregate,
	catalog CatalogService,
	store objectstore.Store,
	metrics *observability.Metrics,
) AuthoringService {
	return &authoringService{
		db:           db,
		log:          baseLog.With("service", "AuthoringService"),
		courseRepo:   r.Courses,
		categoryRepo: r.Categories,
		lessonRepo:   r.Lessons,
		testRepo:     r.Tests,
		attemptRepo:  r.Attempts,
		questionSets: questionSets,
		catalog:      catalog,
		files:        uploader{store: store, metrics: metrics},
	}
}

// ownedCourse locks the course when dbc carries a transaction.
func (as *authoringService) ownedCourse(dbc dbctx.Context, op string, actor learning.Actor, courseID uuid.UUID) (*learning.Course, error) {
	var (
		course *learning.Course
		err    error
	)
	if dbc.Tx != nil {
		course, err = as.courseRepo.LockByID(dbc, courseID)
	} else {
		course, err = as.courseRepo.GetByID(dbc, courseID)
	}
	if err != nil {
		return nil, err
	}
	if !learning.OwnsCourse(actor, course) {
		return nil, notFound(op, "course")
	}
	return course, nil
}

func (as *authoringService) ownedLesson(dbc dbctx.Context, op string, actor learning.Actor, lessonID uuid.UUID) (*learning.Lesson, *learning.Course, error) {
	lesson, err := as.lessonRepo.GetByID(dbc, lessonID)
	if err != nil {
		return nil, nil, err
	}
	if lesson == nil {
		return nil, nil, notFound(op, "lesson")
	}
	course, err := as.ownedCourse(dbc, op, actor, lesson.CourseID)
	if err != nil {
		if domainagg.IsCode(err, domainagg.CodeNotFound) {
			return nil, nil, notFound(op, "lesson")
		}
		return nil, nil, err
	}
	return lesson, course, nil
}

func (as *authoringService) ownedTest(dbc dbctx.Context, op string, actor learning.Actor, testID uuid.UUID) (*assessment.CourseTest, error) {
	test, err := as.testRepo.GetByID(dbc, testID)
	if err != nil {
		return nil, err
	}
	if test == nil {
		return nil, notFound(op, "test")
	}
	if _, err := as.ownedCourse(dbc, op, actor, test.CourseID); err != nil {
		if domainagg.IsCode(err, domainagg.CodeNotFound) {
			return nil, notFound(op, "test")
		}
		return nil, err
	}
	return test, nil
}

func (as *authoringService) ListCourses(ctx context.Context) ([]*learning.Course, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	out, err := as.courseRepo.ListByTeacher(dbctx.Context{Ctx: ctx}, actor.ID)
	if err != nil {
		return nil, internal("Authoring.ListCourses", err)
	}
	return out, nil
}

func (as *authoringService) validateCourse(dbc dbctx.Context, op string, in CourseFields, creating bool) error {
	if (in.Title != nil && strings.TrimSpace(*in.Title) == "") || (creating && in.Title == nil) {
		return validation(op, "title is required")
	}
	if in.CourseType != nil && !in.CourseType.Valid() {
		return validation(op, "course_type must be open or closed")
	}
	if in.CategoryID != nil {
		cat, err := as.categoryRepo.GetByID(dbc, *in.CategoryID)
		if err != nil {
			return err
		}
		if cat == nil {
			return validation(op, "unknown category")
		}
	}
	return nil
}

func (in CourseFields) updates() map[string]interface{} {
	u := map[string]interface{}{}
	if in.Title != nil {
		u["title"] = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		u["description"] = *in.Description
	}
	if in.Subject != nil {
		u["subject"] = strings.TrimSpace(*in.Subject)
	}
	if in.Grade != nil {
		u["grade"] = strings.TrimSpace(*in.Grade)
	}
	if in.CategoryID != nil {
		u["category_id"] = *in.CategoryID
	}
	if in.CourseType != nil {
		u["course_type"] = *in.CourseType
	}
	if in.IsActive != nil {
		u["is_active"] = *in.IsActive
	}
	return u
}

func (as *authoringService) CreateCourse(ctx context.Context, in CourseFields) (*learning.Course, error) {
	const op = "Authoring.CreateCourse"
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if !actor.Role.IsTeacher() {
		return nil, domainagg.Forbidden(op, domainagg.ReasonNotTeacher)
	}
	dbc := dbctx.Context{Ctx: ctx}
	if err := as.validateCourse(dbc, op, in, true); err != nil {
		return nil, internal(op, err)
	}
	c := &learning.Course{
		TeacherID:  actor.ID,
		Title:      strings.TrimSpace(*in.Title),
		CategoryID: in.CategoryID,
		CourseType: learning.CourseTypeOpen,
		IsActive:   true,
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.Subject != nil {
		c.Subject = strings.TrimSpace(*in.Subject)
	}
	if in.Grade != nil {
		c.Grade = strings.TrimSpace(*in.Grade)
	}
	if in.CourseType != nil {
		c.CourseType = *in.CourseType
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	if err := as.courseRepo.Create(dbc, c); err != nil {
		return nil, internal(op, err)
	}
	as.log.Info("Course created", "course_id", c.ID, "teacher_id", actor.ID)
	as.catalog.Invalidate(ctx)
	return c, nil
}

func (as *authoringService) UpdateCourse(ctx context.Context, courseID uuid.UUID, in CourseFields) (*learning.Course, error) {
	const op = "Authoring.UpdateCourse"
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	var out *learning.Course
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, err := as.ownedCourse(dbc, op, actor, courseID); err != nil {
			return err
		}
		if err := as.validateCourse(dbc, op, in, false); err != nil {
			return err
		}
		if err := as.courseRepo.UpdateFields(dbc, courseID, in.updates()); err != nil {
			return err
		}
		out, err = as.courseRepo.GetByID(dbc, courseID)
		return err
	})
	if err != nil {
		return nil, internal(op, err)
	}
	as.catalog.Invalidate(ctx)
	return out, nil
}

func (as *authoringService) DeleteCourse(ctx context.Context, courseID uuid.UUID) error {
	const op = "Authoring.DeleteCourse"
	actor, err := actorFromContext(ctx)
	if err != nil {
		return err
	}
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, err := as.ownedCourse(dbc, op, actor, courseID); err != nil {
			return err
		}
		return as.courseRepo.SoftDelete(dbc, courseID)
	})
	if err != nil {
		return internal(op, err)
	}
	as.log.Info("Course deleted", "course_id", courseID, "teacher_id", actor.ID)
	as.catalog.Invalidate(ctx)
	return nil
}

func (as *authoringService) UploadCourseImage(ctx context.Context, courseID uuid.UUID, up Upload) (*learning.Course, error) {
	const op = "Authoring.UploadCourseImage"
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if !allowedImage(up.Filename) {
		return nil, validation(op, "unsupported image type")
	}
	if _, err := as.ownedCourse(dbctx.Context{Ctx: ctx}, op, actor, courseID); err != nil {
		return nil, internal(op, err)
	}
	obj, err := as.files.put(ctx, op, objectstore.CategoryCourseImage, up.Filename, up.Body)
	if err != nil {
		return nil, err
	}
	var previous string
	var out *learning.Course
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		course, err := as.ownedCourse(dbc, op, actor, courseID)
		if err != nil {
			return err
		}
		previous = course.ImageKey
		if err := as.courseRepo.UpdateFields(dbc, courseID, map[string]interface{}{
			"image_key": obj.Key,
			"image_url": obj.URL,
		}); err != nil {
			return err
		}
		course.ImageKey, course.ImageURL = obj.Key, obj.URL
		out = course
		return nil
	})
	if err != nil {
		as.files.discard(ctx, as.log, objectstore.CategoryCourseImage, obj.Key)
		return nil, internal(op, err)
	}
	as.files.discard(ctx, as.log, objectstore.CategoryCourseImage, previous)
	as.catalog.Invalidate(ctx)
	return out, nil
}

func (in LessonFields) updates() map[string]interface{} {
	u := map[string]interface{}{}
	if in.Title != nil {
		u["title"] = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		u["description"] = *in.Description
	}
	if in.Content != nil {
		u["content"] = *in.Content
	}
	if in.VideoURL != nil {
		u["video_url"] = strings.TrimSpace(*in.VideoURL)
	}
	if in.DurationMinutes != nil {
		u["duration_minutes"] = *in.DurationMinutes
	}
	if in.Order != nil {
		u["order_index"] = *in.Order
	}
	return u
}

func validateLesson(op string, in LessonFields, creating bool) error {
	if (in.Title != nil && strings.TrimSpace(*in.Title) == "") || (creating && in.Title == nil) {
		return validation(op, "title is required")
	}
	if in.Order != nil && *in.Order < 1 {
		return validation(op, "order must be positive")
	}
	if in.DurationMinutes != nil && *in.DurationMinutes < 0 {
		return validation(op, "duration_minutes must not be negative")
	}
	return nil
}

func (as *authoringService) CreateLesson(ctx context.Context, courseID uuid.UUID, in LessonFields) (*learning.Lesson, error) {
	const op = "Authoring.CreateLesson"
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateLesson(op, in, true); err != nil {
		return nil, err
	}
	var out *learning.Lesson
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, err := as.ownedCourse(dbc, op, actor, courseID); err != nil {
			return err
		}
		l := &learning.Lesson{CourseID: courseID, Title: strings.TrimSpace(*in.Title)}
		if in.Order != nil {
			taken, err := as.lessonRepo.OrderTaken(dbc, courseID, *in.Order, uuid.Nil)
			if err != nil {
				return err
			}
			if taken {
				return domainagg.NewError(domainagg.CodeConflict, op, "lesson order already taken", nil)
			}
			l.Order = *in.Order
		} else {
			last, err := as.lessonRepo.MaxOrder(dbc, courseID)
			if err != nil {
				return err
			}
			l.Order = last + 1
		}
		if in.Description != nil {
			l.Description = *in.Description
		}
		if in.Content != nil {
			l.Content = *in.Content
		}
		if in.VideoURL != nil {
			l.VideoURL = strings.TrimSpace(*in.VideoURL)
		}
		if in.DurationMinutes != nil {
			l.DurationMinutes = *in.DurationMinutes
		}
		if err := as.lessonRepo.Create(dbc, l); err != nil {
			return err
		}
		out = l
		return nil
	})
	if err != nil {
		return nil, internal(op, err)
	}
	as.catalog.Invalidate(ctx)
	return out, nil
}

func (as *authoringService) UpdateLesson(ctx context.Context, lessonID uuid.UUID, in LessonFields) (*learning.Lesson, error) {
	const op = "Authoring.UpdateLesson"
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateLesson(op, in, false); err != nil {
		return nil, err
	}
	var out *learning.Lesson
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		lesson, _, err := as.ownedLesson(dbc, op, actor, lessonID)
		if err != nil {
			return err
		}
		if in.Order != nil && *in.Order != lesson.Order {
			taken, err := as.lessonRepo.OrderTaken(dbc, lesson.CourseID, *in.Order, lesson.ID)
			if err != nil {
				return err
			}
			if taken {
				return domainagg.NewError(domainagg.CodeConflict, op, "lesson order already taken", nil)
			}
		}
		if err := as.lessonRepo.UpdateFields(dbc, lessonID, in.updates()); err != nil {
			return err
		}
		out, err = as.lessonRepo.GetByID(dbc, lessonID)
		return err
	})
	if err != nil {
		return nil, internal(op, err)
	}
	return out, nil
}

func (as *authoringService) DeleteLesson(ctx context.Context, lessonID uuid.UUID) error {
	const op = "Authoring.DeleteLesson"
	actor, err := actorFromContext(ctx)
	if err != nil {
		return err
	}
	var presentation string
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		lesson, _, err := as.ownedLesson(dbc, op, actor, lessonID)
		if err != nil {
			return err
		}
		presentation = lesson.PresentationKey
		return as.lessonRepo.Delete(dbc, lessonID)
	})
	if err != nil {
		return internal(op, err)
	}
	as.files.discard(ctx, as.log, objectstore.CategoryPresentation, presentation)
	as.catalog.Invalidate(ctx)
	return nil
}

func (as *authoringService) UploadPresentation(ctx context.Context, lessonID uuid.UUID, up Upload) (*learning.Lesson, error) {
	const op = "Authoring.UploadPresentation"
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if !learning.AllowedPresentation(up.Filename) {
		return nil, validation(op, "presentation must be one of "+strings.Join(learning.PresentationExtensions, ", "))
	}
	if _, _, err := as.ownedLesson(dbctx.Context{Ctx: ctx}, op, actor, lessonID); err != nil {
		return nil, internal(op, err)
	}
	obj, err := as.files.put(ctx, op, objectstore.CategoryPresentation, up.Filename, up.Body)
	if err != nil {
		return nil, err
	}
	var previous string
	var out *learning.Lesson
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		lesson, _, err := as.ownedLesson(dbc, op, actor, lessonID)
		if err != nil {
			return err
		}
		previous = lesson.PresentationKey
		if err := as.lessonRepo.UpdateFields(dbc, lessonID, map[string]interface{}{
			"presentation_key": obj.Key,
			"presentation_url": obj.URL,
		}); err != nil {
			return err
		}
		lesson.PresentationKey, lesson.PresentationURL = obj.Key, obj.URL
		out = lesson
		return nil
	})
	if err != nil {
		as.files.discard(ctx, as.log, objectstore.CategoryPresentation, obj.Key)
		return nil, internal(op, err)
	}
	as.files.discard(ctx, as.log, objectstore.CategoryPresentation, previous)
	return out, nil
}

func validateTest(op string, in TestFields, creating bool) error {
	if (in.Title != nil && strings.TrimSpace(*in.Title) == "") || (creating && in.Title == nil) {
		return validation(op, "title is required")
	}
	if in.PassingScore != nil && (*in.PassingScore < 0 || *in.PassingScore > 100) {
		return validation(op, "passing_score must be between 0 and 100")
	}
	if in.TimeLimitMinutes != nil && *in.TimeLimitMinutes < 0 {
		return validation(op, "time_limit_minutes must not be negative")
	}
	return nil
}

func (in TestFields) updates() map[string]interface{} {
	u := map[string]interface{}{}
	if in.Title != nil {
		u["title"] = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		u["description"] = *in.Description
	}
	if in.PassingScore != nil {
		u["passing_score"] = *in.PassingScore
	}
	if in.TimeLimitMinutes != nil {
		u["time_limit_minutes"] = *in.TimeLimitMinutes
	}
	return u
}

func (as *authoringService) CreateTest(ctx context.Context, courseID uuid.UUID, in TestFields) (*assessment.CourseTest, error) {
	const op = "Authoring.CreateTest"
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateTest(op, in, true); err != nil {
		return nil, err
	}
	t := &assessment.CourseTest{CourseID: courseID, Title: strings.TrimSpace(*in.Title), PassingScore: 60}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.PassingScore != nil {
		t.PassingScore = *in.PassingScore
	}
	if in.TimeLimitMinutes != nil {
		t.TimeLimitMinutes = *in.TimeLimitMinutes
	}
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, err := as.ownedCourse(dbc, op, actor, courseID); err != nil {
			return err
		}
		return as.testRepo.Create(dbc, t)
	})
	if err != nil {
		return nil, internal(op, err)
	}
	return t, nil
}

func (as *authoringService) UpdateTest(ctx context.Context, testID uuid.UUID, in TestFields) (*assessment.CourseTest, error) {
	const op = "Authoring.UpdateTest"
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateTest(op, in, false); err != nil {
		return nil, err
	}
	var out *assessment.CourseTest
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, err := as.ownedTest(dbc, op, actor, testID); err != nil {
			return err
		}
		if err := as.testRepo.UpdateFields(dbc, testID, in.updates()); err != nil {
			return err
		}
		out, err = as.testRepo.GetByID(dbc, testID)
		return err
	})
	if err != nil {
		return nil, internal(op, err)
	}
	return out, nil
}

func (as *authoringService) DeleteTest(ctx context.Context, testID uuid.UUID) error {
	const op = "Authoring.DeleteTest"
	actor, err := actorFromContext(ctx)
	if err != nil {
		return err
	}
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, err := as.ownedTest(dbc, op, actor, testID); err != nil {
			return err
		}
		return as.testRepo.Delete(dbc, testID)
	})
	return internal(op, err)
}

// GetTest returns the test with questions and correct answers for the editor.
func (as *authoringService) GetTest(ctx context.Context, testID uuid.UUID) (*assessment.CourseTest, error) {
	const op = "Authoring.GetTest"
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	if _, err := as.ownedTest(dbc, op, actor, testID); err != nil {
		return nil, internal(op, err)
	}
	out, err := as.testRepo.GetWithQuestions(dbc, testID)
	if err != nil {
		return nil, internal(op, err)
	}
	return out, nil
}

func (as *authoringService) SaveQuestions(ctx context.Context, testID uuid.UUID, set assessment.QuestionSet) ([]assessment.TestQuestion, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return as.questionSets.Save(ctx, domainagg.SaveQuestionsInput{Actor: actor, TestID: testID, Set: set})
}

func (as *authoringService) Results(ctx context.Context, testID uuid.UUID) ([]*assessment.StudentTest, error) {
	const op = "Authoring.Results"
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	if _, err := as.ownedTest(dbc, op, actor, testID); err != nil {
		return nil, internal(op, err)
	}
	out, err := as.attemptRepo.ListByTest(dbc, testID)
	if err != nil {
		return nil, internal(op, err)
	}
	return out, nil
}
