package assessment

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/coursehub-backend/internal/domain/assessment"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

type TestRepo interface {
	Create(dbc dbctx.Context, t *assessment.CourseTest) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*assessment.CourseTest, error)
	LockByID(dbc dbctx.Context, id uuid.UUID) (*assessment.CourseTest, error)
	GetWithQuestions(dbc dbctx.Context, id uuid.UUID) (*assessment.CourseTest, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	Delete(dbc dbctx.Context, id uuid.UUID) error
	ListByCourse(dbc dbctx.Context, courseID uuid.UUID) ([]*assessment.CourseTest, error)
	FirstByCourse(dbc dbctx.Context, courseID uuid.UUID) (*assessment.CourseTest, error)
	CountByCourseIDs(dbc dbctx.Context, courseIDs []uuid.UUID) (int64, error)
}

type testRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTestRepo(db *gorm.DB, baseLog *logger.Logger) TestRepo {
	repoLog := baseLog.With("repo", "TestRepo")
	return &testRepo{db: db, log: repoLog}
}

func (tr *testRepo) Create(dbc dbctx.Context, t *assessment.CourseTest) error {
	if t == nil {
		return nil
	}
	return dbc.DB(tr.db).Omit(clause.Associations).Create(t).Error
}

func (tr *testRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*assessment.CourseTest, error) {
	return firstTest(dbc.DB(tr.db).Where("id = ?", id))
}

func (tr *testRepo) LockByID(dbc dbctx.Context, id uuid.UUID) (*assessment.CourseTest, error) {
	return firstTest(dbc.DB(tr.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id))
}

// GetWithQuestions loads the test with questions and answers in display order.
func (tr *testRepo) GetWithQuestions(dbc dbctx.Context, id uuid.UUID) (*assessment.CourseTest, error) {
	return firstTest(dbc.DB(tr.db).
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("order_index ASC") }).
		Preload("Questions.Answers", func(db *gorm.DB) *gorm.DB { return db.Order("order_index ASC") }).
		Where("id = ?", id))
}

func (tr *testRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return dbc.DB(tr.db).Model(&assessment.CourseTest{}).Where("id = ?", id).Updates(updates).Error
}

func (tr *testRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	return dbc.DB(tr.db).Where("id = ?", id).Delete(&assessment.CourseTest{}).Error
}

func (tr *testRepo) ListByCourse(dbc dbctx.Context, courseID uuid.UUID) ([]*assessment.CourseTest, error) {
	var results []*assessment.CourseTest
	err := dbc.DB(tr.db).
		Where("course_id = ?", courseID).
		Order("created_at ASC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// FirstByCourse returns the earliest test of a course, the one offered after the last lesson.
func (tr *testRepo) FirstByCourse(dbc dbctx.Context, courseID uuid.UUID) (*assessment.CourseTest, error) {
	return firstTest(dbc.DB(tr.db).
		Where("course_id = ?", courseID).
		Order("created_at ASC"))
}

func (tr *testRepo) CountByCourseIDs(dbc dbctx.Context, courseIDs []uuid.UUID) (int64, error) {
	if len(courseIDs) == 0 {
		return 0, nil
	}
	var n int64
	err := dbc.DB(tr.db).Model(&assessment.CourseTest{}).Where("course_id IN ?", courseIDs).Count(&n).Error
	return n, err
}

func firstTest(q *gorm.DB) (*assessment.CourseTest, error) {
	var t assessment.CourseTest
	err := q.First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}
