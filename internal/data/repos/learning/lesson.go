package learning

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/coursehub-backend/internal/domain/learning"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

type LessonRepo interface {
	Create(dbc dbctx.Context, l *learning.Lesson) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*learning.Lesson, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	Delete(dbc dbctx.Context, id uuid.UUID) error
	ListByCourse(dbc dbctx.Context, courseID uuid.UUID) ([]*learning.Lesson, error)
	Next(dbc dbctx.Context, courseID uuid.UUID, afterOrder int) (*learning.Lesson, error)
	CountByCourse(dbc dbctx.Context, courseID uuid.UUID) (int64, error)
	CountByCourseIDs(dbc dbctx.Context, courseIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	MaxOrder(dbc dbctx.Context, courseID uuid.UUID) (int, error)
	OrderTaken(dbc dbctx.Context, courseID uuid.UUID, order int, excludeID uuid.UUID) (bool, error)
}

type lessonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	repoLog := baseLog.With("repo", "LessonRepo")
	return &lessonRepo{db: db, log: repoLog}
}

func (lr *lessonRepo) Create(dbc dbctx.Context, l *learning.Lesson) error {
	if l == nil {
		return nil
	}
	return dbc.DB(lr.db).Create(l).Error
}

func (lr *lessonRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*learning.Lesson, error) {
	return firstLesson(dbc.DB(lr.db).Where("id = ?", id))
}

func (lr *lessonRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return dbc.DB(lr.db).Model(&learning.Lesson{}).Where("id = ?", id).Updates(updates).Error
}

func (lr *lessonRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	return dbc.DB(lr.db).Where("id = ?", id).Delete(&learning.Lesson{}).Error
}

func (lr *lessonRepo) ListByCourse(dbc dbctx.Context, courseID uuid.UUID) ([]*learning.Lesson, error) {
	var results []*learning.Lesson
	err := dbc.DB(lr.db).
		Where("course_id = ?", courseID).
		Order("order_index ASC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Next returns the lesson that follows afterOrder in the course, or nil on the last lesson.
func (lr *lessonRepo) Next(dbc dbctx.Context, courseID uuid.UUID, afterOrder int) (*learning.Lesson, error) {
	return firstLesson(dbc.DB(lr.db).
		Where("course_id = ? AND order_index > ?", courseID, afterOrder).
		Order("order_index ASC"))
}

func (lr *lessonRepo) CountByCourse(dbc dbctx.Context, courseID uuid.UUID) (int64, error) {
	var n int64
	err := dbc.DB(lr.db).Model(&learning.Lesson{}).Where("course_id = ?", courseID).Count(&n).Error
	return n, err
}

func (lr *lessonRepo) CountByCourseIDs(dbc dbctx.Context, courseIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64, len(courseIDs))
	if len(courseIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		CourseID uuid.UUID
		N        int64
	}
	err := dbc.DB(lr.db).Model(&learning.Lesson{}).
		Select("course_id, COUNT(*) AS n").
		Where("course_id IN ?", courseIDs).
		Group("course_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.CourseID] = r.N
	}
	return out, nil
}

func (lr *lessonRepo) MaxOrder(dbc dbctx.Context, courseID uuid.UUID) (int, error) {
	var max *int
	err := dbc.DB(lr.db).Model(&learning.Lesson{}).
		Select("MAX(order_index)").
		Where("course_id = ?", courseID).
		Scan(&max).Error
	if err != nil || max == nil {
		return 0, err
	}
	return *max, nil
}

func (lr *lessonRepo) OrderTaken(dbc dbctx.Context, courseID uuid.UUID, order int, excludeID uuid.UUID) (bool, error) {
	q := dbc.DB(lr.db).Model(&learning.Lesson{}).
		Where("course_id = ? AND order_index = ?", courseID, order)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func firstLesson(q *gorm.DB) (*learning.Lesson, error) {
	var l learning.Lesson
	err := q.First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}
