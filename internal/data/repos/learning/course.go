package learning

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/coursehub-backend/internal/domain/learning"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

// CatalogFilter selects active open courses for the public catalog.
type CatalogFilter struct {
	Query        string
	CategorySlug string
	Grade        string
	Offset       int
	Limit        int
}

type CourseRepo interface {
	Create(dbc dbctx.Context, c *learning.Course) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*learning.Course, error)
	GetDetail(dbc dbctx.Context, id uuid.UUID) (*learning.Course, error)
	LockByID(dbc dbctx.Context, id uuid.UUID) (*learning.Course, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	SoftDelete(dbc dbctx.Context, id uuid.UUID) error
	ListCatalog(dbc dbctx.Context, f CatalogFilter) ([]*learning.Course, int64, error)
	ListByTeacher(dbc dbctx.Context, teacherID uuid.UUID) ([]*learning.Course, error)
	IDsByTeacher(dbc dbctx.Context, teacherID uuid.UUID) ([]uuid.UUID, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*learning.Course, error)
}

type courseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	repoLog := baseLog.With("repo", "CourseRepo")
	return &courseRepo{db: db, log: repoLog}
}

func (cr *courseRepo) Create(dbc dbctx.Context, c *learning.Course) error {
	if c == nil {
		return nil
	}
	return dbc.DB(cr.db).Create(c).Error
}

func (cr *courseRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*learning.Course, error) {
	return firstCourse(dbc.DB(cr.db).Where("id = ?", id))
}

// GetDetail loads the course with its teacher and category.
func (cr *courseRepo) GetDetail(dbc dbctx.Context, id uuid.UUID) (*learning.Course, error) {
	return firstCourse(dbc.DB(cr.db).
		Preload("Teacher").
		Preload("Category").
		Where("id = ?", id))
}

func (cr *courseRepo) LockByID(dbc dbctx.Context, id uuid.UUID) (*learning.Course, error) {
	return firstCourse(dbc.DB(cr.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id))
}

func (cr *courseRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return dbc.DB(cr.db).Model(&learning.Course{}).Where("id = ?", id).Updates(updates).Error
}

func (cr *courseRepo) SoftDelete(dbc dbctx.Context, id uuid.UUID) error {
	return dbc.DB(cr.db).Where("id = ?", id).Delete(&learning.Course{}).Error
}

func (cr *courseRepo) ListCatalog(dbc dbctx.Context, f CatalogFilter) ([]*learning.Course, int64, error) {
	q := dbc.DB(cr.db).Model(&learning.Course{}).
		Where("course.is_active = ?", true).
		Where("course.course_type = ?", learning.CourseTypeOpen)

	if term := strings.ToLower(strings.TrimSpace(f.Query)); term != "" {
		like := "%" + term + "%"
		q = q.Where("(LOWER(course.title) LIKE ? OR LOWER(course.description) LIKE ? OR LOWER(course.subject) LIKE ?)", like, like, like)
	}
	if slug := strings.TrimSpace(f.CategorySlug); slug != "" {
		q = q.Joins("JOIN course_category ON course_category.id = course.category_id").
			Where("course_category.slug = ?", slug)
	}
	if grade := strings.TrimSpace(f.Grade); grade != "" {
		q = q.Where("course.grade = ?", grade)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 9
	}
	var results []*learning.Course
	err := q.Session(&gorm.Session{}).
		Preload("Teacher").
		Preload("Category").
		Order("course.created_at DESC").
		Offset(f.Offset).
		Limit(limit).
		Find(&results).Error
	if err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (cr *courseRepo) ListByTeacher(dbc dbctx.Context, teacherID uuid.UUID) ([]*learning.Course, error) {
	var results []*learning.Course
	err := dbc.DB(cr.db).
		Preload("Category").
		Where("teacher_id = ?", teacherID).
		Order("created_at DESC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *courseRepo) IDsByTeacher(dbc dbctx.Context, teacherID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := dbc.DB(cr.db).Model(&learning.Course{}).
		Where("teacher_id = ?", teacherID).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (cr *courseRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*learning.Course, error) {
	var results []*learning.Course
	if len(ids) == 0 {
		return results, nil
	}
	if err := dbc.DB(cr.db).Where("id IN ?", ids).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func firstCourse(q *gorm.DB) (*learning.Course, error) {
	var c learning.Course
	err := q.First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

type CategoryRepo interface {
	Create(dbc dbctx.Context, c *learning.CourseCategory) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*learning.CourseCategory, error)
	List(dbc dbctx.Context) ([]*learning.CourseCategory, error)
	Delete(dbc dbctx.Context, id uuid.UUID) (bool, error)
}

type categoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCategoryRepo(db *gorm.DB, baseLog *logger.Logger) CategoryRepo {
	repoLog := baseLog.With("repo", "CategoryRepo")
	return &categoryRepo{db: db, log: repoLog}
}

func (r *categoryRepo) Create(dbc dbctx.Context, c *learning.CourseCategory) error {
	if c == nil {
		return nil
	}
	return dbc.DB(r.db).Create(c).Error
}

func (r *categoryRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*learning.CourseCategory, error) {
	var c learning.CourseCategory
	err := dbc.DB(r.db).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepo) List(dbc dbctx.Context) ([]*learning.CourseCategory, error) {
	var results []*learning.CourseCategory
	if err := dbc.DB(r.db).Order("name ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *categoryRepo) Delete(dbc dbctx.Context, id uuid.UUID) (bool, error) {
	res := dbc.DB(r.db).Where("id = ?", id).Delete(&learning.CourseCategory{})
	return res.RowsAffected > 0, res.Error
}
