package learning

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/coursehub-backend/internal/domain/learning"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

type EnrollmentRepo interface {
	Exists(dbc dbctx.Context, userID, courseID uuid.UUID) (bool, error)
	Get(dbc dbctx.Context, userID, courseID uuid.UUID) (*learning.CourseStudent, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*learning.CourseStudent, error)
	CreateIfAbsent(dbc dbctx.Context, userID, courseID uuid.UUID) (bool, error)
	Delete(dbc dbctx.Context, id uuid.UUID) error
	CountByCourseIDs(dbc dbctx.Context, courseIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	CountDistinctStudents(dbc dbctx.Context, courseIDs []uuid.UUID) (int64, error)
	ListByCourseIDs(dbc dbctx.Context, courseIDs []uuid.UUID) ([]*learning.CourseStudent, error)
}

type enrollmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEnrollmentRepo(db *gorm.DB, baseLog *logger.Logger) EnrollmentRepo {
	repoLog := baseLog.With("repo", "EnrollmentRepo")
	return &enrollmentRepo{db: db, log: repoLog}
}

func (er *enrollmentRepo) Exists(dbc dbctx.Context, userID, courseID uuid.UUID) (bool, error) {
	if userID == uuid.Nil || courseID == uuid.Nil {
		return false, nil
	}
	var n int64
	err := dbc.DB(er.db).Model(&learning.CourseStudent{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (er *enrollmentRepo) Get(dbc dbctx.Context, userID, courseID uuid.UUID) (*learning.CourseStudent, error) {
	return firstEnrollment(dbc.DB(er.db).Where("user_id = ? AND course_id = ?", userID, courseID))
}

func (er *enrollmentRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*learning.CourseStudent, error) {
	return firstEnrollment(dbc.DB(er.db).Where("id = ?", id))
}

// CreateIfAbsent inserts the pair unless it exists and reports whether a row was written.
func (er *enrollmentRepo) CreateIfAbsent(dbc dbctx.Context, userID, courseID uuid.UUID) (bool, error) {
	row := &learning.CourseStudent{
		ID:       uuid.New(),
		UserID:   userID,
		CourseID: courseID,
		JoinedAt: time.Now().UTC(),
	}
	res := dbc.DB(er.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
			DoNothing: true,
		}).
		Create(row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (er *enrollmentRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	return dbc.DB(er.db).Where("id = ?", id).Delete(&learning.CourseStudent{}).Error
}

func (er *enrollmentRepo) CountByCourseIDs(dbc dbctx.Context, courseIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64, len(courseIDs))
	if len(courseIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		CourseID uuid.UUID
		N        int64
	}
	err := dbc.DB(er.db).Model(&learning.CourseStudent{}).
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

func (er *enrollmentRepo) CountDistinctStudents(dbc dbctx.Context, courseIDs []uuid.UUID) (int64, error) {
	if len(courseIDs) == 0 {
		return 0, nil
	}
	var n int64
	err := dbc.DB(er.db).Model(&learning.CourseStudent{}).
		Where("course_id IN ?", courseIDs).
		Distinct("user_id").
		Count(&n).Error
	return n, err
}

func (er *enrollmentRepo) ListByCourseIDs(dbc dbctx.Context, courseIDs []uuid.UUID) ([]*learning.CourseStudent, error) {
	var results []*learning.CourseStudent
	if len(courseIDs) == 0 {
		return results, nil
	}
	err := dbc.DB(er.db).
		Preload("User").
		Preload("Course").
		Where("course_id IN ?", courseIDs).
		Order("joined_at DESC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func firstEnrollment(q *gorm.DB) (*learning.CourseStudent, error) {
	var cs learning.CourseStudent
	err := q.First(&cs).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cs, nil
}

type JoinRequestRepo interface {
	Create(dbc dbctx.Context, jr *learning.JoinRequest) error
	LockByID(dbc dbctx.Context, id uuid.UUID) (*learning.JoinRequest, error)
	FindPending(dbc dbctx.Context, userID, courseID uuid.UUID) (*learning.JoinRequest, error)
	ListPending(dbc dbctx.Context) ([]*learning.JoinRequest, error)
	CountPendingForCourses(dbc dbctx.Context, courseIDs []uuid.UUID) (int64, error)
}

type joinRequestRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewJoinRequestRepo(db *gorm.DB, baseLog *logger.Logger) JoinRequestRepo {
	repoLog := baseLog.With("repo", "JoinRequestRepo")
	return &joinRequestRepo{db: db, log: repoLog}
}

func (r *joinRequestRepo) Create(dbc dbctx.Context, jr *learning.JoinRequest) error {
	if jr == nil {
		return nil
	}
	return dbc.DB(r.db).Create(jr).Error
}

func (r *joinRequestRepo) LockByID(dbc dbctx.Context, id uuid.UUID) (*learning.JoinRequest, error) {
	return firstJoinRequest(dbc.DB(r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id))
}

func (r *joinRequestRepo) FindPending(dbc dbctx.Context, userID, courseID uuid.UUID) (*learning.JoinRequest, error) {
	return firstJoinRequest(dbc.DB(r.db).
		Where("user_id = ? AND course_id = ? AND status = ?", userID, courseID, learning.JoinRequestPending))
}

func (r *joinRequestRepo) ListPending(dbc dbctx.Context) ([]*learning.JoinRequest, error) {
	var results []*learning.JoinRequest
	err := dbc.DB(r.db).
		Preload("User").
		Preload("Course").
		Where("status = ?", learning.JoinRequestPending).
		Order("created_at ASC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *joinRequestRepo) CountPendingForCourses(dbc dbctx.Context, courseIDs []uuid.UUID) (int64, error) {
	if len(courseIDs) == 0 {
		return 0, nil
	}
	var n int64
	err := dbc.DB(r.db).Model(&learning.JoinRequest{}).
		Where("course_id IN ? AND status = ?", courseIDs, learning.JoinRequestPending).
		Count(&n).Error
	return n, err
}

func firstJoinRequest(q *gorm.DB) (*learning.JoinRequest, error) {
	var jr learning.JoinRequest
	err := q.First(&jr).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &jr, nil
}
