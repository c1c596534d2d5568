package user

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/coursehub-backend/internal/domain/user"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

type TeacherRatingRepo interface {
	Upsert(dbc dbctx.Context, r *user.TeacherRating) error
	GetByPair(dbc dbctx.Context, raterID, teacherID uuid.UUID) (*user.TeacherRating, error)
	Stats(dbc dbctx.Context, teacherID uuid.UUID) (float64, int, error)
	ListByTeacher(dbc dbctx.Context, teacherID uuid.UUID) ([]*user.TeacherRating, error)
}

type teacherRatingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTeacherRatingRepo(db *gorm.DB, baseLog *logger.Logger) TeacherRatingRepo {
	repoLog := baseLog.With("repo", "TeacherRatingRepo")
	return &teacherRatingRepo{db: db, log: repoLog}
}

// Upsert inserts the (rater, teacher) row or overwrites its rating and review.
func (r *teacherRatingRepo) Upsert(dbc dbctx.Context, rating *user.TeacherRating) error {
	if rating == nil {
		return nil
	}
	now := time.Now().UTC()
	if rating.CreatedAt.IsZero() {
		rating.CreatedAt = now
	}
	rating.UpdatedAt = now
	return dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "rater_id"}, {Name: "teacher_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating", "review", "updated_at"}),
		}).
		Create(rating).Error
}

func (r *teacherRatingRepo) GetByPair(dbc dbctx.Context, raterID, teacherID uuid.UUID) (*user.TeacherRating, error) {
	var out user.TeacherRating
	err := dbc.DB(r.db).
		Where("rater_id = ? AND teacher_id = ?", raterID, teacherID).
		First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Stats returns the raw average and count over all rows for a teacher.
func (r *teacherRatingRepo) Stats(dbc dbctx.Context, teacherID uuid.UUID) (float64, int, error) {
	var row struct {
		Avg   *float64
		Total int
	}
	err := dbc.DB(r.db).
		Model(&user.TeacherRating{}).
		Select("CAST(AVG(rating) AS DOUBLE PRECISION) AS avg, COUNT(*) AS total").
		Where("teacher_id = ?", teacherID).
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	if row.Avg == nil {
		return 0, row.Total, nil
	}
	return *row.Avg, row.Total, nil
}

func (r *teacherRatingRepo) ListByTeacher(dbc dbctx.Context, teacherID uuid.UUID) ([]*user.TeacherRating, error) {
	var results []*user.TeacherRating
	err := dbc.DB(r.db).
		Preload("Rater").
		Where("teacher_id = ?", teacherID).
		Order("updated_at DESC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
