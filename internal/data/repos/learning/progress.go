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

type ProgressRepo interface {
	EnsureRow(dbc dbctx.Context, userID, lessonID uuid.UUID) error
	LockByPair(dbc dbctx.Context, userID, lessonID uuid.UUID) (*learning.LessonProgress, error)
	MarkCompleted(dbc dbctx.Context, id uuid.UUID, at time.Time) (bool, error)
	CountCompletedInCourse(dbc dbctx.Context, userID, courseID uuid.UUID) (int64, error)
	CompletedLessonIDs(dbc dbctx.Context, userID, courseID uuid.UUID) ([]uuid.UUID, error)
}

type progressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProgressRepo(db *gorm.DB, baseLog *logger.Logger) ProgressRepo {
	repoLog := baseLog.With("repo", "ProgressRepo")
	return &progressRepo{db: db, log: repoLog}
}

// EnsureRow creates an incomplete progress row for the pair if none exists.
func (pr *progressRepo) EnsureRow(dbc dbctx.Context, userID, lessonID uuid.UUID) error {
	row := &learning.LessonProgress{
		ID:       uuid.New(),
		UserID:   userID,
		LessonID: lessonID,
	}
	return dbc.DB(pr.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
			DoNothing: true,
		}).
		Create(row).Error
}

func (pr *progressRepo) LockByPair(dbc dbctx.Context, userID, lessonID uuid.UUID) (*learning.LessonProgress, error) {
	var p learning.LessonProgress
	err := dbc.DB(pr.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// MarkCompleted flips an incomplete row to completed; false means it already was.
func (pr *progressRepo) MarkCompleted(dbc dbctx.Context, id uuid.UUID, at time.Time) (bool, error) {
	res := dbc.DB(pr.db).Model(&learning.LessonProgress{}).
		Where("id = ? AND is_completed = ?", id, false).
		Updates(map[string]interface{}{
			"is_completed": true,
			"completed_at": at,
			"updated_at":   at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (pr *progressRepo) CountCompletedInCourse(dbc dbctx.Context, userID, courseID uuid.UUID) (int64, error) {
	var n int64
	err := dbc.DB(pr.db).Model(&learning.LessonProgress{}).
		Joins("JOIN lesson ON lesson.id = lesson_progress.lesson_id").
		Where("lesson_progress.user_id = ? AND lesson.course_id = ? AND lesson_progress.is_completed = ?", userID, courseID, true).
		Count(&n).Error
	return n, err
}

func (pr *progressRepo) CompletedLessonIDs(dbc dbctx.Context, userID, courseID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := dbc.DB(pr.db).Model(&learning.LessonProgress{}).
		Joins("JOIN lesson ON lesson.id = lesson_progress.lesson_id").
		Where("lesson_progress.user_id = ? AND lesson.course_id = ? AND lesson_progress.is_completed = ?", userID, courseID, true).
		Pluck("lesson_progress.lesson_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
