package assessment

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/coursehub-backend/internal/domain/assessment"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

// AttemptRepo stores StudentTest rows, one per (student, test).
type AttemptRepo interface {
	Get(dbc dbctx.Context, studentID, testID uuid.UUID) (*assessment.StudentTest, error)
	EnsureRow(dbc dbctx.Context, studentID, testID uuid.UUID, at time.Time) error
	LockByPair(dbc dbctx.Context, studentID, testID uuid.UUID) (*assessment.StudentTest, error)
	ClearScore(dbc dbctx.Context, id uuid.UUID) error
	SaveGrade(dbc dbctx.Context, st *assessment.StudentTest) (bool, error)
	ListByTest(dbc dbctx.Context, testID uuid.UUID) ([]*assessment.StudentTest, error)
}

type attemptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAttemptRepo(db *gorm.DB, baseLog *logger.Logger) AttemptRepo {
	repoLog := baseLog.With("repo", "AttemptRepo")
	return &attemptRepo{db: db, log: repoLog}
}

func (ar *attemptRepo) Get(dbc dbctx.Context, studentID, testID uuid.UUID) (*assessment.StudentTest, error) {
	return firstAttempt(dbc.DB(ar.db).Where("student_id = ? AND test_id = ?", studentID, testID))
}

func (ar *attemptRepo) EnsureRow(dbc dbctx.Context, studentID, testID uuid.UUID, at time.Time) error {
	row := &assessment.StudentTest{
		ID:        uuid.New(),
		StudentID: studentID,
		TestID:    testID,
		StartedAt: at,
	}
	return dbc.DB(ar.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "student_id"}, {Name: "test_id"}},
			DoNothing: true,
		}).
		Create(row).Error
}

func (ar *attemptRepo) LockByPair(dbc dbctx.Context, studentID, testID uuid.UUID) (*assessment.StudentTest, error) {
	return firstAttempt(dbc.DB(ar.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("student_id = ? AND test_id = ?", studentID, testID))
}

// ClearScore nulls the score of an attempt that has not been graded.
func (ar *attemptRepo) ClearScore(dbc dbctx.Context, id uuid.UUID) error {
	return dbc.DB(ar.db).Model(&assessment.StudentTest{}).
		Where("id = ? AND completed = ?", id, false).
		Updates(map[string]interface{}{"score": nil, "updated_at": time.Now().UTC()}).Error
}

// SaveGrade writes the graded fields guarded on completed=false; false means another submit won.
func (ar *attemptRepo) SaveGrade(dbc dbctx.Context, st *assessment.StudentTest) (bool, error) {
	if st == nil {
		return false, nil
	}
	res := dbc.DB(ar.db).Model(&assessment.StudentTest{}).
		Where("id = ? AND completed = ?", st.ID, false).
		Updates(map[string]interface{}{
			"completed":     true,
			"score":         st.Score,
			"stars_awarded": st.StarsAwarded,
			"answers":       st.Answers,
			"completed_at":  st.CompletedAt,
			"updated_at":    time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (ar *attemptRepo) ListByTest(dbc dbctx.Context, testID uuid.UUID) ([]*assessment.StudentTest, error) {
	var results []*assessment.StudentTest
	err := dbc.DB(ar.db).
		Preload("Student").
		Where("test_id = ?", testID).
		Order("completed_at DESC").
		Order("started_at DESC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func firstAttempt(q *gorm.DB) (*assessment.StudentTest, error) {
	var st assessment.StudentTest
	err := q.First(&st).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}
