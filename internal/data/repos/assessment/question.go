package assessment

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/coursehub-backend/internal/domain/assessment"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

// QuestionRepo writes questions and their answers. Order moves go through ParkOrders first so the
// (parent, order_index) unique index holds at every statement.
type QuestionRepo interface {
	ListByTest(dbc dbctx.Context, testID uuid.UUID) ([]assessment.TestQuestion, error)
	ParkOrders(dbc dbctx.Context, testID uuid.UUID) error
	DeleteQuestions(dbc dbctx.Context, testID uuid.UUID, ids []uuid.UUID) error
	DeleteAnswers(dbc dbctx.Context, questionID uuid.UUID, ids []uuid.UUID) error
	CreateQuestion(dbc dbctx.Context, q *assessment.TestQuestion) error
	UpdateQuestion(dbc dbctx.Context, q *assessment.TestQuestion) error
	CreateAnswer(dbc dbctx.Context, a *assessment.TestAnswer) error
	UpdateAnswer(dbc dbctx.Context, a *assessment.TestAnswer) error
}

type questionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionRepo {
	repoLog := baseLog.With("repo", "QuestionRepo")
	return &questionRepo{db: db, log: repoLog}
}

func (qr *questionRepo) ListByTest(dbc dbctx.Context, testID uuid.UUID) ([]assessment.TestQuestion, error) {
	var results []assessment.TestQuestion
	err := dbc.DB(qr.db).
		Preload("Answers", func(db *gorm.DB) *gorm.DB { return db.Order("order_index ASC") }).
		Where("test_id = ?", testID).
		Order("order_index ASC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// ParkOrders negates every question and answer order of a test.
func (qr *questionRepo) ParkOrders(dbc dbctx.Context, testID uuid.UUID) error {
	transaction := dbc.DB(qr.db)
	if err := transaction.Model(&assessment.TestQuestion{}).
		Where("test_id = ? AND order_index > 0", testID).
		Update("order_index", gorm.Expr("-order_index")).Error; err != nil {
		return err
	}
	sub := transaction.Model(&assessment.TestQuestion{}).Select("id").Where("test_id = ?", testID)
	return transaction.Model(&assessment.TestAnswer{}).
		Where("question_id IN (?) AND order_index > 0", sub).
		Update("order_index", gorm.Expr("-order_index")).Error
}

// DeleteQuestions removes questions of testID; ids belonging to other tests are left alone.
func (qr *questionRepo) DeleteQuestions(dbc dbctx.Context, testID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	transaction := dbc.DB(qr.db)
	if err := transaction.
		Where("question_id IN (?)", transaction.Model(&assessment.TestQuestion{}).
			Select("id").
			Where("test_id = ? AND id IN ?", testID, ids)).
		Delete(&assessment.TestAnswer{}).Error; err != nil {
		return err
	}
	return transaction.
		Where("test_id = ? AND id IN ?", testID, ids).
		Delete(&assessment.TestQuestion{}).Error
}

func (qr *questionRepo) DeleteAnswers(dbc dbctx.Context, questionID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return dbc.DB(qr.db).
		Where("question_id = ? AND id IN ?", questionID, ids).
		Delete(&assessment.TestAnswer{}).Error
}

func (qr *questionRepo) CreateQuestion(dbc dbctx.Context, q *assessment.TestQuestion) error {
	if q == nil {
		return nil
	}
	return dbc.DB(qr.db).Omit(clause.Associations).Create(q).Error
}

func (qr *questionRepo) UpdateQuestion(dbc dbctx.Context, q *assessment.TestQuestion) error {
	if q == nil {
		return nil
	}
	return dbc.DB(qr.db).Model(&assessment.TestQuestion{}).
		Where("id = ? AND test_id = ?", q.ID, q.TestID).
		Updates(map[string]interface{}{
			"text":        q.Text,
			"order_index": q.Order,
			"updated_at":  time.Now().UTC(),
		}).Error
}

func (qr *questionRepo) CreateAnswer(dbc dbctx.Context, a *assessment.TestAnswer) error {
	if a == nil {
		return nil
	}
	return dbc.DB(qr.db).Create(a).Error
}

func (qr *questionRepo) UpdateAnswer(dbc dbctx.Context, a *assessment.TestAnswer) error {
	if a == nil {
		return nil
	}
	return dbc.DB(qr.db).Model(&assessment.TestAnswer{}).
		Where("id = ? AND question_id = ?", a.ID, a.QuestionID).
		Updates(map[string]interface{}{
			"text":        a.Text,
			"is_correct":  a.IsCorrect,
			"order_index": a.Order,
			"updated_at":  time.Now().UTC(),
		}).Error
}
