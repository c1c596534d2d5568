package learning

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/coursehub-backend/internal/domain/learning"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

type CommentRepo interface {
	Create(dbc dbctx.Context, c *learning.Comment) error
	ListByCourse(dbc dbctx.Context, courseID uuid.UUID, limit int) ([]*learning.Comment, error)
}

type commentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCommentRepo(db *gorm.DB, baseLog *logger.Logger) CommentRepo {
	repoLog := baseLog.With("repo", "CommentRepo")
	return &commentRepo{db: db, log: repoLog}
}

func (cr *commentRepo) Create(dbc dbctx.Context, c *learning.Comment) error {
	if c == nil {
		return nil
	}
	return dbc.DB(cr.db).Create(c).Error
}

// ListByCourse returns course comments newest first.
func (cr *commentRepo) ListByCourse(dbc dbctx.Context, courseID uuid.UUID, limit int) ([]*learning.Comment, error) {
	var results []*learning.Comment
	q := dbc.DB(cr.db).
		Preload("User").
		Where("course_id = ?", courseID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
