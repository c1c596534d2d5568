package community

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/coursehub-backend/internal/domain/community"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

type NewsRepo interface {
	Create(dbc dbctx.Context, n *community.News) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*community.News, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	SoftDelete(dbc dbctx.Context, id uuid.UUID) (bool, error)
	ListPublished(dbc dbctx.Context, limit int) ([]*community.News, error)
}

type newsRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNewsRepo(db *gorm.DB, baseLog *logger.Logger) NewsRepo {
	repoLog := baseLog.With("repo", "NewsRepo")
	return &newsRepo{db: db, log: repoLog}
}

func (nr *newsRepo) Create(dbc dbctx.Context, n *community.News) error {
	if n == nil {
		return nil
	}
	return dbc.DB(nr.db).Create(n).Error
}

func (nr *newsRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*community.News, error) {
	var n community.News
	err := dbc.DB(nr.db).Where("id = ?", id).First(&n).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (nr *newsRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return dbc.DB(nr.db).Model(&community.News{}).Where("id = ?", id).Updates(updates).Error
}

func (nr *newsRepo) SoftDelete(dbc dbctx.Context, id uuid.UUID) (bool, error) {
	res := dbc.DB(nr.db).Where("id = ?", id).Delete(&community.News{})
	return res.RowsAffected > 0, res.Error
}

func (nr *newsRepo) ListPublished(dbc dbctx.Context, limit int) ([]*community.News, error) {
	var results []*community.News
	q := dbc.DB(nr.db).
		Where("is_published = ?", true).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
