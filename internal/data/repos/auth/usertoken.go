package auth

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/coursehub-backend/internal/domain/auth"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

type UserTokenRepo interface {
	Create(dbc dbctx.Context, userTokens []*auth.UserToken) ([]*auth.UserToken, error)
	GetByRefreshHash(dbc dbctx.Context, hash string) (*auth.UserToken, error)
	GetByUserIDs(dbc dbctx.Context, userIDs []uuid.UUID) ([]*auth.UserToken, error)
	FullDeleteByIDs(dbc dbctx.Context, tokenIDs []uuid.UUID) error
	FullDeleteExpired(dbc dbctx.Context, before time.Time) (int64, error)
}

type userTokenRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
	repoLog := baseLog.With("repo", "UserTokenRepo")
	return &userTokenRepo{db: db, log: repoLog}
}

func (utr *userTokenRepo) Create(dbc dbctx.Context, userTokens []*auth.UserToken) ([]*auth.UserToken, error) {
	transaction := dbc.DB(utr.db)
	if len(userTokens) == 0 {
		return []*auth.UserToken{}, nil
	}
	if err := transaction.Create(&userTokens).Error; err != nil {
		return nil, err
	}
	return userTokens, nil
}

func (utr *userTokenRepo) GetByRefreshHash(dbc dbctx.Context, hash string) (*auth.UserToken, error) {
	transaction := dbc.DB(utr.db)
	var tok auth.UserToken
	err := transaction.
		Where("refresh_token_hash = ?", hash).
		First(&tok).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tok, nil
}

func (utr *userTokenRepo) GetByUserIDs(dbc dbctx.Context, userIDs []uuid.UUID) ([]*auth.UserToken, error) {
	transaction := dbc.DB(utr.db)
	var results []*auth.UserToken
	if len(userIDs) == 0 {
		return results, nil
	}
	if err := transaction.
		Where("user_id IN ?", userIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (utr *userTokenRepo) FullDeleteByIDs(dbc dbctx.Context, tokenIDs []uuid.UUID) error {
	transaction := dbc.DB(utr.db)
	if len(tokenIDs) == 0 {
		return nil
	}
	return transaction.
		Where("id IN ?", tokenIDs).
		Delete(&auth.UserToken{}).Error
}

func (utr *userTokenRepo) FullDeleteExpired(dbc dbctx.Context, before time.Time) (int64, error) {
	transaction := dbc.DB(utr.db)
	res := transaction.
		Where("expires_at < ?", before).
		Delete(&auth.UserToken{})
	return res.RowsAffected, res.Error
}
