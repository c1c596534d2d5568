package community

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/coursehub-backend/internal/domain/community"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

type BecomeTeacherRequestRepo interface {
	Create(dbc dbctx.Context, r *community.BecomeTeacherRequest) error
	LockByID(dbc dbctx.Context, id uuid.UUID) (*community.BecomeTeacherRequest, error)
	FindPendingForUser(dbc dbctx.Context, userID uuid.UUID) (*community.BecomeTeacherRequest, error)
	ListPending(dbc dbctx.Context) ([]*community.BecomeTeacherRequest, error)
}

type becomeTeacherRequestRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBecomeTeacherRequestRepo(db *gorm.DB, baseLog *logger.Logger) BecomeTeacherRequestRepo {
	repoLog := baseLog.With("repo", "BecomeTeacherRequestRepo")
	return &becomeTeacherRequestRepo{db: db, log: repoLog}
}

func (r *becomeTeacherRequestRepo) Create(dbc dbctx.Context, req *community.BecomeTeacherRequest) error {
	if req == nil {
		return nil
	}
	return dbc.DB(r.db).Create(req).Error
}

func (r *becomeTeacherRequestRepo) LockByID(dbc dbctx.Context, id uuid.UUID) (*community.BecomeTeacherRequest, error) {
	return firstTeacherRequest(dbc.DB(r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id))
}

func (r *becomeTeacherRequestRepo) FindPendingForUser(dbc dbctx.Context, userID uuid.UUID) (*community.BecomeTeacherRequest, error) {
	return firstTeacherRequest(dbc.DB(r.db).
		Where("user_id = ? AND is_processed = ?", userID, false))
}

func (r *becomeTeacherRequestRepo) ListPending(dbc dbctx.Context) ([]*community.BecomeTeacherRequest, error) {
	var results []*community.BecomeTeacherRequest
	err := dbc.DB(r.db).
		Preload("User").
		Where("is_processed = ?", false).
		Order("created_at ASC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func firstTeacherRequest(q *gorm.DB) (*community.BecomeTeacherRequest, error) {
	var req community.BecomeTeacherRequest
	err := q.First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}
