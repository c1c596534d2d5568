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

type CertificateRepo interface {
	CreateIfAbsent(dbc dbctx.Context, c *community.Certificate) (bool, error)
	Get(dbc dbctx.Context, userID, courseID uuid.UUID) (*community.Certificate, error)
	SetImage(dbc dbctx.Context, id uuid.UUID, key, url string) error
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*community.Certificate, error)
}

type certificateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCertificateRepo(db *gorm.DB, baseLog *logger.Logger) CertificateRepo {
	repoLog := baseLog.With("repo", "CertificateRepo")
	return &certificateRepo{db: db, log: repoLog}
}

// CreateIfAbsent inserts the (user, course) certificate once and reports whether it was new.
func (r *certificateRepo) CreateIfAbsent(dbc dbctx.Context, c *community.Certificate) (bool, error) {
	if c == nil {
		return false, nil
	}
	res := dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
			DoNothing: true,
		}).
		Create(c)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *certificateRepo) Get(dbc dbctx.Context, userID, courseID uuid.UUID) (*community.Certificate, error) {
	var c community.Certificate
	err := dbc.DB(r.db).Where("user_id = ? AND course_id = ?", userID, courseID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *certificateRepo) SetImage(dbc dbctx.Context, id uuid.UUID, key, url string) error {
	return dbc.DB(r.db).Model(&community.Certificate{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"image_key": key, "image_url": url}).Error
}

func (r *certificateRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*community.Certificate, error) {
	var results []*community.Certificate
	err := dbc.DB(r.db).
		Preload("Course").
		Where("user_id = ?", userID).
		Order("issued_at DESC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
