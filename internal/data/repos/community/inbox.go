package community

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/coursehub-backend/internal/domain/community"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

type ContactMessageRepo interface {
	Create(dbc dbctx.Context, m *community.ContactMessage) error
	List(dbc dbctx.Context, unreadOnly bool) ([]*community.ContactMessage, error)
	MarkRead(dbc dbctx.Context, id uuid.UUID) (bool, error)
}

type contactMessageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContactMessageRepo(db *gorm.DB, baseLog *logger.Logger) ContactMessageRepo {
	repoLog := baseLog.With("repo", "ContactMessageRepo")
	return &contactMessageRepo{db: db, log: repoLog}
}

func (r *contactMessageRepo) Create(dbc dbctx.Context, m *community.ContactMessage) error {
	if m == nil {
		return nil
	}
	return dbc.DB(r.db).Create(m).Error
}

func (r *contactMessageRepo) List(dbc dbctx.Context, unreadOnly bool) ([]*community.ContactMessage, error) {
	var results []*community.ContactMessage
	q := dbc.DB(r.db).Order("created_at DESC")
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *contactMessageRepo) MarkRead(dbc dbctx.Context, id uuid.UUID) (bool, error) {
	res := dbc.DB(r.db).Model(&community.ContactMessage{}).Where("id = ?", id).Update("is_read", true)
	return res.RowsAffected > 0, res.Error
}

type ContactToTeacherRepo interface {
	Create(dbc dbctx.Context, m *community.ContactToTeacher) error
	ListByTeacher(dbc dbctx.Context, teacherID uuid.UUID) ([]*community.ContactToTeacher, error)
}

type contactToTeacherRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContactToTeacherRepo(db *gorm.DB, baseLog *logger.Logger) ContactToTeacherRepo {
	repoLog := baseLog.With("repo", "ContactToTeacherRepo")
	return &contactToTeacherRepo{db: db, log: repoLog}
}

func (r *contactToTeacherRepo) Create(dbc dbctx.Context, m *community.ContactToTeacher) error {
	if m == nil {
		return nil
	}
	return dbc.DB(r.db).Create(m).Error
}

func (r *contactToTeacherRepo) ListByTeacher(dbc dbctx.Context, teacherID uuid.UUID) ([]*community.ContactToTeacher, error) {
	var results []*community.ContactToTeacher
	err := dbc.DB(r.db).
		Where("teacher_id = ?", teacherID).
		Order("created_at DESC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

type TeacherApplicationRepo interface {
	Create(dbc dbctx.Context, a *community.TeacherApplication) error
	List(dbc dbctx.Context, unprocessedOnly bool) ([]*community.TeacherApplication, error)
	MarkProcessed(dbc dbctx.Context, id uuid.UUID) (bool, error)
}

type teacherApplicationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTeacherApplicationRepo(db *gorm.DB, baseLog *logger.Logger) TeacherApplicationRepo {
	repoLog := baseLog.With("repo", "TeacherApplicationRepo")
	return &teacherApplicationRepo{db: db, log: repoLog}
}

func (r *teacherApplicationRepo) Create(dbc dbctx.Context, a *community.TeacherApplication) error {
	if a == nil {
		return nil
	}
	return dbc.DB(r.db).Create(a).Error
}

func (r *teacherApplicationRepo) List(dbc dbctx.Context, unprocessedOnly bool) ([]*community.TeacherApplication, error) {
	var results []*community.TeacherApplication
	q := dbc.DB(r.db).Order("created_at DESC")
	if unprocessedOnly {
		q = q.Where("is_processed = ?", false)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *teacherApplicationRepo) MarkProcessed(dbc dbctx.Context, id uuid.UUID) (bool, error) {
	res := dbc.DB(r.db).Model(&community.TeacherApplication{}).Where("id = ?", id).Update("is_processed", true)
	return res.RowsAffected > 0, res.Error
}
