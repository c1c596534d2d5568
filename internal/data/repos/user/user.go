package user

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/coursehub-backend/internal/domain/user"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

type UserRepo interface {
	Create(dbc dbctx.Context, u *user.User) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*user.User, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*user.User, error)
	GetByUsername(dbc dbctx.Context, username string) (*user.User, error)
	GetByPhone(dbc dbctx.Context, phone string) (*user.User, error)
	LockByID(dbc dbctx.Context, id uuid.UUID) (*user.User, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	// Delete removes the row for good; enrollments, courses, tokens and ratings cascade.
	Delete(dbc dbctx.Context, id uuid.UUID) error
	SetRole(dbc dbctx.Context, id uuid.UUID, role user.Role) error
	AddStars(dbc dbctx.Context, id uuid.UUID, delta int) (int, error)
	SetRating(dbc dbctx.Context, id uuid.UUID, rating float64, total int) error
	ListTeachers(dbc dbctx.Context) ([]*user.User, error)
	Leaderboard(dbc dbctx.Context, limit int) ([]*user.User, error)
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	repoLog := baseLog.With("repo", "UserRepo")
	return &userRepo{db: db, log: repoLog}
}

func (ur *userRepo) Create(dbc dbctx.Context, u *user.User) error {
	if u == nil {
		return nil
	}
	return dbc.DB(ur.db).Create(u).Error
}

func (ur *userRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*user.User, error) {
	return ur.first(dbc.DB(ur.db).Where("id = ?", id))
}

func (ur *userRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*user.User, error) {
	var results []*user.User
	if len(ids) == 0 {
		return results, nil
	}
	if err := dbc.DB(ur.db).Where("id IN ?", ids).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) GetByUsername(dbc dbctx.Context, username string) (*user.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, nil
	}
	return ur.first(dbc.DB(ur.db).Where("username = ?", username))
}

func (ur *userRepo) GetByPhone(dbc dbctx.Context, phone string) (*user.User, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, nil
	}
	return ur.first(dbc.DB(ur.db).Where("phone = ?", phone))
}

// LockByID reads a user row with FOR UPDATE when the driver supports row locks.
func (ur *userRepo) LockByID(dbc dbctx.Context, id uuid.UUID) (*user.User, error) {
	return ur.first(dbc.DB(ur.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id))
}

func (ur *userRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return dbc.DB(ur.db).Model(&user.User{}).Where("id = ?", id).Updates(updates).Error
}

func (ur *userRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	return dbc.DB(ur.db).Unscoped().Where("id = ?", id).Delete(&user.User{}).Error
}

func (ur *userRepo) SetRole(dbc dbctx.Context, id uuid.UUID, role user.Role) error {
	return dbc.DB(ur.db).Model(&user.User{}).Where("id = ?", id).Update("role", role).Error
}

// AddStars increments stars in place and returns the new total.
func (ur *userRepo) AddStars(dbc dbctx.Context, id uuid.UUID, delta int) (int, error) {
	transaction := dbc.DB(ur.db)
	if delta != 0 {
		res := transaction.Model(&user.User{}).
			Where("id = ?", id).
			Update("stars", gorm.Expr("stars + ?", delta))
		if res.Error != nil {
			return 0, res.Error
		}
		if res.RowsAffected == 0 {
			return 0, gorm.ErrRecordNotFound
		}
	}
	var stars int
	if err := transaction.Model(&user.User{}).Where("id = ?", id).Pluck("stars", &stars).Error; err != nil {
		return 0, err
	}
	return stars, nil
}

func (ur *userRepo) SetRating(dbc dbctx.Context, id uuid.UUID, rating float64, total int) error {
	return dbc.DB(ur.db).Model(&user.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"rating": rating, "total_ratings": total}).Error
}

func (ur *userRepo) ListTeachers(dbc dbctx.Context) ([]*user.User, error) {
	var results []*user.User
	err := dbc.DB(ur.db).
		Where("role = ?", user.RoleTeacher).
		Order("rating DESC").
		Order("total_ratings DESC").
		Order("username ASC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Leaderboard ranks students by coins, then stars.
func (ur *userRepo) Leaderboard(dbc dbctx.Context, limit int) ([]*user.User, error) {
	if limit <= 0 {
		limit = 50
	}
	var results []*user.User
	err := dbc.DB(ur.db).
		Where("role = ?", user.RoleStudent).
		Order("coins DESC").
		Order("stars DESC").
		Order("username ASC").
		Limit(limit).
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) first(q *gorm.DB) (*user.User, error) {
	var u user.User
	err := q.First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
