package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/mail"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/coursehub-backend/internal/data/repos"
	domainagg "github.com/yungbote/coursehub-backend/internal/domain/aggregates"
	"github.com/yungbote/coursehub-backend/internal/domain/community"
	"github.com/yungbote/coursehub-backend/internal/domain/user"
	"github.com/yungbote/coursehub-backend/internal/observability"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
	"github.com/yungbote/coursehub-backend/internal/platform/objectstore"
)

type ProfileFields struct {
	FirstName        *string     `json:"first_name"`
	LastName         *string     `json:"last_name"`
	Phone            *string     `json:"phone"`
	Bio              *string     `json:"bio"`
	Specialty        *string     `json:"specialty"`
	ExperienceYears  *int        `json:"experience_years"`
	Level            *user.Level `json:"level"`
	Email            *string     `json:"email"`
	TelegramUsername *string     `json:"telegram_username"`
	// DateOfBirth is YYYY-MM-DD; an empty string clears it.
	DateOfBirth      *string     `json:"date_of_birth"`
}

const maxTelegramUsernameLen = 50

type ProfileService interface {
	Me(ctx context.Context) (*user.User, error)
	Update(ctx context.Context, in ProfileFields) (*user.User, error)
	UploadAvatar(ctx context.Context, up Upload) (*user.User, error)
	// BecomeTeacher files a promotion request, returning the pending one if it exists.
	BecomeTeacher(ctx context.Context, motivation string) (*community.BecomeTeacherRequest, error)
	// Delete removes the caller's account and everything it owns.
	Delete(ctx context.Context) error
}

type profileService struct {
	db          *gorm.DB
	log         *logger.Logger
	userRepo    repos.UserRepo
	requestRepo repos.BecomeTeacherRequestRepo
	files       uploader
}

func NewProfileService(
	db *gorm.DB,
	baseLog *logger.Logger,
	r repos.Set,
	store objectstore.Store,
	metrics *observability.Metrics,
) ProfileService {
	return &profileService{
		db:          db,
		log:         baseLog.With("service", "ProfileService"),
		userRepo:    r.Users,
		requestRepo: r.BecomeTeacherRequests,
		files:       uploader{store: store, metrics: metrics},
	}
}

func (ps *profileService) Me(ctx context.Context) (*user.User, error) {
	const op = "Profile.Me"
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	u, err := ps.userRepo.GetByID(dbctx.Context{Ctx: ctx}, actor.ID)
	if err != nil {
		return nil, internal(op, err)
	}
	if u == nil {
		return nil, ErrUnauthorized
	}
	return u, nil
}

func (ps *profileService) Update(ctx context.Context, in ProfileFields) (*user.User, error) {
	const op = "Profile.Update"
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if in.FirstName != nil {
		if strings.TrimSpace(*in.FirstName) == "" {
			return nil, validation(op, "first_name is required")
		}
		updates["first_name"] = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		if strings.TrimSpace(*in.LastName) == "" {
			return nil, validation(op, "last_name is required")
		}
		updates["last_name"] = strings.TrimSpace(*in.LastName)
	}
	if in.Bio != nil {
		updates["bio"] = strings.TrimSpace(*in.Bio)
	}
	if in.Specialty != nil {
		updates["specialty"] = strings.TrimSpace(*in.Specialty)
	}
	if in.ExperienceYears != nil {
		if *in.ExperienceYears < 0 {
			return nil, validation(op, "experience_years must not be negative")
		}
		updates["experience_years"] = *in.ExperienceYears
	}
	if in.Level != nil {
		if !in.Level.Valid() {
			return nil, validation(op, "unknown level")
		}
		updates["level"] = *in.Level
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if email != "" {
			addr, err := mail.ParseAddress(email)
			if err != nil || addr.Address != email {
				return nil, validation(op, "invalid email")
			}
		}
		updates["email"] = email
	}
	if in.TelegramUsername != nil {
		handle := strings.TrimPrefix(strings.TrimSpace(*in.TelegramUsername), "@")
		if len(handle) > maxTelegramUsernameLen || strings.ContainsAny(handle, " \t@/") {
			return nil, validation(op, "invalid telegram_username")
		}
		updates["telegram_username"] = handle
	}
	if in.DateOfBirth != nil {
		dob, err := parseDateOfBirth(*in.DateOfBirth)
		if err != nil {
			return nil, validation(op, err.Error())
		}
		if dob == nil {
			updates["date_of_birth"] = nil
		} else {
			updates["date_of_birth"] = *dob
		}
	}

	var out *user.User
	err = ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if in.Phone != nil {
			phone := normalizePhone(*in.Phone)
			if phone == "" {
				updates["phone"] = nil
			} else {
				holder, err := ps.userRepo.GetByPhone(dbc, phone)
				if err != nil {
					return err
				}
				if holder != nil && holder.ID != actor.ID {
					return domainagg.NewError(domainagg.CodeConflict, op, "phone already registered", nil)
				}
				updates["phone"] = phone
			}
		}
		if err := ps.userRepo.UpdateFields(dbc, actor.ID, updates); err != nil {
			return err
		}
		out, err = ps.userRepo.GetByID(dbc, actor.ID)
		return err
	})
	if err != nil {
		return nil, internal(op, err)
	}
	return out, nil
}

func (ps *profileService) UploadAvatar(ctx context.Context, up Upload) (*user.User, error) {
	const op = "Profile.UploadAvatar"
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if !allowedImage(up.Filename) {
		return nil, validation(op, "unsupported image type")
	}
	raw, err := io.ReadAll(io.LimitReader(up.Body, MaxUploadBytes))
	if err != nil {
		return nil, internal(op, err)
	}
	png, err := processUploadedAvatar(raw, avatarSize)
	if err != nil {
		return nil, validation(op, "could not read image")
	}
	obj, err := ps.files.put(ctx, op, objectstore.CategoryAvatar, "avatar.png", bytes.NewReader(png))
	if err != nil {
		return nil, err
	}

	dbc := dbctx.Context{Ctx: ctx}
	current, err := ps.userRepo.GetByID(dbc, actor.ID)
	if err != nil {
		ps.files.discard(ctx, ps.log, objectstore.CategoryAvatar, obj.Key)
		return nil, internal(op, err)
	}
	if current == nil {
		ps.files.discard(ctx, ps.log, objectstore.CategoryAvatar, obj.Key)
		return nil, ErrUnauthorized
	}
	if err := ps.userRepo.UpdateFields(dbc, actor.ID, map[string]interface{}{
		"avatar_key": obj.Key,
		"avatar_url": obj.URL,
	}); err != nil {
		ps.files.discard(ctx, ps.log, objectstore.CategoryAvatar, obj.Key)
		return nil, internal(op, err)
	}
	ps.files.discard(ctx, ps.log, objectstore.CategoryAvatar, current.AvatarKey)
	current.AvatarKey, current.AvatarURL = obj.Key, obj.URL
	return current, nil
}

func (ps *profileService) BecomeTeacher(ctx context.Context, motivation string) (*community.BecomeTeacherRequest, error) {
	const op = "Profile.BecomeTeacher"
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	var out *community.BecomeTeacherRequest
	err = ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		u, err := ps.userRepo.LockByID(dbc, actor.ID)
		if err != nil {
			return err
		}
		if u == nil {
			return ErrUnauthorized
		}
		if u.Role.IsTeacher() {
			return domainagg.NewError(domainagg.CodeConflict, op, "already a teacher", nil)
		}
		pending, err := ps.requestRepo.FindPendingForUser(dbc, actor.ID)
		if err != nil {
			return err
		}
		if pending != nil {
			out = pending
			return nil
		}
		req := &community.BecomeTeacherRequest{UserID: actor.ID, Motivation: strings.TrimSpace(motivation)}
		if err := ps.requestRepo.Create(dbc, req); err != nil {
			return err
		}
		out = req
		return nil
	})
	if err != nil {
		return nil, internal(op, err)
	}
	return out, nil
}

func (ps *profileService) Delete(ctx context.Context) error {
	const op = "Profile.Delete"
	actor, err := actorFromContext(ctx)
	if err != nil {
		return err
	}
	var avatarKey string
	err = ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		u, err := ps.userRepo.LockByID(dbc, actor.ID)
		if err != nil {
			return err
		}
		if u == nil {
			return ErrUnauthorized
		}
		avatarKey = u.AvatarKey
		return ps.userRepo.Delete(dbc, actor.ID)
	})
	if err != nil {
		return internal(op, err)
	}
	ps.files.discard(ctx, ps.log, objectstore.CategoryAvatar, avatarKey)
	ps.log.Info("Account deleted", "user_id", actor.ID)
	return nil
}

// parseDateOfBirth returns nil for an empty value so the column is cleared.
func parseDateOfBirth(raw string) (*datatypes.Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, errors.New("date_of_birth must be YYYY-MM-DD")
	}
	if t.After(time.Now()) {
		return nil, errors.New("date_of_birth is in the future")
	}
	d := datatypes.Date(t)
	return &d, nil
}
