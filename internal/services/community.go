package services

import (
	"context"
	"strings"

	"github.com/yungbote/coursehub-backend/internal/data/repos"
	"github.com/yungbote/coursehub-backend/internal/domain/community"
	"github.com/yungbote/coursehub-backend/internal/domain/user"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

const (
	LeaderboardSize = 50
	newsPageSize    = 30
)

type TeacherApplicationInput struct {
	FullName   string `json:"full_name"`
	Phone      string `json:"phone"`
	Subject    string `json:"subject"`
	Experience string `json:"experience"`
	Message    string `json:"message"`
}

// CommunityService serves the public site: leaderboard, news and the anonymous forms.
type CommunityService interface {
	Leaderboard(ctx context.Context) ([]*user.User, error)
	News(ctx context.Context) ([]*community.News, error)
	Contact(ctx context.Context, in ContactInput) (*community.ContactMessage, error)
	ApplyTeacher(ctx context.Context, in TeacherApplicationInput) (*community.TeacherApplication, error)
}

type communityService struct {
	log             *logger.Logger
	userRepo        repos.UserRepo
	newsRepo        repos.NewsRepo
	contactRepo     repos.ContactMessageRepo
	applicationRepo repos.TeacherApplicationRepo
}

func NewCommunityService(baseLog *logger.Logger, r repos.Set) CommunityService {
	return &communityService{
		log:             baseLog.With("service", "CommunityService"),
		userRepo:        r.Users,
		newsRepo:        r.News,
		contactRepo:     r.ContactMessages,
		applicationRepo: r.TeacherApplications,
	}
}

func (cs *communityService) Leaderboard(ctx context.Context) ([]*user.User, error) {
	out, err := cs.userRepo.Leaderboard(dbctx.Context{Ctx: ctx}, LeaderboardSize)
	if err != nil {
		return nil, internal("Community.Leaderboard", err)
	}
	return out, nil
}

func (cs *communityService) News(ctx context.Context) ([]*community.News, error) {
	out, err := cs.newsRepo.ListPublished(dbctx.Context{Ctx: ctx}, newsPageSize)
	if err != nil {
		return nil, internal("Community.News", err)
	}
	return out, nil
}

func (cs *communityService) Contact(ctx context.Context, in ContactInput) (*community.ContactMessage, error) {
	const op = "Community.Contact"
	in, err := in.normalize(op)
	if err != nil {
		return nil, err
	}
	msg := &community.ContactMessage{Name: in.Name, Phone: in.Phone, Message: in.Message}
	if err := cs.contactRepo.Create(dbctx.Context{Ctx: ctx}, msg); err != nil {
		return nil, internal(op, err)
	}
	cs.log.Info("Contact message received", "message_id", msg.ID)
	return msg, nil
}

func (cs *communityService) ApplyTeacher(ctx context.Context, in TeacherApplicationInput) (*community.TeacherApplication, error) {
	const op = "Community.ApplyTeacher"
	app := &community.TeacherApplication{
		FullName:   strings.TrimSpace(in.FullName),
		Phone:      normalizePhone(in.Phone),
		Subject:    strings.TrimSpace(in.Subject),
		Experience: strings.TrimSpace(in.Experience),
		Message:    strings.TrimSpace(in.Message),
	}
	if app.FullName == "" || app.Phone == "" {
		return nil, validation(op, "full_name and phone are required")
	}
	if err := cs.applicationRepo.Create(dbctx.Context{Ctx: ctx}, app); err != nil {
		return nil, internal(op, err)
	}
	cs.log.Info("Teacher application received", "application_id", app.ID)
	return app, nil
}
