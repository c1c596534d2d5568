package services

import (
	"context"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/coursehub-backend/internal/data/repos"
	domainagg "github.com/yungbote/coursehub-backend/internal/domain/aggregates"
	"github.com/yungbote/coursehub-backend/internal/domain/community"
	"github.com/yungbote/coursehub-backend/internal/domain/learning"
	"github.com/yungbote/coursehub-backend/internal/observability"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
	"github.com/yungbote/coursehub-backend/internal/platform/objectstore"
)

type NewsFields struct {
	Title       *string `json:"title"`
	Content     *string `json:"content"`
	IsPublished *bool   `json:"is_published"`
}

type CategoryInput struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// AdminService is the back office. Callers must carry the admin flag.
type AdminService interface {
	ListJoinRequests(ctx context.Context) ([]*learning.JoinRequest, error)
	DecideJoinRequest(ctx context.Context, id uuid.UUID, approve bool) (learning.JoinRequest, error)
	ListTeacherRequests(ctx context.Context) ([]*community.BecomeTeacherRequest, error)
	DecideTeacherRequest(ctx context.Context, id uuid.UUID, approve bool) (community.BecomeTeacherRequest, error)

	ListContactMessages(ctx context.Context, unreadOnly bool) ([]*community.ContactMessage, error)
	MarkContactMessageRead(ctx context.Context, id uuid.UUID) error
	ListTeacherApplications(ctx context.Context, unprocessedOnly bool) ([]*community.TeacherApplication, error)
	MarkTeacherApplicationProcessed(ctx context.Context, id uuid.UUID) error

	CreateNews(ctx context.Context, in NewsFields, image *Upload) (*community.News, error)
	UpdateNews(ctx context.Context, id uuid.UUID, in NewsFields, image *Upload) (*community.News, error)
	DeleteNews(ctx context.Context, id uuid.UUID) error

	CreateCategory(ctx context.Context, in CategoryInput) (*learning.CourseCategory, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type adminService struct {
	db              *gorm.DB
	log             *logger.Logger
	joinRequestRepo repos.JoinRequestRepo
	teacherReqRepo  repos.BecomeTeacherRequestRepo
	contactRepo     repos.ContactMessageRepo
	applicationRepo repos.TeacherApplicationRepo
	newsRepo        repos.NewsRepo
	categoryRepo    repos.CategoryRepo
	enrollments     domainagg.EnrollmentAggregate
	teacherRequests domainagg.TeacherRequestAggregate
	catalog         CatalogService
	files           uploader
}

func NewAdminService(
	db *gorm.DB,
	baseLog *logger.Logger,
	r repos.Set,
	enrollments domainagg.EnrollmentAggregate,
	teacherRequests domainagg.TeacherRequestAggregate,
	catalog CatalogService,
	store objectstore.Store,
	metrics *observability.Metrics,
) AdminService {
	return &adminService{
		db:              db,
		log:             baseLog.With("service", "AdminService"),
		joinRequestRepo: r.JoinRequests,
		teacherReqRepo:  r.BecomeTeacherRequests,
		contactRepo:     r.ContactMessages,
		applicationRepo: r.TeacherApplications,
		newsRepo:        r.News,
		categoryRepo:    r.Categories,
		enrollments:     enrollments,
		teacherRequests: teacherRequests,
		catalog:         catalog,
		files:           uploader{store: store, metrics: metrics},
	}
}

func requireAdmin(ctx context.Context, op string) error {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return err
	}
	if !actor.IsAdmin {
		return domainagg.Forbidden(op, domainagg.ReasonNotAdmin)
	}
	return nil
}

func (as *adminService) ListJoinRequests(ctx context.Context) ([]*learning.JoinRequest, error) {
	const op = "Admin.ListJoinRequests"
	if err := requireAdmin(ctx, op); err != nil {
		return nil, err
	}
	out, err := as.joinRequestRepo.ListPending(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, internal(op, err)
	}
	return out, nil
}

func (as *adminService) DecideJoinRequest(ctx context.Context, id uuid.UUID, approve bool) (learning.JoinRequest, error) {
	if err := requireAdmin(ctx, "Admin.DecideJoinRequest"); err != nil {
		return learning.JoinRequest{}, err
	}
	jr, err := as.enrollments.DecideJoinRequest(ctx, id, approve)
	if err != nil {
		return learning.JoinRequest{}, err
	}
	as.log.Info("Join request decided", "request_id", id, "status", jr.Status)
	if approve {
		as.catalog.Invalidate(ctx)
	}
	return jr, nil
}

func (as *adminService) ListTeacherRequests(ctx context.Context) ([]*community.BecomeTeacherRequest, error) {
	const op = "Admin.ListTeacherRequests"
	if err := requireAdmin(ctx, op); err != nil {
		return nil, err
	}
	out, err := as.teacherReqRepo.ListPending(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, internal(op, err)
	}
	return out, nil
}

func (as *adminService) DecideTeacherRequest(ctx context.Context, id uuid.UUID, approve bool) (community.BecomeTeacherRequest, error) {
	if err := requireAdmin(ctx, "Admin.DecideTeacherRequest"); err != nil {
		return community.BecomeTeacherRequest{}, err
	}
	req, err := as.teacherRequests.Decide(ctx, id, approve)
	if err != nil {
		return community.BecomeTeacherRequest{}, err
	}
	as.log.Info("Teacher request decided", "request_id", id, "user_id", req.UserID, "approved", req.Approved)
	return req, nil
}

func (as *adminService) ListContactMessages(ctx context.Context, unreadOnly bool) ([]*community.ContactMessage, error) {
	const op = "Admin.ListContactMessages"
	if err := requireAdmin(ctx, op); err != nil {
		return nil, err
	}
	out, err := as.contactRepo.List(dbctx.Context{Ctx: ctx}, unreadOnly)
	if err != nil {
		return nil, internal(op, err)
	}
	return out, nil
}

func (as *adminService) MarkContactMessageRead(ctx context.Context, id uuid.UUID) error {
	const op = "Admin.MarkContactMessageRead"
	if err := requireAdmin(ctx, op); err != nil {
		return err
	}
	ok, err := as.contactRepo.MarkRead(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return internal(op, err)
	}
	if !ok {
		return notFound(op, "contact message")
	}
	return nil
}

func (as *adminService) ListTeacherApplications(ctx context.Context, unprocessedOnly bool) ([]*community.TeacherApplication, error) {
	const op = "Admin.ListTeacherApplications"
	if err := requireAdmin(ctx, op); err != nil {
		return nil, err
	}
	out, err := as.applicationRepo.List(dbctx.Context{Ctx: ctx}, unprocessedOnly)
	if err != nil {
		return nil, internal(op, err)
	}
	return out, nil
}

func (as *adminService) MarkTeacherApplicationProcessed(ctx context.Context, id uuid.UUID) error {
	const op = "Admin.MarkTeacherApplicationProcessed"
	if err := requireAdmin(ctx, op); err != nil {
		return err
	}
	ok, err := as.applicationRepo.MarkProcessed(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return internal(op, err)
	}
	if !ok {
		return notFound(op, "teacher application")
	}
	return nil
}

func (as *adminService) CreateNews(ctx context.Context, in NewsFields, image *Upload) (*community.News, error) {
	const op = "Admin.CreateNews"
	if err := requireAdmin(ctx, op); err != nil {
		return nil, err
	}
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		return nil, validation(op, "title is required")
	}
	n := &community.News{Title: strings.TrimSpace(*in.Title), IsPublished: true}
	if in.Content != nil {
		n.Content = *in.Content
	}
	if in.IsPublished != nil {
		n.IsPublished = *in.IsPublished
	}
	if image != nil {
		if !allowedImage(image.Filename) {
			return nil, validation(op, "unsupported image type")
		}
		obj, err := as.files.put(ctx, op, objectstore.CategoryNews, image.Filename, image.Body)
		if err != nil {
			return nil, err
		}
		n.ImageKey, n.ImageURL = obj.Key, obj.URL
	}
	if err := as.newsRepo.Create(dbctx.Context{Ctx: ctx}, n); err != nil {
		as.files.discard(ctx, as.log, objectstore.CategoryNews, n.ImageKey)
		return nil, internal(op, err)
	}
	return n, nil
}

func (as *adminService) UpdateNews(ctx context.Context, id uuid.UUID, in NewsFields, image *Upload) (*community.News, error) {
	const op = "Admin.UpdateNews"
	if err := requireAdmin(ctx, op); err != nil {
		return nil, err
	}
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return nil, validation(op, "title is required")
	}
	dbc := dbctx.Context{Ctx: ctx}
	existing, err := as.newsRepo.GetByID(dbc, id)
	if err != nil {
		return nil, internal(op, err)
	}
	if existing == nil {
		return nil, notFound(op, "news")
	}

	updates := map[string]interface{}{}
	if in.Title != nil {
		updates["title"] = strings.TrimSpace(*in.Title)
	}
	if in.Content != nil {
		updates["content"] = *in.Content
	}
	if in.IsPublished != nil {
		updates["is_published"] = *in.IsPublished
	}
	var newKey string
	if image != nil {
		if !allowedImage(image.Filename) {
			return nil, validation(op, "unsupported image type")
		}
		obj, err := as.files.put(ctx, op, objectstore.CategoryNews, image.Filename, image.Body)
		if err != nil {
			return nil, err
		}
		newKey = obj.Key
		updates["image_key"] = obj.Key
		updates["image_url"] = obj.URL
	}
	if err := as.newsRepo.UpdateFields(dbc, id, updates); err != nil {
		as.files.discard(ctx, as.log, objectstore.CategoryNews, newKey)
		return nil, internal(op, err)
	}
	if newKey != "" {
		as.files.discard(ctx, as.log, objectstore.CategoryNews, existing.ImageKey)
	}
	out, err := as.newsRepo.GetByID(dbc, id)
	if err != nil {
		return nil, internal(op, err)
	}
	return out, nil
}

func (as *adminService) DeleteNews(ctx context.Context, id uuid.UUID) error {
	const op = "Admin.DeleteNews"
	if err := requireAdmin(ctx, op); err != nil {
		return err
	}
	ok, err := as.newsRepo.SoftDelete(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return internal(op, err)
	}
	if !ok {
		return notFound(op, "news")
	}
	return nil
}

func (as *adminService) CreateCategory(ctx context.Context, in CategoryInput) (*learning.CourseCategory, error) {
	const op = "Admin.CreateCategory"
	if err := requireAdmin(ctx, op); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, validation(op, "name is required")
	}
	slug := slugify(in.Slug)
	if slug == "" {
		slug = slugify(name)
	}
	if slug == "" {
		return nil, validation(op, "slug is required")
	}
	c := &learning.CourseCategory{Name: name, Slug: slug}
	if err := as.categoryRepo.Create(dbctx.Context{Ctx: ctx}, c); err != nil {
		return nil, internal(op, err)
	}
	as.catalog.Invalidate(ctx)
	return c, nil
}

func (as *adminService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	const op = "Admin.DeleteCategory"
	if err := requireAdmin(ctx, op); err != nil {
		return err
	}
	ok, err := as.categoryRepo.Delete(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return internal(op, err)
	}
	if !ok {
		return notFound(op, "category")
	}
	as.catalog.Invalidate(ctx)
	return nil
}

// slugify keeps letters and digits, lowercased, and joins the runs with "-".
func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
