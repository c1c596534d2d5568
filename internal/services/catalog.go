package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/yungbote/coursehub-backend/internal/data/repos"
	"github.com/yungbote/coursehub-backend/internal/domain/learning"
	"github.com/yungbote/coursehub-backend/internal/observability"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

const (
	CatalogPageSize  = 9
	catalogNamespace = "catalog"
)

// JSONCache is the read-through cache used for catalog pages.
type JSONCache interface {
	Get(ctx context.Context, namespace, key string, dst any) (bool, error)
	Set(ctx context.Context, namespace, key string, v any) error
	Invalidate(ctx context.Context, namespace string) error
}

type CatalogQuery struct {
	Q        string
	Category string
	Grade    string
	Page     int
}

// cacheKey is stable for equal queries.
func (q CatalogQuery) cacheKey() string {
	v := url.Values{}
	v.Set("q", strings.ToLower(strings.TrimSpace(q.Q)))
	v.Set("category", strings.TrimSpace(q.Category))
	v.Set("grade", strings.TrimSpace(q.Grade))
	v.Set("page", strconv.Itoa(q.Page))
	return v.Encode()
}

type CatalogItem struct {
	*learning.Course
	StudentCount int64 `json:"student_count"`
	LessonCount  int64 `json:"lesson_count"`
}

type CatalogPage struct {
	Items      []CatalogItem `json:"items"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	Total      int64         `json:"total"`
	TotalPages int           `json:"total_pages"`
}

type CatalogService interface {
	ListCourses(ctx context.Context, q CatalogQuery) (CatalogPage, error)
	ListCategories(ctx context.Context) ([]*learning.CourseCategory, error)
	// Invalidate drops every cached catalog page.
	Invalidate(ctx context.Context)
}

type catalogService struct {
	db             *gorm.DB
	log            *logger.Logger
	courseRepo     repos.CourseRepo
	categoryRepo   repos.CategoryRepo
	lessonRepo     repos.LessonRepo
	enrollmentRepo repos.EnrollmentRepo
	cache          JSONCache
	metrics        *observability.Metrics
	group          singleflight.Group
}

func NewCatalogService(
	db *gorm.DB,
	baseLog *logger.Logger,
	courseRepo repos.CourseRepo,
	categoryRepo repos.CategoryRepo,
	lessonRepo repos.LessonRepo,
	enrollmentRepo repos.EnrollmentRepo,
	cache JSONCache,
	metrics *observability.Metrics,
) CatalogService {
	return &catalogService{
		db:             db,
		log:            baseLog.With("service", "CatalogService"),
		courseRepo:     courseRepo,
		categoryRepo:   categoryRepo,
		lessonRepo:     lessonRepo,
		enrollmentRepo: enrollmentRepo,
		cache:          cache,
		metrics:        metrics,
	}
}

func (cs *catalogService) ListCourses(ctx context.Context, q CatalogQuery) (CatalogPage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	key := q.cacheKey()

	if cs.cache != nil {
		var cached CatalogPage
		hit, err := cs.cache.Get(ctx, catalogNamespace, key, &cached)
		switch {
		case err != nil:
			cs.metrics.IncCache(catalogNamespace, "error")
			cs.log.Warn("Catalog cache read failed", "error", err)
		case hit:
			cs.metrics.IncCache(catalogNamespace, "hit")
			return cached, nil
		default:
			cs.metrics.IncCache(catalogNamespace, "miss")
		}
	}

	v, err, _ := cs.group.Do(key, func() (any, error) {
		page, err := cs.load(ctx, q)
		if err != nil {
			return CatalogPage{}, err
		}
		if cs.cache != nil {
			if err := cs.cache.Set(ctx, catalogNamespace, key, page); err != nil {
				cs.log.Warn("Catalog cache write failed", "error", err)
			}
		}
		return page, nil
	})
	if err != nil {
		return CatalogPage{}, internal("Catalog.List", err)
	}
	return v.(CatalogPage), nil
}

func (cs *catalogService) load(ctx context.Context, q CatalogQuery) (CatalogPage, error) {
	dbc := dbctx.Context{Ctx: ctx}
	courses, total, err := cs.courseRepo.ListCatalog(dbc, repos.CatalogFilter{
		Query:        q.Q,
		CategorySlug: q.Category,
		Grade:        q.Grade,
		Offset:       (q.Page - 1) * CatalogPageSize,
		Limit:        CatalogPageSize,
	})
	if err != nil {
		return CatalogPage{}, fmt.Errorf("list catalog: %w", err)
	}
	ids := make([]uuid.UUID, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.ID)
	}
	students, err := cs.enrollmentRepo.CountByCourseIDs(dbc, ids)
	if err != nil {
		return CatalogPage{}, fmt.Errorf("count students: %w", err)
	}
	lessons, err := cs.lessonRepo.CountByCourseIDs(dbc, ids)
	if err != nil {
		return CatalogPage{}, fmt.Errorf("count lessons: %w", err)
	}

	page := CatalogPage{
		Items:      make([]CatalogItem, 0, len(courses)),
		Page:       q.Page,
		PageSize:   CatalogPageSize,
		Total:      total,
		TotalPages: int((total + CatalogPageSize - 1) / CatalogPageSize),
	}
	for _, c := range courses {
		page.Items = append(page.Items, CatalogItem{
			Course:       c,
			StudentCount: students[c.ID],
			LessonCount:  lessons[c.ID],
		})
	}
	return page, nil
}

func (cs *catalogService) ListCategories(ctx context.Context) ([]*learning.CourseCategory, error) {
	out, err := cs.categoryRepo.List(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, internal("Catalog.Categories", err)
	}
	return out, nil
}

func (cs *catalogService) Invalidate(ctx context.Context) {
	if cs.cache == nil {
		return
	}
	if err := cs.cache.Invalidate(ctx, catalogNamespace); err != nil {
		cs.log.Warn("Catalog cache invalidation failed", "error", err)
	}
}
