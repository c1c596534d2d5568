package services

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/coursehub-backend/internal/data/aggregates"
	"github.com/yungbote/coursehub-backend/internal/data/repos"
	repotest "github.com/yungbote/coursehub-backend/internal/data/repos/testutil"
	"github.com/yungbote/coursehub-backend/internal/domain/user"
	"github.com/yungbote/coursehub-backend/internal/platform/ctxutil"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

type serviceFixture struct {
	ctx   context.Context
	db    *gorm.DB
	log   *logger.Logger
	repos repos.Set
	aggs  aggregates.Set
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	db := repotest.DB(t)
	log := repotest.Logger(t)
	r := repos.NewSet(db, log)
	return &serviceFixture{
		ctx:   context.Background(),
		db:    db,
		log:   log,
		repos: r,
		aggs:  aggregates.NewSet(aggregates.BaseDeps{DB: db, Log: log}, r),
	}
}

// as returns a context authenticated as u.
func (f *serviceFixture) as(u *user.User) context.Context {
	return ctxutil.WithRequestData(f.ctx, &ctxutil.RequestData{
		UserID:  u.ID,
		Role:    string(u.Role),
		IsAdmin: u.IsAdmin,
	})
}

func dbcOf(f *serviceFixture) dbctx.Context {
	return dbctx.Context{Ctx: f.ctx}
}

func (f *serviceFixture) seedUser(t *testing.T, username string, role user.Role) *user.User {
	t.Helper()
	return repotest.SeedUser(t, f.ctx, f.db, username, role)
}

func (f *serviceFixture) seedAdmin(t *testing.T, username string) *user.User {
	t.Helper()
	u := f.seedUser(t, username, user.RoleStudent)
	if err := f.db.Model(&user.User{}).Where("id = ?", u.ID).Update("is_admin", true).Error; err != nil {
		t.Fatalf("promote admin: %v", err)
	}
	u.IsAdmin = true
	return u
}

func (f *serviceFixture) catalog(cache JSONCache) CatalogService {
	return NewCatalogService(f.db, f.log, f.repos.Courses, f.repos.Categories, f.repos.Lessons, f.repos.Enrollments, cache, nil)
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	gets    int
	hits    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (c *memoryCache) Get(_ context.Context, ns, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	raw, ok := c.entries[ns+"/"+key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(raw, dst)
}

func (c *memoryCache) Set(_ context.Context, ns, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[ns+"/"+key] = raw
	return nil
}

func (c *memoryCache) Invalidate(_ context.Context, _ string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string][]byte{}
	return nil
}

type memoryRevoker struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func (r *memoryRevoker) Revoke(_ context.Context, id string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.revoked == nil {
		r.revoked = map[string]time.Duration{}
	}
	r.revoked[id] = ttl
	return nil
}

func (r *memoryRevoker) IsRevoked(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.revoked[id]
	return ok, nil
}
