package core

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/grouplet/grouplet/config"
	"github.com/grouplet/grouplet/db"
	"github.com/grouplet/grouplet/db/mock"
	router "github.com/grouplet/grouplet/router/httprouter"
)

// testCache is a plain map cache. Unlike ristretto it is synchronous, so a
// Set is visible to the next Get, which the tests rely on.
type testCache struct {
	mu sync.Mutex
	m  map[string]any
}

func newTestCache() *testCache {
	return &testCache{m: make(map[string]any)}
}

func (c *testCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.m[key]
	return v, ok
}

func (c *testCache) Set(key string, value any, cost int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = value
	return true
}

func (c *testCache) SetWithTTL(key string, value any, cost int64, ttl time.Duration) bool {
	return c.Set(key, value, cost)
}

func (c *testCache) Del(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, key)
}

// newTestApp builds an App around the given mock database with a default
// config and a real router, so path parameters resolve in handlers.
func newTestApp(mockDb *mock.Db) *App {
	app, err := NewApp(
		WithDbApp(mockDb),
		WithRouter(router.New()),
		WithCache(newTestCache()),
		WithConfigProvider(config.NewProvider(config.NewDefaultConfig())),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	if err != nil {
		panic(err)
	}
	return app
}

// withUser injects an authenticated user the way RequireAuth does, without
// needing a real token.
func withUser(user *db.User, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
