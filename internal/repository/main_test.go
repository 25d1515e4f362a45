package repository

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"socially/internal/backend"
	"socially/internal/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// repoEnv is a fake backend plus a real (miniredis-backed) query cache,
// shared by the repository tests.
type repoEnv struct {
	backend *backend.Client
	cache   *cache.Cache
	hits    *atomic.Int64
	lastURL *atomic.Value
}

func newRepoEnv(t *testing.T, handler http.HandlerFunc) *repoEnv {
	t.Helper()

	hits := &atomic.Int64{}
	lastURL := &atomic.Value{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		lastURL.Store(r.URL.String())
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return &repoEnv{
		backend: backend.New(srv.URL, "anon-key"),
		cache:   cache.New(rdb, testLogger()),
		hits:    hits,
		lastURL: lastURL,
	}
}

func (e *repoEnv) url() string {
	if v := e.lastURL.Load(); v != nil {
		return v.(string)
	}
	return ""
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
