package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/mparsa/cinema-ticket-booking/internal/config"
)

func cacheCtx(target, pattern string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath(pattern)
	return c
}

func testCacheConfig(strategy string) config.CacheConfig {
	return config.CacheConfig{
		Enabled:     true,
		Methods:     map[string]bool{"GET": true},
		KeyStrategy: strategy,
		Prefix:      "cache",
	}
}

func TestCacheKeySeparatesPathParams(t *testing.T) {
	cfg := testCacheConfig("route_query")
	const pattern = "/v1/shows/:id/seats"

	k1 := cacheKeyFrom(cfg, cacheCtx("/v1/shows/1/seats", pattern))
	k2 := cacheKeyFrom(cfg, cacheCtx("/v1/shows/2/seats", pattern))
	assert.NotEqual(t, k1, k2, "different shows must not share a cache entry")

	again := cacheKeyFrom(cfg, cacheCtx("/v1/shows/1/seats", pattern))
	assert.Equal(t, k1, again, "the same request must key identically")
}

func TestCacheKeyIncludesQuery(t *testing.T) {
	cfg := testCacheConfig("route_query")
	const pattern = "/v1/movies/:id/shows"

	plain := cacheKeyFrom(cfg, cacheCtx("/v1/movies/3/shows", pattern))
	dated := cacheKeyFrom(cfg, cacheCtx("/v1/movies/3/shows?date=2026-09-01", pattern))
	assert.NotEqual(t, plain, dated)
}

func TestCacheKeyStrategies(t *testing.T) {
	const pattern = "/v1/shows/:id"
	target := "/v1/shows/7?x=1"

	for _, strategy := range []string{"route", "method_route", "method_route_query", "route_query"} {
		cfg := testCacheConfig(strategy)
		a := cacheKeyFrom(cfg, cacheCtx(target, pattern))
		b := cacheKeyFrom(cfg, cacheCtx("/v1/shows/8?x=1", pattern))
		assert.NotEqual(t, a, b, "strategy %q must key on the resolved path", strategy)
	}
}
