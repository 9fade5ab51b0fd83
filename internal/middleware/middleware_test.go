package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-rental/internal/config"
	"github.com/iliyamo/movie-rental/internal/utils"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func serve(e *echo.Echo, method, path string, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuth(t *testing.T) {
	id := uuid.New()
	e := echo.New()
	e.GET("/me", func(c echo.Context) error {
		got, ok := CustomerID(c)
		require.True(t, ok)
		return c.String(http.StatusOK, got.String()+" "+Role(c))
	}, JWTAuth("secret"))

	rec := serve(e, http.MethodGet, "/me", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(e, http.MethodGet, "/me", map[string]string{"Authorization": "Bearer nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	at, err := utils.NewAccessToken("secret", id, "CUSTOMER", 5)
	require.NoError(t, err)
	rec = serve(e, http.MethodGet, "/me", map[string]string{"Authorization": "Bearer " + at.Token})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id.String()+" CUSTOMER", rec.Body.String())
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	withRole := func(role string) echo.MiddlewareFunc {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				SetPrincipal(c, uuid.New(), role)
				return next(c)
			}
		}
	}
	ok := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }
	e.GET("/emp", ok, withRole("EMPLOYEE"), RequireRole("EMPLOYEE", "ADMIN"))
	e.GET("/cust", ok, withRole("CUSTOMER"), RequireRole("EMPLOYEE", "ADMIN"))
	e.GET("/anon", ok, RequireRole("EMPLOYEE"))

	assert.Equal(t, http.StatusNoContent, serve(e, http.MethodGet, "/emp", nil).Code)
	rec := serve(e, http.MethodGet, "/cust", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "access_denied")
	assert.Equal(t, http.StatusUnauthorized, serve(e, http.MethodGet, "/anon", nil).Code)
}

func TestRedisCache_MissThenHit(t *testing.T) {
	_, rdb := newRedis(t)
	cfg := config.CacheConfig{Enabled: true, Methods: map[string]bool{"GET": true}, TTL: time.Minute, Prefix: "cache"}

	calls := 0
	e := echo.New()
	e.GET("/v1/genres/:id", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, echo.Map{"id": c.Param("id")})
	}, NewRedisCache(cfg, rdb))

	first := serve(e, http.MethodGet, "/v1/genres/a", nil)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	second := serve(e, http.MethodGet, "/v1/genres/a", nil)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, echo.MIMEApplicationJSON, second.Header().Get(echo.HeaderContentType))

	other := serve(e, http.MethodGet, "/v1/genres/b", nil)
	assert.Equal(t, "MISS", other.Header().Get("X-Cache"), "distinct paths under one route")
	assert.Equal(t, 2, calls)
}

func TestCacheKeyFrom_VaryQuery(t *testing.T) {
	e := echo.New()
	ctxFor := func(target string) echo.Context {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder())
		c.SetPath("/v1/movies")
		return c
	}
	cfg := config.CacheConfig{Prefix: "catalog", VaryQuery: true}
	assert.NotEqual(t, cacheKeyFrom(cfg, ctxFor("/v1/movies?page=1")), cacheKeyFrom(cfg, ctxFor("/v1/movies?page=2")))

	cfg.VaryQuery = false
	assert.Equal(t, cacheKeyFrom(cfg, ctxFor("/v1/movies?page=1")), cacheKeyFrom(cfg, ctxFor("/v1/movies?page=2")))
	assert.True(t, strings.HasPrefix(cacheKeyFrom(cfg, ctxFor("/v1/movies")), "catalog:"))
}

func TestRedisCache_DoesNotReplayRequestHeaders(t *testing.T) {
	_, rdb := newRedis(t)
	cfg := config.CacheConfig{Enabled: true, Methods: map[string]bool{"GET": true}, TTL: time.Minute, Prefix: "cache"}
	e := echo.New()
	e.Use(echomw.RequestID())
	e.GET("/v1/genres", func(c echo.Context) error {
		c.Response().Header().Set("X-RateLimit-Remaining", "7")
		return c.JSON(http.StatusOK, []string{"Horror"})
	}, NewRedisCache(cfg, rdb))

	first := serve(e, http.MethodGet, "/v1/genres", nil)
	second := serve(e, http.MethodGet, "/v1/genres", nil)
	require.Equal(t, "HIT", second.Header().Get("X-Cache"))

	ids := second.Header().Values(echo.HeaderXRequestID)
	require.Len(t, ids, 1)
	assert.NotEqual(t, first.Header().Get(echo.HeaderXRequestID), ids[0])
	assert.Empty(t, second.Header().Values("X-RateLimit-Remaining"))
	assert.Equal(t, []string{echo.MIMEApplicationJSON}, second.Header().Values(echo.HeaderContentType))
}

func TestRedisCache_SkipsErrors(t *testing.T) {
	_, rdb := newRedis(t)
	cfg := config.CacheConfig{Enabled: true, Methods: map[string]bool{"GET": true}, TTL: time.Minute, Prefix: "cache"}
	e := echo.New()
	e.GET("/x", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no_items"})
	}, NewRedisCache(cfg, rdb))

	serve(e, http.MethodGet, "/x", nil)
	rec := serve(e, http.MethodGet, "/x", nil)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
}

func TestInvalidateCache(t *testing.T) {
	mr, rdb := newRedis(t)
	cfg := config.CacheConfig{Enabled: true, Methods: map[string]bool{"GET": true}, TTL: time.Minute, Prefix: "cache"}
	require.NoError(t, mr.Set("cache:abc", "x"))
	require.NoError(t, mr.Set("other:abc", "y"))

	e := echo.New()
	e.POST("/v1/genres", func(c echo.Context) error { return c.NoContent(http.StatusCreated) }, InvalidateCache(cfg, rdb))
	serve(e, http.MethodPost, "/v1/genres", nil)

	assert.False(t, mr.Exists("cache:abc"))
	assert.True(t, mr.Exists("other:abc"))
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"a":1}`))
	require.NoError(t, err)
	status, gotHdr, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, hdr, gotHdr)
	assert.True(t, bytes.Equal([]byte(`{"a":1}`), body))

	_, _, _, ok = decodePayload([]byte{0, 1})
	assert.False(t, ok)
}

func TestTokenBucket(t *testing.T) {
	_, rdb := newRedis(t)
	cfg := config.RateLimitConfig{
		Enabled: true, Capacity: 2, RefillTokens: 1, RefillInterval: time.Hour,
		TTL: 5 * time.Hour, KeyStrategy: "ip", Prefix: "rl",
	}
	e := echo.New()
	e.GET("/x", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }, NewTokenBucket(cfg, rdb, "", nil))

	assert.Equal(t, http.StatusNoContent, serve(e, http.MethodGet, "/x", nil).Code)
	rec := serve(e, http.MethodGet, "/x", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	rec = serve(e, http.MethodGet, "/x", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestTokenBucket_DisabledWithoutRedis(t *testing.T) {
	e := echo.New()
	e.GET("/x", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) },
		NewTokenBucket(config.RateLimitConfig{Enabled: true, Capacity: 1}, nil, "", nil))
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusNoContent, serve(e, http.MethodGet, "/x", nil).Code)
	}
}

func TestTokenBucket_GlobalMountSeparatesUsers(t *testing.T) {
	_, rdb := newRedis(t)
	cfg := config.RateLimitConfig{
		Enabled: true, Capacity: 1, RefillTokens: 1, RefillInterval: time.Hour,
		TTL: 5 * time.Hour, KeyStrategy: "user", Prefix: "rl", Debug: true,
	}
	e := echo.New()
	e.Use(NewTokenBucket(cfg, rdb, "secret", nil))
	e.GET("/v1/rentals/mine", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }, JWTAuth("secret"))

	tokenFor := func(id uuid.UUID) map[string]string {
		at, err := utils.NewAccessToken("secret", id, "CUSTOMER", 5)
		require.NoError(t, err)
		return map[string]string{"Authorization": "Bearer " + at.Token}
	}
	alice, bob := uuid.New(), uuid.New()

	rec := serve(e, http.MethodGet, "/v1/rentals/mine", tokenFor(alice))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "rl:user:"+alice.String(), rec.Header().Get("X-RateLimit-Key"))

	rec = serve(e, http.MethodGet, "/v1/rentals/mine", tokenFor(bob))
	assert.Equal(t, http.StatusNoContent, rec.Code, "bob has his own bucket")
	assert.Equal(t, "rl:user:"+bob.String(), rec.Header().Get("X-RateLimit-Key"))

	rec = serve(e, http.MethodGet, "/v1/rentals/mine", tokenFor(alice))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec = serve(e, http.MethodGet, "/v1/rentals/mine", map[string]string{"Authorization": "Bearer forged"})
	assert.Equal(t, "rl:user:anon", rec.Header().Get("X-RateLimit-Key"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/rentals/mine", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/rentals/mine")
	id := uuid.New()

	key := buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_user_route"}, c, id.String())
	assert.Equal(t, "rl:ip:10.0.0.1:user:"+id.String()+":route:GET /v1/rentals/mine", key)

	key = buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user_route"}, c, id.String())
	assert.Equal(t, "rl:user:"+id.String()+":route:GET /v1/rentals/mine", key)

	key = buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "bogus"}, c, id.String())
	assert.Equal(t, "rl:ip:10.0.0.1:user:"+id.String()+":route:GET /v1/rentals/mine", key)
}

func TestRequestLogger(t *testing.T) {
	log, hook := test.NewNullLogger()
	e := echo.New()
	e.Use(RequestLogger(log))
	e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/boom", func(c echo.Context) error { return echo.NewHTTPError(http.StatusInternalServerError, "boom") })

	serve(e, http.MethodGet, "/ok", nil)
	require.Len(t, hook.Entries, 1)
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
	assert.Equal(t, "/ok", hook.LastEntry().Data["route"])

	rec := serve(e, http.MethodGet, "/boom", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Equal(t, http.StatusInternalServerError, hook.LastEntry().Data["status"])
}
