package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/movie-rental/internal/config"
	"github.com/iliyamo/movie-rental/internal/utils"
)

// bucketScript refills KEYS[1] by whole intervals and takes one token.
// ARGV: now_ms, capacity, refill_tokens, interval_ms, ttl_s.
// Returns {allowed, remaining, wait_ms}.
var bucketScript = redis.NewScript(`
local now, cap, rate, every = tonumber(ARGV[1]), tonumber(ARGV[2]), tonumber(ARGV[3]), tonumber(ARGV[4])
local b = redis.call('HMGET', KEYS[1], 'tokens', 'ts')
local tokens = tonumber(b[1]) or cap
local ts = tonumber(b[2]) or now
if every > 0 then
	local steps = math.floor(math.max(0, now - ts) / every)
	if steps > 0 then
		tokens = math.min(cap, tokens + steps * rate)
		ts = ts + steps * every
	end
end
local ok, wait = 0, 0
if tokens >= 1 then
	ok = 1
	tokens = tokens - 1
else
	wait = math.max(0, every - (now - ts))
end
redis.call('HSET', KEYS[1], 'tokens', tokens, 'ts', ts)
redis.call('EXPIRE', KEYS[1], ARGV[5])
return {ok, tokens, wait}
`)

// decision is one bucket evaluation.
type decision struct {
	allowed   bool
	remaining int64
	wait      time.Duration
}

// TokenBucket is a Redis backed per key rate limiter.
type TokenBucket struct {
	cfg    config.RateLimitConfig
	rdb    redis.Scripter
	secret string
	log    logrus.FieldLogger
	now    func() time.Time
}

// NewTokenBucket limits requests per key (see buildRateKey). It is
// mounted globally, ahead of the route level JWTAuth, so it identifies
// the caller from the bearer token itself using jwtSecret. A disabled
// config or a nil client yields a passthrough. Redis failures let the
// request through and are logged at debug level.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client, jwtSecret string, log logrus.FieldLogger) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passthrough
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	tb := &TokenBucket{cfg: cfg, rdb: rdb, secret: jwtSecret, log: log, now: time.Now}
	return tb.middleware
}

// caller is the principal set by JWTAuth, else the subject of a valid
// bearer token, else "anon". Invalid tokens are left for JWTAuth to reject.
func (tb *TokenBucket) caller(c echo.Context) string {
	if id, ok := CustomerID(c); ok {
		return id.String()
	}
	if raw, ok := bearer(c); ok && tb.secret != "" {
		if claims, err := utils.ParseAccessToken(tb.secret, raw); err == nil {
			return claims.Subject
		}
	}
	return "anon"
}

func (tb *TokenBucket) take(ctx context.Context, key string) (decision, error) {
	vals, err := bucketScript.Run(ctx, tb.rdb, []string{key},
		tb.now().UnixMilli(),
		tb.cfg.Capacity,
		tb.cfg.RefillTokens,
		tb.cfg.RefillInterval.Milliseconds(),
		int64(tb.cfg.TTL/time.Second),
	).Result()
	if err != nil {
		return decision{}, err
	}
	arr, ok := vals.([]any)
	if !ok || len(arr) != 3 {
		return decision{}, fmt.Errorf("unexpected bucket reply %#v", vals)
	}
	return decision{
		allowed:   asInt64(arr[0]) == 1,
		remaining: asInt64(arr[1]),
		wait:      time.Duration(asInt64(arr[2])) * time.Millisecond,
	}, nil
}

func (tb *TokenBucket) middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		key := buildRateKey(tb.cfg, c, tb.caller(c))
		d, err := tb.take(c.Request().Context(), key)
		if err != nil {
			tb.log.WithError(err).WithField("key", key).Debug("rate limiter unavailable")
			return next(c)
		}

		h := c.Response().Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(tb.cfg.Capacity))
		h.Set("X-RateLimit-Remaining", strconv.FormatInt(d.remaining, 10))
		if tb.cfg.Debug {
			h.Set("X-RateLimit-Key", key)
		}
		if d.allowed {
			return next(c)
		}

		secs := int((d.wait + time.Second - 1) / time.Second)
		h.Set("Retry-After", strconv.Itoa(secs))
		return c.JSON(http.StatusTooManyRequests, echo.Map{
			"error":       "too_many_requests",
			"message":     "rate limit exceeded",
			"retry_after": secs,
		})
	}
}

func asInt64(v any) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		n, _ := strconv.ParseInt(t, 10, 64)
		return n
	}
	return 0
}

// buildRateKey joins the components named by the key strategy, an
// underscore separated list of ip, user and route. Unknown or empty
// strategies use all three.
func buildRateKey(cfg config.RateLimitConfig, c echo.Context, user string) string {
	parts := []string{cfg.Prefix}
	for _, comp := range strings.Split(strings.ToLower(cfg.KeyStrategy), "_") {
		switch comp {
		case "ip":
			ip := c.RealIP()
			if ip == "" {
				ip = "unknown"
			}
			parts = append(parts, "ip", ip)
		case "user":
			parts = append(parts, "user", user)
		case "route":
			parts = append(parts, "route", c.Request().Method+" "+c.Path())
		}
	}
	if len(parts) == 1 {
		return buildRateKey(config.RateLimitConfig{Prefix: cfg.Prefix, KeyStrategy: "ip_user_route"}, c, user)
	}
	return strings.Join(parts, ":")
}
