package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/storefront/internal/config"
)

// limiterScript spends one request from the allowance stored at KEYS[1].
// ARGV: now (ms), burst, requests restored per tick, tick length (ms),
// idle expiry (s). The reply is {admitted, left, wait_ms}.
var limiterScript = redis.NewScript(`
	local allowance = KEYS[1]
	local now = tonumber(ARGV[1])
	local burst = tonumber(ARGV[2])
	local per_tick = tonumber(ARGV[3])
	local tick_ms = tonumber(ARGV[4])
	local idle_s = tonumber(ARGV[5])

	local saved = redis.call('HMGET', allowance, 'left', 'stamp')
	local left, stamp = tonumber(saved[1]), tonumber(saved[2])
	if not left or not stamp then
		left, stamp = burst, now
	end

	-- whole ticks only; the stamp advances by the ticks consumed
	if tick_ms > 0 and per_tick > 0 and now > stamp then
		local ticks = math.floor((now - stamp) / tick_ms)
		left = math.min(burst, left + ticks * per_tick)
		stamp = stamp + ticks * tick_ms
	end

	local admitted, wait_ms = 0, 0
	if left >= 1 then
		admitted, left = 1, left - 1
	else
		wait_ms = math.max(0, stamp + tick_ms - now)
	end

	redis.call('HSET', allowance, 'left', left, 'stamp', stamp)
	redis.call('EXPIRE', allowance, idle_s)
	return { admitted, left, wait_ms }
`)

// NewTokenBucket limits requests per key (see buildRateKey) with a Redis
// token bucket. Without Redis, or when disabled, it passes everything
// through. Redis errors fail open.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client, log *zap.Logger) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passThrough
	}
	if log == nil {
		log = zap.NewNop()
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := buildRateKey(cfg, c)
			args := []interface{}{
				time.Now().UnixMilli(),
				cfg.Capacity,
				cfg.RefillTokens,
				cfg.RefillInterval.Milliseconds(),
				int64(cfg.TTL / time.Second),
			}

			vals, err := limiterScript.Run(c.Request().Context(), rdb, []string{key}, args...).Result()
			if err != nil {
				log.Warn("ratelimit: redis error", zap.String("key", key), zap.Error(err))
				return next(c)
			}
			arr, ok := vals.([]interface{})
			if !ok || len(arr) != 3 {
				log.Warn("ratelimit: unexpected script result", zap.String("key", key), zap.Any("result", vals))
				return next(c)
			}
			allowed := fmt.Sprint(arr[0]) == "1"
			remaining := asInt64(arr[1])
			retryMs := asInt64(arr[2])

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
			if cfg.Debug {
				h.Set("X-RateLimit-Key", key)
			}

			if !allowed {
				secs := int(math.Ceil(float64(retryMs) / 1000.0))
				if secs < 0 {
					secs = 0
				}
				h.Set("Retry-After", strconv.Itoa(secs))
				if cfg.Debug {
					log.Info("ratelimit: blocked", zap.String("key", key), zap.Int64("retry_ms", retryMs))
				}
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error":       "rate limit exceeded",
					"retry_after": secs,
				})
			}
			return next(c)
		}
	}
}

func passThrough(next echo.HandlerFunc) echo.HandlerFunc { return next }

func asInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n
		}
	}
	return 0
}

func buildRateKey(cfg config.RateLimitConfig, c echo.Context) string {
	parts := []string{cfg.Prefix}
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	uid := userID(c)
	route := c.Request().Method + " " + c.Path()

	switch strings.ToLower(cfg.KeyStrategy) {
	case "ip":
		parts = append(parts, "ip", ip)
	case "user":
		parts = append(parts, "user", uid)
	case "route":
		parts = append(parts, "route", route)
	case "ip_user":
		parts = append(parts, "ip", ip, "user", uid)
	case "ip_route":
		parts = append(parts, "ip", ip, "route", route)
	case "user_route":
		parts = append(parts, "user", uid, "route", route)
	default:
		parts = append(parts, "ip", ip, "user", uid, "route", route)
	}
	return strings.Join(parts, ":")
}
