package handler // declare the package name; contains HTTP handlers

import (
	"context"
	"database/sql"
	"net/http" // net/http provides status codes and response helpers
	"time"

	"github.com/labstack/echo/v4" // echo is the web framework used for this project
	"github.com/redis/go-redis/v9"
)

// HealthHandler reports liveness plus the state of the backing services.
// DB and Redis are optional; a nil dependency is reported as "disabled".
type HealthHandler struct {
	Storage string
	DB      *sql.DB
	Redis   *redis.Client
}

// Health answers 200 while every configured dependency responds and 503
// otherwise. Load balancers only look at the status code.
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	check := func(configured bool, ping func() error) string {
		if !configured {
			return "disabled"
		}
		if err := ping(); err != nil {
			status = http.StatusServiceUnavailable
			return "down"
		}
		return "up"
	}
	body := echo.Map{
		"storage": h.Storage,
		"mysql":   check(h.DB != nil, func() error { return h.DB.PingContext(ctx) }),
		"redis":   check(h.Redis != nil, func() error { return h.Redis.Ping(ctx).Err() }),
	}
	body["status"] = "ok"
	if status != http.StatusOK {
		body["status"] = "degraded"
	}
	return c.JSON(status, body)
}
