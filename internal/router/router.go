package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"                   // import the Echo web framework to handle routing
	echomw "github.com/labstack/echo/v4/middleware" // echo's stock recover/CORS/request logger
	"go.uber.org/zap"

	"github.com/iliyamo/storefront/internal/handler"    // HTTP handlers
	"github.com/iliyamo/storefront/internal/middleware" // JWT, role, rate limit and cache middleware
)

// Deps carries everything the routes need. Cache and RateLimit may be
// nil, in which case responses are not cached and requests not limited.
type Deps struct {
	JWTSecret string
	Auth      *handler.AuthHandler
	Products  *handler.ProductHandler
	Cart      *handler.CartHandler
	Health    *handler.HealthHandler
	Cache     *middleware.ResponseCache
	RateLimit echo.MiddlewareFunc
	Log       *zap.Logger
}

func (d Deps) limiter() echo.MiddlewareFunc {
	if d.RateLimit == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return d.RateLimit
}

// RegisterRoutes installs the shared middleware and every API route on e.
func RegisterRoutes(e *echo.Echo, d Deps) {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(requestLogger(log))

	// Liveness stays outside the rate limiter so probes are never throttled.
	e.GET("/healthz", d.Health.Health)

	registerAuth(e, d)
	registerCatalog(e, d)
	registerAdmin(e, d)
	registerCart(e, d)
}

// requestLogger sends one structured line per request to zap.
func requestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogURI:      true,
		LogMethod:   true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,

		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("remote_ip", v.RemoteIP),
			}
			if email := middleware.CurrentEmail(c); email != "" {
				fields = append(fields, zap.String("user", email))
			}
			if v.Error != nil {
				log.Warn("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			log.Info("request", fields...)
			return nil
		},
	})
}

// registerAuth mounts the unauthenticated token endpoints.
func registerAuth(e *echo.Echo, d Deps) {
	g := e.Group("/api/auth", d.limiter())
	g.POST("/login", d.Auth.Login)
	g.POST("/signup", d.Auth.Signup)
}

// registerCatalog mounts the public product reads behind the response cache.
func registerCatalog(e *echo.Echo, d Deps) {
	cache := d.Cache.Middleware()
	e.GET("/api/products", d.Products.List, d.limiter(), cache)
	e.GET("/api/products/:id", d.Products.Get, d.limiter(), cache)
}
