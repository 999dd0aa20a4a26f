package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/storefront/internal/middleware" // JWT + role middlewares
	"github.com/iliyamo/storefront/internal/model"
)

// registerAdmin mounts the catalog writes. All routes require a valid JWT
// and the ADMIN role.
func registerAdmin(e *echo.Echo, d Deps) {
	g := e.Group(
		"/api/products",
		middleware.JWTAuth(d.JWTSecret),
		d.limiter(),
		middleware.RequireRole(model.RoleAdmin),
	)
	g.POST("", d.Products.Create)
	g.PUT("/:id", d.Products.Update)
	g.DELETE("/:id", d.Products.Delete)
}
