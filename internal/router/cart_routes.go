package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/storefront/internal/middleware"
	"github.com/iliyamo/storefront/internal/model"
)

// registerCart mounts the server-side cart endpoints. Every route needs a
// valid JWT; ownership of the cart is checked inside the handler.
func registerCart(e *echo.Echo, d Deps) {
	g := e.Group(
		"/api/cart",
		middleware.JWTAuth(d.JWTSecret),
		d.limiter(),
		middleware.RequireRole(model.RoleCustomer, model.RoleAdmin),
	)
	g.POST("/add", d.Cart.Add)
	g.GET("/:customerId", d.Cart.Get)
	g.DELETE("/:itemId", d.Cart.Remove)
}
