package middleware

// identity.go defines the context keys JWTAuth fills and the helpers
// handlers and other middleware use to read them back.

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/storefront/internal/model"
)

const (
	ctxEmail = "email"
	ctxRole  = "role"
)

// CurrentEmail returns the authenticated subject, or "" for anonymous
// requests.
func CurrentEmail(c echo.Context) string {
	if s, ok := c.Get(ctxEmail).(string); ok {
		return s
	}
	return ""
}

// CurrentRole returns the authenticated role, or "" for anonymous requests.
func CurrentRole(c echo.Context) model.Role {
	if s, ok := c.Get(ctxRole).(string); ok {
		return model.Role(s)
	}
	return ""
}

// userID is the rate-limit identity: the subject email, or "anon".
func userID(c echo.Context) string {
	if s := CurrentEmail(c); s != "" {
		return s
	}
	return "anon"
}
