package handler

import (
	"context"  // provides context with cancellation for repository calls
	"errors"   // sentinel matching
	"net/http" // HTTP status codes and primitives
	"strings"  // string manipulation utilities

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing
	"go.uber.org/zap"

	"github.com/iliyamo/storefront/internal/config"     // app configuration
	"github.com/iliyamo/storefront/internal/model"      // roles
	"github.com/iliyamo/storefront/internal/repository" // user persistence
	"github.com/iliyamo/storefront/internal/utils"      // hashing and token issuing
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users repository.UserStore
	Log   *zap.Logger
}

func NewAuthHandler(cfg config.Config, users repository.UserStore, log *zap.Logger) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Log: nopIfNil(log)}
}

// ----- DTOs -----

type signupReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type tokenResp struct {
	Token string `json:"token"`
}

// Signup creates a CUSTOMER account and returns a token for it
// immediately. Admin accounts are only created by the server bootstrap.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}
	if !strings.Contains(req.Email, "@") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	u, err := h.Users.Create(ctx, req.Email, strings.TrimSpace(req.Name), req.Password, model.RoleCustomer, h.Cfg.BcryptCost)
	switch {
	case errors.Is(err, repository.ErrEmailExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
	case errors.Is(err, utils.ErrPasswordTooShort):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 6 characters"})
	case err != nil:
		h.Log.Error("create user failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	return h.issue(c, http.StatusCreated, u)
}

// Login verifies credentials and returns a fresh token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if err != nil {
		h.Log.Error("load user failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if !u.IsActive {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "account disabled"})
	}
	return h.issue(c, http.StatusOK, u)
}

func (h *AuthHandler) issue(c echo.Context, status int, u model.Account) error {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.Email, u.Role, h.Cfg.AccessTTL)
	if err != nil {
		h.Log.Error("issue token failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	h.Log.Info("token issued", zap.String("email", u.Email), zap.String("role", string(u.Role)))
	return c.JSON(status, tokenResp{Token: access.Token})
}
