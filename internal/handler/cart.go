package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/storefront/internal/middleware"
	"github.com/iliyamo/storefront/internal/model"
	"github.com/iliyamo/storefront/internal/queue"
	"github.com/iliyamo/storefront/internal/repository"
)

// CartHandler serves the server-side carts. Every route requires a
// token; customers may only touch their own cart, admins any.
type CartHandler struct {
	Carts    repository.CartStore
	Products repository.ProductStore
	emitter
}

func NewCartHandler(carts repository.CartStore, products repository.ProductStore, events EventPublisher, log *zap.Logger) *CartHandler {
	return &CartHandler{Carts: carts, Products: products, emitter: emitter{events: events, log: nopIfNil(log)}}
}

// Add handles POST /api/cart/add. An empty customerId means the caller.
func (h *CartHandler) Add(c echo.Context) error {
	var req model.AddCartItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.CustomerID = strings.ToLower(strings.TrimSpace(req.CustomerID))
	if req.CustomerID == "" {
		req.CustomerID = middleware.CurrentEmail(c)
	}
	if req.ProductID == "" || req.Quantity < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "productId and a positive quantity required"})
	}
	if !canAccessCart(c, req.CustomerID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	p, err := h.Products.Get(ctx, req.ProductID)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
	}
	if err != nil {
		h.log.Error("load product failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	item, err := h.Carts.Add(ctx, req.CustomerID, p, req.Quantity)
	if errors.Is(err, repository.ErrConflict) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "insufficient stock"})
	}
	if err != nil {
		h.log.Error("cart add failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cart add failed"})
	}

	ev := queue.NewEvent(queue.CartItemAdded, req.CustomerID)
	ev.ProductID, ev.ProductName, ev.ItemID, ev.Quantity = p.ID, p.Name, item.ID, req.Quantity
	h.emit(ev)
	return c.JSON(http.StatusCreated, item)
}

// Get handles GET /api/cart/:customerId.
func (h *CartHandler) Get(c echo.Context) error {
	customerID := strings.ToLower(c.Param("customerId"))
	if !canAccessCart(c, customerID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()
	items, err := h.Carts.List(ctx, customerID)
	if err != nil {
		h.log.Error("cart list failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, items)
}

// Remove handles DELETE /api/cart/:itemId.
func (h *CartHandler) Remove(c echo.Context) error {
	itemID := c.Param("itemId")

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	item, err := h.Carts.Get(ctx, itemID)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "cart item not found"})
	}
	if err != nil {
		h.log.Error("cart item lookup failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := h.remove(ctx, c, item); err != nil {
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "cart item not found"})
		}
		h.log.Error("cart remove failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cart remove failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHandler) remove(ctx context.Context, c echo.Context, item model.CartItem) error {
	if !canAccessCart(c, item.CustomerID) {
		return repository.ErrForbidden
	}
	if err := h.Carts.Remove(ctx, item.ID); err != nil {
		return err
	}
	ev := queue.NewEvent(queue.CartItemRemoved, item.CustomerID)
	ev.ProductID, ev.ItemID = item.ProductID, item.ID
	h.emit(ev)
	return nil
}
