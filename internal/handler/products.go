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

// ProductHandler serves the catalog. Reads are public; writes are
// mounted behind JWTAuth and RequireRole(ADMIN).
type ProductHandler struct {
	Products repository.ProductStore
	Cache    CachePurger
	emitter
}

func NewProductHandler(products repository.ProductStore, cache CachePurger, events EventPublisher, log *zap.Logger) *ProductHandler {
	return &ProductHandler{Products: products, Cache: cache, emitter: emitter{events: events, log: nopIfNil(log)}}
}

// validateProduct normalizes in and returns a message for the first
// problem found.
func validateProduct(in *model.ProductInput) string {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	switch {
	case in.Name == "":
		return "name required"
	case in.Price.IsNegative():
		return "price must not be negative"
	case in.Stock < 0:
		return "stock must not be negative"
	}
	return ""
}

func (h *ProductHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()
	items, err := h.Products.List(ctx)
	if err != nil {
		h.log.Error("list products failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ProductHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()
	p, err := h.Products.Get(ctx, c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
	}
	if err != nil {
		h.log.Error("get product failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) Create(c echo.Context) error {
	var in model.ProductInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := validateProduct(&in); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()
	p, err := h.Products.Create(ctx, in)
	if err != nil {
		h.log.Error("create product failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create product failed"})
	}
	h.changed(ctx, c, queue.ProductCreated, p)
	return c.JSON(http.StatusCreated, p)
}

func (h *ProductHandler) Update(c echo.Context) error {
	var in model.ProductInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := validateProduct(&in); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()
	p, err := h.Products.Update(ctx, c.Param("id"), in)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
	}
	if err != nil {
		h.log.Error("update product failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update product failed"})
	}
	h.changed(ctx, c, queue.ProductUpdated, p)
	return c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()
	id := c.Param("id")
	err := h.Products.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
	}
	if err != nil {
		h.log.Error("delete product failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete product failed"})
	}
	h.changed(ctx, c, queue.ProductDeleted, model.Product{ID: id})
	return c.NoContent(http.StatusNoContent)
}

// changed purges cached catalog reads and announces the write.
func (h *ProductHandler) changed(ctx context.Context, c echo.Context, typ string, p model.Product) {
	if h.Cache != nil {
		if err := h.Cache.Purge(ctx); err != nil {
			h.log.Warn("cache purge failed", zap.Error(err))
		}
	}
	ev := queue.NewEvent(typ, middleware.CurrentEmail(c))
	ev.ProductID = p.ID
	ev.ProductName = p.Name
	ev.Stock = p.Stock
	h.emit(ev)
}
