package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/storefront/internal/model"
	"github.com/iliyamo/storefront/internal/repository"
)

func TestValidateProduct(t *testing.T) {
	tests := []struct {
		name string
		in   model.ProductInput
		want string
	}{
		{"ok", model.ProductInput{Name: " Lamp ", Price: decimal.NewFromInt(1)}, ""},
		{"free is fine", model.ProductInput{Name: "Sticker"}, ""},
		{"blank name", model.ProductInput{Name: "  ", Price: decimal.NewFromInt(1)}, "name required"},
		{"negative price", model.ProductInput{Name: "Lamp", Price: decimal.NewFromInt(-1)}, "price must not be negative"},
		{"negative stock", model.ProductInput{Name: "Lamp", Stock: -2}, "stock must not be negative"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := tc.in
			assert.Equal(t, tc.want, validateProduct(&in))
		})
	}

	in := model.ProductInput{Name: " Lamp ", Category: " Home & Living "}
	validateProduct(&in)
	assert.Equal(t, "Lamp", in.Name)
	assert.Equal(t, "Home & Living", in.Category)
}

type failingProducts struct{ repository.ProductStore }

func (failingProducts) List(context.Context) ([]model.Product, error) {
	return nil, errors.New("db down")
}

type countingPurger struct{ n int }

func (p *countingPurger) Purge(context.Context) error { p.n++; return nil }

func TestProductListFailureIs500(t *testing.T) {
	h := NewProductHandler(failingProducts{}, nil, nil, nil)
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/products", nil), rec)
	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"query failed"}`, rec.Body.String())
}

func TestProductCreatePurgesCache(t *testing.T) {
	purger := &countingPurger{}
	h := NewProductHandler(repository.NewMemoryProducts(nil), purger, nil, nil)
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(`{"name":"Lamp","price":10,"stock":1}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Create(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, purger.n)

	req = httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(`{"price":10}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()
	require.NoError(t, h.Create(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 1, purger.n, "rejected writes leave the cache alone")
}
