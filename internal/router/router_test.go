package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/storefront/internal/catalog"
	"github.com/iliyamo/storefront/internal/config"
	"github.com/iliyamo/storefront/internal/handler"
	"github.com/iliyamo/storefront/internal/model"
	"github.com/iliyamo/storefront/internal/queue"
	"github.com/iliyamo/storefront/internal/repository"
	"github.com/iliyamo/storefront/internal/token"
)

const secret = "router-secret"

type recordedEvents struct {
	mu  sync.Mutex
	evs []queue.Event
}

func (r *recordedEvents) Publish(_ context.Context, ev queue.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evs = append(r.evs, ev)
	return nil
}

func (r *recordedEvents) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.evs))
	for i, ev := range r.evs {
		out[i] = ev.Type
	}
	sort.Strings(out)
	return out
}

type api struct {
	e      *echo.Echo
	events *recordedEvents
}

func newAPI(t *testing.T) *api {
	t.Helper()
	cfg := config.Config{JWTSecret: secret, AccessTTL: time.Hour, BcryptCost: bcrypt.MinCost}
	users := repository.NewMemoryUsers()
	_, err := users.Create(context.Background(), "admin@example.com", "Admin", "adminpass", model.RoleAdmin, cfg.BcryptCost)
	require.NoError(t, err)
	products := repository.NewMemoryProducts(catalog.SampleProducts())
	events := &recordedEvents{}

	e := echo.New()
	RegisterRoutes(e, Deps{
		JWTSecret: secret,
		Auth:      handler.NewAuthHandler(cfg, users, nil),
		Products:  handler.NewProductHandler(products, nil, events, nil),
		Cart:      handler.NewCartHandler(repository.NewMemoryCarts(), products, events, nil),
		Health:    &handler.HealthHandler{Storage: config.StorageMemory},
	})
	return &api{e: e, events: events}
}

func (a *api) do(method, path, tok string, body any) *httptest.ResponseRecorder {
	var rd *strings.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = strings.NewReader(string(b))
	} else {
		rd = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if tok != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func (a *api) token(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	require.NotEmpty(t, out.Token)
	return out.Token
}

func (a *api) login(t *testing.T, email, password string) string {
	t.Helper()
	rec := a.do(http.MethodPost, "/api/auth/login", "", echo.Map{"email": email, "password": password})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return a.token(t, rec)
}

func TestHealth(t *testing.T) {
	a := newAPI(t)
	rec := a.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","storage":"memory","mysql":"disabled","redis":"disabled"}`, rec.Body.String())
}

func TestSignupAndLogin(t *testing.T) {
	a := newAPI(t)

	rec := a.do(http.MethodPost, "/api/auth/signup", "", echo.Map{"email": "Ada@Example.com", "password": "secret1", "name": "Ada"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	claims, err := token.Decode(a.token(t, rec))
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", claims.Subject)
	assert.Equal(t, model.RoleCustomer, claims.Role)
	assert.True(t, claims.ExpiresAt.After(time.Now()))

	tests := []struct {
		name   string
		path   string
		body   echo.Map
		status int
	}{
		{"duplicate signup", "/api/auth/signup", echo.Map{"email": "ada@example.com", "password": "secret1"}, http.StatusConflict},
		{"short password", "/api/auth/signup", echo.Map{"email": "bob@example.com", "password": "123"}, http.StatusBadRequest},
		{"bad email", "/api/auth/signup", echo.Map{"email": "bob", "password": "secret1"}, http.StatusBadRequest},
		{"missing fields", "/api/auth/login", echo.Map{"email": "ada@example.com"}, http.StatusBadRequest},
		{"wrong password", "/api/auth/login", echo.Map{"email": "ada@example.com", "password": "nope123"}, http.StatusUnauthorized},
		{"unknown user", "/api/auth/login", echo.Map{"email": "zed@example.com", "password": "secret1"}, http.StatusUnauthorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := a.do(http.MethodPost, tc.path, "", tc.body)
			assert.Equal(t, tc.status, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}

	admin := a.login(t, "admin@example.com", "adminpass")
	claims, err = token.Decode(admin)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, claims.Role)
}

func TestProductReadsArePublic(t *testing.T) {
	a := newAPI(t)

	rec := a.do(http.MethodGet, "/api/products", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []model.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, len(catalog.SampleProducts()))

	rec = a.do(http.MethodGet, "/api/products/1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var p model.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, "1", p.ID)

	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/api/products/missing", "", nil).Code)
}

func TestProductWritesNeedAdmin(t *testing.T) {
	a := newAPI(t)
	admin := a.login(t, "admin@example.com", "adminpass")
	customer := a.token(t, a.do(http.MethodPost, "/api/auth/signup", "", echo.Map{"email": "c@example.com", "password": "secret1"}))
	input := echo.Map{"name": "Desk Lamp", "description": "warm", "price": 24.5, "imageUrl": "https://img/x.png", "category": "Home & Living", "stock": 3}

	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodPost, "/api/products", "", input).Code)
	assert.Equal(t, http.StatusForbidden, a.do(http.MethodPost, "/api/products", customer, input).Code)

	rec := a.do(http.MethodPost, "/api/products", admin, input)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created model.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "24.50", created.Price.StringFixed(2))

	input["stock"] = 0
	rec = a.do(http.MethodPut, "/api/products/"+created.ID, admin, input)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"stock":0`)

	input["price"] = -1
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPut, "/api/products/"+created.ID, admin, input).Code)
	input["price"] = 1
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodPut, "/api/products/missing", admin, input).Code)

	assert.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, "/api/products/"+created.ID, admin, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodDelete, "/api/products/"+created.ID, admin, nil).Code)

	assert.Eventually(t, func() bool {
		return assert.ObjectsAreEqual([]string{queue.ProductCreated, queue.ProductDeleted, queue.ProductUpdated}, a.events.types())
	}, time.Second, 10*time.Millisecond)
}

func TestCartOwnership(t *testing.T) {
	a := newAPI(t)
	admin := a.login(t, "admin@example.com", "adminpass")
	ada := a.token(t, a.do(http.MethodPost, "/api/auth/signup", "", echo.Map{"email": "ada@example.com", "password": "secret1"}))
	bob := a.token(t, a.do(http.MethodPost, "/api/auth/signup", "", echo.Map{"email": "bob@example.com", "password": "secret1"}))

	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodGet, "/api/cart/ada@example.com", "", nil).Code)

	// Product "1" is the sample headphones with 25 in stock.
	rec := a.do(http.MethodPost, "/api/cart/add", ada, model.AddCartItemRequest{ProductID: "1", Quantity: 2})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var item model.CartItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	assert.Equal(t, "ada@example.com", item.CustomerID)
	assert.Equal(t, 2, item.Quantity)

	assert.Equal(t, http.StatusConflict, a.do(http.MethodPost, "/api/cart/add", ada, model.AddCartItemRequest{ProductID: "1", Quantity: 100}).Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodPost, "/api/cart/add", ada, model.AddCartItemRequest{ProductID: "nope", Quantity: 1}).Code)
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPost, "/api/cart/add", ada, model.AddCartItemRequest{ProductID: "1"}).Code)
	assert.Equal(t, http.StatusForbidden, a.do(http.MethodPost, "/api/cart/add", bob,
		model.AddCartItemRequest{CustomerID: "ada@example.com", ProductID: "1", Quantity: 1}).Code)

	assert.Equal(t, http.StatusForbidden, a.do(http.MethodGet, "/api/cart/ada@example.com", bob, nil).Code)
	for _, tok := range []string{ada, admin} {
		rec = a.do(http.MethodGet, "/api/cart/ada@example.com", tok, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var items []model.CartItem
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
		require.Len(t, items, 1)
		assert.Equal(t, item.ID, items[0].ID)
	}

	assert.Equal(t, http.StatusForbidden, a.do(http.MethodDelete, "/api/cart/"+item.ID, bob, nil).Code)
	assert.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, "/api/cart/"+item.ID, ada, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodDelete, "/api/cart/"+item.ID, ada, nil).Code)

	assert.Eventually(t, func() bool {
		return assert.ObjectsAreEqual([]string{queue.CartItemAdded, queue.CartItemRemoved}, a.events.types())
	}, time.Second, 10*time.Millisecond)
}
