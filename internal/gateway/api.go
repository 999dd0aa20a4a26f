package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/iliyamo/storefront/internal/model"
)

// AuthAPI covers /api/auth.
type AuthAPI struct{ g *Gateway }

func (g *Gateway) Auth() AuthAPI { return AuthAPI{g} }

// Login exchanges credentials for a bearer token. The session is not
// touched; hand the token to session.Store.Login.
func (a AuthAPI) Login(ctx context.Context, email, password string) (string, error) {
	resp, err := a.g.call(ctx, http.MethodPost, "/api/auth/login", nil,
		map[string]string{"email": email, "password": password}, nil)
	if err != nil {
		return "", err
	}
	return tokenFromBody(resp.Body())
}

func (a AuthAPI) Signup(ctx context.Context, email, password, name string) (string, error) {
	resp, err := a.g.call(ctx, http.MethodPost, "/api/auth/signup", nil,
		map[string]string{"email": email, "password": password, "name": name}, nil)
	if err != nil {
		return "", err
	}
	return tokenFromBody(resp.Body())
}

// tokenFromBody accepts {"token": "..."}, a JSON string or a bare token.
func tokenFromBody(body []byte) (string, error) {
	var obj struct {
		Token string `json:"token"`
	}
	if json.Unmarshal(body, &obj) == nil && obj.Token != "" {
		return obj.Token, nil
	}
	var s string
	if json.Unmarshal(body, &s) == nil && s != "" {
		return s, nil
	}
	if raw := strings.TrimSpace(string(body)); raw != "" && !strings.ContainsAny(raw, "{}[]\" ") {
		return raw, nil
	}
	return "", errors.New("gateway: response carries no token")
}

// ProductsAPI covers /api/products.
type ProductsAPI struct{ g *Gateway }

func (g *Gateway) Products() ProductsAPI { return ProductsAPI{g} }

func (p ProductsAPI) List(ctx context.Context) ([]model.Product, error) {
	var out []model.Product
	if _, err := p.g.call(ctx, http.MethodGet, "/api/products", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (p ProductsAPI) Get(ctx context.Context, id string) (model.Product, error) {
	var out model.Product
	_, err := p.g.call(ctx, http.MethodGet, "/api/products/{id}", map[string]string{"id": id}, nil, &out)
	return out, err
}

func (p ProductsAPI) Create(ctx context.Context, in model.ProductInput) (model.Product, error) {
	var out model.Product
	_, err := p.g.call(ctx, http.MethodPost, "/api/products", nil, in, &out)
	return out, err
}

func (p ProductsAPI) Update(ctx context.Context, id string, in model.ProductInput) (model.Product, error) {
	var out model.Product
	_, err := p.g.call(ctx, http.MethodPut, "/api/products/{id}", map[string]string{"id": id}, in, &out)
	return out, err
}

func (p ProductsAPI) Delete(ctx context.Context, id string) error {
	_, err := p.g.call(ctx, http.MethodDelete, "/api/products/{id}", map[string]string{"id": id}, nil, nil)
	return err
}

// CartAPI covers the server-side cart at /api/cart.
type CartAPI struct{ g *Gateway }

func (g *Gateway) Cart() CartAPI { return CartAPI{g} }

func (c CartAPI) Add(ctx context.Context, req model.AddCartItemRequest) (model.CartItem, error) {
	var out model.CartItem
	_, err := c.g.call(ctx, http.MethodPost, "/api/cart/add", nil, req, &out)
	return out, err
}

func (c CartAPI) Get(ctx context.Context, customerID string) ([]model.CartItem, error) {
	var out []model.CartItem
	if _, err := c.g.call(ctx, http.MethodGet, "/api/cart/{customerId}",
		map[string]string{"customerId": customerID}, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c CartAPI) Remove(ctx context.Context, itemID string) error {
	_, err := c.g.call(ctx, http.MethodDelete, "/api/cart/{itemId}", map[string]string{"itemId": itemID}, nil, nil)
	return err
}
