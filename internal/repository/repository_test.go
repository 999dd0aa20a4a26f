package repository

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/storefront/internal/model"
	"github.com/iliyamo/storefront/internal/utils"
)

func lamp(stock int) model.Product {
	return model.Product{ID: "lamp", ProductInput: model.ProductInput{
		Name: "Desk Lamp", Price: decimal.RequireFromString("79.99"),
		ImageURL: "https://img.example/lamp.jpg", Category: "Home & Living", Stock: stock,
	}}
}

func exerciseCarts(t *testing.T, carts CartStore) {
	t.Helper()
	ctx := context.Background()

	first, err := carts.Add(ctx, "ada@example.com", lamp(5), 2)
	require.NoError(t, err)
	assert.Equal(t, "Desk Lamp", first.ProductName)
	assert.Equal(t, "79.99", first.Price.StringFixed(2))

	merged, err := carts.Add(ctx, "ada@example.com", lamp(5), 3)
	require.NoError(t, err)
	assert.Equal(t, first.ID, merged.ID)
	assert.Equal(t, 5, merged.Quantity)

	_, err = carts.Add(ctx, "ada@example.com", lamp(5), 1)
	assert.ErrorIs(t, err, ErrConflict, "server carts never exceed stock")

	other, err := carts.Add(ctx, "bob@example.com", lamp(5), 1)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)

	items, err := carts.List(ctx, "ada@example.com")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)

	got, err := carts.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", got.CustomerID)

	require.NoError(t, carts.Remove(ctx, first.ID))
	assert.ErrorIs(t, carts.Remove(ctx, first.ID), ErrNotFound)
	_, err = carts.Get(ctx, first.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	items, err = carts.List(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestMemoryCarts(t *testing.T) {
	exerciseCarts(t, NewMemoryCarts())
}

func TestRedisCarts(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()
	require.NoError(t, rdb.Ping(context.Background()).Err())
	exerciseCarts(t, NewCartRepo(rdb, "storefront-test:"+t.Name()+":"))
}

func TestMemoryProducts(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryProducts([]model.Product{lamp(3)})

	created, err := store.Create(ctx, model.ProductInput{Name: "Alarm Clock", Price: decimal.NewFromInt(15), Stock: 1})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	all, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Alarm Clock", all[0].Name)

	updated, err := store.Update(ctx, "lamp", model.ProductInput{Name: "Floor Lamp", Price: decimal.NewFromInt(99), Stock: 0})
	require.NoError(t, err)
	assert.Equal(t, "lamp", updated.ID)
	got, err := store.Get(ctx, "lamp")
	require.NoError(t, err)
	assert.Equal(t, "Floor Lamp", got.Name)

	_, err = store.Update(ctx, "nope", model.ProductInput{})
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, store.Delete(ctx, "lamp"))
	assert.ErrorIs(t, store.Delete(ctx, "lamp"), ErrNotFound)
	_, err = store.Get(ctx, "lamp")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryUsers(t *testing.T) {
	ctx := context.Background()
	users := NewMemoryUsers()

	u, err := users.Create(ctx, " Ada@Example.com ", "Ada", "hunter22", model.RoleCustomer, bcrypt.MinCost)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.True(t, utils.VerifyPassword(u.PasswordHash, "hunter22"))

	_, err = users.Create(ctx, "ada@example.com", "Ada", "hunter22", model.RoleCustomer, bcrypt.MinCost)
	assert.ErrorIs(t, err, ErrEmailExists)
	_, err = users.Create(ctx, "short@example.com", "", "123", model.RoleCustomer, bcrypt.MinCost)
	assert.ErrorIs(t, err, utils.ErrPasswordTooShort)

	got, err := users.GetByEmail(ctx, "ADA@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	_, err = users.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}
