package cart

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/storefront/internal/model"
	"github.com/iliyamo/storefront/internal/storage"
)

func product(id, price string, stock int) model.Product {
	return model.Product{ID: id, ProductInput: model.ProductInput{
		Name:     "Product " + id,
		Price:    decimal.RequireFromString(price),
		Category: "Electronics",
		Stock:    stock,
	}}
}

func money(d decimal.Decimal) string { return d.StringFixed(2) }

func TestAddMergesByProductID(t *testing.T) {
	c := New()
	p := product("p", "10.00", 3)

	c.AddToCart(p, 2)
	c.AddToCart(p, 3)

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity, "stock is not enforced by the store")
	assert.Equal(t, 5, c.TotalItems())
	assert.Equal(t, "50.00", money(c.TotalPrice()))
}

func TestAddKeepsInsertionOrderAndSnapshot(t *testing.T) {
	c := New()
	a, b := product("a", "1.50", 9), product("b", "2.25", 9)
	c.AddToCart(a, 1)
	c.AddToCart(b, 1)

	repriced := a
	repriced.Price = decimal.RequireFromString("99.00")
	c.AddToCart(repriced, 1)

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "a", lines[0].Product.ID)
	assert.Equal(t, "b", lines[1].Product.ID)
	assert.Equal(t, "1.50", money(lines[0].Product.Price), "first snapshot wins")
	assert.Equal(t, "5.25", money(c.TotalPrice()))
}

func TestAddIgnoresNonPositiveQuantity(t *testing.T) {
	c := New()
	c.AddToCart(product("p", "1", 1), 0)
	c.AddToCart(product("p", "1", 1), -4)
	assert.Empty(t, c.Lines())

	c.AddToCart(product("p", "1", 1), 2)
	c.AddToCart(product("p", "1", 1), -1)
	l, ok := c.Line("p")
	require.True(t, ok)
	assert.Equal(t, 2, l.Quantity)
}

func TestUpdateQuantity(t *testing.T) {
	c := New()
	c.AddToCart(product("a", "4.00", 10), 1)
	c.AddToCart(product("b", "1.00", 10), 1)

	c.UpdateQuantity("a", 7)
	l, _ := c.Line("a")
	assert.Equal(t, 7, l.Quantity, "set, not incremented")

	c.UpdateQuantity("missing", 3)
	_, ok := c.Line("missing")
	assert.False(t, ok, "update never creates a line")

	c.UpdateQuantity("a", 0)
	_, ok = c.Line("a")
	assert.False(t, ok)

	c.UpdateQuantity("b", -2)
	assert.Empty(t, c.Lines())
}

func TestRemoveAndClear(t *testing.T) {
	c := New()
	c.AddToCart(product("a", "3.00", 1), 1)
	c.AddToCart(product("b", "4.00", 1), 2)
	c.AddToCart(product("c", "5.00", 1), 1)

	c.RemoveFromCart("b")
	c.RemoveFromCart("nope")
	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "a", lines[0].Product.ID)
	assert.Equal(t, "c", lines[1].Product.ID)

	c.ClearCart()
	assert.Equal(t, 0, c.TotalItems())
	assert.Equal(t, "0.00", money(c.TotalPrice()))
}

func TestLinesReturnsCopy(t *testing.T) {
	c := New()
	c.AddToCart(product("a", "1", 1), 1)
	lines := c.Lines()
	lines[0].Quantity = 100
	l, _ := c.Line("a")
	assert.Equal(t, 1, l.Quantity)
}

func TestSummary(t *testing.T) {
	tests := []struct {
		name                      string
		price                     string
		qty                       int
		sub, shipping, tax, total string
	}{
		{name: "empty", qty: 0, sub: "0.00", shipping: "0.00", tax: "0.00", total: "0.00"},
		{name: "below threshold", price: "19.99", qty: 2, sub: "39.98", shipping: "9.99", tax: "4.00", total: "53.97"},
		{name: "at threshold", price: "25.00", qty: 2, sub: "50.00", shipping: "0.00", tax: "5.00", total: "55.00"},
		{name: "tax rounds", price: "0.05", qty: 1, sub: "0.05", shipping: "9.99", tax: "0.01", total: "10.05"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			if tt.qty > 0 {
				c.AddToCart(product("p", tt.price, 10), tt.qty)
			}
			s := c.Summary()
			assert.Equal(t, tt.qty, s.Items)
			assert.Equal(t, tt.sub, money(s.Subtotal))
			assert.Equal(t, tt.shipping, money(s.Shipping))
			assert.Equal(t, tt.tax, money(s.Tax))
			assert.Equal(t, tt.total, money(s.Total))
		})
	}
}

func TestClampQuantity(t *testing.T) {
	assert.Equal(t, 0, ClampQuantity(3, 0))
	assert.Equal(t, 1, ClampQuantity(0, 5))
	assert.Equal(t, 1, ClampQuantity(-7, 5))
	assert.Equal(t, 3, ClampQuantity(3, 5))
	assert.Equal(t, 5, ClampQuantity(50, 5))
}

func TestSaveRestore(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryStore()

	c := New()
	c.AddToCart(product("a", "12.34", 5), 2)
	c.AddToCart(product("b", "0.99", 5), 1)
	require.NoError(t, c.Save(ctx, kv))

	restored := New()
	require.NoError(t, restored.Restore(ctx, kv))
	assert.Equal(t, 3, restored.TotalItems())
	assert.Equal(t, "25.67", money(restored.TotalPrice()))
	lines := restored.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "a", lines[0].Product.ID)
	assert.Equal(t, "Product a", lines[0].Product.Name)
}

func TestRestoreNormalizesAndPurges(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryStore()

	require.NoError(t, kv.Set(ctx, storage.CartKey,
		`[{"product":{"id":"a","price":2},"quantity":1},{"product":{"id":"a","price":2},"quantity":2},{"product":{"id":"b","price":1},"quantity":0},{"product":{"price":1},"quantity":4}]`))
	c := New()
	require.NoError(t, c.Restore(ctx, kv))
	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)

	require.NoError(t, kv.Set(ctx, storage.CartKey, "{oops"))
	require.NoError(t, c.Restore(ctx, kv))
	assert.Empty(t, c.Lines())
	_, ok, err := kv.Get(ctx, storage.CartKey)
	require.NoError(t, err)
	assert.False(t, ok)

	c.AddToCart(product("z", "1", 1), 1)
	require.NoError(t, c.Restore(ctx, kv))
	assert.Empty(t, c.Lines(), "missing slot means empty cart")
}

func TestConcurrentAdds(t *testing.T) {
	c := New()
	p := product("p", "1.00", 1)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.AddToCart(p, 1)
			}
		}()
	}
	wg.Wait()
	require.Len(t, c.Lines(), 1)
	assert.Equal(t, 800, c.TotalItems())
}
