package repository

import (
	"context"

	"github.com/iliyamo/storefront/internal/model"
)

// UserStore persists accounts. Emails are stored lower-cased.
type UserStore interface {
	Create(ctx context.Context, email, name, password string, role model.Role, cost int) (model.Account, error)
	GetByEmail(ctx context.Context, email string) (model.Account, error)
}

// ProductStore persists the catalog.
type ProductStore interface {
	List(ctx context.Context) ([]model.Product, error)
	Get(ctx context.Context, id string) (model.Product, error)
	Create(ctx context.Context, in model.ProductInput) (model.Product, error)
	Update(ctx context.Context, id string, in model.ProductInput) (model.Product, error)
	Delete(ctx context.Context, id string) error
}

// CartStore persists server-side carts, one per customer. Adding a
// product the customer already has merges into the existing item.
type CartStore interface {
	Add(ctx context.Context, customerID string, p model.Product, quantity int) (model.CartItem, error)
	List(ctx context.Context, customerID string) ([]model.CartItem, error)
	Get(ctx context.Context, itemID string) (model.CartItem, error)
	Remove(ctx context.Context, itemID string) error
}

// newCartItem denormalizes p into a cart row.
func newCartItem(id, customerID string, p model.Product, quantity int) model.CartItem {
	return model.CartItem{
		ID:           id,
		CustomerID:   customerID,
		ProductID:    p.ID,
		ProductName:  p.Name,
		ProductImage: p.ImageURL,
		Price:        p.Price,
		Quantity:     quantity,
	}
}

// checkStock rejects a cart quantity the product cannot cover.
func checkStock(p model.Product, quantity int) error {
	if quantity > p.Stock {
		return ErrConflict
	}
	return nil
}
