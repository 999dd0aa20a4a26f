package model

import "github.com/shopspring/decimal"

// CartLine is one product-with-quantity entry of the client cart. The
// product is a snapshot taken when the line was first added; later
// catalog price changes do not reach it.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Subtotal is price times quantity for the line.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CartItem is a server-side cart row as exchanged with the cart
// endpoints. It carries a denormalized product name, image and price.
type CartItem struct {
	ID           string          `json:"id"`
	CustomerID   string          `json:"customerId,omitempty"`
	ProductID    string          `json:"productId"`
	ProductName  string          `json:"productName"`
	ProductImage string          `json:"productImage"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
}

// AddCartItemRequest is the body of POST /api/cart/add.
type AddCartItemRequest struct {
	CustomerID string `json:"customerId"`
	ProductID  string `json:"productId"`
	Quantity   int    `json:"quantity"`
}
