package model

import "github.com/shopspring/decimal"

// Prices travel as JSON numbers. See the package doc.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// ProductInput is the writable part of a product, as accepted by the
// create and update endpoints.
//
// Fields:
//
//	Name        – display name, searched case-insensitively.
//	Description – free text, also searched.
//	Price       – non-negative currency amount.
//	ImageURL    – absolute image location.
//	Category    – exact-match category label (e.g. "Electronics").
//	Stock       – non-negative units available; advisory on the client.
type ProductInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl"`
	Category    string          `json:"category"`
	Stock       int             `json:"stock"`
}

// Product is a catalog entry as returned by the products endpoints.
type Product struct {
	ID string `json:"id"`
	ProductInput
}

// Input returns the writable fields of the product.
func (p Product) Input() ProductInput { return p.ProductInput }
