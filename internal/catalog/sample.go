package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/iliyamo/storefront/internal/model"
)

func sample(id, name, desc, price, image, category string, stock int) model.Product {
	return model.Product{ID: id, ProductInput: model.ProductInput{
		Name:        name,
		Description: desc,
		Price:       decimal.RequireFromString(price),
		ImageURL:    "https://images.unsplash.com/" + image + "?w=400&h=400&fit=crop",
		Category:    category,
		Stock:       stock,
	}}
}

// SampleProducts returns a fresh copy of the demo catalog. The client shows
// it when the products endpoint fails for a reason other than
// authorization; the in-memory API server seeds itself with it.
func SampleProducts() []model.Product {
	return []model.Product{
		sample("1", "Wireless Bluetooth Headphones", "Premium noise-cancelling headphones with 30-hour battery life",
			"149.99", "photo-1505740420928-5e560c06d30e", "Electronics", 25),
		sample("2", "Smart Watch Pro", "Advanced fitness tracking with heart rate monitor and GPS",
			"299.99", "photo-1523275335684-37898b6baf30", "Electronics", 15),
		sample("3", "Premium Leather Jacket", "Genuine leather jacket with modern slim fit design",
			"249.99", "photo-1551028719-00167b16eac5", "Fashion", 8),
		sample("4", "Minimalist Desk Lamp", "Modern LED desk lamp with adjustable brightness and color temperature",
			"79.99", "photo-1507473885765-e6ed057f782c", "Home & Living", 42),
		sample("5", "Running Shoes Ultra", "Lightweight running shoes with responsive cushioning technology",
			"129.99", "photo-1542291026-7eec264c27ff", "Sports", 30),
		sample("6", "Portable Power Bank", "20000mAh fast charging power bank with dual USB ports",
			"49.99", "photo-1609091839311-d5365f9ff1c5", "Electronics", 0),
		sample("7", "Cotton T-Shirt Pack", "Pack of 3 premium cotton t-shirts in classic colors",
			"39.99", "photo-1521572163474-6864f9cf17ab", "Fashion", 100),
		sample("8", "Ceramic Plant Pot Set", "Set of 3 modern ceramic pots for indoor plants",
			"34.99", "photo-1485955900006-10f4d324d411", "Home & Living", 20),
	}
}
