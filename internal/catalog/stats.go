package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/iliyamo/storefront/internal/model"
)

// StockLevel is the badge shown on a product card.
type StockLevel string

const (
	InStock    StockLevel = "in-stock"
	LowStock   StockLevel = "low-stock"
	OutOfStock StockLevel = "out-of-stock"
)

// LowStockBadge is the highest stock that still shows the low-stock badge.
const LowStockBadge = 5

// Level returns the badge for p.
func Level(p model.Product) StockLevel {
	switch {
	case p.Stock <= 0:
		return OutOfStock
	case p.Stock <= LowStockBadge:
		return LowStock
	default:
		return InStock
	}
}

// LowStockAlert is the admin dashboard's low-stock ceiling. It is wider
// than the storefront badge.
const LowStockAlert = 10

// Stats are the admin dashboard counters.
type Stats struct {
	Products       int             `json:"products"`
	InventoryValue decimal.Decimal `json:"inventoryValue"`
	LowStock       int             `json:"lowStock"`
	OutOfStock     int             `json:"outOfStock"`
}

// Summarize computes dashboard stats. Inventory value is the sum of
// price times stock; low stock counts products with 1 to LowStockAlert
// units left.
func Summarize(products []model.Product) Stats {
	st := Stats{Products: len(products), InventoryValue: decimal.Zero}
	for _, p := range products {
		st.InventoryValue = st.InventoryValue.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Stock))))
		switch {
		case p.Stock <= 0:
			st.OutOfStock++
		case p.Stock <= LowStockAlert:
			st.LowStock++
		}
	}
	return st
}
