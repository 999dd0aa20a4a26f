package cart

import "github.com/shopspring/decimal"

var (
	// FreeShippingThreshold is the subtotal from which shipping is free.
	FreeShippingThreshold = decimal.RequireFromString("50.00")
	// FlatShipping is charged below the threshold.
	FlatShipping = decimal.RequireFromString("9.99")
	// TaxRate applies to the subtotal.
	TaxRate = decimal.RequireFromString("0.10")
)

// Summary is the order summary shown next to the cart.
type Summary struct {
	Items    int             `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// Summary computes subtotal, shipping, tax and total from one consistent
// read of the cart. An empty cart costs nothing, shipping included.
func (s *Store) Summary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := 0
	for _, l := range s.lines {
		items += l.Quantity
	}
	sub := totalLocked(s.lines)
	out := Summary{Items: items, Subtotal: sub, Shipping: decimal.Zero}
	if len(s.lines) > 0 && sub.LessThan(FreeShippingThreshold) {
		out.Shipping = FlatShipping
	}
	out.Tax = sub.Mul(TaxRate).Round(2)
	out.Total = sub.Add(out.Shipping).Add(out.Tax)
	return out
}
