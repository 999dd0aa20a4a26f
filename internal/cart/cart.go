// Package cart keeps the client's shopping cart: an insertion-ordered list
// of lines, at most one per product id, plus totals derived on every read.
//
// Quantity policy:
//
//   - AddToCart ignores quantities below 1.
//   - Stock is advisory. The store never clamps to it, so merged lines may
//     exceed the stock of their snapshot. Callers that take quantities from
//     a person clamp them first with ClampQuantity.
//   - UpdateQuantity with a quantity of 0 or less removes the line.
package cart

import (
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/iliyamo/storefront/internal/model"
)

type Store struct {
	mu    sync.RWMutex
	lines []model.CartLine
	log   *zap.Logger
}

type Option func(*Store)

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

func New(opts ...Option) *Store {
	s := &Store{log: zap.NewNop()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// AddToCart merges quantity units of p into the cart. A product already in
// the cart keeps its original snapshot and position; only its quantity grows.
func (s *Store) AddToCart(p model.Product, quantity int) {
	if quantity < 1 {
		s.log.Debug("ignoring non-positive add", zap.String("product", p.ID), zap.Int("qty", quantity))
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(p.ID); i >= 0 {
		s.lines[i].Quantity += quantity
		return
	}
	s.lines = append(s.lines, model.CartLine{Product: p, Quantity: quantity})
}

// UpdateQuantity sets the line's quantity to exactly quantity. Unknown ids
// are ignored.
func (s *Store) UpdateQuantity(productID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(productID)
	if i < 0 {
		return
	}
	if quantity <= 0 {
		s.removeLocked(i)
		return
	}
	s.lines[i].Quantity = quantity
}

func (s *Store) RemoveFromCart(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(productID); i >= 0 {
		s.removeLocked(i)
	}
}

func (s *Store) ClearCart() {
	s.mu.Lock()
	s.lines = nil
	s.mu.Unlock()
}

// Lines returns a copy of the cart in insertion order.
func (s *Store) Lines() []model.CartLine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// Line returns the line for productID, if any.
func (s *Store) Line(productID string) (model.CartLine, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexLocked(productID); i >= 0 {
		return s.lines[i], true
	}
	return model.CartLine{}, false
}

func (s *Store) TotalItems() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return totalLocked(s.lines)
}

func totalLocked(lines []model.CartLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Subtotal())
	}
	return sum
}

func (s *Store) indexLocked(productID string) int {
	for i := range s.lines {
		if s.lines[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

func (s *Store) removeLocked(i int) {
	s.lines = append(s.lines[:i:i], s.lines[i+1:]...)
}

// replace swaps the whole cart, used by Restore.
func (s *Store) replace(lines []model.CartLine) {
	s.mu.Lock()
	s.lines = lines
	s.mu.Unlock()
}

// ClampQuantity bounds a requested quantity to [1, stock]. It returns 0
// when nothing is in stock.
func ClampQuantity(requested, stock int) int {
	if stock <= 0 {
		return 0
	}
	if requested < 1 {
		return 1
	}
	if requested > stock {
		return stock
	}
	return requested
}
