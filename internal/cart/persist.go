package cart

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/iliyamo/storefront/internal/model"
	"github.com/iliyamo/storefront/internal/storage"
)

// Save writes the cart as JSON into the cart slot of kv.
func (s *Store) Save(ctx context.Context, kv storage.Store) error {
	b, err := json.Marshal(s.Lines())
	if err != nil {
		return fmt.Errorf("cart: encode: %w", err)
	}
	if err := kv.Set(ctx, storage.CartKey, string(b)); err != nil {
		return fmt.Errorf("cart: save: %w", err)
	}
	return nil
}

// Restore replaces the cart with the contents of the cart slot. A missing
// slot leaves an empty cart. A slot that does not parse is deleted and the
// cart starts empty. Lines that would break the one-line-per-product rule
// or carry a quantity below 1 are merged or dropped on the way in.
func (s *Store) Restore(ctx context.Context, kv storage.Store) error {
	raw, ok, err := kv.Get(ctx, storage.CartKey)
	if err != nil {
		return fmt.Errorf("cart: load: %w", err)
	}
	if !ok {
		s.replace(nil)
		return nil
	}

	var stored []model.CartLine
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		s.log.Info("discarding unreadable cart", zap.Error(err))
		s.replace(nil)
		if err := kv.Delete(ctx, storage.CartKey); err != nil {
			return fmt.Errorf("cart: purge: %w", err)
		}
		return nil
	}

	fresh := New(WithLogger(s.log))
	for _, l := range stored {
		if l.Product.ID == "" {
			continue
		}
		fresh.AddToCart(l.Product, l.Quantity)
	}
	s.replace(fresh.lines)
	return nil
}
