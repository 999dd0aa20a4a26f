package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/storefront/internal/model"
)

// CartRepo keeps carts in Redis. Each customer's cart is a hash of
// item id -> JSON item under <prefix>cart:<customer>; a second key
// <prefix>cartitem:<item> maps an item back to its customer so items can
// be removed by id alone.
type CartRepo struct {
	RDB    redis.UniversalClient
	Prefix string
}

func NewCartRepo(rdb redis.UniversalClient, prefix string) *CartRepo {
	return &CartRepo{RDB: rdb, Prefix: prefix}
}

func (r *CartRepo) cartKey(customerID string) string { return r.Prefix + "cart:" + customerID }
func (r *CartRepo) itemKey(itemID string) string     { return r.Prefix + "cartitem:" + itemID }

const maxCartTxRetries = 5

// Add merges quantity units of p into the customer's cart. The merged
// quantity may not exceed p.Stock (ErrConflict). The read-modify-write
// runs under WATCH so concurrent adds for one customer do not lose units.
func (r *CartRepo) Add(ctx context.Context, customerID string, p model.Product, quantity int) (model.CartItem, error) {
	key := r.cartKey(customerID)
	var result model.CartItem

	txf := func(tx *redis.Tx) error {
		raw, err := tx.HGetAll(ctx, key).Result()
		if err != nil {
			return err
		}
		items, err := decodeItems(raw)
		if err != nil {
			return err
		}
		item := newCartItem(uuid.NewString(), customerID, p, quantity)
		for _, it := range items {
			if it.ProductID == p.ID {
				item = it
				item.Quantity += quantity
				break
			}
		}
		if err := checkStock(p, item.Quantity); err != nil {
			return err
		}
		b, err := json.Marshal(item)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, item.ID, b)
			pipe.Set(ctx, r.itemKey(item.ID), customerID, 0)
			return nil
		})
		if err == nil {
			result = item
		}
		return err
	}

	for i := 0; i < maxCartTxRetries; i++ {
		err := r.RDB.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return result, err
	}
	return model.CartItem{}, fmt.Errorf("cart add: %w", redis.TxFailedErr)
}

// List returns the customer's items ordered by product name.
func (r *CartRepo) List(ctx context.Context, customerID string) ([]model.CartItem, error) {
	raw, err := r.RDB.HGetAll(ctx, r.cartKey(customerID)).Result()
	if err != nil {
		return nil, err
	}
	return decodeItems(raw)
}

func (r *CartRepo) Get(ctx context.Context, itemID string) (model.CartItem, error) {
	customerID, err := r.RDB.Get(ctx, r.itemKey(itemID)).Result()
	if errors.Is(err, redis.Nil) {
		return model.CartItem{}, ErrNotFound
	}
	if err != nil {
		return model.CartItem{}, err
	}
	b, err := r.RDB.HGet(ctx, r.cartKey(customerID), itemID).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.CartItem{}, ErrNotFound
	}
	if err != nil {
		return model.CartItem{}, err
	}
	var it model.CartItem
	if err := json.Unmarshal(b, &it); err != nil {
		return model.CartItem{}, err
	}
	return it, nil
}

func (r *CartRepo) Remove(ctx context.Context, itemID string) error {
	customerID, err := r.RDB.Get(ctx, r.itemKey(itemID)).Result()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	_, err = r.RDB.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HDel(ctx, r.cartKey(customerID), itemID)
		pipe.Del(ctx, r.itemKey(itemID))
		return nil
	})
	return err
}

func decodeItems(raw map[string]string) ([]model.CartItem, error) {
	out := make([]model.CartItem, 0, len(raw))
	for id, v := range raw {
		var it model.CartItem
		if err := json.Unmarshal([]byte(v), &it); err != nil {
			return nil, fmt.Errorf("cart item %s: %w", id, err)
		}
		out = append(out, it)
	}
	sortItems(out)
	return out, nil
}
