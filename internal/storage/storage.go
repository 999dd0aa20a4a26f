// Package storage holds the client's persisted key-value slots: the bearer
// token and the local cart. Backends are interchangeable behind Store.
package storage

import (
	"context"
	"fmt"
	"strings"
)

// Slot names used by the storefront client.
const (
	TokenKey = "token"
	CartKey  = "cart"
)

// Store is a minimal string key-value store. Get reports ok=false when the
// key is absent; Delete of an absent key is not an error.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Options selects and configures a backend for Open.
type Options struct {
	Backend     string // sqlite | redis | memory
	Path        string // sqlite database file
	RedisAddr   string
	RedisPrefix string
}

// Open builds the backend named by opts.Backend. An empty backend means sqlite.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch strings.ToLower(opts.Backend) {
	case "", "sqlite":
		s, err := OpenSQLite(ctx, opts.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "redis":
		s, err := DialRedis(ctx, opts.RedisAddr, opts.RedisPrefix)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", opts.Backend)
	}
}
