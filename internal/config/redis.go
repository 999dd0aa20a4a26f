package config

// This file defines the Redis client constructor for the API server. Redis
// backs rate limiting, the product response cache and, with mysql storage,
// the customer carts. If the server cannot be reached at startup the
// constructor returns nil and callers degrade: caching and rate limiting
// are skipped, and mysql storage refuses to start.

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig is read from REDIS_* variables.
//
//	REDIS_HOST and REDIS_PORT – hostname and port of the Redis server
//	REDIS_ADDR – host:port shorthand, used when host/port are not both set
//	REDIS_PASSWORD – optional password
//	REDIS_DB – database number (default 0)
//	REDIS_TLS – enable TLS when "true" or "1"
//
// Explicit is true when an address was given; memory storage only uses
// Redis in that case.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TLS      bool
	Explicit bool
}

func LoadRedisConfig() RedisConfig {
	addr := getenv("REDIS_ADDR", "")
	if host, port := getenv("REDIS_HOST", ""), getenv("REDIS_PORT", ""); host != "" && port != "" {
		addr = host + ":" + port
	}
	explicit := addr != ""
	if !explicit {
		addr = "localhost:6379"
	}
	return RedisConfig{
		Addr:     addr,
		Password: getenv("REDIS_PASSWORD", ""),
		DB:       envInt("REDIS_DB", 0),
		TLS:      envBool("REDIS_TLS", false),
		Explicit: explicit,
	}
}

// NewRedisClient connects with cfg and pings the server. The returned
// client is nil if the server cannot be reached.
func NewRedisClient(ctx context.Context, cfg RedisConfig) *redis.Client {
	var tlsConf *tls.Config
	if cfg.TLS {
		tlsConf = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		TLSConfig:    tlsConf,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	// Ping the server with a short timeout. Return nil on failure.
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil
	}
	return client
}
