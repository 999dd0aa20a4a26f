package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/storefront/internal/catalog"
	"github.com/iliyamo/storefront/internal/config"
	"github.com/iliyamo/storefront/internal/database"
	"github.com/iliyamo/storefront/internal/handler"
	"github.com/iliyamo/storefront/internal/middleware"
	"github.com/iliyamo/storefront/internal/model"
	"github.com/iliyamo/storefront/internal/repository"
	"github.com/iliyamo/storefront/internal/router"
	queue_publisher "github.com/iliyamo/storefront/internal/service"
)

// app is a fully wired API server plus the resources it must release.
type app struct {
	echo    *echo.Echo
	db      *sql.DB
	rdb     *redis.Client
	closers []io.Closer
}

func (a *app) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// repos picks the repositories for cfg.Storage. mysql keeps users and
// products in MySQL and carts in Redis; memory keeps everything in
// process, seeded with the sample catalog.
func repos(ctx context.Context, cfg config.Config, rdb *redis.Client, db *sql.DB) (repository.UserStore, repository.ProductStore, repository.CartStore, error) {
	if cfg.Storage == config.StorageMySQL {
		if rdb == nil {
			return nil, nil, nil, errors.New("mysql storage needs a reachable Redis for carts")
		}
		if err := database.Migrate(ctx, db); err != nil {
			return nil, nil, nil, err
		}
		return repository.NewUserRepo(db), repository.NewProductRepo(db), repository.NewCartRepo(rdb, "storefront:"), nil
	}
	return repository.NewMemoryUsers(), repository.NewMemoryProducts(catalog.SampleProducts()), repository.NewMemoryCarts(), nil
}

// newApp wires configuration into a ready-to-start echo server.
func newApp(ctx context.Context, cfg config.Config, log *zap.Logger) (*app, error) {
	a := &app{}

	redisCfg := config.LoadRedisConfig()
	if cfg.Storage == config.StorageMySQL || redisCfg.Explicit {
		a.rdb = config.NewRedisClient(ctx, redisCfg)
		if a.rdb == nil {
			log.Warn("redis unreachable; caching and rate limiting disabled", zap.String("addr", redisCfg.Addr))
		} else {
			a.closers = append(a.closers, a.rdb)
		}
	}

	if cfg.Storage == config.StorageMySQL {
		db, err := database.Open(ctx, cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("open mysql: %w", err)
		}
		a.db = db
		a.closers = append(a.closers, db)
	}

	users, products, carts, err := repos(ctx, cfg, a.rdb, a.db)
	if err != nil {
		a.Close()
		return nil, err
	}
	if err := bootstrapAdmin(ctx, cfg, users, log); err != nil {
		a.Close()
		return nil, err
	}

	events := queue_publisher.New(cfg.RabbitURL, log.Named("events"))
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), a.rdb, log.Named("cache"))

	a.echo = echo.New()
	router.RegisterRoutes(a.echo, router.Deps{
		JWTSecret: cfg.JWTSecret,
		Auth:      handler.NewAuthHandler(cfg, users, log.Named("auth")),
		Products:  handler.NewProductHandler(products, cache, events, log.Named("products")),
		Cart:      handler.NewCartHandler(carts, products, events, log.Named("cart")),
		Health:    &handler.HealthHandler{Storage: cfg.Storage, DB: a.db, Redis: a.rdb},
		Cache:     cache,
		RateLimit: middleware.NewTokenBucket(config.LoadRateLimitConfig(), a.rdb, log.Named("ratelimit")),
		Log:       log.Named("http"),
	})
	return a, nil
}

// bootstrapAdmin creates the configured admin account once. An existing
// account is left untouched.
func bootstrapAdmin(ctx context.Context, cfg config.Config, users repository.UserStore, log *zap.Logger) error {
	if cfg.AdminEmail == "" {
		return nil
	}
	_, err := users.Create(ctx, cfg.AdminEmail, cfg.AdminName, cfg.AdminPassword, model.RoleAdmin, cfg.BcryptCost)
	switch {
	case errors.Is(err, repository.ErrEmailExists):
		log.Info("admin account already present", zap.String("email", cfg.AdminEmail))
		return nil
	case err != nil:
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	log.Info("admin account created", zap.String("email", cfg.AdminEmail))
	return nil
}
