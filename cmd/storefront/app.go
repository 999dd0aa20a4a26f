package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/iliyamo/storefront/internal/cart"
	"github.com/iliyamo/storefront/internal/config"
	"github.com/iliyamo/storefront/internal/gateway"
	"github.com/iliyamo/storefront/internal/logging"
	"github.com/iliyamo/storefront/internal/model"
	"github.com/iliyamo/storefront/internal/session"
	"github.com/iliyamo/storefront/internal/storage"
)

var (
	errNotSignedIn = errors.New("please login first")
	errAdminOnly   = errors.New("admin access required")
)

// app holds everything one CLI invocation works with. setup fills it from
// configuration; close releases the state store and flushes the logger.
type app struct {
	in io.Reader
	ui ui
	v  *viper.Viper

	cfg     config.ClientConfig
	log     *zap.Logger
	kv      storage.Store
	session *session.Store
	cart    *cart.Store
	api     *gateway.Gateway
	expired bool
}

func newApp(in io.Reader, out, errOut io.Writer) *app {
	return &app{
		in:  in,
		ui:  ui{out: out, errOut: errOut},
		v:   config.NewClientViper(),
		log: zap.NewNop(),
	}
}

func (a *app) setup(ctx context.Context, configPath string) error {
	cfg, err := config.LoadClient(a.v, configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	log, err := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})
	if err != nil {
		return err
	}
	a.log = log

	kv, err := storage.Open(ctx, storage.Options{
		Backend:     cfg.StateBackend,
		Path:        cfg.StatePath,
		RedisAddr:   cfg.RedisAddr,
		RedisPrefix: cfg.RedisPrefix,
	})
	if err != nil {
		return fmt.Errorf("open state: %w", err)
	}
	a.kv = kv

	a.session = session.New(kv, session.WithLogger(log.Named("session")))
	if err := a.session.Initialize(ctx); err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	a.cart = cart.New(cart.WithLogger(log.Named("cart")))
	if err := a.cart.Restore(ctx, kv); err != nil {
		return fmt.Errorf("restore cart: %w", err)
	}

	a.api = gateway.New(cfg.APIURL, a.session,
		gateway.WithTimeout(cfg.Timeout),
		gateway.WithLogger(log.Named("gateway")),
		gateway.WithDeniedHandler(a.sessionExpired),
	)
	return nil
}

func (a *app) close() {
	if a.kv != nil {
		if err := a.kv.Close(); err != nil {
			a.log.Warn("close state store", zap.Error(err))
		}
		a.kv = nil
	}
	_ = a.log.Sync()
}

// sessionExpired runs when the server rejected the session token.
func (a *app) sessionExpired(context.Context) {
	a.expired = true
	a.ui.fail("Session expired. Please login again.")
}

func (a *app) requireUser() (model.User, error) {
	u, ok := a.session.User()
	if !ok {
		return model.User{}, errNotSignedIn
	}
	return u, nil
}

func (a *app) requireAdmin() error {
	if !a.session.IsAuthenticated() {
		return errNotSignedIn
	}
	if !a.session.IsAdmin() {
		return errAdminOnly
	}
	return nil
}

func (a *app) saveCart(ctx context.Context) error {
	if err := a.cart.Save(ctx, a.kv); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// report prints a command failure. A rejected session was already
// announced by sessionExpired.
func (a *app) report(err error) {
	if a.expired && errors.Is(err, gateway.ErrAuthorizationDenied) {
		fmt.Fprintln(a.ui.errOut, mutedStyle.Render("Run `storefront login` to sign in."))
		return
	}
	a.ui.fail("Error: %v", err)
}
