// Package session owns the client's authentication state: the bearer token,
// the user decoded from it and whether the persisted slot has been checked.
//
// A Store is the only component that touches the persisted token slot.
// Every operation holds the store's lock for its whole duration, so readers
// never see a token without its user or the other way round.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/storefront/internal/model"
	"github.com/iliyamo/storefront/internal/storage"
	"github.com/iliyamo/storefront/internal/token"
)

var (
	// ErrExpiredSession means the token decoded fine but its exp has passed.
	ErrExpiredSession = errors.New("session: token expired")
	// ErrInvalidLoginToken is returned by Login when the supplied token is
	// unusable. It wraps token.ErrDecode or ErrExpiredSession.
	ErrInvalidLoginToken = errors.New("session: invalid login token")
)

// State is a point-in-time copy of the session.
type State struct {
	Token string
	User  *model.User
	Ready bool
}

type Store struct {
	mu    sync.RWMutex
	kv    storage.Store
	now   func() time.Time
	log   *zap.Logger
	token string
	user  *model.User
	ready bool
}

type Option func(*Store)

// WithClock replaces time.Now for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// New returns an anonymous, not-yet-ready session backed by kv.
func New(kv storage.Store, opts ...Option) *Store {
	s := &Store{kv: kv, now: time.Now, log: zap.NewNop()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Initialize reads the persisted token and derives the session from it.
// A token that fails to decode or has expired is purged and the session
// stays anonymous; that is not an error. Only storage failures are
// returned. Ready is true once Initialize has run, whatever the outcome.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.ready = true }()
	return s.loadLocked(ctx)
}

// Revalidate re-runs the Initialize check against the persisted slot. Call
// it when another process may have changed the slot (a second client
// sharing the same state file or Redis prefix).
func (s *Store) Revalidate(ctx context.Context) error {
	return s.Initialize(ctx)
}

func (s *Store) loadLocked(ctx context.Context) error {
	raw, ok, err := s.kv.Get(ctx, storage.TokenKey)
	if err != nil {
		s.clearLocked()
		return fmt.Errorf("session: read token: %w", err)
	}
	if !ok || raw == "" {
		s.clearLocked()
		return nil
	}

	claims, err := token.Decode(raw)
	switch {
	case err != nil:
		s.log.Info("discarding undecodable persisted token", zap.Error(err))
		return s.purgeLocked(ctx)
	case token.IsExpired(claims, s.now()):
		s.log.Info("discarding expired persisted token",
			zap.String("sub", claims.Subject), zap.Time("exp", claims.ExpiresAt))
		return s.purgeLocked(ctx)
	}

	u := claims.User()
	s.token, s.user = raw, &u
	s.log.Debug("session restored", zap.String("sub", u.Email), zap.String("role", string(u.Role)))
	return nil
}

// Login adopts raw as the current token. An undecodable token leaves the
// session untouched. An expired one is rejected too, and additionally
// purges any persisted token and resets the session to anonymous.
func (s *Store) Login(ctx context.Context, raw string) error {
	claims, err := token.Decode(raw)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidLoginToken, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if token.IsExpired(claims, s.now()) {
		if perr := s.purgeLocked(ctx); perr != nil {
			s.log.Warn("purge after expired login failed", zap.Error(perr))
		}
		return fmt.Errorf("%w: %w", ErrInvalidLoginToken, ErrExpiredSession)
	}

	if err := s.kv.Set(ctx, storage.TokenKey, raw); err != nil {
		return fmt.Errorf("session: persist token: %w", err)
	}
	u := claims.User()
	s.token, s.user = raw, &u
	s.log.Info("logged in", zap.String("sub", u.Email), zap.String("role", string(u.Role)))
	return nil
}

// Logout clears the session and the persisted token. Calling it on an
// anonymous session is fine. The in-memory state is cleared even if the
// storage delete fails; that failure is returned.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.purgeLocked(ctx)
}

// Invalidate ends whatever session is current. The gateway calls it on
// every 401, whichever token the rejected request carried and whenever its
// response arrives. Reports whether a session was active.
func (s *Store) Invalidate(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		return false
	}
	if err := s.purgeLocked(ctx); err != nil {
		s.log.Warn("purge after authorization failure", zap.Error(err))
	}
	return true
}

func (s *Store) purgeLocked(ctx context.Context) error {
	s.clearLocked()
	if err := s.kv.Delete(ctx, storage.TokenKey); err != nil {
		return fmt.Errorf("session: delete token: %w", err)
	}
	return nil
}

func (s *Store) clearLocked() {
	s.token, s.user = "", nil
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the signed-in user, ok=false when anonymous.
func (s *Store) User() (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return model.User{}, false
	}
	return *s.user, true
}

func (s *Store) IsAuthenticated() bool {
	_, ok := s.User()
	return ok
}

func (s *Store) IsAdmin() bool {
	u, ok := s.User()
	return ok && u.IsAdmin()
}

func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := State{Token: s.token, Ready: s.ready}
	if s.user != nil {
		u := *s.user
		st.User = &u
	}
	return st
}
