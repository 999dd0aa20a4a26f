package handler // handler defines http handlers

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/storefront/internal/middleware"
	"github.com/iliyamo/storefront/internal/model"
	"github.com/iliyamo/storefront/internal/queue"
)

// requestTimeout bounds every repository call made by a handler.
const requestTimeout = 5 * time.Second

// EventPublisher sends domain events to the broker.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.Event) error
}

// CachePurger drops cached product responses after a catalog write.
type CachePurger interface {
	Purge(ctx context.Context) error
}

// emitter publishes events off the request path. Broker trouble never
// fails a request that already succeeded.
type emitter struct {
	events EventPublisher
	log    *zap.Logger
}

func (em emitter) emit(ev queue.Event) {
	if em.events == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if err := em.events.Publish(ctx, ev); err != nil {
			em.log.Warn("event publish failed", zap.String("type", ev.Type), zap.Error(err))
		}
	}()
}

// canAccessCart reports whether the caller may read or change the cart
// of customerID: customers only their own, admins any.
func canAccessCart(c echo.Context, customerID string) bool {
	return middleware.CurrentRole(c) == model.RoleAdmin || middleware.CurrentEmail(c) == customerID
}

func nopIfNil(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}
