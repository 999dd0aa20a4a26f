// Package queue defines message payloads exchanged over the message broker.
package queue

import (
	"fmt"
	"strings"
	"time"
)

// EventsQueue is the durable queue carrying catalog and cart events.
const EventsQueue = "storefront.events"

// Event types.
const (
	ProductCreated  = "product.created"
	ProductUpdated  = "product.updated"
	ProductDeleted  = "product.deleted"
	CartItemAdded   = "cart.item_added"
	CartItemRemoved = "cart.item_removed"
)

// Event is published after a successful catalog or cart write. It carries
// enough to produce an audit line without querying the primary store.
type Event struct {
	Type        string `json:"type"`
	Actor       string `json:"actor"`
	ProductID   string `json:"product_id,omitempty"`
	ProductName string `json:"product_name,omitempty"`
	ItemID      string `json:"item_id,omitempty"`
	Quantity    int    `json:"quantity,omitempty"`
	Stock       int    `json:"stock,omitempty"`
	OccurredAt  string `json:"occurred_at"`
}

// NewEvent stamps an event of type typ performed by actor.
func NewEvent(typ, actor string) Event {
	return Event{Type: typ, Actor: actor, OccurredAt: time.Now().UTC().Format(time.RFC3339)}
}

// AuditLine renders ev as one human-friendly log line.
func (ev Event) AuditLine() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s | actor=%s", ev.OccurredAt, ev.Type, ev.Actor)
	if ev.ProductID != "" {
		fmt.Fprintf(&b, " | product_id=%s", ev.ProductID)
	}
	if ev.ProductName != "" {
		fmt.Fprintf(&b, " | product=%q", ev.ProductName)
	}
	if ev.ItemID != "" {
		fmt.Fprintf(&b, " | item_id=%s", ev.ItemID)
	}
	if ev.Quantity != 0 {
		fmt.Fprintf(&b, " | quantity=%d", ev.Quantity)
	}
	if strings.HasPrefix(ev.Type, "product.") && ev.Type != ProductDeleted {
		fmt.Fprintf(&b, " | stock=%d", ev.Stock)
	}
	b.WriteByte('\n')
	return b.String()
}
