package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iliyamo/storefront/internal/cart"
	"github.com/iliyamo/storefront/internal/gateway"
	"github.com/iliyamo/storefront/internal/model"
)

func newCartCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show and change the local cart",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			a.showCart()
			return nil
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show cart lines and the order summary",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				a.showCart()
				return nil
			},
		},
		newCartAddCmd(a),
		newCartUpdateCmd(a),
		newCartRemoveCmd(a),
		newCartClearCmd(a),
		newCartSyncCmd(a),
	)
	return cmd
}

func (a *app) showCart() {
	lines := a.cart.Lines()
	if len(lines) == 0 {
		a.ui.title("Your cart is empty")
		a.ui.muted("Add some products to get started.")
		return
	}
	a.ui.title(fmt.Sprintf("Shopping Cart (%d items)", a.cart.TotalItems()))
	rows := make([][]string, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, []string{l.Product.ID, l.Product.Name, money(l.Product.Price), strconv.Itoa(l.Quantity), money(l.Subtotal())})
	}
	a.ui.table([]string{"ID", "Product", "Price", "Qty", "Subtotal"}, rows)

	sum := a.cart.Summary()
	a.ui.line("Subtotal: %s", money(sum.Subtotal))
	if sum.Shipping.IsZero() {
		a.ui.line("Shipping: %s", successStyle.Render("FREE"))
	} else {
		a.ui.line("Shipping: %s", money(sum.Shipping))
	}
	a.ui.line("Tax:      %s", money(sum.Tax))
	a.ui.line("Total:    %s", priceStyle.Render(money(sum.Total)))
}

func newCartAddCmd(a *app) *cobra.Command {
	var qty int
	cmd := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add a product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.loadProduct(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if p.Stock <= 0 {
				return fmt.Errorf("%s is out of stock", p.Name)
			}
			n := cart.ClampQuantity(qty, p.Stock)
			if n != qty {
				a.ui.warn("Quantity adjusted to %d (%d available)", n, p.Stock)
			}
			a.cart.AddToCart(p, n)
			if err := a.saveCart(cmd.Context()); err != nil {
				return err
			}
			a.ui.success("Added %d %s to cart", n, p.Name)
			return nil
		},
	}
	cmd.Flags().IntVarP(&qty, "qty", "q", 1, "quantity")
	return cmd
}

func newCartUpdateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "update <product-id> <quantity>",
		Short: "Set a line's quantity; zero or less removes it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("quantity %q is not a number", args[1])
			}
			if _, ok := a.cart.Line(args[0]); !ok {
				return fmt.Errorf("product %s is not in your cart", args[0])
			}
			a.cart.UpdateQuantity(args[0], qty)
			if err := a.saveCart(cmd.Context()); err != nil {
				return err
			}
			if l, ok := a.cart.Line(args[0]); ok {
				a.ui.success("%s quantity set to %d", l.Product.Name, l.Quantity)
			} else {
				a.ui.success("Removed from cart")
			}
			return nil
		},
	}
}

func newCartRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <product-id>",
		Short: "Remove a line from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, ok := a.cart.Line(args[0])
			if !ok {
				return fmt.Errorf("product %s is not in your cart", args[0])
			}
			a.cart.RemoveFromCart(args[0])
			if err := a.saveCart(cmd.Context()); err != nil {
				return err
			}
			a.ui.success("Removed %s from cart", l.Product.Name)
			return nil
		},
	}
}

func newCartClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.cart.ClearCart()
			if err := a.saveCart(cmd.Context()); err != nil {
				return err
			}
			a.ui.success("Cart cleared")
			return nil
		},
	}
}

// newCartSyncCmd replaces the signed-in customer's server cart with the
// local lines and prints what the server now holds. Lines are pushed one
// product at a time and server items for products no longer in the local
// cart are dropped last. A line the server refuses does not stop the rest;
// the returned error names every line left unsynced.
func newCartSyncCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Replace your server cart with the local one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := a.requireUser()
			if err != nil {
				return err
			}
			lines := a.cart.Lines()
			if len(lines) == 0 {
				a.ui.muted("Nothing to sync.")
				return nil
			}
			ctx := cmd.Context()
			existing, err := a.api.Cart().Get(ctx, u.Email)
			if err != nil {
				return err
			}
			onServer := make(map[string]model.CartItem, len(existing))
			for _, it := range existing {
				onServer[it.ProductID] = it
			}

			var unsynced []string
			for _, l := range lines {
				err := a.syncLine(ctx, u.Email, l, onServer)
				delete(onServer, l.Product.ID)
				if err == nil {
					continue
				}
				var apiErr *gateway.APIError
				if !errors.As(err, &apiErr) {
					return fmt.Errorf("sync %s: %w", l.Product.Name, err)
				}
				a.log.Warn("cart line not synced", zap.String("product", l.Product.ID), zap.Error(err))
				unsynced = append(unsynced, fmt.Sprintf("%s (%s)", l.Product.Name, apiErr.Message))
			}
			for _, stale := range onServer {
				if err := a.api.Cart().Remove(ctx, stale.ID); err != nil {
					return fmt.Errorf("remove %s from server cart: %w", stale.ProductName, err)
				}
			}

			items, err := a.api.Cart().Get(ctx, u.Email)
			if err != nil {
				return err
			}
			a.ui.success("Synced %d lines", len(lines)-len(unsynced))
			rows := make([][]string, 0, len(items))
			for _, it := range items {
				rows = append(rows, []string{it.ID, it.ProductName, money(it.Price), strconv.Itoa(it.Quantity)})
			}
			a.ui.table([]string{"Item", "Product", "Price", "Qty"}, rows)
			if len(unsynced) > 0 {
				return fmt.Errorf("not synced: %s", strings.Join(unsynced, ", "))
			}
			return nil
		},
	}
}

// syncLine makes the server hold exactly l. The server adds to an existing
// item for the same product, so a differing item is removed first.
func (a *app) syncLine(ctx context.Context, customerID string, l model.CartLine, onServer map[string]model.CartItem) error {
	if it, ok := onServer[l.Product.ID]; ok {
		if it.Quantity == l.Quantity {
			return nil
		}
		if err := a.api.Cart().Remove(ctx, it.ID); err != nil {
			return err
		}
	}
	_, err := a.api.Cart().Add(ctx, model.AddCartItemRequest{
		CustomerID: customerID,
		ProductID:  l.Product.ID,
		Quantity:   l.Quantity,
	})
	return err
}
