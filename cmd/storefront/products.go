package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iliyamo/storefront/internal/catalog"
	"github.com/iliyamo/storefront/internal/gateway"
	"github.com/iliyamo/storefront/internal/model"
)

func newProductsCmd(a *app) *cobra.Command {
	var search, category, sortBy string
	cmd := &cobra.Command{
		Use:   "products",
		Short: "List the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := catalog.ParseSortKey(sortBy)
			if err != nil {
				return err
			}
			all, err := a.loadProducts(cmd.Context())
			if err != nil {
				return err
			}
			shown := catalog.Project(all, search, category, key)
			a.ui.title(fmt.Sprintf("Products (%d of %d)", len(shown), len(all)))
			if len(shown) == 0 {
				a.ui.muted("No products match your filters.")
				return nil
			}
			a.ui.table([]string{"ID", "Name", "Category", "Price", "Stock"}, productRows(shown))
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "match name or description")
	cmd.Flags().StringVarP(&category, "category", "c", catalog.AllCategories, fmt.Sprintf("one of %v", catalog.Categories))
	cmd.Flags().StringVar(&sortBy, "sort", "name", "name, price-low or price-high")
	cmd.AddCommand(newProductShowCmd(a))
	return cmd
}

func newProductShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.loadProduct(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.ui.title(p.Name)
			a.ui.muted("%s", p.Category)
			a.ui.line("%s", priceStyle.Render(money(p.Price)))
			if p.Description != "" {
				a.ui.line("%s", p.Description)
			}
			a.ui.line("Stock: %s", stockBadge(p))
			if p.ImageURL != "" {
				a.ui.muted("Image: %s", p.ImageURL)
			}
			if line, ok := a.cart.Line(p.ID); ok {
				a.ui.muted("In your cart: %d", line.Quantity)
			}
			return nil
		},
	}
}

// loadProducts fetches the catalog, falling back to the bundled sample
// catalog when the API cannot be reached. A rejected session is not
// papered over.
func (a *app) loadProducts(ctx context.Context) ([]model.Product, error) {
	list, err := a.api.Products().List(ctx)
	if err == nil {
		return list, nil
	}
	if !gateway.IsUnavailable(err) {
		return nil, err
	}
	a.log.Warn("product list unavailable, using sample catalog", zap.Error(err))
	a.ui.warn("Showing the sample catalog: %v", err)
	return catalog.SampleProducts(), nil
}

func (a *app) loadProduct(ctx context.Context, id string) (model.Product, error) {
	p, err := a.api.Products().Get(ctx, id)
	if err == nil {
		return p, nil
	}
	var apiErr *gateway.APIError
	if !gateway.IsUnavailable(err) || errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return model.Product{}, err
	}
	for _, s := range catalog.SampleProducts() {
		if s.ID == id {
			a.ui.warn("Showing the sample catalog entry: %v", err)
			return s, nil
		}
	}
	return model.Product{}, fmt.Errorf("product %s: %w", id, err)
}
