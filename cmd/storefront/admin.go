package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/iliyamo/storefront/internal/catalog"
	"github.com/iliyamo/storefront/internal/model"
)

var errMissingFields = errors.New("Please fill in all required fields")

func newAdminCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage the catalog (admins only)",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cmd.Root().PersistentPreRunE(cmd, args); err != nil {
				return err
			}
			return a.requireAdmin()
		},
	}
	cmd.AddCommand(newAdminStatsCmd(a), newAdminCreateCmd(a), newAdminUpdateCmd(a), newAdminDeleteCmd(a))
	return cmd
}

func newAdminStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Inventory dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			products, err := a.loadProducts(cmd.Context())
			if err != nil {
				return err
			}
			st := catalog.Summarize(products)
			a.ui.title("Admin Dashboard")
			a.ui.table([]string{"Products", "Inventory Value", "Low Stock", "Out of Stock"}, [][]string{{
				strconv.Itoa(st.Products), money(st.InventoryValue), strconv.Itoa(st.LowStock), strconv.Itoa(st.OutOfStock),
			}})
			var attention []model.Product
			for _, p := range products {
				if p.Stock <= catalog.LowStockAlert {
					attention = append(attention, p)
				}
			}
			if len(attention) > 0 {
				a.ui.title("Needs restocking")
				a.ui.table([]string{"ID", "Name", "Category", "Price", "Stock"}, productRows(attention))
			}
			return nil
		},
	}
}

// productFlags are the editable product fields shared by create and update.
type productFlags struct {
	name, description, price, imageURL, category string
	stock                                        int
}

func (f *productFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.name, "name", "", "product name")
	fs.StringVar(&f.description, "description", "", "product description")
	fs.StringVar(&f.price, "price", "", "unit price, e.g. 19.99")
	fs.StringVar(&f.imageURL, "image-url", "", "product image URL")
	fs.StringVar(&f.category, "category", "", fmt.Sprintf("one of %v", catalog.Categories[1:]))
	fs.IntVar(&f.stock, "stock", 0, "units in stock")
}

// apply copies every flag the user set onto in.
func (f *productFlags) apply(fs *pflag.FlagSet, in *model.ProductInput) error {
	if fs.Changed("price") {
		price, err := decimal.NewFromString(strings.TrimPrefix(strings.TrimSpace(f.price), "$"))
		if err != nil {
			return fmt.Errorf("price %q is not a number", f.price)
		}
		in.Price = price
	}
	if fs.Changed("name") {
		in.Name = strings.TrimSpace(f.name)
	}
	if fs.Changed("description") {
		in.Description = f.description
	}
	if fs.Changed("image-url") {
		in.ImageURL = f.imageURL
	}
	if fs.Changed("category") {
		in.Category = strings.TrimSpace(f.category)
	}
	if fs.Changed("stock") {
		in.Stock = f.stock
	}
	return nil
}

func newAdminCreateCmd(a *app) *cobra.Command {
	var f productFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var in model.ProductInput
			if err := f.apply(cmd.Flags(), &in); err != nil {
				return err
			}
			if in.Name == "" || in.Category == "" || !cmd.Flags().Changed("price") {
				return errMissingFields
			}
			p, err := a.api.Products().Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			a.ui.success("Product created successfully")
			a.ui.muted("id %s", p.ID)
			return nil
		},
	}
	f.register(cmd.Flags())
	return cmd
}

func newAdminUpdateCmd(a *app) *cobra.Command {
	var f productFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a product; unset flags keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cur, err := a.api.Products().Get(ctx, args[0])
			if err != nil {
				return err
			}
			in := cur.ProductInput
			if err := f.apply(cmd.Flags(), &in); err != nil {
				return err
			}
			if in.Name == "" || in.Category == "" {
				return errMissingFields
			}
			if _, err := a.api.Products().Update(ctx, args[0], in); err != nil {
				return err
			}
			a.ui.success("Product updated successfully")
			return nil
		},
	}
	f.register(cmd.Flags())
	return cmd
}

func newAdminDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.api.Products().Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			a.ui.success("Product deleted successfully")
			return nil
		},
	}
}
