package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd(a *app) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Browse the catalog, manage a cart and administer products",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.v.BindPFlags(cmd.Root().PersistentFlags()); err != nil {
				return err
			}
			return a.setup(cmd.Context(), configPath)
		},
	}
	root.SetIn(a.in)
	root.SetOut(a.ui.out)
	root.SetErr(a.ui.errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "config file (default is storefront.yaml in the user config dir)")
	pf.String("api-url", "", "storefront API base URL")
	pf.String("state-backend", "", "where the session and cart are kept: sqlite, redis or memory")
	pf.String("state-path", "", "sqlite state file")
	pf.String("redis-addr", "", "redis address for the redis state backend")
	pf.String("redis-prefix", "", "key prefix for the redis state backend")
	pf.Duration("timeout", 0, "per-request timeout")
	pf.String("log-level", "", "debug, info, warn or error")
	pf.String("log-format", "", "console or json")
	pf.String("log-file", "", "also write logs to this file, rotated by size")

	root.AddCommand(
		newLoginCmd(a),
		newSignupCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newProductsCmd(a),
		newCartCmd(a),
		newAdminCmd(a),
	)
	return root
}
