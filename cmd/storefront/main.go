// Command storefront is a terminal client for the storefront API. It keeps
// the signed-in session and the shopping cart in a local state store, so
// both survive between invocations.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp(os.Stdin, os.Stdout, os.Stderr)
	err := newRootCmd(a).ExecuteContext(ctx)
	a.close()
	if err != nil {
		a.report(err)
		stop()
		os.Exit(1)
	}
}
