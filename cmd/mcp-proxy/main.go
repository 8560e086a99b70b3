// Package main is the entry point for mcp-proxy.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hughescr/mcp-proxy-processor/cmd/mcp-proxy/app"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if app.IsUsageError(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
