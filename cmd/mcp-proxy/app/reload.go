package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hughescr/mcp-proxy-processor/internal/app"
)

// newReloadCommand signals a running `mcp-proxy --serve` process to reload
// and re-validate config and atomically swap in a freshly composed catalog,
// without disturbing already-ready backend sessions.
func newReloadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "tell a running mcp-proxy --serve process to reload its config",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.TriggerReload(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "reload signal sent")
			return nil
		},
	}
}
