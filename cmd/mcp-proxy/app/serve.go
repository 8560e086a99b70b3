package app

import (
	"github.com/spf13/cobra"

	"github.com/hughescr/mcp-proxy-processor/internal/app"
	"github.com/hughescr/mcp-proxy-processor/internal/logging"
)

// runServe implements `mcp-proxy --serve <group>`.
func runServe(cmd *cobra.Command, groupName string) error {
	ctx := cmd.Context()
	logging.Infof("starting group %q", groupName)
	if err := app.Serve(ctx, groupName); err != nil {
		return err
	}
	logging.Infof("group %q shut down cleanly", groupName)
	return nil
}
