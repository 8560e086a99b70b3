package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hughescr/mcp-proxy-processor/internal/app"
)

// newValidateCommand implements the `validate` subcommand: load and
// schema/invariant-check both config files without starting any backend
// process.
func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "validate backend-servers.json and groups.json without starting any backend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			bs, gf, err := app.LoadConfig()
			if err != nil {
				return err
			}
			if err := app.Validate(bs, gf); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "config OK")
			return nil
		},
	}
}
