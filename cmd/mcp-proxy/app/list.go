package app

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/hughescr/mcp-proxy-processor/internal/app"
)

// newListGroupsCommand implements the `list-groups` subcommand: read-only
// introspection for scripting or for the admin UI to shell out to.
func newListGroupsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list-groups",
		Short: "list the groups defined in groups.json",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, gf, err := app.LoadConfig()
			if err != nil {
				return err
			}
			names := app.ListGroups(gf)
			sort.Strings(names)
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
}

// newListBackendsCommand implements the `list-backends` subcommand.
func newListBackendsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list-backends",
		Short: "list the backends defined in backend-servers.json",
		RunE: func(cmd *cobra.Command, _ []string) error {
			bs, _, err := app.LoadConfig()
			if err != nil {
				return err
			}
			names := app.ListBackends(bs)
			sort.Strings(names)
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
}
