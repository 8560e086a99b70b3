// Package app provides the entry point for the mcp-proxy command-line
// application: serving a group as a virtual MCP server, and the read-only
// introspection subcommands the (separately maintained) admin UI shells out
// to.
package app

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hughescr/mcp-proxy-processor/internal/logging"
)

// NewRootCmd creates the root command for the mcp-proxy CLI.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mcp-proxy",
		Short: "mcp-proxy aggregates MCP backend servers into curated virtual servers",
		Long: `mcp-proxy sits between a single MCP client and a fleet of stdio MCP backend
servers. It exposes a curated, possibly-renamed subset of their tools,
resources, and prompts as one virtual server, per a group configuration.`,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			logging.Initialize()
		},
		RunE: rootRunE,
	}

	rootCmd.PersistentFlags().StringP("serve", "s", "", "expose the named group as an MCP server over stdio")
	if err := viper.BindPFlag("serve", rootCmd.PersistentFlags().Lookup("serve")); err != nil {
		logging.Errorf("error binding serve flag: %v", err)
	}

	rootCmd.PersistentFlags().BoolP("admin", "a", false, "launch the interactive admin UI")
	if err := viper.BindPFlag("admin", rootCmd.PersistentFlags().Lookup("admin")); err != nil {
		logging.Errorf("error binding admin flag: %v", err)
	}

	rootCmd.AddCommand(newValidateCommand())
	rootCmd.AddCommand(newListGroupsCommand())
	rootCmd.AddCommand(newListBackendsCommand())
	rootCmd.AddCommand(newReloadCommand())

	return rootCmd
}

// rootRunE implements the two mutually exclusive top-level modes: --serve
// <group> and --admin. Running with both is a usage error (exit code 2);
// running with neither prints help.
func rootRunE(cmd *cobra.Command, _ []string) error {
	serveGroup := viper.GetString("serve")
	adminMode := viper.GetBool("admin")

	switch {
	case serveGroup != "" && adminMode:
		return usageError("--serve and --admin are mutually exclusive")
	case serveGroup != "":
		return runServe(cmd, serveGroup)
	case adminMode:
		return runAdmin(cmd)
	default:
		return cmd.Help()
	}
}

// usageErr tags an error that should exit with code 2 rather than 1.
type usageErr struct{ msg string }

func (e *usageErr) Error() string { return e.msg }

func usageError(msg string) error { return &usageErr{msg: msg} }

// IsUsageError reports whether err should map to exit code 2.
func IsUsageError(err error) bool {
	_, ok := err.(*usageErr)
	return ok
}

func runAdmin(_ *cobra.Command) error {
	return fmt.Errorf("the interactive admin UI is a separate collaborator; run it directly")
}
