package cmd

import "github.com/spf13/cobra"

// newServeCmd is an explicit alias of the root command's default
// action, matching the teacher's split between a smart-default root
// and a named serve subcommand.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server over stdio",
		RunE:  runServe,
	}
}
