package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aman-cerp/semindex/internal/mcpserver"
)

func newServeCmd() *cobra.Command {
	var transport string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP tool-call server",
		Long: `Starts the MCP server exposing index_repository, list_indexed_repos, and
search_codebase tools over the given transport. Stdout is reserved
exclusively for JSON-RPC traffic once the server starts.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			wd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("resolve working directory: %w", err)
			}

			d, closeDeps, err := buildDeps(ctx, wd)
			if err != nil {
				return err
			}
			defer closeDeps()

			if transport == "" {
				transport = d.cfg.Server.Transport
			}

			srv, err := mcpserver.NewServer(d.indexer, d.store, d.query, d.cfg)
			if err != nil {
				return fmt.Errorf("create mcp server: %w", err)
			}

			return srv.Serve(ctx, transport)
		},
	}

	cmd.Flags().StringVar(&transport, "transport", "", "transport to serve on (stdio)")

	return cmd
}
