package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aman-cerp/semindex/internal/indexer"
	"github.com/aman-cerp/semindex/internal/reindex"
	"github.com/aman-cerp/semindex/internal/store"
)

func newIndexCmd() *cobra.Command {
	var (
		force    bool
		repoType string
		repoID   string
		version  string
	)

	cmd := &cobra.Command{
		Use:   "index [path]",
		Short: "Index a repository for retrieval",
		Long: `Scans the repository at path (default: current directory), chunks and
embeds its source files, and persists the result for retrieval.

Re-running index on an already-indexed repository performs an incremental
update: only new, modified, and deleted files are reprocessed. Use --force
to clear the existing index and rebuild from scratch.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			path := "."
			if len(args) > 0 {
				path = args[0]
			}
			absPath, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}

			d, closeDeps, err := buildDeps(ctx, absPath)
			if err != nil {
				return err
			}
			defer closeDeps()

			opts := indexer.FromConfig(d.cfg)
			opts.Reindex = reindex.Options{
				Force:          force,
				Version:        version,
				CompareVersion: version != "",
			}
			if repoID != "" {
				opts.RepoID = repoID
			}

			rt := store.RepoType(repoType)
			if rt == "" {
				rt = store.RepoTypeMonolithic
			}

			result, err := d.indexer.Index(ctx, absPath, rt, opts)
			if err != nil {
				return fmt.Errorf("index: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Repository Indexing Complete\n")
			fmt.Fprintf(cmd.OutOrStdout(), "  repo_id:  %s\n", result.RepoID)
			fmt.Fprintf(cmd.OutOrStdout(), "  reason:   %s\n", result.Reason)
			fmt.Fprintf(cmd.OutOrStdout(), "  files:    %d scanned, %d new, %d modified, %d unchanged, %d deleted\n",
				result.FilesScanned, result.FilesNew, result.FilesModified, result.FilesUnchanged, result.FilesDeleted)
			fmt.Fprintf(cmd.OutOrStdout(), "  chunks:   %d\n", result.ChunksIndexed)
			fmt.Fprintf(cmd.OutOrStdout(), "  symbols:  %d\n", result.SymbolsIndexed)
			if result.WorkspacesDetected > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "  workspaces: %d\n", result.WorkspacesDetected)
			}
			if result.ServicesDetected > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "  services: %d\n", result.ServicesDetected)
			}
			for _, w := range result.Warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "  warning: %s\n", w)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "clear the existing index and rebuild from scratch")
	cmd.Flags().StringVar(&repoType, "repo-type", "", "monolithic, monorepo, microservice, library, reference, or documentation")
	cmd.Flags().StringVar(&repoID, "repo-id", "", "override the derived repository identifier")
	cmd.Flags().StringVar(&version, "version", "", "version to compare against the stored version for reindex decisions")

	return cmd
}
