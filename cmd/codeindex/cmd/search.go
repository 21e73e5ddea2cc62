package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aman-cerp/semindex/internal/retrieval"
)

func newSearchCmd() *cobra.Command {
	var (
		repoIDs     []string
		crossRepo   bool
		maxFiles    int
		maxSnippets int
		importDepth int
		threshold   float64
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search an indexed codebase",
		Long: `Runs the retrieval pipeline against already-indexed repositories: resolves
scope, performs a two-level vector search, resolves symbols, expands import
chains, and prints a deduplicated, token-budgeted set of results.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.TrimSpace(args[0])
			if len(query) < 2 {
				return fmt.Errorf("query must be at least 2 characters")
			}

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

			mode := retrieval.ModeRepository
			if crossRepo || len(repoIDs) == 0 {
				mode = retrieval.ModeGlobal
			}

			scopeIn := retrieval.ScopeInput{
				Mode:      mode,
				RepoIDs:   repoIDs,
				CrossRepo: crossRepo,
			}

			opts := retrieval.Options{
				Vector: retrieval.VectorOptions{
					MaxFiles:            maxFiles,
					MaxSnippets:         maxSnippets,
					SimilarityThreshold: threshold,
				},
				Import: retrieval.ImportOptions{
					Depth: importDepth,
				},
				TokenBudget: d.cfg.Search.TokenBudget,
			}

			result, err := retrieval.Search(ctx, d.store, d.query, scopeIn, query, opts)
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d files, %d chunks (%d after dedup), %d symbols, %dms\n",
				result.Metadata.FilesRetrieved, result.Metadata.ChunksRetrieved,
				result.Metadata.ChunksAfterDedup, result.Metadata.SymbolsResolved, result.Metadata.QueryTimeMS)

			for _, loc := range result.CodeLocations {
				fmt.Fprintf(cmd.OutOrStdout(), "\n--- %s:%d-%d (similarity %.3f) ---\n",
					loc.Chunk.FilePath, loc.Chunk.StartLine, loc.Chunk.EndLine, loc.Similarity)
				fmt.Fprintln(cmd.OutOrStdout(), loc.Chunk.Content)
			}

			for _, w := range result.Warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning [%s]: %s\n", w.Kind, w.Message)
			}

			return nil
		},
	}

	cmd.Flags().StringSliceVar(&repoIDs, "repo", nil, "restrict the search to these repository IDs")
	cmd.Flags().BoolVar(&crossRepo, "cross-repo", false, "allow results from multiple repositories")
	cmd.Flags().IntVar(&maxFiles, "max-files", 0, "maximum files to retrieve (1-50)")
	cmd.Flags().IntVar(&maxSnippets, "max-snippets", 0, "maximum chunk snippets to retrieve (1-100)")
	cmd.Flags().IntVar(&importDepth, "import-depth", 0, "import-chain expansion depth (1-3)")
	cmd.Flags().Float64Var(&threshold, "similarity-threshold", 0, "minimum file-level cosine similarity (0-1)")

	return cmd
}
