package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	ragerrors "github.com/Aman-CERP/ragindex/internal/errors"
)

// snippetLines caps how much of each chunk is printed in text mode.
const snippetLines = 6

func newSearchCmd(g *globalOptions) *cobra.Command {
	var (
		limit      int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the index",
		Long: `Rank indexed chunks against a free-text query.

Query words shorter than two characters are ignored. Chunks matching
more distinct query words always rank above chunks matching fewer.`,
		Example: `  ragindex search "git alias"
  ragindex search EDITOR -n 3
  ragindex search "ssh host" --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, g, strings.Join(args, " "), limit, jsonOutput)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of results (default from config)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func runSearch(cmd *cobra.Command, g *globalOptions, query string, limit int, jsonOutput bool) error {
	svc, err := g.service()
	if err != nil {
		return err
	}
	out := g.writer(cmd.OutOrStdout())

	results := svc.Search(query, limit)
	slog.Info("search_complete", slog.String("query", query), slog.Int("results", len(results)))

	if jsonOutput {
		return out.JSON(results)
	}

	if len(results) == 0 {
		if !svc.IsIndexed() {
			return ragerrors.New(ragerrors.ErrCodeIndexNotFound, "No index found", nil).
				WithSuggestion("Run 'ragindex index' first")
		}
		out.Warningf("No results for %q", query)
		return nil
	}

	for i, r := range results {
		out.Heading(formatHit(i+1, r.FilePath, r.ChunkIndex, r.RelevanceScore))
		out.Snippet(r.Text, snippetLines)
		out.Newline()
	}
	return nil
}

func formatHit(rank int, path string, chunk int, score float64) string {
	return fmt.Sprintf("%d. %s [chunk %d] (score %.3f)", rank, path, chunk, score)
}
