package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/ragindex/internal/ui"
)

func newScanCmd(g *globalOptions) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "scan [path...]",
		Short: "Preview which files would be indexed",
		Long: `List the files an index build would consider, without reading
or writing the index.

With no paths, the configured default roots are scanned. Sensitive,
binary and oversized files are never listed. Files marked "empty" are
eligible but would produce no chunks.`,
		Example: `  ragindex scan
  ragindex scan ~/.config/git --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := g.service()
			if err != nil {
				return err
			}

			records := svc.Scan(args)
			if jsonOutput {
				return g.writer(cmd.OutOrStdout()).JSON(records)
			}

			out := g.writer(cmd.OutOrStdout())
			if len(records) == 0 {
				out.Warning("No eligible files found")
				return nil
			}

			indexable := 0
			for _, r := range records {
				state := ""
				if r.Indexable {
					indexable++
				} else {
					state = "  (empty)"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%9s  %s%s\n", ui.FormatBytes(r.Size), r.Path, state)
			}
			out.Newline()
			out.Statusf("", "%d files, %d indexable", len(records), indexable)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
