package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Aman-CERP/ragindex/internal/ui"
	"github.com/Aman-CERP/ragindex/pkg/ragindex"
)

func newStatsCmd(g *globalOptions) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show index statistics",
		Long: `Show file and chunk counts, index size against the advisory limit,
and when the index was last built. A missing or corrupt index reports
zeros.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info, err := statusInfo(g)
			if err != nil {
				return err
			}
			r := ui.NewStatusRenderer(cmd.OutOrStdout(), !g.useColor(cmd.OutOrStdout()))
			if jsonOutput {
				return r.RenderJSON(info)
			}
			return r.Render(info)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func newStatusCmd(g *globalOptions) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check whether a usable index exists",
		Long: `Report whether a usable index exists. Exits with status 1 when
there is no index, the index is corrupt, or it holds no chunks.`,
		Example: `  ragindex status -q || ragindex index`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := g.service()
			if err != nil {
				return err
			}
			indexed := svc.IsIndexed()
			if !quiet {
				out := g.writer(cmd.OutOrStdout())
				if indexed {
					out.Successf("Indexed (%s)", svc.IndexPath())
				} else {
					out.Warningf("Not indexed (%s)", svc.IndexPath())
				}
			}
			if !indexed {
				return errSilent
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Print nothing; only set the exit status")

	return cmd
}

func statusInfo(g *globalOptions) (ui.StatusInfo, error) {
	svc, err := g.service()
	if err != nil {
		return ui.StatusInfo{}, err
	}
	return toStatusInfo(svc), nil
}

func toStatusInfo(svc *ragindex.Service) ui.StatusInfo {
	stats := svc.Stats()
	return ui.StatusInfo{
		IndexPath:         svc.IndexPath(),
		Indexed:           stats.TotalChunks > 0,
		TotalFiles:        stats.TotalFiles,
		TotalChunks:       stats.TotalChunks,
		IndexSizeBytes:    stats.IndexSizeBytes,
		MaxIndexSizeBytes: stats.MaxIndexSizeBytes,
		LastIndexed:       stats.LastIndexed,
	}
}
