package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/ragindex/internal/index"
	"github.com/Aman-CERP/ragindex/internal/ui"
)

func newIndexCmd(g *globalOptions) *cobra.Command {
	var (
		noTUI      bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "index [path...]",
		Short: "Build the index",
		Long: `Resolve, read and chunk configuration files and overwrite the index.

With no paths, the configured default roots are indexed. Unreadable
files are skipped and reported; the build fails only when nothing can
be indexed or the index cannot be written, in which case the previous
index is left untouched.`,
		Example: `  ragindex index
  ragindex index ~/.gitconfig ~/.config/nvim
  ragindex index --no-tui`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(cmd, g, args, noTUI, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&noTUI, "no-tui", false, "Disable TUI mode, use plain text output")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the build result as JSON")

	return cmd
}

func runIndex(cmd *cobra.Command, g *globalOptions, paths []string, noTUI, jsonOutput bool) error {
	svc, err := g.service()
	if err != nil {
		return err
	}

	if jsonOutput {
		res := svc.Build(paths, nil)
		if err := g.writer(cmd.OutOrStdout()).JSON(res); err != nil {
			return err
		}
		if !res.Success {
			return errSilent
		}
		return nil
	}

	uiCfg := ui.NewConfig(cmd.OutOrStdout(),
		ui.WithForcePlain(noTUI),
		ui.WithNoColor(!g.useColor(cmd.OutOrStdout())))
	renderer := ui.NewRenderer(uiCfg)
	if err := renderer.Start(cmd.Context()); err != nil {
		slog.Warn("failed to start progress renderer", slog.String("error", err.Error()))
	}

	bridge := &progressBridge{renderer: renderer}
	summary, err := svc.Index(paths, bridge)
	if err != nil {
		_ = renderer.Stop()
		return err
	}

	renderer.Complete(ui.CompletionStats{
		Files:     summary.TotalFiles,
		Chunks:    summary.TotalChunks,
		Skipped:   summary.Skipped,
		Duration:  summary.Duration,
		IndexPath: summary.IndexPath,
		Warnings:  bridge.warnings,
	})
	return renderer.Stop()
}

// progressBridge forwards build events to a renderer.
type progressBridge struct {
	renderer ui.Renderer
	warnings int
}

// Notify implements index.ProgressSink.
func (b *progressBridge) Notify(e index.Event) error {
	if e.Err != nil {
		warn := e.Stage == index.StageWrite
		if warn {
			b.warnings++
		}
		b.renderer.AddError(ui.ErrorEvent{File: e.File, Err: e.Err, IsWarn: warn})
		return nil
	}

	b.renderer.UpdateProgress(ui.ProgressEvent{
		Stage:       uiStage(e.Stage),
		Current:     e.Current,
		Total:       e.Total,
		CurrentFile: e.File,
		Message:     e.Message,
	})
	return nil
}

func uiStage(s index.Stage) ui.Stage {
	switch s {
	case index.StageResolve:
		return ui.StageResolving
	case index.StageWrite:
		return ui.StageWriting
	case index.StageDone:
		return ui.StageComplete
	default:
		return ui.StageReading
	}
}
