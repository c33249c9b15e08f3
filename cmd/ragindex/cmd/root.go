// Package cmd provides the CLI commands for ragindex.
package cmd

import (
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/ragindex/internal/config"
	ragerrors "github.com/Aman-CERP/ragindex/internal/errors"
	"github.com/Aman-CERP/ragindex/internal/logging"
	"github.com/Aman-CERP/ragindex/internal/output"
	"github.com/Aman-CERP/ragindex/internal/profiling"
	"github.com/Aman-CERP/ragindex/internal/ui"
	"github.com/Aman-CERP/ragindex/pkg/ragindex"
	"github.com/Aman-CERP/ragindex/pkg/version"
)

// errSilent signals a non-zero exit whose message was already printed.
var errSilent = stderrors.New("silent exit")

// globalOptions holds persistent flags and the state built from them.
type globalOptions struct {
	configPath string
	indexDir   string
	debug      bool
	noColor    bool
	profile    profiling.Options

	cfg      *config.Config
	logger   *slog.Logger
	cleanup  func()
	profiler *profiling.Session
}

// NewRootCmd creates the root command for the ragindex CLI.
func NewRootCmd() *cobra.Command {
	cmd, _ := newRootCmd()
	return cmd
}

func newRootCmd() (*cobra.Command, *globalOptions) {
	g := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "ragindex",
		Short: "Index and search local configuration files",
		Long: `ragindex builds a lexical index over whitelisted configuration files
(shell rc files, ~/.config, selected /etc files) and answers free-text
queries with ranked snippets.

Everything runs locally. Sensitive, binary and oversized files are never
indexed.

Run 'ragindex index' once, then 'ragindex search <query>'.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return g.setup(false)
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			g.teardown()
			return nil
		},
	}

	cmd.SetVersionTemplate("ragindex version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&g.configPath, "config", "", "Config file (default ~/.config/ragindex/config.yaml)")
	cmd.PersistentFlags().StringVar(&g.indexDir, "index-dir", "", "Directory holding rag_index/ (overrides config)")
	cmd.PersistentFlags().BoolVar(&g.debug, "debug", false, "Enable debug logging to ~/.config/ragindex/logs/")
	cmd.PersistentFlags().BoolVar(&g.noColor, "no-color", false, "Disable colored output")

	cmd.PersistentFlags().StringVar(&g.profile.CPU, "profile-cpu", "", "Write CPU profile to file")
	cmd.PersistentFlags().StringVar(&g.profile.Heap, "profile-mem", "", "Write memory profile to file")
	cmd.PersistentFlags().StringVar(&g.profile.Trace, "profile-trace", "", "Write execution trace to file")

	cmd.AddCommand(newScanCmd(g))
	cmd.AddCommand(newIndexCmd(g))
	cmd.AddCommand(newSearchCmd(g))
	cmd.AddCommand(newStatsCmd(g))
	cmd.AddCommand(newStatusCmd(g))
	cmd.AddCommand(newClearCmd(g))
	cmd.AddCommand(newConfigCmd(g))
	cmd.AddCommand(newLogsCmd(g))
	cmd.AddCommand(newVersionCmd())

	return cmd, g
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	cmd, g := newRootCmd()
	return run(cmd, g, os.Stderr)
}

func run(cmd *cobra.Command, g *globalOptions, stderr io.Writer) int {
	// PersistentPostRunE is skipped when a command fails.
	defer g.teardown()

	err := cmd.Execute()
	if err == nil {
		return 0
	}
	if stderrors.Is(err, errSilent) {
		return 1
	}

	if g.logger != nil {
		attrs := make([]any, 0, 8)
		for k, v := range ragerrors.FormatForLog(err) {
			attrs = append(attrs, slog.Any(k, v))
		}
		g.logger.Error("command_failed", attrs...)
	}

	_, _ = fmt.Fprint(stderr, formatError(err, g.debug))
	return 1
}

// formatError renders ragindex errors with hint and code, anything else
// (flag parsing, cobra usage) as a single line. debug adds cause and details.
func formatError(err error, debug bool) string {
	var re *ragerrors.RagError
	if !stderrors.As(err, &re) {
		return fmt.Sprintf("Error: %v\n", err)
	}
	if debug {
		return ragerrors.FormatForUser(err, true) + "\n"
	}
	return ragerrors.FormatForCLI(err)
}

// setup loads configuration and starts file logging. When lenient, an
// unloadable config falls back to the defaults so it can be repaired.
func (g *globalOptions) setup(lenient bool) error {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		if !lenient {
			return ragerrors.ConfigError("Cannot load configuration", err).
				WithSuggestion("Fix the config file or run 'ragindex config init --force'")
		}
		cfg = config.NewConfig()
	}
	if g.indexDir != "" {
		cfg.IndexDir = g.indexDir
	}
	g.cfg = cfg

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Logging.Level
	if g.debug {
		logCfg = logging.DebugConfig()
	}

	logger, cleanup, err := logging.Setup(logCfg)
	if err != nil {
		// File logging is best-effort; warnings still reach stderr.
		logger, cleanup = logging.NewStderrLogger(cfg.Logging.Level), func() {}
	}
	g.logger = logger
	g.cleanup = cleanup
	slog.SetDefault(logger)

	if g.debug {
		logger.Info("debug_logging_enabled",
			slog.String("log_file", logCfg.FilePath),
			slog.String("version", version.Version))
	}

	if g.profile.Enabled() && g.profiler == nil {
		session, err := profiling.Start(g.profile)
		if err != nil {
			return err
		}
		g.profiler = session
	}
	return nil
}

func (g *globalOptions) teardown() {
	if g.profiler != nil {
		if err := g.profiler.Stop(); err != nil {
			slog.Warn("failed to write profile", slog.String("error", err.Error()))
		}
		g.profiler = nil
	}
	if g.cleanup != nil {
		g.cleanup()
		g.cleanup = nil
	}
}

// service builds the engine over the effective configuration.
func (g *globalOptions) service() (*ragindex.Service, error) {
	return ragindex.New(ragindex.Options{Config: g.cfg, Logger: g.logger})
}

// writer returns a status writer honoring --no-color and the terminal.
func (g *globalOptions) writer(out io.Writer) *output.Writer {
	if g.useColor(out) {
		return output.NewColor(out)
	}
	return output.New(out)
}

func (g *globalOptions) useColor(out io.Writer) bool {
	return !g.noColor && !ui.DetectNoColor() && ui.IsTTY(out)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
