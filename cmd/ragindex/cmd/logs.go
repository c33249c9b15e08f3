package cmd

import (
	"fmt"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/ragindex/internal/logging"
)

func newLogsCmd(g *globalOptions) *cobra.Command {
	var (
		lines   int
		level   string
		pattern string
		file    string
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "View ragindex logs",
		Long: `Show the most recent entries of the ragindex log file.

Entries can be filtered by minimum level and by a regular expression
matched against the message and attributes.`,
		Example: `  ragindex logs
  ragindex logs -n 200 --level warn
  ragindex logs --pattern "index_.*"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := logging.FindLogFile(file)
			if err != nil {
				return err
			}

			cfg := logging.ViewerConfig{
				Level:   level,
				NoColor: !g.useColor(cmd.OutOrStdout()),
			}
			if pattern != "" {
				re, err := regexp.Compile(pattern)
				if err != nil {
					return fmt.Errorf("invalid pattern: %w", err)
				}
				cfg.Pattern = re
			}

			viewer := logging.NewViewer(cfg, cmd.OutOrStdout())
			entries, err := viewer.Tail(path, lines)
			if err != nil {
				return err
			}
			viewer.Print(entries)
			return nil
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of lines to read from the end (0 for all)")
	cmd.Flags().StringVar(&level, "level", "", "Minimum level: debug, info, warn, error")
	cmd.Flags().StringVar(&pattern, "pattern", "", "Only show entries matching this regex")
	cmd.Flags().StringVar(&file, "file", "", "Log file path (default ~/.config/ragindex/logs/ragindex.log)")

	return cmd
}
