package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/ragindex/internal/config"
)

func newConfigCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `Manage the ragindex configuration file.

Configuration precedence (lowest to highest):
  1. Built-in defaults
  2. Config file (~/.config/ragindex/config.yaml or --config)
  3. Environment variables (RAGINDEX_*)
  4. Command flags (--index-dir)`,
		Example: `  ragindex config init
  ragindex config show --json
  ragindex config path`,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return g.setup(true)
		},
	}

	cmd.AddCommand(newConfigInitCmd(g))
	cmd.AddCommand(newConfigShowCmd(g))
	cmd.AddCommand(newConfigPathCmd(g))

	return cmd
}

func newConfigInitCmd(g *globalOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the defaults",
		Long: `Write the default configuration to the config file.

An existing file is kept unless --force is given, in which case it is
backed up first. The newest three backups are retained.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInit(cmd, g, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config (a backup is kept)")

	return cmd
}

func runConfigInit(cmd *cobra.Command, g *globalOptions, force bool) error {
	out := g.writer(cmd.OutOrStdout())
	path := g.configFile()

	if fileExists(path) {
		if !force {
			out.Warning("Configuration already exists")
			out.Statusf("", "Location: %s", path)
			out.Statusf("", "Use --force to overwrite")
			return nil
		}
		backup, err := config.BackupFile(path)
		if err != nil {
			return fmt.Errorf("failed to back up config: %w", err)
		}
		out.Statusf("", "Backup: %s", backup)
	}

	if err := config.NewConfig().WriteYAML(path); err != nil {
		return err
	}
	out.Successf("Created %s", path)
	return nil
}

func newConfigShowCmd(g *globalOptions) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if jsonOutput {
				return g.writer(cmd.OutOrStdout()).JSON(g.cfg)
			}
			data, err := yaml.Marshal(g.cfg)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func newConfigPathCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), g.configFile())
			return err
		},
	}
}

// configFile is the file read at startup: --config or the user path.
func (g *globalOptions) configFile() string {
	if g.configPath != "" {
		return g.configPath
	}
	return config.GetUserConfigPath()
}
