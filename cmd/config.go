package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	tomlconfig "github.com/llmnexus/nexus/internal/adapters/config/toml"
)

func newConfigCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage engine configuration",
	}

	cmd.AddCommand(
		newConfigInitCmd(app),
		newConfigPathCmd(app),
	)

	return cmd
}

func newConfigInitCmd(app *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if app.configRepo.Exists() && !force {
				return fmt.Errorf("config already exists at %s, pass --force to overwrite", app.configRepo.Path())
			}

			settings := tomlconfig.DefaultSettings(app.settings.MetricsPath)
			if err := app.configRepo.Save(settings); err != nil {
				return fmt.Errorf("write default config: %w", err)
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", app.configRepo.Path())
			return err
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	return cmd
}

func newConfigPathCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the resolved configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), app.configRepo.Path())
			return err
		},
	}
}
