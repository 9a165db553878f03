package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "nexus",
		Short:         "Nexus: fan prompts out to a cohort of LLMs and compare the answers",
		Long:          "nexus routes a prompt to the models best suited for an objective, queries them concurrently under a shared deadline, and records per-model latency and cost metrics.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newQueryCmd(app),
		newModelsCmd(app),
		newReportCmd(app),
		newConfigCmd(app),
	)

	return rootCmd
}
