package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Norgate-AV/wcc/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "config",
		Short:        "Print the resolved configuration",
		Long:         `Print the configuration after merging defaults, config files, environment and flags, with memory sizes rounded to pages.`,
		RunE:         runConfig,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
	}

	cmd.Flags().Bool("watch-mode", false, "Resolve as for watch (debug mode by default)")

	return cmd
}

func runConfig(cmd *cobra.Command, args []string) error {
	logger := setupLogger(cmd.ErrOrStderr())
	watchMode, _ := cmd.Flags().GetBool("watch-mode")

	cfg, err := config.NewLoader(logger).LoadForBuild(cmd, watchMode)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}

	_, err = cmd.OutOrStdout().Write(data)
	return err
}
