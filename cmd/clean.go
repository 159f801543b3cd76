package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Norgate-AV/wcc/internal/cache"
	"github.com/Norgate-AV/wcc/internal/config"
	"github.com/Norgate-AV/wcc/internal/logfields"
)

func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "clean",
		Short:        "Remove build artifacts",
		Long:         `Remove object files and the linked output from the build directory. The next build recompiles and relinks everything.`,
		RunE:         runClean,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
	}
}

func runClean(cmd *cobra.Command, args []string) error {
	logger := setupLogger(cmd.ErrOrStderr())

	cfg, err := config.NewLoader(logger).LoadForBuild(cmd, false)
	if err != nil {
		return err
	}

	c := cache.New(cfg.BuildDir, cfg.Output)
	if err := c.Clear(); err != nil {
		return fmt.Errorf("failed to clean build directory: %w", err)
	}

	logger.Info("build directory cleaned", logfields.Path(c.Root()))

	return nil
}
