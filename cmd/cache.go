package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Norgate-AV/wcc/internal/cache"
	"github.com/Norgate-AV/wcc/internal/config"
)

func newCacheCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "cache",
		Short:        "Show build artifact statistics",
		RunE:         runCache,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
	}
}

func runCache(cmd *cobra.Command, args []string) error {
	logger := setupLogger(cmd.ErrOrStderr())

	cfg, err := config.NewLoader(logger).LoadForBuild(cmd, false)
	if err != nil {
		return err
	}

	c := cache.New(cfg.BuildDir, cfg.Output)
	stats, err := c.Stats()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Build directory: %s\n", c.Root())
	fmt.Fprintf(out, "Objects:         %d of %d source(s) (%d bytes)\n", stats.Objects, len(cfg.Sources), stats.ObjectBytes)

	if stats.OutputExists {
		fmt.Fprintf(out, "Output:          %s (%d bytes)\n", c.OutputPath(), stats.OutputBytes)
	} else {
		fmt.Fprintf(out, "Output:          %s (not linked)\n", c.OutputPath())
	}

	return nil
}
