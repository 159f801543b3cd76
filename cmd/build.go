package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Norgate-AV/wcc/internal/build"
	"github.com/Norgate-AV/wcc/internal/compiler"
	"github.com/Norgate-AV/wcc/internal/config"
)

// execCommand replaces the toolchain process factory when set
var execCommand compiler.ExecFunc

func newBuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "build",
		Short:        "Build once",
		Long:         `Run a single build cycle: compile every source, then link if anything changed. Exits non-zero when a compile or the link failed.`,
		RunE:         runBuild,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
	}
}

func runBuild(cmd *cobra.Command, args []string) error {
	logger := setupLogger(cmd.ErrOrStderr())

	cfg, err := config.NewLoader(logger).LoadForBuild(cmd, false)
	if err != nil {
		return err
	}

	builder := build.New(cfg,
		build.WithLogger(logger),
		build.WithCommandBuilder(newCommandBuilder(cmd)),
	)

	result := builder.Cycle(cmd.Context())

	return result.Failure()
}

func newCommandBuilder(cmd *cobra.Command) *compiler.CommandBuilder {
	opts := []compiler.Option{compiler.WithOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())}
	if execCommand != nil {
		opts = append(opts, compiler.WithExec(execCommand))
	}

	return compiler.NewCommandBuilder(opts...)
}
