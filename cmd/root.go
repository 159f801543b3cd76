package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Norgate-AV/wcc/internal/config"
	"github.com/Norgate-AV/wcc/internal/version"
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "wcc",
		Short:        "Incremental C to WebAssembly builds",
		Long:         `Compile C sources to objects with clang and link them into a WebAssembly binary with wasm-ld, rebuilding only what changed.`,
		RunE:         runBuild,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		Version:      fmt.Sprintf("%s (%s) %s", version.Version, version.Commit, version.BuildTime),
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flags.StringVar(&logFormat, "log-format", "text", "Log format (text, json)")

	flags.String("llvm", "", "LLVM toolchain root (defaults to $"+config.LLVMRootEnv+")")
	flags.String("watch", "", "Regular expression for paths that trigger a rebuild")
	flags.StringSliceP("source", "s", nil, "C source file (repeatable)")
	flags.StringSliceP("include", "I", nil, "Header search directory (repeatable)")
	flags.StringP("output", "o", "", "Output file name inside the build directory")
	flags.String("build-dir", "", "Directory for object files and the linked output")
	flags.Int64("stack-size", 0, "Stack size in bytes, rounded up to 64 KiB pages")
	flags.Int64("total-memory", 0, "Initial memory in bytes, rounded up to 64 KiB pages")
	flags.StringSlice("cflags", nil, "Extra compiler flags")
	flags.StringSlice("ldflags", nil, "Extra linker flags")
	flags.String("stdlib", "", "Sysroot of a wasm C library; omit to build with -nostdlib")
	flags.String("std", "", "C language standard")
	flags.StringP("target", "t", "", "Target platform (wasm32, wasm64)")
	flags.StringP("mode", "m", "", "Build mode (debug, release)")
	flags.BoolP("verbose", "v", false, "Log toolchain command lines")

	cmd.AddCommand(
		newBuildCmd(),
		newWatchCmd(),
		newCleanCmd(),
		newCacheCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)

	return cmd
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
