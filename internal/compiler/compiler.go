package compiler

import (
	"strconv"
	"strings"

	"github.com/Norgate-AV/wcc/internal/config"
)

type ShellCommand struct {
	Path string
	Args []string
}

// String renders the command line for verbose logging
func (sc *ShellCommand) String() string {
	if len(sc.Args) == 0 {
		return sc.Path
	}

	return sc.Path + " " + strings.Join(sc.Args, " ")
}

// CompileFlags returns the compiler flags for cfg. Computed defaults come
// first and user flags last, so the compiler's last-flag-wins rule lets
// users override any default.
func CompileFlags(cfg *config.Config) []string {
	var flags []string

	for _, dir := range cfg.HeaderSearchPath {
		if dir != "" {
			flags = append(flags, "-I"+dir)
		}
	}

	flags = append(flags, "--target="+cfg.Target)

	if cfg.Stdlib == "" {
		flags = append(flags, "-nostdlib")
	} else {
		flags = append(flags, "--sysroot="+cfg.Stdlib)
	}

	flags = append(flags,
		"-fvisibility=hidden",
		"-std="+cfg.Std,
		"-ffast-math",
	)

	if cfg.IsDebug() {
		flags = append(flags, "-O0", "-g")
	} else {
		flags = append(flags, "-Os", "-flto", "-ffunction-sections", "-fdata-sections")
	}

	return append(flags, cfg.CFlags...)
}

// LinkFlags returns the linker flags for cfg, user flags last
func LinkFlags(cfg *config.Config) []string {
	flags := []string{
		"--no-entry",
		"--export-dynamic",
		"--allow-undefined",
		"--error-limit=0",
	}

	if cfg.IsDebug() {
		flags = append(flags, "--lto-O0", "-O0")
	} else {
		flags = append(flags, "--lto-O3", "-O3", "--gc-sections", "--strip-debug")
	}

	if cfg.Target == "wasm64" {
		flags = append(flags, "-mwasm64")
	}

	if cfg.StackSize > 0 {
		flags = append(flags, "-z", "stack-size="+strconv.FormatInt(cfg.StackSize, 10))
	}

	if cfg.TotalMemory > 0 {
		flags = append(flags, "--initial-memory="+strconv.FormatInt(cfg.TotalMemory, 10))
	}

	return append(flags, cfg.LDFlags...)
}

// GetCompileCommand builds the command compiling one source into object
func GetCompileCommand(cfg *config.Config, source, object string) *ShellCommand {
	args := []string{"-c"}
	args = append(args, CompileFlags(cfg)...)
	args = append(args, "-o", object, source)

	return &ShellCommand{
		Path: cfg.CompilerPath(),
		Args: args,
	}
}

// GetLinkCommand builds the command linking objects, in order, into the output
func GetLinkCommand(cfg *config.Config, objects []string) *ShellCommand {
	args := LinkFlags(cfg)
	args = append(args, "-o", cfg.OutputPath())
	args = append(args, objects...)

	return &ShellCommand{
		Path: cfg.LinkerPath(),
		Args: args,
	}
}
