package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"

	"github.com/spf13/viper"

	"github.com/Norgate-AV/wcc/internal/logfields"
	"github.com/Norgate-AV/wcc/internal/utils"
)

// Default configuration values
const (
	DefaultWatch    = `(^|/)src/.*\.[ch]$`
	DefaultOutput   = "main.wasm"
	DefaultBuildDir = "build"
	DefaultStd      = "c11"
	DefaultTarget   = "wasm32"
	DefaultVerbose  = false

	// LLVMRootEnv is consulted when no toolchain root is configured
	LLVMRootEnv = "LLVM_ROOT"
)

// Mode selects the debug or release flag bundles
type Mode string

const (
	ModeDebug   Mode = "debug"
	ModeRelease Mode = "release"
)

// DefaultMode is debug while watching and release for one-shot builds
func DefaultMode(watch bool) Mode {
	if watch {
		return ModeDebug
	}

	return ModeRelease
}

// Holds the build target configuration. Created once at startup and not
// mutated after Load returns.
type Config struct {
	// LLVM toolchain root; clang and wasm-ld are expected under bin/
	LLVMRoot string `yaml:"llvm"`

	// Regular expression matched against slash-separated changed paths
	Watch string `yaml:"watch"`

	// Ordered source files, one compilation unit each
	Sources []string `yaml:"sources"`

	// Ordered header search directories
	HeaderSearchPath []string `yaml:"include"`

	// Linked output file name, relative to BuildDir
	Output string `yaml:"output"`

	// Directory holding object artifacts and the linked output
	BuildDir string `yaml:"build_dir"`

	// Page-aligned stack size in bytes, 0 when unset
	StackSize int64 `yaml:"stack_size"`

	// Page-aligned initial memory in bytes, 0 when unset
	TotalMemory int64 `yaml:"total_memory"`

	// Extra flags appended after the computed defaults
	CFlags  []string `yaml:"cflags"`
	LDFlags []string `yaml:"ldflags"`

	// Sysroot of a standard library; empty means a freestanding build
	Stdlib string `yaml:"stdlib"`

	// C language standard (e.g., c11, c17)
	Std string `yaml:"std"`

	// Target architecture (wasm32 or wasm64)
	Target string `yaml:"target"`

	Mode Mode `yaml:"mode"`

	// Enable verbose output (logs every toolchain command line)
	Verbose bool `yaml:"verbose"`

	watchPattern *regexp.Regexp
}

// Load builds a Config from viper, validates it and normalizes the memory
// layout. Warnings are written to logger.
func Load(logger *slog.Logger, watch bool) (*Config, error) {
	cfg := &Config{
		LLVMRoot:         viper.GetString("llvm"),
		Watch:            viper.GetString("watch"),
		Sources:          viper.GetStringSlice("sources"),
		HeaderSearchPath: viper.GetStringSlice("include"),
		Output:           viper.GetString("output"),
		BuildDir:         viper.GetString("build_dir"),
		StackSize:        viper.GetInt64("stack_size"),
		TotalMemory:      viper.GetInt64("total_memory"),
		CFlags:           viper.GetStringSlice("cflags"),
		LDFlags:          viper.GetStringSlice("ldflags"),
		Stdlib:           viper.GetString("stdlib"),
		Std:              viper.GetString("std"),
		Target:           viper.GetString("target"),
		Mode:             Mode(viper.GetString("mode")),
		Verbose:          viper.GetBool("verbose"),
	}

	// Apply defaults if not set
	if cfg.Watch == "" {
		cfg.Watch = DefaultWatch
	}

	if cfg.Output == "" {
		cfg.Output = DefaultOutput
	}

	if cfg.BuildDir == "" {
		cfg.BuildDir = DefaultBuildDir
	}

	if cfg.Std == "" {
		cfg.Std = DefaultStd
	}

	if cfg.Target == "" {
		cfg.Target = DefaultTarget
	}

	if cfg.Mode == "" {
		cfg.Mode = DefaultMode(watch)
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.Normalize(logger)

	return cfg, nil
}

func (c *Config) Validate() error {
	if len(c.Sources) == 0 {
		return fmt.Errorf("no source files configured")
	}

	seen := make(map[string]bool, len(c.Sources))
	for i, src := range c.Sources {
		if src == "" {
			return fmt.Errorf("source file %d is empty", i)
		}

		// Units compile concurrently, so two entries must never share an object
		if seen[src] {
			return fmt.Errorf("duplicate source file: %s", src)
		}

		seen[src] = true
	}

	pattern, err := regexp.Compile(c.Watch)
	if err != nil {
		return fmt.Errorf("invalid watch pattern: %w", err)
	}

	c.watchPattern = pattern

	target := utils.ParseTarget(c.Target)
	if target == "" {
		return fmt.Errorf("invalid target: %s (supported: %v)", c.Target, utils.Targets())
	}

	c.Target = target

	switch c.Mode {
	case ModeDebug, ModeRelease:
	default:
		return fmt.Errorf("invalid mode: %s", c.Mode)
	}

	if c.StackSize < 0 {
		return fmt.Errorf("invalid stack size: %d", c.StackSize)
	}

	if c.TotalMemory < 0 {
		return fmt.Errorf("invalid total memory: %d", c.TotalMemory)
	}

	if c.Output == "" {
		return fmt.Errorf("output file name is empty")
	}

	return nil
}

// Normalize page-aligns the memory layout and reports configuration
// warnings. It never fails.
func (c *Config) Normalize(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	c.StackSize = alignWithWarning(logger, c.StackSize, "stackSize")
	c.TotalMemory = alignWithWarning(logger, c.TotalMemory, "totalMemory")

	if c.LLVMRoot == "" {
		logger.Error("LLVM toolchain root is not set; falling back to PATH",
			logfields.Field("llvm"),
			slog.String("env", LLVMRootEnv))
	}
}

// Matches reports whether a changed path should trigger a rebuild
func (c *Config) Matches(path string) bool {
	if c.watchPattern == nil {
		pattern, err := regexp.Compile(c.Watch)
		if err != nil {
			return false
		}

		c.watchPattern = pattern
	}

	return c.watchPattern.MatchString(filepath.ToSlash(path))
}

// IsDebug reports whether the debug flag bundles apply
func (c *Config) IsDebug() bool {
	return c.Mode == ModeDebug
}

// CompilerPath returns the clang executable for the configured toolchain
func (c *Config) CompilerPath() string {
	return c.toolPath("clang")
}

// LinkerPath returns the wasm-ld executable for the configured toolchain
func (c *Config) LinkerPath() string {
	return c.toolPath("wasm-ld")
}

// OutputPath returns the linked artifact path inside the build directory
func (c *Config) OutputPath() string {
	return filepath.Join(c.BuildDir, c.Output)
}

func (c *Config) toolPath(name string) string {
	if c.LLVMRoot == "" {
		return name
	}

	return filepath.Join(c.LLVMRoot, "bin", name)
}
