package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// flagKeys maps command flag names to viper keys
var flagKeys = map[string]string{
	"llvm":         "llvm",
	"watch":        "watch",
	"source":       "sources",
	"include":      "include",
	"output":       "output",
	"build-dir":    "build_dir",
	"stack-size":   "stack_size",
	"total-memory": "total_memory",
	"cflags":       "cflags",
	"ldflags":      "ldflags",
	"stdlib":       "stdlib",
	"std":          "std",
	"target":       "target",
	"mode":         "mode",
	"verbose":      "verbose",
}

// Loader handles configuration loading from various sources
type Loader struct {
	// Directory used for .env and local config lookup
	dir    string
	logger *slog.Logger
}

// NewLoader creates a new configuration loader rooted at the working directory
func NewLoader(logger *slog.Logger) *Loader {
	dir, err := os.Getwd()
	if err != nil {
		dir = "."
	}

	return NewLoaderAt(dir, logger)
}

// NewLoaderAt creates a loader that looks for .env and config files from dir upwards
func NewLoaderAt(dir string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}

	return &Loader{dir: dir, logger: logger}
}

// LoadForBuild loads configuration for a build or watch session
func (l *Loader) LoadForBuild(cmd *cobra.Command, watch bool) (*Config, error) {
	l.setupViperDefaults()
	l.loadEnvFile()
	l.bindEnv()
	l.loadGlobalConfig()
	l.loadLocalConfig()
	l.bindCommandFlags(cmd)

	return Load(l.logger, watch)
}

// setupViperDefaults sets up default values for viper
func (l *Loader) setupViperDefaults() {
	viper.SetDefault("watch", DefaultWatch)
	viper.SetDefault("output", DefaultOutput)
	viper.SetDefault("build_dir", DefaultBuildDir)
	viper.SetDefault("std", DefaultStd)
	viper.SetDefault("target", DefaultTarget)
	viper.SetDefault("verbose", DefaultVerbose)
}

// loadEnvFile loads a .env file from the project directory without
// overriding variables that are already set
func (l *Loader) loadEnvFile() {
	path := filepath.Join(l.dir, ".env")

	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		l.logger.Warn("failed to load .env file", "path", path, "error", err)
	}
}

// bindEnv maps WCC_* variables and LLVM_ROOT onto config keys
func (l *Loader) bindEnv() {
	viper.SetEnvPrefix("wcc")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	_ = viper.BindEnv("llvm", "WCC_LLVM", LLVMRootEnv)
}

// loadGlobalConfig loads global configuration from the user config directory
func (l *Loader) loadGlobalConfig() {
	globalPath := FindGlobalConfig()
	if globalPath == "" {
		return
	}

	viper.SetConfigFile(globalPath)

	if err := viper.ReadInConfig(); err != nil {
		l.logger.Warn("failed to read global config", "path", globalPath, "error", err)
	}
}

// loadLocalConfig merges local configuration from the project directory
func (l *Loader) loadLocalConfig() {
	localPath := FindLocalConfig(l.dir)
	if localPath == "" {
		return
	}

	viper.SetConfigFile(localPath)

	if err := viper.MergeInConfig(); err != nil {
		l.logger.Warn("failed to read local config", "path", localPath, "error", err)
	}
}

// bindCommandFlags binds command flags to viper
func (l *Loader) bindCommandFlags(cmd *cobra.Command) {
	if cmd == nil {
		return
	}

	for name, key := range flagKeys {
		if flag := cmd.Flags().Lookup(name); flag != nil {
			_ = viper.BindPFlag(key, flag)
		}
	}
}
