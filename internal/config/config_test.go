package config

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		watch       bool
		setupViper  func()
		wantConfig  *Config
		wantErr     bool
		errContains string
	}{
		{
			name: "load with all defaults",
			setupViper: func() {
				viper.Reset()
				viper.Set("sources", []string{"./src/wasm/main.c"})
			},
			wantConfig: &Config{
				Watch:    DefaultWatch,
				Sources:  []string{"./src/wasm/main.c"},
				Output:   DefaultOutput,
				BuildDir: DefaultBuildDir,
				Std:      DefaultStd,
				Target:   DefaultTarget,
				Mode:     ModeRelease,
			},
		},
		{
			name:  "watch defaults to debug",
			watch: true,
			setupViper: func() {
				viper.Reset()
				viper.Set("sources", []string{"a.c"})
			},
			wantConfig: &Config{
				Watch:    DefaultWatch,
				Sources:  []string{"a.c"},
				Output:   DefaultOutput,
				BuildDir: DefaultBuildDir,
				Std:      DefaultStd,
				Target:   DefaultTarget,
				Mode:     ModeDebug,
			},
		},
		{
			name:  "load with custom values",
			watch: true,
			setupViper: func() {
				viper.Reset()
				viper.Set("llvm", "/opt/llvm")
				viper.Set("watch", `\.c$`)
				viper.Set("sources", []string{"a.c", "b.c"})
				viper.Set("include", []string{"include", "vendor/include"})
				viper.Set("output", "app.wasm")
				viper.Set("build_dir", "out")
				viper.Set("stack_size", 65536)
				viper.Set("total_memory", 100000)
				viper.Set("cflags", []string{"-Wall"})
				viper.Set("ldflags", []string{"--export=main"})
				viper.Set("stdlib", "/opt/wasi-sysroot")
				viper.Set("std", "c17")
				viper.Set("target", "WASM64")
				viper.Set("mode", "release")
				viper.Set("verbose", true)
			},
			wantConfig: &Config{
				LLVMRoot:         "/opt/llvm",
				Watch:            `\.c$`,
				Sources:          []string{"a.c", "b.c"},
				HeaderSearchPath: []string{"include", "vendor/include"},
				Output:           "app.wasm",
				BuildDir:         "out",
				StackSize:        65536,
				TotalMemory:      131072,
				CFlags:           []string{"-Wall"},
				LDFlags:          []string{"--export=main"},
				Stdlib:           "/opt/wasi-sysroot",
				Std:              "c17",
				Target:           "wasm64",
				Mode:             ModeRelease,
				Verbose:          true,
			},
		},
		{
			name: "no sources",
			setupViper: func() {
				viper.Reset()
			},
			wantErr:     true,
			errContains: "no source files",
		},
		{
			name: "invalid target",
			setupViper: func() {
				viper.Reset()
				viper.Set("sources", []string{"a.c"})
				viper.Set("target", "x86_64")
			},
			wantErr:     true,
			errContains: "invalid target",
		},
		{
			name: "invalid mode",
			setupViper: func() {
				viper.Reset()
				viper.Set("sources", []string{"a.c"})
				viper.Set("mode", "fast")
			},
			wantErr:     true,
			errContains: "invalid mode",
		},
		{
			name: "invalid watch pattern",
			setupViper: func() {
				viper.Reset()
				viper.Set("sources", []string{"a.c"})
				viper.Set("watch", "src/(")
			},
			wantErr:     true,
			errContains: "invalid watch pattern",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupViper()
			defer viper.Reset()

			cfg, err := Load(discardLogger(), tt.watch)

			if tt.wantErr {
				require.Error(t, err)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantConfig.LLVMRoot, cfg.LLVMRoot)
			assert.Equal(t, tt.wantConfig.Watch, cfg.Watch)
			assert.Equal(t, tt.wantConfig.Sources, cfg.Sources)
			assert.Equal(t, tt.wantConfig.HeaderSearchPath, cfg.HeaderSearchPath)
			assert.Equal(t, tt.wantConfig.Output, cfg.Output)
			assert.Equal(t, tt.wantConfig.BuildDir, cfg.BuildDir)
			assert.Equal(t, tt.wantConfig.StackSize, cfg.StackSize)
			assert.Equal(t, tt.wantConfig.TotalMemory, cfg.TotalMemory)
			assert.Equal(t, tt.wantConfig.CFlags, cfg.CFlags)
			assert.Equal(t, tt.wantConfig.LDFlags, cfg.LDFlags)
			assert.Equal(t, tt.wantConfig.Stdlib, cfg.Stdlib)
			assert.Equal(t, tt.wantConfig.Std, cfg.Std)
			assert.Equal(t, tt.wantConfig.Target, cfg.Target)
			assert.Equal(t, tt.wantConfig.Mode, cfg.Mode)
			assert.Equal(t, tt.wantConfig.Verbose, cfg.Verbose)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Watch:    DefaultWatch,
			Sources:  []string{"a.c"},
			Output:   DefaultOutput,
			BuildDir: DefaultBuildDir,
			Target:   DefaultTarget,
			Mode:     ModeDebug,
		}
	}

	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errContains string
	}{
		{name: "valid config", mutate: func(*Config) {}},
		{name: "empty source entry", mutate: func(c *Config) { c.Sources = []string{"a.c", ""} }, wantErr: true, errContains: "source file 1 is empty"},
		{name: "duplicate source", mutate: func(c *Config) { c.Sources = []string{"a.c", "b.c", "a.c"} }, wantErr: true, errContains: "duplicate source file: a.c"},
		{name: "negative stack size", mutate: func(c *Config) { c.StackSize = -1 }, wantErr: true, errContains: "invalid stack size"},
		{name: "negative total memory", mutate: func(c *Config) { c.TotalMemory = -1 }, wantErr: true, errContains: "invalid total memory"},
		{name: "empty output", mutate: func(c *Config) { c.Output = "" }, wantErr: true, errContains: "output file name is empty"},
		{name: "empty mode", mutate: func(c *Config) { c.Mode = "" }, wantErr: true, errContains: "invalid mode"},
		{name: "target triple normalized", mutate: func(c *Config) { c.Target = "wasm32-unknown-unknown" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "wasm32", cfg.Target)
		})
	}
}

func TestConfig_Matches(t *testing.T) {
	cfg := &Config{Watch: DefaultWatch}

	tests := []struct {
		path string
		want bool
	}{
		{"src/wasm/main.c", true},
		{"src/include/gain/base.h", true},
		{"/home/user/project/src/main.c", true},
		{filepath.Join("src", "wasm", "main.c"), true},
		{"src/wasm/main.cpp", false},
		{"lib/main.c", false},
		{"mysrc/main.c", false},
		{"src/web/index.ts", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, cfg.Matches(tt.path))
		})
	}
}

func TestConfig_ToolPaths(t *testing.T) {
	cfg := &Config{LLVMRoot: "/opt/llvm", BuildDir: "build", Output: "main.wasm"}
	assert.Equal(t, filepath.Join("/opt/llvm", "bin", "clang"), cfg.CompilerPath())
	assert.Equal(t, filepath.Join("/opt/llvm", "bin", "wasm-ld"), cfg.LinkerPath())
	assert.Equal(t, filepath.Join("build", "main.wasm"), cfg.OutputPath())

	cfg.LLVMRoot = ""
	assert.Equal(t, "clang", cfg.CompilerPath())
	assert.Equal(t, "wasm-ld", cfg.LinkerPath())
}

func TestConfig_NormalizeWarnsMissingToolchain(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	cfg := &Config{}
	cfg.Normalize(logger)

	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "LLVM toolchain root is not set")
}

func TestDefaultMode(t *testing.T) {
	assert.Equal(t, ModeDebug, DefaultMode(true))
	assert.Equal(t, ModeRelease, DefaultMode(false))
}
