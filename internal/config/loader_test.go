package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateUserConfig(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("HOME", home)
	t.Setenv("APPDATA", home)
}

func TestLoader_LoadForBuild_LocalConfigAndEnvFile(t *testing.T) {
	isolateUserConfig(t)
	viper.Reset()
	defer viper.Reset()

	t.Setenv(LLVMRootEnv, "")
	require.NoError(t, os.Unsetenv(LLVMRootEnv))

	dir := t.TempDir()
	local := "sources:\n  - ./src/wasm/main.c\ninclude:\n  - ./src/include\noutput: app.wasm\nstack_size: 5000\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".wcc.yml"), []byte(local), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LLVM_ROOT=/opt/llvm-from-dotenv\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv(LLVMRootEnv) })

	cfg, err := NewLoaderAt(dir, discardLogger()).LoadForBuild(nil, true)
	require.NoError(t, err)

	assert.Equal(t, []string{"./src/wasm/main.c"}, cfg.Sources)
	assert.Equal(t, []string{"./src/include"}, cfg.HeaderSearchPath)
	assert.Equal(t, "app.wasm", cfg.Output)
	assert.Equal(t, int64(PageSize), cfg.StackSize)
	assert.Equal(t, "/opt/llvm-from-dotenv", cfg.LLVMRoot)
	assert.Equal(t, ModeDebug, cfg.Mode)
}

func TestLoader_LoadForBuild_FlagsOverrideConfig(t *testing.T) {
	isolateUserConfig(t)
	viper.Reset()
	defer viper.Reset()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".wcc.yml"), []byte("sources: [a.c]\noutput: from-file.wasm\n"), 0o644))

	cmd := &cobra.Command{Use: "build"}
	cmd.Flags().String("output", "", "")
	cmd.Flags().String("mode", "", "")
	require.NoError(t, cmd.Flags().Set("output", "from-flag.wasm"))
	require.NoError(t, cmd.Flags().Set("mode", "debug"))

	cfg, err := NewLoaderAt(dir, discardLogger()).LoadForBuild(cmd, false)
	require.NoError(t, err)

	assert.Equal(t, "from-flag.wasm", cfg.Output)
	assert.Equal(t, ModeDebug, cfg.Mode)
}

func TestLoader_LoadForBuild_MissingSources(t *testing.T) {
	isolateUserConfig(t)
	viper.Reset()
	defer viper.Reset()

	_, err := NewLoaderAt(t.TempDir(), discardLogger()).LoadForBuild(nil, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no source files")
}

func TestLoader_SetupViperDefaults(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	NewLoaderAt(t.TempDir(), discardLogger()).setupViperDefaults()

	assert.Equal(t, DefaultWatch, viper.GetString("watch"))
	assert.Equal(t, DefaultOutput, viper.GetString("output"))
	assert.Equal(t, DefaultBuildDir, viper.GetString("build_dir"))
	assert.Equal(t, DefaultStd, viper.GetString("std"))
	assert.Equal(t, DefaultTarget, viper.GetString("target"))
}
