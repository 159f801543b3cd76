package config

import (
	"os"
	"path/filepath"
)

// ConfigExtensions lists the config file formats viper can read, in lookup order
var ConfigExtensions = []string{"yml", "yaml", "json", "toml"}

// FindLocalConfig finds local config file by walking up directories
func FindLocalConfig(dir string) string {
	for {
		for _, ext := range ConfigExtensions {
			path := filepath.Join(dir, ".wcc."+ext)

			if _, err := os.Stat(path); err == nil {
				return path
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}

		dir = parent
	}

	return ""
}

// FindGlobalConfig returns the first config file in the user config directory
func FindGlobalConfig() string {
	base, err := os.UserConfigDir()
	if err != nil || base == "" {
		return ""
	}

	for _, ext := range ConfigExtensions {
		path := filepath.Join(base, "wcc", "config."+ext)

		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}
