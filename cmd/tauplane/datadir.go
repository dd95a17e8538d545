// ABOUTME: XDG-based data and config directory resolution for the tauplane CLI.
// ABOUTME: Checks XDG_DATA_HOME / XDG_CONFIG_HOME, falls back to ~/.local/share/tauplane and ~/.config/tauplane.
package main

import (
	"fmt"
	"os"
	"path/filepath"
)

const appName = "tauplane"

// defaultDataDir returns the directory holding the cycle history database.
func defaultDataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", ".local", "share")
}

// defaultConfigDir returns the directory searched for config.yaml and config.env.
func defaultConfigDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

func xdgDir(env string, fallback ...string) (string, error) {
	if xdg := os.Getenv(env); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}

	parts := append([]string{home}, fallback...)
	return filepath.Join(append(parts, appName)...), nil
}

// defaultConfigFile returns config.yaml in the config directory when it exists, or "".
func defaultConfigFile() string {
	dir, err := defaultConfigDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
