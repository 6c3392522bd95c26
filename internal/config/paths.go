package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// configDir returns $XDG_CONFIG_HOME/sepme, falling back to ~/.config/sepme.
func configDir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "sepme"), nil
}
