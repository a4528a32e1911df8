package config

import (
	"errors"
	"os"
	"path/filepath"
)

// EnsureUserConfig returns <dataDir>/config.yml, writing the built-in default
// there first if the file does not exist yet.
func EnsureUserConfig(dataDir string) (string, error) {
	userPath := filepath.Join(dataDir, "config.yml")

	_, err := os.Stat(userPath)
	if err == nil {
		return userPath, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", err
	}
	if err := writeAtomic(userPath, defaultConfig); err != nil {
		return "", err
	}
	return userPath, nil
}
