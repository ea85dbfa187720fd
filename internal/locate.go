package internal

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultDatabasePath resolves the chatos database location. The CHATOS_DB
// environment variable wins; otherwise ~/.chatos/chatos.db is used.
func DefaultDatabasePath(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	if env := os.Getenv("CHATOS_DB"); env != "" {
		return env, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".chatos", "chatos.db"), nil
}
