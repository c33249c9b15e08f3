package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Aman-CERP/ragindex/internal/config"
)

// LogFileName is the base name of the ragindex log file.
const LogFileName = "ragindex.log"

// DefaultLogDir returns <config-dir>/logs.
func DefaultLogDir() string {
	return filepath.Join(config.GetConfigDir(), "logs")
}

// DefaultLogPath returns the default log file path.
func DefaultLogPath() string {
	return filepath.Join(DefaultLogDir(), LogFileName)
}

// FindLogFile resolves the log file to view. An explicit path wins;
// otherwise the default path is used if it exists.
func FindLogFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("log file not found: %s", explicit)
		}
		return explicit, nil
	}

	path := DefaultLogPath()
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("no log file found at %s (run a command with --debug first)", path)
	}
	return path, nil
}
