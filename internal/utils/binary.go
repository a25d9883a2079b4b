package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// ResolveSelfBinary returns the absolute, symlink-resolved path to the
// currently running executable, for embedding in the crontab line
// InstallPeriodic writes — cron invokes it outside any shell PATH, so a
// bare "gsd-cron" would not resolve.
func ResolveSelfBinary() (string, error) {
	exePath, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("resolving gsd-cron binary path: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(exePath)
	if err != nil {
		return exePath, nil
	}
	return resolved, nil
}
