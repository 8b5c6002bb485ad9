package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// modulePath identifies this repository's go.mod when locating the home directory
const modulePath = "github.com/harrison/mvp"

// GetMVPHome returns the mvp home directory
// Priority order:
//  1. MVP_HOME environment variable (if set)
//  2. Nearest ancestor holding a .mvp-root marker or this module's go.mod
//  3. Current working directory (fallback)
//
// The directory is created if it doesn't exist
func GetMVPHome() (string, error) {
	if home := os.Getenv("MVP_HOME"); home != "" {
		if err := os.MkdirAll(home, 0755); err != nil {
			return "", fmt.Errorf("create mvp home directory: %w", err)
		}
		return home, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	base := cwd
	if root, err := findRepoRoot(cwd); err == nil {
		base = root
	}

	home := filepath.Join(base, ".mvp")
	if err := os.MkdirAll(home, 0755); err != nil {
		return "", fmt.Errorf("create mvp home directory: %w", err)
	}
	return home, nil
}

// findRepoRoot walks up from start looking for a .mvp-root marker or a go.mod
// declaring this module
func findRepoRoot(start string) (string, error) {
	current := start
	for {
		if _, err := os.Stat(filepath.Join(current, ".mvp-root")); err == nil {
			return current, nil
		}

		if data, err := os.ReadFile(filepath.Join(current, "go.mod")); err == nil {
			if strings.Contains(string(data), "module "+modulePath) {
				return current, nil
			}
		}

		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}

	return "", fmt.Errorf("mvp repository root not found (looking for .mvp-root or go.mod with %s)", modulePath)
}

// GetHistoryDBPath returns the path to the history database
// An explicit configured path wins; otherwise $MVP_HOME/history/runs.db
func GetHistoryDBPath(configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}

	home, err := GetMVPHome()
	if err != nil {
		return "", err
	}

	dir := filepath.Join(home, "history")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create history directory: %w", err)
	}
	return filepath.Join(dir, "runs.db"), nil
}
