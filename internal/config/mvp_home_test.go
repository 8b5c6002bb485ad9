package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestGetMVPHomeWithEnvVar tests MVP_HOME env var takes precedence
func TestGetMVPHomeWithEnvVar(t *testing.T) {
	customHome := filepath.Join(t.TempDir(), "home")
	t.Setenv("MVP_HOME", customHome)

	home, err := GetMVPHome()
	if err != nil {
		t.Fatalf("GetMVPHome() error = %v", err)
	}
	if home != customHome {
		t.Errorf("GetMVPHome() = %q, want %q", home, customHome)
	}
	if _, err := os.Stat(home); os.IsNotExist(err) {
		t.Errorf("Directory not created: %q", home)
	}
}

// TestFindRepoRootMarker tests the .mvp-root marker is found from a subdirectory
func TestFindRepoRootMarker(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "projects", "lakeside")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("failed to create nested dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, ".mvp-root"), nil, 0644); err != nil {
		t.Fatalf("failed to write marker: %v", err)
	}

	got, err := findRepoRoot(nested)
	if err != nil {
		t.Fatalf("findRepoRoot() error = %v", err)
	}
	if got != root {
		t.Errorf("findRepoRoot() = %q, want %q", got, root)
	}
}

// TestFindRepoRootGoMod tests detection through this module's go.mod
func TestFindRepoRootGoMod(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "go.mod"), []byte("module github.com/harrison/mvp\n\ngo 1.25\n"), 0644); err != nil {
		t.Fatalf("failed to write go.mod: %v", err)
	}

	got, err := findRepoRoot(root)
	if err != nil {
		t.Fatalf("findRepoRoot() error = %v", err)
	}
	if got != root {
		t.Errorf("findRepoRoot() = %q, want %q", got, root)
	}
}

// TestGetHistoryDBPath tests configured and derived database paths
func TestGetHistoryDBPath(t *testing.T) {
	got, err := GetHistoryDBPath("/var/lib/mvp/runs.db")
	if err != nil {
		t.Fatalf("GetHistoryDBPath() error = %v", err)
	}
	if got != "/var/lib/mvp/runs.db" {
		t.Errorf("GetHistoryDBPath() = %q, want configured path", got)
	}

	home := t.TempDir()
	t.Setenv("MVP_HOME", home)

	got, err = GetHistoryDBPath("")
	if err != nil {
		t.Fatalf("GetHistoryDBPath() error = %v", err)
	}
	want := filepath.Join(home, "history", "runs.db")
	if got != want {
		t.Errorf("GetHistoryDBPath() = %q, want %q", got, want)
	}
}
