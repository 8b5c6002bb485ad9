package fileutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(root, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("project: test\n"), 0644))
	}
}

func base(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.Base(p)
	}
	return out
}

func TestScanDirectory(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"lakeside.yaml",
		"hillcrest.md",
		"notes.txt",
		"Ridge.YML",
		".draft.yaml",
		"archive/old.yaml",
		".git/config.yaml",
		"node_modules/pkg.yaml",
	)

	t.Run("flat", func(t *testing.T) {
		result, err := ScanDirectory(root, ScanOptions{Extensions: ChoiceFileExtensions})
		require.NoError(t, err)
		assert.Equal(t, []string{"Ridge.YML", "hillcrest.md", "lakeside.yaml"}, base(result.Files))
		for _, f := range result.Files {
			assert.True(t, filepath.IsAbs(f))
		}
	})

	t.Run("recursive with exclusions", func(t *testing.T) {
		result, err := ScanDirectory(root, ScanOptions{
			Extensions:  []string{"yaml"},
			Recursive:   true,
			ExcludeDirs: []string{"node_modules"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"old.yaml", "lakeside.yaml"}, base(result.Files))
	})
}

func TestScanDirectory_Errors(t *testing.T) {
	_, err := ScanDirectory(filepath.Join(t.TempDir(), "missing"), ScanOptions{})
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "choices.yaml")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	_, err = ScanDirectory(file, ScanOptions{})
	assert.ErrorContains(t, err, "not a directory")
}

func TestExpandChoicePaths(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.yaml", "b.md", "nested/c.yaml", "readme.txt")
	single := filepath.Join(root, "readme.txt")

	files, err := ExpandChoicePaths([]string{root, single}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.yaml", "b.md", "readme.txt"}, base(files), "explicit files are kept whatever their extension")

	files, err = ExpandChoicePaths([]string{root}, true)
	require.NoError(t, err)
	assert.Len(t, files, 3)

	_, err = ExpandChoicePaths([]string{filepath.Join(root, "nope.yaml")}, false)
	assert.Error(t, err)
}
