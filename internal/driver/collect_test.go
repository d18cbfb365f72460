package driver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}
}

func TestCollectPaths(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.kt":           "{}",
		"b.KT":           "{",
		"notes.md":       "}",
		".git/config.kt": "}",
		"sub/c.kt":       "}",
		"sub/gen/d.kt":   "{}",
	})

	got, err := CollectPaths([]string{root}, []string{"kt"}, []string{"sub/gen/*"})
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(root, "a.kt"),
		filepath.Join(root, "b.KT"),
		filepath.Join(root, "sub", "c.kt"),
	}, got)
}

func TestCollectPathsKeepsExplicitFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"x.txt": "{}"})
	missing := filepath.Join(root, "missing.kt")
	x := filepath.Join(root, "x.txt")

	got, err := CollectPaths([]string{x, missing, x}, []string{".kt"}, nil)
	require.NoError(t, err)
	require.Equal(t, []string{missing, x}, got)
}

func TestCollectPathsAllFilesWithoutExt(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.kt": "", "b.go": "", "Makefile": ""})

	got, err := CollectPaths([]string{root}, nil, []string{"*.go"})
	require.NoError(t, err)
	require.Len(t, got, 2)
}

func TestCollectPathsBadPattern(t *testing.T) {
	_, err := CollectPaths([]string{"."}, nil, []string{"[unclosed"})
	require.Error(t, err)
}
