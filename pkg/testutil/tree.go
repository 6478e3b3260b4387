package testutil

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// WriteTree creates the entries of tree under root. Keys are slash separated
// paths relative to root; a key ending in "/" creates a directory, any other
// key creates a file with the value as content. Parent directories are created.
func WriteTree(t testing.TB, fs afero.Fs, root string, tree map[string]string) {
	t.Helper()

	require.NoError(t, fs.MkdirAll(root, 0755))
	for rel, content := range tree {
		path := filepath.Join(root, filepath.FromSlash(strings.TrimSuffix(rel, "/")))
		if strings.HasSuffix(rel, "/") {
			require.NoError(t, fs.MkdirAll(path, 0755))
			continue
		}
		require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0644))
	}
}

// ReadTree returns every entry below root in the WriteTree format:
// directories as "dir/" with empty content, files with their content.
func ReadTree(t testing.TB, fs afero.Fs, root string) map[string]string {
	t.Helper()

	tree := make(map[string]string)
	err := afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if info.IsDir() {
			tree[rel+"/"] = ""
			return nil
		}
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			return err
		}
		tree[rel] = string(data)
		return nil
	})
	require.NoError(t, err)
	return tree
}

// TreeKeys returns the sorted keys of a tree, handy for readable assertions
func TreeKeys(tree map[string]string) []string {
	keys := make([]string, 0, len(tree))
	for k := range tree {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
