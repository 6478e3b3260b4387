package testutil

import (
	stderrors "errors"
	"os"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadTree(t *testing.T) {
	fs := afero.NewMemMapFs()
	tree := map[string]string{
		"README.md":      "hello",
		"src/main.go":    "package main",
		"empty/":         "",
		"a/b/c/leaf.txt": "leaf",
	}

	WriteTree(t, fs, "/root", tree)
	got := ReadTree(t, fs, "/root")

	assert.Equal(t, map[string]string{
		"README.md":      "hello",
		"src/":           "",
		"src/main.go":    "package main",
		"empty/":         "",
		"a/":             "",
		"a/b/":           "",
		"a/b/c/":         "",
		"a/b/c/leaf.txt": "leaf",
	}, got)
	assert.Equal(t, []string{"README.md", "a/", "a/b/", "a/b/c/", "a/b/c/leaf.txt", "empty/", "src/", "src/main.go"}, TreeKeys(got))
}

func TestFaultyFs(t *testing.T) {
	boom := stderrors.New("boom")
	fs := NewFaultyFs(afero.NewMemMapFs()).
		WithError(OpCreate, "/x/fail.txt", boom).
		WithError(OpRename, "/x/keep.txt", boom).
		WithError(OpMkdir, "/x/nodir", boom)

	require.NoError(t, fs.MkdirAll("/x", 0755))

	err := afero.WriteFile(fs, "/x/fail.txt", []byte("data"), 0644)
	assert.ErrorIs(t, err, boom)
	var pathErr *os.PathError
	require.ErrorAs(t, err, &pathErr)
	assert.Equal(t, "create", pathErr.Op)

	require.NoError(t, afero.WriteFile(fs, "/x/keep.txt", []byte("data"), 0644))
	assert.ErrorIs(t, fs.Rename("/x/keep.txt", "/x/other.txt"), boom)
	assert.ErrorIs(t, fs.Mkdir("/x/nodir", 0755), boom)

	assert.Equal(t, 1, fs.Calls(OpRename))
	assert.GreaterOrEqual(t, fs.Calls(OpCreate), 2)
}
