package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("hello"), 0644))
	assert.True(t, PathExists(dir))
	assert.True(t, PathExists(file))
	assert.False(t, PathExists(filepath.Join(dir, "missing.txt")))
	assert.True(t, FileExists(file))
	assert.False(t, FileExists(dir))
}

func TestWriteFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "a", "b", "out.txt")
	require.NoError(t, WriteFile(file, []byte("hello")))
	b, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b))
}

func TestWalk(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteFile(filepath.Join(dir, "a.txt"), []byte("a")))
	require.NoError(t, WriteFile(filepath.Join(dir, "sub", "b.txt"), []byte("b")))
	files := map[string]bool{}
	require.NoError(t, Walk(dir, func(name string, isDir bool) error {
		rel, err := filepath.Rel(dir, name)
		require.NoError(t, err)
		files[rel] = isDir
		return nil
	}))
	assert.Equal(t, map[string]bool{
		".":         true,
		"a.txt":     false,
		"sub":       true,
		"sub/b.txt": false,
	}, files)
}

func TestWalkFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, WriteFile(file, []byte("a")))
	var names []string
	require.NoError(t, Walk(file, func(name string, isDir bool) error {
		assert.False(t, isDir)
		names = append(names, name)
		return nil
	}))
	assert.Equal(t, []string{file}, names)
}

func TestSize(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteFile(filepath.Join(dir, "a.txt"), []byte("12345")))
	require.NoError(t, WriteFile(filepath.Join(dir, "sub", "b.txt"), []byte("123")))
	size, err := Size(dir)
	require.NoError(t, err)
	assert.EqualValues(t, 8, size)

	size, err = Size(filepath.Join(dir, "a.txt"))
	require.NoError(t, err)
	assert.EqualValues(t, 5, size)

	_, err = Size(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
