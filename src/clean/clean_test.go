package clean

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/please-build/lbs/src/fs"
)

// writeArtifacts creates each of the given files in a temp dir and returns their full paths.
func writeArtifacts(t *testing.T, contents map[string]string, order ...string) []string {
	dir := t.TempDir()
	paths := make([]string, len(order))
	for i, name := range order {
		paths[i] = filepath.Join(dir, name)
		if c, present := contents[name]; present {
			require.NoError(t, fs.WriteFile(paths[i], []byte(c)))
		}
	}
	return paths
}

func TestCleanAll(t *testing.T) {
	paths := writeArtifacts(t, map[string]string{"libutil": "1234", "main": "123456"}, "libutil", "main")
	result, err := Artifacts(paths, false, false)
	require.NoError(t, err)
	assert.Equal(t, paths, result.Removed)
	assert.EqualValues(t, 10, result.Bytes)
	for _, p := range paths {
		assert.False(t, fs.PathExists(p))
	}
	assert.Equal(t, "Removed 2 artifacts, freeing 10 B", result.String())
}

func TestCleanIntermediates(t *testing.T) {
	paths := writeArtifacts(t, map[string]string{"gen.h": "x", "libutil": "12", "main": "123"}, "gen.h", "libutil", "main")
	result, err := Artifacts(paths, true, false)
	require.NoError(t, err)
	assert.Equal(t, paths[:2], result.Removed)
	assert.False(t, fs.PathExists(paths[0]))
	assert.False(t, fs.PathExists(paths[1]))
	assert.True(t, fs.PathExists(paths[2]))
}

func TestCleanIntermediatesKeepsRepeatedProduct(t *testing.T) {
	paths := writeArtifacts(t, map[string]string{"out": "x", "lib": "y"}, "out", "lib", "out")
	result, err := Artifacts(paths, true, false)
	require.NoError(t, err)
	assert.Equal(t, []string{paths[1]}, result.Removed)
	assert.True(t, fs.PathExists(paths[0]))
}

func TestCleanNothing(t *testing.T) {
	result, err := Artifacts(nil, true, false)
	require.NoError(t, err)
	assert.Empty(t, result.Removed)
}

func TestCleanSkipsMissing(t *testing.T) {
	paths := writeArtifacts(t, map[string]string{"main": "1"}, "missing", "main")
	result, err := Artifacts(paths, false, false)
	require.NoError(t, err)
	assert.Equal(t, []string{paths[1]}, result.Removed)
	assert.Equal(t, "Removed 1 artifact, freeing 1 B", result.String())
}

func TestCleanDuplicates(t *testing.T) {
	paths := writeArtifacts(t, map[string]string{"a": "1"}, "a", "a")
	result, err := Artifacts(paths, false, false)
	require.NoError(t, err)
	assert.Len(t, result.Removed, 1)
}

func TestCleanDirectory(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	require.NoError(t, fs.WriteFile(filepath.Join(out, "a"), []byte("123")))
	require.NoError(t, fs.WriteFile(filepath.Join(out, "sub", "b"), []byte("45")))
	result, err := Artifacts([]string{out}, false, false)
	require.NoError(t, err)
	assert.EqualValues(t, 5, result.Bytes)
	_, err = os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}

func TestCleanDryRun(t *testing.T) {
	paths := writeArtifacts(t, map[string]string{"a": "1", "b": "2"}, "a", "b")
	result, err := Artifacts(paths, false, true)
	require.NoError(t, err)
	assert.Equal(t, paths, result.Removed)
	assert.True(t, fs.PathExists(paths[0]))
	assert.True(t, fs.PathExists(paths[1]))
}
