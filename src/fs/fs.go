// Package fs provides various filesystem helpers.
package fs

import (
	"os"
	"path/filepath"
)

// DirPermissions are the default permission bits we apply to directories.
const DirPermissions = os.ModeDir | 0775

// EnsureDir ensures that the directory of the given file has been created.
func EnsureDir(filename string) error {
	return os.MkdirAll(filepath.Dir(filename), DirPermissions)
}

// PathExists returns true if the given path exists, as a file or a directory.
func PathExists(filename string) bool {
	_, err := os.Lstat(filename)
	return err == nil
}

// FileExists returns true if the given path exists and is a file.
func FileExists(filename string) bool {
	info, err := os.Lstat(filename)
	return err == nil && !info.IsDir()
}

// WriteFile writes data to the given file, creating its directory first if needed.
func WriteFile(filename string, data []byte) error {
	if err := EnsureDir(filename); err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}
