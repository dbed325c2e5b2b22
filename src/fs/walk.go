package fs

import (
	"os"

	"github.com/karrick/godirwalk"
)

// Walk implements an equivalent to filepath.Walk.
// It's implemented over github.com/karrick/godirwalk but the provided interface doesn't use that
// to make it a little easier to handle.
func Walk(rootPath string, callback func(name string, isDir bool) error) error {
	// Compatibility with filepath.Walk which allows passing a file as the root argument.
	if info, err := os.Lstat(rootPath); err != nil {
		return err
	} else if !info.IsDir() {
		return callback(rootPath, false)
	}
	return godirwalk.Walk(rootPath, &godirwalk.Options{Callback: func(name string, info *godirwalk.Dirent) error {
		return callback(name, info.IsDir())
	}})
}

// Size returns the total size in bytes of a file, or of every file under a directory.
// Symlinks count as their own size, not that of whatever they point to.
func Size(rootPath string) (int64, error) {
	var total int64
	err := Walk(rootPath, func(name string, isDir bool) error {
		if isDir {
			return nil
		}
		info, err := os.Lstat(name)
		if err != nil {
			return err
		}
		total += info.Size()
		return nil
	})
	return total, err
}
