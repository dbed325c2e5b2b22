package fs

import (
	"os"
	"strings"

	"github.com/peterebden/go-deferred-regex"
)

var homeRex = deferredregex.DeferredRegex{Re: "(?:^|:)(~(?:[/:]|$))"}

// ExpandHomePath expands all prefixes of ~ without a user specifier to the user's home directory.
// Paths are returned unchanged if we can't work out where that is.
func ExpandHomePath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return ExpandHomePathTo(path, home)
}

// ExpandHomePathTo expands all prefixes of ~ without a user specifier to the given directory.
// Several paths may be given separated by colons, as in $PATH.
func ExpandHomePathTo(path, home string) string {
	return homeRex.ReplaceAllStringFunc(path, func(prefix string) string {
		return strings.Replace(prefix, "~", home, 1)
	})
}
