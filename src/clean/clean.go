// Code for cleaning build artifacts.

package clean

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-multierror"

	"github.com/please-build/lbs/src/cli/logging"
	"github.com/please-build/lbs/src/fs"
)

var log = logging.Log

// A Result describes what was cleaned.
type Result struct {
	// Paths that were removed (or would have been, for a dry run).
	Removed []string
	// Total size of everything removed.
	Bytes int64
}

// String implements the fmt.Stringer interface.
func (r *Result) String() string {
	if len(r.Removed) == 1 {
		return fmt.Sprintf("Removed 1 artifact, freeing %s", humanize.Bytes(uint64(r.Bytes)))
	}
	return fmt.Sprintf("Removed %d artifacts, freeing %s", len(r.Removed), humanize.Bytes(uint64(r.Bytes)))
}

// Artifacts removes the given build artifacts, which can be files or directories.
// If keepLast is true the final artifact is left alone; it's normally the product of the build
// and everything before it is an intermediate.
// Artifacts that don't exist are skipped. A failure to remove one doesn't stop the others being
// removed; all the errors are returned together.
func Artifacts(artifacts []string, keepLast, dryRun bool) (*Result, error) {
	if keepLast && len(artifacts) > 0 {
		keep := artifacts[len(artifacts)-1]
		log.Debug("Keeping %s", keep)
		artifacts = without(artifacts[:len(artifacts)-1], keep)
	}
	result := &Result{}
	var errs *multierror.Error
	seen := make(map[string]bool, len(artifacts))
	for _, artifact := range artifacts {
		if seen[artifact] {
			continue
		}
		seen[artifact] = true
		if !fs.PathExists(artifact) {
			log.Debug("Not cleaning %s, it doesn't exist", artifact)
			continue
		}
		size, err := fs.Size(artifact)
		if err != nil {
			log.Warning("Couldn't work out the size of %s: %s", artifact, err)
		}
		if dryRun {
			log.Notice("Would remove %s", artifact)
		} else {
			log.Info("Cleaning path %s", artifact)
			if err := os.RemoveAll(artifact); err != nil {
				errs = multierror.Append(errs, fmt.Errorf("failed to clean %s: %w", artifact, err))
				continue
			}
		}
		result.Removed = append(result.Removed, artifact)
		result.Bytes += size
	}
	return result, errs.ErrorOrNil()
}

// without returns the given paths minus any occurrences of one of them.
func without(paths []string, exclude string) []string {
	ret := make([]string, 0, len(paths))
	for _, p := range paths {
		if p != exclude {
			ret = append(ret, p)
		}
	}
	return ret
}
