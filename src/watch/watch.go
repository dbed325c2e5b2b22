// Package watch provides a filesystem watcher that is used to rebuild targets when their sources change.
package watch

import (
	"context"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/please-build/lbs/src/cli/logging"
	"github.com/please-build/lbs/src/core"
)

var log = logging.Log

const debounceInterval = 50 * time.Millisecond

// Files returns the files that affect building the given targets: the sources of each one and of
// everything it depends on, plus any extra files given (typically the build description itself).
// The paths are absolute and sorted.
func Files(graph *core.BuildScenario, names []string, extra ...string) []string {
	files := map[string]struct{}{}
	add := func(path string) {
		if abs, err := filepath.Abs(path); err == nil {
			files[abs] = struct{}{}
		} else {
			log.Warning("Can't watch %s: %s", path, err)
		}
	}
	seen := map[string]bool{}
	var visit func(name string)
	visit = func(name string) {
		if seen[name] {
			return
		}
		seen[name] = true
		target := graph.Target(name)
		if target == nil {
			return
		}
		for _, src := range target.Sources {
			add(src)
		}
		for _, r := range target.Requisites {
			switch r.Kind {
			case core.CopyRequisite:
				add(r.Text)
			case core.DependencyRequisite:
				visit(r.Text)
			}
		}
	}
	for _, name := range names {
		visit(name)
	}
	for _, path := range extra {
		add(path)
	}
	ret := make([]string, 0, len(files))
	for file := range files {
		ret = append(ret, file)
	}
	sort.Strings(ret)
	return ret
}

// Watch calls rebuild once, then again every time any of the files it returns change.
// Each call returns the files to watch from then on.
// It returns when the context is cancelled.
func Watch(ctx context.Context, rebuild func() []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	w := &watches{watcher: watcher, dirs: map[string]struct{}{}}
	w.Update(rebuild())
	// Drop a message here so they know when it's actually ready to go.
	log.Notice("And now my watch begins...")

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			} else if _, present := w.files[filepath.Clean(event.Name)]; !present {
				log.Debug("Skipping notification for %s", event.Name)
				continue
			}
			log.Info("Event: %s", event)
			// Quick debounce; poll and discard all events for the next brief period.
		outer:
			for {
				select {
				case <-watcher.Events:
				case <-time.After(debounceInterval):
					break outer
				}
			}
			w.Update(rebuild())
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error("Error watching files: %s", err)
		}
	}
}

// watches tracks the set of files we care about and the directories we watch to find out about them.
// We watch directories rather than files so we notice files being replaced or created.
type watches struct {
	watcher *fsnotify.Watcher
	files   map[string]struct{}
	dirs    map[string]struct{}
}

// Update changes the set of watched files.
func (w *watches) Update(files []string) {
	w.files = make(map[string]struct{}, len(files))
	dirs := map[string]struct{}{}
	for _, file := range files {
		file = filepath.Clean(file)
		w.files[file] = struct{}{}
		dirs[filepath.Dir(file)] = struct{}{}
	}
	for dir := range w.dirs {
		if _, present := dirs[dir]; !present {
			log.Info("Removing watch on %s", dir)
			if err := w.watcher.Remove(dir); err != nil {
				log.Debug("Failed to remove watch on %s: %s", dir, err)
			}
			delete(w.dirs, dir)
		}
	}
	for dir := range dirs {
		if _, present := w.dirs[dir]; !present {
			log.Info("Adding watch on %s", dir)
			if err := w.watcher.Add(dir); err != nil {
				log.Error("Failed to add watch on %s: %s", dir, err)
				continue
			}
			w.dirs[dir] = struct{}{}
		}
	}
}
