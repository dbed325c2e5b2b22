// Package lbsinit implements writing starter config files and build descriptions.
package lbsinit

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/please-build/lbs/src/cli/logging"
	"github.com/please-build/lbs/src/core"
	"github.com/please-build/lbs/src/fs"
)

var log = logging.Log

// ErrExists is returned when asked to write a file that's already there.
var ErrExists = errors.New("file already exists")

const configTemplate = `; lbs config file
; Leaving this file as is is enough to build your project with lbs.
;
; You can uncomment the following to require a minimum version of lbs.
; [lbs]
; version = >=%s
;
; Compilers are configured like this; %%i, %%o, %%f and %%d are replaced by
; inputs, the output, flags and defines respectively.
; [compiler "c"]
; object = cc -c %%f %%d %%i -o %%o
; archive = ar crs %%o %%i
; executable = cc %%f %%d %%i -o %%o
`

const descriptionTemplate = `; Build description for lbs.
; Run 'lbs build' to build the executable below.
(executable %s)
(sources %s main.c)
`

// InitConfig writes a template config file and, if there isn't one, a starter build description
// into the given directory. It returns the files it wrote.
// It fails with ErrExists if the config file is already present and overwrite isn't set.
func InitConfig(dir string, overwrite bool) ([]string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		log.Warning("Can't determine absolute directory: %s", err)
	}
	config := filepath.Join(dir, core.ConfigFileName)
	if fs.PathExists(config) && !overwrite {
		return nil, fmt.Errorf("%w: %s", ErrExists, config)
	}
	if err := fs.WriteFile(config, []byte(fmt.Sprintf(configTemplate, core.LbsVersion))); err != nil {
		return nil, err
	}
	written := []string{config}
	description := filepath.Join(dir, core.DefaultBuildFileName)
	if fs.PathExists(description) {
		log.Notice("Not writing %s, it already exists", description)
		return written, nil
	}
	name := filepath.Base(dir)
	if name == "" || name == "/" || name == "." || strings.ContainsAny(name, "() \t\";") {
		name = "main"
	}
	if err := fs.WriteFile(description, []byte(fmt.Sprintf(descriptionTemplate, name, name))); err != nil {
		return written, err
	}
	return append(written, description), nil
}

// InitConfigFile sets a bunch of values in a config file, given as section.key = value.
// Values are appended so they take precedence over anything already set.
func InitConfigFile(filename string, options map[string]string) error {
	var b []byte
	if fs.PathExists(filename) {
		contents, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		b = contents
	}
	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		section, name, err := splitKey(k)
		if err != nil {
			return err
		}
		if len(b) > 0 && b[len(b)-1] != '\n' {
			b = append(b, '\n')
		}
		b = append(b, []byte(fmt.Sprintf("[%s]\n%s = %s\n", section, name, options[k]))...)
	}
	// Check the result still reads before we replace what's there.
	if err := checkConfig(b); err != nil {
		return err
	}
	return fs.WriteFile(filename, b)
}

// splitKey splits a key like build.language or compiler.c.object into the section header and the key name.
func splitKey(key string) (string, string, error) {
	parts := strings.Split(key, ".")
	switch len(parts) {
	case 2:
		return parts[0], parts[1], nil
	case 3:
		return fmt.Sprintf("%s %q", parts[0], parts[1]), parts[2], nil
	}
	return "", "", fmt.Errorf("unknown key format: %s", key)
}

// checkConfig checks that the given contents form a valid config file.
func checkConfig(contents []byte) error {
	f, err := os.CreateTemp("", "lbsconfig")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())
	if _, err := f.Write(contents); err != nil {
		f.Close()
		return err
	} else if err := f.Close(); err != nil {
		return err
	}
	_, err = core.ReadConfigFiles([]string{f.Name()})
	return err
}
