// Utilities for reading the lbs config files.

package core

import (
	"fmt"
	"sort"

	"github.com/please-build/gcfg"

	"github.com/please-build/lbs/src/cli"
	"github.com/please-build/lbs/src/fs"
)

// ConfigFileName is the file name for the typical repo config - this is normally checked in.
const ConfigFileName string = ".lbsconfig"

// LocalConfigFileName is the file name for the local repo config - this is not normally checked in and used to
// override settings on the local machine.
const LocalConfigFileName string = ".lbsconfig.local"

// UserConfigFileName is the file name for the user's config, relative to their home directory.
const UserConfigFileName string = "~/.lbsconfig"

// MachineConfigFileName is the file name for the machine-level config.
const MachineConfigFileName = "/etc/lbsconfig"

// DefaultBuildFileName is the name of the build description we read if nothing else is configured.
const DefaultBuildFileName = ".lbs"

// DefaultLanguage is the compiler used for targets that don't name one.
const DefaultLanguage = "c++"

// DefaultShell is the command prefix used to run build commands.
const DefaultShell = "sh -c"

// DefaultConfigFiles returns the config files we read, in order of increasing precedence.
func DefaultConfigFiles() []string {
	return []string{
		MachineConfigFileName,
		fs.ExpandHomePath(UserConfigFileName),
		ConfigFileName,
		LocalConfigFileName,
	}
}

// A Configuration holds everything read from the config files.
type Configuration struct {
	Lbs struct {
		// Minimum (or exact) version of lbs that this repo requires.
		Version cli.Version
	}
	Build struct {
		// Build description to read.
		File string
		// Compiler for targets that don't set a language.
		Language string
		// Command prefix used to run each build command; the command is appended as one argument.
		Shell string
	}
	// Compilers, keyed by name, e.g. [compiler "c"].
	Compiler map[string]*CompilerConfig
}

// A CompilerConfig is the config section describing a single compiler.
type CompilerConfig struct {
	Object     string
	Archive    string
	Executable string
}

// DefaultConfiguration returns the configuration we use before any files are read.
func DefaultConfiguration() *Configuration {
	config := &Configuration{}
	config.Build.File = DefaultBuildFileName
	config.Build.Language = DefaultLanguage
	config.Build.Shell = DefaultShell
	config.Compiler = map[string]*CompilerConfig{}
	for _, c := range DefaultCompilers() {
		config.Compiler[c.Name] = &CompilerConfig{
			Object:     c.ObjectTemplate,
			Archive:    c.ArchiveTemplate,
			Executable: c.ExecutableTemplate,
		}
	}
	return config
}

func readConfigFile(config *Configuration, filename string) error {
	if !fs.PathExists(filename) {
		return nil // It's not an error to not have the file at all.
	}
	log.Debug("Reading config from %s...", filename)
	if err := gcfg.ReadFileInto(config, filename); err != nil {
		return fmt.Errorf("reading config file %s: %w", filename, err)
	}
	return nil
}

// ReadConfigFiles reads a config file from the given locations, in order.
// Values are filled in by defaults initially and then overridden by each file in turn.
func ReadConfigFiles(filenames []string) (*Configuration, error) {
	config := DefaultConfiguration()
	for _, filename := range filenames {
		if err := readConfigFile(config, filename); err != nil {
			return config, err
		}
	}
	if err := config.Lbs.Version.Satisfied(LbsVersion); err != nil {
		return config, err
	}
	if _, err := config.Compilers(); err != nil {
		return config, err
	}
	return config, nil
}

// Compilers returns the compilers described by this config, sorted by name.
// It fails if any of their templates are invalid.
func (config *Configuration) Compilers() ([]*Compiler, error) {
	names := make([]string, 0, len(config.Compiler))
	for name := range config.Compiler {
		names = append(names, name)
	}
	sort.Strings(names)
	compilers := make([]*Compiler, 0, len(names))
	for _, name := range names {
		c := config.Compiler[name]
		compiler := &Compiler{
			Name:               name,
			ObjectTemplate:     c.Object,
			ArchiveTemplate:    c.Archive,
			ExecutableTemplate: c.Executable,
		}
		if err := compiler.Validate(); err != nil {
			return nil, err
		}
		compilers = append(compilers, compiler)
	}
	return compilers, nil
}

// RegisterCompilers adds all the configured compilers to the given scenario.
func (config *Configuration) RegisterCompilers(scenario *BuildScenario) error {
	compilers, err := config.Compilers()
	if err != nil {
		return err
	}
	for _, c := range compilers {
		if err := scenario.AddCompiler(c); err != nil {
			return err
		}
	}
	return nil
}
