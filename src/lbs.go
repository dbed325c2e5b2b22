package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/thought-machine/go-flags"

	"github.com/please-build/lbs/src/build"
	"github.com/please-build/lbs/src/clean"
	"github.com/please-build/lbs/src/cli"
	"github.com/please-build/lbs/src/cli/logging"
	"github.com/please-build/lbs/src/core"
	"github.com/please-build/lbs/src/export"
	"github.com/please-build/lbs/src/fs"
	"github.com/please-build/lbs/src/lbsinit"
	"github.com/please-build/lbs/src/parse"
	"github.com/please-build/lbs/src/process"
	"github.com/please-build/lbs/src/query"
	"github.com/please-build/lbs/src/watch"
)

var log = logging.Log

var config *core.Configuration

var opts struct {
	Usage string `usage:"lbs builds C and C++ programs from a small lisp-style build description.\n\nBy default it reads .lbs in the current directory and builds the only executable in it."`

	BuildFlags struct {
		File      cli.Filepath `short:"f" long:"file" description:"Build description to read (default .lbs)"`
		Language  string       `short:"x" long:"language" description:"Compiler to use for targets that don't specify one (default c++)"`
		KeepGoing bool         `short:"k" long:"keep_going" description:"Carry on past errors in the build description and targets that can't be synthesized"`
	} `group:"Options controlling what to build & how to build it"`

	OutputFlags struct {
		Verbosity    cli.Verbosity `short:"v" long:"verbosity" description:"Verbosity of output (error, warning, notice, info, debug)" default:"warning"`
		LogFile      cli.Filepath  `long:"log_file" description:"File to echo full logging output to"`
		LogFileLevel cli.Verbosity `long:"log_file_level" description:"Log level for file output" default:"debug"`
		Version      bool          `long:"version" description:"Print the version of lbs"`
	} `group:"Options controlling output & logging"`

	Build struct {
		DryRun  bool `short:"n" long:"dry_run" description:"Print the commands that would be run instead of running them"`
		NoClean bool `long:"noclean" description:"Don't remove intermediate artifacts after a successful build"`
		Args    struct {
			Targets cli.StdinStrings `positional-arg-name:"targets" description:"Targets to build (default is the only executable)"`
		} `positional-args:"true"`
	} `command:"build" alias:"b" description:"Builds one or more targets"`

	Clean struct {
		Yes    bool `short:"y" long:"yes" description:"Don't ask for confirmation before removing anything"`
		DryRun bool `short:"n" long:"dry_run" description:"Print what would be removed instead of removing it"`
		Args   struct {
			Targets cli.StdinStrings `positional-arg-name:"targets" description:"Targets to clean (default is everything)"`
		} `positional-args:"true"`
	} `command:"clean" description:"Removes build artifacts"`

	Export struct {
		Output cli.Filepath `short:"o" long:"output" description:"File to write to (default stdout)"`
		CMake  struct {
		} `command:"cmake" description:"Exports the build description as a CMakeLists.txt"`
		YAML struct {
		} `command:"yaml" description:"Exports the build description as YAML"`
	} `command:"export" description:"Exports the build description to other formats"`

	Query struct {
		Targets struct {
		} `command:"targets" description:"Lists all the targets in the build description"`
		Print struct {
			Args struct {
				Targets cli.StdinStrings `positional-arg-name:"targets" description:"Targets to print (default is everything)"`
			} `positional-args:"true"`
		} `command:"print" description:"Prints everything known about targets"`
		Deps struct {
			Args struct {
				Targets cli.StdinStrings `positional-arg-name:"targets" description:"Targets to query (default is the only executable)"`
			} `positional-args:"true"`
		} `command:"deps" description:"Prints the dependency tree of targets"`
		ReverseDeps struct {
			Args struct {
				Targets cli.StdinStrings `positional-arg-name:"targets" description:"Targets to query" required:"true"`
			} `positional-args:"true" required:"true"`
		} `command:"reverse_deps" alias:"revdeps" description:"Lists all targets that depend on the given ones"`
		Commands struct {
			OneLine bool `long:"one_line" description:"Join all the commands into a single line"`
			Shell   bool `long:"shell" description:"Print the commands as a shell script that runs them as lbs would"`
			Args    struct {
				Targets cli.StdinStrings `positional-arg-name:"targets" description:"Targets to print commands for (default is the only executable)"`
			} `positional-args:"true"`
		} `command:"commands" description:"Prints the commands that would build targets"`
	} `command:"query" description:"Queries information about the build description"`

	Init struct {
		Dir    string `long:"dir" description:"Directory to create config in" default:"."`
		Force  bool   `long:"force" description:"Overwrite any existing config file without asking"`
		Config struct {
			Local bool `long:"local" description:"Write to the local config file instead of the repo one"`
			Args  struct {
				Options []string `positional-arg-name:"options" description:"Values to set, as section.key=value" required:"true"`
			} `positional-args:"true" required:"true"`
		} `command:"config" description:"Sets values in a config file"`
	} `command:"init" description:"Initialises a .lbsconfig file and a starter build description" subcommands-optional:"true"`

	Watch struct {
		Args struct {
			Targets cli.StdinStrings `positional-arg-name:"targets" description:"Targets to build (default is the only executable)"`
		} `positional-args:"true"`
	} `command:"watch" alias:"w" description:"Builds targets, then rebuilds them whenever their sources change"`
}

// Definitions of what we do for each command.
// Functions are called after args are parsed and return an exit code.
var buildFunctions = map[string]func() int{
	"build": func() int {
		scenario, names := loadTargets(opts.Build.Args.Targets.Get(), true)
		if scenario == nil || !runBuild(scenario, names, opts.Build.DryRun, opts.Build.NoClean) {
			return 1
		}
		return 0
	},
	"clean": func() int {
		scenario, names := loadTargets(opts.Clean.Args.Targets.Get(), false)
		if scenario == nil {
			return 1
		}
		cmds, ok := synthesize(scenario, names)
		if !ok {
			return 1
		}
		if len(cmds.Artifacts) == 0 {
			log.Notice("Nothing to clean")
			return 0
		}
		if !opts.Clean.Yes && !opts.Clean.DryRun && !cli.PromptYN(fmt.Sprintf("Remove up to %d build artifacts", len(cmds.Artifacts)), true) {
			return 0
		}
		result, err := clean.Artifacts(cmds.Artifacts, false, opts.Clean.DryRun)
		fmt.Println(result)
		if err != nil {
			logErrors(err)
			return 1
		}
		return 0
	},
	"export.cmake": func() int {
		return runExport(export.CMake)
	},
	"export.yaml": func() int {
		return runExport(export.YAML)
	},
	"query.targets": func() int {
		scenario := loadScenario()
		if scenario == nil {
			return 1
		}
		query.AllTargets(os.Stdout, scenario)
		return 0
	},
	"query.print": func() int {
		scenario, names := loadTargets(opts.Query.Print.Args.Targets.Get(), false)
		return runQuery(scenario, func() error {
			return query.Print(os.Stdout, scenario, names)
		})
	},
	"query.deps": func() int {
		scenario, names := loadTargets(opts.Query.Deps.Args.Targets.Get(), true)
		return runQuery(scenario, func() error {
			return query.Deps(os.Stdout, scenario, names)
		})
	},
	"query.reverse_deps": func() int {
		scenario := loadScenario()
		return runQuery(scenario, func() error {
			revdeps, err := query.ReverseDeps(scenario, opts.Query.ReverseDeps.Args.Targets.Get())
			for _, name := range revdeps {
				fmt.Println(name)
			}
			return err
		})
	},
	"query.commands": func() int {
		scenario, names := loadTargets(opts.Query.Commands.Args.Targets.Get(), true)
		if scenario == nil {
			return 1
		}
		cmds, ok := synthesize(scenario, names)
		if !ok {
			return 1
		}
		if opts.Query.Commands.Shell {
			query.CommandsAsScript(os.Stdout, cmds, newExecutor().Argv)
		} else if opts.Query.Commands.OneLine {
			query.CommandsOnOneLine(os.Stdout, cmds)
		} else {
			query.Commands(os.Stdout, cmds)
		}
		return 0
	},
	"init": func() int {
		written, err := lbsinit.InitConfig(opts.Init.Dir, opts.Init.Force)
		if errors.Is(err, lbsinit.ErrExists) && cli.PromptYN(fmt.Sprintf("%s, overwrite it", err), false) {
			written, err = lbsinit.InitConfig(opts.Init.Dir, true)
		}
		for _, filename := range written {
			fmt.Printf("Wrote %s\n", filename)
		}
		if err != nil {
			log.Error("%s", err)
			return 1
		}
		return 0
	},
	"init.config": func() int {
		options := map[string]string{}
		for _, option := range opts.Init.Config.Args.Options {
			key, value, found := strings.Cut(option, "=")
			if !found {
				log.Error("Invalid option %s, must be in the form section.key=value", option)
				return 1
			}
			options[strings.TrimSpace(key)] = strings.TrimSpace(value)
		}
		filename := core.ConfigFileName
		if opts.Init.Config.Local {
			filename = core.LocalConfigFileName
		}
		if err := lbsinit.InitConfigFile(filename, options); err != nil {
			log.Error("Failed to update %s: %s", filename, err)
			return 1
		}
		return 0
	},
	"watch": func() int {
		requested := opts.Watch.Args.Targets.Get()
		err := watch.Watch(context.Background(), func() []string {
			scenario, names := loadTargets(requested, true)
			if scenario == nil {
				return watch.Files(core.NewBuildScenario(), nil, config.Build.File)
			}
			runBuild(scenario, names, false, true)
			return watch.Files(scenario, names, config.Build.File)
		})
		if err != nil {
			log.Error("Error watching files: %s", err)
			return 1
		}
		return 0
	},
}

// readConfig reads the config files and applies any overrides from flags.
func readConfig() *core.Configuration {
	config, err := core.ReadConfigFiles(core.DefaultConfigFiles())
	if err != nil {
		log.Fatalf("Error reading config file: %s", err)
	}
	if opts.BuildFlags.File != "" {
		config.Build.File = string(opts.BuildFlags.File)
	}
	if opts.BuildFlags.Language != "" {
		config.Build.Language = opts.BuildFlags.Language
	}
	return config
}

// loadScenario parses the build description. It returns nil if that fails.
func loadScenario() *core.BuildScenario {
	scenario := core.NewBuildScenario()
	if err := config.RegisterCompilers(scenario); err != nil {
		log.Fatalf("%s", err)
	}
	if err := parse.ParseFile(scenario, config.Build.File); err != nil {
		logErrors(err)
		if !opts.BuildFlags.KeepGoing {
			return nil
		}
		log.Warning("Continuing with whatever parsed successfully")
	}
	log.Debug("Read %d targets from %s", len(scenario.TargetNames()), config.Build.File)
	return scenario
}

// loadTargets parses the build description and works out which targets were asked for.
// If none were, it chooses the default target, or all of them if useDefault is false.
// It returns a nil scenario if anything fails.
func loadTargets(requested []string, useDefault bool) (*core.BuildScenario, []string) {
	scenario := loadScenario()
	if scenario == nil || len(requested) > 0 {
		return scenario, requested
	} else if !useDefault {
		return scenario, scenario.TargetNames()
	}
	name, err := build.DefaultTarget(scenario)
	if err != nil {
		log.Error("%s", err)
		return nil, nil
	}
	return scenario, []string{name}
}

// synthesize returns the commands to build the given targets.
func synthesize(scenario *core.BuildScenario, names []string) (*build.Commands, bool) {
	cmds, err := build.SynthesizeAll(build.NewState(), scenario, names, config.Build.Language)
	if err != nil {
		logErrors(err)
		return cmds, opts.BuildFlags.KeepGoing
	}
	return cmds, true
}

// runBuild builds the given targets and returns true if it succeeded.
func runBuild(scenario *core.BuildScenario, names []string, dryRun, noClean bool) bool {
	cmds, ok := synthesize(scenario, names)
	if !ok {
		return false
	}
	executor := newExecutor()
	executor.DryRun = dryRun
	start := time.Now()
	if err := executor.Run(context.Background(), cmds.Commands); err != nil {
		var cmdErr *process.CommandError
		if errors.As(err, &cmdErr) {
			cli.Printf("${BOLD_RED}[BUILD]:ERROR:${RESET} %s\n", cmdErr)
		} else {
			log.Error("Build failed: %s", err)
		}
		return false
	} else if dryRun {
		return true
	}
	log.Notice("Built %s in %s", strings.Join(names, ", "), time.Since(start).Round(time.Millisecond))
	if !noClean {
		result, err := clean.Artifacts(cmds.Artifacts, true, false)
		if err != nil {
			logErrors(err)
		}
		log.Info("Cleaned intermediates: %s", result)
	}
	return true
}

func newExecutor() *process.Executor {
	executor, err := process.New(config.Build.Shell)
	if err != nil {
		log.Fatalf("%s", err)
	}
	return executor
}

// runQuery runs a query against a successfully loaded scenario.
func runQuery(scenario *core.BuildScenario, f func() error) int {
	if scenario == nil {
		return 1
	} else if err := f(); err != nil {
		log.Error("%s", err)
		return 1
	}
	return 0
}

// runExport writes the scenario in some other format, to stdout or the requested file.
func runExport(f func(io.Writer, *core.BuildScenario) error) int {
	scenario := loadScenario()
	if scenario == nil {
		return 1
	}
	if opts.Export.Output == "" {
		if err := f(os.Stdout, scenario); err != nil {
			log.Error("Failed to export: %s", err)
			return 1
		}
		return 0
	}
	var buf bytes.Buffer
	if err := f(&buf, scenario); err != nil {
		log.Error("Failed to export: %s", err)
		return 1
	} else if err := fs.WriteFile(string(opts.Export.Output), buf.Bytes()); err != nil {
		log.Error("Failed to write %s: %s", opts.Export.Output, err)
		return 1
	}
	return 0
}

// logErrors logs each error separately if there are several of them.
func logErrors(err error) {
	var merr *multierror.Error
	if errors.As(err, &merr) {
		for _, e := range merr.Errors {
			log.Error("%s", e)
		}
		return
	}
	log.Error("%s", err)
}

func main() {
	parser, extraArgs, flagsErr := cli.ParseFlags("lbs", &opts, os.Args, flags.HelpFlag|flags.PassDoubleDash)
	if opts.OutputFlags.Version {
		fmt.Printf("lbs version %s\n", core.LbsVersion)
		os.Exit(0)
	} else if flagsErr != nil {
		fmt.Fprintf(os.Stderr, "%s\n", flagsErr)
		os.Exit(1)
	} else if len(extraArgs) > 0 {
		fmt.Fprintf(os.Stderr, "Unknown option %s\n", extraArgs)
		os.Exit(1)
	}
	cli.InitLogging(opts.OutputFlags.Verbosity)
	if opts.OutputFlags.LogFile != "" {
		if err := cli.InitFileLogging(string(opts.OutputFlags.LogFile), opts.OutputFlags.LogFileLevel); err != nil {
			log.Fatalf("Error setting up logging: %s", err)
		}
	}
	command := cli.ActiveCommand(parser.Command)
	if !strings.HasPrefix(command, "init") {
		// init writes the config so it doesn't expect to be able to read one.
		config = readConfig()
	}
	log.Debug("Running command %s", command)
	code := buildFunctions[command]()
	cli.RunAtExitHandlers()
	os.Exit(code)
}
