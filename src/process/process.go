// Package process implements running the synthesized build commands as subprocesses.
package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/alessio/shellescape"
	"github.com/google/shlex"

	"github.com/please-build/lbs/src/cli"
	"github.com/please-build/lbs/src/cli/logging"
)

var log = logging.Log

// An Executor runs commands one at a time through a shell.
// It registers as a signal handler to attempt to terminate them all at process exit.
type Executor struct {
	// Where the output of each command goes. Defaults to our own stdout and stderr.
	Stdout, Stderr io.Writer
	// If set, commands are printed to Stdout instead of being run.
	DryRun bool

	shell     []string
	processes map[*exec.Cmd]*process
	mutex     sync.Mutex
}

// A process is a running command.
type process struct {
	cmd *exec.Cmd
	// Closed once the process has exited, at which point err is set.
	done chan struct{}
	err  error
}

// New returns a new Executor that runs each command by appending it as one argument to the given shell,
// for example "sh -c" or "bash -eu -c".
func New(shell string) (*Executor, error) {
	argv, err := shlex.Split(shell)
	if err != nil {
		return nil, fmt.Errorf("invalid shell %q: %w", shell, err)
	} else if len(argv) == 0 {
		return nil, fmt.Errorf("no shell given to run commands with")
	}
	e := &Executor{
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		shell:     argv,
		processes: map[*exec.Cmd]*process{},
	}
	cli.AtExit(e.killAll) // Kill any subprocess if we are ourselves killed
	return e, nil
}

// A CommandError is returned when a command fails.
type CommandError struct {
	Command string
	// The exit status of the command, or -1 if it couldn't be run at all.
	ExitCode int
	Err      error
}

// Error implements the builtin error interface.
func (err *CommandError) Error() string {
	if err.ExitCode < 0 {
		return fmt.Sprintf("command failed: %s\n    %s", err.Err, err.Command)
	}
	return fmt.Sprintf("command failed with status %d\n    %s", err.ExitCode, err.Command)
}

// Unwrap returns the underlying error.
func (err *CommandError) Unwrap() error {
	return err.Err
}

// Run runs each of the given commands in order.
// It stops at the first one that fails and returns a *CommandError describing it; commands
// that already ran aren't undone.
// If the context is cancelled the running command is killed and the context's error is returned.
func (e *Executor) Run(ctx context.Context, commands []string) error {
	for i, command := range commands {
		if e.DryRun {
			fmt.Fprintf(e.Stdout, "[DRY]:[RUN]: %s\n", command)
			continue
		}
		log.Info("[RUN]: %s", command)
		if err := e.RunCommand(ctx, command); err != nil {
			log.Debug("Stopping after %d of %d commands", i+1, len(commands))
			return err
		}
	}
	return nil
}

// RunCommand runs a single command through the shell and waits for it to finish.
func (e *Executor) RunCommand(ctx context.Context, command string) error {
	argv := e.Argv(command)
	log.Debug("Running %s", shellescape.QuoteCommand(argv))
	cmd := e.ExecCommand(argv[0], argv[1:]...)
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr
	// Start the command, then wait for it or the context.
	// We deliberately don't use CommandContext because it will only send SIGKILL which
	// child processes can't handle themselves.
	if err := cmd.Start(); err != nil {
		return &CommandError{Command: command, ExitCode: -1, Err: err}
	}
	proc := e.registerProcess(cmd)
	defer e.removeProcess(cmd)
	select {
	case <-proc.done:
	case <-ctx.Done():
		e.KillProcess(cmd)
		return ctx.Err()
	}
	if proc.err != nil {
		var exitErr *exec.ExitError
		if errors.As(proc.err, &exitErr) {
			return &CommandError{Command: command, ExitCode: exitErr.ExitCode(), Err: proc.err}
		}
		return &CommandError{Command: command, ExitCode: -1, Err: proc.err}
	}
	return nil
}

// Argv returns the full command line used to run a command through the shell.
func (e *Executor) Argv(command string) []string {
	return append(append([]string{}, e.shell...), command)
}

// registerProcess starts waiting for a started command to exit.
func (e *Executor) registerProcess(cmd *exec.Cmd) *process {
	proc := &process{cmd: cmd, done: make(chan struct{})}
	go func() {
		proc.err = cmd.Wait()
		close(proc.done)
	}()
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.processes[cmd] = proc
	return proc
}

// KillProcess kills a process, attempting to send it a SIGTERM first followed by a SIGKILL
// shortly after if it hasn't exited.
func (e *Executor) KillProcess(cmd *exec.Cmd) {
	e.mutex.Lock()
	proc := e.processes[cmd]
	e.mutex.Unlock()
	if proc == nil {
		log.Debug("Not terminating process, it seems to have not started yet")
		return
	}
	if !killProcess(proc, syscall.SIGTERM, 30*time.Millisecond) && !killProcess(proc, syscall.SIGKILL, time.Second) {
		log.Error("Failed to kill inferior process")
	}
	e.removeProcess(cmd)
}

func (e *Executor) removeProcess(cmd *exec.Cmd) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	delete(e.processes, cmd)
}

// killProcess sends a signal to a process group and returns true if it exited within the timeout.
func killProcess(proc *process, sig syscall.Signal, timeout time.Duration) bool {
	pid := proc.cmd.Process.Pid
	log.Debug("Sending signal %s to -%d", sig, pid)
	syscall.Kill(-pid, sig) // Kill the group - we always set one in ExecCommand.
	select {
	case <-proc.done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// killAll kills all subprocesses of this executor.
func (e *Executor) killAll() {
	e.mutex.Lock()
	cmds := make([]*exec.Cmd, 0, len(e.processes))
	for cmd := range e.processes {
		cmds = append(cmds, cmd)
	}
	e.mutex.Unlock()

	var wg sync.WaitGroup
	wg.Add(len(cmds))
	for _, cmd := range cmds {
		go func(cmd *exec.Cmd) {
			defer wg.Done()
			e.KillProcess(cmd)
		}(cmd)
	}
	wg.Wait()
}
