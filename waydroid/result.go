package waydroid

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
)

type ResultKind int

const (
	// ResultOK means the command ran and exited with status zero.
	ResultOK ResultKind = iota

	// ResultExit means the command ran and exited with a non-zero
	// status.
	ResultExit

	// ResultSpawn means the command could not be run at all.
	ResultSpawn
)

// Result is the outcome of running an external command.
type Result struct {
	Kind     ResultKind
	Output   string
	ExitCode int
	Err      error
}

func (r Result) OK() bool {
	return r.Kind == ResultOK
}

// Error returns nil for ResultOK and a description of the failure
// otherwise.
func (r Result) Error() error {
	switch r.Kind {
	case ResultOK:
		return nil
	case ResultExit:
		return fmt.Errorf("exited with status %v: %w", r.ExitCode, r.Err)
	default:
		return fmt.Errorf("failed to run: %w", r.Err)
	}
}

// Runner runs external commands.
type Runner interface {
	// Run runs a command to completion and captures its standard
	// output.
	Run(ctx context.Context, name string, args ...string) Result

	// Start starts a command in its own session and does not wait for
	// it.
	Start(name string, args ...string) error
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	// Env is added to the environment of every command.
	Env []string
}

func (r ExecRunner) command(ctx context.Context, name string, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, name, args...)
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}
	return cmd
}

func (r ExecRunner) Run(ctx context.Context, name string, args ...string) Result {
	var stdout, stderr bytes.Buffer
	cmd := r.command(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return Result{Kind: ResultOK, Output: stdout.String()}
	}

	var exit *exec.ExitError
	if errors.As(err, &exit) {
		return Result{
			Kind:     ResultExit,
			Output:   stdout.String(),
			ExitCode: exit.ExitCode(),
			Err:      fmt.Errorf("%v %v: %w (stderr: %s)", name, strings.Join(args, " "), err, strings.TrimSpace(stderr.String())),
		}
	}
	return Result{Kind: ResultSpawn, Err: err}
}

func (r ExecRunner) Start(name string, args ...string) error {
	cmd := r.command(context.Background(), name, args...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	err := cmd.Start()
	if err != nil {
		return err
	}

	// Reap the child so it does not linger as a zombie.
	go cmd.Wait()
	return nil
}
