package compiler

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/Norgate-AV/wcc/internal/codes"
)

// Commander interface for testing
type Commander interface {
	Run() error
}

// ExecFunc creates a Commander for a program and its arguments
type ExecFunc func(name string, args ...string) Commander

// CommandBuilder runs toolchain commands
type CommandBuilder struct {
	execCommand ExecFunc
	stdout      io.Writer
	stderr      io.Writer
}

// Option configures a CommandBuilder
type Option func(*CommandBuilder)

// WithExec replaces the process factory, mainly for tests
func WithExec(fn ExecFunc) Option {
	return func(cb *CommandBuilder) {
		cb.execCommand = fn
	}
}

// WithOutput redirects the toolchain's standard streams
func WithOutput(stdout, stderr io.Writer) Option {
	return func(cb *CommandBuilder) {
		cb.stdout = stdout
		cb.stderr = stderr
	}
}

// NewCommandBuilder creates a new command builder
func NewCommandBuilder(opts ...Option) *CommandBuilder {
	cb := &CommandBuilder{
		execCommand: func(name string, args ...string) Commander {
			return exec.Command(name, args...)
		},
		stdout: os.Stdout,
		stderr: os.Stderr,
	}

	for _, opt := range opts {
		opt(cb)
	}

	return cb
}

// ExecuteCommand runs sc to completion with inherited standard streams and
// returns its exit code. A non-zero exit is not an error; an error is
// returned only when the process could not be started.
func (cb *CommandBuilder) ExecuteCommand(sc *ShellCommand) (int, error) {
	c := cb.execCommand(sc.Path, sc.Args...)
	if cmd, ok := c.(*exec.Cmd); ok {
		cmd.Stdin = os.Stdin
		cmd.Stdout = cb.stdout
		cmd.Stderr = cb.stderr
	}

	err := c.Run()
	code := codes.ExitCode(err)
	if code == codes.SpawnFailure {
		return code, fmt.Errorf("failed to start %s: %w", sc.Path, err)
	}

	return code, nil
}
