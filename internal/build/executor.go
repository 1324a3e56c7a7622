package build

import (
	"errors"
	"io"
	"os"
	"os/exec"

	"spvbuild/internal/model"
)

// Executor runs one compiler invocation to completion.
//
// A compiler that ran and exited non-zero is not an error: the exit code is
// returned with a nil error. err is set only when the process could not be
// started or waited on, in which case the exit code is -1.
type Executor interface {
	Execute(inv model.CompilerInvocation) (exitCode int, err error)
}

// ExecExecutor starts the compiler as a child process and blocks until it
// exits. The child inherits the environment and, unless overridden, the
// standard streams of this process. There is no timeout.
type ExecExecutor struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecExecutor returns an executor wired to the process's standard streams.
func NewExecExecutor() *ExecExecutor {
	return &ExecExecutor{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

func (e *ExecExecutor) Execute(inv model.CompilerInvocation) (int, error) {
	// argv is built directly; nothing goes through a shell, so paths with
	// spaces or metacharacters reach the compiler intact.
	cmd := exec.Command(inv.Compiler, inv.Args()...)
	cmd.Env = os.Environ()
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code >= 0 {
			return code, nil
		}
		// Killed by a signal.
		return -1, err
	}
	return -1, err
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(inv model.CompilerInvocation) (int, error)

func (f ExecutorFunc) Execute(inv model.CompilerInvocation) (int, error) {
	return f(inv)
}
