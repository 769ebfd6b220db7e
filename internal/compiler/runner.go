package compiler

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Invocation is one compiler process: argv and working directory.
type Invocation struct {
	Command string
	Args    []string
	Dir     string
}

func (i Invocation) String() string {
	return strings.Join(append([]string{i.Command}, i.Args...), " ")
}

type Output struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner starts the compiler. A process that ran and exited non-zero is not an
// error: it is reported through Output.ExitCode. Errors mean the process could
// not be launched, or ctx ended.
type Runner interface {
	Run(ctx context.Context, inv Invocation) (Output, error)
}

// waitDelay bounds how long Wait blocks on pipes held by orphaned children
// after the compiler is killed.
const waitDelay = 2 * time.Second

type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, inv Invocation) (Output, error) {
	path, err := resolveCommand(inv.Command)
	if err != nil {
		return Output{}, &ToolUnavailableError{Command: inv.Command, Err: err}
	}
	cmd := exec.CommandContext(ctx, path, inv.Args...)
	cmd.Dir = inv.Dir
	cmd.WaitDelay = waitDelay
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Output{}, ctxErr
	}
	out := Output{Stdout: stdout.String(), Stderr: stderr.String()}
	if runErr == nil {
		return out, nil
	}
	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		out.ExitCode = exitErr.ExitCode()
		if out.ExitCode == 0 {
			out.ExitCode = -1
		}
		return out, nil
	}
	return Output{}, &ToolUnavailableError{Command: inv.Command, Err: runErr}
}

// resolveCommand finds the compiler: explicit paths are used as given, bare
// names are looked up on PATH and then next to the running executable, where
// a bundled build places it.
func resolveCommand(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("no compiler configured")
	}
	if strings.ContainsRune(name, filepath.Separator) || strings.ContainsRune(name, '/') {
		if _, err := os.Stat(name); err != nil {
			return "", err
		}
		return name, nil
	}
	if path, err := exec.LookPath(name); err == nil {
		return path, nil
	}
	if exe, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(exe), name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}
