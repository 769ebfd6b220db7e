package compiler

import (
	"errors"
	"fmt"
)

var (
	ErrUnavailable = errors.New("compiler unavailable")
	ErrTimeout     = errors.New("compile timed out")
)

// ToolUnavailableError means the compiler process could not be started.
type ToolUnavailableError struct {
	Command string
	Err     error
}

func (e *ToolUnavailableError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", ErrUnavailable, e.Command)
	}
	return fmt.Sprintf("%s: %s: %v", ErrUnavailable, e.Command, e.Err)
}

func (e *ToolUnavailableError) Unwrap() error { return e.Err }

func (e *ToolUnavailableError) Is(target error) bool { return target == ErrUnavailable }

// CompileError is a run that started and exited non-zero. Stderr is kept
// byte for byte.
type CompileError struct {
	ExitCode int
	Stderr   string
}

func (e *CompileError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("compile failed with exit code %d", e.ExitCode)
}

func (e *CompileError) Diagnostic() string {
	if e == nil {
		return ""
	}
	return e.Stderr
}
