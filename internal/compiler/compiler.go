// Package compiler saves a document and runs the typesetting compiler on it.
package compiler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/dariafung/fotex/internal/document"
	"github.com/dariafung/fotex/internal/logging"
	"github.com/dariafung/fotex/internal/workspace"
)

const (
	DefaultCommand = "tectonic"
	subcommand     = "compile"
)

// DefaultArgs go before the subcommand; -X selects tectonic's V2 interface.
var DefaultArgs = []string{"-X"}

// Result describes a successful run. Failures are returned as errors.
type Result struct {
	Success    bool             `json:"success"`
	OutputPath string           `json:"output_path"`
	Diagnostic string           `json:"diagnostic,omitempty"`
	RunID      string           `json:"run_id"`
	Duration   time.Duration    `json:"duration_ns"`
	Target     workspace.Target `json:"target"`
}

type Orchestrator struct {
	resolver *workspace.Resolver
	store    *document.Store
	runner   Runner
	command  string
	args     []string
	timeout  time.Duration
	logger   *slog.Logger
	locks    pathLocks
	now      func() time.Time
}

type Option func(*Orchestrator)

func WithRunner(r Runner) Option {
	return func(o *Orchestrator) {
		if r != nil {
			o.runner = r
		}
	}
}

// WithCommand overrides the compiler executable and the arguments placed
// before "compile". A nil args keeps DefaultArgs; an empty slice means none.
func WithCommand(command string, args []string) Option {
	return func(o *Orchestrator) {
		if command != "" {
			o.command = command
		}
		if args != nil {
			o.args = append([]string{}, args...)
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.timeout = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

func New(resolver *workspace.Resolver, store *document.Store, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		resolver: resolver,
		store:    store,
		runner:   ExecRunner{},
		command:  DefaultCommand,
		args:     append([]string{}, DefaultArgs...),
		logger:   logging.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = o.logger.With("component", "compiler")
	return o
}

// Invocation builds the argv for target without running anything.
func (o *Orchestrator) Invocation(target workspace.Target) Invocation {
	args := make([]string, 0, len(o.args)+2)
	args = append(args, o.args...)
	args = append(args, subcommand, target.FileName)
	return Invocation{Command: o.command, Args: args, Dir: target.Dir}
}

// Compile writes content to the resolved document and compiles it. Calls for
// the same file run one at a time; waiting honors ctx.
func (o *Orchestrator) Compile(ctx context.Context, content, path string) (Result, error) {
	target, err := o.resolver.Resolve(path)
	if err != nil {
		return Result{}, err
	}
	release, err := o.locks.acquire(ctx, lockKey(target.Path))
	if err != nil {
		return Result{}, err
	}
	defer release()

	if err := o.store.WriteText(target.Path, content); err != nil {
		o.logger.Warn("compile.persist_failed", "path", target.Path, "error", err.Error())
		return Result{}, err
	}

	runID := uuid.NewString()
	inv := o.Invocation(target)
	runCtx := ctx
	if o.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	o.logger.Debug("compile.started", "run_id", runID, "path", target.Path, "cmd", inv.String(), "dir", inv.Dir)
	start := o.now()
	out, err := o.runner.Run(runCtx, inv)
	elapsed := o.now().Sub(start)
	if err != nil {
		if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
			o.logger.Warn("compile.timed_out", "run_id", runID, "path", target.Path, "timeout", o.timeout.String())
			return Result{}, fmt.Errorf("%w after %s", ErrTimeout, o.timeout)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			o.logger.Debug("compile.canceled", "run_id", runID, "path", target.Path)
			return Result{}, ctxErr
		}
		o.logger.Warn("compile.launch_failed", "run_id", runID, "cmd", inv.Command, "error", err.Error())
		var unavailable *ToolUnavailableError
		if errors.As(err, &unavailable) {
			return Result{}, err
		}
		return Result{}, &ToolUnavailableError{Command: inv.Command, Err: err}
	}
	if out.ExitCode != 0 {
		o.logger.Info("compile.failed",
			"run_id", runID,
			"path", target.Path,
			"exit_code", out.ExitCode,
			"duration_ms", elapsed.Milliseconds(),
			"stderr_len", len(out.Stderr),
		)
		return Result{}, &CompileError{ExitCode: out.ExitCode, Stderr: out.Stderr}
	}

	result := Result{
		Success:    true,
		OutputPath: target.OutputPath(),
		Diagnostic: out.Stderr,
		RunID:      runID,
		Duration:   elapsed,
		Target:     target,
	}
	o.logger.Info("compile.finished", "run_id", runID, "path", target.Path, "output", result.OutputPath, "duration_ms", elapsed.Milliseconds())
	return result, nil
}

func lockKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
