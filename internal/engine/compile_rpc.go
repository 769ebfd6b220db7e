package engine

import (
	"context"
	"encoding/json"

	"github.com/dariafung/fotex/internal/errinfo"
)

const (
	compileStatusRunning   = "running"
	compileStatusSucceeded = "succeeded"
	compileStatusFailed    = "failed"
)

// CompileRun saves content to the resolved document and compiles it. A blank
// path compiles the fallback draft.
func (e *Engine) CompileRun(ctx context.Context, params json.RawMessage) (any, *errinfo.ErrorInfo) {
	var req struct {
		Content string `json:"content"`
		Path    string `json:"path"`
	}
	if info := decodeParams(errinfo.PhaseCompile, params, &req); info != nil {
		return nil, info
	}
	e.emit("CompileStatusChanged", map[string]any{"path": req.Path, "status": compileStatusRunning})
	result, err := e.compiler.Compile(ctx, req.Content, req.Path)
	if err != nil {
		info := mapCompileError(req.Path, err)
		e.emit("CompileStatusChanged", map[string]any{
			"path":       req.Path,
			"status":     compileStatusFailed,
			"error_code": info.ErrorCode,
		})
		return nil, info
	}
	e.emit("CompileStatusChanged", map[string]any{
		"path":        result.Target.Path,
		"status":      compileStatusSucceeded,
		"output_path": result.OutputPath,
	})
	return map[string]any{
		"success":     result.Success,
		"output_path": result.OutputPath,
		"diagnostic":  result.Diagnostic,
		"run_id":      result.RunID,
		"duration_ms": result.Duration.Milliseconds(),
		"target":      result.Target,
	}, nil
}
