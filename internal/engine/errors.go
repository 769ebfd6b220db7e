package engine

import (
	"context"
	"errors"
	"net"

	"github.com/dariafung/fotex/internal/compiler"
	"github.com/dariafung/fotex/internal/document"
	"github.com/dariafung/fotex/internal/errinfo"
	"github.com/dariafung/fotex/internal/llm"
	"github.com/dariafung/fotex/internal/workspace"
)

func mapDocumentError(phase, path string, err error, write bool) *errinfo.ErrorInfo {
	if errors.Is(err, workspace.ErrRootMissing) {
		return errinfo.ConfigurationError(phase, err.Error())
	}
	if errors.Is(err, document.ErrNotFound) {
		return errinfo.FileNotFound(phase, path, err.Error())
	}
	var info *errinfo.ErrorInfo
	if write {
		info = errinfo.FileWriteFailed(phase, err.Error())
	} else {
		info = errinfo.FileReadFailed(phase, err.Error())
	}
	info.Path = path
	return info
}

func mapCompileError(path string, err error) *errinfo.ErrorInfo {
	if errors.Is(err, context.Canceled) {
		return errinfo.UserCanceled(errinfo.PhaseCompile, err.Error())
	}
	if errors.Is(err, compiler.ErrTimeout) {
		info := errinfo.CompileFailed(path, err.Error())
		info.Retryable = true
		info.Actions = []string{errinfo.ActionRetry}
		return info
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return errinfo.UserCanceled(errinfo.PhaseCompile, err.Error())
	}
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return errinfo.CompileFailed(path, compileErr.Diagnostic())
	}
	if errors.Is(err, compiler.ErrUnavailable) {
		info := errinfo.ToolUnavailable(errinfo.PhaseCompile, err.Error())
		info.Path = path
		return info
	}
	return mapDocumentError(errinfo.PhaseCompile, path, err, true)
}

func mapAssistantError(phase, model string, err error) *errinfo.ErrorInfo {
	info := assistantErrorInfo(phase, err)
	info.ModelID = model
	return info
}

func assistantErrorInfo(phase string, err error) *errinfo.ErrorInfo {
	if errors.Is(err, context.Canceled) {
		return errinfo.UserCanceled(phase, err.Error())
	}
	if errors.Is(err, llm.ErrEgressBlocked) {
		return errinfo.EgressBlocked(phase, "backend host not allowed")
	}
	var statusErr *llm.StatusError
	if errors.As(err, &statusErr) {
		detail := statusErr.Body
		if detail == "" {
			detail = statusErr.Error()
		}
		return errinfo.BackendError(phase, statusErr.StatusCode, detail)
	}
	if errors.Is(err, llm.ErrProtocol) {
		return errinfo.ProtocolError(phase, err.Error())
	}
	if errors.Is(err, llm.ErrUnreachable) || errors.Is(err, context.DeadlineExceeded) {
		return errinfo.BackendUnreachable(phase, err.Error())
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return errinfo.BackendUnreachable(phase, err.Error())
	}
	return errinfo.ProtocolError(phase, err.Error())
}
