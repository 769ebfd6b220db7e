package engine

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"

	"github.com/dariafung/fotex/internal/diff"
	"github.com/dariafung/fotex/internal/document"
	"github.com/dariafung/fotex/internal/errinfo"
)

// DocumentReadMain opens the draft in the fallback root, or the template when
// there is none yet. Paths are only reported for a document that exists.
func (e *Engine) DocumentReadMain(ctx context.Context, _ json.RawMessage) (any, *errinfo.ErrorInfo) {
	target, err := e.resolver.Resolve("")
	if err != nil {
		return nil, mapDocumentError(errinfo.PhaseDocument, "", err, false)
	}
	content, found, err := e.store.ReadTextOrDefault(target.Path)
	if err != nil {
		return nil, mapDocumentError(errinfo.PhaseDocument, target.Path, err, false)
	}
	result := map[string]any{"content": content, "exists": found}
	if found {
		result["tex_path"] = target.Path
		result["workspace_dir"] = target.Dir
	}
	return result, nil
}

func (e *Engine) DocumentReadText(ctx context.Context, params json.RawMessage) (any, *errinfo.ErrorInfo) {
	var req struct {
		Path string `json:"path"`
	}
	if info := decodeParams(errinfo.PhaseDocument, params, &req); info != nil {
		return nil, info
	}
	if strings.TrimSpace(req.Path) == "" {
		return nil, errinfo.ValidationFailed(errinfo.PhaseDocument, "path is required")
	}
	content, err := e.store.ReadText(req.Path)
	if err != nil {
		return nil, mapDocumentError(errinfo.PhaseDocument, req.Path, err, false)
	}
	return map[string]any{"content": content}, nil
}

// DocumentWriteText saves content; a blank path targets the fallback draft.
func (e *Engine) DocumentWriteText(ctx context.Context, params json.RawMessage) (any, *errinfo.ErrorInfo) {
	var req struct {
		Path    string `json:"path"`
		Content string `json:"content"`
	}
	if info := decodeParams(errinfo.PhaseDocument, params, &req); info != nil {
		return nil, info
	}
	target, err := e.resolver.Resolve(req.Path)
	if err != nil {
		return nil, mapDocumentError(errinfo.PhaseDocument, "", err, true)
	}
	if err := e.store.WriteText(target.Path, req.Content); err != nil {
		return nil, mapDocumentError(errinfo.PhaseDocument, target.Path, err, true)
	}
	e.logger.Debug("document.saved", "path", target.Path, "bytes", len(req.Content))
	return map[string]any{"ok": true, "path": target.Path}, nil
}

// DocumentReadPdf returns the artifact base64 encoded; a blank path reads the
// fallback draft's output.
func (e *Engine) DocumentReadPdf(ctx context.Context, params json.RawMessage) (any, *errinfo.ErrorInfo) {
	var req struct {
		Path string `json:"path"`
	}
	if info := decodeParams(errinfo.PhaseDocument, params, &req); info != nil {
		return nil, info
	}
	path := req.Path
	if strings.TrimSpace(path) == "" {
		root, err := e.resolver.RootDir()
		if err != nil {
			return nil, mapDocumentError(errinfo.PhaseDocument, "", err, false)
		}
		path = filepath.Join(root, mainPDFName)
	}
	data, err := e.store.ReadBinary(path)
	if err != nil {
		return nil, mapDocumentError(errinfo.PhaseDocument, path, err, false)
	}
	return map[string]any{
		"path":   path,
		"data":   base64.StdEncoding.EncodeToString(data),
		"length": len(data),
	}, nil
}

// DocumentImportPdf copies a user-picked PDF into the workspace root.
func (e *Engine) DocumentImportPdf(ctx context.Context, params json.RawMessage) (any, *errinfo.ErrorInfo) {
	var req struct {
		SrcPath string `json:"src_path"`
	}
	if info := decodeParams(errinfo.PhaseDocument, params, &req); info != nil {
		return nil, info
	}
	if strings.TrimSpace(req.SrcPath) == "" {
		return nil, errinfo.ValidationFailed(errinfo.PhaseDocument, "src_path is required")
	}
	root, err := e.resolver.RootDir()
	if err != nil {
		return nil, mapDocumentError(errinfo.PhaseDocument, "", err, true)
	}
	dst, err := e.store.CopyFile(req.SrcPath, filepath.Join(root, uploadedPDFName))
	if err != nil {
		return nil, mapDocumentError(errinfo.PhaseDocument, req.SrcPath, err, true)
	}
	return map[string]any{"dst_path": dst}, nil
}

// DocumentGetChanges diffs the editor buffer against what is on disk. A file
// that does not exist yet compares against the empty document.
func (e *Engine) DocumentGetChanges(ctx context.Context, params json.RawMessage) (any, *errinfo.ErrorInfo) {
	var req struct {
		Path    string `json:"path"`
		Content string `json:"content"`
	}
	if info := decodeParams(errinfo.PhaseDocument, params, &req); info != nil {
		return nil, info
	}
	target, err := e.resolver.Resolve(req.Path)
	if err != nil {
		return nil, mapDocumentError(errinfo.PhaseDocument, "", err, false)
	}
	saved, err := e.store.ReadText(target.Path)
	if err != nil && !errors.Is(err, document.ErrNotFound) {
		return nil, mapDocumentError(errinfo.PhaseDocument, target.Path, err, false)
	}
	return map[string]any{
		"path": target.Path,
		"diff": diff.Compare(saved, req.Content),
	}, nil
}

// FolderRead snapshots a directory for the file browser. A blank path reads
// the workspace root.
func (e *Engine) FolderRead(ctx context.Context, params json.RawMessage) (any, *errinfo.ErrorInfo) {
	var req struct {
		Path string `json:"path"`
	}
	if info := decodeParams(errinfo.PhaseTree, params, &req); info != nil {
		return nil, info
	}
	path := req.Path
	if strings.TrimSpace(path) == "" {
		root, err := e.resolver.RootDir()
		if err != nil {
			return nil, mapDocumentError(errinfo.PhaseTree, "", err, false)
		}
		path = root
	}
	node, skipped, err := e.tree.Snapshot(path)
	if err != nil {
		return nil, mapDocumentError(errinfo.PhaseTree, path, err, false)
	}
	for _, entry := range skipped {
		e.logger.Debug("tree.entry_skipped", "path", entry.Path, "error", entry.Error)
	}
	return node, nil
}

