package engine

import (
	"context"
	"encoding/json"

	"github.com/dariafung/fotex/internal/errinfo"
	"github.com/dariafung/fotex/internal/rpc"
)

type method func(context.Context, json.RawMessage) (any, *errinfo.ErrorInfo)

// Register adds every engine method to router. CancelRequest is handled by
// the stdio server itself.
func (e *Engine) Register(router *rpc.Router) {
	register := func(name string, fn method) {
		router.Register(name, func(ctx context.Context, params json.RawMessage) (any, *rpc.Error) {
			result, errInfo := fn(ctx, params)
			if errInfo != nil {
				return nil, &rpc.Error{Message: errInfo.Message(), Data: errInfo}
			}
			return result, nil
		})
	}

	register("EngineGetInfo", e.EngineGetInfo)
	register("WorkspaceResolve", e.WorkspaceResolve)

	register("DocumentReadMain", e.DocumentReadMain)
	register("DocumentReadText", e.DocumentReadText)
	register("DocumentWriteText", e.DocumentWriteText)
	register("DocumentReadPdf", e.DocumentReadPdf)
	register("DocumentImportPdf", e.DocumentImportPdf)
	register("DocumentGetChanges", e.DocumentGetChanges)
	register("FolderRead", e.FolderRead)

	register("CompileRun", e.CompileRun)

	register("AssistantAsk", e.AssistantAsk)
	register("AssistantChat", e.AssistantChat)
	register("AssistantFixError", e.AssistantFixError)
	register("AssistantToFormula", e.AssistantToFormula)
	register("AssistantAutocomplete", e.AssistantAutocomplete)
	register("AssistantRewrite", e.AssistantRewrite)

	register("ModelsList", e.ModelsList)
	register("ModelsGetSelected", e.ModelsGetSelected)
	register("ModelsSetSelected", e.ModelsSetSelected)
	register("BackendSetURL", e.BackendSetURL)
	register("BackendGetStatus", e.BackendGetStatus)
}
