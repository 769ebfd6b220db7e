package engine

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/dariafung/fotex/internal/assistant"
	"github.com/dariafung/fotex/internal/diff"
	"github.com/dariafung/fotex/internal/errinfo"
	"github.com/dariafung/fotex/internal/llm"
)

// modelFor is the request's model, else the user's selection.
func (e *Engine) modelFor(requested string) string {
	if model := strings.TrimSpace(requested); model != "" {
		return model
	}
	return e.selectedModel()
}

func (e *Engine) runAssistant(model string, call func(*assistant.Service, string) (string, error)) (string, *errinfo.ErrorInfo) {
	_, svc, _ := e.currentBackend()
	text, err := call(svc, model)
	if err != nil {
		return "", mapAssistantError(errinfo.PhaseAssistant, model, err)
	}
	return text, nil
}

// withSampling attaches caller sampling options for the backend request.
func withSampling(ctx context.Context, temperature *float64, numCtx int) context.Context {
	if temperature == nil && numCtx <= 0 {
		return ctx
	}
	return llm.WithRequestProfile(ctx, llm.RequestProfile{Temperature: temperature, NumCtx: numCtx})
}

func (e *Engine) AssistantAsk(ctx context.Context, params json.RawMessage) (any, *errinfo.ErrorInfo) {
	var req struct {
		Prompt      string   `json:"prompt"`
		Model       string   `json:"model"`
		Temperature *float64 `json:"temperature"`
		NumCtx      int      `json:"num_ctx"`
	}
	if info := decodeParams(errinfo.PhaseAssistant, params, &req); info != nil {
		return nil, info
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, errinfo.ValidationFailed(errinfo.PhaseAssistant, "prompt is required")
	}
	model := e.modelFor(req.Model)
	ctx = withSampling(ctx, req.Temperature, req.NumCtx)
	text, info := e.runAssistant(model, func(svc *assistant.Service, model string) (string, error) {
		return svc.Ask(ctx, model, req.Prompt)
	})
	if info != nil {
		return nil, info
	}
	return map[string]any{"text": text, "model": model}, nil
}

// AssistantChat forwards caller-built messages unchanged apart from reply
// sanitization. Calls are single-turn, so only system and user roles are
// accepted.
func (e *Engine) AssistantChat(ctx context.Context, params json.RawMessage) (any, *errinfo.ErrorInfo) {
	var req struct {
		Model       string        `json:"model"`
		Messages    []llm.Message `json:"messages"`
		Temperature *float64      `json:"temperature"`
		NumCtx      int           `json:"num_ctx"`
	}
	if info := decodeParams(errinfo.PhaseAssistant, params, &req); info != nil {
		return nil, info
	}
	if len(req.Messages) == 0 {
		return nil, errinfo.ValidationFailed(errinfo.PhaseAssistant, "messages are required")
	}
	for _, msg := range req.Messages {
		switch msg.Role {
		case llm.RoleSystem, llm.RoleUser:
		default:
			return nil, errinfo.ValidationFailed(errinfo.PhaseAssistant, "unsupported role: "+msg.Role)
		}
	}
	model := e.modelFor(req.Model)
	ctx = withSampling(ctx, req.Temperature, req.NumCtx)
	text, info := e.runAssistant(model, func(svc *assistant.Service, model string) (string, error) {
		return svc.Chat(ctx, model, req.Messages)
	})
	if info != nil {
		return nil, info
	}
	return map[string]any{"text": text, "model": model}, nil
}

func (e *Engine) AssistantFixError(ctx context.Context, params json.RawMessage) (any, *errinfo.ErrorInfo) {
	var req struct {
		Snippet  string `json:"snippet"`
		ErrorLog string `json:"error_log"`
		Model    string `json:"model"`
	}
	if info := decodeParams(errinfo.PhaseAssistant, params, &req); info != nil {
		return nil, info
	}
	if strings.TrimSpace(req.Snippet) == "" {
		return nil, errinfo.ValidationFailed(errinfo.PhaseAssistant, "snippet is required")
	}
	model := e.modelFor(req.Model)
	text, info := e.runAssistant(model, func(svc *assistant.Service, model string) (string, error) {
		return svc.FixError(ctx, model, req.Snippet, req.ErrorLog)
	})
	if info != nil {
		return nil, info
	}
	return map[string]any{
		"text":  text,
		"model": model,
		"diff":  diff.Compare(req.Snippet, text),
	}, nil
}

func (e *Engine) AssistantToFormula(ctx context.Context, params json.RawMessage) (any, *errinfo.ErrorInfo) {
	var req struct {
		Text  string `json:"text"`
		Model string `json:"model"`
	}
	if info := decodeParams(errinfo.PhaseAssistant, params, &req); info != nil {
		return nil, info
	}
	if strings.TrimSpace(req.Text) == "" {
		return nil, errinfo.ValidationFailed(errinfo.PhaseAssistant, "text is required")
	}
	model := e.modelFor(req.Model)
	text, info := e.runAssistant(model, func(svc *assistant.Service, model string) (string, error) {
		return svc.ToFormula(ctx, model, req.Text)
	})
	if info != nil {
		return nil, info
	}
	return map[string]any{"text": text, "model": model}, nil
}

func (e *Engine) AssistantAutocomplete(ctx context.Context, params json.RawMessage) (any, *errinfo.ErrorInfo) {
	var req struct {
		Prefix string `json:"prefix"`
		Model  string `json:"model"`
	}
	if info := decodeParams(errinfo.PhaseAssistant, params, &req); info != nil {
		return nil, info
	}
	if strings.TrimSpace(req.Prefix) == "" {
		return nil, errinfo.ValidationFailed(errinfo.PhaseAssistant, "prefix is required")
	}
	model := e.modelFor(req.Model)
	text, info := e.runAssistant(model, func(svc *assistant.Service, model string) (string, error) {
		return svc.Continue(ctx, model, req.Prefix)
	})
	if info != nil {
		return nil, info
	}
	return map[string]any{"text": text, "model": model}, nil
}

// AssistantRewrite rewrites the whole document. Nothing is saved; the
// editor decides whether to apply the returned content.
func (e *Engine) AssistantRewrite(ctx context.Context, params json.RawMessage) (any, *errinfo.ErrorInfo) {
	var req struct {
		Instruction string `json:"instruction"`
		Content     string `json:"content"`
		Model       string `json:"model"`
	}
	if info := decodeParams(errinfo.PhaseAssistant, params, &req); info != nil {
		return nil, info
	}
	if strings.TrimSpace(req.Instruction) == "" {
		return nil, errinfo.ValidationFailed(errinfo.PhaseAssistant, "instruction is required")
	}
	model := e.modelFor(req.Model)
	text, info := e.runAssistant(model, func(svc *assistant.Service, model string) (string, error) {
		return svc.Rewrite(ctx, model, req.Instruction, req.Content)
	})
	if info != nil {
		return nil, info
	}
	return map[string]any{
		"content": text,
		"model":   model,
		"diff":    diff.Compare(req.Content, text),
	}, nil
}
