package engine

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/dariafung/fotex/internal/config"
	"github.com/dariafung/fotex/internal/errinfo"
	"github.com/dariafung/fotex/internal/settings"
)

func (e *Engine) ModelsList(ctx context.Context, _ json.RawMessage) (any, *errinfo.ErrorInfo) {
	backend, _, _ := e.currentBackend()
	models, err := backend.ListModels(ctx)
	if err != nil {
		return nil, mapAssistantError(errinfo.PhaseModels, "", err)
	}
	return map[string]any{
		"models":   models,
		"selected": e.selectedModel(),
	}, nil
}

func (e *Engine) ModelsGetSelected(ctx context.Context, _ json.RawMessage) (any, *errinfo.ErrorInfo) {
	return map[string]any{
		"model_id":      e.selectedModel(),
		"default_model": e.cfg.DefaultModel,
	}, nil
}

// ModelsSetSelected persists the model used when a request names none. An
// empty model_id clears the choice.
func (e *Engine) ModelsSetSelected(ctx context.Context, params json.RawMessage) (any, *errinfo.ErrorInfo) {
	var req struct {
		ModelID string `json:"model_id"`
	}
	if info := decodeParams(errinfo.PhaseSettings, params, &req); info != nil {
		return nil, info
	}
	model := strings.TrimSpace(req.ModelID)
	if strings.ContainsAny(model, " \t\n") {
		return nil, errinfo.ValidationFailed(errinfo.PhaseSettings, "model_id must not contain whitespace")
	}
	_, err := e.settings.Update(func(s *settings.Settings) {
		s.SelectedModel = model
	})
	if err != nil {
		return nil, errinfo.FileWriteFailed(errinfo.PhaseSettings, err.Error())
	}
	return map[string]any{"model_id": e.selectedModel()}, nil
}

// BackendSetURL switches the Ollama server. An empty url restores the
// configured one.
func (e *Engine) BackendSetURL(ctx context.Context, params json.RawMessage) (any, *errinfo.ErrorInfo) {
	var req struct {
		URL string `json:"url"`
	}
	if info := decodeParams(errinfo.PhaseSettings, params, &req); info != nil {
		return nil, info
	}
	stored := ""
	if strings.TrimSpace(req.URL) != "" {
		stored = config.NormalizeBackendURL(req.URL)
		parsed, err := url.Parse(stored)
		if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			return nil, errinfo.ValidationFailed(errinfo.PhaseSettings, "invalid backend url")
		}
	}
	if _, err := e.settings.Update(func(s *settings.Settings) { s.BackendURL = stored }); err != nil {
		return nil, errinfo.FileWriteFailed(errinfo.PhaseSettings, err.Error())
	}
	effective := stored
	if effective == "" {
		effective = e.cfg.BackendURL
	}
	e.setBackend(effective)
	_, _, baseURL := e.currentBackend()
	return map[string]any{"backend_url": baseURL}, nil
}

// BackendGetStatus probes the server through the tags endpoint.
func (e *Engine) BackendGetStatus(ctx context.Context, _ json.RawMessage) (any, *errinfo.ErrorInfo) {
	backend, _, baseURL := e.currentBackend()
	models, err := backend.ListModels(ctx)
	if err != nil {
		info := mapAssistantError(errinfo.PhaseModels, "", err)
		return map[string]any{
			"backend_url": baseURL,
			"reachable":   false,
			"error":       info,
		}, nil
	}
	return map[string]any{
		"backend_url": baseURL,
		"reachable":   true,
		"model_count": len(models),
	}, nil
}
