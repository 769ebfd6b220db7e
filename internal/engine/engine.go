// Package engine implements the RPC methods the editor frontend calls. Each
// method decodes its params, runs one operation and maps failures to
// errinfo payloads.
package engine

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"sync"

	"github.com/dariafung/fotex/internal/appdirs"
	"github.com/dariafung/fotex/internal/assistant"
	"github.com/dariafung/fotex/internal/compiler"
	"github.com/dariafung/fotex/internal/config"
	"github.com/dariafung/fotex/internal/document"
	"github.com/dariafung/fotex/internal/errinfo"
	"github.com/dariafung/fotex/internal/filetree"
	"github.com/dariafung/fotex/internal/llm"
	"github.com/dariafung/fotex/internal/logging"
	"github.com/dariafung/fotex/internal/ollama"
	"github.com/dariafung/fotex/internal/settings"
	"github.com/dariafung/fotex/internal/workspace"
)

const (
	EngineVersion = "0.1.0"
	APIVersion    = "1"
)

const (
	mainPDFName     = "main.pdf"
	uploadedPDFName = "uploaded.pdf"
)

type Notifier func(method string, params any)

// Backend is the LLM server: chat plus model listing.
type Backend interface {
	Chat(ctx context.Context, model string, messages []llm.Message) (string, error)
	ListModels(ctx context.Context) ([]string, error)
}

// BackendFactory builds a Backend for a base URL; called again whenever the
// URL changes.
type BackendFactory func(baseURL string) Backend

type Engine struct {
	cfg       config.Config
	resolver  *workspace.Resolver
	store     *document.Store
	tree      *filetree.Snapshotter
	compiler  *compiler.Orchestrator
	settings  *settings.Store
	runner    compiler.Runner
	factory   BackendFactory
	notify    Notifier
	logger    *slog.Logger
	backendMu sync.RWMutex
	backend   Backend
	assistant *assistant.Service
	baseURL   string
}

type Option func(*Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

func WithRunner(runner compiler.Runner) Option {
	return func(e *Engine) { e.runner = runner }
}

func WithBackendFactory(factory BackendFactory) Option {
	return func(e *Engine) {
		if factory != nil {
			e.factory = factory
		}
	}
}

// New wires the engine from cfg. The fallback workspace root is created when
// missing so a fresh install can save its first draft.
func New(cfg config.Config, opts ...Option) (*Engine, error) {
	engine := &Engine{cfg: cfg, logger: logging.Nop()}
	for _, opt := range opts {
		opt(engine)
	}
	if engine.factory == nil {
		timeout := cfg.ChatTimeout
		engine.factory = func(baseURL string) Backend {
			return ollama.NewClient(baseURL, timeout)
		}
	}
	if err := os.MkdirAll(cfg.WorkspaceRoot, 0o755); err != nil {
		return nil, err
	}
	engine.resolver = workspace.NewResolver(cfg.WorkspaceRoot)
	engine.store = document.NewStore()
	engine.tree = filetree.NewSnapshotter(filetree.Options{RespectGitignore: cfg.RespectGitignore})
	engine.settings = settings.NewStore(appdirs.SettingsPath(cfg.DataDir))

	compilerOpts := []compiler.Option{
		compiler.WithCommand(cfg.CompilerCommand, cfg.CompilerArgs),
		compiler.WithTimeout(cfg.CompileTimeout),
		compiler.WithLogger(engine.logger),
	}
	if engine.runner != nil {
		compilerOpts = append(compilerOpts, compiler.WithRunner(engine.runner))
	}
	engine.compiler = compiler.New(engine.resolver, engine.store, compilerOpts...)

	baseURL := cfg.BackendURL
	if stored, err := engine.settings.Load(); err != nil {
		engine.logger.Warn("engine.settings_load_failed", "error", err.Error())
	} else if stored.BackendURL != "" {
		baseURL = stored.BackendURL
	}
	engine.setBackend(baseURL)
	return engine, nil
}

func (e *Engine) SetNotifier(notify Notifier) {
	e.notify = notify
}

func (e *Engine) emit(method string, params any) {
	if e.notify != nil {
		e.notify(method, params)
	}
}

func (e *Engine) setBackend(baseURL string) {
	baseURL = config.NormalizeBackendURL(baseURL)
	backend := e.factory(baseURL)
	e.backendMu.Lock()
	e.baseURL = baseURL
	e.backend = backend
	e.assistant = assistant.NewService(backend, e.cfg.DefaultModel, e.logger)
	e.backendMu.Unlock()
	e.logger.Debug("engine.backend_set", "url", baseURL)
}

func (e *Engine) currentBackend() (Backend, *assistant.Service, string) {
	e.backendMu.RLock()
	defer e.backendMu.RUnlock()
	return e.backend, e.assistant, e.baseURL
}

// selectedModel is the persisted choice, else the configured default.
func (e *Engine) selectedModel() string {
	stored, err := e.settings.Load()
	if err != nil || stored.SelectedModel == "" {
		return e.cfg.DefaultModel
	}
	return stored.SelectedModel
}

func decodeParams(phase string, params json.RawMessage, dest any) *errinfo.ErrorInfo {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, dest); err != nil {
		return errinfo.ValidationFailed(phase, "invalid params")
	}
	return nil
}

func (e *Engine) EngineGetInfo(ctx context.Context, _ json.RawMessage) (any, *errinfo.ErrorInfo) {
	_, _, baseURL := e.currentBackend()
	return map[string]any{
		"engine_version": EngineVersion,
		"api_version":    APIVersion,
		"workspace_dir":  e.cfg.WorkspaceRoot,
		"backend_url":    baseURL,
		"default_model":  e.cfg.DefaultModel,
		"compiler":       e.cfg.CompilerCommand,
	}, nil
}

func (e *Engine) WorkspaceResolve(ctx context.Context, params json.RawMessage) (any, *errinfo.ErrorInfo) {
	var req struct {
		Path string `json:"path"`
	}
	if info := decodeParams(errinfo.PhaseWorkspace, params, &req); info != nil {
		return nil, info
	}
	target, err := e.resolver.Resolve(req.Path)
	if err != nil {
		return nil, mapDocumentError(errinfo.PhaseWorkspace, "", err, false)
	}
	return map[string]any{
		"target":      target,
		"output_path": target.OutputPath(),
	}, nil
}
