// Package config holds the fixed engine configuration that every component
// receives at construction.
package config

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/dariafung/fotex/internal/appdirs"
	"github.com/dariafung/fotex/internal/envutil"
)

const (
	DefaultBackendURL     = "http://localhost:11434"
	DefaultModel          = "gemma3:12b"
	DefaultCompiler       = "tectonic"
	DefaultCompileTimeout = 5 * time.Minute
	DefaultChatTimeout    = 120 * time.Second
)

// DefaultCompilerArgs precede the fixed "compile <file>" argument shape.
var DefaultCompilerArgs = []string{"-X"}

type Config struct {
	DataDir string
	// WorkspaceRoot is the fallback directory for drafts without a saved path.
	WorkspaceRoot string

	BackendURL   string
	DefaultModel string
	ChatTimeout  time.Duration

	CompilerCommand string
	CompilerArgs    []string
	CompileTimeout  time.Duration

	RespectGitignore bool
	Debug            bool
}

// Load reads configuration from the environment (after envfile has run).
func Load() (Config, error) {
	dataDir, err := appdirs.DataDir()
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		DataDir:          dataDir,
		WorkspaceRoot:    envutil.String(appdirs.WorkspaceDir(dataDir), "FOTEX_WORKSPACE_DIR"),
		BackendURL:       NormalizeBackendURL(envutil.String(DefaultBackendURL, "FOTEX_OLLAMA_URL", "OLLAMA_HOST")),
		DefaultModel:     envutil.String(DefaultModel, "FOTEX_MODEL"),
		ChatTimeout:      envutil.Duration("FOTEX_CHAT_TIMEOUT", DefaultChatTimeout),
		CompilerCommand:  envutil.String(DefaultCompiler, "FOTEX_COMPILER"),
		CompilerArgs:     envutil.Fields("FOTEX_COMPILER_ARGS", DefaultCompilerArgs),
		CompileTimeout:   envutil.Duration("FOTEX_COMPILE_TIMEOUT", DefaultCompileTimeout),
		RespectGitignore: envutil.Bool("FOTEX_RESPECT_GITIGNORE"),
		Debug:            envutil.Bool("FOTEX_DEBUG"),
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.WorkspaceRoot) == "" {
		errs = append(errs, errors.New("workspace root is empty"))
	}
	if _, err := url.ParseRequestURI(c.BackendURL); err != nil {
		errs = append(errs, errors.New("backend url is invalid: "+c.BackendURL))
	}
	if strings.TrimSpace(c.CompilerCommand) == "" {
		errs = append(errs, errors.New("compiler command is empty"))
	}
	return errors.Join(errs...)
}

// NormalizeBackendURL accepts OLLAMA_HOST style values ("host:port") and
// strips trailing slashes.
func NormalizeBackendURL(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return DefaultBackendURL
	}
	if !strings.Contains(value, "://") {
		value = "http://" + value
	}
	return strings.TrimRight(value, "/")
}
