package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dariafung/fotex/internal/appdirs"
	"github.com/dariafung/fotex/internal/config"
	"github.com/dariafung/fotex/internal/engine"
	"github.com/dariafung/fotex/internal/envfile"
	"github.com/dariafung/fotex/internal/logging"
	"github.com/dariafung/fotex/internal/rpc"
)

type rootFlags struct {
	workspace string
	backend   string
	model     string
	compiler  string
	gitignore bool
	debug     bool
}

// app is what every subcommand needs once flags and env are merged.
type app struct {
	cfg    config.Config
	logger *slog.Logger
	engine *engine.Engine
	router *rpc.Router
	close  func() error
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:   "fotex-engine",
		Short: "Backend for the fotex LaTeX editor",
		Long: `fotex-engine resolves, saves and compiles LaTeX documents and talks to a
local Ollama server for writing help.

Without a subcommand it serves JSON-RPC over stdin/stdout for the editor.`,
		Version:       engine.EngineVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, flags)
		},
	}
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	pf := root.PersistentFlags()
	pf.StringVar(&flags.workspace, "workspace", "", "fallback workspace directory (FOTEX_WORKSPACE_DIR)")
	pf.StringVar(&flags.backend, "backend", "", "Ollama base URL (FOTEX_OLLAMA_URL)")
	pf.StringVar(&flags.model, "model", "", "default model (FOTEX_MODEL)")
	pf.StringVar(&flags.compiler, "compiler", "", "compiler executable (FOTEX_COMPILER)")
	pf.BoolVar(&flags.gitignore, "gitignore", false, "hide .gitignore'd entries in tree snapshots")
	pf.BoolVarP(&flags.debug, "debug", "d", false, "enable debug logging (FOTEX_DEBUG)")

	root.AddCommand(
		newServeCmd(flags),
		newServeHTTPCmd(flags),
		newCompileCmd(flags),
		newTreeCmd(flags),
		newModelsCmd(flags),
		newAskCmd(flags),
	)
	return root
}

// loadConfig merges env and the flags the user actually set.
func loadConfig(cmd *cobra.Command, flags *rootFlags) (config.Config, envfile.Result, error) {
	dataDir, _ := appdirs.DataDir()
	envResult := envfile.Load(dataDir)
	cfg, err := config.Load()
	if err != nil {
		return cfg, envResult, err
	}
	changed := cmd.Flags().Changed
	if changed("workspace") {
		cfg.WorkspaceRoot = flags.workspace
	}
	if changed("backend") {
		cfg.BackendURL = config.NormalizeBackendURL(flags.backend)
	}
	if changed("model") {
		cfg.DefaultModel = strings.TrimSpace(flags.model)
	}
	if changed("compiler") {
		cfg.CompilerCommand = flags.compiler
	}
	if changed("gitignore") {
		cfg.RespectGitignore = flags.gitignore
	}
	if changed("debug") {
		cfg.Debug = flags.debug
	}
	return cfg, envResult, cfg.Validate()
}

// setup builds the engine and its router. Server modes log to the rotating
// file since stdout carries the protocol; one-shot commands log to stderr.
func setup(cmd *cobra.Command, flags *rootFlags, fileLog bool) (*app, error) {
	cfg, envResult, err := loadConfig(cmd, flags)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	a := &app{cfg: cfg, close: func() error { return nil }}
	if fileLog {
		logSetup, logErr := logging.NewFileLogger(appdirs.LogsDir(cfg.DataDir), cfg.Debug)
		a.logger = logSetup.Logger
		a.close = logSetup.Close
		if logSetup.Enabled {
			a.logger.Info("engine.logging_enabled", "path", logSetup.Path)
		}
		if logErr != nil {
			a.logger.Warn("engine.log_setup_failed", "error", logErr.Error())
		}
	} else {
		a.logger = logging.NewStderrLogger(cfg.Debug)
	}
	a.logger = a.logger.With("component", "engine")
	if envResult.Loaded {
		a.logger.Debug("engine.env_loaded", "path", envResult.Path, "keys", envResult.Keys)
	}
	if envResult.Err != nil {
		a.logger.Warn("engine.env_load_failed", "path", envResult.Path, "error", envResult.Err.Error())
	}

	eng, err := engine.New(cfg, engine.WithLogger(a.logger))
	if err != nil {
		a.logger.Error("engine.init_failed", "error", err.Error())
		_ = a.close()
		return nil, fmt.Errorf("engine init: %w", err)
	}
	a.engine = eng
	a.router = rpc.NewRouter()
	eng.Register(a.router)
	return a, nil
}
