// Package env loads configuration and wires the pipeline for CLI commands.
package env

import (
	"context"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/batterymon/batterymon/internal/application/build"
	"github.com/batterymon/batterymon/internal/infrastructure/compiler"
	"github.com/batterymon/batterymon/internal/infrastructure/config"
	"github.com/batterymon/batterymon/internal/shared/logger"
)

var (
	configPath string
	buildRoot  string
	logLevel   string
)

// AddPersistentFlags registers the flags shared by every subcommand.
func AddPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./batterymon-setup.yaml if present)")
	cmd.PersistentFlags().StringVar(&buildRoot, "build-root", "", "Directory for generated artifacts (overrides paths.build_root)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides logger.level)")
}

type Env struct {
	Config   *config.Config
	Log      logger.Interface
	Compiler *compiler.Msgfmt
}

// Init loads configuration, applies flag overrides and initializes logging.
func Init() (*Env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if buildRoot != "" {
		cfg.Paths.BuildRoot = buildRoot
	}
	if logLevel != "" {
		cfg.Logger.Level = logLevel
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	log := logger.NewLogger()

	return &Env{
		Config:   cfg,
		Log:      log,
		Compiler: compiler.NewMsgfmt(cfg.Compiler.Command, cfg.Compiler.Args, log),
	}, nil
}

// Preflight checks the runtime and compiler before any build work.
func (e *Env) Preflight(ctx context.Context) error {
	return build.Preflight(ctx, e.Compiler, build.PreflightOptions{
		RuntimeVersion:    runtime.Version(),
		MinRuntimeVersion: e.Config.Runtime.MinVersion,
		MinCompiler:       e.Config.Compiler.MinVersion,
	})
}

// Pipeline builds a pipeline from the loaded configuration.
func (e *Env) Pipeline(force bool) *build.Pipeline {
	cfg := e.Config
	return build.NewPipeline(build.Options{
		Product:        cfg.Product.Name,
		SourceDir:      cfg.Paths.SourceDir,
		BuildRoot:      cfg.Paths.BuildRoot,
		SourcePatterns: cfg.Locale.SourcePatterns,
		OnCollision:    cfg.Locale.OnCollision,
		StrictLocales:  cfg.Locale.Strict,
		Force:          force,
		DataFiles:      cfg.DataFiles,
	}, e.Compiler, e.Log)
}
