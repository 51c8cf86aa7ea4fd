package main

import (
	"fmt"
	"os"
	"path/filepath"

	"slidesmith/config"
	"slidesmith/logger"
)

// App wires configuration, logging and the presentation facade together
// for one process lifetime.
type App struct {
	cfg config.Config
	log *logger.Logger
	PPT *PPTFacadeService
}

// DefaultConfigPath returns the per-user configuration file location.
func DefaultConfigPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	return filepath.Join(base, "slidesmith", "config.json")
}

// NewApp loads configuration, prepares directories, starts logging and
// constructs the facade.
func NewApp(configPath string) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, WrapError("App", "Startup", err)
	}
	if err := config.EnsureDirs(cfg); err != nil {
		return nil, WrapError("App", "Startup", err)
	}

	log := logger.NewLogger()
	if err := log.Init(cfg.LogDir); err != nil {
		// logging is best effort, the app still runs
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	return &App{
		cfg: cfg,
		log: log,
		PPT: NewPPTFacadeService(cfg, log),
	}, nil
}

// Config returns the loaded configuration.
func (a *App) Config() config.Config {
	return a.cfg
}

// Shutdown releases the app's resources.
func (a *App) Shutdown() {
	if a.PPT != nil {
		a.PPT.Shutdown()
	}
	if a.log != nil {
		a.log.Close()
	}
}
