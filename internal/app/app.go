package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/dynplug/internal/ctxlog"
	"github.com/vk/dynplug/internal/hostconfig"
	"github.com/vk/dynplug/internal/loader"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *loader.Registry
	config   *Config
	preload  []*hostconfig.Module
}

// NewApp builds an App from cfg. Values set in cfg take precedence over the
// host config file named by cfg.ConfigPath. Logs go to logW and results to
// outW.
func NewApp(outW, logW io.Writer, cfg *Config, opener loader.Opener) (*App, error) {
	merged := *cfg
	var preload []*hostconfig.Module

	if cfg.ConfigPath != "" {
		bootstrap := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
		file, err := hostconfig.Load(ctxlog.WithLogger(context.Background(), bootstrap), cfg.ConfigPath, os.Environ())
		if err != nil {
			return nil, err
		}
		if merged.LogLevel == "" {
			merged.LogLevel = file.LogLevel
		}
		if merged.LogFormat == "" {
			merged.LogFormat = file.LogFormat
		}
		if file.Collisions == hostconfig.CollisionsReject {
			merged.StrictNames = true
		}
		preload = file.Modules
	}

	logger := newLogger(merged.LogLevel, merged.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	policy := loader.CollisionOverwrite
	if merged.StrictNames {
		policy = loader.CollisionReject
	}

	return &App{
		outW:     outW,
		logger:   logger,
		registry: loader.New(opener, loader.WithCollisionPolicy(policy)),
		config:   &merged,
		preload:  preload,
	}, nil
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *loader.Registry {
	return a.registry
}

// loadModules loads the host config modules followed by the module named
// on the command line.
func (a *App) loadModules(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	for _, m := range a.preload {
		err := a.registry.Load(ctx, m.Path)
		if err == nil {
			continue
		}
		if m.Optional {
			logger.Warn("Skipping optional module.", "name", m.Name, "error", err)
			continue
		}
		return fmt.Errorf("module %q: %w", m.Name, err)
	}

	if a.config.ModulePath != "" {
		if err := a.registry.Load(ctx, a.config.ModulePath); err != nil {
			return err
		}
	}

	logger.Debug("All modules loaded.", "modules", len(a.registry.Modules()), "functions", a.registry.Len())
	return nil
}
