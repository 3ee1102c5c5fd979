package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/dynplug/internal/ctxlog"
)

// Run loads the configured modules and then lists, describes or invokes
// the requested function.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if err := a.loadModules(ctx); err != nil {
		return fmt.Errorf("function loading failed: %w", err)
	}

	switch {
	case a.config.ListOnly:
		a.list()
		return nil
	case a.config.Describe:
		return a.describe()
	}

	result, err := a.registry.Call(ctx, a.config.Function, a.config.Args)
	if err != nil {
		return fmt.Errorf("invocation failed: %w", err)
	}
	fmt.Fprintf(a.outW, "%s(%s) = %v\n", a.config.Function, formatArgs(a.config.Args), result)

	a.logger.Debug("App.Run method finished.")
	return nil
}

func (a *App) list() {
	for _, m := range a.registry.Modules() {
		fmt.Fprintf(a.outW, "%s\n", m.Path)
		for _, name := range m.Functions {
			fmt.Fprintf(a.outW, "  %s\n", name)
		}
	}
}

func (a *App) describe() error {
	text, ok, err := a.registry.Help(a.config.Function)
	if err != nil {
		return fmt.Errorf("invocation failed: %w", err)
	}
	if !ok {
		text = "(no help available)"
	}
	fmt.Fprintf(a.outW, "%s: %s\n", a.config.Function, text)
	return nil
}

func formatArgs(args []float64) string {
	parts := make([]string, len(args))
	for i, v := range args {
		parts[i] = fmt.Sprintf("%v", v)
	}
	return strings.Join(parts, ", ")
}
