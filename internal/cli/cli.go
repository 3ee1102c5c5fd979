package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/vk/dynplug/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, a ...any) *ExitError {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, a...)}
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("dynplug", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
dynplug - load a plugin module and call one of its functions.

Usage:
  dynplug [options] MODULE_PATH FUNCTION [ARGS...]
  dynplug -config HOST_CONFIG [options] FUNCTION [ARGS...]
  dynplug -list [options] MODULE_PATH

Arguments:
  MODULE_PATH
    Path to a plugin built with -buildmode=plugin.
  FUNCTION
    Name of a function the loaded modules registered.
  ARGS
    Numbers passed to the function unchanged.

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "Path to an HCL host config listing modules to preload.")
	logFormatFlag := flagSet.String("log-format", "", "Log output format. Options: 'text' or 'json'. Default 'text'.")
	logLevelFlag := flagSet.String("log-level", "", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'. Default 'info'.")
	strictFlag := flagSet.Bool("strict", false, "Fail a load that registers an already registered function name.")
	listFlag := flagSet.Bool("list", false, "List loaded modules and their functions instead of calling one.")
	describeFlag := flagSet.Bool("describe", false, "Print the function's help text instead of calling it.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, usageError("%s", err.Error())
	}
	slog.Debug("Arguments parsed successfully.")

	rest := flagSet.Args()
	if len(rest) == 0 && *configFlag == "" {
		slog.Debug("No module path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	var modulePath string
	if *configFlag == "" {
		modulePath, rest = rest[0], rest[1:]
	}

	var function string
	if len(rest) > 0 {
		function, rest = rest[0], rest[1:]
	}

	numbers := make([]float64, 0, len(rest))
	for _, raw := range rest {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, false, usageError("invalid argument %q: not a number", raw)
		}
		numbers = append(numbers, v)
	}

	logFormat := strings.ToLower(*logFormatFlag)
	switch logFormat {
	case "", "text", "json":
	default:
		return nil, false, usageError("invalid log-format: must be 'text' or 'json'")
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return nil, false, usageError("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		ModulePath:  modulePath,
		Function:    function,
		Args:        numbers,
		ConfigPath:  *configFlag,
		LogFormat:   logFormat,
		LogLevel:    logLevel,
		StrictNames: *strictFlag,
		ListOnly:    *listFlag,
		Describe:    *describeFlag,
	})
	if err != nil {
		return nil, false, usageError("%s", err.Error())
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
