package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ModulePath string    // module to load, optional when ConfigPath lists modules
	Function   string    // function to invoke
	Args       []float64 // passed to Function unchanged
	ConfigPath string    // optional HCL host config

	LogFormat   string
	LogLevel    string
	StrictNames bool // reject name collisions instead of overwriting
	ListOnly    bool // print loaded modules and functions instead of calling
	Describe    bool // print the function's help text instead of calling it
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.ModulePath == "" && cfg.ConfigPath == "" {
		return nil, errors.New("a module path or a host config is required")
	}
	if cfg.Function == "" && !cfg.ListOnly {
		return nil, errors.New("a function name is required unless listing")
	}
	return &cfg, nil
}
