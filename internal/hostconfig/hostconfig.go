// Package hostconfig reads the optional HCL host configuration file.
//
// A configuration file looks like:
//
//	log_level  = "debug"
//	log_format = "text"
//	collisions = "reject"
//
//	module "arith" {
//	  path = "${config_dir}/plugins/arith.so"
//	}
//
//	module "random" {
//	  path     = "${env.HOME}/.dynplug/random.so"
//	  optional = true
//	}
//
// Expressions can reference env.<NAME> for environment variables and
// config_dir for the directory holding the file. Relative module paths are
// resolved against config_dir.
package hostconfig

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/dynplug/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// Collision policy names accepted in the file.
const (
	CollisionsOverwrite = "overwrite"
	CollisionsReject    = "reject"
)

// File is the decoded host configuration.
type File struct {
	LogLevel   string    `hcl:"log_level,optional"`
	LogFormat  string    `hcl:"log_format,optional"`
	Collisions string    `hcl:"collisions,optional"`
	Modules    []*Module `hcl:"module,block"`
}

// Module is a module to load before the requested function is called.
type Module struct {
	Name     string `hcl:"name,label"`
	Path     string `hcl:"path"`
	Optional bool   `hcl:"optional,optional"`
}

// Load reads and decodes the file at path. environ is a list of KEY=VALUE
// pairs exposed as env.KEY; pass os.Environ() in production.
func Load(ctx context.Context, path string, environ []string) (*File, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read host config %s: %w", path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return Parse(ctx, src, abs, environ)
}

// Parse decodes src as if it had been read from filename.
func Parse(ctx context.Context, src []byte, filename string, environ []string) (*File, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Parsing host config.", "file", filename)

	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	configDir := filepath.Dir(filename)
	var file File
	diags = gohcl.DecodeBody(hclFile.Body, evalContext(configDir, environ), &file)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	if err := file.validate(); err != nil {
		return nil, fmt.Errorf("invalid host config %s: %w", filename, err)
	}
	for _, m := range file.Modules {
		if !filepath.IsAbs(m.Path) {
			m.Path = filepath.Join(configDir, m.Path)
		}
	}

	logger.Debug("Host config loaded.", "file", filename, "modules", len(file.Modules))
	return &file, nil
}

func evalContext(configDir string, environ []string) *hcl.EvalContext {
	env := make(map[string]cty.Value, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		env[k] = cty.StringVal(v)
	}
	envVal := cty.EmptyObjectVal
	if len(env) > 0 {
		envVal = cty.ObjectVal(env)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env":        envVal,
			"config_dir": cty.StringVal(configDir),
		},
	}
}

func (f *File) validate() error {
	switch f.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level %q must be one of debug, info, warn, error", f.LogLevel)
	}
	switch f.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("log_format %q must be text or json", f.LogFormat)
	}
	switch f.Collisions {
	case "", CollisionsOverwrite, CollisionsReject:
	default:
		return fmt.Errorf("collisions %q must be %s or %s", f.Collisions, CollisionsOverwrite, CollisionsReject)
	}

	seen := make(map[string]struct{}, len(f.Modules))
	for _, m := range f.Modules {
		if _, dup := seen[m.Name]; dup {
			return fmt.Errorf("module %q is declared more than once", m.Name)
		}
		seen[m.Name] = struct{}{}
		if strings.TrimSpace(m.Path) == "" {
			return fmt.Errorf("module %q has an empty path", m.Name)
		}
	}
	return nil
}
