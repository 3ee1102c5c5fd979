package app

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/dynplug/internal/loader"
	"github.com/vk/dynplug/internal/testutil"
	"github.com/vk/dynplug/modules/arith"
	"github.com/vk/dynplug/pkg/pluginapi"
)

func newTestApp(t *testing.T, cfg Config, opener loader.Opener) (*App, *bytes.Buffer, *testutil.SafeBuffer) {
	t.Helper()
	out := &bytes.Buffer{}
	logs := &testutil.SafeBuffer{}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "debug"
	}
	a, err := NewApp(out, logs, &cfg, opener)
	require.NoError(t, err)
	return a, out, logs
}

func arithOpener() *testutil.MemoryOpener {
	opener := testutil.NewMemoryOpener()
	opener.AddModule("arith.so", arith.Module{}.Register)
	return opener
}

func TestRun_CallsFunction(t *testing.T) {
	// --- Arrange ---
	a, out, _ := newTestApp(t, Config{ModulePath: "arith.so", Function: "add", Args: []float64{2, 3}}, arithOpener())

	// --- Act ---
	err := a.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, "add(2, 3) = 5\n", out.String())
}

func TestRun_FormatsFractions(t *testing.T) {
	a, out, _ := newTestApp(t, Config{ModulePath: "arith.so", Function: "div", Args: []float64{1, 4}}, arithOpener())

	require.NoError(t, a.Run(context.Background()))
	assert.Equal(t, "div(1, 4) = 0.25\n", out.String())
}

func TestRun_InvocationError(t *testing.T) {
	a, out, _ := newTestApp(t, Config{ModulePath: "arith.so", Function: "add", Args: []float64{2}}, arithOpener())

	err := a.Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invocation failed")
	var arity *pluginapi.ArityMismatchError
	assert.ErrorAs(t, err, &arity)
	assert.Empty(t, out.String())
}

func TestRun_LoadError(t *testing.T) {
	a, _, logs := newTestApp(t, Config{ModulePath: "/nonexistent/path", Function: "add"}, arithOpener())

	err := a.Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "function loading failed")
	assert.True(t, loader.IsKind(err, loader.KindIO))
	assert.Contains(t, logs.String(), "Module could not be opened.")
}

func TestRun_ListOnly(t *testing.T) {
	a, out, _ := newTestApp(t, Config{ModulePath: "arith.so", ListOnly: true}, arithOpener())

	require.NoError(t, a.Run(context.Background()))
	assert.Equal(t, "arith.so\n  add\n  div\n  mul\n  sub\n", out.String())
}

func TestRun_Describe(t *testing.T) {
	opener := arithOpener()
	opener.AddModule("bare.so", func(r pluginapi.Registrar) { r.Register("bare", testutil.Const(1)) })

	a, out, _ := newTestApp(t, Config{ModulePath: "arith.so", Function: "mul", Describe: true}, opener)
	require.NoError(t, a.Run(context.Background()))
	assert.Equal(t, "mul: mul(a, b) returns a * b\n", out.String())

	b, out, _ := newTestApp(t, Config{ModulePath: "bare.so", Function: "bare", Describe: true}, opener)
	require.NoError(t, b.Run(context.Background()))
	assert.Equal(t, "bare: (no help available)\n", out.String())

	c, _, _ := newTestApp(t, Config{ModulePath: "bare.so", Function: "nope", Describe: true}, opener)
	assert.ErrorIs(t, c.Run(context.Background()), loader.ErrFunctionNotFound)
}

func writeHostConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "host.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestRun_HostConfigPreloadsModules(t *testing.T) {
	// --- Arrange ---
	dir := t.TempDir()
	arithPath := filepath.Join(dir, "arith.so")
	extraPath := filepath.Join(dir, "extra.so")
	opener := testutil.NewMemoryOpener()
	opener.AddModule(arithPath, arith.Module{}.Register)
	opener.AddModule(extraPath, func(r pluginapi.Registrar) { r.Register("answer", testutil.Const(42)) })

	cfgPath := writeHostConfig(t, fmt.Sprintf(`
log_level = "debug"

module "arith" {
  path = %q
}

module "missing" {
  path     = "%s/missing.so"
  optional = true
}
`, arithPath, dir))

	a, out, logs := newTestApp(t, Config{ConfigPath: cfgPath, ModulePath: extraPath, Function: "add", Args: []float64{20, 22}}, opener)

	// --- Act ---
	err := a.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, "add(20, 22) = 42\n", out.String())
	assert.Equal(t, []string{"add", "answer", "div", "mul", "sub"}, a.Registry().Names())
	assert.Contains(t, logs.String(), "Skipping optional module.")
}

func TestRun_HostConfigRequiredModuleMissing(t *testing.T) {
	cfgPath := writeHostConfig(t, `module "arith" { path = "nowhere.so" }`)
	a, _, _ := newTestApp(t, Config{ConfigPath: cfgPath, Function: "add"}, testutil.NewMemoryOpener())

	err := a.Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), `module "arith"`)
	assert.True(t, loader.IsKind(err, loader.KindIO))
}

func TestNewApp_HostConfigCollisionPolicy(t *testing.T) {
	opener := testutil.NewMemoryOpener()
	opener.AddModule("/m/one.so", func(r pluginapi.Registrar) { r.Register("f", testutil.Const(1)) })
	opener.AddModule("/m/two.so", func(r pluginapi.Registrar) { r.Register("f", testutil.Const(2)) })
	cfgPath := writeHostConfig(t, `
collisions = "reject"
module "one" { path = "/m/one.so" }
`)

	a, _, _ := newTestApp(t, Config{ConfigPath: cfgPath, ModulePath: "/m/two.so", Function: "f"}, opener)
	err := a.Run(context.Background())

	assert.True(t, loader.IsKind(err, loader.KindNameCollision), "got %v", err)
}

func TestNewApp_CLIOverridesHostConfig(t *testing.T) {
	cfgPath := writeHostConfig(t, `
log_level  = "error"
log_format = "json"
`)
	out := &bytes.Buffer{}
	logs := &testutil.SafeBuffer{}

	a, err := NewApp(out, logs, &Config{ConfigPath: cfgPath, ModulePath: "arith.so", Function: "add", LogLevel: "debug"}, arithOpener())
	require.NoError(t, err)
	require.NoError(t, a.Run(context.Background()))

	assert.Contains(t, logs.String(), `"msg":"Module loaded."`, "json format from the file, debug level from the flag")
}

func TestNewApp_BadHostConfig(t *testing.T) {
	cfgPath := writeHostConfig(t, `log_level = "chatty"`)

	_, err := NewApp(&bytes.Buffer{}, &bytes.Buffer{}, &Config{ConfigPath: cfgPath, Function: "f"}, testutil.NewMemoryOpener())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "log_level")
}

func TestNewConfig(t *testing.T) {
	testCases := []struct {
		name      string
		cfg       Config
		expectErr bool
	}{
		{name: "module and function", cfg: Config{ModulePath: "a.so", Function: "f"}},
		{name: "config and function", cfg: Config{ConfigPath: "host.hcl", Function: "f"}},
		{name: "list without function", cfg: Config{ModulePath: "a.so", ListOnly: true}},
		{name: "nothing to load", cfg: Config{Function: "f"}, expectErr: true},
		{name: "no function", cfg: Config{ModulePath: "a.so"}, expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := NewConfig(tc.cfg)
			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.cfg, *cfg)
		})
	}
}
