package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/dynplug/internal/cli"
	"github.com/vk/dynplug/internal/loader"
	"github.com/vk/dynplug/internal/testutil"
	"github.com/vk/dynplug/modules/arith"
)

func newOpener() *testutil.MemoryOpener {
	opener := testutil.NewMemoryOpener()
	opener.AddModule("A", arith.Module{}.Register)
	return opener
}

func TestRun_Success(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}

	// --- Act ---
	err := run(out, errOut, []string{"A", "add", "2", "3"}, newOpener())

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, "add(2, 3) = 5\n", out.String())
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}

	err := run(out, &bytes.Buffer{}, []string{"-h"}, newOpener())

	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	err := run(&bytes.Buffer{}, &bytes.Buffer{}, []string{"--this-is-not-a-valid-flag"}, newOpener())

	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}

func TestRun_LoadFailure(t *testing.T) {
	t.Parallel()

	err := run(&bytes.Buffer{}, &bytes.Buffer{}, []string{"/nonexistent/path", "add", "1", "2"}, newOpener())

	require.Error(t, err)
	assert.True(t, loader.IsKind(err, loader.KindIO))
}

func TestRun_InvocationFailure(t *testing.T) {
	t.Parallel()

	err := run(&bytes.Buffer{}, &bytes.Buffer{}, []string{"A", "nope"}, newOpener())

	require.ErrorIs(t, err, loader.ErrFunctionNotFound)
	assert.Contains(t, err.Error(), "invocation failed")
}
