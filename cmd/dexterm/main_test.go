package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tturner/dexterm/internal/catalog"
	"github.com/tturner/dexterm/internal/config"
	"github.com/tturner/dexterm/internal/pokeapi/pokeapitest"
)

// isolate clears DEXTERM_* variables and runs the test in an empty directory.
func isolate(t *testing.T) string {
	t.Helper()
	for _, k := range config.EnvVars {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	dir := t.TempDir()
	chdir(t, dir)
	return dir
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func withAPI(t *testing.T) *pokeapitest.Server {
	t.Helper()
	isolate(t)
	api := pokeapitest.NewServer(t, pokeapitest.DefaultFixtures())
	t.Setenv("DEXTERM_API_BASE_URL", api.URL)
	return api
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "dexterm version dev")
	assert.Contains(t, out, "commit: unknown")
}

func TestRootHelp(t *testing.T) {
	out, _, err := execute(t, "--help")
	require.NoError(t, err)
	for _, name := range []string{"browse", "list", "show", "pick", "config", "version", "--log-level"} {
		assert.Contains(t, out, name)
	}

	out, _, err = execute(t, "list", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "--metrics-csv")
}

func TestListCommand(t *testing.T) {
	withAPI(t)

	out, _, err := execute(t, "list", "--query", "char", "--json", "--no-progress")
	require.NoError(t, err)
	var entries []catalog.Entry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "charmander", entries[0].Name)

	out, _, err = execute(t, "list", "-q", "001", "--no-progress")
	require.NoError(t, err)
	assert.Contains(t, out, "Bulbasaur")
	assert.NotContains(t, out, "Charmander")
}

func TestListCommandVerboseKeepsStdoutClean(t *testing.T) {
	withAPI(t)

	out, errOut, err := execute(t, "list", "--json", "--no-progress", "--log-level", "verbose")
	require.NoError(t, err)
	var entries []catalog.Entry
	require.NoError(t, json.Unmarshal([]byte(out), &entries), "stdout: %q", out)
	assert.Len(t, entries, 3)
	assert.Contains(t, errOut, "fetch ok")

	out, _, err = execute(t, "list", "--yaml", "--no-progress", "--log-level", "debug")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "- id: 1"), "stdout: %q", out)
}

func TestListCommandFlagErrors(t *testing.T) {
	withAPI(t)

	_, _, err := execute(t, "list", "--json", "--yaml")
	assert.Error(t, err)

	_, _, err = execute(t, "list", "--page-size", "2000", "--no-progress")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page size")

	_, _, err = execute(t, "list", "--log-level", "loud")
	assert.Error(t, err)
}

func TestListCommandFailure(t *testing.T) {
	api := withAPI(t)
	api.Fail("/pokemon/7", http.StatusBadGateway)

	out, _, err := execute(t, "list", "--no-progress")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 502")
	assert.Empty(t, out)
}

func TestShowCommand(t *testing.T) {
	withAPI(t)

	out, _, err := execute(t, "show", "squirtle", "--tab", "detail")
	require.NoError(t, err)
	assert.Contains(t, out, "#007 Squirtle")
	assert.Contains(t, out, "Height")

	_, _, err = execute(t, "show")
	assert.Error(t, err)

	_, _, err = execute(t, "show", "151")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `No entry matches "151"`)

	encoded, err := catalog.NewTransfer(catalog.Entry{ID: 4, Name: "charmander"}).Encode()
	require.NoError(t, err)
	out, _, err = execute(t, "show", "--from", encoded, "--tab", "types")
	require.NoError(t, err)
	assert.Contains(t, out, "Fire")
}

func TestConfigCommands(t *testing.T) {
	dir := isolate(t)

	out, _, err := execute(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote dexterm.yaml")
	assert.FileExists(t, filepath.Join(dir, config.DefaultPath))

	_, _, err = execute(t, "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = execute(t, "config", "init", "--force")
	require.NoError(t, err)

	t.Setenv("DEXTERM_PAGE_SIZE", "42")
	out, _, err = execute(t, "config", "show")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# source: dexterm.yaml\n"))
	assert.Contains(t, out, "page_size: 42")
	assert.Contains(t, out, "#   DEXTERM_PAGE_SIZE=42")

	custom := filepath.Join(dir, "custom.yaml")
	_, _, err = execute(t, "config", "init", custom)
	require.NoError(t, err)
	out, _, err = execute(t, "--config", custom, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "# source: "+custom)

	_, _, err = execute(t, "--config", filepath.Join(dir, "missing.yaml"), "config", "show")
	assert.Error(t, err)
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
