package app

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/tturner/dexterm/internal/catalog"
	"github.com/tturner/dexterm/internal/config"
	"github.com/tturner/dexterm/internal/errors"
	"github.com/tturner/dexterm/internal/logging"
	"github.com/tturner/dexterm/internal/pokeapi/pokeapitest"
)

type testIO struct {
	stdout bytes.Buffer
	stderr bytes.Buffer
}

// newTestEnv points the config at api and isolates it from the caller's
// environment and working directory.
func newTestEnv(t *testing.T, api *pokeapitest.Server, env map[string]string) (*Env, *testIO) {
	t.Helper()
	for _, k := range config.EnvVars {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	chdir(t, t.TempDir())
	t.Setenv("DEXTERM_API_BASE_URL", api.URL)
	for k, v := range env {
		t.Setenv(k, v)
	}

	out := &testIO{}
	e, err := Setup(Options{Stdout: &out.stdout, Stderr: &out.stderr})
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return e, out
}

func TestSetupOverrides(t *testing.T) {
	api := pokeapitest.NewServer(t, pokeapitest.DefaultFixtures())
	newTestEnv(t, api, nil)

	logFile := filepath.Join(t.TempDir(), "dexterm.log")
	e, err := Setup(Options{LogLevel: "debug", LogFile: logFile, Quiet: true})
	require.NoError(t, err)
	defer e.Close()

	assert.Equal(t, logging.LogLevelDebug, e.Logger.GetLevel())
	assert.Equal(t, logFile, e.Config.Log.File)
	assert.Equal(t, api.URL, e.Client.BaseURL())
	assert.FileExists(t, logFile)

	_, err = Setup(Options{LogLevel: "loud"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--log-level")
}

func TestSetupRejectsBadConfig(t *testing.T) {
	api := pokeapitest.NewServer(t, pokeapitest.DefaultFixtures())
	newTestEnv(t, api, nil)
	t.Setenv("DEXTERM_PAGE_SIZE", "0")

	_, err := Setup(Options{})
	require.Error(t, err)
	var ufe errors.UserFriendlyError
	assert.True(t, stderrors.As(err, &ufe))
}

func TestRunListTable(t *testing.T) {
	api := pokeapitest.NewServer(t, pokeapitest.DefaultFixtures())
	e, out := newTestEnv(t, api, nil)

	require.NoError(t, RunList(context.Background(), e, ListOptions{NoProgress: true}))
	got := out.stdout.String()
	for _, want := range []string{"Bulbasaur", "#001", "Grass / Poison", "#7AC74C", "Charmander", "#EE8130", "Squirtle"} {
		assert.Contains(t, got, want)
	}
	assert.Less(t, strings.Index(got, "Bulbasaur"), strings.Index(got, "Charmander"))
	assert.Less(t, strings.Index(got, "Charmander"), strings.Index(got, "Squirtle"))
	assert.Empty(t, out.stderr.String())
}

func TestRunListQueryJSON(t *testing.T) {
	api := pokeapitest.NewServer(t, pokeapitest.DefaultFixtures())
	e, out := newTestEnv(t, api, nil)

	require.NoError(t, RunList(context.Background(), e, ListOptions{Query: "char", Format: "json", NoProgress: true}))
	var entries []catalog.Entry
	require.NoError(t, json.Unmarshal(out.stdout.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, 4, entries[0].ID)
	assert.Equal(t, api.URL+"/img/art/4.png", entries[0].ImageURL)
	assert.Equal(t, api.URL+"/img/back/4.png", entries[0].ImageBackURL)
}

func TestRunListYAMLByNumber(t *testing.T) {
	api := pokeapitest.NewServer(t, pokeapitest.DefaultFixtures())
	e, out := newTestEnv(t, api, nil)

	require.NoError(t, RunList(context.Background(), e, ListOptions{Query: "007", Format: "yaml", NoProgress: true}))
	var entries []catalog.Entry
	require.NoError(t, yaml.Unmarshal(out.stdout.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "squirtle", entries[0].Name)
	assert.Equal(t, []catalog.TypeSlot{{Slot: 1, Name: "water"}}, entries[0].Types)
}

func TestRunListNoMatches(t *testing.T) {
	api := pokeapitest.NewServer(t, pokeapitest.DefaultFixtures())
	e, out := newTestEnv(t, api, nil)

	require.NoError(t, RunList(context.Background(), e, ListOptions{Query: "zzz", NoProgress: true}))
	assert.Equal(t, "No entries match \"zzz\"\n", out.stdout.String())

	out.stdout.Reset()
	require.NoError(t, RunList(context.Background(), e, ListOptions{Query: "zzz", Format: "json", NoProgress: true}))
	assert.JSONEq(t, "[]", out.stdout.String())
}

func TestRunListBadFormat(t *testing.T) {
	api := pokeapitest.NewServer(t, pokeapitest.DefaultFixtures())
	e, _ := newTestEnv(t, api, nil)

	err := RunList(context.Background(), e, ListOptions{Format: "xml"})
	require.Error(t, err)
	assert.Empty(t, api.Requests())
}

func TestRunListProgressAndMetrics(t *testing.T) {
	api := pokeapitest.NewServer(t, pokeapitest.DefaultFixtures())
	e, out := newTestEnv(t, api, nil)
	csvPath := filepath.Join(t.TempDir(), "metrics.csv")

	require.NoError(t, RunList(context.Background(), e, ListOptions{MetricsCSV: csvPath}))

	assert.Contains(t, out.stderr.String(), "Loading catalog")
	assert.Contains(t, out.stderr.String(), "3/3")
	assert.Contains(t, out.stderr.String(), "Total Requests: 4")

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "timestamp,operation,url"))
	assert.Contains(t, lines[1], "LIST")
}

func TestRunListFailureJoinAll(t *testing.T) {
	api := pokeapitest.NewServer(t, pokeapitest.DefaultFixtures())
	api.Fail("/pokemon/4", http.StatusInternalServerError)
	e, out := newTestEnv(t, api, nil)

	err := RunList(context.Background(), e, ListOptions{NoProgress: true})
	require.Error(t, err)
	var ufe errors.UserFriendlyError
	require.True(t, stderrors.As(err, &ufe))
	assert.Contains(t, ufe.Reason, "HTTP 500")
	assert.Empty(t, out.stdout.String())
}

func TestRunListFailureStillWritesMetrics(t *testing.T) {
	api := pokeapitest.NewServer(t, pokeapitest.DefaultFixtures())
	api.Fail("/pokemon/4", http.StatusInternalServerError)
	e, out := newTestEnv(t, api, nil)
	csvPath := filepath.Join(t.TempDir(), "metrics.csv")

	err := RunList(context.Background(), e, ListOptions{NoProgress: true, MetricsCSV: csvPath})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 500")

	data, rerr := os.ReadFile(csvPath)
	require.NoError(t, rerr)
	assert.Contains(t, string(data), "LIST")
	assert.Contains(t, string(data), "/pokemon/4")
	assert.Contains(t, string(data), "500")
	assert.Contains(t, out.stderr.String(), "Total Requests:")
	assert.Empty(t, out.stdout.String())
}

func TestEntryTable(t *testing.T) {
	got := EntryTable([]catalog.Entry{
		{ID: 1, Name: "bulbasaur", Types: []catalog.TypeSlot{{Slot: 1, Name: "grass"}, {Slot: 2, Name: "poison"}}},
		{ID: 4, Name: "charmander", Types: []catalog.TypeSlot{{Slot: 1, Name: "fire"}}},
	})
	lines := strings.Split(got, "\n")
	require.Greater(t, len(lines), 4)

	headerLine, firstRow := -1, -1
	for i, line := range lines {
		if headerLine < 0 && strings.Contains(line, "No.") {
			headerLine = i
		}
		if firstRow < 0 && strings.Contains(line, "Bulbasaur") {
			firstRow = i
		}
	}
	require.GreaterOrEqual(t, headerLine, 0, "header missing:\n%s", got)
	require.GreaterOrEqual(t, firstRow, 0, "first row missing:\n%s", got)
	assert.Less(t, headerLine, firstRow)
	for _, want := range []string{"Name", "Types", "Colour"} {
		assert.Contains(t, lines[headerLine], want)
	}
	for _, want := range []string{"#001", "Grass / Poison", "#7AC74C"} {
		assert.Contains(t, lines[firstRow], want)
	}
	assert.Less(t, strings.Index(got, "Bulbasaur"), strings.Index(got, "Charmander"))
}

func TestRunListPartial(t *testing.T) {
	api := pokeapitest.NewServer(t, pokeapitest.DefaultFixtures())
	api.Fail("/pokemon/4", http.StatusInternalServerError)
	e, out := newTestEnv(t, api, map[string]string{"DEXTERM_JOIN_POLICY": "partial"})

	require.NoError(t, RunList(context.Background(), e, ListOptions{Format: "json", NoProgress: true}))
	var entries []catalog.Entry
	require.NoError(t, json.Unmarshal(out.stdout.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "bulbasaur", entries[0].Name)
	assert.Equal(t, "squirtle", entries[1].Name)
	assert.Contains(t, out.stderr.String(), "warning: 1 of 3 entries failed to load: charmander")
}

func TestRunListListingFailure(t *testing.T) {
	api := pokeapitest.NewServer(t, pokeapitest.DefaultFixtures())
	api.Fail("/pokemon", http.StatusServiceUnavailable)
	e, _ := newTestEnv(t, api, map[string]string{"DEXTERM_JOIN_POLICY": "partial"})

	err := RunList(context.Background(), e, ListOptions{NoProgress: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 503")
}

func TestRunShowByIDAndName(t *testing.T) {
	api := pokeapitest.NewServer(t, pokeapitest.DefaultFixtures())
	e, out := newTestEnv(t, api, nil)

	require.NoError(t, RunShow(context.Background(), e, ShowOptions{Key: "1"}))
	got := out.stdout.String()
	assert.Contains(t, got, "#001 Bulbasaur  #7AC74C")
	assert.Contains(t, got, "0.7 m")
	assert.Contains(t, got, "6.9 kg")
	assert.Contains(t, got, "Overgrow, Chlorophyll (hidden)")
	assert.Contains(t, got, "Grass / Poison")
	assert.Contains(t, got, "Special attack")
	assert.Contains(t, got, WeakPlaceholder)

	out.stdout.Reset()
	require.NoError(t, RunShow(context.Background(), e, ShowOptions{Key: "Charmander", Tab: "types"}))
	assert.Contains(t, out.stdout.String(), "[Types]\n  Fire\n")
	assert.NotContains(t, out.stdout.String(), "[Stats]")

	assert.Contains(t, api.Requests(), "/pokemon/1")
	assert.Contains(t, api.Requests(), "/pokemon/charmander")
}

func TestRunShowFromTransfer(t *testing.T) {
	api := pokeapitest.NewServer(t, pokeapitest.DefaultFixtures())
	e, out := newTestEnv(t, api, nil)

	encoded, err := catalog.NewTransfer(catalog.Entry{ID: 7, Name: "squirtle"}).Encode()
	require.NoError(t, err)
	require.NoError(t, RunShow(context.Background(), e, ShowOptions{Key: "1", From: encoded, Tab: "forms"}))
	assert.Contains(t, out.stdout.String(), "Squirtle")
	assert.NotContains(t, out.stdout.String(), "Bulbasaur")

	err = RunShow(context.Background(), e, ShowOptions{From: "{not json"})
	require.Error(t, err)
}

func TestRunShowNotFound(t *testing.T) {
	api := pokeapitest.NewServer(t, pokeapitest.DefaultFixtures())
	e, _ := newTestEnv(t, api, nil)

	err := RunShow(context.Background(), e, ShowOptions{Key: "missingno"})
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	var ufe errors.UserFriendlyError
	require.True(t, stderrors.As(err, &ufe))
	assert.Contains(t, ufe.Message, `"missingno"`)

	require.Error(t, RunShow(context.Background(), e, ShowOptions{Key: "0"}))
	require.Error(t, RunShow(context.Background(), e, ShowOptions{}))
	require.Error(t, RunShow(context.Background(), e, ShowOptions{Key: "1", Tab: "moves"}))
}

func TestRunShowMarkdown(t *testing.T) {
	api := pokeapitest.NewServer(t, pokeapitest.DefaultFixtures())
	e, out := newTestEnv(t, api, nil)

	require.NoError(t, RunShow(context.Background(), e, ShowOptions{Key: "1", Tab: "stats", Markdown: true, Style: "notty"}))
	got := out.stdout.String()
	assert.Contains(t, got, "Bulbasaur")
	assert.Contains(t, got, "Special attack")
	assert.Contains(t, got, "65")
}

func TestRunShowSprite(t *testing.T) {
	api := pokeapitest.NewServer(t, pokeapitest.DefaultFixtures())
	e, out := newTestEnv(t, api, map[string]string{"DEXTERM_SPRITE_WIDTH": "8"})

	require.NoError(t, RunShow(context.Background(), e, ShowOptions{Key: "1", Tab: "types", Sprite: true}))
	assert.Contains(t, out.stdout.String(), "▀")
	assert.Contains(t, api.Requests(), "/img/art/1.png")

	// A broken image does not fail the command.
	api.Fail("/img/art/4.png", http.StatusNotFound)
	out.stdout.Reset()
	require.NoError(t, RunShow(context.Background(), e, ShowOptions{Key: "4", Tab: "types", Sprite: true}))
	assert.NotContains(t, out.stdout.String(), "▀")
	assert.Contains(t, out.stdout.String(), "Fire")
}

func TestRunPick(t *testing.T) {
	api := pokeapitest.NewServer(t, pokeapitest.DefaultFixtures())
	e, out := newTestEnv(t, api, nil)

	var offered []string
	choose := func(entries []catalog.Entry) (catalog.Entry, error) {
		for _, en := range entries {
			offered = append(offered, en.Name)
		}
		return entries[len(entries)-1], nil
	}
	require.NoError(t, RunPick(context.Background(), e, PickOptions{
		Query:  "r",
		Show:   ShowOptions{Tab: "types"},
		Choose: choose,
	}))
	assert.Equal(t, []string{"bulbasaur", "charmander", "squirtle"}, offered)
	assert.Contains(t, out.stdout.String(), "#007 Squirtle")

	err := RunPick(context.Background(), e, PickOptions{Query: "zzz", Choose: choose})
	assert.ErrorIs(t, err, ErrNoMatches)

	boom := stderrors.New("aborted")
	err = RunPick(context.Background(), e, PickOptions{Choose: func([]catalog.Entry) (catalog.Entry, error) {
		return catalog.Entry{}, boom
	}})
	assert.ErrorIs(t, err, boom)
}

func TestTUIOptions(t *testing.T) {
	api := pokeapitest.NewServer(t, pokeapitest.DefaultFixtures())
	e, _ := newTestEnv(t, api, map[string]string{"DEXTERM_SPRITES": "false", "DEXTERM_PAGE_SIZE": "20"})

	opts := TUIOptions(e, BrowseOptions{Query: "bul"})
	assert.Equal(t, 20, opts.PageSize)
	assert.Equal(t, "bul", opts.Query)
	assert.False(t, opts.Sprites)
	assert.Equal(t, api.URL, opts.Source)
	assert.NotNil(t, opts.Loader)

	opts = TUIOptions(e, BrowseOptions{PageSize: 5})
	assert.Equal(t, 5, opts.PageSize)
}

func TestRenderDetailWithoutForms(t *testing.T) {
	d := catalog.Detail{ID: 132, Name: "ditto", Types: []catalog.TypeSlot{{Slot: 1, Name: "normal"}}}

	text := RenderDetailText(d, []string{"forms"})
	assert.Contains(t, text, "[Forms]\n  No forms listed.\n")

	md := DetailMarkdown(d, []string{"forms"})
	assert.Contains(t, md, "## Forms\n\nNo forms listed.\n")

	d.Forms = []catalog.Form{{Name: "ditto"}}
	assert.NotContains(t, RenderDetailText(d, []string{"forms"}), NoForms)
}

func TestParseTab(t *testing.T) {
	all, err := ParseTab("")
	require.NoError(t, err)
	assert.Equal(t, Tabs, all)

	all, err = ParseTab("ALL")
	require.NoError(t, err)
	assert.Len(t, all, 5)

	one, err := ParseTab(" Stats ")
	require.NoError(t, err)
	assert.Equal(t, []string{"stats"}, one)

	_, err = ParseTab("moves")
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
