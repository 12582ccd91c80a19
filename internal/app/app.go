// Package app wires configuration, logging, the API client and the catalog
// loader together for the dexterm commands.
package app

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/tturner/dexterm/internal/catalog"
	"github.com/tturner/dexterm/internal/config"
	"github.com/tturner/dexterm/internal/logging"
	"github.com/tturner/dexterm/internal/metrics"
	"github.com/tturner/dexterm/internal/pokeapi"
)

// Options are the global flags shared by every command.
type Options struct {
	ConfigPath string
	LogLevel   string // overrides log.level when set
	LogFile    string // overrides log.file when set

	// Quiet keeps log output off the terminal. Used by the TUI.
	Quiet bool

	Stdout io.Writer
	Stderr io.Writer

	// HTTPClient replaces the default client, mainly for tests.
	HTTPClient *http.Client
}

// Env holds everything a command needs to talk to the API.
type Env struct {
	Config *config.Config
	Logger *logging.Logger
	Client *pokeapi.Client
	Sink   *metrics.Sink

	Stdout io.Writer
	Stderr io.Writer
}

// Setup loads configuration and builds the logger, metrics sink and client.
// Callers must Close the returned Env.
func Setup(opts Options) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	if opts.LogLevel != "" {
		if _, err := logging.ParseLevel(opts.LogLevel); err != nil {
			return nil, fmt.Errorf("--log-level: %w", err)
		}
		cfg.Log.Level = opts.LogLevel
	}
	if opts.LogFile != "" {
		cfg.Log.File = opts.LogFile
	}
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	logger, err := logging.NewLoggerWithOptions(logging.Options{
		Level:  level,
		File:   cfg.Log.File,
		Format: cfg.Log.Format,
		Quiet:  opts.Quiet,
		Stderr: opts.Stderr,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	sink := metrics.NewSink()
	client := pokeapi.NewClient(pokeapi.Config{
		BaseURL:    cfg.API.BaseURL,
		Timeout:    cfg.API.Timeout,
		UserAgent:  cfg.API.UserAgent,
		HTTPClient: opts.HTTPClient,
		Observers:  []pokeapi.Observer{sink, fetchLogger{logger}},
	})

	env := &Env{
		Config: cfg,
		Logger: logger,
		Client: client,
		Sink:   sink,
		Stdout: opts.Stdout,
		Stderr: opts.Stderr,
	}
	if env.Stdout == nil {
		env.Stdout = os.Stdout
	}
	if env.Stderr == nil {
		env.Stderr = os.Stderr
	}
	return env, nil
}

// NewLoader builds a catalog loader from the configured policy and limits.
// Extra options are applied last.
func (e *Env) NewLoader(extra ...catalog.Option) *catalog.Loader {
	opts := []catalog.Option{
		catalog.WithJoinPolicy(e.Config.Catalog.Policy()),
		catalog.WithMaxConcurrency(e.Config.Catalog.MaxConcurrency),
		catalog.WithLogger(e.Logger),
	}
	return catalog.NewLoader(e.Client, append(opts, extra...)...)
}

// Close flushes and closes the log file.
func (e *Env) Close() error {
	return e.Logger.Close()
}

// fetchLogger forwards client callbacks to the logger.
type fetchLogger struct{ logger *logging.Logger }

func (f fetchLogger) ObserveFetch(op, url string, status int, rtt time.Duration, err error) {
	f.logger.LogFetch(op, url, err == nil, rtt, err)
}
