package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/tturner/dexterm/internal/logging"
	"github.com/tturner/dexterm/internal/pokeapi"
)

// MaxPageSize is the largest listing the loader will request.
const MaxPageSize = 1025

// ErrInvalidPageSize is returned by Load for a page size outside 1..MaxPageSize.
var ErrInvalidPageSize = errors.New("invalid page size")

// JoinPolicy decides how per-item detail failures affect a load.
type JoinPolicy int

const (
	// JoinAll fails the whole load on the first detail failure.
	JoinAll JoinPolicy = iota
	// JoinPartial keeps the successful entries and reports the failures.
	JoinPartial
)

func (p JoinPolicy) String() string {
	switch p {
	case JoinAll:
		return "all"
	case JoinPartial:
		return "partial"
	default:
		return fmt.Sprintf("JoinPolicy(%d)", int(p))
	}
}

// ParseJoinPolicy parses "all" or "partial".
func ParseJoinPolicy(s string) (JoinPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return JoinAll, nil
	case "partial":
		return JoinPartial, nil
	default:
		return JoinAll, fmt.Errorf("unknown join policy %q (expected all or partial)", s)
	}
}

// FailedRef is one reference whose detail request failed.
type FailedRef struct {
	Index int
	Name  string
	URL   string
	Err   error
}

// PartialError lists the references dropped from a JoinPartial load.
type PartialError struct {
	Total  int
	Failed []FailedRef
}

func (e *PartialError) Error() string {
	names := make([]string, 0, len(e.Failed))
	for _, f := range e.Failed {
		names = append(names, f.Name)
	}
	return fmt.Sprintf("%d of %d entries failed to load: %s", len(e.Failed), e.Total, strings.Join(names, ", "))
}

// Unwrap exposes every per-item cause to errors.Is and errors.As.
func (e *PartialError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failed))
	for _, f := range e.Failed {
		errs = append(errs, f.Err)
	}
	return errs
}

// ProgressFunc is called once per settled detail request. Calls are
// serialized.
type ProgressFunc func(done, total int)

// Fetcher is the subset of the API client the loader needs.
type Fetcher interface {
	ListPokemon(ctx context.Context, limit int) (pokeapi.ListResponse, error)
	GetPokemonURL(ctx context.Context, detailURL string) (pokeapi.Pokemon, error)
	GetPokemon(ctx context.Context, id int) (pokeapi.Pokemon, error)
	GetPokemonByName(ctx context.Context, name string) (pokeapi.Pokemon, error)
}

// Option configures a Loader.
type Option func(*Loader)

// WithJoinPolicy sets the join policy. The default is JoinAll.
func WithJoinPolicy(p JoinPolicy) Option {
	return func(l *Loader) { l.policy = p }
}

// WithMaxConcurrency caps in-flight detail requests. Zero means no cap.
func WithMaxConcurrency(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.maxConcurrency = n
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *logging.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithProgress registers a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(l *Loader) { l.progress = fn }
}

// Loader builds the catalog from the listing and per-entry detail requests.
type Loader struct {
	api            Fetcher
	policy         JoinPolicy
	maxConcurrency int
	logger         *logging.Logger
	progress       ProgressFunc
}

// NewLoader creates a Loader over api.
func NewLoader(api Fetcher, opts ...Option) *Loader {
	l := &Loader{api: api, logger: logging.Nop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Policy returns the configured join policy.
func (l *Loader) Policy() JoinPolicy { return l.policy }

// Load fetches up to pageSize references and one detail per reference, and
// returns entries in listing order. Under JoinPartial a non-nil result may be
// returned alongside a *PartialError.
func (l *Loader) Load(ctx context.Context, pageSize int) ([]Entry, error) {
	if pageSize < 1 || pageSize > MaxPageSize {
		return nil, fmt.Errorf("%w: %d (expected 1..%d)", ErrInvalidPageSize, pageSize, MaxPageSize)
	}

	logger := l.logger.With("load_id", uuid.NewString())
	start := time.Now()

	listing, err := l.api.ListPokemon(ctx, pageSize)
	if err != nil {
		logger.Error("Listing failed: %v", err)
		return nil, fmt.Errorf("list references: %w", err)
	}
	refs := listing.Results
	logger.Verbose("Listing returned %d references (count=%d)", len(refs), listing.Count)

	details := make([]pokeapi.Pokemon, len(refs))
	errs := make([]error, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	if l.maxConcurrency > 0 {
		g.SetLimit(l.maxConcurrency)
	}

	var done atomic.Int64
	var progressMu sync.Mutex
	settle := func() {
		n := int(done.Add(1))
		if l.progress == nil {
			return
		}
		progressMu.Lock()
		l.progress(n, len(refs))
		progressMu.Unlock()
	}

	for i, ref := range refs {
		i, ref := i, ref
		g.Go(func() error {
			defer settle()
			p, err := l.api.GetPokemonURL(gctx, ref.URL)
			if err != nil {
				errs[i] = err
				if l.policy == JoinAll {
					return fmt.Errorf("detail %s: %w", ref.Name, err)
				}
				logger.Info("Dropping %s: %v", ref.Name, err)
				return nil
			}
			details[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("Load failed after %s: %v", time.Since(start).Round(time.Millisecond), err)
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(refs))
	var failed []FailedRef
	for i, ref := range refs {
		if errs[i] != nil {
			failed = append(failed, FailedRef{Index: i, Name: ref.Name, URL: ref.URL, Err: errs[i]})
			continue
		}
		entries = append(entries, entryFrom(ref, details[i]))
	}

	logger.Verbose("Loaded %d/%d entries in %s", len(entries), len(refs), time.Since(start).Round(time.Millisecond))
	if len(failed) > 0 {
		return entries, &PartialError{Total: len(refs), Failed: failed}
	}
	return entries, nil
}

// LoadDetail fetches the detail for one id. Nothing is cached.
func (l *Loader) LoadDetail(ctx context.Context, id int) (Detail, error) {
	p, err := l.api.GetPokemon(ctx, id)
	if err != nil {
		return Detail{}, fmt.Errorf("detail %d: %w", id, err)
	}
	return DetailFrom(p), nil
}

// LoadDetailByName fetches the detail for a name.
func (l *Loader) LoadDetailByName(ctx context.Context, name string) (Detail, error) {
	p, err := l.api.GetPokemonByName(ctx, name)
	if err != nil {
		return Detail{}, fmt.Errorf("detail %s: %w", name, err)
	}
	return DetailFrom(p), nil
}
