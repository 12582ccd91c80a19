package tui

import (
	"errors"

	"github.com/tturner/dexterm/internal/catalog"
)

// loadStatus is the list screen's fetch state. Loading and failed are
// distinct so the view never shows an empty grid for a failed load.
type loadStatus int

const (
	statusIdle loadStatus = iota
	statusLoading
	statusLoaded
	statusFailed
)

func (s loadStatus) String() string {
	switch s {
	case statusIdle:
		return "idle"
	case statusLoading:
		return "loading"
	case statusLoaded:
		return "loaded"
	case statusFailed:
		return "failed"
	}
	return "unknown"
}

// listState is the list screen's data, updated only through the transitions
// below. Each transition returns a new value; the receiver is never modified.
type listState struct {
	status   loadStatus
	loadID   int
	entries  []catalog.Entry
	filtered []catalog.Entry
	query    string
	err      error
	partial  *catalog.PartialError
}

// startLoad begins a new load. Results carrying an older id are dropped.
func (s listState) startLoad() listState {
	s.status = statusLoading
	s.loadID++
	s.err = nil
	s.partial = nil
	return s
}

// completeLoad stores a finished load. err may be a *catalog.PartialError,
// which keeps the entries and is surfaced as a warning.
func (s listState) completeLoad(id int, entries []catalog.Entry, err error) listState {
	if id != s.loadID || s.status != statusLoading {
		return s
	}
	s.status = statusLoaded
	s.entries = entries
	s.err = nil
	s.partial = nil
	var pe *catalog.PartialError
	if errors.As(err, &pe) {
		s.partial = pe
	}
	s.filtered = catalog.Filter(s.entries, s.query)
	return s
}

// failLoad records a failed load. No partial list survives a failure.
func (s listState) failLoad(id int, err error) listState {
	if id != s.loadID || s.status != statusLoading {
		return s
	}
	s.status = statusFailed
	s.entries = nil
	s.filtered = nil
	s.partial = nil
	s.err = err
	return s
}

// setQuery re-filters the full list from scratch.
func (s listState) setQuery(q string) listState {
	s.query = q
	s.filtered = catalog.Filter(s.entries, q)
	return s
}

func (s listState) loading() bool { return s.status == statusLoading }
