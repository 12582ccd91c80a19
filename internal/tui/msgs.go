package tui

import (
	"github.com/tturner/dexterm/internal/catalog"
)

// entriesLoadedMsg carries a finished list load. err is nil or a
// *catalog.PartialError.
type entriesLoadedMsg struct {
	loadID  int
	entries []catalog.Entry
	err     error
}

// detailLoadedMsg carries a finished detail fetch.
type detailLoadedMsg struct {
	loadID int
	detail catalog.Detail
}

type loadTarget int

const (
	targetList loadTarget = iota
	targetDetail
)

// loadFailedMsg reports a failed list or detail load.
type loadFailedMsg struct {
	target loadTarget
	loadID int
	err    error
}

// spriteLoadedMsg carries rendered artwork for the detail header.
type spriteLoadedMsg struct {
	loadID int
	art    string
	err    error
}

// openDetailMsg asks the root model to switch to the detail screen.
type openDetailMsg struct {
	transfer catalog.Transfer
}

// closeDetailMsg asks the root model to return to the list.
type closeDetailMsg struct{}
