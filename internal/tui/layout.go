package tui

// Layout constants
const (
	DefaultWidth  = 100
	DefaultHeight = 32
	MinWidth      = 40
	MaxWidth      = 140

	gridColumns = 2
	cardHeight  = 4 // two content lines plus border
	chromeLines = 7 // header, search, divider, status, footer and gaps
)

// Layout holds layout calculations for the current terminal size.
type Layout struct {
	Width  int
	Height int

	ContentWidth int
	CardWidth    int
	GridRows     int
}

// NewLayout creates a new layout for the given terminal size.
func NewLayout(width, height int) Layout {
	if width < MinWidth {
		width = MinWidth
	}
	if width > MaxWidth {
		width = MaxWidth
	}
	if height < cardHeight+chromeLines {
		height = cardHeight + chromeLines
	}

	l := Layout{Width: width, Height: height}
	l.ContentWidth = width - 2
	// Each card carries its own border; one column of gap between cards.
	l.CardWidth = (l.ContentWidth-(gridColumns-1))/gridColumns - 2
	l.GridRows = (height - chromeLines) / cardHeight
	if l.GridRows < 1 {
		l.GridRows = 1
	}
	return l
}
