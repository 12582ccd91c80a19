package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tturner/dexterm/internal/catalog"
	"github.com/tturner/dexterm/internal/logging"
	"github.com/tturner/dexterm/internal/sprite"
)

// Screen represents the current active screen.
type Screen int

const (
	ScreenList Screen = iota
	ScreenDetail
)

func (s Screen) String() string {
	switch s {
	case ScreenList:
		return "list"
	case ScreenDetail:
		return "detail"
	}
	return "unknown"
}

// Loader is the slice of catalog.Loader the screens need.
type Loader interface {
	Load(ctx context.Context, pageSize int) ([]catalog.Entry, error)
	LoadDetail(ctx context.Context, id int) (catalog.Detail, error)
}

// Options configures the TUI.
type Options struct {
	Loader   Loader
	PageSize int
	Query    string

	// Images fetches artwork for the detail header. Ignored unless Sprites is set.
	Images      sprite.Fetcher
	Sprites     bool
	SpriteWidth int

	// Source is the API base URL, used in error messages.
	Source    string
	Logger    *logging.Logger
	Clipboard ClipboardFunc
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = logging.Nop()
	}
	if o.PageSize <= 0 {
		o.PageSize = catalog.DefaultPageSize
	}
	if !o.Sprites {
		o.Images = nil
	}
	if o.SpriteWidth <= 0 {
		o.SpriteWidth = sprite.DefaultWidth
	}
	return o
}

// Model is the main TUI model.
type Model struct {
	opts   Options
	styles Styles
	layout Layout
	screen Screen

	list   *ListScreenModel
	detail *DetailScreenModel
}

// NewModel creates a new TUI model.
func NewModel(opts Options) *Model {
	opts = opts.withDefaults()
	styles := DefaultStyles
	return &Model{
		opts:   opts,
		styles: styles,
		layout: NewLayout(DefaultWidth, DefaultHeight),
		screen: ScreenList,
		list:   NewListScreenModel(opts, styles),
	}
}

// Screen returns the active screen.
func (m *Model) Screen() Screen { return m.screen }

// Init starts the first catalog load.
func (m *Model) Init() tea.Cmd {
	return m.list.startLoad()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = NewLayout(msg.Width, msg.Height)
		m.list.SetLayout(m.layout)
		if m.detail != nil {
			m.detail.SetLayout(m.layout)
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m.quit()
		case "q":
			if !(m.screen == ScreenList && m.list.Searching()) {
				return m.quit()
			}
		}

	case openDetailMsg:
		m.opts.Logger.Verbose("Opening detail for %s (#%d)", msg.transfer.Name, msg.transfer.ID)
		m.detail = NewDetailScreenModel(m.opts, m.styles, msg.transfer)
		m.detail.SetLayout(m.layout)
		m.screen = ScreenDetail
		return m, m.detail.startLoad()

	case closeDetailMsg:
		if m.detail != nil {
			m.detail.stop()
		}
		m.detail = nil
		m.screen = ScreenList
		return m, nil

	case entriesLoadedMsg:
		return m.updateList(msg)

	case detailLoadedMsg, spriteLoadedMsg, clipboardCopyMsg:
		return m.updateDetail(msg)

	case loadFailedMsg:
		if msg.target == targetList {
			return m.updateList(msg)
		}
		return m.updateDetail(msg)

	case spinner.TickMsg:
		// Both spinners share the tick stream; only the visible one advances.
		if m.screen == ScreenDetail {
			return m.updateDetail(msg)
		}
		return m.updateList(msg)
	}

	if m.screen == ScreenDetail {
		return m.updateDetail(msg)
	}
	return m.updateList(msg)
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) updateDetail(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.detail == nil {
		return m, nil
	}
	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.list.stop()
	if m.detail != nil {
		m.detail.stop()
	}
	return m, tea.Quit
}

// View implements tea.Model.
func (m *Model) View() string {
	var body, footer string
	if m.screen == ScreenDetail && m.detail != nil {
		body, footer = m.detail.View(), m.detail.Footer()
	} else {
		body, footer = m.list.View(), m.list.Footer()
	}
	return m.styles.Base.Width(m.layout.ContentWidth).Render(body) + "\n\n" + footer
}
