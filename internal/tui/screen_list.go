package tui

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tturner/dexterm/internal/catalog"
	"github.com/tturner/dexterm/internal/errors"
	"github.com/tturner/dexterm/internal/logging"
)

// ListScreenModel is the searchable catalog grid.
type ListScreenModel struct {
	styles   Styles
	layout   Layout
	loader   Loader
	logger   *logging.Logger
	pageSize int
	source   string

	state     listState
	input     textinput.Model
	spinner   spinner.Model
	searching bool
	cursor    int
	scroll    int
	cancel    context.CancelFunc
}

// NewListScreenModel creates the list screen with an optional preset query.
func NewListScreenModel(opts Options, styles Styles) *ListScreenModel {
	input := textinput.New()
	input.Placeholder = "Name or number"
	input.Prompt = "Search: "
	input.CharLimit = 40
	input.SetValue(opts.Query)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(DefaultTheme.Accent)

	m := &ListScreenModel{
		styles:   styles,
		layout:   NewLayout(DefaultWidth, DefaultHeight),
		loader:   opts.Loader,
		logger:   opts.Logger,
		pageSize: opts.PageSize,
		source:   opts.Source,
		input:    input,
		spinner:  sp,
	}
	m.state = m.state.setQuery(opts.Query)
	return m
}

// Searching reports whether key presses go to the search input.
func (m *ListScreenModel) Searching() bool { return m.searching }

// startLoad cancels any in-flight load and starts a new one.
func (m *ListScreenModel) startLoad() tea.Cmd {
	m.stop()
	m.state = m.state.startLoad()
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	return tea.Batch(m.fetchEntries(ctx, m.state.loadID), m.spinner.Tick)
}

func (m *ListScreenModel) fetchEntries(ctx context.Context, id int) tea.Cmd {
	loader, pageSize := m.loader, m.pageSize
	return func() tea.Msg {
		entries, err := loader.Load(ctx, pageSize)
		var pe *catalog.PartialError
		if err != nil && !stderrors.As(err, &pe) {
			return loadFailedMsg{target: targetList, loadID: id, err: err}
		}
		return entriesLoadedMsg{loadID: id, entries: entries, err: err}
	}
}

// stop cancels the in-flight load, if any.
func (m *ListScreenModel) stop() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

// SetLayout applies a new terminal size.
func (m *ListScreenModel) SetLayout(l Layout) {
	m.layout = l
	m.input.Width = l.ContentWidth - lipgloss.Width(m.input.Prompt) - 1
	m.clampCursor()
}

// Update handles messages addressed to the list screen.
func (m *ListScreenModel) Update(msg tea.Msg) (*ListScreenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case entriesLoadedMsg:
		if msg.loadID != m.state.loadID {
			return m, nil
		}
		m.state = m.state.completeLoad(msg.loadID, msg.entries, msg.err)
		m.cancel = nil
		if m.state.partial != nil {
			m.logger.Info("Loaded %d entries, %d failed", len(msg.entries), len(m.state.partial.Failed))
		}
		m.clampCursor()
		return m, nil

	case loadFailedMsg:
		if msg.target != targetList || msg.loadID != m.state.loadID {
			return m, nil
		}
		m.state = m.state.failLoad(msg.loadID, msg.err)
		m.cancel = nil
		m.logger.Error("Catalog load failed: %v", msg.err)
		return m, nil

	case spinner.TickMsg:
		if !m.state.loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.searching {
			return m.handleSearchInput(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *ListScreenModel) handleSearchInput(msg tea.KeyMsg) (*ListScreenModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.input.Blur()
		m.input.SetValue("")
		m.applyQuery()
		return m, nil
	case "enter", "down":
		m.searching = false
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != m.state.query {
		m.applyQuery()
	}
	return m, cmd
}

func (m *ListScreenModel) handleKey(msg tea.KeyMsg) (*ListScreenModel, tea.Cmd) {
	switch msg.String() {
	case "/":
		m.searching = true
		return m, m.input.Focus()
	case "esc":
		if m.state.query != "" {
			m.input.SetValue("")
			m.applyQuery()
		}
		return m, nil
	case "r":
		if m.state.loading() {
			return m, nil
		}
		return m, m.startLoad()
	}

	if m.state.status != statusLoaded {
		return m, nil
	}

	switch msg.String() {
	case "up", "k":
		m.moveCursor(-gridColumns)
	case "down", "j":
		m.moveCursor(gridColumns)
	case "left", "h":
		m.moveCursor(-1)
	case "right", "l":
		m.moveCursor(1)
	case "pgup":
		m.moveCursor(-gridColumns * m.layout.GridRows)
	case "pgdown":
		m.moveCursor(gridColumns * m.layout.GridRows)
	case "home", "g":
		m.cursor = 0
		m.adjustScroll()
	case "end", "G":
		m.cursor = len(m.state.filtered) - 1
		m.clampCursor()
	case "enter":
		if e, ok := m.Selected(); ok {
			transfer := catalog.NewTransfer(e)
			return m, func() tea.Msg { return openDetailMsg{transfer: transfer} }
		}
	}
	return m, nil
}

func (m *ListScreenModel) applyQuery() {
	m.state = m.state.setQuery(m.input.Value())
	m.cursor = 0
	m.scroll = 0
}

// Selected returns the entry under the cursor.
func (m *ListScreenModel) Selected() (catalog.Entry, bool) {
	if m.cursor < 0 || m.cursor >= len(m.state.filtered) {
		return catalog.Entry{}, false
	}
	return m.state.filtered[m.cursor], true
}

func (m *ListScreenModel) moveCursor(delta int) {
	next := m.cursor + delta
	if next < 0 || next >= len(m.state.filtered) {
		// Horizontal moves stop at the ends; vertical moves clamp.
		if delta == -1 || delta == 1 {
			return
		}
		if next < 0 {
			next = 0
		} else {
			next = len(m.state.filtered) - 1
		}
	}
	m.cursor = next
	m.adjustScroll()
}

func (m *ListScreenModel) clampCursor() {
	if m.cursor >= len(m.state.filtered) {
		m.cursor = len(m.state.filtered) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.adjustScroll()
}

// adjustScroll keeps the cursor's row inside the visible window.
func (m *ListScreenModel) adjustScroll() {
	row := m.cursor / gridColumns
	if row < m.scroll {
		m.scroll = row
	}
	if row >= m.scroll+m.layout.GridRows {
		m.scroll = row - m.layout.GridRows + 1
	}
	if m.scroll < 0 {
		m.scroll = 0
	}
}

// View renders the list screen.
func (m *ListScreenModel) View() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(Divider(m.layout.ContentWidth, m.styles))
	b.WriteString("\n")

	switch m.state.status {
	case statusIdle, statusLoading:
		b.WriteString(m.spinner.View() + " " + m.styles.Dim.Render("Loading catalog..."))
	case statusFailed:
		b.WriteString(m.renderError())
	case statusLoaded:
		if m.state.partial != nil {
			b.WriteString(m.styles.Warning.Render(m.state.partial.Error()))
			b.WriteString("\n")
		}
		b.WriteString(m.renderGrid())
	}
	return b.String()
}

func (m *ListScreenModel) renderHeader() string {
	title := m.styles.Title.Render("Dexterm")
	var count string
	switch {
	case m.state.status != statusLoaded:
	case m.state.query == "":
		count = fmt.Sprintf("%d entries", len(m.state.entries))
	default:
		count = fmt.Sprintf("%d of %d entries", len(m.state.filtered), len(m.state.entries))
	}
	return title + "  " + m.styles.Dim.Render(count)
}

func (m *ListScreenModel) renderError() string {
	msg := m.styles.Error.Render("Could not load the catalog")
	detail := m.state.err.Error()
	var ufe errors.UserFriendlyError
	if stderrors.As(errors.WrapNetworkError(m.state.err, m.source), &ufe) {
		detail = ufe.Reason
	}
	body := msg + "\n" + m.styles.Base.Render(detail) + "\n\n" +
		m.styles.Dim.Render("Press ") + m.styles.KeyBinding.Render("r") + m.styles.Dim.Render(" to retry")
	return m.styles.ErrorPanel.Width(m.layout.ContentWidth - 2).Render(body)
}

func (m *ListScreenModel) renderGrid() string {
	entries := m.state.filtered
	if len(entries) == 0 {
		return m.styles.Dim.Render(fmt.Sprintf("No entries match %q", m.state.query))
	}

	var rows []string
	first := m.scroll * gridColumns
	last := first + m.layout.GridRows*gridColumns
	if last > len(entries) {
		last = len(entries)
	}
	for i := first; i < last; i += gridColumns {
		var cards []string
		for j := i; j < i+gridColumns && j < last; j++ {
			if j > i {
				cards = append(cards, " ")
			}
			cards = append(cards, m.renderCard(entries[j], j == m.cursor))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return strings.Join(rows, "\n")
}

// renderCard draws one entry bordered in its first type's colour.
//
//	╭──────────────────────╮
//	│ #001 Bulbasaur       │
//	│  Grass  Poison       │
//	╰──────────────────────╯
func (m *ListScreenModel) renderCard(e catalog.Entry, selected bool) string {
	color := lipgloss.Color(e.Color())
	border := lipgloss.RoundedBorder()
	if selected {
		border = lipgloss.ThickBorder()
	}
	name := lipgloss.NewStyle().Foreground(color).Bold(selected).
		Render(truncateString(catalog.DisplayName(e.Name), m.layout.CardWidth-6))
	line1 := m.styles.Dim.Render("#"+e.Number()) + " " + name
	line2 := TypeBadges(e.Types)

	return lipgloss.NewStyle().
		Border(border).
		BorderForeground(color).
		Width(m.layout.CardWidth).
		Render(line1 + "\n" + line2)
}

// Footer returns key hints for the current mode.
func (m *ListScreenModel) Footer() string {
	if m.searching {
		return KeyHints([]KeyHint{
			{Key: "enter", Label: "Done"},
			{Key: "esc", Label: "Clear"},
		}, m.styles)
	}
	hints := []KeyHint{
		{Key: "/", Label: "Search"},
		{Key: "←↑↓→", Label: "Move"},
		{Key: "enter", Label: "Open"},
	}
	if m.state.query != "" {
		hints = append(hints, KeyHint{Key: "esc", Label: "Clear"})
	}
	if m.state.status == statusFailed || m.state.status == statusLoaded {
		hints = append(hints, KeyHint{Key: "r", Label: "Reload"})
	}
	hints = append(hints, KeyHint{Key: "q", Label: "Quit"})
	return KeyHints(hints, m.styles)
}
