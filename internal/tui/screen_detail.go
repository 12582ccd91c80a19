package tui

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tturner/dexterm/internal/catalog"
	"github.com/tturner/dexterm/internal/errors"
	"github.com/tturner/dexterm/internal/logging"
	"github.com/tturner/dexterm/internal/sprite"
)

// DetailTab is one section of the detail screen.
type DetailTab int

const (
	TabForms DetailTab = iota
	TabDetail
	TabTypes
	TabStats
	TabWeak
)

var detailTabNames = []string{"Forms", "Detail", "Types", "Stats", "Weak"}

func (t DetailTab) String() string {
	if t < 0 || int(t) >= len(detailTabNames) {
		return fmt.Sprintf("DetailTab(%d)", int(t))
	}
	return detailTabNames[t]
}

// WeakPlaceholder is shown on the Weak tab.
const WeakPlaceholder = "Type effectiveness information is not available."

// DetailScreenModel shows one entry. It only knows the transfer record it
// was opened with; everything else is fetched again on every visit.
type DetailScreenModel struct {
	styles      Styles
	layout      Layout
	loader      Loader
	images      sprite.Fetcher
	spriteWidth int
	clipboard   ClipboardFunc
	logger      *logging.Logger
	source      string

	transfer catalog.Transfer
	status   loadStatus
	loadID   int
	detail   catalog.Detail
	err      error
	art      string
	tab      DetailTab
	flash    string
	spinner  spinner.Model
	cancel   context.CancelFunc
}

// NewDetailScreenModel creates a detail screen for a transfer record.
func NewDetailScreenModel(opts Options, styles Styles, t catalog.Transfer) *DetailScreenModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Color()))

	return &DetailScreenModel{
		styles:      styles,
		layout:      NewLayout(DefaultWidth, DefaultHeight),
		loader:      opts.Loader,
		images:      opts.Images,
		spriteWidth: opts.SpriteWidth,
		clipboard:   opts.Clipboard,
		logger:      opts.Logger,
		source:      opts.Source,
		transfer:    t,
		tab:         TabForms,
		spinner:     sp,
	}
}

// Transfer returns the record the screen was opened with.
func (m *DetailScreenModel) Transfer() catalog.Transfer { return m.transfer }

// Tab returns the active tab.
func (m *DetailScreenModel) Tab() DetailTab { return m.tab }

// SetLayout applies a new terminal size.
func (m *DetailScreenModel) SetLayout(l Layout) { m.layout = l }

// startLoad fetches the detail and, if enabled, the artwork.
func (m *DetailScreenModel) startLoad() tea.Cmd {
	m.stop()
	m.loadID++
	m.status = statusLoading
	m.err = nil
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	cmds := []tea.Cmd{m.fetchDetail(ctx, m.loadID), m.spinner.Tick}
	if m.images != nil && m.art == "" {
		cmds = append(cmds, m.fetchSprite(ctx, m.loadID))
	}
	return tea.Batch(cmds...)
}

func (m *DetailScreenModel) fetchDetail(ctx context.Context, id int) tea.Cmd {
	loader, entryID := m.loader, m.transfer.ID
	return func() tea.Msg {
		d, err := loader.LoadDetail(ctx, entryID)
		if err != nil {
			return loadFailedMsg{target: targetDetail, loadID: id, err: err}
		}
		return detailLoadedMsg{loadID: id, detail: d}
	}
}

func (m *DetailScreenModel) fetchSprite(ctx context.Context, id int) tea.Cmd {
	images, url, width := m.images, m.transfer.ImageURL, m.spriteWidth
	return func() tea.Msg {
		art, err := sprite.Load(ctx, images, url, width)
		return spriteLoadedMsg{loadID: id, art: art, err: err}
	}
}

// stop cancels in-flight requests.
func (m *DetailScreenModel) stop() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

// Update handles messages addressed to the detail screen.
func (m *DetailScreenModel) Update(msg tea.Msg) (*DetailScreenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case detailLoadedMsg:
		if msg.loadID != m.loadID || m.status != statusLoading {
			return m, nil
		}
		m.status = statusLoaded
		m.detail = msg.detail
		return m, nil

	case loadFailedMsg:
		if msg.target != targetDetail || msg.loadID != m.loadID {
			return m, nil
		}
		m.status = statusFailed
		m.err = msg.err
		m.logger.Error("Detail load for %d failed: %v", m.transfer.ID, msg.err)
		return m, nil

	case spriteLoadedMsg:
		if msg.loadID != m.loadID {
			return m, nil
		}
		if msg.err != nil {
			m.logger.Verbose("Sprite for %d unavailable: %v", m.transfer.ID, msg.err)
			return m, nil
		}
		m.art = msg.art
		return m, nil

	case clipboardCopyMsg:
		switch {
		case msg.success:
			m.flash = "Copied transfer record"
		case msg.err != nil:
			m.flash = "Copy failed: " + msg.err.Error()
		default:
			m.flash = "Clipboard unavailable"
		}
		return m, nil

	case spinner.TickMsg:
		if m.status != statusLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *DetailScreenModel) handleKey(msg tea.KeyMsg) (*DetailScreenModel, tea.Cmd) {
	m.flash = ""
	key := msg.String()
	switch key {
	case "esc", "backspace":
		m.stop()
		return m, func() tea.Msg { return closeDetailMsg{} }
	case "tab", "right", "l":
		m.tab = (m.tab + 1) % DetailTab(len(detailTabNames))
	case "shift+tab", "left", "h":
		m.tab = (m.tab + DetailTab(len(detailTabNames)) - 1) % DetailTab(len(detailTabNames))
	case "1", "2", "3", "4", "5":
		m.tab = DetailTab(key[0] - '1')
	case "r":
		if m.status == statusFailed {
			return m, m.startLoad()
		}
	case "y":
		encoded, err := m.transfer.Encode()
		if err != nil {
			m.flash = err.Error()
			return m, nil
		}
		return m, copyToClipboard(m.clipboard, encoded)
	}
	return m, nil
}

// View renders the detail screen.
func (m *DetailScreenModel) View() string {
	color := lipgloss.Color(m.transfer.Color())
	if m.status == statusLoaded {
		color = lipgloss.Color(m.detail.Color())
	}

	var b strings.Builder
	b.WriteString(m.renderHeader(color))
	b.WriteString("\n")
	if m.art != "" {
		b.WriteString(m.art)
		b.WriteString("\n")
	}
	b.WriteString(TabBar(detailTabNames, int(m.tab), color, m.styles))
	b.WriteString("\n")

	switch m.status {
	case statusIdle, statusLoading:
		b.WriteString(m.spinner.View() + " " + m.styles.Dim.Render("Loading details..."))
	case statusFailed:
		b.WriteString(m.renderError())
	case statusLoaded:
		b.WriteString(m.renderTab(color))
	}

	if m.flash != "" {
		b.WriteString("\n\n")
		b.WriteString(m.styles.Success.Render(m.flash))
	}
	return b.String()
}

// renderHeader draws a full-width bar in the entry's colour.
func (m *DetailScreenModel) renderHeader(color lipgloss.Color) string {
	name := catalog.DisplayName(m.transfer.Name)
	number := "#" + catalog.Number(m.transfer.ID)
	width := m.layout.ContentWidth
	gap := width - lipgloss.Width(name) - lipgloss.Width(number) - 2
	if gap < 1 {
		gap = 1
	}
	return lipgloss.NewStyle().
		Foreground(DefaultTheme.TextOnType).
		Background(color).
		Bold(true).
		Padding(0, 1).
		Render(name + strings.Repeat(" ", gap) + number)
}

func (m *DetailScreenModel) renderError() string {
	detail := m.err.Error()
	var ufe errors.UserFriendlyError
	if stderrors.As(errors.WrapNetworkError(m.err, m.source), &ufe) {
		detail = ufe.Reason
	}
	body := m.styles.Error.Render("Could not load details") + "\n" +
		m.styles.Base.Render(detail) + "\n\n" +
		m.styles.Dim.Render("Press ") + m.styles.KeyBinding.Render("r") + m.styles.Dim.Render(" to retry")
	return m.styles.ErrorPanel.Width(m.layout.ContentWidth - 2).Render(body)
}

func (m *DetailScreenModel) renderTab(color lipgloss.Color) string {
	d := m.detail
	switch m.tab {
	case TabForms:
		if len(d.Forms) == 0 {
			return m.styles.Dim.Render("No forms listed.")
		}
		lines := make([]string, 0, len(d.Forms))
		for _, f := range d.Forms {
			lines = append(lines, "• "+catalog.DisplayName(f.Name))
		}
		return strings.Join(lines, "\n")

	case TabDetail:
		rows := []string{
			m.styles.Label.Render("Height") + catalog.FormatHeight(d.Height),
			m.styles.Label.Render("Weight") + catalog.FormatWeight(d.Weight),
			m.styles.Label.Render("Abilities") + catalog.FormatAbilities(d.Abilities),
		}
		return strings.Join(rows, "\n")

	case TabTypes:
		if len(d.Types) == 0 {
			return m.styles.Dim.Render("No types listed.")
		}
		return TypeBadges(d.Types)

	case TabStats:
		return m.renderStats(color)

	case TabWeak:
		return m.styles.Dim.Render(WeakPlaceholder)
	}
	return ""
}

// renderStats draws one bar per base stat, scaled to catalog.StatMax.
//
//	Hp              45  ━━━━━━━━━━━━━━━━━━━━
//	Special attack  65  ━━━━━━━━━━━━━━━━━━━━
func (m *DetailScreenModel) renderStats(color lipgloss.Color) string {
	if len(m.detail.Stats) == 0 {
		return m.styles.Dim.Render("No stats listed.")
	}
	const labelWidth = 16
	barWidth := m.layout.ContentWidth - labelWidth - 6
	if barWidth < 10 {
		barWidth = 10
	}
	lines := make([]string, 0, len(m.detail.Stats))
	for _, s := range m.detail.Stats {
		label := m.styles.Dim.Render(padRight(catalog.StatLabel(s.Name), labelWidth))
		value := m.styles.Bold.Render(fmt.Sprintf("%3d", s.Base))
		lines = append(lines, label+value+"  "+StatBar(catalog.StatRatio(s.Base), barWidth, color, m.styles))
	}
	return strings.Join(lines, "\n")
}

// Footer returns key hints for the detail screen.
func (m *DetailScreenModel) Footer() string {
	hints := []KeyHint{
		{Key: "tab", Label: "Next tab"},
		{Key: "1-5", Label: "Jump"},
		{Key: "y", Label: "Copy"},
		{Key: "esc", Label: "Back"},
	}
	if m.status == statusFailed {
		hints = append(hints, KeyHint{Key: "r", Label: "Retry"})
	}
	hints = append(hints, KeyHint{Key: "q", Label: "Quit"})
	return KeyHints(hints, m.styles)
}
