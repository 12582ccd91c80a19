package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// KeyHint represents a keyboard shortcut hint.
type KeyHint struct {
	Key   string
	Label string
}

// KeyHints renders a row of keyboard shortcuts.
//
//	[/] Search    [enter] Open    [q] Quit
func KeyHints(hints []KeyHint, s Styles) string {
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		key := s.KeyBinding.Render("[" + h.Key + "]")
		label := s.KeyHint.Render(h.Label)
		parts = append(parts, key+" "+label)
	}
	return strings.Join(parts, "    ")
}

// TabBar renders a horizontal tab bar.
//
//	┌───────┬────────┬───────┐
//	│ Forms │ Detail │ Types │
//	└───────┴────────┴───────┘
func TabBar(tabs []string, selected int, accent lipgloss.Color, s Styles) string {
	if len(tabs) == 0 {
		return ""
	}

	active := lipgloss.NewStyle().Foreground(accent).Bold(true)
	var top, mid, bot strings.Builder
	for i, tab := range tabs {
		w := lipgloss.Width(tab) + 2
		if w < 8 {
			w = 8
		}

		edge := "┬"
		bottom := "┴"
		if i == 0 {
			edge, bottom = "┌", "└"
		}
		top.WriteString(edge + strings.Repeat("─", w))
		bot.WriteString(bottom + strings.Repeat("─", w))

		mid.WriteString("│")
		content := padCenter(tab, w)
		if i == selected {
			mid.WriteString(active.Render(content))
		} else {
			mid.WriteString(s.Dim.Render(content))
		}
	}
	top.WriteString("┐")
	mid.WriteString("│")
	bot.WriteString("┘")

	return top.String() + "\n" + mid.String() + "\n" + bot.String()
}

// StatBar renders a filled bar for ratio in [0,1].
//
//	━━━━━━━━━━━━━━━━━━━━━━━━
func StatBar(ratio float64, width int, color lipgloss.Color, s Styles) string {
	if width < 1 {
		return ""
	}
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	filled := int(ratio*float64(width) + 0.5)
	return lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("━", filled)) +
		s.ProgressEmpty.Render(strings.Repeat("━", width-filled))
}

// Divider renders a horizontal divider line.
func Divider(width int, s Styles) string {
	if width < 1 {
		return ""
	}
	return s.Muted.Render(strings.Repeat("─", width))
}

// Helper functions

func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

func padCenter(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	left := (width - w) / 2
	right := width - w - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}

// truncateString truncates to max runes, adding "..." if truncated.
func truncateString(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
