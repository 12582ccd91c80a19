package tui

import (
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

// clipboardCopyMsg is sent after a clipboard copy operation.
type clipboardCopyMsg struct {
	success bool
	content string
	err     error
}

// ClipboardFunc writes text to the system clipboard.
type ClipboardFunc func(text string) error

var systemClipboard ClipboardFunc = clipboard.WriteAll

// copyToClipboard returns a tea.Cmd that sends a clipboardCopyMsg when
// the copy completes.
func copyToClipboard(write ClipboardFunc, text string) tea.Cmd {
	return func() tea.Msg {
		if clipboard.Unsupported && write == nil {
			return clipboardCopyMsg{content: text}
		}
		if write == nil {
			write = systemClipboard
		}
		if err := write(text); err != nil {
			return clipboardCopyMsg{content: text, err: err}
		}
		return clipboardCopyMsg{success: true, content: text}
	}
}
