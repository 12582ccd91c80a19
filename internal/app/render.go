package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/tturner/dexterm/internal/catalog"
)

// Tabs lists the detail sections in display order.
var Tabs = []string{"forms", "detail", "types", "stats", "weak"}

// WeakPlaceholder is printed for the weak tab.
const WeakPlaceholder = "Type effectiveness information is not available."

// NoForms is printed under Forms when the entry lists none.
const NoForms = "No forms listed."

// ParseTab validates a --tab value. "all" and "" select every tab.
func ParseTab(s string) ([]string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "all" {
		return Tabs, nil
	}
	for _, t := range Tabs {
		if t == s {
			return []string{t}, nil
		}
	}
	return nil, fmt.Errorf("unknown tab %q (expected %s or all)", s, strings.Join(Tabs, ", "))
}

// RenderDetailText renders the chosen tabs as plain text.
func RenderDetailText(d catalog.Detail, tabs []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#%s %s  %s\n", catalog.Number(d.ID), catalog.DisplayName(d.Name), d.Color())
	for _, tab := range tabs {
		fmt.Fprintf(&b, "\n[%s]\n", catalog.DisplayName(tab))
		switch tab {
		case "forms":
			if len(d.Forms) == 0 {
				fmt.Fprintf(&b, "  %s\n", NoForms)
			}
			for _, f := range d.Forms {
				fmt.Fprintf(&b, "  %s\n", catalog.DisplayName(f.Name))
			}
		case "detail":
			fmt.Fprintf(&b, "  %-10s %s\n", "Height", catalog.FormatHeight(d.Height))
			fmt.Fprintf(&b, "  %-10s %s\n", "Weight", catalog.FormatWeight(d.Weight))
			fmt.Fprintf(&b, "  %-10s %s\n", "Abilities", catalog.FormatAbilities(d.Abilities))
		case "types":
			fmt.Fprintf(&b, "  %s\n", catalog.TypeLabel(d.Types))
		case "stats":
			for _, s := range d.Stats {
				fmt.Fprintf(&b, "  %-16s %3d  %s\n", catalog.StatLabel(s.Name), s.Base, textBar(s.Base, 30))
			}
		case "weak":
			fmt.Fprintf(&b, "  %s\n", WeakPlaceholder)
		}
	}
	return b.String()
}

func textBar(base, width int) string {
	filled := int(catalog.StatRatio(base)*float64(width) + 0.5)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// DetailMarkdown builds a markdown document for the chosen tabs.
func DetailMarkdown(d catalog.Detail, tabs []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s `#%s`\n", catalog.DisplayName(d.Name), catalog.Number(d.ID))
	for _, tab := range tabs {
		fmt.Fprintf(&b, "\n## %s\n\n", catalog.DisplayName(tab))
		switch tab {
		case "forms":
			if len(d.Forms) == 0 {
				fmt.Fprintf(&b, "%s\n", NoForms)
			}
			for _, f := range d.Forms {
				fmt.Fprintf(&b, "- %s\n", catalog.DisplayName(f.Name))
			}
		case "detail":
			b.WriteString("| Field | Value |\n|---|---|\n")
			fmt.Fprintf(&b, "| Height | %s |\n", catalog.FormatHeight(d.Height))
			fmt.Fprintf(&b, "| Weight | %s |\n", catalog.FormatWeight(d.Weight))
			fmt.Fprintf(&b, "| Abilities | %s |\n", catalog.FormatAbilities(d.Abilities))
		case "types":
			for _, t := range d.Types {
				fmt.Fprintf(&b, "- **%s** (%s)\n", catalog.DisplayName(t.Name), catalog.ColorFor(t.Name))
			}
		case "stats":
			b.WriteString("| Stat | Base |\n|---|---:|\n")
			for _, s := range d.Stats {
				fmt.Fprintf(&b, "| %s | %d |\n", catalog.StatLabel(s.Name), s.Base)
			}
		case "weak":
			fmt.Fprintf(&b, "_%s_\n", WeakPlaceholder)
		}
	}
	return b.String()
}

// RenderMarkdown renders md for the terminal. style is a glamour standard
// style name; "" picks one from the terminal background.
func RenderMarkdown(md, style string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}
