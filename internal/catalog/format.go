package catalog

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// StatMax is the ceiling used to scale stat bars.
const StatMax = 255

// Number zero-pads an id to three digits ("001"). Larger ids are unchanged.
func Number(id int) string {
	return fmt.Sprintf("%03d", id)
}

// DisplayName upper-cases the first letter of a lowercase API name.
func DisplayName(name string) string {
	if name == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r)) + name[size:]
}

// FormatHeight renders decimetres as metres with one decimal.
func FormatHeight(dm int) string {
	return fmt.Sprintf("%.1f m", float64(dm)/10)
}

// FormatWeight renders hectograms as kilograms with one decimal.
func FormatWeight(hg int) string {
	return fmt.Sprintf("%.1f kg", float64(hg)/10)
}

// FormatAbilities joins ability names for the detail tab, marking hidden ones.
func FormatAbilities(abilities []Ability) string {
	if len(abilities) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(abilities))
	for _, a := range abilities {
		label := DisplayName(a.Name)
		if a.Hidden {
			label += " (hidden)"
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, ", ")
}

// StatLabel turns "special-attack" into "Special attack".
func StatLabel(name string) string {
	return DisplayName(strings.Replace(name, "-", " ", 1))
}

// StatRatio returns base/StatMax clamped to [0,1].
func StatRatio(base int) float64 {
	switch {
	case base <= 0:
		return 0
	case base >= StatMax:
		return 1
	}
	return float64(base) / StatMax
}

// TypeLabel renders type names as "Grass / Poison".
func TypeLabel(types []TypeSlot) string {
	if len(types) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(types))
	for _, t := range types {
		parts = append(parts, DisplayName(t.Name))
	}
	return strings.Join(parts, " / ")
}
