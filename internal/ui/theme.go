package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles palette, symbols and box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Name string

	Title, Muted, Accent, Success, Error, Pending, Selected lipgloss.Style

	Border lipgloss.Border

	BoxUnchecked, BoxChecked string
	SymStore, SymUser        string
	SymNameMatch, SymItem    string
	SymOK, SymFail           string
}

var current = classic()

// SetTheme selects classic, neon or mono. Unknown names fall back to classic.
func SetTheme(name string) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "neon":
		current = Theme{
			Name:     "neon",
			Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
			Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
			Accent:   lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
			Success:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
			Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
			Pending:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
			Selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
			Border:   lipgloss.RoundedBorder(),

			BoxUnchecked: "◻", BoxChecked: "◼",
			SymStore: "◆", SymUser: "◉",
			SymNameMatch: "★", SymItem: "◇",
			SymOK: "✔", SymFail: "✖",
		}
	case "mono":
		plain := lipgloss.NewStyle()
		current = Theme{
			Name:  "mono",
			Title: plain.Bold(true), Muted: plain, Accent: plain,
			Success: plain, Error: plain, Pending: plain,
			Selected: plain.Reverse(true),
			Border:   lipgloss.ASCIIBorder(),

			BoxUnchecked: "[ ]", BoxChecked: "[x]",
			SymStore: "S", SymUser: "@",
			SymNameMatch: "*", SymItem: "-",
			SymOK: "ok", SymFail: "error:",
		}
	default:
		current = classic()
	}
}

func classic() Theme {
	return Theme{
		Name:     "classic",
		Title:    lipgloss.NewStyle().Bold(true),
		Muted:    lipgloss.NewStyle().Faint(true),
		Accent:   lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Success:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Pending:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Selected: lipgloss.NewStyle().Bold(true).Reverse(true),
		Border:   lipgloss.RoundedBorder(),

		BoxUnchecked: "☐", BoxChecked: "☑",
		SymStore: "●", SymUser: "◎",
		SymNameMatch: "★", SymItem: "•",
		SymOK: "✔", SymFail: "✖",
	}
}

// Current exposes what renderers need.
func Current() Theme { return current }
