package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// PanelString frames lines with the current theme's border.
func PanelString(lines []string) string {
	t := Current()
	return lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

// Panel writes a framed box to w.
func Panel(w io.Writer, lines []string) {
	fmt.Fprintln(w, PanelString(lines))
}

// Titled frames body under a bold title line.
func Titled(title string, body []string) string {
	lines := append([]string{Current().Title.Render(title)}, body...)
	return PanelString(lines)
}

// Truncate shortens s to at most n runes, ending with "...".
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 3 || len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// Box renders a filter checkbox with its label.
func Box(checked bool, label string) string {
	t := Current()
	if checked {
		return t.Success.Render(t.BoxChecked) + " " + label
	}
	return t.Muted.Render(t.BoxUnchecked) + " " + label
}
