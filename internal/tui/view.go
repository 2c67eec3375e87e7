package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/storelocator/internal/state"
	"github.com/idilsaglam/storelocator/internal/ui"
)

func (m Model) View() string {
	header := lipgloss.JoinVertical(lipgloss.Left,
		m.headerLine(),
		m.input.View(),
		m.filterBar(),
	)

	right := lipgloss.JoinVertical(lipgloss.Left,
		ui.PanelString(m.detail()),
		ui.PanelString(renderMap(m.st)),
	)
	body := lipgloss.JoinHorizontal(lipgloss.Top, ui.PanelString([]string{m.list.View()}), right)

	parts := []string{header, body}
	if m.mode == modeForm {
		parts = append(parts, m.formView())
	}
	if m.st.Message.Visible() {
		parts = append(parts, m.messageView())
	}
	parts = append(parts, m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) headerLine() string {
	t := ui.Current()
	line := fmt.Sprintf("%s   %s %d",
		t.Title.Render("Liberties shops"),
		t.Accent.Render(t.SymStore), len(state.VisibleStores(m.st)),
	)
	if m.st.Searching {
		line += "  " + m.spinner.View() + t.Muted.Render(" searching")
	}
	switch m.st.Location.Status {
	case state.LocationKnown:
		line += "  " + t.Success.Render(t.SymUser+" "+m.st.Location.Point.String())
	case state.LocationOff:
		line += "  " + t.Muted.Render("location off")
	}
	return line
}

func (m Model) filterBar() string {
	t := ui.Current()

	cats := make([]string, 0, len(m.st.Categories))
	for i, c := range m.st.Categories.Sorted() {
		label := strings.TrimSpace(fmt.Sprintf("%d %s %s", i+1, c.Symbol, c.Name))
		cats = append(cats, ui.Box(m.st.Filters.Categories.Has(c.ID), label))
	}
	types := make([]string, 0, len(m.st.Types))
	for i, ty := range m.st.Types.Sorted() {
		label := strings.TrimSpace(fmt.Sprintf("%d %s %s", i+1, ty.Symbol, ty.Name))
		types = append(types, ui.Box(m.st.Filters.Types.Has(ty.ID), label))
	}

	catTitle, typeTitle := t.Muted.Render("Categories"), t.Muted.Render("Types")
	switch m.mode {
	case modeCategories:
		catTitle = t.Selected.Render("Categories")
	case modeTypes:
		typeTitle = t.Selected.Render("Types")
	}
	return catTitle + " " + strings.Join(cats, "  ") + "\n" + typeTitle + " " + strings.Join(types, "  ")
}

func (m Model) detail() []string {
	v, ok := m.selectedView()
	if !ok {
		if m.st.DropdownVisible {
			return []string{ui.Current().Muted.Render("no stores match")}
		}
		return []string{ui.Current().Muted.Render("no store selected")}
	}
	width := max(m.width-m.list.Width()-10, 30)
	return detailLines(v, m.st.Categories, m.opts.Now(), m.spinner.View(), width)
}

func (m Model) formView() string {
	t := ui.Current()
	title := "Add item"
	if st, ok := m.st.Store(m.form.storeID); ok {
		title += " to " + st.Name
	}
	lines := []string{t.Title.Render(title)}
	for _, f := range m.form.fields {
		lines = append(lines, f.View())
	}
	cats := m.st.Categories.Sorted()
	opts := make([]string, 0, len(cats))
	for i, c := range cats {
		opts = append(opts, fmt.Sprintf("%d %s", i+1, c.Name))
	}
	lines = append(lines, t.Muted.Render(strings.Join(opts, "  ")))
	lines = append(lines, t.Muted.Render("tab next field · enter submit · esc cancel"))
	return ui.PanelString(lines)
}

func (m Model) messageView() string {
	t := ui.Current()
	style := t.Success
	if m.st.Message.Kind == state.MessageError {
		style = t.Error
	}
	return ui.PanelString([]string{
		style.Render(m.st.Message.Text),
		t.Muted.Render("enter to dismiss"),
	})
}
