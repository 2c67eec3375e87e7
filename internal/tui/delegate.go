package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/storelocator/internal/geo"
	"github.com/idilsaglam/storelocator/internal/state"
	"github.com/idilsaglam/storelocator/internal/ui"
)

// storeItem adapts a result row to bubbles/list.
type storeItem struct {
	view state.StoreView
}

func (i storeItem) FilterValue() string { return i.view.Store.Name }

// storeDelegate renders two lines per store: name with match markers and
// distance, then types and today's opening state.
type storeDelegate struct {
	now func() time.Time
}

func (d storeDelegate) Height() int                             { return 2 }
func (d storeDelegate) Spacing() int                            { return 0 }
func (d storeDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d storeDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(storeItem)
	if !ok {
		return
	}
	t := ui.Current()
	v := it.view

	name := ui.Truncate(v.Store.Name, max(m.Width()-16, 12))
	prefix := "  "
	if index == m.Index() {
		prefix = t.Selected.Render(">") + " "
		name = t.Title.Render(name)
	}

	line := prefix + name + matchMarkers(v)
	if v.HasDistance {
		line += "  " + t.Accent.Render(geo.FormatKm(v.DistanceKm))
	}

	sub := v.Store.JoinTypes()
	if v.Store.Hours.OpenAt(d.now()) {
		sub = strings.TrimSpace(sub + "  " + t.Success.Render("open"))
	} else {
		sub = strings.TrimSpace(sub + "  " + t.Muted.Render("closed"))
	}
	fmt.Fprintf(w, "%s\n    %s", line, t.Muted.Render(sub))
}

func matchMarkers(v state.StoreView) string {
	if !v.ShowMatch {
		return ""
	}
	t := ui.Current()
	var b strings.Builder
	if v.Store.MatchedByName() {
		b.WriteString(" " + t.Pending.Render(t.SymNameMatch))
	}
	if v.Store.MatchedByItem() {
		b.WriteString(" " + t.Accent.Render(t.SymItem))
	}
	return b.String()
}
