package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/idilsaglam/storelocator/internal/geo"
	"github.com/idilsaglam/storelocator/internal/model"
	"github.com/idilsaglam/storelocator/internal/state"
	"github.com/idilsaglam/storelocator/internal/ui"
)

var weekOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// detailLines describes one store: contact, hours and inventory panels.
func detailLines(v state.StoreView, cats model.CategoryMap, now time.Time, spin string, width int) []string {
	t := ui.Current()
	st := v.Store

	lines := []string{t.Title.Render(st.Name)}
	if st.Description != "" {
		lines = append(lines, ui.Truncate(st.Description, width))
	}
	if st.Address != "" {
		lines = append(lines, t.Muted.Render(st.Address))
	}
	if st.Website != "" {
		lines = append(lines, t.Accent.Render(st.Website))
	}
	if types := st.JoinTypes(); types != "" {
		lines = append(lines, t.Muted.Render("Type: ")+types)
	}
	if v.HasDistance {
		lines = append(lines, t.Muted.Render("Distance: ")+geo.FormatKm(v.DistanceKm))
	}

	lines = append(lines, "")
	today := st.Hours.Day(now.Weekday())
	lines = append(lines, t.Muted.Render("Today: ")+today.String())
	if v.HoursOpen {
		for _, wd := range weekOrder {
			label := fmt.Sprintf("  %-4s", wd.String()[:3])
			h := st.Hours.Day(wd)
			if wd == now.Weekday() {
				lines = append(lines, t.Accent.Render(label)+h.String())
			} else {
				lines = append(lines, t.Muted.Render(label)+h.String())
			}
		}
	}

	lines = append(lines, "")
	lines = append(lines, inventoryLines(v.Inventory, cats, spin)...)
	return lines
}

func inventoryLines(inv state.Inventory, cats model.CategoryMap, spin string) []string {
	t := ui.Current()
	switch inv.Status {
	case state.Loading:
		return []string{spin + " loading items"}
	case state.Loaded:
		if len(inv.Items) == 0 {
			return []string{t.Muted.Render("no matching items")}
		}
		out := []string{t.Title.Render("Items")}
		for _, it := range inv.Items.Sorted() {
			line := fmt.Sprintf("%s %s  €%.2f", t.SymItem, it.Name, it.Price)
			if c, ok := cats[it.CategoryID]; ok {
				line += "  " + t.Muted.Render(strings.TrimSpace(c.Symbol+" "+c.Name))
			}
			out = append(out, line)
		}
		return out
	default:
		return []string{t.Muted.Render("press i to list items")}
	}
}
