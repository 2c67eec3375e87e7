package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/idilsaglam/storelocator/internal/geo"
	"github.com/idilsaglam/storelocator/internal/state"
	"github.com/idilsaglam/storelocator/internal/ui"
)

const (
	mapCols = 36
	mapRows = 11
	minZoom = 1
	maxZoom = 19
)

// cellDegrees is the longitude span of one map column at zoom. A row spans
// half as much latitude since terminal cells are about twice as tall as wide.
func cellDegrees(zoom int) float64 {
	return 360 / math.Pow(2, float64(zoom)) / 8
}

// project places p on a cols x rows grid centered on the camera.
func project(c state.Camera, p geo.Point, cols, rows int) (x, y int, ok bool) {
	deg := cellDegrees(c.Zoom)
	dx := (p.Long - c.Center.Long) / deg
	dy := (c.Center.Lat - p.Lat) / (deg / 2)
	if math.IsNaN(dx) || math.IsNaN(dy) {
		return 0, 0, false
	}
	x = cols/2 + int(math.Round(dx))
	y = rows/2 + int(math.Round(dy))
	return x, y, x >= 0 && x < cols && y >= 0 && y < rows
}

// renderMap draws the camera view: every store, the results highlighted, the
// popup store selected and the user marker when the position is known.
func renderMap(s state.State) []string {
	t := ui.Current()
	grid := make([][]string, mapRows)
	for y := range grid {
		grid[y] = make([]string, mapCols)
		for x := range grid[y] {
			grid[y][x] = t.Muted.Render("·")
		}
	}

	plot := func(p geo.Point, glyph string) {
		if x, y, ok := project(s.Camera, p, mapCols, mapRows); ok {
			grid[y][x] = glyph
		}
	}

	for _, st := range s.All.Sorted() {
		plot(st.Coordinates(), t.Muted.Render(t.SymStore))
	}
	for _, st := range s.Results.Sorted() {
		plot(st.Coordinates(), t.Accent.Render(t.SymStore))
	}
	if s.ShowUserMarker() {
		plot(s.Location.Point, t.Success.Render(t.SymUser))
	}
	if st, ok := s.Store(s.Popup); ok && s.Popup != 0 {
		plot(st.Coordinates(), t.Selected.Render(t.SymStore))
	}

	lines := make([]string, 0, mapRows+2)
	for _, row := range grid {
		lines = append(lines, strings.Join(row, ""))
	}
	lines = append(lines, t.Muted.Render(fmt.Sprintf("%s  zoom %d", s.Camera.Center, s.Camera.Zoom)))
	if st, ok := s.Store(s.Popup); ok && s.Popup != 0 {
		popup := t.Title.Render(st.Name)
		if st.Address != "" {
			popup += t.Muted.Render(": " + ui.Truncate(st.Address, mapCols))
		}
		lines = append(lines, popup)
	}
	return lines
}
