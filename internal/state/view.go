package state

import (
	"github.com/idilsaglam/storelocator/internal/geo"
	"github.com/idilsaglam/storelocator/internal/model"
)

// ToggleHours opens the hours panel of id, or closes it when it is already
// the open one. Only one panel is open at a time.
func ToggleHours(s State, id int64) State {
	if s.ExpandedHours == id {
		s.ExpandedHours = 0
	} else {
		s.ExpandedHours = id
	}
	return s
}

// FocusStore centers the camera on a store, raises the zoom to at least
// FocusZoom, opens its marker popup and asks the list to scroll to it.
// Unknown ids leave the state unchanged.
func FocusStore(s State, id int64) State {
	st, ok := s.Store(id)
	if !ok || !st.Coordinates().Valid() {
		return s
	}
	s.Camera.Center = st.Coordinates()
	s.Camera.Zoom = max(s.Camera.Zoom, s.FocusZoom)
	s.Popup = id
	s.ScrollTarget = id
	return s
}

func SetCamera(s State, c Camera) State {
	s.Camera = c
	return s
}

func ClosePopup(s State) State {
	s.Popup = 0
	return s
}

// ScrolledTo clears the scroll request once the list has followed it.
func ScrolledTo(s State) State {
	s.ScrollTarget = 0
	return s
}

// LocationFix records a position update.
func LocationFix(s State, p geo.Point) State {
	if !p.Valid() {
		return s
	}
	s.Location = Location{Status: LocationKnown, Point: p}
	return s
}

// LocationUnavailable hides the user marker and every distance. It is not
// an error for the user.
func LocationUnavailable(s State, reason string) State {
	s.Location = Location{Status: LocationOff, Reason: reason}
	return s
}

// ShowUserMarker reports whether the user's position can be drawn.
func (s State) ShowUserMarker() bool { return s.Location.Status == LocationKnown }

// DistanceTo returns the distance from the user to st in km. ok is false when
// the position is unknown.
func (s State) DistanceTo(st model.Store) (km float64, ok bool) {
	if s.Location.Status != LocationKnown {
		return 0, false
	}
	return geo.Distance(s.Location.Point, st.Coordinates()), true
}

// StoreView is one row of the result list.
type StoreView struct {
	Store       model.Store
	DistanceKm  float64
	HasDistance bool
	Inventory   Inventory
	HoursOpen   bool
	ShowMatch   bool // name and item markers apply
}

// VisibleStores returns the applied results in display order, or every store
// before the first search lands.
func VisibleStores(s State) []StoreView {
	src := s.Results
	if s.AppliedSeq == 0 {
		src = s.All
	}
	showMatch := s.AppliedSeq != 0 && s.AppliedText != ""
	sorted := src.Sorted()
	out := make([]StoreView, 0, len(sorted))
	for _, st := range sorted {
		v := StoreView{
			Store:     st,
			Inventory: s.InventoryOf(st.ID),
			HoursOpen: s.ExpandedHours == st.ID,
			ShowMatch: showMatch,
		}
		v.DistanceKm, v.HasDistance = s.DistanceTo(st)
		out = append(out, v)
	}
	return out
}
