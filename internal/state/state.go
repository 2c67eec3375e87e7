// Package state holds the store locator view state and the reducers that
// advance it. Every reducer takes a State by value and returns the next one;
// maps inside a State are never mutated in place, so earlier states stay
// valid after a reducer runs.
package state

import (
	"github.com/idilsaglam/storelocator/internal/geo"
	"github.com/idilsaglam/storelocator/internal/model"
	"github.com/idilsaglam/storelocator/internal/search"
)

// Camera is the map viewport owned by the application. Renderers read it and
// never change it.
type Camera struct {
	Center geo.Point
	Zoom   int
}

type LocationStatus int

const (
	LocationPending LocationStatus = iota
	LocationKnown
	LocationOff
)

// Location is the last known user position.
type Location struct {
	Status LocationStatus
	Point  geo.Point
	Reason string
}

type MessageKind int

const (
	MessageNone MessageKind = iota
	MessageInfo
	MessageError
)

// Message is a dismissible popup shown to the user.
type Message struct {
	Kind MessageKind
	Text string
}

func (m Message) Visible() bool { return m.Kind != MessageNone }

type State struct {
	Query   string
	Filters search.Filters

	// Active is the query the latest issued search was built from. Inventory
	// fetches reuse it so panels agree with the visible results.
	Active     search.Query
	Results    model.StoreMap
	All        model.StoreMap
	SearchSeq  uint64
	AppliedSeq uint64
	Searching  bool

	// AppliedText is the search text behind Results. Match markers only
	// mean something when it is non-empty.
	AppliedText string

	DropdownVisible bool

	Inventory  map[int64]Inventory
	Categories model.CategoryMap
	Types      model.TypeMap

	ExpandedHours int64
	Camera        Camera
	FocusZoom     int
	Popup         int64
	ScrollTarget  int64

	Location Location
	Message  Message
}

// New returns the initial state with the map at center.
func New(center geo.Point, zoom, focusZoom int) State {
	return State{
		Camera:    Camera{Center: center, Zoom: zoom},
		FocusZoom: focusZoom,
		Results:   model.StoreMap{},
		All:       model.StoreMap{},
		Inventory: map[int64]Inventory{},
	}
}

// SetLookups installs the category and type tables.
func SetLookups(s State, cats model.CategoryMap, types model.TypeMap) State {
	s.Categories = cats
	s.Types = types
	return s
}

// SetAllStores installs the full store list used for map markers.
func SetAllStores(s State, all model.StoreMap) State {
	s.All = all
	return s
}

// Store finds id among the results, then among all stores.
func (s State) Store(id int64) (model.Store, bool) {
	if st, ok := s.Results[id]; ok {
		return st, true
	}
	st, ok := s.All[id]
	return st, ok
}
