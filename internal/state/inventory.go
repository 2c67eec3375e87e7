package state

import (
	"github.com/idilsaglam/storelocator/internal/model"
)

type InventoryStatus int

const (
	NotLoaded InventoryStatus = iota
	Loading
	Loaded
)

func (st InventoryStatus) String() string {
	switch st {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	default:
		return "not_loaded"
	}
}

// Inventory is the expansion state of one store's item panel. A Loaded
// inventory with no items is open and shows that nothing matched.
type Inventory struct {
	Status InventoryStatus
	Items  model.ItemMap
}

// Expanded reports whether the panel is open.
func (inv Inventory) Expanded() bool { return inv.Status != NotLoaded }

// InventoryOf returns the panel state for storeID.
func (s State) InventoryOf(storeID int64) Inventory {
	return s.Inventory[storeID]
}

// ToggleInventory opens or closes a store's item panel. Opening a closed
// panel moves it to Loading and reports that a fetch must be issued with the
// Active query.
func ToggleInventory(s State, storeID int64) (State, bool) {
	switch s.Inventory[storeID].Status {
	case Loading, Loaded:
		return withInventory(s, storeID, Inventory{}), false
	default:
		return withInventory(s, storeID, Inventory{Status: Loading}), true
	}
}

// ApplyInventory stores a fetched item list. It is ignored when the panel was
// closed meanwhile or a newer search has started.
func ApplyInventory(s State, searchSeq uint64, storeID int64, items model.ItemMap) State {
	if searchSeq != s.SearchSeq || s.Inventory[storeID].Status != Loading {
		return s
	}
	if items == nil {
		items = model.ItemMap{}
	}
	return withInventory(s, storeID, Inventory{Status: Loaded, Items: items})
}

// InventoryFailed closes a panel whose fetch failed.
func InventoryFailed(s State, searchSeq uint64, storeID int64) State {
	if searchSeq != s.SearchSeq || s.Inventory[storeID].Status != Loading {
		return s
	}
	return withInventory(s, storeID, Inventory{})
}

func withInventory(s State, storeID int64, inv Inventory) State {
	next := make(map[int64]Inventory, len(s.Inventory)+1)
	for id, v := range s.Inventory {
		next[id] = v
	}
	if inv.Status == NotLoaded {
		delete(next, storeID)
	} else {
		next[storeID] = inv
	}
	s.Inventory = next
	return s
}
