package state

import (
	"strings"

	"github.com/idilsaglam/storelocator/internal/model"
	"github.com/idilsaglam/storelocator/internal/search"
)

// SetQuery records the search box text. It does not issue a search.
func SetQuery(s State, text string) State {
	s.Query = text
	return s
}

func ToggleCategory(s State, id int64) State {
	s.Filters = s.Filters.ToggleCategory(id)
	return s
}

func ToggleType(s State, id int64) State {
	s.Filters = s.Filters.ToggleType(id)
	return s
}

// SetFilters replaces the selection, e.g. when restoring a session.
func SetFilters(s State, f search.Filters) State {
	s.Filters = f
	return s
}

func ShowDropdown(s State) State {
	s.DropdownVisible = strings.TrimSpace(s.Query) != ""
	return s
}

func HideDropdown(s State) State {
	s.DropdownVisible = false
	return s
}

// BeginSearch marks seq as the latest issued search and returns the query to
// send. Every inventory panel collapses.
func BeginSearch(s State, seq uint64) (State, search.Query) {
	q := search.Build(s.Query, s.Filters)
	s.Active = q
	s.SearchSeq = seq
	s.Searching = true
	s.Inventory = map[int64]Inventory{}
	return s, q
}

// ApplySearch replaces the results with the merged name and item matches.
// Responses for any search but the latest issued one are dropped.
func ApplySearch(s State, seq uint64, byName, byItem model.StoreMap) State {
	if seq != s.SearchSeq {
		return s
	}
	s.Results = search.Merge(byName, byItem)
	s.AppliedSeq = seq
	s.AppliedText = s.Active.Text
	s.Searching = false
	s.DropdownVisible = s.Active.Text != ""
	return s
}

// SearchFailed ends the pending search. The previous results stay visible and
// no message is raised.
func SearchFailed(s State, seq uint64) State {
	if seq != s.SearchSeq {
		return s
	}
	s.Searching = false
	return s
}

// Stale reports whether a response for seq would be discarded.
func (s State) Stale(seq uint64) bool { return seq != s.SearchSeq }
