package search

import "sort"

// FilterSet is a set of selected category or type ids. The zero value is an
// empty set ready to use; Toggle returns a new set and never mutates the
// receiver, so it is safe to share between states.
type FilterSet struct {
	ids map[int64]struct{}
}

// NewFilterSet builds a set holding ids.
func NewFilterSet(ids ...int64) FilterSet {
	fs := FilterSet{ids: make(map[int64]struct{}, len(ids))}
	for _, id := range ids {
		fs.ids[id] = struct{}{}
	}
	return fs
}

// Toggle removes id when present and adds it otherwise.
func (f FilterSet) Toggle(id int64) FilterSet {
	out := f.Clone()
	if _, ok := out.ids[id]; ok {
		delete(out.ids, id)
	} else {
		out.ids[id] = struct{}{}
	}
	return out
}

func (f FilterSet) Has(id int64) bool {
	_, ok := f.ids[id]
	return ok
}

func (f FilterSet) Len() int { return len(f.ids) }

// IDs returns the members in ascending order.
func (f FilterSet) IDs() []int64 {
	out := make([]int64, 0, len(f.ids))
	for id := range f.ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (f FilterSet) Clone() FilterSet {
	out := FilterSet{ids: make(map[int64]struct{}, len(f.ids))}
	for id := range f.ids {
		out.ids[id] = struct{}{}
	}
	return out
}

// Equal reports whether both sets hold the same ids.
func (f FilterSet) Equal(o FilterSet) bool {
	if len(f.ids) != len(o.ids) {
		return false
	}
	for id := range f.ids {
		if _, ok := o.ids[id]; !ok {
			return false
		}
	}
	return true
}

// Filters is the category and type selection.
type Filters struct {
	Categories FilterSet
	Types      FilterSet
}

func (f Filters) ToggleCategory(id int64) Filters {
	f.Categories = f.Categories.Toggle(id)
	return f
}

func (f Filters) ToggleType(id int64) Filters {
	f.Types = f.Types.Toggle(id)
	return f
}

func (f Filters) Equal(o Filters) bool {
	return f.Categories.Equal(o.Categories) && f.Types.Equal(o.Types)
}

// Empty reports whether nothing is selected.
func (f Filters) Empty() bool { return f.Categories.Len() == 0 && f.Types.Len() == 0 }
