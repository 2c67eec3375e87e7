package model

import (
	"encoding/json"
	"sort"
	"strings"
)

// Item is one inventory entry of a store.
type Item struct {
	ID         int64   `json:"itemID"`
	Name       string  `json:"itemName"`
	Price      float64 `json:"price"` // euros
	StoreID    int64   `json:"storeID"`
	CategoryID int64   `json:"categoryID"`
}

// NewItem is the body of an item submission.
type NewItem struct {
	Name       string  `json:"itemName"`
	Price      float64 `json:"price"`
	StoreID    int64   `json:"storeID"`
	CategoryID int64   `json:"categoryID"`
}

// ItemMap is the service's item lookup, keyed by item id.
type ItemMap map[int64]Item

func (m *ItemMap) UnmarshalJSON(b []byte) error {
	raw := map[int64]Item{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	for id, it := range raw {
		if it.ID == 0 {
			it.ID = id
			raw[id] = it
		}
	}
	*m = raw
	return nil
}

// Sorted returns items ordered by name, then id.
func (m ItemMap) Sorted() []Item {
	out := make([]Item, 0, len(m))
	for _, it := range m {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if a != b {
			return a < b
		}
		return out[i].ID < out[j].ID
	})
	return out
}
