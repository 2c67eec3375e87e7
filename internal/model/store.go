// Package model defines the store-locator domain types as served by the
// search service.
package model

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/idilsaglam/storelocator/internal/geo"
)

// Store is a shop with location, hours and inventory.
type Store struct {
	ID          int64       `json:"storeID"`
	Name        string      `json:"storeName"`
	Description string      `json:"description"`
	Website     string      `json:"website"`
	Address     string      `json:"address"`
	Latitude    float64     `json:"latitude"`
	Longitude   float64     `json:"longitude"`
	PictureURL  string      `json:"pictureURL"`
	Hours       WeeklyHours `json:"hours"`
	Types       []Type      `json:"type"`

	// StoreNameMatched keeps the service's last-write-wins provenance tag.
	StoreNameMatched bool `json:"storeNameMatched"`
	// Provenance records every query that produced this store.
	Provenance Provenance `json:"-"`
}

// Provenance tells which search queries matched a store.
type Provenance struct {
	ByName bool
	ByItem bool
}

// MatchedByName reports whether the store name query returned the store,
// regardless of the order the results were merged in.
func (s Store) MatchedByName() bool { return s.Provenance.ByName }

// MatchedByItem reports whether the store stocks an item matching the query.
func (s Store) MatchedByItem() bool { return s.Provenance.ByItem }

// Coordinates returns the store position.
func (s Store) Coordinates() geo.Point {
	return geo.Point{Lat: s.Latitude, Long: s.Longitude}
}

// JoinTypes renders the store's type names separated by ", ".
func (s Store) JoinTypes() string {
	names := make([]string, 0, len(s.Types))
	for _, t := range s.Types {
		names = append(names, t.Name)
	}
	return strings.Join(names, ", ")
}

// Category groups items (e.g. "Groceries").
type Category struct {
	ID     int64  `json:"categoryID"`
	Name   string `json:"categoryName"`
	Symbol string `json:"categorySymbol"`
}

// Type classifies stores (e.g. "Café").
type Type struct {
	ID     int64  `json:"typeID"`
	Name   string `json:"typeName"`
	Symbol string `json:"typeSymbol"`
}

// StoreMap is a store result set keyed by store id.
type StoreMap map[int64]Store

func (m *StoreMap) UnmarshalJSON(b []byte) error {
	raw := map[int64]Store{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	for id, s := range raw {
		if s.ID == 0 {
			s.ID = id
			raw[id] = s
		}
	}
	*m = raw
	return nil
}

// Sorted returns the stores ordered by name, then id.
func (m StoreMap) Sorted() []Store {
	out := make([]Store, 0, len(m))
	for _, s := range m {
		out = append(out, s)
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

// CategoryMap is the category lookup keyed by id.
type CategoryMap map[int64]Category

func (m *CategoryMap) UnmarshalJSON(b []byte) error {
	raw := map[int64]Category{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	for id, c := range raw {
		if c.ID == 0 {
			c.ID = id
			raw[id] = c
		}
	}
	*m = raw
	return nil
}

// Sorted returns categories ordered by id.
func (m CategoryMap) Sorted() []Category {
	out := make([]Category, 0, len(m))
	for _, c := range m {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// TypeMap is the store type lookup keyed by id.
type TypeMap map[int64]Type

func (m *TypeMap) UnmarshalJSON(b []byte) error {
	raw := map[int64]Type{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	for id, t := range raw {
		if t.ID == 0 {
			t.ID = id
			raw[id] = t
		}
	}
	*m = raw
	return nil
}

// Sorted returns types ordered by id.
func (m TypeMap) Sorted() []Type {
	out := make([]Type, 0, len(m))
	for _, t := range m {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
