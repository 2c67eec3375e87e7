// Package search builds search requests for the store service and merges
// their results into a single view model.
package search

import (
	"net/url"
	"strconv"
	"strings"
)

// Query is a normalized search request: the free text plus the filter
// parameters shared by every search endpoint.
type Query struct {
	Text    string
	Filters Filters
}

// Build lowercases and trims text and attaches the selected filters.
func Build(text string, f Filters) Query {
	return Query{
		Text:    strings.ToLower(strings.TrimSpace(text)),
		Filters: f,
	}
}

// FilterParams holds one categoryID per selected category and one typeID per
// selected type. How repeated parameters combine is up to the service.
func (q Query) FilterParams() url.Values {
	v := url.Values{}
	for _, id := range q.Filters.Categories.IDs() {
		v.Add("categoryID", strconv.FormatInt(id, 10))
	}
	for _, id := range q.Filters.Types.IDs() {
		v.Add("typeID", strconv.FormatInt(id, 10))
	}
	return v
}

// Fragment is the encoded filter parameter fragment.
func (q Query) Fragment() string { return q.FilterParams().Encode() }

// StoreNameParams are the parameters for "stores whose name matches".
func (q Query) StoreNameParams() url.Values {
	v := q.FilterParams()
	if q.Text != "" {
		v.Set("store", q.Text)
	}
	return v
}

// ItemParams are the parameters for "stores stocking a matching item".
func (q Query) ItemParams() url.Values {
	v := q.FilterParams()
	if q.Text != "" {
		v.Set("item", q.Text)
	}
	return v
}

// InventoryParams scope the item query to one store.
func (q Query) InventoryParams(storeID int64) url.Values {
	v := q.FilterParams()
	v.Set("storeID", strconv.FormatInt(storeID, 10))
	if q.Text != "" {
		v.Set("item", q.Text)
	}
	return v
}
