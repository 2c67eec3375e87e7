package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const storesBody = `{
  "1": {"storeName": "Liberties Market", "address": "Thomas St", "latitude": 53.343, "longitude": -6.28,
        "type": [{"typeID": 2, "typeName": "Market"}, {"typeID": 5, "typeName": "Café"}],
        "hours": [[0,0],[9,17.5],[9,17.5],[9,17.5],[9,17.5],[9,20],[10,16]]},
  "7": {"storeID": 7, "storeName": "Bakery"}
}`

func TestStoreMapDecodeFillsIDs(t *testing.T) {
	var m StoreMap
	require.NoError(t, json.Unmarshal([]byte(storesBody), &m))
	require.Len(t, m, 2)
	assert.Equal(t, int64(1), m[1].ID)
	assert.Equal(t, int64(7), m[7].ID)
	assert.Equal(t, "Market, Café", m[1].JoinTypes())
	assert.Equal(t, 53.343, m[1].Coordinates().Lat)
	assert.True(t, m[1].Hours.Day(time.Sunday).Closed())
	assert.Equal(t, "09:00–17:30", m[1].Hours.Day(time.Monday).String())
}

func TestStoreMapSorted(t *testing.T) {
	m := StoreMap{
		3: {ID: 3, Name: "zeta"},
		1: {ID: 1, Name: "Alpha"},
		2: {ID: 2, Name: "alpha"},
	}
	got := m.Sorted()
	require.Len(t, got, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{got[0].ID, got[1].ID, got[2].ID})
}

func TestLookupMapsDecode(t *testing.T) {
	var cats CategoryMap
	require.NoError(t, json.Unmarshal([]byte(`{"4":{"categoryName":"Food","categorySymbol":"🍎"},"2":{"categoryName":"Books"}}`), &cats))
	assert.Equal(t, "Food", cats[4].Name)
	assert.Equal(t, int64(4), cats[4].ID)
	sorted := cats.Sorted()
	assert.Equal(t, int64(2), sorted[0].ID)

	var types TypeMap
	require.NoError(t, json.Unmarshal([]byte(`{"9":{"typeName":"Pharmacy","typeSymbol":"💊"}}`), &types))
	assert.Equal(t, int64(9), types[9].ID)
	assert.Equal(t, "💊", types.Sorted()[0].Symbol)

	var items ItemMap
	require.NoError(t, json.Unmarshal([]byte(`{"11":{"itemName":"milk","price":1.2,"storeID":1},"10":{"itemName":"Bread","price":2.5,"storeID":1}}`), &items))
	assert.Equal(t, int64(11), items[11].ID)
	sortedItems := items.Sorted()
	assert.Equal(t, "Bread", sortedItems[0].Name)
	assert.Equal(t, 1.2, sortedItems[1].Price)
}

func TestHours(t *testing.T) {
	h := Hours{9.5, 17.25}
	assert.Equal(t, "09:30–17:15", h.String())
	assert.True(t, h.Contains(9.5))
	assert.False(t, h.Contains(17.25))
	assert.Equal(t, "Closed", Hours{}.String())
	assert.False(t, Hours{}.Contains(0))

	late := Hours{20, 2}
	assert.True(t, late.Contains(23))
	assert.True(t, late.Contains(1))
	assert.False(t, late.Contains(12))
}

func TestWeeklyHoursOpenAt(t *testing.T) {
	var w WeeklyHours
	w[time.Friday] = Hours{9, 18}
	fri := time.Date(2026, 10, 16, 10, 30, 0, 0, time.UTC) // a Friday
	sat := fri.Add(24 * time.Hour)
	assert.True(t, w.OpenAt(fri))
	assert.False(t, w.OpenAt(sat))
	assert.False(t, w.OpenAt(fri.Add(8*time.Hour)))
}

func TestNewItemJSON(t *testing.T) {
	b, err := json.Marshal(NewItem{Name: "Soda", Price: 1.5, StoreID: 3, CategoryID: 2})
	require.NoError(t, err)
	assert.JSONEq(t, `{"itemName":"Soda","price":1.5,"storeID":3,"categoryID":2}`, string(b))
}
