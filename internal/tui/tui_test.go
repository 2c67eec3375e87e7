package tui

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/storelocator/internal/api"
	"github.com/idilsaglam/storelocator/internal/geo"
	"github.com/idilsaglam/storelocator/internal/location"
	"github.com/idilsaglam/storelocator/internal/model"
	"github.com/idilsaglam/storelocator/internal/search"
	"github.com/idilsaglam/storelocator/internal/state"
	"github.com/idilsaglam/storelocator/internal/store/jsonstore"
)

var center = geo.Point{Lat: 53.3415, Long: -6.2777}

type fakeService struct {
	mu        sync.Mutex
	queries   []search.Query
	inventory model.ItemMap
	createErr error
	created   []model.NewItem
}

var fixtureStores = model.StoreMap{
	1: {ID: 1, Name: "Milk Bar", Latitude: 53.3420, Longitude: -6.2790},
	2: {ID: 2, Name: "Corner Shop", Latitude: 53.3400, Longitude: -6.2800},
}

func (f *fakeService) AllStores(context.Context) (model.StoreMap, error) {
	return fixtureStores, nil
}

func (f *fakeService) SearchByName(_ context.Context, q search.Query) (model.StoreMap, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.mu.Unlock()
	return model.StoreMap{1: fixtureStores[1]}, nil
}

func (f *fakeService) SearchByItem(context.Context, search.Query) (model.StoreMap, error) {
	return model.StoreMap{2: fixtureStores[2]}, nil
}

func (f *fakeService) Categories(context.Context) (model.CategoryMap, error) {
	return model.CategoryMap{4: {ID: 4, Name: "Dairy"}, 9: {ID: 9, Name: "Bakery"}}, nil
}

func (f *fakeService) Types(context.Context) (model.TypeMap, error) {
	return model.TypeMap{2: {ID: 2, Name: "Café"}}, nil
}

func (f *fakeService) Inventory(context.Context, search.Query, int64) (model.ItemMap, error) {
	return f.inventory, nil
}

func (f *fakeService) CreateItem(_ context.Context, it model.NewItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, it)
	return f.createErr
}

var _ api.Service = (*fakeService)(nil)

func newTestModel(t *testing.T, svc *fakeService, w location.Watcher) Model {
	t.Helper()
	m := New(Options{
		Service:  svc,
		Watcher:  w,
		Center:   center,
		Debounce: time.Millisecond,
		Now:      func() time.Time { return time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC) },
	})
	t.Cleanup(m.cancel)
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func keys(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// boot applies the initial loads the way Init would deliver them.
func boot(t *testing.T, m Model) Model {
	t.Helper()
	m, _ = update(t, m, m.loadLookups()())
	m, _ = update(t, m, m.loadAllStores()())
	m, _ = update(t, m, m.runSearch(m.st.SearchSeq, m.pending)())
	return m
}

func TestInitialSearchShowsMergedResults(t *testing.T) {
	svc := &fakeService{}
	m := boot(t, newTestModel(t, svc, location.Unsupported{}))

	st := m.State()
	assert.Len(t, st.Results, 2)
	assert.True(t, st.Results[1].StoreNameMatched)
	assert.False(t, st.Results[2].StoreNameMatched)
	assert.Len(t, m.list.Items(), 2)
	assert.Len(t, st.Categories, 2)
}

func TestStartupListHasNoMatchMarkers(t *testing.T) {
	m := boot(t, newTestModel(t, &fakeService{}, nil))
	require.Len(t, m.list.Items(), 2)
	for _, it := range m.list.Items() {
		si, ok := it.(storeItem)
		require.True(t, ok)
		assert.Empty(t, matchMarkers(si.view))
	}
}

func TestTypingDebouncesSearch(t *testing.T) {
	svc := &fakeService{}
	m := boot(t, newTestModel(t, svc, nil))

	m, _ = update(t, m, keys("/"))
	require.Equal(t, modeSearch, m.mode)
	m, _ = update(t, m, keys("m"))
	m, _ = update(t, m, keys("i"))
	assert.Equal(t, "mi", m.st.Query)

	seq := m.st.SearchSeq
	m, cmd := update(t, m, debounceMsg{gen: m.typed - 1})
	assert.Nil(t, cmd)
	assert.Equal(t, seq, m.st.SearchSeq)

	m, cmd = update(t, m, debounceMsg{gen: m.typed})
	require.NotNil(t, cmd)
	assert.Equal(t, seq+1, m.st.SearchSeq)
	assert.Equal(t, "mi", m.st.Active.Text)
}

func TestEnterCancelsPendingDebounce(t *testing.T) {
	svc := &fakeService{inventory: model.ItemMap{}}
	m := boot(t, newTestModel(t, svc, nil))

	m, _ = update(t, m, keys("/"))
	m, _ = update(t, m, keys("m"))
	tick := debounceMsg{gen: m.typed}

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	seq := m.st.SearchSeq

	id, ok := m.selectedID()
	require.True(t, ok)
	m, cmd = update(t, m, keys("i"))
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	require.Equal(t, state.Loaded, m.st.InventoryOf(id).Status)

	m, cmd = update(t, m, tick)
	assert.Nil(t, cmd)
	assert.Equal(t, seq, m.st.SearchSeq)
	assert.Equal(t, state.Loaded, m.st.InventoryOf(id).Status)
}

func TestStaleSearchDropped(t *testing.T) {
	svc := &fakeService{}
	m := boot(t, newTestModel(t, svc, nil))

	old := m.st.SearchSeq
	m.startSearch()
	m, _ = update(t, m, searchMsg{seq: old, byName: model.StoreMap{7: {ID: 7, Name: "Ghost"}}})
	assert.NotContains(t, m.st.Results, int64(7))

	m, _ = update(t, m, searchMsg{seq: m.st.SearchSeq, err: errors.New("offline")})
	assert.Len(t, m.st.Results, 2)
	assert.False(t, m.st.Searching)
	assert.False(t, m.st.Message.Visible())
}

func TestFilterToggleIssuesSearch(t *testing.T) {
	svc := &fakeService{}
	m := boot(t, newTestModel(t, svc, nil))

	m, _ = update(t, m, keys("c"))
	require.Equal(t, modeCategories, m.mode)
	seq := m.st.SearchSeq
	m, cmd := update(t, m, keys("1"))
	require.NotNil(t, cmd)
	assert.True(t, m.st.Filters.Categories.Has(4))
	assert.Equal(t, seq+1, m.st.SearchSeq)

	m, _ = update(t, m, cmd())
	svc.mu.Lock()
	last := svc.queries[len(svc.queries)-1]
	svc.mu.Unlock()
	assert.Equal(t, "categoryID=4", last.Fragment())

	m, _ = update(t, m, keys("1"))
	assert.False(t, m.st.Filters.Categories.Has(4))
}

func TestInventoryToggle(t *testing.T) {
	svc := &fakeService{inventory: model.ItemMap{}}
	m := boot(t, newTestModel(t, svc, nil))
	id, ok := m.selectedID()
	require.True(t, ok)

	m, cmd := update(t, m, keys("i"))
	require.NotNil(t, cmd)
	assert.Equal(t, state.Loading, m.st.InventoryOf(id).Status)

	m, _ = update(t, m, cmd())
	assert.Equal(t, state.Loaded, m.st.InventoryOf(id).Status)
	assert.Contains(t, m.View(), "no matching items")

	m, cmd = update(t, m, keys("i"))
	assert.Nil(t, cmd)
	assert.False(t, m.st.InventoryOf(id).Expanded())
}

func TestFocusStore(t *testing.T) {
	m := boot(t, newTestModel(t, &fakeService{}, nil))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	id, _ := m.selectedID()

	m, _ = update(t, m, keys("f"))
	st := m.State()
	assert.Equal(t, id, st.Popup)
	assert.Equal(t, 18, st.Camera.Zoom)
	assert.Equal(t, st.Results[id].Coordinates(), st.Camera.Center)
	assert.Zero(t, st.ScrollTarget)
	sel, _ := m.selectedID()
	assert.Equal(t, id, sel)
}

func TestLocation(t *testing.T) {
	feed := location.NewFeed()
	m := boot(t, newTestModel(t, &fakeService{}, feed))

	msg := m.watchLocation()()
	started, ok := msg.(locationStartedMsg)
	require.True(t, ok)
	m, cmd := update(t, m, started)

	feed.Push(center)
	m, _ = update(t, m, cmd())
	assert.True(t, m.st.ShowUserMarker())
	for _, v := range state.VisibleStores(m.st) {
		assert.True(t, v.HasDistance)
	}
}

func TestLocationDenied(t *testing.T) {
	m := boot(t, newTestModel(t, &fakeService{}, location.Denied{}))
	m, _ = update(t, m, m.watchLocation()())

	assert.False(t, m.st.ShowUserMarker())
	assert.False(t, m.st.Message.Visible())
	assert.Contains(t, m.View(), "location off")
	for _, v := range state.VisibleStores(m.st) {
		assert.False(t, v.HasDistance)
	}
}

func TestAddItemValidationAndSubmit(t *testing.T) {
	svc := &fakeService{}
	m := boot(t, newTestModel(t, svc, nil))

	m, _ = update(t, m, keys("a"))
	require.Equal(t, modeForm, m.mode)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, "Item name is required", m.st.Message.Text)
	assert.Empty(t, svc.created)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.st.Message.Visible())

	m, _ = update(t, m, keys("Oat milk"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = update(t, m, keys("2.40"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = update(t, m, keys("2"))
	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	m, _ = update(t, m, cmd())
	require.Len(t, svc.created, 1)
	assert.Equal(t, "Oat milk", svc.created[0].Name)
	assert.Equal(t, 2.4, svc.created[0].Price)
	assert.Equal(t, int64(9), svc.created[0].CategoryID)
	assert.Equal(t, state.MessageInfo, m.st.Message.Kind)
	assert.Equal(t, modeBrowse, m.mode)
}

func TestAddItemRejected(t *testing.T) {
	svc := &fakeService{createErr: api.ParseAPIError(429, nil)}
	m := boot(t, newTestModel(t, svc, nil))

	m, _ = update(t, m, keys("a"))
	m, _ = update(t, m, keys("tea"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = update(t, m, keys("1"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = update(t, m, keys("1"))
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())

	assert.Equal(t, "Too many requests, please try again later", m.st.Message.Text)
	assert.Equal(t, modeForm, m.mode)
}

func TestSessionRestoredAndChanged(t *testing.T) {
	store := jsonstore.New(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, store.Save(jsonstore.Session{Query: "milk", Categories: []int64{4}}))

	m := New(Options{Service: &fakeService{}, Session: store, Center: center})
	t.Cleanup(m.cancel)
	assert.Equal(t, "milk", m.st.Query)
	assert.Equal(t, "milk", m.pending.Text)
	assert.Equal(t, "categoryID=4", m.pending.Fragment())
	assert.False(t, m.sessionChanged())

	m.st = state.ToggleType(m.st, 2)
	assert.True(t, m.sessionChanged())
	assert.Equal(t, []int64{2}, m.Session().Types)
}

func TestProject(t *testing.T) {
	cam := state.Camera{Center: center, Zoom: 15}
	x, y, ok := project(cam, center, mapCols, mapRows)
	require.True(t, ok)
	assert.Equal(t, mapCols/2, x)
	assert.Equal(t, mapRows/2, y)

	ex, _, ok := project(cam, geo.Point{Lat: center.Lat, Long: center.Long + 0.005}, mapCols, mapRows)
	require.True(t, ok)
	assert.Greater(t, ex, x)

	_, ny, ok := project(cam, geo.Point{Lat: center.Lat + 0.001, Long: center.Long}, mapCols, mapRows)
	require.True(t, ok)
	assert.Less(t, ny, y)

	_, _, ok = project(cam, geo.Point{Lat: 0, Long: 0}, mapCols, mapRows)
	assert.False(t, ok)
}
