package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/storelocator/internal/api"
	"github.com/idilsaglam/storelocator/internal/location"
	"github.com/idilsaglam/storelocator/internal/model"
	"github.com/idilsaglam/storelocator/internal/search"
)

type lookupsMsg struct {
	cats  model.CategoryMap
	types model.TypeMap
	err   error
}

type allStoresMsg struct {
	stores model.StoreMap
	err    error
}

type searchMsg struct {
	seq            uint64
	byName, byItem model.StoreMap
	err            error
}

type inventoryMsg struct {
	seq     uint64
	storeID int64
	items   model.ItemMap
	err     error
}

// debounceMsg fires after a pause in typing. Only the tick of the latest
// keystroke may start a search.
type debounceMsg struct{ gen uint64 }

type locationStartedMsg struct{ ch <-chan location.Fix }

type locationMsg struct {
	fix location.Fix
	ch  <-chan location.Fix
}

type locationClosedMsg struct{}

type locationErrMsg struct{ err error }

type submitMsg struct {
	item model.NewItem
	err  error
}

func (m Model) loadLookups() tea.Cmd {
	svc, ctx := m.opts.Service, m.ctx
	return func() tea.Msg {
		cats, err := svc.Categories(ctx)
		if err != nil {
			return lookupsMsg{err: err}
		}
		types, err := svc.Types(ctx)
		return lookupsMsg{cats: cats, types: types, err: err}
	}
}

func (m Model) loadAllStores() tea.Cmd {
	svc, ctx := m.opts.Service, m.ctx
	return func() tea.Msg {
		stores, err := svc.AllStores(ctx)
		return allStoresMsg{stores: stores, err: err}
	}
}

func (m Model) runSearch(seq uint64, q search.Query) tea.Cmd {
	svc, ctx := m.opts.Service, m.ctx
	return func() tea.Msg {
		byName, byItem, err := api.SearchBoth(ctx, svc, q)
		return searchMsg{seq: seq, byName: byName, byItem: byItem, err: err}
	}
}

func (m Model) fetchInventory(seq uint64, q search.Query, storeID int64) tea.Cmd {
	svc, ctx := m.opts.Service, m.ctx
	return func() tea.Msg {
		items, err := svc.Inventory(ctx, q, storeID)
		return inventoryMsg{seq: seq, storeID: storeID, items: items, err: err}
	}
}

func (m Model) submit(it model.NewItem) tea.Cmd {
	svc, ctx := m.opts.Service, m.ctx
	return func() tea.Msg {
		return submitMsg{item: it, err: svc.CreateItem(ctx, it)}
	}
}

func (m Model) watchLocation() tea.Cmd {
	w, ctx := m.opts.Watcher, m.ctx
	return func() tea.Msg {
		ch, err := w.Watch(ctx)
		if err != nil {
			return locationErrMsg{err: err}
		}
		return locationStartedMsg{ch: ch}
	}
}

func waitFix(ch <-chan location.Fix) tea.Cmd {
	return func() tea.Msg {
		fix, ok := <-ch
		if !ok {
			return locationClosedMsg{}
		}
		return locationMsg{fix: fix, ch: ch}
	}
}

func debounce(d time.Duration, gen uint64) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return debounceMsg{gen: gen} })
}
