// Package tui is the interactive store browser.
package tui

import (
	"context"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/idilsaglam/storelocator/internal/api"
	"github.com/idilsaglam/storelocator/internal/geo"
	"github.com/idilsaglam/storelocator/internal/location"
	"github.com/idilsaglam/storelocator/internal/logger"
	"github.com/idilsaglam/storelocator/internal/search"
	"github.com/idilsaglam/storelocator/internal/state"
	"github.com/idilsaglam/storelocator/internal/store/jsonstore"
)

type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeCategories
	modeTypes
	modeForm
)

type Options struct {
	Service   api.Service
	Watcher   location.Watcher
	Session   *jsonstore.Store
	Log       *zap.SugaredLogger
	Center    geo.Point
	Zoom      int
	FocusZoom int
	Debounce  time.Duration
	Now       func() time.Time
}

// Model is the bubbletea model. All view state lives in st and is only
// changed through the state reducers.
type Model struct {
	opts   Options
	ctx    context.Context
	cancel context.CancelFunc
	seq    *search.Sequencer
	log    *zap.SugaredLogger

	st      state.State
	initial jsonstore.Session
	pending search.Query
	typed   uint64 // keystroke generation, bumped on every edit and on enter

	mode    mode
	list    list.Model
	input   textinput.Model
	form    itemForm
	spinner spinner.Model
	help    help.Model
	keys    keyMap

	width, height int
}

// New builds the model, restores the saved session and prepares the first
// search. Init issues it.
func New(opts Options) Model {
	if opts.Log == nil {
		opts.Log = logger.Nop()
	}
	if opts.Watcher == nil {
		opts.Watcher = location.Unsupported{}
	}
	if opts.Debounce <= 0 {
		opts.Debounce = 300 * time.Millisecond
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Zoom <= 0 {
		opts.Zoom = 15
	}
	if opts.FocusZoom <= 0 {
		opts.FocusZoom = 18
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := Model{
		opts:   opts,
		ctx:    ctx,
		cancel: cancel,
		seq:    &search.Sequencer{},
		log:    opts.Log,
		st:     state.New(opts.Center, opts.Zoom, opts.FocusZoom),
		keys:   newKeyMap(),
		help:   help.New(),
		form:   newItemForm(),
	}

	if opts.Session != nil {
		sess, err := opts.Session.Load()
		if err != nil {
			m.log.Warnw("load session failed", "path", opts.Session.Path, "err", err)
		} else {
			m.initial = sess
			m.st = state.SetQuery(m.st, sess.Query)
			m.st = state.SetFilters(m.st, sess.Filters())
		}
	}

	m.input = textinput.New()
	m.input.Prompt = "Search: "
	m.input.Placeholder = "store or item"
	m.input.CharLimit = 100
	m.input.SetValue(m.st.Query)

	l := list.New(nil, storeDelegate{now: opts.Now}, 40, 20)
	l.Title = "Stores"
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	l.SetStatusBarItemName("store", "stores")
	m.list = l

	m.spinner = spinner.New(spinner.WithSpinner(spinner.Dot))

	m.st, m.pending = state.BeginSearch(m.st, m.seq.Next())
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadLookups(),
		m.loadAllStores(),
		m.runSearch(m.st.SearchSeq, m.pending),
		m.watchLocation(),
		m.spinner.Tick,
	)
}

// State exposes the current view state.
func (m Model) State() state.State { return m.st }

// Session is the query and filters to persist.
func (m Model) Session() jsonstore.Session {
	return jsonstore.FromFilters(m.st.Query, m.st.Filters)
}

func (m Model) sessionChanged() bool {
	return m.st.Query != m.initial.Query || !m.st.Filters.Equal(m.initial.Filters())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case lookupsMsg:
		if msg.err != nil {
			m.log.Warnw("load categories and types failed", "err", msg.err)
			return m, nil
		}
		m.st = state.SetLookups(m.st, msg.cats, msg.types)
		return m, nil

	case allStoresMsg:
		if msg.err != nil {
			m.log.Warnw("load stores failed", "err", msg.err)
			return m, nil
		}
		m.st = state.SetAllStores(m.st, msg.stores)
		m.refreshList()
		return m, nil

	case searchMsg:
		if m.st.Stale(msg.seq) {
			m.log.Debugw("stale search response dropped", "seq", msg.seq, "latest", m.st.SearchSeq)
			return m, nil
		}
		if msg.err != nil {
			m.log.Warnw("search failed", "seq", msg.seq, "query", m.st.Active.Text, "err", msg.err)
			m.st = state.SearchFailed(m.st, msg.seq)
			return m, nil
		}
		m.st = state.ApplySearch(m.st, msg.seq, msg.byName, msg.byItem)
		m.log.Debugw("search applied", "seq", msg.seq, "results", len(m.st.Results))
		m.refreshList()
		return m, nil

	case inventoryMsg:
		if msg.err != nil {
			m.log.Warnw("inventory fetch failed", "store_id", msg.storeID, "err", msg.err)
			m.st = state.InventoryFailed(m.st, msg.seq, msg.storeID)
		} else {
			m.st = state.ApplyInventory(m.st, msg.seq, msg.storeID, msg.items)
		}
		m.refreshList()
		return m, nil

	case debounceMsg:
		if msg.gen != m.typed {
			return m, nil
		}
		cmd := m.startSearch()
		return m, cmd

	case locationStartedMsg:
		return m, waitFix(msg.ch)

	case locationMsg:
		m.st = state.LocationFix(m.st, msg.fix.Point)
		m.refreshList()
		return m, waitFix(msg.ch)

	case locationClosedMsg:
		return m, nil

	case locationErrMsg:
		m.log.Infow("location unavailable", "err", msg.err)
		m.st = state.LocationUnavailable(m.st, msg.err.Error())
		m.refreshList()
		return m, nil

	case submitMsg:
		if msg.err != nil {
			m.st = state.ItemRejected(m.st, msg.err)
			return m, nil
		}
		m.st = state.ItemSubmitted(m.st, msg.item)
		m.mode = modeBrowse
		m.form.blur()
		m.refreshList()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.cancel()
		return m, tea.Quit
	}
	if m.st.Message.Visible() {
		switch msg.String() {
		case "esc", "enter", " ":
			m.st = state.DismissMessage(m.st)
			return m, nil
		}
	}

	switch m.mode {
	case modeSearch:
		return m.updateSearch(msg)
	case modeCategories, modeTypes:
		return m.updateFilter(msg)
	case modeForm:
		return m.updateForm(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		m.st = state.ShowDropdown(m.st)
		cmd := m.input.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Categories):
		m.mode = modeCategories
		return m, nil

	case key.Matches(msg, m.keys.Types):
		m.mode = modeTypes
		return m, nil

	case key.Matches(msg, m.keys.Focus):
		if id, ok := m.selectedID(); ok {
			m.st = state.FocusStore(m.st, id)
			m.followScroll()
		}
		return m, nil

	case key.Matches(msg, m.keys.Hours):
		if id, ok := m.selectedID(); ok {
			m.st = state.ToggleHours(m.st, id)
			m.refreshList()
		}
		return m, nil

	case key.Matches(msg, m.keys.Inventory):
		id, ok := m.selectedID()
		if !ok {
			return m, nil
		}
		var fetch bool
		m.st, fetch = state.ToggleInventory(m.st, id)
		m.refreshList()
		if fetch {
			return m, m.fetchInventory(m.st.SearchSeq, m.st.Active, id)
		}
		return m, nil

	case key.Matches(msg, m.keys.Add):
		if id, ok := m.selectedID(); ok {
			m.mode = modeForm
			cmd := m.form.open(id)
			return m, cmd
		}
		return m, nil

	case key.Matches(msg, m.keys.ClosePopup):
		m.st = state.ClosePopup(m.st)
		return m, nil

	case key.Matches(msg, m.keys.ZoomIn):
		cam := m.st.Camera
		cam.Zoom = min(cam.Zoom+1, maxZoom)
		m.st = state.SetCamera(m.st, cam)
		return m, nil

	case key.Matches(msg, m.keys.ZoomOut):
		cam := m.st.Camera
		cam.Zoom = max(cam.Zoom-1, minZoom)
		m.st = state.SetCamera(m.st, cam)
		return m, nil

	case key.Matches(msg, m.keys.Back):
		m.st = state.ClosePopup(state.HideDropdown(m.st))
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = modeBrowse
		m.input.Blur()
		m.typed++
		m.st = state.SetQuery(m.st, m.input.Value())
		cmd := m.startSearch()
		return m, cmd
	case "esc":
		m.mode = modeBrowse
		m.input.Blur()
		m.st = state.HideDropdown(m.st)
		return m, nil
	}

	prev := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != prev {
		m.typed++
		m.st = state.SetQuery(m.st, v)
		return m, tea.Batch(cmd, debounce(m.opts.Debounce, m.typed))
	}
	return m, cmd
}

// updateFilter toggles the n-th category or type with the digit keys.
// Every toggle issues a new search.
func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter", "c", "t":
		m.mode = modeBrowse
		return m, nil
	}

	n, err := strconv.Atoi(msg.String())
	if err != nil || n < 1 {
		return m, nil
	}
	if m.mode == modeCategories {
		cats := m.st.Categories.Sorted()
		if n > len(cats) {
			return m, nil
		}
		m.st = state.ToggleCategory(m.st, cats[n-1].ID)
	} else {
		types := m.st.Types.Sorted()
		if n > len(types) {
			return m, nil
		}
		m.st = state.ToggleType(m.st, types[n-1].ID)
	}
	cmd := m.startSearch()
	return m, cmd
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		m.form.blur()
		return m, nil
	case "tab", "down":
		cmd := m.form.move(1)
		return m, cmd
	case "shift+tab", "up":
		cmd := m.form.move(-1)
		return m, cmd
	case "enter":
		it, err := state.ValidateNewItem(m.form.values(m.categoryIDs()))
		if err != nil {
			m.st = state.SubmitInvalid(m.st, err)
			return m, nil
		}
		return m, m.submit(it)
	}
	cmd := m.form.update(msg)
	return m, cmd
}

func (m *Model) startSearch() tea.Cmd {
	var q search.Query
	m.st, q = state.BeginSearch(m.st, m.seq.Next())
	m.refreshList()
	return m.runSearch(m.st.SearchSeq, q)
}

// refreshList rebuilds the rows from state, keeping the selected store.
func (m *Model) refreshList() {
	views := state.VisibleStores(m.st)
	sel, hasSel := m.selectedID()

	items := make([]list.Item, len(views))
	idx := 0
	for i, v := range views {
		items[i] = storeItem{view: v}
		if hasSel && v.Store.ID == sel {
			idx = i
		}
	}
	m.list.SetItems(items)
	if len(items) > 0 {
		m.list.Select(idx)
	}
	m.followScroll()
}

// followScroll selects the store the state asked to scroll to.
func (m *Model) followScroll() {
	if m.st.ScrollTarget == 0 {
		return
	}
	for i, it := range m.list.Items() {
		if si, ok := it.(storeItem); ok && si.view.Store.ID == m.st.ScrollTarget {
			m.list.Select(i)
			break
		}
	}
	m.st = state.ScrolledTo(m.st)
}

func (m Model) selectedID() (int64, bool) {
	it, ok := m.list.SelectedItem().(storeItem)
	if !ok {
		return 0, false
	}
	return it.view.Store.ID, true
}

func (m Model) selectedView() (state.StoreView, bool) {
	it, ok := m.list.SelectedItem().(storeItem)
	return it.view, ok
}

func (m Model) categoryIDs() []int64 {
	cats := m.st.Categories.Sorted()
	ids := make([]int64, len(cats))
	for i, c := range cats {
		ids[i] = c.ID
	}
	return ids
}

func (m *Model) resize() {
	listWidth := max(m.width*2/5, 30)
	listHeight := max(m.height-12, 6)
	m.list.SetSize(listWidth, listHeight)
	m.help.Width = m.width
}

// Run starts the browser and saves the session on exit when it changed.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()
	m.cancel()
	if err != nil {
		return err
	}

	fm, ok := final.(Model)
	if !ok || opts.Session == nil || !fm.sessionChanged() {
		return nil
	}
	return opts.Session.Save(fm.Session())
}
