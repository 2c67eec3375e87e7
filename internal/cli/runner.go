package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/idilsaglam/storelocator/internal/api"
	"github.com/idilsaglam/storelocator/internal/client/httpc"
	"github.com/idilsaglam/storelocator/internal/client/transport"
	"github.com/idilsaglam/storelocator/internal/config"
	"github.com/idilsaglam/storelocator/internal/geo"
	"github.com/idilsaglam/storelocator/internal/location"
	"github.com/idilsaglam/storelocator/internal/logger"
	"github.com/idilsaglam/storelocator/internal/search"
	"github.com/idilsaglam/storelocator/internal/state"
	"github.com/idilsaglam/storelocator/internal/store/jsonstore"
	"github.com/idilsaglam/storelocator/internal/tui"
	"github.com/idilsaglam/storelocator/internal/ui"
)

// Options tune behavior from root flags. Service and Watcher replace the
// configured ones when set.
type Options struct {
	ConfigPath string
	Theme      string
	Stdout     io.Writer
	Stderr     io.Writer
	Service    api.Service
	Watcher    location.Watcher
}

type app struct {
	cfg     *config.Config
	log     *zap.SugaredLogger
	svc     api.Service
	watcher location.Watcher
	out     io.Writer
	errOut  io.Writer
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	if opt.Stdout == nil {
		opt.Stdout = os.Stdout
	}
	if opt.Stderr == nil {
		opt.Stderr = os.Stderr
	}
	if len(args) == 0 {
		PrintHelp(opt.Stderr)
		return 2
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(opt.Stdout)
		return 0
	case "browse", "stores", "search", "items", "categories", "types", "add-item":
	default:
		ui.Fail(opt.Stderr, "unknown subcommand: "+cmd)
		fmt.Fprintln(opt.Stderr)
		PrintHelp(opt.Stderr)
		return 2
	}

	ap, err := newApp(opt)
	if err != nil {
		ui.Fail(opt.Stderr, err.Error())
		return 1
	}
	defer func() { _ = ap.log.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(ap.cfg.API.TimeoutSeconds+5)*time.Second)
	defer cancel()

	switch cmd {
	case "browse":
		return ap.doBrowse()
	case "stores":
		return ap.doStores(ctx)
	case "search":
		return ap.doSearch(ctx, a)
	case "items":
		return ap.doItems(ctx, a)
	case "categories":
		return ap.doCategories(ctx)
	case "types":
		return ap.doTypes(ctx)
	default:
		return ap.doAddItem(ctx, a)
	}
}

func PrintHelp(w io.Writer) {
	fmt.Fprint(w, `storelocator - find Liberties shops and what they stock

Usage:
  storelocator [-config path] [-theme classic|neon|mono] <subcommand> [args]

Subcommands:
  browse                         Interactive browser with map and inventory
  stores                         List every store with its distance
  search <text...> [-category id]... [-type id]...
                                 Stores whose name or items match
  items <storeID> [-q text]      Items of one store
  categories                     List item categories
  types                          List store types
  add-item -store id -category id -name text -price euros
                                 Add an item to a store

Examples:
  storelocator search milk -category 2
  storelocator items 4 -q bread
  storelocator add-item -store 4 -category 2 -name "Oat milk" -price 2.40
`)
}

func newApp(opt Options) (*app, error) {
	path := opt.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	theme := cfg.UI.Theme
	if opt.Theme != "" {
		theme = opt.Theme
	}
	ui.SetTheme(theme)

	// stdout belongs to the output, so logs always go to the file
	log := logger.New(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, File: cfg.Log.File, Env: cfg.Env})

	svc := opt.Service
	if svc == nil {
		tr, err := transport.Build(transport.Options{
			HTTPClient:  httpc.New(time.Duration(cfg.API.TimeoutSeconds) * time.Second),
			Retries:     cfg.API.Retries,
			Concurrency: cfg.API.Concurrency,
			Logger:      log,
		})
		if err != nil {
			return nil, fmt.Errorf("transport: %w", err)
		}
		svc = api.New(tr, cfg.API.BaseURL, log)
	}

	w := opt.Watcher
	if w == nil {
		w, err = location.FromConfig(cfg.Location.Mode, cfg.Position())
		if err != nil {
			return nil, err
		}
	}

	return &app{cfg: cfg, log: log, svc: svc, watcher: w, out: opt.Stdout, errOut: opt.Stderr}, nil
}

// -------------- subcommand impls ----------------

func (a *app) doBrowse() int {
	err := tui.Run(tui.Options{
		Service:   a.svc,
		Watcher:   a.watcher,
		Session:   jsonstore.New(a.cfg.Session.Path),
		Log:       a.log,
		Center:    a.cfg.Map.Center,
		Zoom:      a.cfg.Map.Zoom,
		FocusZoom: a.cfg.Map.FocusZoom,
		Debounce:  time.Duration(a.cfg.Search.DebounceMS) * time.Millisecond,
	})
	if err != nil {
		ui.Fail(a.errOut, "browse: "+err.Error())
		return 1
	}
	return 0
}

func (a *app) doStores(ctx context.Context) int {
	all, err := a.svc.AllStores(ctx)
	if err != nil {
		a.fail("stores", err)
		return 1
	}
	st := a.locate(ctx, state.SetAllStores(a.newState(), all))

	lines := []string{a.header("Stores", len(all), st)}
	lines = append(lines, "")
	lines = append(lines, storeLines(state.VisibleStores(st), time.Now())...)
	ui.Panel(a.out, lines)
	return 0
}

func (a *app) doSearch(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	var cats, types idList
	fs.Var(&cats, "category", "category id (repeatable)")
	fs.Var(&types, "type", "type id (repeatable)")
	rest, err := parseInterspersed(fs, args)
	if err != nil {
		return 2
	}

	st := a.newState()
	st = state.SetQuery(st, strings.Join(rest, " "))
	st = state.SetFilters(st, search.Filters{
		Categories: search.NewFilterSet(cats...),
		Types:      search.NewFilterSet(types...),
	})

	st, q := state.BeginSearch(st, 1)
	byName, byItem, err := api.SearchBoth(ctx, a.svc, q)
	if err != nil {
		a.fail("search", err)
		return 1
	}
	st = a.locate(ctx, state.ApplySearch(st, 1, byName, byItem))

	title := "Results"
	if q.Text != "" {
		title = fmt.Sprintf("Results for %q", q.Text)
	}
	lines := []string{a.header(title, len(st.Results), st)}
	if frag := q.Fragment(); frag != "" {
		lines = append(lines, ui.Current().Muted.Render("filters: "+frag))
	}
	lines = append(lines, "")
	lines = append(lines, storeLines(state.VisibleStores(st), time.Now())...)
	ui.Panel(a.out, lines)
	if q.Text != "" {
		t := ui.Current()
		ui.Hint(a.out, t.SymNameMatch+" name match  "+t.SymItem+" stocks a matching item")
	}
	return 0
}

func (a *app) doItems(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("items", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	text := fs.String("q", "", "item name filter")
	var cats, types idList
	fs.Var(&cats, "category", "category id (repeatable)")
	fs.Var(&types, "type", "type id (repeatable)")
	rest, err := parseInterspersed(fs, args)
	if err != nil {
		return 2
	}
	if len(rest) != 1 {
		ui.Fail(a.errOut, "usage: storelocator items <storeID> [-q text]")
		return 2
	}
	storeID, err := strconv.ParseInt(rest[0], 10, 64)
	if err != nil || storeID <= 0 {
		ui.Fail(a.errOut, "items: not a store id: "+rest[0])
		return 2
	}

	f := search.Filters{Categories: search.NewFilterSet(cats...), Types: search.NewFilterSet(types...)}
	items, err := a.svc.Inventory(ctx, search.Build(*text, f), storeID)
	if err != nil {
		a.fail("items", err)
		return 1
	}
	cmap, err := a.svc.Categories(ctx)
	if err != nil {
		a.log.Warnw("load categories failed", "err", err)
	}

	t := ui.Current()
	lines := []string{fmt.Sprintf("%s  %d", t.Title.Render(fmt.Sprintf("Items of store %d", storeID)), len(items)), ""}
	if len(items) == 0 {
		lines = append(lines, t.Muted.Render("no matching items"))
	}
	for _, it := range items.Sorted() {
		line := fmt.Sprintf("%s %-28s €%6.2f", t.SymItem, ui.Truncate(it.Name, 28), it.Price)
		if c, ok := cmap[it.CategoryID]; ok {
			line += "  " + t.Muted.Render(strings.TrimSpace(c.Symbol+" "+c.Name))
		}
		lines = append(lines, line)
	}
	ui.Panel(a.out, lines)
	return 0
}

func (a *app) doCategories(ctx context.Context) int {
	cats, err := a.svc.Categories(ctx)
	if err != nil {
		a.fail("categories", err)
		return 1
	}
	var lines []string
	for _, c := range cats.Sorted() {
		lines = append(lines, fmt.Sprintf("%3d  %s %s", c.ID, c.Symbol, c.Name))
	}
	fmt.Fprintln(a.out, ui.Titled("Categories", lines))
	return 0
}

func (a *app) doTypes(ctx context.Context) int {
	types, err := a.svc.Types(ctx)
	if err != nil {
		a.fail("types", err)
		return 1
	}
	var lines []string
	for _, t := range types.Sorted() {
		lines = append(lines, fmt.Sprintf("%3d  %s %s", t.ID, t.Symbol, t.Name))
	}
	fmt.Fprintln(a.out, ui.Titled("Types", lines))
	return 0
}

func (a *app) doAddItem(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("add-item", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	name := fs.String("name", "", "item name")
	price := fs.String("price", "", "price in euros")
	storeID := fs.Int64("store", 0, "store id")
	catID := fs.Int64("category", 0, "category id")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	it, err := state.ValidateNewItem(state.ItemForm{Name: *name, Price: *price, StoreID: *storeID, CategoryID: *catID})
	if err != nil {
		ui.Fail(a.errOut, "add-item: "+err.Error())
		return 2
	}
	if err := a.svc.CreateItem(ctx, it); err != nil {
		ui.Fail(a.errOut, "add-item: "+state.RejectionText(err))
		return 1
	}
	ui.OK(a.out, fmt.Sprintf("added %q to store %d", it.Name, it.StoreID))
	return 0
}

// -------------- helpers --------------

func (a *app) newState() state.State {
	return state.New(a.cfg.Map.Center, a.cfg.Map.Zoom, a.cfg.Map.FocusZoom)
}

// locate applies the first position fix, waiting briefly. Without a fix
// distances are left out.
func (a *app) locate(ctx context.Context, st state.State) state.State {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	ch, err := a.watcher.Watch(ctx)
	if err != nil {
		a.log.Debugw("location unavailable", "err", err)
		return state.LocationUnavailable(st, err.Error())
	}
	select {
	case fix, ok := <-ch:
		if ok {
			return state.LocationFix(st, fix.Point)
		}
	case <-ctx.Done():
	}
	return state.LocationUnavailable(st, "no position fix")
}

func (a *app) header(title string, n int, st state.State) string {
	t := ui.Current()
	h := fmt.Sprintf("%s  %s %d", t.Title.Render(title), t.Accent.Render(t.SymStore), n)
	if st.ShowUserMarker() {
		h += "  " + t.Muted.Render("from "+st.Location.Point.String())
	}
	return h
}

func (a *app) fail(what string, err error) {
	a.log.Warnw(what+" failed", "err", err)
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		ui.Fail(a.errOut, fmt.Sprintf("%s: server answered %d (%s)", what, apiErr.Status, apiErr.Kind))
		return
	}
	ui.Fail(a.errOut, what+": "+err.Error())
}

func storeLines(views []state.StoreView, now time.Time) []string {
	t := ui.Current()
	if len(views) == 0 {
		return []string{t.Muted.Render("no stores")}
	}
	out := make([]string, 0, len(views))
	for _, v := range views {
		marks := "  "
		switch {
		case !v.ShowMatch:
		case v.Store.MatchedByName() && v.Store.MatchedByItem():
			marks = t.SymNameMatch + t.SymItem
		case v.Store.MatchedByName():
			marks = t.SymNameMatch + " "
		case v.Store.MatchedByItem():
			marks = t.SymItem + " "
		}
		dist := ""
		if v.HasDistance {
			dist = geo.FormatKm(v.DistanceKm)
		}
		open := t.Muted.Render("closed")
		if v.Store.Hours.OpenAt(now) {
			open = t.Success.Render("open")
		}
		out = append(out, fmt.Sprintf("%3d %s %-28s %8s  %s  %s",
			v.Store.ID, marks, ui.Truncate(v.Store.Name, 28), dist, open,
			t.Muted.Render(v.Store.JoinTypes())))
	}
	return out
}

// idList collects a repeatable integer flag.
type idList []int64

func (l *idList) String() string {
	parts := make([]string, len(*l))
	for i, id := range *l {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

func (l *idList) Set(s string) error {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("not an id: %q", s)
	}
	*l = append(*l, id)
	return nil
}

// parseInterspersed lets flags follow positional arguments.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var rest []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			return rest, nil
		}
		rest = append(rest, args[0])
		args = args[1:]
	}
}
