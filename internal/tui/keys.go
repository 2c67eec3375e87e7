package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Search     key.Binding
	Categories key.Binding
	Types      key.Binding
	Focus      key.Binding
	Hours      key.Binding
	Inventory  key.Binding
	Add        key.Binding
	ClosePopup key.Binding
	ZoomIn     key.Binding
	ZoomOut    key.Binding
	Back       key.Binding
	Quit       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Categories: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "categories")),
		Types:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "types")),
		Focus:      key.NewBinding(key.WithKeys("enter", "f"), key.WithHelp("f", "show on map")),
		Hours:      key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "hours")),
		Inventory:  key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "items")),
		Add:        key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add item")),
		ClosePopup: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "close popup")),
		ZoomIn:     key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "zoom")),
		ZoomOut:    key.NewBinding(key.WithKeys("-")),
		Back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Categories, k.Types, k.Focus, k.Hours, k.Inventory, k.Add, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Search, k.Categories, k.Types},
		{k.Focus, k.Hours, k.Inventory, k.Add},
		{k.ClosePopup, k.ZoomIn, k.Back, k.Quit},
	}
}
