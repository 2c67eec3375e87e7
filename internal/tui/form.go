package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/storelocator/internal/state"
)

const (
	fieldName = iota
	fieldPrice
	fieldCategory
	fieldCount
)

// itemForm is the inline add-item form for the selected store.
type itemForm struct {
	storeID int64
	fields  [fieldCount]textinput.Model
	focus   int
}

func newItemForm() itemForm {
	var f itemForm
	placeholders := [fieldCount]string{"Item name", "Price in euros, e.g. 2.50", "Category number"}
	prompts := [fieldCount]string{"Name:     ", "Price:    ", "Category: "}
	for i := range f.fields {
		ti := textinput.New()
		ti.Prompt = prompts[i]
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 80
		f.fields[i] = ti
	}
	f.fields[fieldPrice].CharLimit = 12
	f.fields[fieldCategory].CharLimit = 6
	return f
}

func (f *itemForm) open(storeID int64) tea.Cmd {
	f.storeID = storeID
	for i := range f.fields {
		f.fields[i].SetValue("")
	}
	f.focus = fieldName
	return f.focusField()
}

func (f *itemForm) move(delta int) tea.Cmd {
	f.focus = (f.focus + delta + fieldCount) % fieldCount
	return f.focusField()
}

func (f *itemForm) focusField() tea.Cmd {
	var cmd tea.Cmd
	for i := range f.fields {
		if i == f.focus {
			cmd = f.fields[i].Focus()
		} else {
			f.fields[i].Blur()
		}
	}
	return cmd
}

func (f *itemForm) blur() {
	for i := range f.fields {
		f.fields[i].Blur()
	}
}

func (f *itemForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.fields[f.focus], cmd = f.fields[f.focus].Update(msg)
	return cmd
}

// values maps the category number shown in the filter bar to its id.
func (f itemForm) values(cats []int64) state.ItemForm {
	var catID int64
	if n, err := strconv.Atoi(strings.TrimSpace(f.fields[fieldCategory].Value())); err == nil && n >= 1 && n <= len(cats) {
		catID = cats[n-1]
	}
	return state.ItemForm{
		Name:       f.fields[fieldName].Value(),
		Price:      f.fields[fieldPrice].Value(),
		StoreID:    f.storeID,
		CategoryID: catID,
	}
}
