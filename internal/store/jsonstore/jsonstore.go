// Package jsonstore keeps the last browse session (query and filters) in a
// single human-readable JSON file.
package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/idilsaglam/storelocator/internal/search"
)

// Session is what the browser restores on start.
type Session struct {
	Query      string  `json:"query"`
	Categories []int64 `json:"categories"`
	Types      []int64 `json:"types"`
}

// FromFilters captures a query and filter selection.
func FromFilters(query string, f search.Filters) Session {
	return Session{
		Query:      query,
		Categories: f.Categories.IDs(),
		Types:      f.Types.IDs(),
	}
}

// Filters rebuilds the filter selection.
func (s Session) Filters() search.Filters {
	return search.Filters{
		Categories: search.NewFilterSet(s.Categories...),
		Types:      search.NewFilterSet(s.Types...),
	}
}

// Store reads and writes one session file. No locking; one user, one process.
type Store struct {
	Path string
}

func New(path string) *Store { return &Store{Path: path} }

// Load returns an empty session when the file does not exist yet.
func (s *Store) Load() (Session, error) {
	b, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Session{}, nil
		}
		return Session{}, fmt.Errorf("read file: %w", err)
	}
	var out Session
	if err := json.Unmarshal(b, &out); err != nil {
		return Session{}, fmt.Errorf("json unmarshal: %w", err)
	}
	return out, nil
}

// Save replaces the file atomically.
func (s *Store) Save(sess Session) error {
	b, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*.json")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
