package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"path/filepath"
	"slices"

	"github.com/spf13/afero"
)

// JSONFile stores every key in one JSON object, written back in full on
// each Set. Keys it does not know about are preserved.
type JSONFile struct {
	fs     afero.Fs
	path   string
	doc    map[string]json.RawMessage
	gate   gate
	closed bool
}

var _ Store = (*JSONFile)(nil)

// OpenJSON loads the document at path. A missing file starts an empty
// document; it is created on the first Set.
func OpenJSON(fsys afero.Fs, path string) (*JSONFile, error) {
	s := &JSONFile{fs: fsys, path: path, doc: make(map[string]json.RawMessage), gate: newGate()}
	data, err := afero.ReadFile(fsys, path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("store: read %s: %w", path, err)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.doc); err != nil {
			return nil, fmt.Errorf("store: parse %s: %w", path, err)
		}
	}
	if raw, ok := s.doc[PreferencesKey]; ok {
		if err := s.gate.merge(raw); err != nil {
			return nil, fmt.Errorf("store: %s: %w", PreferencesKey, err)
		}
	}
	return s, nil
}

// Get implements Store.
func (s *JSONFile) Get(key string, dst any) (bool, error) {
	if s.closed {
		return false, ErrClosed
	}
	raw, ok := s.doc[key]
	if !ok {
		return false, nil
	}
	return decode(raw, dst)
}

// Set implements Store. Keys whose save preference is false are dropped
// without error.
func (s *JSONFile) Set(key string, value any) error {
	if s.closed {
		return ErrClosed
	}
	if !s.gate.allowed(key) {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", key, err)
	}
	if key == PreferencesKey {
		if err := s.gate.merge(raw); err != nil {
			return fmt.Errorf("store: %s: %w", PreferencesKey, err)
		}
	}
	s.doc[key] = raw
	return s.flush()
}

// Keys returns the stored keys, sorted.
func (s *JSONFile) Keys() []string {
	return slices.Sorted(maps.Keys(s.doc))
}

// Preferences returns the active save preferences.
func (s *JSONFile) Preferences() map[string]bool { return s.gate.Preferences() }

// flush writes the document to a temporary file and renames it over path.
func (s *JSONFile) flush() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("store: %w", err)
		}
	}
	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("store: write: %w", err)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("store: write: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *JSONFile) Close() error {
	s.closed = true
	return nil
}
