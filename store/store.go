// Package store persists picker state as JSON values under string keys.
//
// Three implementations share the Store interface: JSONFile keeps one JSON
// document on disk, SQLite keeps a key/value table, and Memory is for
// tests. The file backed stores honor save preferences: a key whose
// preference is false is silently not written.
package store

import (
	"encoding/json"
	"errors"
	"maps"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store: closed")

// PreferencesKey holds the save preferences. It is always written.
const PreferencesKey = "save_preferences"

// Store is a key/value persistence collaborator.
type Store interface {
	// Get decodes the value stored under key into dst. It reports false
	// when the key is absent.
	Get(key string, dst any) (bool, error)

	// Set stores value under key.
	Set(key string, value any) error

	// Close releases the store.
	Close() error
}

// DefaultPreferences returns the save preferences of a new store. Keys
// missing from the map are always saved.
func DefaultPreferences() map[string]bool {
	return map[string]bool{
		"last_selected_package":      true,
		"emoji_variation_filter":     false,
		"color_black":                false,
		"format_selection":           true,
		"package_size":               false,
		"category_button":            true,
		"subcategory_tab":            false,
		"emoji_size":                 false,
		"background_color":           true,
		"background_color_light":     true,
		"background_color_medium":    true,
		"background_color_dark":      true,
		"emoji_selection_color":      true,
		"category_subcategory_color": true,
		"theme":                      true,
	}
}

// gate decides which keys are written.
type gate struct {
	prefs map[string]bool
}

func newGate() gate { return gate{prefs: DefaultPreferences()} }

func (g gate) allowed(key string) bool {
	if key == PreferencesKey {
		return true
	}
	save, ok := g.prefs[key]
	return !ok || save
}

// merge applies stored preferences over the defaults.
func (g gate) merge(raw json.RawMessage) error {
	var stored map[string]bool
	if err := json.Unmarshal(raw, &stored); err != nil {
		return err
	}
	maps.Copy(g.prefs, stored)
	return nil
}

// Preferences returns a copy of the active save preferences.
func (g gate) Preferences() map[string]bool {
	return maps.Clone(g.prefs)
}

func decode(raw json.RawMessage, dst any) (bool, error) {
	if dst == nil {
		return true, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, err
	}
	return true, nil
}
