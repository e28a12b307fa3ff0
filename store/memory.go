package store

import (
	"encoding/json"
	"fmt"
)

// Memory is an in-process Store. It ignores save preferences.
type Memory struct {
	data   map[string]json.RawMessage
	closed bool
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty Memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]json.RawMessage)}
}

// Get implements Store.
func (m *Memory) Get(key string, dst any) (bool, error) {
	if m.closed {
		return false, ErrClosed
	}
	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return decode(raw, dst)
}

// Set implements Store. Values are encoded so later changes to value do not
// leak into the store.
func (m *Memory) Set(key string, value any) error {
	if m.closed {
		return ErrClosed
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", key, err)
	}
	m.data[key] = raw
	return nil
}

// Len returns the number of stored keys.
func (m *Memory) Len() int { return len(m.data) }

// Close implements Store.
func (m *Memory) Close() error {
	m.closed = true
	return nil
}
