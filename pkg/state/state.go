// Package state persists the picker position between runs.
package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// State is what a host restores at startup.
type State struct {
	NormalizedOffset float64   `json:"normalized_offset"` // offset against geometry.ReferenceWidth
	UseMetricSystem  *bool     `json:"use_metric_system,omitempty"`
	LastLabel        string    `json:"last_label,omitempty"` // for humans reading the file
	SavedAt          time.Time `json:"saved_at"`
}

// Manager handles saving/loading of the picker state.
// Uses a mutex so the UI loop and the shutdown path can both save.
type Manager struct {
	mu     sync.Mutex
	path   string
	state  *State
	loaded bool
	dirty  bool
}

// DefaultPath returns the path to the state file.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "dp", "state.json")
}

// NewManager returns a manager for path. An empty path disables persistence.
func NewManager(path string) *Manager {
	return &Manager{
		path:  path,
		state: &State{},
	}
}

// Path returns the state file path.
func (m *Manager) Path() string {
	return m.path
}

// Load reads the state from disk.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.path == "" {
		return nil // Can't determine path, start fresh
	}

	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			m.state = &State{}
			m.loaded = false
			return nil
		}
		return err
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		// Invalid JSON, start fresh
		m.state = &State{}
		m.loaded = false
		return err
	}

	m.state = &s
	m.loaded = true
	m.dirty = false
	return nil
}

// Save writes the state to disk if it changed.
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.dirty || m.path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return err
	}

	m.state.SavedAt = time.Now()

	data, err := json.MarshalIndent(m.state, "", "  ")
	if err != nil {
		return err
	}

	// Write atomically via temp file
	tmpPath := m.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, m.path); err != nil {
		os.Remove(tmpPath)
		return err
	}

	m.dirty = false
	m.loaded = true
	return nil
}

// Update records the current position. useMetric is the unit system the
// user chose explicitly, nil when the configured one applies.
func (m *Manager) Update(normalizedOffset float64, useMetric *bool, label string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.state
	if s.NormalizedOffset == normalizedOffset && s.LastLabel == label &&
		sameUnits(s.UseMetricSystem, useMetric) {
		return
	}
	s.NormalizedOffset = normalizedOffset
	s.UseMetricSystem = nil
	if useMetric != nil {
		v := *useMetric
		s.UseMetricSystem = &v
	}
	s.LastLabel = label
	m.dirty = true
}

func sameUnits(a, b *bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Get returns a copy of the state and whether one was loaded or saved.
func (m *Manager) Get() (State, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := *m.state
	if m.state.UseMetricSystem != nil {
		v := *m.state.UseMetricSystem
		s.UseMetricSystem = &v
	}
	return s, m.loaded
}

// Reset clears the state.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = &State{}
	m.dirty = true
}

// IsDirty returns whether there are unsaved changes.
func (m *Manager) IsDirty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dirty
}
