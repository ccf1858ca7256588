// Package prefs persists per-user window state as JSON. Engine
// settings live in the TOML config instead.
package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const prefsFile = "preferences.json"

// Prefs is the window state restored across sessions. All UI access is
// on the Fyne event thread; no locking needed.
type Prefs struct {
	WindowWidth   float64 `json:"window_width,omitempty"`
	WindowHeight  float64 `json:"window_height,omitempty"`
	LastDirectory string  `json:"last_directory,omitempty"`
	LastProject   string  `json:"last_project,omitempty"`

	path string
}

// Load reads preferences from ~/.config/sld-editor/preferences.json.
// Returns zero-valued Prefs if the file doesn't exist.
func Load() *Prefs {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return loadFrom(filepath.Join(configDir, "sld-editor", prefsFile))
}

func loadFrom(path string) *Prefs {
	p := &Prefs{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		return p
	}
	_ = json.Unmarshal(data, p)
	return p
}

// Save writes preferences to disk.
func (p *Prefs) Save() error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p.path, data, 0o644)
}
