package client

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Prefs is the client-local preference record, persisted between
// runs. All reads and writes go through this one accessor so no two
// components disagree about the current appearance state.
type Prefs struct {
	DarkMode bool   `json:"darkMode"`
	Token    string `json:"token,omitempty"`

	path string
}

// LoadPrefs reads the persisted preferences, or returns defaults when
// the file does not exist yet. path="" uses the user config dir.
func LoadPrefs(path string) (*Prefs, error) {
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "student-task-manager", "prefs.json")
	}
	p := &Prefs{path: path}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(b, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Save writes the preferences back to disk.
func (p *Prefs) Save() error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p.path, b, 0o600)
}

// SetDarkMode flips the persisted appearance preference.
func (p *Prefs) SetDarkMode(on bool) error {
	p.DarkMode = on
	return p.Save()
}

// SetToken stores or clears the session token.
func (p *Prefs) SetToken(token string) error {
	p.Token = token
	return p.Save()
}
