// Package settings persists the user's editor choices between runs.
package settings

import (
	"encoding/json"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const schemaVersion = 1

type Settings struct {
	SchemaVersion int `json:"schema_version"`
	// SelectedModel overrides the configured default model when set.
	SelectedModel string `json:"selected_model,omitempty"`
	// BackendURL overrides the configured Ollama base URL when set.
	BackendURL string `json:"backend_url,omitempty"`
}

type Store struct {
	path string
	mu   sync.Mutex
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Load() (*Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() (*Settings, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultSettings(), nil
		}
		return nil, err
	}
	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, err
	}
	backfillSettings(&settings)
	return &settings, nil
}

func (s *Store) Save(settings *Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(settings)
}

func (s *Store) save(settings *Settings) error {
	backfillSettings(settings)
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Update applies fn to the stored settings and saves them under one lock.
func (s *Store) Update(fn func(*Settings)) (*Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	settings, err := s.load()
	if err != nil {
		return nil, err
	}
	fn(settings)
	return settings, s.save(settings)
}

func defaultSettings() *Settings {
	return &Settings{SchemaVersion: schemaVersion}
}

func backfillSettings(settings *Settings) {
	if settings.SchemaVersion == 0 {
		settings.SchemaVersion = schemaVersion
	}
	settings.SelectedModel = strings.TrimSpace(settings.SelectedModel)
	settings.BackendURL = strings.TrimRight(strings.TrimSpace(settings.BackendURL), "/")
	if settings.BackendURL != "" && !validBackendURL(settings.BackendURL) {
		settings.BackendURL = ""
	}
}

func validBackendURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}
