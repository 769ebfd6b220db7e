package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsRoundTrip(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nested", "settings.json"))
	settings, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, schemaVersion, settings.SchemaVersion)
	assert.Empty(t, settings.SelectedModel)
	assert.Empty(t, settings.BackendURL)

	settings.SelectedModel = "  qwen2.5:7b "
	settings.BackendURL = "http://gpu-box:11434/"
	require.NoError(t, store.Save(settings))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "qwen2.5:7b", loaded.SelectedModel)
	assert.Equal(t, "http://gpu-box:11434", loaded.BackendURL)
}

func TestSettingsBackfillDropsInvalidURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"backend_url":"gpu-box"}`), 0o600))

	loaded, err := NewStore(path).Load()
	require.NoError(t, err)
	assert.Equal(t, schemaVersion, loaded.SchemaVersion)
	assert.Empty(t, loaded.BackendURL)
}

func TestSettingsUpdate(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "settings.json"))
	updated, err := store.Update(func(s *Settings) { s.SelectedModel = "gemma3:4b" })
	require.NoError(t, err)
	assert.Equal(t, "gemma3:4b", updated.SelectedModel)

	_, err = store.Update(func(s *Settings) { s.BackendURL = "http://127.0.0.1:11434" })
	require.NoError(t, err)

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "gemma3:4b", loaded.SelectedModel)
	assert.Equal(t, "http://127.0.0.1:11434", loaded.BackendURL)
}

func TestSettingsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))
	_, err := NewStore(path).Load()
	require.Error(t, err)
}
