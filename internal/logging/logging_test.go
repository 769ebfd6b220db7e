package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileLoggerDisabledWithoutDebug(t *testing.T) {
	setup, err := NewFileLogger(t.TempDir(), false)
	require.NoError(t, err)
	assert.False(t, setup.Enabled)
	assert.NotNil(t, setup.Logger)
	assert.NoError(t, setup.Close())
}

func TestFileLoggerWritesJSON(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	setup, err := NewFileLogger(dir, true)
	require.NoError(t, err)
	require.True(t, setup.Enabled)

	setup.Logger.Info("compile.finished", "run_id", "abc")
	require.NoError(t, setup.Close())

	data, err := os.ReadFile(setup.Path)
	require.NoError(t, err)
	var record map[string]any
	require.NoError(t, json.Unmarshal(data, &record))
	assert.Equal(t, "compile.finished", record["msg"])
	assert.Equal(t, "abc", record["run_id"])
}

func TestRedactJSON(t *testing.T) {
	raw := json.RawMessage(`{"path":"/tmp/main.tex","content":"\\documentclass{article}","api_key":"sk-123456","nested":{"token":"abcdefgh"}}`)
	out, ok := RedactJSON(raw).(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "/tmp/main.tex", out["path"])
	assert.Equal(t, "<23 chars>", out["content"])
	assert.Equal(t, "****3456", out["api_key"])
	nested := out["nested"].(map[string]any)
	assert.Equal(t, "****efgh", nested["token"])
}

func TestRedactJSONInvalid(t *testing.T) {
	assert.Equal(t, "<3 bytes>", RedactJSON(json.RawMessage("{x}")))
	assert.Nil(t, RedactJSON(nil))
}
