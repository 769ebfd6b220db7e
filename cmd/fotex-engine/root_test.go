package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/dariafung/fotex/internal/engine"
	"github.com/dariafung/fotex/internal/filetree"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), err
}

func isolate(t *testing.T) string {
	t.Helper()
	dataDir := t.TempDir()
	t.Setenv("FOTEX_DATA_DIR", dataDir)
	t.Setenv("FOTEX_ENV_PATH", filepath.Join(dataDir, "none.env"))
	workspace := filepath.Join(dataDir, "workspace")
	t.Setenv("FOTEX_WORKSPACE_DIR", workspace)
	return workspace
}

func TestVersionFlag(t *testing.T) {
	out, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, engine.EngineVersion+"\n", out)
}

func TestSubcommandsRegistered(t *testing.T) {
	root := newRootCmd()
	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{"serve", "serve-http", "compile", "tree", "models", "ask"} {
		assert.Contains(t, names, want)
	}
}

func TestTreeJSON(t *testing.T) {
	workspace := isolate(t)
	require.NoError(t, os.MkdirAll(filepath.Join(workspace, "figs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(workspace, "main.tex"), []byte("x"), 0o644))

	out, err := execute(t, "tree", "--format", "json")
	require.NoError(t, err)
	var node filetree.Node
	require.NoError(t, json.Unmarshal([]byte(out), &node))
	assert.Equal(t, []string{"figs", "main.tex"}, node.Names())
}

func TestTreeFlagOverridesEnv(t *testing.T) {
	isolate(t)
	other := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(other, "paper.tex"), nil, 0o644))

	out, err := execute(t, "tree", "--workspace", other, "-f", "json")
	require.NoError(t, err)
	var node filetree.Node
	require.NoError(t, json.Unmarshal([]byte(out), &node))
	assert.Equal(t, []string{"paper.tex"}, node.Names())
}

func TestTreeRejectsUnknownFormat(t *testing.T) {
	isolate(t)
	_, err := execute(t, "tree", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestTreeMissingDirReportsCode(t *testing.T) {
	isolate(t)
	_, err := execute(t, "tree", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "FILE_NOT_FOUND"), err.Error())
}

func TestWriteTreeFormats(t *testing.T) {
	node := &filetree.Node{Name: "root", Path: "/r", IsDir: true, Children: []*filetree.Node{
		{Name: "sec", Path: "/r/sec", IsDir: true},
		{Name: "main.tex", Path: "/r/main.tex"},
	}}

	var buf bytes.Buffer
	require.NoError(t, writeTree(&buf, node, "yaml"))
	var decoded filetree.Node
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, []string{"sec", "main.tex"}, decoded.Names())

	buf.Reset()
	require.NoError(t, writeTree(&buf, node, "text"))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "sec/")
	assert.Equal(t, "  main.tex", lines[2])
}

func TestCompileWithoutCompilerReportsToolUnavailable(t *testing.T) {
	workspace := isolate(t)
	require.NoError(t, os.MkdirAll(workspace, 0o755))
	target := filepath.Join(workspace, "main.tex")
	require.NoError(t, os.WriteFile(target, []byte("\\documentclass{article}"), 0o644))

	_, err := execute(t, "compile", target, "--compiler", filepath.Join(t.TempDir(), "no-such-tectonic"))
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "TOOL_UNAVAILABLE"), err.Error())
}
