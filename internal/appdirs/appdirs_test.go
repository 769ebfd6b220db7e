package appdirs

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDataDirOverride(t *testing.T) {
	override := filepath.Join(t.TempDir(), "fotex-test")
	t.Setenv("FOTEX_DATA_DIR", override)

	path, err := DataDir()
	require.NoError(t, err)
	require.Equal(t, override, path)

	require.Equal(t, filepath.Join(override, "workspace"), WorkspaceDir(path))
	require.Equal(t, filepath.Join(override, "logs"), LogsDir(path))
	require.Equal(t, filepath.Join(override, "settings.json"), SettingsPath(path))
}
