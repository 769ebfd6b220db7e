package appdirs

import (
	"os"
	"path/filepath"
)

const (
	appDirName = "fotex"
)

func DataDir() (string, error) {
	if override := os.Getenv("FOTEX_DATA_DIR"); override != "" {
		return override, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appDirName), nil
}

// WorkspaceDir is the fallback root used when the editor has no saved document yet.
func WorkspaceDir(dataDir string) string {
	return filepath.Join(dataDir, "workspace")
}

func LogsDir(dataDir string) string {
	return filepath.Join(dataDir, "logs")
}

func SettingsPath(dataDir string) string {
	return filepath.Join(dataDir, "settings.json")
}
